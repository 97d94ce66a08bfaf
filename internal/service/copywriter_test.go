package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStaticCopyWriter(t *testing.T) {
	w := StaticCopyWriter{}

	text, err := w.Generate(context.Background(), "Spring Gala", "2026-05-01")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Join us for Spring Gala on 2026-05-01. Register now to secure your spot!" {
		t.Fatalf("text = %q", text)
	}

	// A dateless event drops the date clause instead of rendering "on ".
	text, err = w.Generate(context.Background(), "Spring Gala", "  ")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "Join us for Spring Gala. Register now to secure your spot!" {
		t.Fatalf("dateless text = %q", text)
	}
}

func TestHTTPCopyWriter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"A night to remember."}`))
	}))
	defer srv.Close()

	w := &HTTPCopyWriter{URL: srv.URL, Client: srv.Client()}
	text, err := w.Generate(context.Background(), "Spring Gala", "2026-05-01")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "A night to remember." {
		t.Fatalf("text = %q", text)
	}
}

func TestHTTPCopyWriterErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"empty text", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"text":"   "}`))
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			w := &HTTPCopyWriter{URL: srv.URL, Client: srv.Client()}
			if _, err := w.Generate(context.Background(), "Spring Gala", "2026-05-01"); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestNewCopyWriter(t *testing.T) {
	if _, ok := NewCopyWriter("").(StaticCopyWriter); !ok {
		t.Fatal("empty URL should select the static writer")
	}
	if _, ok := NewCopyWriter("http://copy.internal/generate").(*HTTPCopyWriter); !ok {
		t.Fatal("configured URL should select the HTTP writer")
	}
}

func TestDescribeFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	srv.Close() // connection refused from here on

	w := &HTTPCopyWriter{URL: srv.URL}
	text := Describe(context.Background(), w, "Spring Gala", "2026-05-01")
	if !strings.Contains(text, "Spring Gala") {
		t.Fatalf("fallback text = %q, want the static template", text)
	}
}
