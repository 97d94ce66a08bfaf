package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// CopyWriter drafts a short event description from the event's name and
// date. Implementations must be safe for concurrent use.
type CopyWriter interface {
	Generate(ctx context.Context, name, date string) (string, error)
}

// StaticCopyWriter renders a fixed template. It never fails, which makes
// it the fallback for every other implementation.
type StaticCopyWriter struct{}

func (StaticCopyWriter) Generate(_ context.Context, name, date string) (string, error) {
	name = strings.TrimSpace(name)
	date = strings.TrimSpace(date)
	if date == "" {
		return fmt.Sprintf("Join us for %s. Register now to secure your spot!", name), nil
	}
	return fmt.Sprintf("Join us for %s on %s. Register now to secure your spot!", name, date), nil
}

// HTTPCopyWriter asks an external copy generator for a description. The
// request is a small JSON POST; the timeout is short because callers
// block event creation on it.
type HTTPCopyWriter struct {
	URL    string
	Client *http.Client
}

type copyRequest struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

type copyResponse struct {
	Text string `json:"text"`
}

func (w *HTTPCopyWriter) Generate(ctx context.Context, name, date string) (string, error) {
	body, err := json.Marshal(copyRequest{Name: name, Date: date})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	client := w.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("copy service returned %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", err
	}
	var out copyResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Text) == "" {
		return "", fmt.Errorf("copy service returned empty text")
	}
	return out.Text, nil
}

// NewCopyWriter picks the HTTP implementation when a URL is configured
// and the static template otherwise.
func NewCopyWriter(url string) CopyWriter {
	if strings.TrimSpace(url) == "" {
		return StaticCopyWriter{}
	}
	return &HTTPCopyWriter{URL: url, Client: &http.Client{Timeout: 5 * time.Second}}
}

// Describe generates a description and never fails: any error from the
// configured writer is logged and answered with the static template.
func Describe(ctx context.Context, w CopyWriter, name, date string) string {
	if w == nil {
		w = StaticCopyWriter{}
	}
	text, err := w.Generate(ctx, name, date)
	if err != nil {
		log.Printf("copywriter: generate failed, using static template: %v", err)
		text, _ = StaticCopyWriter{}.Generate(ctx, name, date)
	}
	return text
}
