package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-registration/internal/config"
	"github.com/iliyamo/event-registration/internal/database"
	"github.com/iliyamo/event-registration/internal/handler"
	"github.com/iliyamo/event-registration/internal/middleware"
	"github.com/iliyamo/event-registration/internal/model"
	"github.com/iliyamo/event-registration/internal/repository"
	"github.com/iliyamo/event-registration/internal/service"
)

// newServer wires the full HTTP surface against a throwaway data
// directory, exactly as cmd/server does, minus Redis and RabbitMQ.
func newServer(t *testing.T) *echo.Echo {
	t.Helper()

	dir := t.TempDir()
	partitions, err := database.NewManager(dir)
	if err != nil {
		t.Fatalf("open data dir: %v", err)
	}
	t.Cleanup(func() { partitions.Close() })

	cfg := config.Config{
		Env:            "test",
		Port:           "0",
		DataDir:        dir,
		BaseURL:        "https://reg.test",
		JWTSecret:      "router-test-secret",
		AccessTTLMin:   30,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}

	reg := partitions.Registry()
	organizers := repository.NewOrganizerRepo(reg)
	tokens := repository.NewTokenRepo(reg)
	links := repository.NewLinkRepo(reg)

	e := echo.New()
	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(cfg, organizers, tokens), cfg.JWTSecret)
	RegisterOrganizer(e,
		handler.NewOrganizerHandler(cfg, partitions, links, service.StaticCopyWriter{}),
		handler.NewOrganizerRegistrationHandler(partitions),
		cfg.JWTSecret,
	)
	RegisterGuest(e,
		handler.NewGuestHandler(cfg, partitions, organizers, links),
		middleware.NewRedisCache(config.CacheConfig{}, nil),
		middleware.NewTokenBucket(config.RateLimitConfig{}, nil),
	)
	return e
}

func do(e *echo.Echo, method, target, token, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestHealth(t *testing.T) {
	e := newServer(t)
	rec := do(e, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

// TestRegistrationFlow drives the whole lifecycle end to end through
// the router: organizer signup, event creation, guest registration via
// the short link, check-in with repeat, and the CSV export.
func TestRegistrationFlow(t *testing.T) {
	e := newServer(t)

	// ---- organizer signs up ----
	rec := do(e, http.MethodPost, "/v1/auth/register", "",
		`{"name":"Acme Corp","password":"s3cret-pw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register = %d: %s", rec.Code, rec.Body.String())
	}
	auth := decodeBody(t, rec)
	token, _ := auth["access"].(map[string]any)["token"].(string)
	if token == "" {
		t.Fatal("register returned no access token")
	}

	// ---- event creation ----
	rec = do(e, http.MethodPost, "/v1/events", token,
		`{"name":"Spring Gala","event_date":"2026-05-01"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create event = %d: %s", rec.Code, rec.Body.String())
	}
	event := decodeBody(t, rec)
	eventID, _ := event["event_id"].(string)
	code, _ := event["short_code"].(string)
	if eventID == "" || len(code) != 10 {
		t.Fatalf("event_id = %q, short_code = %q", eventID, code)
	}
	if url, _ := event["registration_url"].(string); !strings.HasSuffix(url, "/v1/links/"+code) {
		t.Fatalf("registration_url = %q", url)
	}

	// ---- guest resolves the link, no auth ----
	rec = do(e, http.MethodGet, "/v1/links/"+code, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve link = %d: %s", rec.Code, rec.Body.String())
	}
	public := decodeBody(t, rec)
	if got, _ := public["event_id"].(string); got != eventID {
		t.Fatalf("resolved event_id = %q, want %q", got, eventID)
	}
	pkgs, _ := public["packages"].([]any)
	if len(pkgs) == 0 {
		t.Fatal("resolved event lists no packages")
	}
	pkg := pkgs[0].(string)

	// ---- guest registers ----
	rec = do(e, http.MethodPost, "/v1/links/"+code+"/registrations", "",
		`{"name":"Grace Hopper","phone":"5550100","email":"grace@example.com","package":"`+pkg+`"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("guest register = %d: %s", rec.Code, rec.Body.String())
	}
	regBody := decodeBody(t, rec)
	ticket, _ := regBody["ticket_id"].(string)
	if !strings.HasPrefix(ticket, "TKT-") {
		t.Fatalf("ticket_id = %q", ticket)
	}

	// ---- check-in, then the inevitable second scan ----
	rec = do(e, http.MethodPost, "/v1/events/"+eventID+"/checkin", token,
		`{"ticket_id":"`+ticket+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("checkin = %d: %s", rec.Code, rec.Body.String())
	}
	checked := decodeBody(t, rec)
	if checked["status"] != string(model.CheckInDone) || checked["guest_name"] != "Grace Hopper" {
		t.Fatalf("checkin body = %v", checked)
	}

	rec = do(e, http.MethodPost, "/v1/events/"+eventID+"/checkin", token,
		`{"ticket_id":"`+ticket+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat checkin = %d: %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["status"] != string(model.CheckInRepeat) {
		t.Fatalf("repeat checkin body = %v", body)
	}

	// ---- organizer sees the attendance ----
	rec = do(e, http.MethodGet, "/v1/events/"+eventID+"/registrations", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list registrations = %d: %s", rec.Code, rec.Body.String())
	}
	list := decodeBody(t, rec)
	if list["total"] != float64(1) || list["checked_in"] != float64(1) {
		t.Fatalf("totals = %v / %v", list["total"], list["checked_in"])
	}

	rec = do(e, http.MethodGet, "/v1/events/"+eventID+"/registrations/export", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("export = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("export content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "Grace Hopper") {
		t.Fatalf("export missing guest: %s", rec.Body.String())
	}
}

func TestOrganizerRoutesRequireToken(t *testing.T) {
	e := newServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"garbage token", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodGet, "/v1/events", tt.header, "")
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestMeReportsTokenClaims(t *testing.T) {
	e := newServer(t)

	rec := do(e, http.MethodPost, "/v1/auth/register", "",
		`{"name":"Acme Corp","password":"s3cret-pw"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register = %d: %s", rec.Code, rec.Body.String())
	}
	token, _ := decodeBody(t, rec)["access"].(map[string]any)["token"].(string)

	rec = do(e, http.MethodGet, "/v1/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me = %d: %s", rec.Code, rec.Body.String())
	}
	me := decodeBody(t, rec)
	if me["tenant_id"] != "AcmeCorp" || me["role"] != handler.RoleOrganizer {
		t.Fatalf("me body = %v", me)
	}
}
