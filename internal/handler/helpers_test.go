package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-registration/internal/config"
	"github.com/iliyamo/event-registration/internal/database"
	"github.com/iliyamo/event-registration/internal/model"
	"github.com/iliyamo/event-registration/internal/repository"
	"github.com/iliyamo/event-registration/internal/service"
	"github.com/iliyamo/event-registration/internal/utils"
)

// testEnv wires handler dependencies over a fresh temp data dir.
type testEnv struct {
	cfg        config.Config
	dataDir    string
	partitions *database.Manager
	organizers *repository.OrganizerRepo
	tokens     *repository.TokenRepo
	links      *repository.LinkRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	m, err := database.NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() {
		if err := m.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return &testEnv{
		cfg: config.Config{
			Env:            "test",
			Port:           "0",
			DataDir:        dir,
			BaseURL:        "https://reg.test",
			JWTSecret:      "test-secret",
			AccessTTLMin:   30,
			RefreshTTLDays: 7,
			BcryptCost:     4,
		},
		dataDir:    dir,
		partitions: m,
		organizers: repository.NewOrganizerRepo(m.Registry()),
		tokens:     repository.NewTokenRepo(m.Registry()),
		links:      repository.NewLinkRepo(m.Registry()),
	}
}

func (env *testEnv) auth() *AuthHandler {
	return NewAuthHandler(env.cfg, env.organizers, env.tokens)
}

func (env *testEnv) organizer() *OrganizerHandler {
	return NewOrganizerHandler(env.cfg, env.partitions, env.links, service.StaticCopyWriter{})
}

func (env *testEnv) registrations() *OrganizerRegistrationHandler {
	return NewOrganizerRegistrationHandler(env.partitions)
}

func (env *testEnv) guest() *GuestHandler {
	return NewGuestHandler(env.cfg, env.partitions, env.organizers, env.links)
}

// seedEvent persists an event directly through the repositories,
// bypassing the create handler.
func (env *testEnv) seedEvent(t *testing.T, tenant, name string, fields model.FieldRequirements) *model.Event {
	t.Helper()
	db, tid, err := env.partitions.Tenant(tenant)
	if err != nil {
		t.Fatalf("Tenant(%q): %v", tenant, err)
	}
	e := &model.Event{
		EventID:   utils.NewEventID(),
		TenantID:  tid,
		Name:      name,
		EventDate: "2026-05-01",
		Fields:    fields,
	}
	if err := repository.NewEventRepo(db).Create(context.Background(), e); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return e
}

// seedRegistration persists one registration for the event.
func (env *testEnv) seedRegistration(t *testing.T, e *model.Event, guest string) *model.Registration {
	t.Helper()
	db, _, err := env.partitions.Tenant(e.TenantID)
	if err != nil {
		t.Fatalf("Tenant(%q): %v", e.TenantID, err)
	}
	reg := &model.Registration{
		EventID:      e.EventID,
		TenantID:     e.TenantID,
		GuestName:    guest,
		Phone:        "5551234",
		Email:        strings.ToLower(strings.ReplaceAll(guest, " ", ".")) + "@example.com",
		EventPackage: model.Packages[0],
	}
	if err := repository.NewRegistrationRepo(db).Create(context.Background(), reg); err != nil {
		t.Fatalf("seed registration: %v", err)
	}
	return reg
}

// jsonCtx builds an echo context carrying a JSON request body.
func jsonCtx(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// asOrganizer marks the context the way the JWT middleware would after
// validating a token.
func asOrganizer(c echo.Context, organizerID uint64, tenant string) {
	c.Set("organizer_id", float64(organizerID))
	c.Set("tenant_id", tenant)
	c.Set("role", RoleOrganizer)
}

// decode unmarshals a recorded JSON body.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return m
}

// strList converts a decoded JSON array to strings.
func strList(t *testing.T, v any) []string {
	t.Helper()
	arr, ok := v.([]any)
	if !ok {
		t.Fatalf("expected array, got %T (%v)", v, v)
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			t.Fatalf("expected string element, got %T", item)
		}
		out = append(out, s)
	}
	return out
}
