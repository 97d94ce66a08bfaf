package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/event-registration/internal/model"
)

func TestEventCreateAndGet(t *testing.T) {
	m := newManager(t)
	db, tenantID := tenantDB(t, m, "Acme Corp")
	ctx := context.Background()

	want := &model.Event{
		EventID:     "EVT-11111111-2222-3333-4444-555555555555",
		TenantID:    tenantID,
		Name:        "Spring Gala",
		EventDate:   "2026-05-01",
		Description: "An evening of music.",
		Fields:      model.FieldRequirements{Name: true, Phone: true, Email: true, Company: true, Dietary: true},
	}
	if err := NewEventRepo(db).Create(ctx, want); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if want.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not populated from the database")
	}

	got, err := NewEventRepo(db).GetByID(ctx, tenantID, want.EventID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != want.Name || got.EventDate != want.EventDate || got.Description != want.Description {
		t.Fatalf("round trip mismatch: got %+v", got)
	}
	if got.Fields != want.Fields {
		t.Fatalf("field requirements mismatch: got %+v, want %+v", got.Fields, want.Fields)
	}
}

func TestEventListNewestFirst(t *testing.T) {
	m := newManager(t)
	db, tenantID := tenantDB(t, m, "acme")
	ctx := context.Background()

	// Insert with explicit creation times; CURRENT_TIMESTAMP has only
	// second precision, which would tie during a test run.
	rows := []struct{ id, name, created string }{
		{"EVT-a", "oldest", "2026-01-01 10:00:00"},
		{"EVT-b", "middle", "2026-02-01 10:00:00"},
		{"EVT-c", "newest", "2026-03-01 10:00:00"},
	}
	for _, r := range rows {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO events (event_id, tenant_id, name, event_date, created_at) VALUES (?, ?, ?, '2026-06-01', ?)`,
			r.id, tenantID, r.name, r.created,
		); err != nil {
			t.Fatalf("insert %s: %v", r.id, err)
		}
	}

	list, err := NewEventRepo(db).ListByTenant(ctx, tenantID)
	if err != nil {
		t.Fatalf("ListByTenant: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("got %d events, want 3", len(list))
	}
	for i, wantName := range []string{"newest", "middle", "oldest"} {
		if list[i].Name != wantName {
			t.Fatalf("position %d is %q, want %q", i, list[i].Name, wantName)
		}
	}
}

func TestEventCrossTenantIsolation(t *testing.T) {
	m := newManager(t)
	dbA, tenantA := tenantDB(t, m, "alpha")
	dbB, tenantB := tenantDB(t, m, "beta")
	ctx := context.Background()

	e := seedEvent(t, dbA, tenantA, "Alpha Meetup")

	// A valid event ID must not resolve through another tenant's
	// partition, and the miss must read as not-found.
	if _, err := NewEventRepo(dbB).GetByID(ctx, tenantB, e.EventID); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("cross-partition GetByID err = %v, want ErrEventNotFound", err)
	}
	// Nor through the right partition under the wrong tenant scope.
	if _, err := NewEventRepo(dbA).GetByID(ctx, tenantB, e.EventID); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("wrong-scope GetByID err = %v, want ErrEventNotFound", err)
	}

	list, err := NewEventRepo(dbB).ListByTenant(ctx, tenantB)
	if err != nil {
		t.Fatalf("ListByTenant: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("tenant beta lists %d events, want 0", len(list))
	}
}

func TestEventGetUnknownID(t *testing.T) {
	m := newManager(t)
	db, tenantID := tenantDB(t, m, "acme")

	_, err := NewEventRepo(db).GetByID(context.Background(), tenantID, "EVT-does-not-exist")
	if !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("err = %v, want ErrEventNotFound", err)
	}
}
