package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/iliyamo/event-registration/internal/database"
	"github.com/iliyamo/event-registration/internal/model"
	"github.com/iliyamo/event-registration/internal/utils"
)

// newManager returns a partition manager rooted in a fresh temp dir.
func newManager(t *testing.T) *database.Manager {
	t.Helper()
	m, err := database.NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() {
		if err := m.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return m
}

// tenantDB resolves a tenant partition for tests.
func tenantDB(t *testing.T, m *database.Manager, name string) (*sql.DB, string) {
	t.Helper()
	db, id, err := m.Tenant(name)
	if err != nil {
		t.Fatalf("Tenant(%q): %v", name, err)
	}
	return db, id
}

// seedEvent creates an event with default field requirements inside the
// given partition.
func seedEvent(t *testing.T, db *sql.DB, tenantID, name string) *model.Event {
	t.Helper()
	e := &model.Event{
		EventID:   utils.NewEventID(),
		TenantID:  tenantID,
		Name:      name,
		EventDate: "2026-05-01",
		Fields:    model.DefaultFieldRequirements(),
	}
	if err := NewEventRepo(db).Create(context.Background(), e); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return e
}

// seedRegistration creates one registration for the event.
func seedRegistration(t *testing.T, db *sql.DB, e *model.Event, guest string) *model.Registration {
	t.Helper()
	reg := &model.Registration{
		EventID:      e.EventID,
		TenantID:     e.TenantID,
		GuestName:    guest,
		Phone:        "5551234",
		Email:        guest + "@example.com",
		EventPackage: model.Packages[0],
	}
	if err := NewRegistrationRepo(db).Create(context.Background(), reg); err != nil {
		t.Fatalf("seed registration: %v", err)
	}
	return reg
}
