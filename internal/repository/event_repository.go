// Package repository: data access for events.  An EventRepo is bound to
// one tenant partition; constructing it per request around the resolved
// partition handle is cheap and keeps every query inside the right
// file.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-registration/internal/model"
)

// ErrEventNotFound indicates that no event matched inside the tenant
// partition.  Cross-tenant lookups surface as this same error; nothing
// about other partitions leaks.
var ErrEventNotFound = errors.New("event not found")

// EventRepo manages persistence for events inside one tenant partition.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo over the given partition handle.
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// Create inserts a new event.  EventID, TenantID, Name, EventDate,
// Description and Fields must be set by the caller; CreatedAt is
// populated from the database default on return.  Events are never
// updated after this point.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events
	               (event_id, tenant_id, name, event_date, description,
	                collect_name, collect_phone, collect_email, collect_company, collect_dietary)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		e.EventID, e.TenantID, e.Name, e.EventDate, e.Description,
		e.Fields.Name, e.Fields.Phone, e.Fields.Email, e.Fields.Company, e.Fields.Dietary,
	)
	if err != nil {
		return err
	}
	// Fetch the DB-assigned creation timestamp.
	const sel = `SELECT created_at FROM events WHERE event_id = ?`
	return r.db.QueryRowContext(ctx, sel, e.EventID).Scan(&e.CreatedAt)
}

// ListByTenant returns the partition's events newest first.  Ties on
// created_at break on event_id so the order stays stable across calls.
// When no events exist it returns an empty slice and nil error.
func (r *EventRepo) ListByTenant(ctx context.Context, tenantID string) ([]model.Event, error) {
	const q = `SELECT event_id, tenant_id, name, event_date, description,
	                  collect_name, collect_phone, collect_email, collect_company, collect_dietary,
	                  created_at
	           FROM events
	           WHERE tenant_id = ?
	           ORDER BY created_at DESC, event_id DESC`
	rows, err := r.db.QueryContext(ctx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Event, 0)
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(
			&e.EventID, &e.TenantID, &e.Name, &e.EventDate, &e.Description,
			&e.Fields.Name, &e.Fields.Phone, &e.Fields.Email, &e.Fields.Company, &e.Fields.Dietary,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves one event.  Queries scope on both event_id and
// tenant_id, the same double key every partition query uses.  It
// returns ErrEventNotFound when there is no matching row.
func (r *EventRepo) GetByID(ctx context.Context, tenantID, eventID string) (*model.Event, error) {
	const q = `SELECT event_id, tenant_id, name, event_date, description,
	                  collect_name, collect_phone, collect_email, collect_company, collect_dietary,
	                  created_at
	           FROM events
	           WHERE event_id = ? AND tenant_id = ?`
	var e model.Event
	err := r.db.QueryRowContext(ctx, q, eventID, tenantID).Scan(
		&e.EventID, &e.TenantID, &e.Name, &e.EventDate, &e.Description,
		&e.Fields.Name, &e.Fields.Phone, &e.Fields.Email, &e.Fields.Company, &e.Fields.Dietary,
		&e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}
