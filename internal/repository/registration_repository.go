package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-registration/internal/model"
	"github.com/iliyamo/event-registration/internal/utils"
)

// ticketAttempts bounds ticket regeneration when an insert hits the
// unique ticket constraint.
const ticketAttempts = 3

// RegistrationRepo provides persistence for guest registrations inside
// one tenant partition.  Like EventRepo it is constructed per request
// around the resolved partition handle.
type RegistrationRepo struct {
	db *sql.DB
}

// NewRegistrationRepo returns a RegistrationRepo bound to the given
// partition handle.
func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

// Create inserts a registration.  The ticket identifier is generated
// here, inside a bounded retry loop: a unique-constraint conflict draws
// a fresh ticket and retries the insert, and after ticketAttempts
// failed draws ErrTicketConflict is returned with nothing persisted.
// Each attempt is a single-row insert, so a failure never leaves
// partial field writes behind.  On success the surrogate ID, the
// ticket and the DB-assigned registered_at are populated on reg.
func (r *RegistrationRepo) Create(ctx context.Context, reg *model.Registration) error {
	const q = `INSERT INTO registrations
	               (event_id, tenant_id, guest_name, phone, email, company, dietary, event_package, ticket_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for attempt := 0; attempt < ticketAttempts; attempt++ {
		ticket, err := utils.NewTicketID()
		if err != nil {
			return err
		}
		res, err := r.db.ExecContext(ctx, q,
			reg.EventID, reg.TenantID, reg.GuestName, reg.Phone, reg.Email,
			reg.Company, reg.Dietary, reg.EventPackage, ticket,
		)
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		reg.ID = uint64(id)
		reg.TicketID = ticket
		const sel = `SELECT registered_at, checked_in FROM registrations WHERE id = ?`
		return r.db.QueryRowContext(ctx, sel, reg.ID).Scan(&reg.RegisteredAt, &reg.CheckedIn)
	}
	return ErrTicketConflict
}

// ListByEvent returns an event's registrations newest first, for the
// organizer dashboard.  When none exist it returns an empty slice and
// nil error.
func (r *RegistrationRepo) ListByEvent(ctx context.Context, tenantID, eventID string) ([]model.Registration, error) {
	const q = `SELECT id, event_id, tenant_id, guest_name, phone, email, company, dietary,
	                  event_package, ticket_id, registered_at, checked_in
	           FROM registrations
	           WHERE event_id = ? AND tenant_id = ?
	           ORDER BY registered_at DESC, id DESC`
	return r.list(ctx, q, eventID, tenantID)
}

// ExportByEvent returns the same rows oldest first, the order exports
// are written in.
func (r *RegistrationRepo) ExportByEvent(ctx context.Context, tenantID, eventID string) ([]model.Registration, error) {
	const q = `SELECT id, event_id, tenant_id, guest_name, phone, email, company, dietary,
	                  event_package, ticket_id, registered_at, checked_in
	           FROM registrations
	           WHERE event_id = ? AND tenant_id = ?
	           ORDER BY registered_at ASC, id ASC`
	return r.list(ctx, q, eventID, tenantID)
}

func (r *RegistrationRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Registration, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Registration, 0)
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(
			&reg.ID, &reg.EventID, &reg.TenantID, &reg.GuestName, &reg.Phone, &reg.Email,
			&reg.Company, &reg.Dietary, &reg.EventPackage, &reg.TicketID,
			&reg.RegisteredAt, &reg.CheckedIn,
		); err != nil {
			return nil, err
		}
		result = append(result, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountsByEvent returns the total number of registrations and how many
// of them are checked in.
func (r *RegistrationRepo) CountsByEvent(ctx context.Context, tenantID, eventID string) (total, checkedIn int64, err error) {
	const q = `SELECT COUNT(*), COALESCE(SUM(checked_in), 0)
	           FROM registrations
	           WHERE event_id = ? AND tenant_id = ?`
	err = r.db.QueryRowContext(ctx, q, eventID, tenantID).Scan(&total, &checkedIn)
	return total, checkedIn, err
}

// CheckIn marks a ticket as used for entry.  The flag flips only when
// it is still clear; under concurrent presentations of the same ticket
// exactly one caller observes CheckedIn and every other one
// AlreadyCheckedIn.  An unknown ticket for this event and tenant is a
// NotFound result, never an error.
func (r *RegistrationRepo) CheckIn(ctx context.Context, tenantID, eventID, ticketID string) (model.CheckInResult, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE registrations SET checked_in = 1
		 WHERE ticket_id = ? AND event_id = ? AND tenant_id = ? AND checked_in = 0`,
		ticketID, eventID, tenantID,
	)
	if err != nil {
		return model.CheckInResult{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.CheckInResult{}, err
	}

	var guest string
	err = r.db.QueryRowContext(ctx,
		`SELECT guest_name FROM registrations
		 WHERE ticket_id = ? AND event_id = ? AND tenant_id = ?`,
		ticketID, eventID, tenantID,
	).Scan(&guest)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CheckInResult{Status: model.CheckInNotFound}, nil
	}
	if err != nil {
		return model.CheckInResult{}, err
	}
	if n > 0 {
		return model.CheckInResult{Status: model.CheckInDone, GuestName: guest}, nil
	}
	return model.CheckInResult{Status: model.CheckInRepeat, GuestName: guest}, nil
}

// DeleteByEvent removes every registration of one event and reports how
// many rows went away.  The event itself is never deleted.
func (r *RegistrationRepo) DeleteByEvent(ctx context.Context, tenantID, eventID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM registrations WHERE event_id = ? AND tenant_id = ?`,
		eventID, tenantID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
