package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-registration/internal/model"
	"github.com/iliyamo/event-registration/internal/utils"
)

// codeLength is how many characters a short registration code carries.
// Ten characters over a 32 character alphabet leave collisions to the
// bounded retry below.
const codeLength = 10

// codeAttempts bounds code regeneration on insert conflicts.
const codeAttempts = 3

// ErrLinkNotFound indicates that a short code does not resolve.
var ErrLinkNotFound = errors.New("link not found")

// LinkRepo persists the short-code index in the registry database.  A
// code is the only thing a registration QR carries; resolving it yields
// the tenant and event the guest is registering for.
type LinkRepo struct{ DB *sql.DB }

func NewLinkRepo(db *sql.DB) *LinkRepo { return &LinkRepo{DB: db} }

// Create draws short codes until one inserts cleanly, bounded by
// codeAttempts, and returns the stored link.  On exhaustion it returns
// ErrLinkConflict; the event keeps working through its direct URL.
func (r *LinkRepo) Create(ctx context.Context, tenantID, eventID string) (model.EventLink, error) {
	const q = `INSERT INTO event_links (code, tenant_id, event_id) VALUES (?, ?, ?)`
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := utils.NewShortCode(codeLength)
		if err != nil {
			return model.EventLink{}, err
		}
		if _, err := r.DB.ExecContext(ctx, q, code, tenantID, eventID); err != nil {
			if isUniqueViolation(err) {
				continue
			}
			return model.EventLink{}, err
		}
		return r.GetByCode(ctx, code)
	}
	return model.EventLink{}, ErrLinkConflict
}

// GetByCode resolves a short code to its link row.  Returns
// ErrLinkNotFound when the code was never issued.
func (r *LinkRepo) GetByCode(ctx context.Context, code string) (model.EventLink, error) {
	var l model.EventLink
	err := r.DB.QueryRowContext(ctx,
		"SELECT code, tenant_id, event_id, created_at FROM event_links WHERE code=? LIMIT 1",
		code).Scan(&l.Code, &l.TenantID, &l.EventID, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.EventLink{}, ErrLinkNotFound
	}
	return l, err
}

// GetByEvent returns the code issued for an event, if any.  The oldest
// one wins should an event ever hold several.
func (r *LinkRepo) GetByEvent(ctx context.Context, tenantID, eventID string) (model.EventLink, error) {
	var l model.EventLink
	err := r.DB.QueryRowContext(ctx,
		`SELECT code, tenant_id, event_id, created_at FROM event_links
		 WHERE tenant_id=? AND event_id=? ORDER BY created_at ASC, code ASC LIMIT 1`,
		tenantID, eventID).Scan(&l.Code, &l.TenantID, &l.EventID, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.EventLink{}, ErrLinkNotFound
	}
	return l, err
}
