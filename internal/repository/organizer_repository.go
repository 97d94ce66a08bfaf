package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/event-registration/internal/model"
	"github.com/iliyamo/event-registration/internal/utils"
)

// ErrNameExists is returned when another account already claimed the
// same sanitized organization name.
var ErrNameExists = errors.New("organization name already exists")

// ErrOrganizerNotFound is returned when no account matches the lookup.
var ErrOrganizerNotFound = errors.New("organizer not found")

// OrganizerRepo persists tenant accounts in the registry database.
type OrganizerRepo struct{ DB *sql.DB }

func NewOrganizerRepo(db *sql.DB) *OrganizerRepo { return &OrganizerRepo{DB: db} }

// Create inserts an organizer account and returns the stored row.  The
// display name is trimmed and its sanitized form becomes the tenant
// identifier, the only form ever written; the password is hashed with
// bcrypt at the given cost.  The caller must have rejected names that
// sanitize to nothing.
func (r *OrganizerRepo) Create(ctx context.Context, displayName, password string, cost int) (model.Organizer, error) {
	displayName = strings.TrimSpace(displayName)
	tenantID := utils.SanitizeID(displayName)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.Organizer{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO organizers (tenant_id, display_name, password_hash) VALUES (?,?,?)",
		tenantID, displayName, hash)
	if err != nil {
		if isUniqueViolation(err) {
			return model.Organizer{}, ErrNameExists
		}
		return model.Organizer{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Organizer{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByTenant fetches an account by organization name.  The name is
// reduced to its sanitized form first, so the raw and sanitized
// spellings resolve identically.  Returns ErrOrganizerNotFound on miss.
func (r *OrganizerRepo) GetByTenant(ctx context.Context, name string) (model.Organizer, error) {
	tenantID := utils.SanitizeID(name)
	var o model.Organizer
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,tenant_id,display_name,password_hash,created_at,updated_at FROM organizers WHERE tenant_id=? LIMIT 1",
		tenantID).Scan(&o.ID, &o.TenantID, &o.DisplayName, &o.PasswordHash, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Organizer{}, ErrOrganizerNotFound
	}
	return o, err
}

// GetByID fetches an account by primary key.  Returns
// ErrOrganizerNotFound on miss.
func (r *OrganizerRepo) GetByID(ctx context.Context, id uint64) (model.Organizer, error) {
	var o model.Organizer
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,tenant_id,display_name,password_hash,created_at,updated_at FROM organizers WHERE id=? LIMIT 1",
		id).Scan(&o.ID, &o.TenantID, &o.DisplayName, &o.PasswordHash, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Organizer{}, ErrOrganizerNotFound
	}
	return o, err
}
