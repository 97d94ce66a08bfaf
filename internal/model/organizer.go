package model

import "time"

// Organizer represents a tenant account as stored in the registry
// database.  The TenantID is the sanitized form of the organization
// name and is the only form ever used as a key; DisplayName keeps the
// name as typed for presentation.  Handlers define separate response
// types with JSON tags, so none are attached here.
//
// Fields:
//  ID           – primary key identifier of the account.
//  TenantID     – sanitized organization name, unique, the partition key.
//  DisplayName  – organization name as typed, trimmed.
//  PasswordHash – bcrypt hashed credential.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type Organizer struct {
	ID           uint64    // organizers.id
	TenantID     string    // organizers.tenant_id
	DisplayName  string    // organizers.display_name
	PasswordHash string    // organizers.password_hash
	CreatedAt    time.Time // organizers.created_at
	UpdatedAt    time.Time // organizers.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table of the
// registry database.  Each token belongs to an organizer; the raw
// value is never stored, only its SHA-256 hash.
//
// Fields:
//  ID          – primary key identifier.
//  OrganizerID – owner of the token.
//  TokenHash   – SHA-256 hex digest of the raw token.
//  ExpiresAt   – expiration timestamp.
//  RevokedAt   – when the token was revoked (nil while active).
//  CreatedAt   – timestamp of creation.
type RefreshToken struct {
	ID          uint64     // refresh_tokens.id
	OrganizerID uint64     // refresh_tokens.organizer_id
	TokenHash   string     // refresh_tokens.token_hash
	ExpiresAt   time.Time  // refresh_tokens.expires_at
	RevokedAt   *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt   time.Time  // refresh_tokens.created_at
}
