package database

// registrySchema is the shared database: organizer accounts, refresh
// tokens and the short-link index.  Nothing tenant-owned lives here.
const registrySchema = `
CREATE TABLE IF NOT EXISTS organizers (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	tenant_id     TEXT      NOT NULL UNIQUE,
	display_name  TEXT      NOT NULL,
	password_hash TEXT      NOT NULL,
	created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS refresh_tokens (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	organizer_id INTEGER   NOT NULL REFERENCES organizers(id),
	token_hash   TEXT      NOT NULL UNIQUE,
	expires_at   TIMESTAMP NOT NULL,
	revoked_at   TIMESTAMP,
	created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS event_links (
	code       TEXT PRIMARY KEY,
	tenant_id  TEXT      NOT NULL,
	event_id   TEXT      NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// tenantSchema is applied to every tenant partition file.  Events and
// registrations never leave the partition; tenant_id is stored anyway
// so every query can scope on it the same way.
const tenantSchema = `
CREATE TABLE IF NOT EXISTS events (
	event_id        TEXT PRIMARY KEY,
	tenant_id       TEXT      NOT NULL,
	name            TEXT      NOT NULL,
	event_date      TEXT      NOT NULL,
	description     TEXT      NOT NULL DEFAULT '',
	collect_name    INTEGER   NOT NULL DEFAULT 1,
	collect_phone   INTEGER   NOT NULL DEFAULT 1,
	collect_email   INTEGER   NOT NULL DEFAULT 1,
	collect_company INTEGER   NOT NULL DEFAULT 0,
	collect_dietary INTEGER   NOT NULL DEFAULT 0,
	created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS registrations (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id      TEXT      NOT NULL REFERENCES events(event_id),
	tenant_id     TEXT      NOT NULL,
	guest_name    TEXT      NOT NULL DEFAULT '',
	phone         TEXT      NOT NULL DEFAULT '',
	email         TEXT      NOT NULL DEFAULT '',
	company       TEXT      NOT NULL DEFAULT '',
	dietary       TEXT      NOT NULL DEFAULT '',
	event_package TEXT      NOT NULL,
	ticket_id     TEXT      NOT NULL UNIQUE,
	registered_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	checked_in    INTEGER   NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_registrations_event ON registrations(event_id);
`
