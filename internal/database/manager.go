package database

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/iliyamo/event-registration/internal/utils"
)

// ErrInvalidTenant is returned when a tenant name sanitizes to the
// empty string and therefore cannot name a partition.
var ErrInvalidTenant = errors.New("invalid tenant identifier")

// Manager hands out database handles: one shared registry plus one
// SQLite partition file per tenant, opened lazily and cached for the
// life of the process.  Partition resolution is the single place a
// tenant name is sanitized into a storage key; callers may pass either
// the raw or the sanitized form and always land on the same file.
type Manager struct {
	dir      string
	registry *sql.DB

	mu      sync.RWMutex
	tenants map[string]*sql.DB
}

// NewManager creates the data directory layout under dir and opens the
// registry database.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Join(dir, "tenants"), 0o755); err != nil {
		return nil, err
	}
	reg, err := Open(filepath.Join(dir, "registry.db"), registrySchema)
	if err != nil {
		return nil, err
	}
	return &Manager{
		dir:      dir,
		registry: reg,
		tenants:  make(map[string]*sql.DB),
	}, nil
}

// Registry returns the shared registry handle.
func (m *Manager) Registry() *sql.DB { return m.registry }

// Tenant resolves a tenant name to its partition.  It returns the
// cached or freshly opened handle together with the sanitized tenant
// identifier, which is the only form callers may persist or embed in
// tokens.  A name that sanitizes to nothing yields ErrInvalidTenant.
func (m *Manager) Tenant(name string) (*sql.DB, string, error) {
	id := utils.SanitizeID(name)
	if id == "" {
		return nil, "", ErrInvalidTenant
	}

	m.mu.RLock()
	db, ok := m.tenants[id]
	m.mu.RUnlock()
	if ok {
		return db, id, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if db, ok := m.tenants[id]; ok {
		return db, id, nil
	}
	db, err := Open(filepath.Join(m.dir, "tenants", id+".db"), tenantSchema)
	if err != nil {
		return nil, "", err
	}
	m.tenants[id] = db
	return db, id, nil
}

// Close closes every open handle.  The first error wins; remaining
// handles are still closed.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var first error
	for _, db := range m.tenants {
		if err := db.Close(); err != nil && first == nil {
			first = err
		}
	}
	if err := m.registry.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
