package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens one SQLite database file, creating it if needed, applies
// the given schema and verifies the connection.
func Open(path, schema string) (*sql.DB, error) {
	// _busy_timeout makes same-file writers queue instead of failing |
	// _loc=UTC keeps scanned timestamps consistent
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on&_loc=UTC", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer per file; one pooled connection
	// sidesteps SQLITE_BUSY between our own goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
