// Package repository contains the data access layer.  Registry-backed
// repositories (organizers, refresh tokens, event links) are built once
// around the shared registry handle; event and registration
// repositories are built per request around the partition handle the
// current tenant resolved to.  Sentinel errors let handlers map storage
// outcomes onto the response taxonomy without inspecting driver
// errors.
package repository

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrTicketConflict is returned when a registration insert kept hitting
// the unique ticket constraint and the bounded retry ran out.  Handlers
// translate it into a transient-failure response asking the guest to
// resubmit.
var ErrTicketConflict = errors.New("ticket conflict")

// ErrLinkConflict is the short-code counterpart: every drawn code was
// already taken.  The event survives without a code; its direct URL
// remains usable.
var ErrLinkConflict = errors.New("link conflict")

// isUniqueViolation reports whether err is a SQLite unique or primary
// key constraint failure.  Both codes matter here: ticket_id carries a
// UNIQUE index while event_links.code is the primary key.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique ||
		se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
