package model

import "time"

// PackagePlaceholder is the unselected sentinel some clients send when
// the guest never touched the package picker.  It is always rejected.
const PackagePlaceholder = "Select package"

// Packages is the fixed set of event packages a guest can register
// under.
var Packages = []string{"Package A", "Package A+B"}

// ValidPackage reports whether p is a member of Packages.  The
// placeholder and the empty string are not.
func ValidPackage(p string) bool {
	for _, known := range Packages {
		if p == known {
			return true
		}
	}
	return false
}

// Registration is one guest's submitted entry for an event.  Guest
// fields the event does not collect stay empty; they are dropped before
// the row is written, even when a client sends them.
//
// Fields:
//  ID           – surrogate primary key, auto assigned.
//  EventID      – event this entry belongs to, same partition.
//  TenantID     – owning tenant, matches the partition it lives in.
//  GuestName    – guest's name, if collected.
//  Phone        – phone number, if collected.
//  Email        – email address, if collected.
//  Company      – company affiliation, if collected.
//  Dietary      – dietary preference, if collected.
//  EventPackage – selected package, member of Packages.
//  TicketID     – unique ticket token (TKT- prefix), used for check-in.
//  RegisteredAt – timestamp of submission.
//  CheckedIn    – whether the ticket has been used for entry.
type Registration struct {
	ID           uint64    // registrations.id
	EventID      string    // registrations.event_id
	TenantID     string    // registrations.tenant_id
	GuestName    string    // registrations.guest_name
	Phone        string    // registrations.phone
	Email        string    // registrations.email
	Company      string    // registrations.company
	Dietary      string    // registrations.dietary
	EventPackage string    // registrations.event_package
	TicketID     string    // registrations.ticket_id
	RegisteredAt time.Time // registrations.registered_at
	CheckedIn    bool      // registrations.checked_in
}
