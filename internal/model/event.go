package model

import "time"

// Guest field names as they appear in validation messages, exports and
// API payloads.  The set is fixed; events only choose which of them to
// collect.
const (
	FieldName    = "name"
	FieldPhone   = "phone"
	FieldEmail   = "email"
	FieldCompany = "company"
	FieldDietary = "dietary"
	FieldPackage = "package"
)

// FieldRequirements records which guest fields an event collects.  Name,
// phone and email are required whenever collected; company and dietary
// preference are optional even when collected.  The choice is fixed at
// event creation and never changes afterwards.
//
// Fields:
//  Name    – collect the guest's name.
//  Phone   – collect a phone number.
//  Email   – collect an email address.
//  Company – collect a company affiliation (optional when collected).
//  Dietary – collect a dietary preference (optional when collected).
type FieldRequirements struct {
	Name    bool // events.collect_name
	Phone   bool // events.collect_phone
	Email   bool // events.collect_email
	Company bool // events.collect_company
	Dietary bool // events.collect_dietary
}

// DefaultFieldRequirements returns the configuration events start from:
// name, phone and email collected and required, company and dietary
// preference not collected.
func DefaultFieldRequirements() FieldRequirements {
	return FieldRequirements{Name: true, Phone: true, Email: true}
}

// CollectedFields returns the names of the guest fields this event
// collects, in display order.
func (f FieldRequirements) CollectedFields() []string {
	var out []string
	if f.Name {
		out = append(out, FieldName)
	}
	if f.Phone {
		out = append(out, FieldPhone)
	}
	if f.Email {
		out = append(out, FieldEmail)
	}
	if f.Company {
		out = append(out, FieldCompany)
	}
	if f.Dietary {
		out = append(out, FieldDietary)
	}
	return out
}

// RequiredFields returns the collected fields that must be non-empty at
// submission time.
func (f FieldRequirements) RequiredFields() []string {
	var out []string
	if f.Name {
		out = append(out, FieldName)
	}
	if f.Phone {
		out = append(out, FieldPhone)
	}
	if f.Email {
		out = append(out, FieldEmail)
	}
	return out
}

// Event represents one occasion guests can register for, stored inside
// the owning tenant's partition.  The date is free text exactly as the
// organizer entered it.  Events are created once and never updated or
// deleted; only their registrations can be cleared.
//
// Fields:
//  EventID     – unique identifier inside the partition (EVT- prefix).
//  TenantID    – owning tenant, matches the partition it lives in.
//  Name        – event title.
//  EventDate   – free text date.
//  Description – free text blurb, possibly produced by the copy service.
//  Fields      – which guest fields registration collects.
//  CreatedAt   – timestamp of creation.
type Event struct {
	EventID     string            // events.event_id
	TenantID    string            // events.tenant_id
	Name        string            // events.name
	EventDate   string            // events.event_date
	Description string            // events.description
	Fields      FieldRequirements // events.collect_* flags
	CreatedAt   time.Time         // events.created_at
}
