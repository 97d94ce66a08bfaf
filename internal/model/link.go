package model

import "time"

// EventLink maps a short opaque code to the event it registers for.
// Links live in the registry database because resolution happens before
// the tenant is known; they are the only place a tenant/event pair is
// referenced outside its partition.
//
// Fields:
//  Code      – unique short code, drawn from the code alphabet.
//  TenantID  – owning tenant of the target event.
//  EventID   – target event inside that tenant's partition.
//  CreatedAt – timestamp of creation.
type EventLink struct {
	Code      string    // event_links.code
	TenantID  string    // event_links.tenant_id
	EventID   string    // event_links.event_id
	CreatedAt time.Time // event_links.created_at
}
