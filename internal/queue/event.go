// Package queue defines message payloads exchanged over the message broker.
package queue

// RegistrationConfirmedEvent is published after a guest registration is
// committed to the tenant partition. It carries everything a downstream
// consumer needs to log or notify without touching the database.
type RegistrationConfirmedEvent struct {
	TenantID     string `json:"tenant_id"`
	EventID      string `json:"event_id"`
	EventName    string `json:"event_name"`
	TicketID     string `json:"ticket_id"`
	GuestName    string `json:"guest_name"`
	EventPackage string `json:"package"`
	RegisteredAt string `json:"registered_at"`
}
