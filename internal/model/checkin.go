package model

// CheckInStatus enumerates the outcomes of presenting a ticket at the
// door.  Repeated presentation of the same ticket is informational, not
// an error.
type CheckInStatus string

const (
	// CheckInNotFound means no registration carries the ticket for
	// this event and tenant.
	CheckInNotFound CheckInStatus = "NOT_FOUND"
	// CheckInDone means the ticket was valid and has just been marked
	// as used.
	CheckInDone CheckInStatus = "CHECKED_IN"
	// CheckInRepeat means the ticket had already been used before this
	// call; state is unchanged.
	CheckInRepeat CheckInStatus = "ALREADY_CHECKED_IN"
)

// CheckInResult is what the check-in workflow reports back.  GuestName
// is set whenever the ticket resolved to a registration, so door staff
// can greet the guest either way.
type CheckInResult struct {
	Status    CheckInStatus
	GuestName string
}
