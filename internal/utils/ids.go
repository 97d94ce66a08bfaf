package utils

import (
	"crypto/rand"
	"strings"

	"github.com/google/uuid"
)

// codeAlphabet is the character set for short registration codes.  It
// omits easily confused characters (0/O, 1/I) and its length divides
// 256 evenly, so a plain modulo over random bytes stays uniform.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewEventID returns a fresh event identifier of the form EVT-<uuid>.
// Random identifiers keep two events created within the same second
// from colliding, which name+timestamp schemes cannot guarantee.
func NewEventID() string {
	return "EVT-" + uuid.New().String()
}

// NewTicketID returns a ticket identifier of the form TKT-<32 hex
// chars>.  The random part comes from crypto/rand, so identifiers stay
// collision resistant even when many registrations for the same event
// arrive within the same clock tick.
func NewTicketID() (string, error) {
	raw, err := randomHex(16)
	if err != nil {
		return "", err
	}
	return "TKT-" + strings.ToUpper(raw), nil
}

// NewShortCode returns an opaque token of n characters drawn from
// codeAlphabet.  Short codes stand in for parameterized registration
// URLs inside QR images; everything else is resolved server side.
func NewShortCode(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}
