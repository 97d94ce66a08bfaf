package utils

import "strings"

// SanitizeID reduces a free-form organizer name to a form that is safe
// to use as a storage partition key.  Every rune outside ASCII letters,
// digits, '-' and '_' is dropped, whitespace included, while the order
// of the surviving runes is preserved.  The function is deterministic
// and idempotent: applying it to an already sanitized value returns the
// value unchanged.
//
// Callers must sanitize exactly once, at the point where a tenant
// identifier becomes a storage key, and store only the sanitized form.
func SanitizeID(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}
