package utils

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// qrSize is the edge length in pixels of generated QR images.  256px
// scans reliably from both printed badges and phone screens.
const qrSize = 256

// QRPNG encodes payload into a PNG QR image at medium error
// correction.  Stateless; the payload must be short, either a bare
// ticket ID or a short registration link.  Long URLs with embedded
// query parameters decode unreliably on common scanners and are never
// encoded here.
func QRPNG(payload string) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, qrSize)
}

// LinkURL builds the public registration URL for a short code.  With an
// empty base URL the bare code is returned, which is still resolvable
// by anyone who knows the service address.
func LinkURL(baseURL, code string) string {
	if baseURL == "" {
		return code
	}
	return strings.TrimRight(baseURL, "/") + "/v1/links/" + code
}

// EventURL builds the direct public URL of an event, the fallback used
// when no short code exists.  With an empty base URL the path alone is
// returned.
func EventURL(baseURL, tenantID, eventID string) string {
	path := "/v1/tenants/" + tenantID + "/events/" + eventID
	if baseURL == "" {
		return path
	}
	return strings.TrimRight(baseURL, "/") + path
}
