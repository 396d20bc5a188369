package server

import (
	"net/http"
	"strings"
)

// DefaultAPIVersion is assumed when the client does not ask for a
// specific version via the Accept header.
const DefaultAPIVersion = "v1"

// vendorMediaPrefix is the vendor media type prefix used for API version
// negotiation: application/vnd.erptools.preflight.v1+json.
const vendorMediaPrefix = "application/vnd.erptools.preflight."

// negotiateAPIVersion extracts the requested API version from the Accept
// header. Unknown or malformed versions fall back to the default.
func negotiateAPIVersion(r *http.Request) string {
	accept := r.Header.Get("Accept")
	for _, part := range strings.Split(accept, ",") {
		part = strings.TrimSpace(part)
		if !strings.HasPrefix(part, vendorMediaPrefix) {
			continue
		}
		rest := strings.TrimPrefix(part, vendorMediaPrefix)
		version, _, _ := strings.Cut(rest, "+")
		if isValidAPIVersion(version) {
			return version
		}
	}
	return DefaultAPIVersion
}

// isValidAPIVersion reports whether the server implements the version.
func isValidAPIVersion(version string) bool {
	return version == "v1"
}
