package server

import (
	"net/http"
	"strings"
)

// DefaultAPIVersion is served when the client does not ask for one.
const DefaultAPIVersion = "v1"

const (
	vendorMediaPrefix = "application/vnd.tunedb."
	vendorMediaSuffix = "+json"
)

var supportedAPIVersions = map[string]struct{}{
	"v1": {},
}

// negotiateAPIVersion reads a vendor media type such as
// application/vnd.tunedb.v1+json from the Accept header.
func negotiateAPIVersion(r *http.Request) string {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		mt = strings.TrimSpace(mt)
		if !strings.HasPrefix(mt, vendorMediaPrefix) || !strings.HasSuffix(mt, vendorMediaSuffix) {
			continue
		}
		v := strings.TrimSuffix(strings.TrimPrefix(mt, vendorMediaPrefix), vendorMediaSuffix)
		if isValidAPIVersion(v) {
			return v
		}
	}
	return DefaultAPIVersion
}

func isValidAPIVersion(v string) bool {
	_, ok := supportedAPIVersions[v]
	return ok
}
