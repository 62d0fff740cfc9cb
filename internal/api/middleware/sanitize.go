package middleware

import (
	"net/http"
	"strings"

	"github.com/Pranay9392/meity-audit-v2/internal/util"
)

const maxLoggedValue = 200

// Headers that must never reach the logs: credentials plus the portal's own
// session carriers.
var sensitiveHeaders = map[string]struct{}{
	"authorization":       {},
	"cookie":              {},
	"set-cookie":          {},
	"proxy-authorization": {},
	"x-api-key":           {},
	"x-api-token":         {},
	"x-access-token":      {},
	"x-auth-token":        {},
	"x-api-secret":        {},
	"x-forwarded-for":     {},
}

// SanitizeHeaders returns a map of header keys to redacted/sanitized values
// for safe logging. A bearer token or session cookie in a panic log would be
// a live credential for an audit account.
func SanitizeHeaders(h http.Header) map[string][]string {
	if h == nil {
		return nil
	}
	out := make(map[string][]string, len(h))
	for k, vals := range h {
		if _, ok := sensitiveHeaders[strings.ToLower(k)]; ok {
			out[k] = []string{"<redacted>"}
			continue
		}
		sanitized := make([]string, 0, len(vals))
		for _, v := range vals {
			sanitized = append(sanitized, util.Truncate(util.SanitizeForLog(v), maxLoggedValue))
		}
		out[k] = sanitized
	}
	return out
}

// SanitizePath prepares a request path for safe logging. The query string is
// dropped entirely since request and document UUIDs ride in the path, not in
// parameters the logs need.
func SanitizePath(p string) string {
	if i := strings.Index(p, "?"); i != -1 {
		p = p[:i]
	}
	return util.Truncate(util.SanitizeForLog(p), maxLoggedValue)
}
