package ratelimit

import "fmt"

// ScopeKind is one of the three independent identifiers a limit is evaluated
// against. The IP scope is known immediately; user and company scopes only
// exist once authentication has completed.
type ScopeKind string

const (
	ScopeIP      ScopeKind = "ip"
	ScopeUser    ScopeKind = "user"
	ScopeCompany ScopeKind = "company"
)

// UnknownIP is the shared bucket for requests whose address cannot be
// resolved. Resolution degrades, it never fails.
const UnknownIP = "unknown"

func ScopeIdentifier(kind ScopeKind, value string) string {
	return fmt.Sprintf("%s:%s", kind, value)
}

// ipHeaders in order of preference: headers set by the deployment's edge
// first, then the direct connection address.
var ipHeaders = []string{
	"X-Real-IP",
	"X-Forwarded-For",
	"True-Client-IP",
	"CF-Connecting-IP",
}

// ResolveIP derives the IP identifier for a request. get returns the first
// value of a request header; remoteAddr is the direct connection address.
func ResolveIP(get func(key string) string, remoteAddr string) string {
	for _, header := range ipHeaders {
		if ip := get(header); ip != "" {
			return ip
		}
	}
	if remoteAddr != "" {
		return remoteAddr
	}
	return UnknownIP
}
