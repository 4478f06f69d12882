// Package gate decides, before any handler runs, whether a request may proceed
// given only its path, its method and whether the caller has an identity.
package gate

import (
	"net/http"
	"strings"
)

// Decision is the outcome of a gate check.
type Decision int

const (
	// Deny rejects the request as unauthorized.
	Deny Decision = iota
	// Allow lets the request through to its handler.
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Paths known to the gate.
const (
	RootPath    = "/"
	HealthPath  = "/health"
	SignInPath  = "/signin"
	SignUpPath  = "/signup"
	RecordsPath = "/records"
)

// publicPaths are admitted regardless of identity.
var publicPaths = map[string]struct{}{
	RootPath:   {},
	HealthPath: {},
	SignInPath: {},
	SignUpPath: {},
}

// Decide applies the admission policy:
//   - public paths are always allowed;
//   - GET on the record listing is always allowed (the handler still scopes data to the caller);
//   - everything else, including every other method on record paths, needs an identity.
func Decide(path, method string, authenticated bool) Decision {
	p := normalize(path)

	if _, ok := publicPaths[p]; ok {
		return Allow
	}

	if p == RecordsPath && method == http.MethodGet {
		return Allow
	}

	if authenticated {
		return Allow
	}
	return Deny
}

func normalize(path string) string {
	if path == "" {
		return RootPath
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return RootPath
		}
	}
	return path
}
