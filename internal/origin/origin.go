// Package origin decides which browser origins the gateway will talk to.
package origin

import (
	"net/url"
	"strings"
)

// DefaultAllowed is the origin allow-list used when none is configured.
// The first entry doubles as the default CORS origin emitted for callers
// that are not on the list.
var DefaultAllowed = []string{
	"https://www.fitfi.ai",
	"https://fitfi.ai",
	"https://fitfi.netlify.app",
	"http://localhost:5173",
}

// Guard validates request origins against a fixed allow-list. It is an
// immutable value built once at startup; nothing mutates it afterwards.
type Guard struct {
	allowed  map[string]struct{}
	fallback string
}

// NewGuard builds a Guard from the given allow-list. An empty list falls
// back to DefaultAllowed.
func NewGuard(allowed []string) *Guard {
	if len(allowed) == 0 {
		allowed = DefaultAllowed
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[strings.TrimSpace(o)] = struct{}{}
	}
	return &Guard{allowed: set, fallback: strings.TrimSpace(allowed[0])}
}

// Allowed reports whether the declared origin may use the gateway. An empty
// origin (non-browser client, same-origin request) is allowed. Deploy
// previews under *.netlify.app are accepted alongside the configured list.
func (g *Guard) Allowed(origin string) bool {
	if origin == "" {
		return true
	}
	if _, ok := g.allowed[origin]; ok {
		return true
	}
	return isPreview(origin)
}

// Header returns the Access-Control-Allow-Origin value for the declared
// origin: the origin itself when allowed, otherwise the fixed default.
// Never "*" and never a reflection of an unrecognized origin.
func (g *Guard) Header(origin string) string {
	if origin != "" && g.Allowed(origin) {
		return origin
	}
	return g.fallback
}

func isPreview(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return false
	}
	return strings.HasSuffix(u.Hostname(), ".netlify.app")
}
