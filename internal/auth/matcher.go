package auth

import (
	"path"
	"strings"
)

// Matcher decides which request paths the guard evaluates at all.
type Matcher struct {
	excludedPrefixes []string
	excludedSuffixes []string
}

// DefaultMatcher skips API-internal, asset and health-check paths. Prefixes ending in "/"
// exclude a directory; the others exclude that exact path and everything below it.
func DefaultMatcher() Matcher {
	return Matcher{
		excludedPrefixes: []string{"/api/", "/static/", "/_next/", "/healthz", "/metrics"},
		excludedSuffixes: []string{".png", ".ico", ".css", ".js", ".svg", ".webp", ".map"},
	}
}

// NewMatcher builds a matcher from explicit deny-lists.
func NewMatcher(prefixes, suffixes []string) Matcher {
	return Matcher{excludedPrefixes: prefixes, excludedSuffixes: suffixes}
}

// Matches reports whether path must pass through the guard.
func (m Matcher) Matches(p string) bool {
	p = normalizePath(p)
	for _, prefix := range m.excludedPrefixes {
		if strings.HasSuffix(prefix, "/") {
			if strings.HasPrefix(p, prefix) {
				return false
			}
			continue
		}
		if underPath(p, prefix) {
			return false
		}
	}
	for _, s := range m.excludedSuffixes {
		if strings.HasSuffix(p, s) {
			return false
		}
	}
	return true
}

// normalizePath folds case and collapses duplicate slashes and dot segments, so the
// guard classifies a path the same way a case-insensitive router would route it.
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	return path.Clean(strings.ToLower(p))
}

// underPath reports whether p equals root or sits below it.
func underPath(p, root string) bool {
	return p == root || strings.HasPrefix(p, root+"/")
}
