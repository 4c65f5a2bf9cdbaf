package gate

import (
	"path"
	"strings"
)

// Matcher decides which request paths are gated.
type Matcher struct {
	// Protected lists path prefixes that require the admin role. A prefix
	// matches itself and its sub-paths only: "/admin" covers "/admin/x" but
	// not "/administrator".
	Protected []string
	// ExcludePrefixes and ExcludeExts select static asset requests that skip
	// session work entirely. They never override Protected.
	ExcludePrefixes []string
	ExcludeExts     []string
}

// DefaultMatcher protects /admin and skips static assets, the favicon and
// common image files.
func DefaultMatcher() Matcher {
	return Matcher{
		Protected:       []string{"/admin"},
		ExcludePrefixes: []string{"/static/", "/assets/", "/favicon.ico"},
		ExcludeExts:     []string{".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico"},
	}
}

func clean(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// IsProtected reports whether p falls under any protected prefix.
func (m Matcher) IsProtected(p string) bool {
	p = clean(p)
	for _, prefix := range m.Protected {
		prefix = strings.TrimSuffix(clean(prefix), "/")
		if prefix == "" {
			// "/" protects everything
			return true
		}
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// IsExcluded reports whether p is a static asset request that bypasses the
// gate. Protected paths are never excluded.
func (m Matcher) IsExcluded(p string) bool {
	if m.IsProtected(p) {
		return false
	}
	p = clean(p)
	for _, prefix := range m.ExcludePrefixes {
		if p == strings.TrimSuffix(prefix, "/") || strings.HasPrefix(p, prefix) {
			return true
		}
	}
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return false
	}
	for _, e := range m.ExcludeExts {
		if ext == e {
			return true
		}
	}
	return false
}
