// Package objectstore holds the helpers shared by the binary store backends.
package objectstore

import (
	"net/url"
	"strings"

	"lmscontent/internal/domain"
)

// Key turns a stored location into an object key. Locations recorded as
// full URLs by other uploaders cannot be addressed by key.
func Key(location string) (string, error) {
	key := strings.TrimLeft(strings.TrimSpace(location), "/")
	switch {
	case key == "":
		return "", domain.NewValidation("storage location must not be empty")
	case strings.Contains(key, "://"):
		return "", domain.NewValidation("storage location %q is a URL, not an object key", location)
	case hasDotDotSegment(key):
		return "", domain.NewValidation("storage location %q contains an invalid path segment", location)
	}
	return key, nil
}

func hasDotDotSegment(key string) bool {
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// PublicURL joins a public base URL and key, escaping each segment.
// An empty base means objects are private and yields "".
func PublicURL(base, key string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	segs := strings.Split(key, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return base + "/" + strings.Join(segs, "/")
}
