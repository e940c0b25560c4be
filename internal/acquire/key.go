package acquire

import (
	"fmt"
	"net/url"
	"strings"
)

// SourceKey identifies the origin of a mod. In-flight acquisitions are
// deduplicated on it.
type SourceKey string

// Supported source schemes.
const (
	SchemeNXM   = "nxm"
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
	SchemeFile  = "file"
)

// ParseSourceKey normalizes a source URI into a key. Scheme and host are
// lowercased and fragments dropped, so equivalent URIs share a key.
func ParseSourceKey(raw string) (SourceKey, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty source", ErrInvalidSourceKey)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSourceKey, err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	switch u.Scheme {
	case SchemeNXM, SchemeHTTP, SchemeHTTPS:
		if u.Host == "" {
			return "", fmt.Errorf("%w: %q has no host", ErrInvalidSourceKey, raw)
		}
	case SchemeFile:
		if u.Path == "" {
			return "", fmt.Errorf("%w: %q has no path", ErrInvalidSourceKey, raw)
		}
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidSourceKey, u.Scheme)
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	return SourceKey(u.String()), nil
}

func (k SourceKey) String() string { return string(k) }

// Scheme returns the URI scheme of the key.
func (k SourceKey) Scheme() string {
	scheme, _, ok := strings.Cut(string(k), "://")
	if !ok {
		return ""
	}
	return scheme
}
