package httputil

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL parses a user-supplied link. Links pasted without a scheme
// ("app.mode.com/acme/spaces/x") get https:// prepended. The host is
// lowercased. A link that yields no host is rejected.
func NormalizeURL(rawURL string) (*url.URL, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return nil, fmt.Errorf("URL is empty")
	}

	if !strings.Contains(s, "://") {
		s = "https://" + strings.TrimPrefix(s, "//")
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("malformed URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL has no host")
	}
	u.Host = strings.ToLower(u.Host)

	return u, nil
}

// ValidateURL checks that a URL is well-formed and uses HTTPS.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("only HTTPS URLs are allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

// IsRemote reports whether arg should be fetched over HTTP rather than
// read from disk.
func IsRemote(arg string) bool {
	lower := strings.ToLower(arg)
	return strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://")
}
