// Package security provides request validation for the HTTP service.
package security

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ValidateImageURL validates a reference image URL supplied by a remote
// caller. Only http:// and https:// schemes are accepted, and the host
// must not resolve to the service itself: localhost, loopback, private
// and link-local addresses are rejected to prevent SSRF.
func ValidateImageURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("empty image URL")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid image URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("image URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("image URL must have a hostname")
	}

	host := strings.ToLower(parsed.Hostname())
	if isLocalOrPrivateHost(host) {
		return fmt.Errorf("image URL cannot point to local or private hosts: %s", host)
	}
	return nil
}

// isLocalOrPrivateHost reports whether host names the local machine or a
// private network address. Hostnames are matched literally; no DNS
// resolution happens here.
func isLocalOrPrivateHost(host string) bool {
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}

	ip := net.ParseIP(host)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsUnspecified()
}
