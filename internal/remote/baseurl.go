package remote

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ResolveBaseURL picks the API base for the client. The UI and the API run
// as separate processes on different ports, so when the UI reports the
// origin it was actually loaded from we keep that host and swap in the
// backend port; the same build then works via localhost or a LAN address
// without reconfiguration. With no origin the configured fallback wins.
func ResolveBaseURL(origin string, backendPort int, fallback string) string {
	if origin != "" && backendPort > 0 {
		if u, err := url.Parse(origin); err == nil && u.Hostname() != "" {
			scheme := u.Scheme
			if scheme == "" {
				scheme = "http"
			}
			return fmt.Sprintf("%s://%s:%d", scheme, u.Hostname(), backendPort)
		}
	}
	return trimSlash(fallback)
}

// HostPort extracts a dialable address from a base URL, defaulting the port
// from the scheme. Used by the connectivity probe.
func HostPort(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("base url %q has no host", baseURL)
	}

	port := u.Port()
	if port == "" {
		if u.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}

func trimSlash(s string) string {
	return strings.TrimSuffix(s, "/")
}
