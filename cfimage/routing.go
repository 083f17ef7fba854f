package cfimage

import (
	"slices"
	"strings"

	"cfimages/config"
)

var defaultLocalHosts = []string{"localhost", "127.0.0.1", "::1"}

var localMarkers = []string{".local", ".test", ".dev"}

// UseCDN decides whether requests for host go through the CDN:
// enabled AND (force OR (not local AND host matches a CDN domain)).
func UseCDN(cfg config.Images, host string) bool {
	if !cfg.Enabled {
		return false
	}
	if cfg.ForceCloudflare {
		return true
	}
	return !IsLocalHost(host, cfg.LocalDomains) && MatchesDomain(host, cfg.Domains)
}

// IsLocalHost reports whether host looks like a development environment
func IsLocalHost(host string, localDomains []string) bool {
	if slices.Contains(defaultLocalHosts, host) || slices.Contains(localDomains, host) {
		return true
	}
	for _, marker := range localMarkers {
		if strings.Contains(host, marker) {
			return true
		}
	}
	return false
}

// MatchesDomain reports whether host contains any of domains, so that
// example.com also matches staging.example.com.
func MatchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if d != "" && strings.Contains(host, d) {
			return true
		}
	}
	return false
}
