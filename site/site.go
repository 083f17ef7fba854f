package site

import (
	"net"
	"os"
	"path/filepath"
	"strings"

	"cfimages/cfimage"
	"cfimages/config"
)

// Schemes understood by FindResource
const (
	ThemeScheme = cfimage.ThemeScheme
	UserScheme  = "user://"
)

// Site is a site checked out on disk
type Site struct {
	cfg config.Site
}

// New creates a site from its configuration section
func New(cfg config.Site) *Site {
	return &Site{cfg: cfg}
}

// BaseURLAbsolute returns the public base URL without a trailing slash
func (s *Site) BaseURLAbsolute() string {
	return strings.TrimRight(s.cfg.BaseURL, "/")
}

// RootDir returns the site root that resource paths are made relative to
func (s *Site) RootDir() string {
	return filepath.Clean(s.cfg.RootDir)
}

// PagesDir returns the directory holding page bundles
func (s *Site) PagesDir() string {
	if filepath.IsAbs(s.cfg.PagesDir) {
		return s.cfg.PagesDir
	}
	return filepath.Join(s.RootDir(), s.cfg.PagesDir)
}

// FindResource resolves theme:// against the theme directory and user://
// against the site root. Only existing files resolve.
func (s *Site) FindResource(uri string) (string, bool) {
	var base, rel string
	switch {
	case strings.HasPrefix(uri, ThemeScheme):
		if s.cfg.ThemeDir == "" {
			return "", false
		}
		base, rel = filepath.Join(s.RootDir(), s.cfg.ThemeDir), strings.TrimPrefix(uri, ThemeScheme)
	case strings.HasPrefix(uri, UserScheme):
		base, rel = s.RootDir(), strings.TrimPrefix(uri, UserScheme)
	default:
		return "", false
	}

	p := filepath.Join(base, filepath.FromSlash(rel))
	// Reject ../ escapes out of the base directory
	if p != base && !strings.HasPrefix(p, base+string(filepath.Separator)) {
		return "", false
	}
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", false
	}
	return p, true
}

// Host bundles the site with cfg, the request host and an optional page
// into the services a resolver consumes.
func (s *Site) Host(cfg cfimage.ConfigProvider, req Request, page *Page) cfimage.Host {
	h := cfimage.Host{
		Config:  cfg,
		Request: req,
		Site:    s,
		Locator: s,
	}
	if page != nil {
		h.Page = page
	}
	return h
}

// Request carries the host of an incoming request
type Request struct {
	host string
}

// NewRequest strips any port (and IPv6 brackets) from hostport
func NewRequest(hostport string) Request {
	host := hostport
	if h, _, err := net.SplitHostPort(hostport); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	return Request{host: strings.ToLower(host)}
}

// Host implements cfimage.RequestContext
func (r Request) Host() string {
	return r.host
}
