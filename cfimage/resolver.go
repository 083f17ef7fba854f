// Package cfimage rewrites image references for templates.
//
// Depending on configuration and the request host, a reference becomes a
// Cloudflare image transformation URL (/cdn-cgi/image/{params}/{path}) or a
// URL produced by the host's own media handles. On top of that it builds
// srcset/sizes sets and img, source and picture markup.
//
// Nothing here returns an error: a reference that cannot be resolved yields
// an empty string so one bad image never aborts a page render.
package cfimage

import (
	"log/slog"
	"path/filepath"
	"strings"

	"cfimages/config"
)

// ThemeScheme prefixes references resolved through the ResourceLocator
const ThemeScheme = "theme://"

// Resolver turns image references into URLs and markup for one host context
type Resolver struct {
	host   Host
	logger *slog.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the logger used to report degraded results
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a resolver bound to host
func New(host Host, opts ...Option) *Resolver {
	r := &Resolver{
		host:   host,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithPage returns a copy of r whose page media collection is page
func (r *Resolver) WithPage(page MediaProvider) *Resolver {
	cp := *r
	cp.host.Page = page
	return &cp
}

// ResolveImage returns the URL for ref with opts applied. HTML attribute
// keys in opts are ignored.
func (r *Resolver) ResolveImage(ref any, opts Options) string {
	transform, _ := Classify(opts)
	return r.resolve(RefOf(ref), transform)
}

func (r *Resolver) resolve(ref Ref, transform Options) string {
	cfg := r.images()
	if !UseCDN(cfg, r.requestHost()) {
		u, outcome := r.fallbackURL(ref, transform)
		if outcome == FitDegraded {
			r.logger.Warn("fit mode not supported by host, resized instead",
				"image", ref, "fit", transform["fit"])
		}
		if u == "" {
			r.logger.Debug("image reference not resolved", "image", ref)
		}
		return u
	}

	imageURL := r.resolveURL(ref)
	if imageURL == "" {
		r.logger.Debug("image reference not resolved", "image", ref)
		return ""
	}
	return CDNURL(BuildParams(transform, cfg), RelativePath(imageURL))
}

// resolveURL produces the untransformed absolute URL for ref
func (r *Resolver) resolveURL(ref Ref) string {
	switch ref.kind {
	case RefAbsoluteURL:
		return ref.path
	case RefMedia:
		return ref.media.URL()
	case RefRelativePath:
		if u, ok := r.themeURL(ref.path); ok {
			return u
		}
		if m, ok := r.pageMedia(ref.path); ok {
			return m.URL()
		}
		return r.baseURL() + "/" + strings.TrimLeft(ref.path, "/")
	default:
		return ""
	}
}

// themeURL maps theme://… through the locator and back onto the base URL
func (r *Resolver) themeURL(p string) (string, bool) {
	if !strings.HasPrefix(p, ThemeScheme) || r.host.Locator == nil {
		return "", false
	}
	fsPath, ok := r.host.Locator.FindResource(p)
	if !ok || fsPath == "" {
		return "", false
	}

	rel := filepath.ToSlash(fsPath)
	if r.host.Site != nil {
		if root := filepath.ToSlash(r.host.Site.RootDir()); root != "" {
			rel = strings.TrimPrefix(rel, root)
		}
	}
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}
	return r.baseURL() + rel, true
}

func (r *Resolver) pageMedia(name string) (MediaHandle, bool) {
	if r.host.Page == nil {
		return nil, false
	}
	m, ok := r.host.Page.Media(name)
	if !ok || isNilHandle(m) {
		return nil, false
	}
	return m, true
}

func (r *Resolver) images() config.Images {
	if r.host.Config == nil {
		return config.Default().Images
	}
	return r.host.Config.Images()
}

func (r *Resolver) requestHost() string {
	if r.host.Request == nil {
		return ""
	}
	return r.host.Request.Host()
}

func (r *Resolver) baseURL() string {
	if r.host.Site == nil {
		return ""
	}
	return strings.TrimRight(r.host.Site.BaseURLAbsolute(), "/")
}
