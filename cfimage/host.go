package cfimage

import "cfimages/config"

// ConfigProvider exposes the routing configuration with defaults applied
type ConfigProvider interface {
	Images() config.Images
}

// RequestContext exposes the host of the request being rendered
type RequestContext interface {
	Host() string
}

// ResourceLocator resolves scheme-prefixed paths such as theme://img/a.jpg
// to filesystem paths. ok is false when nothing matches.
type ResourceLocator interface {
	FindResource(uri string) (path string, ok bool)
}

// SiteURL exposes the public base URL of the site and the filesystem root
// that locator results are relative to.
type SiteURL interface {
	BaseURLAbsolute() string
	RootDir() string
}

// MediaProvider is the media collection of the page being rendered, keyed
// by path relative to the page.
type MediaProvider interface {
	Media(name string) (MediaHandle, bool)
}

// MediaHandle is a host image asset. Transformations return a handle, which
// may or may not be the receiver, on which further calls can be chained.
// A zero width or height means "not given".
type MediaHandle interface {
	URL() string
	Resize(width, height int) MediaHandle
	CropResize(width, height int) MediaHandle
	CropZoom(width, height int) MediaHandle
	Quality(q int) MediaHandle
}

// Host bundles the services a Resolver consumes. Config, Request and Site
// are required in practice; Locator and Page may be nil.
type Host struct {
	Config  ConfigProvider
	Request RequestContext
	Site    SiteURL
	Locator ResourceLocator
	Page    MediaProvider
}

// StaticConfig adapts a fixed config.Images to ConfigProvider
type StaticConfig config.Images

// Images implements ConfigProvider
func (s StaticConfig) Images() config.Images { return config.Images(s) }

// StaticHost adapts a fixed host name to RequestContext
type StaticHost string

// Host implements RequestContext
func (h StaticHost) Host() string { return string(h) }
