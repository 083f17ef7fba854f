package cfimage

import (
	"net/url"
	"strings"

	"cfimages/config"
)

// CDNPrefix starts every transformation URL
const CDNPrefix = "/cdn-cgi/image/"

// paramOrder is both the option to CDN key mapping and the emission order
var paramOrder = []struct{ option, param string }{
	{"width", "w"},
	{"height", "h"},
	{"quality", "q"},
	{"format", "f"},
	{"fit", "fit"},
	{"dpr", "dpr"},
	{"sharpen", "sharpen"},
	{"blur", "blur"},
	{"brightness", "brightness"},
	{"contrast", "contrast"},
	{"gamma", "gamma"},
	{"rotate", "rotate"},
}

// BuildParams renders transformation options as the comma separated
// k=v segment of a CDN URL. Configured defaults fill quality, format and fit
// unless the caller set them; unset config fields fall back to
// config.Default. A caller nil or "" removes the parameter.
// Output order is fixed by paramOrder, independent of map iteration.
func BuildParams(transform Options, cfg config.Images) string {
	cfg = withDefaults(cfg)
	merged := Options{
		"quality": cfg.DefaultQuality,
		"format":  cfg.DefaultFormat,
		"fit":     cfg.DefaultFit,
	}
	for k, v := range transform {
		merged[k] = v
	}

	params := make([]string, 0, len(paramOrder))
	for _, p := range paramOrder {
		if s, ok := scalar(merged[p.option]); ok {
			params = append(params, p.param+"="+s)
		}
	}
	return strings.Join(params, ",")
}

// withDefaults fills zero default fields from config.Default
func withDefaults(cfg config.Images) config.Images {
	def := config.Default().Images
	if cfg.DefaultQuality <= 0 {
		cfg.DefaultQuality = def.DefaultQuality
	}
	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = def.DefaultFormat
	}
	if cfg.DefaultFit == "" {
		cfg.DefaultFit = def.DefaultFit
	}
	return cfg
}

// CDNURL joins params and an image path into a transformation URL
func CDNURL(params, imagePath string) string {
	return CDNPrefix + params + "/" + imagePath
}

// RelativePath strips scheme, host and leading slashes from u
func RelativePath(u string) string {
	if !isAbsoluteURL(u) {
		return strings.TrimLeft(u, "/")
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return ""
	}
	return strings.TrimLeft(parsed.EscapedPath(), "/")
}
