package cfimage

import "strings"

// FitOutcome reports how faithfully the host honoured the requested fit
type FitOutcome int

const (
	// FitExact means the host applied the fit (or none was needed)
	FitExact FitOutcome = iota
	// FitDegraded means the host has no equivalent and plain resize was used
	FitDegraded
)

// fallbackURL resolves ref without the CDN, using host media operations
// where ref is (or names) a media handle.
func (r *Resolver) fallbackURL(ref Ref, transform Options) (string, FitOutcome) {
	switch ref.kind {
	case RefAbsoluteURL:
		return ref.path, FitExact
	case RefMedia:
		return applyTransform(ref.media, transform)
	case RefRelativePath:
		if strings.HasPrefix(ref.path, ThemeScheme) {
			return r.resolveURL(ref), FitExact
		}
		if m, ok := r.pageMedia(ref.path); ok {
			return r.fallbackURL(Media(m), transform)
		}
		return r.resolveURL(ref), FitExact
	default:
		return "", FitExact
	}
}

// applyTransform maps CDN fit modes onto host operations:
// cover -> CropZoom, crop -> CropResize, everything else -> Resize.
func applyTransform(m MediaHandle, transform Options) (string, FitOutcome) {
	outcome := FitExact
	step := func(next MediaHandle) {
		if !isNilHandle(next) {
			m = next
		}
	}

	width, _ := transform.Int("width")
	height, _ := transform.Int("height")
	fit := "scale-down"
	if v, ok := transform["fit"]; ok && v != nil {
		fit, _ = scalar(v)
	}

	switch {
	case width > 0 && height > 0:
		switch fit {
		case "cover":
			step(m.CropZoom(width, height))
		case "crop":
			step(m.CropResize(width, height))
		case "pad":
			step(m.Resize(width, height))
			outcome = FitDegraded
		default:
			step(m.Resize(width, height))
		}
	case width > 0:
		step(m.Resize(width, 0))
	case height > 0:
		step(m.Resize(0, height))
	}

	if q, ok := transform.Int("quality"); ok {
		step(m.Quality(q))
	}

	return m.URL(), outcome
}
