package cfimage

import (
	"fmt"
	"html/template"
)

// FuncMap exposes the resolver to html/template:
//
//	{{ cf_image .Image (cf_options "width" 300) }}
//	{{ cf_img_tag "hero.jpg" (cf_options "alt" "Hero" "sizes" (cf_widths 480 960)) }}
//	{{ cf_picture_tag "hero.jpg" (cf_sources (cf_source "(min-width: 800px)" "image/webp" (cf_widths 800 1600))) }}
func (r *Resolver) FuncMap() template.FuncMap {
	return template.FuncMap{
		"cf_image": func(ref any, opts ...Options) string {
			return r.ResolveImage(ref, mergeOptions(opts))
		},
		"cf_responsive": func(ref any, widths []int, base ...Options) Responsive {
			return r.ResponsiveSet(ref, widths, mergeOptions(base))
		},
		"cf_img_tag": func(ref any, opts ...Options) template.HTML {
			return r.ImgTag(ref, mergeOptions(opts))
		},
		"cf_picture_tag": func(ref any, sources []Source, imgOpts ...Options) template.HTML {
			return r.PictureTag(ref, sources, mergeOptions(imgOpts))
		},
		"cf_options": NewOptions,
		"cf_widths": func(widths ...int) []int {
			return widths
		},
		"cf_source": func(media, typ string, widths []int, opts ...Options) Source {
			return Source{Media: media, Type: typ, Widths: widths, Options: mergeOptions(opts)}
		},
		"cf_sources": func(sources ...Source) []Source {
			return sources
		},
	}
}

// NewOptions builds Options from alternating keys and values
func NewOptions(pairs ...any) (Options, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("options need key/value pairs, got %d arguments", len(pairs))
	}
	opts := make(Options, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("option key %v is %T, not string", pairs[i], pairs[i])
		}
		opts[key] = pairs[i+1]
	}
	return opts, nil
}

func mergeOptions(sets []Options) Options {
	switch len(sets) {
	case 0:
		return Options{}
	case 1:
		return sets[0]
	}
	out := Options{}
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}
