package cfimage

import (
	"fmt"
	"strings"
)

// DefaultWidths are the srcset breakpoints used when none are given
var DefaultWidths = []int{640, 768, 1024, 1536}

// DefaultSizes is the sizes attribute used when the caller gives none
const DefaultSizes = "(max-width: 640px) 100vw, (max-width: 768px) 100vw, (max-width: 1024px) 100vw, 1024px"

// Responsive is the src/srcset/sizes triad for one image
type Responsive struct {
	Src    string
	SrcSet string
	Sizes  string
}

// ResponsiveSet builds a srcset with one candidate per width. The candidate
// at index len(widths)/2 doubles as src. A sizes string in base overrides
// DefaultSizes; other HTML attributes in base are ignored.
func (r *Resolver) ResponsiveSet(ref any, widths []int, base Options) Responsive {
	transform, html := Classify(base)
	resp := r.responsiveSet(RefOf(ref), widths, transform)
	if s, ok := html["sizes"].(string); ok && s != "" {
		resp.Sizes = s
	}
	return resp
}

func (r *Resolver) responsiveSet(ref Ref, widths []int, transform Options) Responsive {
	if len(widths) == 0 {
		widths = DefaultWidths
	}

	mid := len(widths) / 2
	resp := Responsive{Sizes: DefaultSizes}
	candidates := make([]string, 0, len(widths))
	for i, w := range widths {
		u := r.resolve(ref, transform.With("width", w))
		candidates = append(candidates, fmt.Sprintf("%s %dw", u, w))
		if i == mid {
			resp.Src = u
		}
	}
	resp.SrcSet = strings.Join(candidates, ", ")
	return resp
}

// widthList extracts breakpoints from a sizes option given as a list
func widthList(v any) ([]int, bool) {
	switch x := v.(type) {
	case []int:
		return x, true
	case []any:
		out := make([]int, 0, len(x))
		for _, item := range x {
			n, ok := toInt(item)
			if !ok {
				return nil, false
			}
			out = append(out, n)
		}
		return out, true
	case []float64:
		out := make([]int, 0, len(x))
		for _, f := range x {
			out = append(out, int(f))
		}
		return out, true
	default:
		return nil, false
	}
}
