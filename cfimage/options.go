package cfimage

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Options is the per-call option set passed from templates. Keys are split
// into transformation parameters and HTML attributes by Classify.
type Options map[string]any

var transformKeys = map[string]bool{
	"width": true, "height": true, "quality": true, "format": true,
	"fit": true, "dpr": true, "sharpen": true, "blur": true,
	"brightness": true, "contrast": true, "gamma": true, "rotate": true,
}

var htmlKeys = map[string]bool{
	"alt": true, "title": true, "class": true, "id": true, "style": true,
	"loading": true, "decoding": true, "sizes": true, "data": true,
	"aria": true, "role": true, "tabindex": true, "crossorigin": true,
	"referrerpolicy": true, "fetchpriority": true, "elementtiming": true,
	"importance": true,
}

// IsHTMLAttribute reports whether key is rendered as markup rather than
// sent to the image transformer.
func IsHTMLAttribute(key string) bool {
	if transformKeys[key] {
		return false
	}
	return htmlKeys[key] || strings.HasPrefix(key, "data-") || strings.HasPrefix(key, "aria-")
}

// Classify partitions opts into transformation parameters and HTML
// attributes. Unknown keys are treated as transformation parameters.
// Both results are always non-nil.
func Classify(opts Options) (transform, html Options) {
	transform, html = Options{}, Options{}
	for k, v := range opts {
		if IsHTMLAttribute(k) {
			html[k] = v
		} else {
			transform[k] = v
		}
	}
	return transform, html
}

// With returns a copy of o with key set to v
func (o Options) With(key string, v any) Options {
	out := make(Options, len(o)+1)
	for k, val := range o {
		out[k] = val
	}
	out[key] = v
	return out
}

// Int returns the option as an int. Strings holding numbers are accepted;
// floats are truncated.
func (o Options) Int(key string) (int, bool) {
	v, ok := o[key]
	if !ok {
		return 0, false
	}
	return toInt(v)
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return toInt(float64(n))
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return toInt(f)
		}
	}
	return 0, false
}

// scalar renders an option value the way it appears in a URL or attribute.
// ok is false for nil, false and the empty string.
func scalar(v any) (string, bool) {
	var s string
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		s = x
	case bool:
		if !x {
			return "", false
		}
		s = "1"
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		s = strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		s = x.String()
	default:
		s = fmt.Sprint(x)
	}
	return s, s != ""
}
