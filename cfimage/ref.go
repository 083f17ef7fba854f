package cfimage

import (
	"log/slog"
	"reflect"
	"strings"
)

// RefKind tags the variant held by a Ref
type RefKind int

const (
	RefInvalid RefKind = iota
	RefAbsoluteURL
	RefRelativePath
	RefMedia
)

func (k RefKind) String() string {
	switch k {
	case RefAbsoluteURL:
		return "absolute-url"
	case RefRelativePath:
		return "relative-path"
	case RefMedia:
		return "media"
	default:
		return "invalid"
	}
}

// Ref is an image reference: an absolute URL, a site-relative path or a
// host media handle.
type Ref struct {
	kind  RefKind
	path  string
	media MediaHandle
}

// AbsoluteURL wraps an http(s) URL
func AbsoluteURL(u string) Ref { return Ref{kind: RefAbsoluteURL, path: u} }

// Path wraps a site-relative or scheme-prefixed path
func Path(p string) Ref { return Ref{kind: RefRelativePath, path: p} }

// Media wraps a host media handle. A nil handle, including a typed nil
// pointer, gives an invalid Ref.
func Media(m MediaHandle) Ref {
	if isNilHandle(m) {
		return Ref{}
	}
	return Ref{kind: RefMedia, media: m}
}

// RefOf classifies an arbitrary template value
func RefOf(v any) Ref {
	switch x := v.(type) {
	case Ref:
		return x
	case MediaHandle:
		return Media(x)
	case string:
		if isAbsoluteURL(x) {
			return AbsoluteURL(x)
		}
		return Path(x)
	default:
		return Ref{}
	}
}

// Kind reports which variant r holds
func (r Ref) Kind() RefKind { return r.kind }

// String returns the URL or path, or the media URL for handles
func (r Ref) String() string {
	if r.kind == RefMedia {
		return r.media.URL()
	}
	return r.path
}

// LogValue defers String until a log record is actually written
func (r Ref) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("kind", r.kind.String()),
		slog.String("ref", r.String()),
	)
}

func isNilHandle(m MediaHandle) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func isAbsoluteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
