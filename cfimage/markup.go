package cfimage

import (
	"html/template"
	"sort"
	"strings"
)

// Source describes one <source> of a <picture>
type Source struct {
	Media   string
	Type    string
	Widths  []int
	Options Options
}

// ImgTag renders an <img> element. When opts["sizes"] is a list of widths the
// tag gets src, srcset and sizes from ResponsiveSet; otherwise src is the
// ResolveImage URL and a sizes string is kept as a plain attribute.
func (r *Resolver) ImgTag(ref any, opts Options) template.HTML {
	return template.HTML(r.imgTag(RefOf(ref), opts))
}

func (r *Resolver) imgTag(ref Ref, opts Options) string {
	transform, attrs := Classify(opts)

	if widths, ok := widthList(opts["sizes"]); ok {
		resp := r.responsiveSet(ref, widths, transform)
		attrs["src"] = resp.Src
		attrs["srcset"] = resp.SrcSet
		attrs["sizes"] = resp.Sizes
	} else {
		attrs["src"] = r.resolve(ref, transform)
	}

	return buildTag("img", orderAttrs(attrs))
}

// PictureTag renders a <picture> with one <source> per entry of sources,
// followed by a fallback <img> built from imgOpts.
func (r *Resolver) PictureTag(ref any, sources []Source, imgOpts Options) template.HTML {
	rf := RefOf(ref)

	var b strings.Builder
	b.WriteString("<picture>")
	for _, src := range sources {
		transform, _ := Classify(src.Options)
		resp := r.responsiveSet(rf, src.Widths, transform)
		b.WriteString(buildTag("source", []attr{
			{"srcset", resp.SrcSet},
			{"media", emptyToNil(src.Media)},
			{"type", emptyToNil(src.Type)},
		}))
	}
	b.WriteString(r.imgTag(rf, imgOpts))
	b.WriteString("</picture>")
	return template.HTML(b.String())
}

type attr struct {
	name  string
	value any
}

var leadingAttrs = []string{"src", "srcset", "sizes"}

// orderAttrs puts src, srcset and sizes first and sorts the rest by name
func orderAttrs(attrs Options) []attr {
	out := make([]attr, 0, len(attrs))
	for _, name := range leadingAttrs {
		if v, ok := attrs[name]; ok {
			out = append(out, attr{name, v})
		}
	}

	rest := make([]string, 0, len(attrs))
	for name := range attrs {
		if name != "src" && name != "srcset" && name != "sizes" {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, attr{name, attrs[name]})
	}
	return out
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#039;",
	"<", "&lt;",
	">", "&gt;",
)

// buildTag serializes an element. true renders the bare attribute name,
// false and nil drop it. img and source are self-closed.
func buildTag(tag string, attrs []attr) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)
	for _, a := range attrs {
		if !validAttrName(a.name) {
			continue
		}
		switch v := a.value.(type) {
		case nil:
			continue
		case bool:
			if v {
				b.WriteString(" ")
				b.WriteString(a.name)
			}
			continue
		}
		s, _ := scalar(a.value)
		b.WriteString(" ")
		b.WriteString(a.name)
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(s))
		b.WriteString(`"`)
	}
	if tag == "img" || tag == "source" {
		b.WriteString(" />")
	} else {
		b.WriteString(">")
	}
	return b.String()
}

func validAttrName(name string) bool {
	return name != "" && !strings.ContainsAny(name, " \t\n\r\f\"'<>/=")
}

func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
