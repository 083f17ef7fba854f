package cfimage

import (
	"bytes"
	"html/template"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestResponsiveSetDefaults(t *testing.T) {
	r := newTestResolver(cdnConfig(), "example.com")

	resp := r.ResponsiveSet("a.jpg", nil, nil)

	assert.Equal(t, "/cdn-cgi/image/w=1024,q=85,f=auto,fit=scale-down/a.jpg", resp.Src)
	assert.Equal(t,
		"/cdn-cgi/image/w=640,q=85,f=auto,fit=scale-down/a.jpg 640w, "+
			"/cdn-cgi/image/w=768,q=85,f=auto,fit=scale-down/a.jpg 768w, "+
			"/cdn-cgi/image/w=1024,q=85,f=auto,fit=scale-down/a.jpg 1024w, "+
			"/cdn-cgi/image/w=1536,q=85,f=auto,fit=scale-down/a.jpg 1536w",
		resp.SrcSet)
	assert.Equal(t, DefaultSizes, resp.Sizes)
}

func TestResponsiveSetMiddleSource(t *testing.T) {
	r := newTestResolver(cdnConfig(), "example.com")

	tests := []struct {
		widths []int
		want   string
	}{
		{[]int{100}, "w=100"},
		{[]int{100, 200}, "w=200"},
		{[]int{100, 200, 300}, "w=200"},
		{[]int{640, 768, 1024, 1536}, "w=1024"},
		{[]int{1, 2, 3, 4, 5}, "w=3,"},
	}

	for _, tt := range tests {
		resp := r.ResponsiveSet("a.jpg", tt.widths, nil)
		assert.Contains(t, resp.Src, tt.want, "widths %v", tt.widths)
	}
}

func TestResponsiveSetOverridesWidthAndKeepsSizes(t *testing.T) {
	r := newTestResolver(cdnConfig(), "example.com")

	resp := r.ResponsiveSet("a.jpg", []int{320, 480}, Options{"width": 9999, "fit": "cover", "sizes": "50vw", "alt": "x"})

	assert.Equal(t,
		"/cdn-cgi/image/w=320,q=85,f=auto,fit=cover/a.jpg 320w, /cdn-cgi/image/w=480,q=85,f=auto,fit=cover/a.jpg 480w",
		resp.SrcSet)
	assert.Equal(t, "50vw", resp.Sizes)
}

func TestResponsiveSetFallbackMedia(t *testing.T) {
	r := newTestResolver(cdnConfig(), "localhost")

	resp := r.ResponsiveSet("hero.jpg", []int{100, 200}, Options{"quality": 50})

	assert.Equal(t, "https://site.test/media/hero.jpg?resize=200,0&quality=50", resp.Src)
	assert.Equal(t,
		"https://site.test/media/hero.jpg?resize=100,0&quality=50 100w, https://site.test/media/hero.jpg?resize=200,0&quality=50 200w",
		resp.SrcSet)
}

func TestBuildTagSerialization(t *testing.T) {
	tests := []struct {
		name  string
		tag   string
		attrs []attr
		want  string
	}{
		{"boolean true", "img", []attr{{"disabled", true}}, "<img disabled />"},
		{"boolean false omitted", "img", []attr{{"disabled", false}}, "<img />"},
		{"nil omitted", "source", []attr{{"media", nil}}, "<source />"},
		{"quotes escaped", "img", []attr{{"alt", `a "b"`}}, `<img alt="a &quot;b&quot;" />`},
		{"specials escaped", "img", []attr{{"title", `<x> & 'y'`}}, `<img title="&lt;x&gt; &amp; &#039;y&#039;" />`},
		{"numbers", "img", []attr{{"width", 300}, {"tabindex", -1}}, `<img width="300" tabindex="-1" />`},
		{"empty string kept", "img", []attr{{"src", ""}}, `<img src="" />`},
		{"non void tag", "div", []attr{{"class", "x"}}, `<div class="x">`},
		{"invalid name dropped", "img", []attr{{`data-x" onerror="alert(1)`, "y"}}, "<img />"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildTag(tt.tag, tt.attrs))
		})
	}
}

func TestImgTag(t *testing.T) {
	r := newTestResolver(cdnConfig(), "example.com")

	got := r.ImgTag("images/a.jpg", Options{
		"width":    300,
		"alt":      `The "hero"`,
		"loading":  "lazy",
		"class":    "hero",
		"data-id":  7,
		"hidden":   true,
		"decoding": false,
	})

	assert.Equal(t,
		`<img src="/cdn-cgi/image/w=300,q=85,f=auto,fit=scale-down/images/a.jpg" alt="The &quot;hero&quot;" class="hero" data-id="7" loading="lazy" />`,
		string(got))
}

func TestImgTagBooleanAttribute(t *testing.T) {
	r := newTestResolver(cdnConfig(), "localhost")

	got := r.ImgTag("https://x.org/a.jpg", Options{"data-zoomable": true, "aria-hidden": false})

	assert.Equal(t, `<img src="https://x.org/a.jpg" data-zoomable />`, string(got))
}

func TestImgTagResponsive(t *testing.T) {
	r := newTestResolver(cdnConfig(), "example.com")

	got := r.ImgTag("a.jpg", Options{"sizes": []int{400, 800, 1200}, "alt": "A", "quality": 60})

	doc := parseHTML(t, string(got))
	img := doc.Find("img")
	require.Equal(t, 1, img.Length())

	src, _ := img.Attr("src")
	srcset, _ := img.Attr("srcset")
	sizes, _ := img.Attr("sizes")
	alt, _ := img.Attr("alt")

	assert.Equal(t, "/cdn-cgi/image/w=800,q=60,f=auto,fit=scale-down/a.jpg", src)
	assert.Equal(t,
		"/cdn-cgi/image/w=400,q=60,f=auto,fit=scale-down/a.jpg 400w, "+
			"/cdn-cgi/image/w=800,q=60,f=auto,fit=scale-down/a.jpg 800w, "+
			"/cdn-cgi/image/w=1200,q=60,f=auto,fit=scale-down/a.jpg 1200w",
		srcset)
	assert.Equal(t, DefaultSizes, sizes)
	assert.Equal(t, "A", alt)
	assert.True(t, strings.HasPrefix(string(got), `<img src="`))
}

func TestImgTagResponsiveFromTemplateList(t *testing.T) {
	r := newTestResolver(cdnConfig(), "example.com")

	got := r.ImgTag("a.jpg", Options{"sizes": []any{100, "200"}})

	doc := parseHTML(t, string(got))
	srcset, _ := doc.Find("img").Attr("srcset")
	assert.Contains(t, srcset, "200w")
}

func TestImgTagSizesString(t *testing.T) {
	r := newTestResolver(cdnConfig(), "example.com")

	got := r.ImgTag("a.jpg", Options{"sizes": "100vw"})

	assert.Equal(t, `<img src="/cdn-cgi/image/q=85,f=auto,fit=scale-down/a.jpg" sizes="100vw" />`, string(got))
}

func TestImgTagUnresolvable(t *testing.T) {
	r := newTestResolver(cdnConfig(), "example.com")

	assert.Equal(t, `<img src="" alt="x" />`, string(r.ImgTag(nil, Options{"alt": "x"})))
}

func TestPictureTag(t *testing.T) {
	r := newTestResolver(cdnConfig(), "example.com")

	got := r.PictureTag("a.jpg", []Source{
		{Media: "(min-width: 1024px)", Type: "image/webp", Widths: []int{1024, 2048}, Options: Options{"format": "webp", "alt": "ignored"}},
		{Media: "(min-width: 640px)", Options: Options{"fit": "cover", "height": 300}},
		{},
	}, Options{"alt": "Fallback", "width": 640})

	s := string(got)
	assert.True(t, strings.HasPrefix(s, "<picture><source srcset="), s)
	assert.True(t, strings.HasSuffix(s, " /></picture>"), s)

	doc := parseHTML(t, s)
	sources := doc.Find("picture > source")
	require.Equal(t, 3, sources.Length())

	first := sources.Eq(0)
	srcset, _ := first.Attr("srcset")
	media, _ := first.Attr("media")
	typ, _ := first.Attr("type")
	assert.Equal(t,
		"/cdn-cgi/image/w=1024,q=85,f=webp,fit=scale-down/a.jpg 1024w, /cdn-cgi/image/w=2048,q=85,f=webp,fit=scale-down/a.jpg 2048w",
		srcset)
	assert.Equal(t, "(min-width: 1024px)", media)
	assert.Equal(t, "image/webp", typ)
	_, hasAlt := first.Attr("alt")
	assert.False(t, hasAlt)

	second := sources.Eq(1)
	_, hasType := second.Attr("type")
	assert.False(t, hasType, "empty type is omitted")
	srcset, _ = second.Attr("srcset")
	assert.Equal(t, 4, strings.Count(srcset, "w, ")+1, "default widths")
	assert.Contains(t, srcset, "h=300")

	third := sources.Eq(2)
	_, hasMedia := third.Attr("media")
	assert.False(t, hasMedia, "empty media is omitted")

	img := doc.Find("picture > img")
	require.Equal(t, 1, img.Length())
	src, _ := img.Attr("src")
	alt, _ := img.Attr("alt")
	assert.Equal(t, "/cdn-cgi/image/w=640,q=85,f=auto,fit=scale-down/a.jpg", src)
	assert.Equal(t, "Fallback", alt)
}

func TestPictureTagNoSources(t *testing.T) {
	r := newTestResolver(cdnConfig(), "localhost")

	got := r.PictureTag("https://x.org/a.jpg", nil, nil)

	assert.Equal(t, `<picture><img src="https://x.org/a.jpg" /></picture>`, string(got))
}

func TestFuncMap(t *testing.T) {
	r := newTestResolver(cdnConfig(), "example.com")

	const page = `<a href="{{ cf_image "a.jpg" (cf_options "width" 300 "quality" 80) }}">` +
		`{{ cf_img_tag "hero.jpg" (cf_options "alt" "Hero" "sizes" (cf_widths 100 200)) }}` +
		`{{ with cf_responsive "a.jpg" (cf_widths 320) }}{{ .Src }}|{{ .Sizes }}{{ end }}` +
		`{{ cf_picture_tag "a.jpg" (cf_sources (cf_source "(min-width: 800px)" "image/avif" (cf_widths 800) (cf_options "format" "avif"))) (cf_options "alt" "P") }}</a>`

	tmpl, err := template.New("page").Funcs(r.FuncMap()).Parse(page)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.Execute(&buf, nil))
	out := buf.String()

	assert.Contains(t, out, `href="/cdn-cgi/image/w=300,q=80,f=auto,fit=scale-down/a.jpg"`)
	assert.Contains(t, out, `<img src="/cdn-cgi/image/w=200,q=85,f=auto,fit=scale-down/media/hero.jpg"`)
	assert.Contains(t, out, `alt="Hero"`)
	assert.Contains(t, out, "/cdn-cgi/image/w=320,q=85,f=auto,fit=scale-down/a.jpg|")
	assert.Contains(t, out, `<source srcset="/cdn-cgi/image/w=800,q=85,f=avif,fit=scale-down/a.jpg 800w" media="(min-width: 800px)" type="image/avif" />`)
	assert.Contains(t, out, `alt="P" /></picture>`)
}

func TestFuncMapBadOptions(t *testing.T) {
	r := newTestResolver(cdnConfig(), "example.com")

	tmpl := template.Must(template.New("bad").Funcs(r.FuncMap()).Parse(`{{ cf_image "a.jpg" (cf_options "width") }}`))

	var buf bytes.Buffer
	assert.Error(t, tmpl.Execute(&buf, nil))
}
