package cfimage

import (
	"fmt"
	"strings"

	"cfimages/config"
)

// fakeMedia records the operations applied to it in its URL
type fakeMedia struct {
	name string
	ops  []string
}

func (m *fakeMedia) URL() string {
	if len(m.ops) == 0 {
		return "https://site.test/media/" + m.name
	}
	return "https://site.test/media/" + m.name + "?" + strings.Join(m.ops, "&")
}

func (m *fakeMedia) with(op string) MediaHandle {
	ops := append(append([]string(nil), m.ops...), op)
	return &fakeMedia{name: m.name, ops: ops}
}

func (m *fakeMedia) Resize(w, h int) MediaHandle     { return m.with(fmt.Sprintf("resize=%d,%d", w, h)) }
func (m *fakeMedia) CropResize(w, h int) MediaHandle { return m.with(fmt.Sprintf("cropResize=%d,%d", w, h)) }
func (m *fakeMedia) CropZoom(w, h int) MediaHandle   { return m.with(fmt.Sprintf("cropZoom=%d,%d", w, h)) }
func (m *fakeMedia) Quality(q int) MediaHandle       { return m.with(fmt.Sprintf("quality=%d", q)) }

type fakePage map[string]MediaHandle

func (p fakePage) Media(name string) (MediaHandle, bool) {
	m, ok := p[name]
	return m, ok
}

type fakeSite struct {
	base, root string
}

func (s fakeSite) BaseURLAbsolute() string { return s.base }
func (s fakeSite) RootDir() string         { return s.root }

type fakeLocator map[string]string

func (l fakeLocator) FindResource(uri string) (string, bool) {
	p, ok := l[uri]
	return p, ok
}

func cdnConfig() config.Images {
	return config.Images{
		Enabled:        true,
		Domains:        []string{"example.com"},
		DefaultQuality: 85,
		DefaultFormat:  "auto",
		DefaultFit:     "scale-down",
	}
}

func newTestResolver(cfg config.Images, host string) *Resolver {
	return New(Host{
		Config:  StaticConfig(cfg),
		Request: StaticHost(host),
		Site:    fakeSite{base: "https://example.com", root: "/srv/site"},
		Locator: fakeLocator{"theme://images/logo.png": "/srv/site/themes/basic/images/logo.png"},
		Page: fakePage{
			"hero.jpg": &fakeMedia{name: "hero.jpg"},
		},
	})
}
