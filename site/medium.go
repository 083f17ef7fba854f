package site

import (
	"encoding/hex"
	"fmt"
	"path"
	"strings"

	"github.com/zeebo/blake3"

	"cfimages/cfimage"
)

// DerivativesPath is where processed variants of page media are served from
const DerivativesPath = "/images/"

// Medium is a page bundle image plus the operations requested on it.
// It never reads pixels: URL names the derivative the host image pipeline
// is expected to produce. Every operation returns a new Medium.
type Medium struct {
	site  *Site
	route string
	file  string
	ops   []string
}

func newMedium(s *Site, route, file string) *Medium {
	return &Medium{site: s, route: route, file: file}
}

// URL returns the original file URL, or the derivative URL once any
// operation has been applied. A nil Medium has no URL.
func (m *Medium) URL() string {
	if m == nil {
		return ""
	}
	base := ""
	if m.site != nil {
		base = m.site.BaseURLAbsolute()
	}
	if len(m.ops) == 0 {
		return base + "/" + path.Join(m.route, m.file)
	}

	ext := path.Ext(m.file)
	stem := strings.TrimSuffix(path.Base(m.file), ext)
	ops := strings.Join(m.ops, "_")
	return base + DerivativesPath + stem + "_" + m.fingerprint(ops) + "_" + ops + ext
}

// Ops returns the applied operations in order
func (m *Medium) Ops() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.ops...)
}

// fingerprint keeps derivative names of equally named files in different
// bundles apart.
func (m *Medium) fingerprint(ops string) string {
	sum := blake3.Sum256([]byte(path.Join(m.route, m.file) + "|" + ops))
	return hex.EncodeToString(sum[:])[:10]
}

func (m *Medium) with(op string) cfimage.MediaHandle {
	if m == nil {
		return m
	}
	next := *m
	next.ops = append(append([]string(nil), m.ops...), op)
	return &next
}

// Resize implements cfimage.MediaHandle; zero keeps the aspect ratio
func (m *Medium) Resize(width, height int) cfimage.MediaHandle {
	return m.with(fmt.Sprintf("resize-%dx%d", width, height))
}

// CropResize implements cfimage.MediaHandle
func (m *Medium) CropResize(width, height int) cfimage.MediaHandle {
	return m.with(fmt.Sprintf("cropresize-%dx%d", width, height))
}

// CropZoom implements cfimage.MediaHandle
func (m *Medium) CropZoom(width, height int) cfimage.MediaHandle {
	return m.with(fmt.Sprintf("cropzoom-%dx%d", width, height))
}

// Quality implements cfimage.MediaHandle
func (m *Medium) Quality(q int) cfimage.MediaHandle {
	return m.with(fmt.Sprintf("q%d", q))
}
