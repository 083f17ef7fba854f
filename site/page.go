package site

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"cfimages/cfimage"
)

// ErrNoPage is returned when a page bundle directory does not exist
var ErrNoPage = errors.New("page not found")

// IndexFile is the content file of a page bundle
const IndexFile = "index.md"

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".avif": true, ".svg": true,
}

// Page represents a page bundle: a directory with index.md and its media
type Page struct {
	Dir   string `yaml:"-"`
	Route string `yaml:"-"`

	// Frontmatter
	Title     string     `yaml:"title"`
	Images    []string   `yaml:"images,omitempty"`
	Resources []Resource `yaml:"resources,omitempty"`

	// Raw content (after frontmatter)
	Content string `yaml:"-"`

	site  *Site
	media map[string]*Medium
}

// Resource gives a bundle file an extra name, e.g. name: cover, src: img/cover.jpg
type Resource struct {
	Name string `yaml:"name"`
	Src  string `yaml:"src"`
}

// LoadPage reads the page bundle at route below the site's pages directory
func (s *Site) LoadPage(route string) (*Page, error) {
	route = strings.Trim(path.Clean("/"+route), "/")
	dir := filepath.Join(s.PagesDir(), filepath.FromSlash(route))

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNoPage, route)
	}

	page := &Page{
		Dir:   dir,
		Route: route,
		site:  s,
		media: make(map[string]*Medium),
	}

	if err := page.parseIndex(); err != nil {
		return nil, err
	}
	if err := page.collectMedia(); err != nil {
		return nil, err
	}
	return page, nil
}

// parseIndex reads index.md frontmatter. A bundle without index.md is a
// media-only page.
func (p *Page) parseIndex() error {
	data, err := os.ReadFile(filepath.Join(p.Dir, IndexFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if !bytes.HasPrefix(bytes.TrimLeft(data, "\ufeff \t\r\n"), []byte("---")) {
		p.Content = string(bytes.TrimSpace(data))
		return nil
	}

	// Split frontmatter and content
	parts := bytes.SplitN(data, []byte("---"), 3)
	if len(parts) < 3 {
		return fmt.Errorf("invalid frontmatter in %s: missing --- delimiters", p.Route)
	}

	if err := yaml.Unmarshal(parts[1], p); err != nil {
		return fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	p.Content = string(bytes.TrimSpace(parts[2]))
	return nil
}

// collectMedia indexes image files under the bundle by relative path and
// adds frontmatter resource names as aliases.
func (p *Page) collectMedia() error {
	err := filepath.WalkDir(p.Dir, func(fp string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !imageExts[strings.ToLower(filepath.Ext(fp))] {
			return nil
		}
		rel, err := filepath.Rel(p.Dir, fp)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		p.media[rel] = newMedium(p.site, p.Route, rel)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan media for %s: %w", p.Route, err)
	}

	for _, res := range p.Resources {
		if m, ok := p.media[strings.TrimPrefix(res.Src, "./")]; ok && res.Name != "" {
			p.media[res.Name] = m
		}
	}
	return nil
}

// Media implements cfimage.MediaProvider
func (p *Page) Media(name string) (cfimage.MediaHandle, bool) {
	if p == nil {
		return nil, false
	}
	m, ok := p.media[name]
	if !ok {
		return nil, false
	}
	return m, true
}

// MediaNames lists the keys of the media collection, sorted
func (p *Page) MediaNames() []string {
	names := make([]string, 0, len(p.media))
	for name := range p.media {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
