package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Config represents the application configuration
type Config struct {
	Images Images `yaml:"cloudflare_images"`
	Site   Site   `yaml:"site"`
}

// Images holds the CDN routing and transformation defaults
type Images struct {
	Enabled         bool     `yaml:"enabled"`
	ForceCloudflare bool     `yaml:"force_cloudflare"`
	Domains         []string `yaml:"cloudflare_domains"`
	LocalDomains    []string `yaml:"local_domains"`
	DefaultQuality  int      `yaml:"default_quality"`
	DefaultFormat   string   `yaml:"default_format"`
	DefaultFit      string   `yaml:"default_fit"`
}

// Site describes where the site lives on disk and where it is served from
type Site struct {
	BaseURL  string `yaml:"base_url"`
	RootDir  string `yaml:"root_dir"`
	ThemeDir string `yaml:"theme_dir"`
	PagesDir string `yaml:"pages_dir"`
}

// Fit modes understood by the CDN
var Fits = []string{"scale-down", "contain", "cover", "crop", "pad"}

// Formats understood by the CDN
var Formats = []string{"auto", "avif", "webp", "jpeg", "baseline-jpeg", "png", "json"}

// Default returns the configuration used for every key missing from the file
func Default() *Config {
	return &Config{
		Images: Images{
			DefaultQuality: 85,
			DefaultFormat:  "auto",
			DefaultFit:     "scale-down",
		},
		Site: Site{
			BaseURL:  "http://localhost",
			PagesDir: "content",
		},
	}
}

// Load reads and parses the configuration file.
// Values are layered: defaults, then the file, then environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse unmarshals YAML over the defaults without validating
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks that configured values are usable
func (c *Config) Validate() error {
	if q := c.Images.DefaultQuality; q < 1 || q > 100 {
		return fmt.Errorf("%w: cloudflare_images.default_quality must be 1-100, got %d", ErrInvalid, q)
	}
	if !slices.Contains(Fits, c.Images.DefaultFit) {
		return fmt.Errorf("%w: cloudflare_images.default_fit %q is not one of %v", ErrInvalid, c.Images.DefaultFit, Fits)
	}
	if !slices.Contains(Formats, c.Images.DefaultFormat) {
		return fmt.Errorf("%w: cloudflare_images.default_format %q is not one of %v", ErrInvalid, c.Images.DefaultFormat, Formats)
	}
	if c.Site.BaseURL != "" {
		u, err := url.Parse(c.Site.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: site.base_url %q must be an absolute URL", ErrInvalid, c.Site.BaseURL)
		}
	}
	return nil
}
