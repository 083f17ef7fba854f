package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override file values
const (
	EnvEnabled      = "CF_IMAGES_ENABLED"
	EnvForce        = "CF_IMAGES_FORCE"
	EnvDomains      = "CF_IMAGES_DOMAINS"
	EnvLocalDomains = "CF_IMAGES_LOCAL_DOMAINS"
	EnvQuality      = "CF_IMAGES_QUALITY"
	EnvFormat       = "CF_IMAGES_FORMAT"
	EnvFit          = "CF_IMAGES_FIT"
	EnvBaseURL      = "SITE_BASE_URL"
)

// LoadDotEnv loads .env files into the process environment.
// Missing files are skipped; variables already set are left alone.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overlays environment overrides onto c
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvEnabled); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvEnabled, err)
		}
		c.Images.Enabled = b
	}
	if v, ok := os.LookupEnv(EnvForce); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvForce, err)
		}
		c.Images.ForceCloudflare = b
	}
	if v, ok := os.LookupEnv(EnvDomains); ok {
		c.Images.Domains = splitList(v)
	}
	if v, ok := os.LookupEnv(EnvLocalDomains); ok {
		c.Images.LocalDomains = splitList(v)
	}
	if v, ok := os.LookupEnv(EnvQuality); ok {
		q, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvQuality, err)
		}
		c.Images.DefaultQuality = q
	}
	if v, ok := os.LookupEnv(EnvFormat); ok {
		c.Images.DefaultFormat = v
	}
	if v, ok := os.LookupEnv(EnvFit); ok {
		c.Images.DefaultFit = v
	}
	if v, ok := os.LookupEnv(EnvBaseURL); ok {
		c.Site.BaseURL = v
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
