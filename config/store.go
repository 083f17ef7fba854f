package config

import "sync/atomic"

// Store holds the live configuration snapshot.
// Readers always see a complete *Config; Swap replaces it atomically.
type Store struct {
	cur atomic.Pointer[Config]
}

// NewStore creates a store seeded with cfg, or the defaults when cfg is nil
func NewStore(cfg *Config) *Store {
	if cfg == nil {
		cfg = Default()
	}
	s := &Store{}
	s.cur.Store(cfg)
	return s
}

// Current returns the active configuration
func (s *Store) Current() *Config {
	return s.cur.Load()
}

// Swap installs cfg and returns the previous configuration
func (s *Store) Swap(cfg *Config) *Config {
	return s.cur.Swap(cfg)
}

// Images returns the routing section of the active configuration
func (s *Store) Images() Images {
	return s.Current().Images
}
