// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for confcache
// tooling.
//
// Configuration is loaded from a single YAML file specified by:
//   - CONFCACHE_CONFIG environment variable, or
//   - --config flag passed to a command
//
// There are no fallbacks or automatic discovery. This ensures
// deterministic, auditable configuration with no hidden overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/confcache/lib/statefile"
)

// Config is the configuration for confcache tooling.
type Config struct {
	// CacheDir is the directory holding state files.
	CacheDir string `yaml:"cache_dir"`

	// Compression selects the state-file payload compression:
	// "none", "lz4", or "zstd".
	Compression string `yaml:"compression"`

	// Fallback selects the fallback value codec: "cbor" or
	// "msgpack". Both sides of a cache must agree; the choice is
	// not recorded in the stream.
	Fallback string `yaml:"fallback"`
}

// Default returns the default configuration. These defaults exist so
// all fields have sensible values before the config file is merged
// in — the config file remains the source of truth.
//
// The default cache directory is ~/.cache/confcache. When the home
// directory cannot be determined (HOME unset in a minimal container
// or under a locked-down service account), it falls back to
// /var/cache/confcache rather than silently producing a relative
// path.
func Default() *Config {
	cacheDir := "/var/cache/confcache"
	if homeDir, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(homeDir, ".cache", "confcache")
	}
	return &Config{
		CacheDir:    cacheDir,
		Compression: "zstd",
		Fallback:    "cbor",
	}
}

// Load loads configuration from the CONFCACHE_CONFIG environment
// variable. There is no fallback path: if the variable is unset,
// Load fails.
func Load() (*Config, error) {
	path := os.Getenv("CONFCACHE_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("CONFCACHE_CONFIG environment variable not set; " +
			"set it to the path of your confcache.yaml config file, or use --config flag")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging
// over defaults, and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.CacheDir == "" {
		errs = append(errs, fmt.Errorf("cache_dir is required"))
	}
	if _, err := c.CompressionTag(); err != nil {
		errs = append(errs, fmt.Errorf("compression: %w", err))
	}
	switch c.Fallback {
	case "cbor", "msgpack":
	default:
		errs = append(errs, fmt.Errorf("fallback must be \"cbor\" or \"msgpack\", got %q", c.Fallback))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// CompressionTag returns the configured compression as a state-file
// tag.
func (c *Config) CompressionTag() (statefile.CompressionTag, error) {
	return statefile.ParseCompressionTag(c.Compression)
}
