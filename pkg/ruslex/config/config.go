// Package config loads the ruslex configuration from YAML and supplies
// defaults when no file is given.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/ruslex/pkg/ruslex/internalerr"
)

// Config is the full application configuration.
type Config struct {
	// TopN bounds the per-category lemma rankings.
	TopN int `yaml:"top_n"`

	// POSLabels optionally overrides the built-in Russian label table,
	// e.g. to localize the report for another audience.
	POSLabels map[string]string `yaml:"pos_labels"`

	Server    Server    `yaml:"server"`
	Storage   Storage   `yaml:"storage"`
	Annotator Annotator `yaml:"annotator"`
}

// Server configures the HTTP layer.
type Server struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	CacheSize      int      `yaml:"cache_size"`
}

// Storage configures analysis persistence. An empty path means
// in-memory only.
type Storage struct {
	Path string `yaml:"path"`
}

// Annotator points at the external annotation service that turns raw
// text into an annotated document. Empty base URL disables plain-text
// uploads; pre-annotated CoNLL-U input still works.
type Annotator struct {
	BaseURL    string `yaml:"base_url"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		TopN: 100,
		Server: Server{
			Addr:           ":8080",
			MaxUploadBytes: 16 << 20,
			CacheSize:      32,
		},
		Annotator: Annotator{
			TimeoutSec: 30,
		},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.TopN < 0 {
		return fmt.Errorf("top_n must not be negative: %w", internalerr.ErrInvalidConfig)
	}
	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("max_upload_bytes must not be negative: %w", internalerr.ErrInvalidConfig)
	}
	if c.Server.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative: %w", internalerr.ErrInvalidConfig)
	}
	if c.Annotator.TimeoutSec < 0 {
		return fmt.Errorf("timeout_sec must not be negative: %w", internalerr.ErrInvalidConfig)
	}
	return nil
}
