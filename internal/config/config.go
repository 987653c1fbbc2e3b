// Package config loads command-line defaults for stochrammar.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/roach88/stochrammar/internal/engine"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "STOCHRAMMAR_"

const maxConfigFileSize = 1024 * 1024 // 1MB

// Config holds generation defaults. Command-line flags override it.
type Config struct {
	Engine     string `koanf:"engine"`
	Traversal  string `koanf:"traversal"`
	Seed       uint64 `koanf:"seed"`
	Count      int    `koanf:"count"`
	BufferSize int    `koanf:"buffer_size"`
	Format     string `koanf:"format"`

	// MaxReplacements caps Replace calls per run. 0 means unlimited.
	MaxReplacements int `koanf:"max_replacements"`

	// Seeded is true when a seed was configured. Unseeded runs draw from
	// the process-wide random source.
	Seeded bool `koanf:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Engine:     string(engine.KindSequence),
		Traversal:  engine.DepthFirst.String(),
		Count:      1,
		BufferSize: engine.DefaultBufferSize,
		Format:     "text",
	}
}

// Load builds the configuration.
//
// Precedence (highest to lowest):
//  1. Environment variables (STOCHRAMMAR_ENGINE, STOCHRAMMAR_MAX_REPLACEMENTS, ...)
//  2. The YAML file at path, if path is non-empty
//  3. Default()
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// STOCHRAMMAR_BUFFER_SIZE -> buffer_size
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Seeded = k.Exists("seed")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	var errs []error
	if _, err := engine.ParseKind(c.Engine); err != nil {
		errs = append(errs, err)
	}
	if _, err := engine.ParseTraversal(c.Traversal); err != nil {
		errs = append(errs, err)
	}
	if c.Count < 1 {
		errs = append(errs, fmt.Errorf("count must be at least 1, got %d", c.Count))
	}
	if c.MaxReplacements < 0 {
		errs = append(errs, fmt.Errorf("max_replacements must be non-negative, got %d", c.MaxReplacements))
	}
	if c.BufferSize < 1 {
		errs = append(errs, fmt.Errorf("buffer_size must be at least 1, got %d", c.BufferSize))
	}
	switch c.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("format must be 'text' or 'json', got %q", c.Format))
	}
	return errors.Join(errs...)
}

// EngineKind returns the parsed engine kind. Call after Validate.
func (c *Config) EngineKind() engine.Kind {
	kind, _ := engine.ParseKind(c.Engine)
	return kind
}

// TraversalOrder returns the parsed traversal. Call after Validate.
func (c *Config) TraversalOrder() engine.Traversal {
	t, _ := engine.ParseTraversal(c.Traversal)
	return t
}
