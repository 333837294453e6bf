// Package config loads the mutation engine's configuration: defaults
// merged with an optional YAML file, with environment variable expansion,
// in the same shape the teacher's configuration loader uses.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the engine's full configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig holds the mutator's default batch parameters.
type EngineConfig struct {
	DefaultSeedBase    int64  `yaml:"default_seed_base"`
	DefaultStrength    int    `yaml:"default_strength"`
	DefaultMaxChars    int    `yaml:"default_max_chars"`
	DefaultPlaceholder string `yaml:"default_placeholder"`
	DefaultN           int    `yaml:"default_n"`
	DefaultK           int    `yaml:"default_k"`
}

// LoggingConfig mirrors pkg/logging.Config in YAML-settable form.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the engine's built-in defaults, matching spec.md
// §6's documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			DefaultSeedBase:    1337,
			DefaultStrength:    2,
			DefaultMaxChars:    8000,
			DefaultPlaceholder: "N/A",
			DefaultN:           10,
			DefaultK:           1,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from a YAML file at path, falling back to
// DefaultConfig() when path is empty or the file does not exist.
// Environment variables referenced in the file (e.g. "${HOME}") are
// expanded before parsing.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = "config.yaml"
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read file: %w", err)
	}

	expanded := []byte(os.ExpandEnv(string(data)))
	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse file: %w", err)
	}

	return cfg, nil
}

// Save writes cfg to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: failed to marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: failed to write file: %w", err)
	}
	return nil
}

// Validate checks invariants Load alone cannot enforce (zero values that
// would make the engine misbehave rather than merely use a default).
func (c *Config) Validate() error {
	if c.Engine.DefaultMaxChars < 1 {
		return fmt.Errorf("engine.default_max_chars must be at least 1")
	}
	if c.Engine.DefaultStrength < 1 || c.Engine.DefaultStrength > 5 {
		return fmt.Errorf("engine.default_strength must be in [1,5]")
	}
	if c.Engine.DefaultN < 1 {
		return fmt.Errorf("engine.default_n must be at least 1")
	}
	return nil
}
