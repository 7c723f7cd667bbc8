package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when loaded values cannot drive the tools.
var ErrInvalidConfig = errors.New("invalid config")

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges the decimator does not clamp itself.
func (c *Config) Validate() error {
	switch {
	case c.Simplify.Quality < 0 || c.Simplify.Quality > 1:
		return fmt.Errorf("%w: simplify.quality %v outside [0, 1]", ErrInvalidConfig, c.Simplify.Quality)
	case c.Collider.Quality < 0 || c.Collider.Quality > 1:
		return fmt.Errorf("%w: collider.quality %v outside [0, 1]", ErrInvalidConfig, c.Collider.Quality)
	case c.Simplify.MaxIterations < 0:
		return fmt.Errorf("%w: simplify.max_iterations is negative", ErrInvalidConfig)
	case c.Batch.Workers < 0:
		return fmt.Errorf("%w: batch.workers is negative", ErrInvalidConfig)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./meshtool.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "MidgardLOD")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MidgardLOD")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "midgard-lod")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "midgard-lod")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Unknown keys are rejected. An empty file leaves cfg unchanged.
func loadFromFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
