// Package config handles meshtool configuration loading and management.
package config

import (
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-lod/pkg/collider"
	"github.com/Faultbox/midgard-lod/pkg/simplify"
)

// Config holds all tool settings.
type Config struct {
	Simplify SimplifyConfig `yaml:"simplify"`
	Collider ColliderConfig `yaml:"collider"`
	Batch    BatchConfig    `yaml:"batch"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SimplifyConfig holds decimation tuning.
type SimplifyConfig struct {
	Quality          float32 `yaml:"quality"`
	MaxIterations    int     `yaml:"max_iterations"`
	Aggressiveness   float64 `yaml:"aggressiveness"`
	ThresholdBase    float64 `yaml:"threshold_base"`
	SliverCosine     float64 `yaml:"sliver_cosine"`
	FlipCosine       float64 `yaml:"flip_cosine"`
	RefCompactFactor int     `yaml:"ref_compact_factor"`
}

// ColliderConfig holds collision proxy settings.
type ColliderConfig struct {
	Quality float32 `yaml:"quality"` // Fraction of triangles the proxy keeps
}

// BatchConfig holds batch processing settings.
type BatchConfig struct {
	Workers int    `yaml:"workers"` // 0 means one per CPU
	Suffix  string `yaml:"suffix"`  // Appended to output file names
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simplify: SimplifyConfig{
			Quality:          simplify.DefaultQuality,
			MaxIterations:    simplify.DefaultMaxIterations,
			Aggressiveness:   simplify.DefaultAggressiveness,
			ThresholdBase:    simplify.DefaultThresholdBase,
			SliverCosine:     simplify.DefaultSliverCosine,
			FlipCosine:       simplify.DefaultFlipCosine,
			RefCompactFactor: simplify.DefaultRefCompactFactor,
		},
		Collider: ColliderConfig{
			Quality: collider.DefaultQuality,
		},
		Batch: BatchConfig{
			Workers: 0,
			Suffix:  "_lod",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Options converts the tuning to decimator options.
func (s SimplifyConfig) Options(log *zap.Logger) simplify.Options {
	return simplify.Options{
		Quality:          s.Quality,
		MaxIterations:    s.MaxIterations,
		Aggressiveness:   s.Aggressiveness,
		ThresholdBase:    s.ThresholdBase,
		SliverCosine:     s.SliverCosine,
		FlipCosine:       s.FlipCosine,
		RefCompactFactor: s.RefCompactFactor,
		Logger:           log,
	}
}

// ColliderOptions returns decimator options for building a collision proxy.
func (c *Config) ColliderOptions(log *zap.Logger) simplify.Options {
	return c.Simplify.Options(log).WithQuality(c.Collider.Quality)
}

// WorkerCount returns the batch worker count, resolving 0 to the CPU count.
func (b BatchConfig) WorkerCount() int {
	if b.Workers > 0 {
		return b.Workers
	}
	return runtime.NumCPU()
}
