package simplify

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Default tuning values. They work well for most models; none of them is
// derived, so all are exposed through Options.
const (
	DefaultQuality          = 0.5
	DefaultMaxIterations    = 100
	DefaultAggressiveness   = 7
	DefaultThresholdBase    = 1e-9
	DefaultSliverCosine     = 0.999
	DefaultFlipCosine       = 0.2
	DefaultRefCompactFactor = 4

	minQuality = 1e-6
)

// Options controls a decimation run.
type Options struct {
	// Quality is the fraction of triangles to keep, clamped to [1e-6, 1].
	Quality float32

	// MaxIterations bounds the number of sweeps over the triangle list.
	MaxIterations int

	// Aggressiveness is the exponent of the per-iteration error threshold:
	// threshold = ThresholdBase * (iteration+3)^Aggressiveness.
	Aggressiveness float64
	ThresholdBase  float64

	// SliverCosine rejects a collapse when the two remaining edge directions
	// of a neighbouring triangle become this parallel.
	SliverCosine float64

	// FlipCosine rejects a collapse when a neighbouring face normal would
	// turn so far that its cosine to the cached normal drops below this.
	FlipCosine float64

	// RefCompactFactor triggers a rebuild of the reference table between
	// sweeps once it holds this many times the live reference count.
	// Zero disables the rebuild.
	RefCompactFactor int

	// Logger receives per-iteration debug output. Nil means no logging.
	Logger *zap.Logger
}

// DefaultOptions returns the stock tuning with DefaultQuality.
func DefaultOptions() Options {
	return Options{
		Quality:          DefaultQuality,
		MaxIterations:    DefaultMaxIterations,
		Aggressiveness:   DefaultAggressiveness,
		ThresholdBase:    DefaultThresholdBase,
		SliverCosine:     DefaultSliverCosine,
		FlipCosine:       DefaultFlipCosine,
		RefCompactFactor: DefaultRefCompactFactor,
	}
}

// WithQuality returns a copy of o with Quality set.
func (o Options) WithQuality(quality float32) Options {
	o.Quality = quality
	return o
}

func (o Options) validate() error {
	if math.IsNaN(float64(o.Quality)) || math.IsInf(float64(o.Quality), 0) {
		return fmt.Errorf("%w: quality %v is not finite", ErrInvalidOptions, o.Quality)
	}
	if o.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations %d is negative", ErrInvalidOptions, o.MaxIterations)
	}
	if o.RefCompactFactor < 0 {
		return fmt.Errorf("%w: ref compact factor %d is negative", ErrInvalidOptions, o.RefCompactFactor)
	}
	return nil
}

func (o Options) clampedQuality() float64 {
	return min(max(float64(o.Quality), minQuality), 1)
}

// targetCount returns round(triangles * quality).
func (o Options) targetCount(triangles int) int {
	return int(math.Round(float64(triangles) * o.clampedQuality()))
}

func (o Options) threshold(iteration int) float64 {
	return o.ThresholdBase * math.Pow(float64(iteration+3), o.Aggressiveness)
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
