// Package pipeline orchestrates a LUT generation batch: sequential
// reference image analysis, aggregation, transform solving and lattice
// synthesis.
package pipeline

import (
	"fmt"
	"time"

	"github.com/jmylchreest/cubist/internal/colour"
	"github.com/jmylchreest/cubist/internal/lut"
)

// DefaultImageTimeout bounds how long a single reference image may take
// to load and analyse before it is skipped.
const DefaultImageTimeout = 30 * time.Second

// CanonicalResolutions are the lattice sizes offered by the CLI. Any
// resolution >= 2 is accepted; these are the interchange-friendly values.
var CanonicalResolutions = []int{17, 33, 65}

// Config carries the operator-facing settings for one generation run.
type Config struct {
	// IntensityLevel scales how strongly the derived look is applied (1-5).
	IntensityLevel int

	// Resolution is the LUT lattice edge length.
	Resolution int

	// BWMethod selects the grayscale conversion used for monochrome
	// batches.
	BWMethod colour.GrayscaleMethod

	// AdvancedMode is informational only and never alters the algorithm.
	AdvancedMode bool

	// ImageTimeout bounds per-image load and analysis. Zero means
	// DefaultImageTimeout.
	ImageTimeout time.Duration

	// Title is the free-text artifact title.
	Title string
}

// DefaultConfig returns the default generation settings.
func DefaultConfig() Config {
	return Config{
		IntensityLevel: 3,
		Resolution:     33,
		BWMethod:       colour.GrayscaleLuminance,
		ImageTimeout:   DefaultImageTimeout,
	}
}

// Validate rejects invalid settings before any synthesis work starts.
func (c Config) Validate() error {
	if c.IntensityLevel < lut.MinIntensity || c.IntensityLevel > lut.MaxIntensity {
		return fmt.Errorf("intensity level must be between %d and %d, got %d",
			lut.MinIntensity, lut.MaxIntensity, c.IntensityLevel)
	}
	if c.Resolution < lut.MinResolution {
		return fmt.Errorf("lut resolution must be at least %d, got %d",
			lut.MinResolution, c.Resolution)
	}
	if !colour.IsValidGrayscaleMethod(c.BWMethod) {
		return fmt.Errorf("unknown bw conversion method: %s (valid: %v)",
			c.BWMethod, colour.ValidGrayscaleMethods())
	}
	if c.ImageTimeout < 0 {
		return fmt.Errorf("image timeout cannot be negative")
	}
	return nil
}

// timeout returns the effective per-image timeout.
func (c Config) timeout() time.Duration {
	if c.ImageTimeout == 0 {
		return DefaultImageTimeout
	}
	return c.ImageTimeout
}
