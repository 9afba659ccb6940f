package lut

import (
	"fmt"
	"math"
	"sync"

	"github.com/jmylchreest/cubist/internal/colour"
	"github.com/jmylchreest/cubist/internal/profile"
)

// MinResolution is the smallest usable lattice edge. Canonical values
// are 17, 33 and 65.
const MinResolution = 2

// Options configures lattice synthesis.
type Options struct {
	// Resolution is the lattice edge length; the grid holds
	// Resolution^3 points.
	Resolution int

	// Intensity is the operator-facing intensity level (1-5).
	Intensity int

	// BWMethod selects the grayscale conversion for the monochrome
	// branch.
	BWMethod colour.GrayscaleMethod
}

// Validate rejects unusable synthesis options.
func (o Options) Validate() error {
	if o.Resolution < MinResolution {
		return fmt.Errorf("lut resolution must be at least %d, got %d", MinResolution, o.Resolution)
	}
	if o.Intensity < MinIntensity || o.Intensity > MaxIntensity {
		return fmt.Errorf("intensity level must be between %d and %d, got %d",
			MinIntensity, MaxIntensity, o.Intensity)
	}
	if o.BWMethod != "" && !colour.IsValidGrayscaleMethod(o.BWMethod) {
		return fmt.Errorf("unknown bw conversion method: %s", o.BWMethod)
	}
	return nil
}

// Grid is an immutable ordered sequence of exactly resolution^3 RGB
// points. Iteration order is blue outermost, green middle, red innermost,
// matching the .cube domain declaration.
type Grid struct {
	Resolution int
	Points     []colour.RGB
}

// At returns the output colour for the lattice coordinate (r, g, b).
func (g *Grid) At(r, gg, b int) colour.RGB {
	n := g.Resolution
	return g.Points[(b*n+gg)*n+r]
}

// Synthesize walks the output lattice and produces the final RGB
// sequence. The per-cell computation is a pure function of its inputs, so
// the lattice is partitioned across blue planes and filled concurrently;
// identical inputs always yield an identical point sequence.
func Synthesize(opts Options, combined colour.CombinedAnalysis, transforms Transforms, prof *profile.Profile) (*Grid, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := prof.Validate(); err != nil {
		return nil, fmt.Errorf("invalid camera profile: %w", err)
	}

	n := opts.Resolution
	grid := &Grid{
		Resolution: n,
		Points:     make([]colour.RGB, n*n*n),
	}

	syn := synthesizer{
		opts:       opts,
		combined:   combined,
		transforms: transforms,
		matrix:     prof.MatrixElements(),
	}

	scale := 1.0 / float64(n-1)

	var wg sync.WaitGroup
	for b := 0; b < n; b++ {
		wg.Add(1)
		go func(b int) {
			defer wg.Done()
			ib := float64(b) * scale
			offset := b * n * n
			for g := 0; g < n; g++ {
				ig := float64(g) * scale
				for r := 0; r < n; r++ {
					ir := float64(r) * scale
					grid.Points[offset+g*n+r] = syn.cell(ir, ig, ib)
				}
			}
		}(b)
	}
	wg.Wait()

	return grid, nil
}

// synthesizer carries the immutable per-run state read by every cell.
type synthesizer struct {
	opts       Options
	combined   colour.CombinedAnalysis
	transforms Transforms
	matrix     [9]float64
}

// cell computes the output colour for one normalised lattice coordinate.
func (s *synthesizer) cell(ir, ig, ib float64) colour.RGB {
	if s.combined.IsBlackAndWhite {
		return s.monochromeCell(ir, ig, ib)
	}
	return s.colourCell(ir, ig, ib)
}

// monochromeCell maps the coordinate to a single tone, pulling it toward
// the batch zone luminances with ramp-weighted blends.
func (s *synthesizer) monochromeCell(ir, ig, ib float64) colour.RGB {
	gray := colour.ToGrayscale(ir, ig, ib, s.opts.BWMethod)

	shadowW := colour.Clamp01((0.3 - gray) / 0.3)
	highlightW := colour.Clamp01((gray - 0.7) / 0.3)
	midW := math.Max(1-shadowW-highlightW, 0)

	intensityFactor := float64(s.opts.Intensity) * 0.2
	value := gray

	// Sequential zone blends: each step reads the value produced by the
	// previous one.
	if shadowW > 0 && s.combined.Shadows.Present() {
		f := math.Pow(shadowW, 0.8) * intensityFactor
		value = value*(1-f) + s.combined.Shadows.Luminance*f
	}
	if midW > 0 && s.combined.Midtones.Present() {
		f := math.Pow(midW, 0.6) * intensityFactor
		value = value*(1-f) + s.combined.Midtones.Luminance*f
	}
	if highlightW > 0 && s.combined.Highlights.Present() {
		f := math.Pow(highlightW, 0.8) * intensityFactor
		value = value*(1-f) + s.combined.Highlights.Luminance*f
	}

	value = colour.Clamp01(value)
	return colour.RGB{R: value, G: value, B: value}
}

// colourCell applies the zone gains, colour matrix, temperature and tint
// shifts, saturation boost and contrast curve for one coordinate.
func (s *synthesizer) colourCell(ir, ig, ib float64) colour.RGB {
	lum := colour.ToGrayscale(ir, ig, ib, colour.GrayscaleLuminance)

	shadowW := colour.Clamp01((0.35 - lum) / 0.35)
	highlightW := colour.Clamp01((lum - 0.65) / 0.35)
	midW := math.Max(1-shadowW-highlightW, 0)

	blendStrength := float64(s.opts.Intensity) * 0.15
	r, g, b := ir, ig, ib

	// Shadow and highlight targets blend the gained value toward the
	// batch zone mean; midtones apply the bare gain. The steps run in
	// order and each reads the running value left by the previous one.
	if shadowW > 0 && s.combined.Shadows.Present() {
		f := math.Pow(shadowW, 0.7) * blendStrength
		tf := s.transforms.Shadows
		mean := s.combined.Shadows.RGB
		r = blend(r, r*tf.R*0.8+mean.R*0.2, f)
		g = blend(g, g*tf.G*0.8+mean.G*0.2, f)
		b = blend(b, b*tf.B*0.8+mean.B*0.2, f)
	}
	if midW > 0 && s.combined.Midtones.Present() {
		f := math.Pow(midW, 0.5) * blendStrength
		tf := s.transforms.Midtones
		r = blend(r, r*tf.R, f)
		g = blend(g, g*tf.G, f)
		b = blend(b, b*tf.B, f)
	}
	if highlightW > 0 && s.combined.Highlights.Present() {
		f := math.Pow(highlightW, 0.7) * blendStrength
		tf := s.transforms.Highlights
		mean := s.combined.Highlights.RGB
		r = blend(r, r*tf.R*0.9+mean.R*0.1, f)
		g = blend(g, g*tf.G*0.9+mean.G*0.1, f)
		b = blend(b, b*tf.B*0.9+mean.B*0.1, f)
	}

	// Camera colour matrix.
	m := s.matrix
	r, g, b = m[0]*r+m[1]*g+m[2]*b,
		m[3]*r+m[4]*g+m[5]*b,
		m[6]*r+m[7]*g+m[8]*b

	// Global temperature and tint shifts. Temperature moves red and blue
	// in opposite directions.
	global := s.combined.Global
	intensity := float64(s.opts.Intensity)
	shift := global.ColorTemperature * intensity * 0.002
	r += shift
	b -= shift
	g += global.Tint * intensity * 0.002

	// Saturation boost around the post-shift luminance.
	curLum := colour.ToGrayscale(r, g, b, colour.GrayscaleLuminance)
	saturationBoost := 1 + (global.Saturation-0.4)*(intensity*0.4)
	r = curLum + (r-curLum)*saturationBoost
	g = curLum + (g-curLum)*saturationBoost
	b = curLum + (b-curLum)*saturationBoost

	// Contrast S-curve.
	contrastBoost := 1 + (global.Contrast-0.3)*(intensity*0.3)
	if contrastBoost != 1 {
		r = sCurve(r, contrastBoost)
		g = sCurve(g, contrastBoost)
		b = sCurve(b, contrastBoost)
	}

	return colour.RGB{
		R: colour.Clamp01(r),
		G: colour.Clamp01(g),
		B: colour.Clamp01(b),
	}
}

// blend moves the running value toward target by factor f.
func blend(value, target, f float64) float64 {
	return value*(1-f) + target*f
}

// sCurve applies a power-law contrast curve pivoting at the midpoint.
// The input is clamped first: the saturation boost can push a channel
// outside [0, 1], and a negative power base would turn into NaN.
func sCurve(v, strength float64) float64 {
	v = colour.Clamp01(v)
	if v < 0.5 {
		return math.Pow(2*v, strength) / 2
	}
	return 1 - math.Pow(2*(1-v), strength)/2
}
