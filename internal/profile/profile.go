// Package profile defines the static camera baseline a LUT is solved
// against: neutral RGB values per luminance zone and a 3x3 colour matrix.
package profile

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/jmylchreest/cubist/internal/colour"
)

// Profile is a reference camera baseline. Zone neutrals act as divisors
// during transform solving, so every component must be nonzero.
type Profile struct {
	Name string

	// Neutral response per zone: shadow lift, midtone gamma, highlight gain.
	Shadows    colour.RGB
	Midtones   colour.RGB
	Highlights colour.RGB

	// ColorMatrix is the 3x3 matrix applied to every synthesised colour.
	ColorMatrix *mat.Dense
}

// Default returns the neutral baseline profile with an identity colour
// matrix.
func Default() *Profile {
	return &Profile{
		Name:       "neutral",
		Shadows:    colour.RGB{R: 0.15, G: 0.15, B: 0.15},
		Midtones:   colour.RGB{R: 0.5, G: 0.5, B: 0.5},
		Highlights: colour.RGB{R: 0.85, G: 0.85, B: 0.85},
		ColorMatrix: mat.NewDense(3, 3, []float64{
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
		}),
	}
}

// Validate checks the profile is usable for transform solving: a present
// 3x3 colour matrix and nonzero zone neutrals.
func (p *Profile) Validate() error {
	if p == nil {
		return fmt.Errorf("camera profile cannot be nil")
	}
	if p.ColorMatrix == nil {
		return fmt.Errorf("camera profile %q has no colour matrix", p.Name)
	}
	if r, c := p.ColorMatrix.Dims(); r != 3 || c != 3 {
		return fmt.Errorf("camera profile %q colour matrix must be 3x3, got %dx%d", p.Name, r, c)
	}

	zones := []struct {
		name    string
		neutral colour.RGB
	}{
		{"shadows", p.Shadows},
		{"midtones", p.Midtones},
		{"highlights", p.Highlights},
	}
	for _, z := range zones {
		if z.neutral.R == 0 || z.neutral.G == 0 || z.neutral.B == 0 {
			return fmt.Errorf("camera profile %q has a zero %s neutral component", p.Name, z.name)
		}
	}
	return nil
}

// Neutral returns the baseline neutral for the given zone.
func (p *Profile) Neutral(z colour.Zone) colour.RGB {
	switch z {
	case colour.ZoneShadows:
		return p.Shadows
	case colour.ZoneMidtones:
		return p.Midtones
	default:
		return p.Highlights
	}
}

// MatrixElements returns the colour matrix as a flat row-major array,
// suitable for tight per-cell loops without going through the mat API.
func (p *Profile) MatrixElements() [9]float64 {
	var elems [9]float64
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			elems[row*3+col] = p.ColorMatrix.At(row, col)
		}
	}
	return elems
}
