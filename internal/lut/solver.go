// Package lut implements the LUT core: per-zone transform solving, dense
// lattice synthesis and .cube serialization.
package lut

import (
	"fmt"

	"github.com/jmylchreest/cubist/internal/colour"
	"github.com/jmylchreest/cubist/internal/profile"
)

const (
	// MinIntensity and MaxIntensity bound the operator-facing intensity
	// level.
	MinIntensity = 1
	MaxIntensity = 5

	// Gain clamp range for zone transforms.
	minGain = 0.1
	maxGain = 3.0
)

// ZoneTransform is a per-zone multiplicative RGB gain, always clamped to
// [0.1, 3.0].
type ZoneTransform struct {
	R float64
	G float64
	B float64
}

// identityTransform leaves the channel values unchanged.
var identityTransform = ZoneTransform{R: 1, G: 1, B: 1}

// Transforms holds the solved gain for each luminance zone.
type Transforms struct {
	Shadows    ZoneTransform
	Midtones   ZoneTransform
	Highlights ZoneTransform
}

// Zone returns the transform for the given zone.
func (t Transforms) Zone(z colour.Zone) ZoneTransform {
	switch z {
	case colour.ZoneShadows:
		return t.Shadows
	case colour.ZoneMidtones:
		return t.Midtones
	default:
		return t.Highlights
	}
}

// SolveTransforms computes the per-zone multiplicative gain that moves
// the profile baseline toward the batch zone means. intensity scales how
// far the gain departs from identity: level 1 applies half the measured
// ratio, level 5 applies one and a half times.
//
// Zones with zero aggregate weight solve to the identity transform so
// their contribution is skipped downstream.
func SolveTransforms(p *profile.Profile, combined colour.CombinedAnalysis, intensity int) (Transforms, error) {
	if intensity < MinIntensity || intensity > MaxIntensity {
		return Transforms{}, fmt.Errorf("intensity level must be between %d and %d, got %d",
			MinIntensity, MaxIntensity, intensity)
	}
	if err := p.Validate(); err != nil {
		return Transforms{}, fmt.Errorf("invalid camera profile: %w", err)
	}

	baseIntensity := 0.5 + float64(intensity-1)*0.25

	return Transforms{
		Shadows:    solveZone(p.Shadows, combined.Shadows, baseIntensity),
		Midtones:   solveZone(p.Midtones, combined.Midtones, baseIntensity),
		Highlights: solveZone(p.Highlights, combined.Highlights, baseIntensity),
	}, nil
}

// solveZone derives the clamped gain for one zone.
func solveZone(neutral colour.RGB, agg colour.ZoneAggregate, baseIntensity float64) ZoneTransform {
	if !agg.Present() {
		return identityTransform
	}
	return ZoneTransform{
		R: solveGain(agg.RGB.R, neutral.R, baseIntensity),
		G: solveGain(agg.RGB.G, neutral.G, baseIntensity),
		B: solveGain(agg.RGB.B, neutral.B, baseIntensity),
	}
}

func solveGain(target, neutral, baseIntensity float64) float64 {
	gain := ((target/neutral)-1)*baseIntensity + 1
	return colour.Clamp(gain, minGain, maxGain)
}
