package lut

import (
	"math"
	"testing"

	"github.com/jmylchreest/cubist/internal/colour"
	"github.com/jmylchreest/cubist/internal/profile"
)

// uniformProfile builds a profile whose zone neutrals are all the given
// grey value, keeping gain expectations easy to compute by hand.
func uniformProfile(neutral float64) *profile.Profile {
	p := profile.Default()
	p.Shadows = colour.RGB{R: neutral, G: neutral, B: neutral}
	p.Midtones = colour.RGB{R: neutral, G: neutral, B: neutral}
	p.Highlights = colour.RGB{R: neutral, G: neutral, B: neutral}
	return p
}

// uniformAggregate builds a zone aggregate with the given mean grey value.
func uniformAggregate(weight, mean float64) colour.ZoneAggregate {
	return colour.ZoneAggregate{
		Weight:    weight,
		RGB:       colour.RGB{R: mean, G: mean, B: mean},
		Luminance: mean,
	}
}

func TestSolveTransformsGain(t *testing.T) {
	// target/neutral = 2, so the raw ratio departs from identity by 1.
	combined := colour.CombinedAnalysis{
		Shadows: uniformAggregate(100, 1.0),
		Global:  colour.NeutralGlobalStats(),
	}

	tests := []struct {
		name      string
		intensity int
		want      float64
	}{
		{name: "level 1 applies half the ratio", intensity: 1, want: 1.5},
		{name: "level 3 applies the full ratio", intensity: 3, want: 2.0},
		{name: "level 5 applies one and a half", intensity: 5, want: 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transforms, err := SolveTransforms(uniformProfile(0.5), combined, tt.intensity)
			if err != nil {
				t.Fatalf("SolveTransforms() error = %v", err)
			}
			got := transforms.Shadows
			if math.Abs(got.R-tt.want) > 1e-9 || math.Abs(got.G-tt.want) > 1e-9 || math.Abs(got.B-tt.want) > 1e-9 {
				t.Errorf("Shadows = %+v, want all channels %f", got, tt.want)
			}
		})
	}
}

func TestSolveTransformsClamps(t *testing.T) {
	tests := []struct {
		name      string
		target    float64
		neutral   float64
		intensity int
		want      float64
	}{
		{name: "upper clamp", target: 3.0, neutral: 0.5, intensity: 5, want: 3.0},
		{name: "lower clamp", target: 0.01, neutral: 0.85, intensity: 5, want: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			combined := colour.CombinedAnalysis{
				Midtones: uniformAggregate(10, tt.target),
			}
			transforms, err := SolveTransforms(uniformProfile(tt.neutral), combined, tt.intensity)
			if err != nil {
				t.Fatalf("SolveTransforms() error = %v", err)
			}
			if math.Abs(transforms.Midtones.R-tt.want) > 1e-9 {
				t.Errorf("Midtones.R = %f, want %f", transforms.Midtones.R, tt.want)
			}
		})
	}
}

func TestSolveTransformsAbsentZoneIsIdentity(t *testing.T) {
	combined := colour.CombinedAnalysis{
		Midtones: uniformAggregate(200, 0.8),
	}
	transforms, err := SolveTransforms(profile.Default(), combined, 3)
	if err != nil {
		t.Fatalf("SolveTransforms() error = %v", err)
	}

	if transforms.Shadows != identityTransform {
		t.Errorf("Shadows = %+v, want identity", transforms.Shadows)
	}
	if transforms.Highlights != identityTransform {
		t.Errorf("Highlights = %+v, want identity", transforms.Highlights)
	}
	if transforms.Midtones == identityTransform {
		t.Error("Midtones solved to identity despite a present zone")
	}
}

func TestSolveTransformsValidation(t *testing.T) {
	combined := colour.CombinedAnalysis{}

	if _, err := SolveTransforms(profile.Default(), combined, 0); err == nil {
		t.Error("SolveTransforms() expected error for intensity 0, got nil")
	}
	if _, err := SolveTransforms(profile.Default(), combined, 6); err == nil {
		t.Error("SolveTransforms() expected error for intensity 6, got nil")
	}
	if _, err := SolveTransforms(nil, combined, 3); err == nil {
		t.Error("SolveTransforms() expected error for nil profile, got nil")
	}
}

func TestTransformsZone(t *testing.T) {
	transforms := Transforms{
		Shadows:    ZoneTransform{R: 1.1, G: 1.1, B: 1.1},
		Midtones:   ZoneTransform{R: 1.2, G: 1.2, B: 1.2},
		Highlights: ZoneTransform{R: 1.3, G: 1.3, B: 1.3},
	}

	if got := transforms.Zone(colour.ZoneShadows); got.R != 1.1 {
		t.Errorf("Zone(shadows).R = %f, want 1.1", got.R)
	}
	if got := transforms.Zone(colour.ZoneMidtones); got.R != 1.2 {
		t.Errorf("Zone(midtones).R = %f, want 1.2", got.R)
	}
	if got := transforms.Zone(colour.ZoneHighlights); got.R != 1.3 {
		t.Errorf("Zone(highlights).R = %f, want 1.3", got.R)
	}
}
