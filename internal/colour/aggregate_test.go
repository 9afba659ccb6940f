package colour

import (
	"math"
	"testing"
)

// zoneStats is a test helper for building per-image zone statistics.
func zoneStats(count int, rgb RGB, lum float64) *ZoneStatistics {
	return &ZoneStatistics{
		Count:         count,
		MeanRGB:       rgb,
		MeanLuminance: lum,
		MeanLab:       ToLab(rgb.R, rgb.G, rgb.B),
	}
}

func TestCombineBatchSize(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "empty batch", size: 0, wantErr: true},
		{name: "single image", size: 1, wantErr: false},
		{name: "full batch", size: 10, wantErr: false},
		{name: "oversized batch", size: 11, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyses := make([]ImageAnalysis, tt.size)
			_, err := Combine(analyses)
			if (err != nil) != tt.wantErr {
				t.Errorf("Combine() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCombineMonochromeOr(t *testing.T) {
	tests := []struct {
		name  string
		flags []bool
		want  bool
	}{
		{name: "all colour", flags: []bool{false, false, false}, want: false},
		{name: "single monochrome forces batch", flags: []bool{false, true, false}, want: true},
		{name: "all monochrome", flags: []bool{true, true}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyses := make([]ImageAnalysis, len(tt.flags))
			for i, f := range tt.flags {
				analyses[i] = ImageAnalysis{IsBlackAndWhite: f}
			}
			combined, err := Combine(analyses)
			if err != nil {
				t.Fatalf("Combine() error = %v", err)
			}
			if combined.IsBlackAndWhite != tt.want {
				t.Errorf("IsBlackAndWhite = %v, want %v", combined.IsBlackAndWhite, tt.want)
			}
		})
	}
}

func TestCombineWeightedMeans(t *testing.T) {
	analyses := []ImageAnalysis{
		{Shadows: zoneStats(100, RGB{R: 0.2, G: 0.2, B: 0.2}, 0.2)},
		{Shadows: zoneStats(300, RGB{R: 0.4, G: 0.4, B: 0.4}, 0.4)},
	}

	combined, err := Combine(analyses)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}

	if combined.Shadows.Weight != 400 {
		t.Errorf("Shadows.Weight = %f, want 400", combined.Shadows.Weight)
	}

	// (0.2*100 + 0.4*300) / 400 = 0.35
	want := 0.35
	if math.Abs(combined.Shadows.RGB.R-want) > 1e-9 {
		t.Errorf("Shadows.RGB.R = %f, want %f", combined.Shadows.RGB.R, want)
	}
	if math.Abs(combined.Shadows.Luminance-want) > 1e-9 {
		t.Errorf("Shadows.Luminance = %f, want %f", combined.Shadows.Luminance, want)
	}
}

func TestCombineEmptyZoneStaysZero(t *testing.T) {
	// No image contributed highlights: the aggregate keeps zero
	// defaults instead of dividing by zero.
	analyses := []ImageAnalysis{
		{Midtones: zoneStats(50, RGB{R: 0.5, G: 0.5, B: 0.5}, 0.5)},
		{Midtones: zoneStats(150, RGB{R: 0.5, G: 0.5, B: 0.5}, 0.5)},
	}

	combined, err := Combine(analyses)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}

	if combined.Highlights.Present() {
		t.Error("Highlights.Present() = true, want false")
	}
	if combined.Highlights != (ZoneAggregate{}) {
		t.Errorf("Highlights = %+v, want zero value", combined.Highlights)
	}
	if !combined.Midtones.Present() {
		t.Error("Midtones.Present() = false, want true")
	}
}

func TestCombineGlobalStatsAreNeutralConstants(t *testing.T) {
	// Global stats are a fixed baseline, never derived from the images.
	analyses := []ImageAnalysis{
		{Shadows: zoneStats(10, RGB{R: 0.9, G: 0.1, B: 0.1}, 0.2)},
	}
	combined, err := Combine(analyses)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}

	want := GlobalStats{Contrast: 0.5, Saturation: 0.5}
	if combined.Global != want {
		t.Errorf("Global = %+v, want %+v", combined.Global, want)
	}
}

func TestCombineSkipsNilZones(t *testing.T) {
	analyses := []ImageAnalysis{
		{Shadows: zoneStats(100, RGB{R: 0.1, G: 0.1, B: 0.1}, 0.1)},
		{}, // image with no sampled zones at all
	}

	combined, err := Combine(analyses)
	if err != nil {
		t.Fatalf("Combine() error = %v", err)
	}
	if combined.Shadows.Weight != 100 {
		t.Errorf("Shadows.Weight = %f, want 100", combined.Shadows.Weight)
	}
}
