package colour

import (
	"fmt"
	"image"
	"slices"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
)

// PaletteMethod selects the algorithm used when extracting a preview
// palette from a reference image.
type PaletteMethod string

const (
	// PaletteDominant extracts the most dominant colours (default).
	PaletteDominant PaletteMethod = "dominant"

	// PaletteKMeans clusters sampled pixels with k-means.
	PaletteKMeans PaletteMethod = "kmeans"
)

// IsValidPaletteMethod checks if the given palette method is recognised.
func IsValidPaletteMethod(m PaletteMethod) bool {
	return m == PaletteDominant || m == PaletteKMeans
}

// paletteSampleStep is the pixel grid step used when collecting k-means
// observations. Reference images are already bounded to 512px so this
// keeps the observation count in the low thousands.
const paletteSampleStep = 4

// ExtractPalette extracts a preview palette of up to count colours from a
// reference image. The palette is informational output for the operator;
// it plays no part in LUT synthesis.
func ExtractPalette(img image.Image, count int, method PaletteMethod) ([]colorful.Color, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if count < 1 || count > 64 {
		return nil, fmt.Errorf("palette size must be between 1 and 64, got %d", count)
	}

	switch method {
	case PaletteKMeans:
		return kmeansPalette(img, count)
	case PaletteDominant, "":
		return dominantPalette(img, count)
	default:
		return nil, fmt.Errorf("unknown palette method: %s (valid: dominant, kmeans)", method)
	}
}

// dominantPalette extracts the count most dominant colours by frequency.
func dominantPalette(img image.Image, count int) ([]colorful.Color, error) {
	candidates := dominantcolor.FindWeight(img, count)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no dominant colours found in image")
	}

	palette := make([]colorful.Color, 0, len(candidates))
	for _, c := range candidates {
		col, ok := colorful.MakeColor(c.RGBA)
		if !ok {
			continue
		}
		palette = append(palette, col)
	}
	return palette, nil
}

// kmeansPalette clusters grid-sampled pixels in RGB space.
func kmeansPalette(img image.Image, count int) ([]colorful.Color, error) {
	bounds := img.Bounds()

	var observations clusters.Observations
	for y := bounds.Min.Y; y < bounds.Max.Y; y += paletteSampleStep {
		for x := bounds.Min.X; x < bounds.Max.X; x += paletteSampleStep {
			col, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				continue
			}
			observations = append(observations, clusters.Coordinates{col.R, col.G, col.B})
		}
	}
	if len(observations) < count {
		return nil, fmt.Errorf("not enough pixels for %d clusters (sampled %d)", count, len(observations))
	}

	km := kmeans.New()
	partition, err := km.Partition(observations, count)
	if err != nil {
		return nil, fmt.Errorf("k-means clustering failed: %w", err)
	}

	palette := make([]colorful.Color, 0, len(partition))
	for _, cluster := range partition {
		center := cluster.Center
		if len(center) != 3 {
			continue
		}
		palette = append(palette, colorful.Color{
			R: Clamp01(center[0]),
			G: Clamp01(center[1]),
			B: Clamp01(center[2]),
		})
	}
	return palette, nil
}

// SortPaletteByLuminance orders colours from darkest to brightest using
// linear-light relative luminance.
func SortPaletteByLuminance(palette []colorful.Color) {
	slices.SortFunc(palette, func(a, b colorful.Color) int {
		ra, ga, ba := a.LinearRgb()
		rb, gb, bb := b.LinearRgb()
		ya := 0.2126*ra + 0.7152*ga + 0.0722*ba
		yb := 0.2126*rb + 0.7152*gb + 0.0722*bb
		switch {
		case ya < yb:
			return -1
		case ya > yb:
			return 1
		default:
			return 0
		}
	})
}

// PaletteHex renders a palette as lowercase hex strings.
func PaletteHex(palette []colorful.Color) []string {
	hex := make([]string, len(palette))
	for i, c := range palette {
		hex[i] = c.Hex()
	}
	return hex
}
