package colour

// Luminance zone boundaries for pixel classification.
const (
	shadowCeiling   = 0.25
	highlightFloor  = 0.75
	samplerStride   = 64 // byte stride between sampled pixels (every 16th RGBA pixel)
	maxChannelValue = 255.0
)

// Zone identifies a luminance-based partition of sampled pixels.
type Zone int

const (
	ZoneShadows Zone = iota
	ZoneMidtones
	ZoneHighlights
)

// String returns the zone name.
func (z Zone) String() string {
	switch z {
	case ZoneShadows:
		return "shadows"
	case ZoneMidtones:
		return "midtones"
	case ZoneHighlights:
		return "highlights"
	default:
		return "unknown"
	}
}

// ZoneStatistics holds the aggregate colour statistics for one luminance
// zone of a single image.
type ZoneStatistics struct {
	Count         int
	MeanRGB       RGB
	MeanLuminance float64
	MeanLab       Lab
}

// ImageAnalysis is the per-image analysis result: the three zone
// statistics plus the monochrome classification. A zone with no sampled
// pixels is nil, never synthesised from zero counts.
type ImageAnalysis struct {
	Shadows         *ZoneStatistics
	Midtones        *ZoneStatistics
	Highlights      *ZoneStatistics
	IsBlackAndWhite bool
}

// Zone returns the statistics for the given zone, or nil when the zone
// had no sampled pixels.
func (a ImageAnalysis) Zone(z Zone) *ZoneStatistics {
	switch z {
	case ZoneShadows:
		return a.Shadows
	case ZoneMidtones:
		return a.Midtones
	case ZoneHighlights:
		return a.Highlights
	default:
		return nil
	}
}

// zoneAccumulator accumulates running sums for one zone while sampling.
type zoneAccumulator struct {
	count int
	rgb   RGB
	lum   float64
	lab   Lab
}

func (acc *zoneAccumulator) add(rgb RGB, lum float64, lab Lab) {
	acc.count++
	acc.rgb.R += rgb.R
	acc.rgb.G += rgb.G
	acc.rgb.B += rgb.B
	acc.lum += lum
	acc.lab.L += lab.L
	acc.lab.A += lab.A
	acc.lab.B += lab.B
}

func (acc *zoneAccumulator) stats() *ZoneStatistics {
	if acc.count == 0 {
		return nil
	}
	n := float64(acc.count)
	return &ZoneStatistics{
		Count: acc.count,
		MeanRGB: RGB{
			R: acc.rgb.R / n,
			G: acc.rgb.G / n,
			B: acc.rgb.B / n,
		},
		MeanLuminance: acc.lum / n,
		MeanLab: Lab{
			L: acc.lab.L / n,
			A: acc.lab.A / n,
			B: acc.lab.B / n,
		},
	}
}

// Analyze samples a decoded RGBA pixel buffer into per-zone colour
// statistics and runs the monochrome classifier alongside. The buffer is
// expected to be tightly packed RGBA with the longest image side already
// constrained by the decode collaborator.
func Analyze(pix []uint8) ImageAnalysis {
	var shadows, midtones, highlights zoneAccumulator

	for i := 0; i+3 < len(pix); i += samplerStride {
		rgb := RGB{
			R: float64(pix[i]) / maxChannelValue,
			G: float64(pix[i+1]) / maxChannelValue,
			B: float64(pix[i+2]) / maxChannelValue,
		}
		lum := ToGrayscale(rgb.R, rgb.G, rgb.B, GrayscaleLuminance)
		lab := ToLab(rgb.R, rgb.G, rgb.B)

		switch {
		case lum < shadowCeiling:
			shadows.add(rgb, lum, lab)
		case lum < highlightFloor:
			midtones.add(rgb, lum, lab)
		default:
			highlights.add(rgb, lum, lab)
		}
	}

	return ImageAnalysis{
		Shadows:         shadows.stats(),
		Midtones:        midtones.stats(),
		Highlights:      highlights.stats(),
		IsBlackAndWhite: IsBlackAndWhite(pix),
	}
}
