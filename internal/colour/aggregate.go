package colour

import "fmt"

const (
	// MinBatchSize and MaxBatchSize bound the number of analyses that can
	// be combined into one batch.
	MinBatchSize = 1
	MaxBatchSize = 10
)

// GlobalStats carries batch-wide grading parameters consumed by the
// lattice synthesiser. The values are neutral constants rather than
// quantities derived from the analysed pixels; see NeutralGlobalStats.
type GlobalStats struct {
	Contrast         float64
	Saturation       float64
	ColorTemperature float64
	Tint             float64
}

// NeutralGlobalStats returns the fixed neutral grading baseline
// (contrast 0.5, saturation 0.5, no temperature or tint shift).
func NeutralGlobalStats() GlobalStats {
	return GlobalStats{
		Contrast:   0.5,
		Saturation: 0.5,
	}
}

// ZoneAggregate is the weighted aggregate of one luminance zone across a
// batch of images. Weight is the total number of sampled pixels that
// landed in the zone; a zone nobody sampled keeps zero defaults rather
// than the nil convention used per image.
type ZoneAggregate struct {
	Weight    float64
	RGB       RGB
	Luminance float64
	Lab       Lab
}

// Present reports whether any pixels were sampled into the zone.
func (z ZoneAggregate) Present() bool {
	return z.Weight > 0
}

// CombinedAnalysis is the batch-level aggregate over all successfully
// analysed reference images.
type CombinedAnalysis struct {
	Shadows    ZoneAggregate
	Midtones   ZoneAggregate
	Highlights ZoneAggregate

	// IsBlackAndWhite is the logical OR across images: a single
	// monochrome reference forces the whole batch into monochrome mode.
	IsBlackAndWhite bool

	Global GlobalStats
}

// Zone returns the aggregate for the given zone.
func (c CombinedAnalysis) Zone(z Zone) ZoneAggregate {
	switch z {
	case ZoneShadows:
		return c.Shadows
	case ZoneMidtones:
		return c.Midtones
	default:
		return c.Highlights
	}
}

// Combine reduces a set of per-image analyses into one batch-level
// analysis. Zones are combined as pixel-count weighted means; a zone with
// zero total weight is left at zero defaults and never divided.
func Combine(analyses []ImageAnalysis) (CombinedAnalysis, error) {
	if len(analyses) < MinBatchSize || len(analyses) > MaxBatchSize {
		return CombinedAnalysis{}, fmt.Errorf("batch size must be between %d and %d, got %d",
			MinBatchSize, MaxBatchSize, len(analyses))
	}

	combined := CombinedAnalysis{
		Global: NeutralGlobalStats(),
	}

	for _, analysis := range analyses {
		if analysis.IsBlackAndWhite {
			combined.IsBlackAndWhite = true
		}
		accumulateZone(&combined.Shadows, analysis.Shadows)
		accumulateZone(&combined.Midtones, analysis.Midtones)
		accumulateZone(&combined.Highlights, analysis.Highlights)
	}

	finaliseZone(&combined.Shadows)
	finaliseZone(&combined.Midtones)
	finaliseZone(&combined.Highlights)

	return combined, nil
}

// accumulateZone adds one image's zone statistics, weighted by its pixel
// count, into the running batch aggregate.
func accumulateZone(agg *ZoneAggregate, stats *ZoneStatistics) {
	if stats == nil || stats.Count == 0 {
		return
	}
	w := float64(stats.Count)
	agg.Weight += w
	agg.RGB.R += stats.MeanRGB.R * w
	agg.RGB.G += stats.MeanRGB.G * w
	agg.RGB.B += stats.MeanRGB.B * w
	agg.Luminance += stats.MeanLuminance * w
	agg.Lab.L += stats.MeanLab.L * w
	agg.Lab.A += stats.MeanLab.A * w
	agg.Lab.B += stats.MeanLab.B * w
}

// finaliseZone divides the accumulated sums by the total weight. Zones
// with zero weight are left untouched.
func finaliseZone(agg *ZoneAggregate) {
	if agg.Weight <= 0 {
		return
	}
	agg.RGB.R /= agg.Weight
	agg.RGB.G /= agg.Weight
	agg.RGB.B /= agg.Weight
	agg.Luminance /= agg.Weight
	agg.Lab.L /= agg.Weight
	agg.Lab.A /= agg.Weight
	agg.Lab.B /= agg.Weight
}
