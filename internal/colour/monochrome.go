package colour

const (
	// monochromeStride is the byte stride between sampled pixels
	// (every 10th RGBA pixel).
	monochromeStride = 40

	// colourfulThreshold is the minimum channel spread (0-255 scale)
	// for a pixel to count as colourful.
	colourfulThreshold = 10

	// colourfulRatio is the fraction of colourful pixels below which an
	// image is classified as black & white.
	colourfulRatio = 0.05
)

// IsBlackAndWhite classifies a decoded RGBA pixel buffer as black & white.
// It samples every 10th pixel and counts pixels whose largest channel
// difference exceeds the colourful threshold; the image is monochrome when
// fewer than 5% of sampled pixels are colourful.
func IsBlackAndWhite(pix []uint8) bool {
	sampled := 0
	colourful := 0

	for i := 0; i+3 < len(pix); i += monochromeStride {
		r := int(pix[i])
		g := int(pix[i+1])
		b := int(pix[i+2])

		spread := absInt(r - g)
		if d := absInt(g - b); d > spread {
			spread = d
		}
		if d := absInt(r - b); d > spread {
			spread = d
		}

		if spread > colourfulThreshold {
			colourful++
		}
		sampled++
	}

	if sampled == 0 {
		return false
	}
	return float64(colourful)/float64(sampled) < colourfulRatio
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
