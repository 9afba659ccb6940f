// Package colour implements the colour analysis core: colour-space
// conversion, monochrome detection, zone-based pixel sampling and
// batch-level statistical aggregation.
package colour

import "math"

// RGB is a colour with channel values in the range [0, 1].
type RGB struct {
	R float64
	G float64
	B float64
}

// Lab is a colour in the CIE L*a*b* colour space (D65 white point).
type Lab struct {
	L float64
	A float64
	B float64
}

// GrayscaleMethod selects how an RGB colour is reduced to a single
// grayscale value.
type GrayscaleMethod string

const (
	// GrayscaleLuminance uses the Rec. 601 luma weights (default).
	GrayscaleLuminance GrayscaleMethod = "luminance"

	// GrayscaleAverage uses the unweighted channel mean.
	GrayscaleAverage GrayscaleMethod = "average"

	// GrayscaleRed uses the red channel only.
	GrayscaleRed GrayscaleMethod = "red"

	// GrayscaleGreen uses the green channel only.
	GrayscaleGreen GrayscaleMethod = "green"

	// GrayscaleBlue uses the blue channel only.
	GrayscaleBlue GrayscaleMethod = "blue"

	// GrayscaleMax uses the largest channel value.
	GrayscaleMax GrayscaleMethod = "max"

	// GrayscaleMin uses the smallest channel value.
	GrayscaleMin GrayscaleMethod = "min"
)

// ValidGrayscaleMethods returns the list of recognised grayscale methods.
func ValidGrayscaleMethods() []GrayscaleMethod {
	return []GrayscaleMethod{
		GrayscaleLuminance,
		GrayscaleAverage,
		GrayscaleRed,
		GrayscaleGreen,
		GrayscaleBlue,
		GrayscaleMax,
		GrayscaleMin,
	}
}

// IsValidGrayscaleMethod checks if the given method name is recognised.
func IsValidGrayscaleMethod(m GrayscaleMethod) bool {
	for _, valid := range ValidGrayscaleMethods() {
		if m == valid {
			return true
		}
	}
	return false
}

// D65 reference white point used for XYZ normalisation.
const (
	whiteX = 0.95047
	whiteY = 1.0
	whiteZ = 1.08883
)

// ToLab converts an sRGB colour with channels in [0, 1] to CIE L*a*b*.
// The conversion applies the standard sRGB to XYZ linear matrix,
// normalises by the D65 white point and applies the cube-root companding
// function with the usual linear segment below the 0.008856 threshold.
func ToLab(r, g, b float64) Lab {
	x := 0.4124564*r + 0.3575761*g + 0.1804375*b
	y := 0.2126729*r + 0.7151522*g + 0.0721750*b
	z := 0.0193339*r + 0.1191920*g + 0.9503041*b

	fx := labCompand(x / whiteX)
	fy := labCompand(y / whiteY)
	fz := labCompand(z / whiteZ)

	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}

// labCompand applies the L*a*b* companding function to a normalised
// XYZ component.
func labCompand(t float64) float64 {
	if t > 0.008856 {
		return math.Cbrt(t)
	}
	return 7.787*t + 16.0/116.0
}

// ToGrayscale reduces an RGB colour with channels in [0, 1] to a single
// grayscale value using the given method. Unknown methods fall back to
// luminance.
func ToGrayscale(r, g, b float64, method GrayscaleMethod) float64 {
	switch method {
	case GrayscaleAverage:
		return (r + g + b) / 3.0
	case GrayscaleRed:
		return r
	case GrayscaleGreen:
		return g
	case GrayscaleBlue:
		return b
	case GrayscaleMax:
		return math.Max(r, math.Max(g, b))
	case GrayscaleMin:
		return math.Min(r, math.Min(g, b))
	default:
		return 0.299*r + 0.587*g + 0.114*b
	}
}

// Clamp constrains v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 constrains v to the range [0, 1].
func Clamp01(v float64) float64 {
	return Clamp(v, 0, 1)
}
