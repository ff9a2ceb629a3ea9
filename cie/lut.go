package cie

import "math"

// sRGB8ToLinearLUT provides O(1) decoding of 8-bit sRGB components.
// Pre-computed 256 entries; converts sRGB byte [0-255] to linear [0.0-1.0].
var sRGB8ToLinearLUT [256]float64

func init() {
	for i := range 256 {
		sRGB8ToLinearLUT[i] = SRGB8ToLinearSlow(uint8(i))
	}
}

// SRGB8ToLinear decodes an 8-bit sRGB component using the lookup table.
//
// Example:
//
//	l := SRGB8ToLinear(128) // ~0.2159 (not 0.5!)
func SRGB8ToLinear(s uint8) float64 {
	return sRGB8ToLinearLUT[s]
}

// SRGB8ToLinearSlow decodes an 8-bit sRGB component with math.Pow.
// It is the reference implementation the table is built from.
func SRGB8ToLinearSlow(s uint8) float64 {
	sf := float64(s) / 255.0
	if sf <= 0.04045 {
		return sf / 12.92
	}
	return math.Pow((sf+0.055)/1.055, 2.4)
}

// SRGB8ToXYZ converts an 8-bit sRGB color to CIE XYZ. Byte colors are
// always inside the device gamut.
func SRGB8ToXYZ(r, g, b uint8) Triple {
	lin := Triple{SRGB8ToLinear(r), SRGB8ToLinear(g), SRGB8ToLinear(b)}
	return SRGBToXYZMatrix.MulVec(lin)
}

// Quantize maps a device component in [0,1] to a byte, clamping values
// outside the range and rounding to nearest.
func Quantize(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}
