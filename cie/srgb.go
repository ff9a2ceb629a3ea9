package cie

import "math"

// SRGBToXYZMatrix converts linear sRGB (D65 primaries) to CIE XYZ with
// Y of the white point equal to 1.
var SRGBToXYZMatrix = Mat3{
	{0.4124564, 0.3575761, 0.1804375},
	{0.2126729, 0.7151522, 0.0721750},
	{0.0193339, 0.1191920, 0.9503041},
}

// XYZToSRGBMatrix is the inverse of SRGBToXYZMatrix, computed once at init.
var XYZToSRGBMatrix = MustInverse(SRGBToXYZMatrix)

// SRGBToLinear decodes a gamma-encoded sRGB component (EOTF).
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
// The input is clamped to [0,1] first; clamping marks the result out of gamut.
func SRGBToLinear(s float64) Result[float64] {
	s, ok := clamp(s, 0, 1)
	if s <= 0.04045 {
		return Result[float64]{Val: s / 12.92, InGamut: ok}
	}
	return Result[float64]{Val: math.Pow((s+0.055)/1.055, 2.4), InGamut: ok}
}

// LinearToSRGB encodes a linear-light component (OETF).
// Formula: if l <= 0.0031308: l*12.92; else: 1.055*pow(l, 1/2.4)-0.055
// The input is clamped to [0,1] first; clamping marks the result out of gamut.
func LinearToSRGB(l float64) Result[float64] {
	l, ok := clamp(l, 0, 1)
	if l <= 0.0031308 {
		return Result[float64]{Val: l * 12.92, InGamut: ok}
	}
	return Result[float64]{Val: 1.055*math.Pow(l, 1.0/2.4) - 0.055, InGamut: ok}
}

// SRGBToLinearColor decodes all three channels of rgb.
func SRGBToLinearColor(rgb Triple) Result[Triple] {
	out := Ok(Triple{})
	for i, v := range rgb {
		r := SRGBToLinear(v)
		out.Val[i] = r.Val
		out.InGamut = out.InGamut && r.InGamut
	}
	return out
}

// LinearToSRGBColor encodes all three channels of lin.
func LinearToSRGBColor(lin Triple) Result[Triple] {
	out := Ok(Triple{})
	for i, v := range lin {
		r := LinearToSRGB(v)
		out.Val[i] = r.Val
		out.InGamut = out.InGamut && r.InGamut
	}
	return out
}

// SRGBToXYZ converts device sRGB to CIE XYZ.
func SRGBToXYZ(rgb Triple) Result[Triple] {
	lin := SRGBToLinearColor(rgb)
	return Result[Triple]{Val: SRGBToXYZMatrix.MulVec(lin.Val), InGamut: lin.InGamut}
}

// XYZToSRGB converts CIE XYZ to device sRGB. Channels outside the device
// range are clamped independently.
func XYZToSRGB(xyz Triple) Result[Triple] {
	return LinearToSRGBColor(XYZToSRGBMatrix.MulVec(xyz))
}
