package cie

import "math"

// White is the D65 reference white in XYZ with Y = 1.
var White = Triple{0.95047, 1.0, 1.08883}

// CIE lightness function constants (CIE 15:2004), with delta = 6/29.
const (
	labDelta    = 6.0 / 29.0
	labSlope    = (29.0 / 6.0) * (29.0 / 6.0) / 3.0 // 1/(3δ²)
	labIntcpt   = 4.0 / 29.0
	labDelta3   = labDelta * labDelta * labDelta
	labLOffset  = -0.16
	hueFullTurn = 360.0
)

// LabMatrix maps (f(X/Xn), f(Y/Yn), f(Z/Zn)) to normalized CIELAB
// (L*/100, a*/100, b*/100) before the lightness offset is applied.
var LabMatrix = Mat3{
	{0.0, 1.16, 0.0},
	{5.0, -5.0, 0.0},
	{0.0, 2.0, -2.0},
}

// LabMatrixInverse is the exact inverse of LabMatrix, computed at init.
var LabMatrixInverse = MustInverse(LabMatrix)

var labOffset = Triple{labLOffset, 0, 0}

// LabCompress is the CIE lightness function f applied to a white-normalized
// component ratio.
func LabCompress(r float64) float64 {
	if r <= labDelta3 {
		return labSlope*r + labIntcpt
	}
	return math.Cbrt(r)
}

// LabUncompress is the inverse of LabCompress.
func LabUncompress(f float64) float64 {
	if f <= labDelta {
		return (f - labIntcpt) / labSlope
	}
	return f * f * f
}

// XYZToLab converts CIE XYZ to normalized CIELAB using the D65 reference
// white. L is in [0,1] for physical colors; a and b are a*/100 and b*/100.
func XYZToLab(xyz Triple) Triple {
	r := xyz.Div(White)
	f := Triple{LabCompress(r[0]), LabCompress(r[1]), LabCompress(r[2])}
	return LabMatrix.MulVec(f).Add(labOffset)
}

// LabToXYZ converts normalized CIELAB to CIE XYZ. It is the exact inverse
// of XYZToLab.
func LabToXYZ(lab Triple) Triple {
	f := LabMatrixInverse.MulVec(lab.Sub(labOffset))
	r := Triple{LabUncompress(f[0]), LabUncompress(f[1]), LabUncompress(f[2])}
	return r.Mul(White)
}

// SRGBToLab converts device sRGB to normalized CIELAB.
func SRGBToLab(rgb Triple) Result[Triple] {
	xyz := SRGBToXYZ(rgb)
	return Result[Triple]{Val: XYZToLab(xyz.Val), InGamut: xyz.InGamut}
}

// LabToSRGB converts normalized CIELAB to device sRGB, clamping each channel
// to the device range.
func LabToSRGB(lab Triple) Result[Triple] {
	return XYZToSRGB(LabToXYZ(lab))
}

// JCh is a cylindrical lightness, chroma and hue coordinate. J and C are on
// a 0-100 scale, H is in degrees in [0,360).
type JCh struct {
	J float64
	C float64
	H float64
}

// Triple returns the coordinate as (J, C, h).
func (c JCh) Triple() Triple {
	return Triple{c.J, c.C, c.H}
}

// JChFromTriple interprets t as (J, C, h).
func JChFromTriple(t Triple) JCh {
	return JCh{J: t[0], C: t[1], H: t[2]}
}

// NormalizeHue maps an angle in degrees into [0,360).
func NormalizeHue(h float64) float64 {
	h = math.Mod(h, hueFullTurn)
	if h < 0 {
		h += hueFullTurn
	}
	// -0 and values that round up to a full turn
	if h >= hueFullTurn || h == 0 {
		return 0
	}
	return h
}

// LabToJCh converts normalized CIELAB to JCh by a polar change of basis on
// the (a, b) plane.
func LabToJCh(lab Triple) JCh {
	return JCh{
		J: lab[0] * 100,
		C: math.Hypot(lab[1], lab[2]) * 100,
		H: NormalizeHue(math.Atan2(lab[2], lab[1]) * 180 / math.Pi),
	}
}

// JChToLab is the inverse of LabToJCh.
func JChToLab(c JCh) Triple {
	r := c.C / 100
	t := c.H * math.Pi / 180
	return Triple{c.J / 100, r * math.Cos(t), r * math.Sin(t)}
}
