// Package ciecam02 implements the CIECAM02 color appearance model, mapping
// CIE XYZ to lightness (J), chroma (C) and hue (h) under fixed viewing
// conditions, and back.
//
// The model operates on XYZ with white Y = 1 at its boundary, the same
// convention as package cie. It is exact: no gamut enforcement happens here.
package ciecam02

import (
	"math"

	"github.com/gogpu/chromaview/cie"
)

// Surround describes the relative luminance of the surrounding field.
type Surround uint8

const (
	// SurroundAverage is the surround of typical surface colors.
	SurroundAverage Surround = iota
	// SurroundDim is the surround of television viewing.
	SurroundDim
	// SurroundDark is the surround of projected images in a dark room.
	SurroundDark
)

// String returns the surround name.
func (s Surround) String() string {
	switch s {
	case SurroundAverage:
		return "average"
	case SurroundDim:
		return "dim"
	case SurroundDark:
		return "dark"
	default:
		return "unknown"
	}
}

// params returns the degree-of-adaptation factor F, the impact of surround c
// and the chromatic induction factor Nc.
func (s Surround) params() (f, c, nc float64) {
	switch s {
	case SurroundDim:
		return 0.9, 0.59, 0.9
	case SurroundDark:
		return 0.8, 0.525, 0.8
	default:
		return 1.0, 0.69, 1.0
	}
}

// Conditions are the viewing conditions under which a color is perceived.
type Conditions struct {
	// White is the adopted white in XYZ with Y = 1.
	White cie.Triple

	// AdaptingLuminance is La in cd/m².
	AdaptingLuminance float64

	// BackgroundLuminance is Yb, the relative luminance of the background (0-100).
	BackgroundLuminance float64

	Surround Surround

	// Discounting assumes complete adaptation to the illuminant (D = 1).
	Discounting bool
}

// DefaultConditions returns D65 white, La = 40 cd/m², Yb = 20, average
// surround and no discounting.
func DefaultConditions() Conditions {
	return Conditions{
		White:               cie.White,
		AdaptingLuminance:   40,
		BackgroundLuminance: 20,
		Surround:            SurroundAverage,
	}
}

// derived holds the values computed once from Conditions.
type derived struct {
	whiteXYZ cie.Triple // 100-based
	dRGB     cie.Triple // per-channel adaptation factors
	fl       float64
	n        float64
	nbb      float64
	ncb      float64
	nc       float64
	c        float64
	z        float64
	aw       float64
}

func (cond Conditions) derive() derived {
	f, c, nc := cond.Surround.params()
	la := cond.AdaptingLuminance

	d := 1.0
	if !cond.Discounting {
		d = f * (1 - (1/3.6)*math.Exp((-la-42)/92))
	}
	d = min(max(d, 0), 1)

	white := cond.White.Scale(100)
	rgbW := mCAT02.MulVec(white)

	var dv derived
	dv.whiteXYZ = white
	for i := range 3 {
		dv.dRGB[i] = d*white[1]/rgbW[i] + 1 - d
	}

	k := 1 / (5*la + 1)
	k4 := k * k * k * k
	k4F := 1 - k4
	dv.fl = 0.2*k4*(5*la) + 0.1*k4F*k4F*math.Cbrt(5*la)

	dv.n = cond.BackgroundLuminance / white[1]
	dv.nbb = 0.725 * math.Pow(dv.n, -0.2)
	dv.ncb = dv.nbb
	dv.z = 1.48 + math.Sqrt(dv.n)
	dv.nc = nc
	dv.c = c

	ra := dv.adaptedResponse(rgbW)
	dv.aw = achromatic(ra) * dv.nbb
	return dv
}

// adaptedResponse applies chromatic adaptation, the HPE transform and
// post-adaptation compression to CAT02 cone responses.
func (dv *derived) adaptedResponse(rgb cie.Triple) cie.Triple {
	rgbC := rgb.Mul(dv.dRGB)
	rgbP := mHPEFromCAT02.MulVec(rgbC)
	var out cie.Triple
	for i, v := range rgbP {
		out[i] = compress(v, dv.fl)
	}
	return out
}

// compress is the post-adaptation non-linear response compression, without
// the constant 0.1 offset (it cancels in every quantity used here).
func compress(v, fl float64) float64 {
	p := math.Pow(fl*math.Abs(v)/100, 0.42)
	return math.Copysign(400*p/(27.13+p), v)
}

// uncompress is the inverse of compress.
func uncompress(v, fl float64) float64 {
	a := math.Abs(v)
	base := max(0, 27.13*a/(400-a))
	return math.Copysign(100/fl*math.Pow(base, 1/0.42), v)
}

// achromatic returns (2R' + G' + B'/20) for compressed responses.
func achromatic(ra cie.Triple) float64 {
	return (40*ra[0] + 20*ra[1] + ra[2]) / 20
}
