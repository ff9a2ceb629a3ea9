package ciecam02

import (
	"math"
	"sync"

	"github.com/gogpu/chromaview/cie"
)

// mCAT02 is the CAT02 chromatic adaptation transform (XYZ to sharpened
// cone responses).
var mCAT02 = cie.Mat3{
	{0.7328, 0.4296, -0.1624},
	{-0.7036, 1.6975, 0.0061},
	{0.0030, 0.0136, 0.9834},
}

// mHPE is the Hunt-Pointer-Estevez transform (XYZ to cone fundamentals).
var mHPE = cie.Mat3{
	{0.38971, 0.68898, -0.07868},
	{-0.22981, 1.18340, 0.04641},
	{0.00000, 0.00000, 1.00000},
}

var (
	mCAT02Inv     = cie.MustInverse(mCAT02)
	mHPEFromCAT02 = mHPE.Mul(mCAT02Inv)
	mCAT02FromHPE = cie.MustInverse(mHPEFromCAT02)
)

// Model is a CIECAM02 model bound to one set of viewing conditions.
// A Model is immutable and safe for concurrent use.
type Model struct {
	cond Conditions
	dv   derived
}

// NewModel precomputes the viewing-condition dependent factors.
func NewModel(cond Conditions) *Model {
	return &Model{cond: cond, dv: cond.derive()}
}

// Conditions returns the viewing conditions of m.
func (m *Model) Conditions() Conditions {
	return m.cond
}

var (
	standardOnce  sync.Once
	standardModel *Model
)

// Standard returns the model for DefaultConditions, built on first use.
func Standard() *Model {
	standardOnce.Do(func() {
		standardModel = NewModel(DefaultConditions())
	})
	return standardModel
}

// eccentricity is the CIECAM02 eccentricity factor e_t for a hue in radians.
func eccentricity(hRad float64) float64 {
	return 0.25 * (math.Cos(hRad+2) + 3.8)
}

// Forward converts XYZ (white Y = 1) to lightness, chroma and hue.
func (m *Model) Forward(xyz cie.Triple) cie.JCh {
	dv := &m.dv
	ra := dv.adaptedResponse(mCAT02.MulVec(xyz.Scale(100)))

	a := ra[0] - 12*ra[1]/11 + ra[2]/11
	b := (ra[0] + ra[1] - 2*ra[2]) / 9
	u := (20*ra[0] + 20*ra[1] + 21*ra[2]) / 20

	hue := cie.NormalizeHue(math.Atan2(b, a) * 180 / math.Pi)

	ac := achromatic(ra) * dv.nbb
	if ac <= 0 {
		return cie.JCh{H: hue}
	}
	j := 100 * math.Pow(ac/dv.aw, dv.c*dv.z)

	et := eccentricity(hue * math.Pi / 180)
	t := (50000.0 / 13 * dv.nc * dv.ncb * et * math.Hypot(a, b)) / (u + 0.305)
	alpha := math.Pow(t, 0.9) * math.Pow(1.64-math.Pow(0.29, dv.n), 0.73)
	c := alpha * math.Sqrt(j/100)

	return cie.JCh{J: j, C: c, H: hue}
}

// Inverse converts lightness, chroma and hue back to XYZ (white Y = 1).
// Non-positive lightness maps to black.
func (m *Model) Inverse(jch cie.JCh) cie.Triple {
	if jch.J <= 0 {
		return cie.Triple{}
	}
	dv := &m.dv

	alpha := jch.C / math.Sqrt(jch.J/100)
	t := math.Pow(alpha/math.Pow(1.64-math.Pow(0.29, dv.n), 0.73), 1/0.9)

	hRad := jch.H * math.Pi / 180
	hSin, hCos := math.Sincos(hRad)

	ac := dv.aw * math.Pow(jch.J/100, 1/(dv.c*dv.z))
	p1 := eccentricity(hRad) * (50000.0 / 13) * dv.nc * dv.ncb
	p2 := ac / dv.nbb

	gamma := 23 * (p2 + 0.305) * t / (23*p1 + 11*t*hCos + 108*t*hSin)
	a := gamma * hCos
	b := gamma * hSin

	ra := cie.Triple{
		(460*p2 + 451*a + 288*b) / 1403,
		(460*p2 - 891*a - 261*b) / 1403,
		(460*p2 - 220*a - 6300*b) / 1403,
	}
	var rgbP cie.Triple
	for i, v := range ra {
		rgbP[i] = uncompress(v, dv.fl)
	}
	rgb := mCAT02FromHPE.MulVec(rgbP).Div(dv.dRGB)
	return mCAT02Inv.MulVec(rgb).Scale(1.0 / 100)
}
