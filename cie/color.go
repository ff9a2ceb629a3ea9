// Package cie provides the colorimetric conversions used by chromaview:
// device sRGB, linear light, CIE XYZ, normalized CIELAB and the cylindrical
// JCh coordinates exchanged with the appearance model.
//
// Every conversion that can leave the valid device range clamps the value
// and reports it through [Result.InGamut] instead of failing. Callers that
// chain conversions combine the flags with [Result.And].
//
// Inputs must be finite. NaN and infinities are not sanitized.
package cie

// Triple is an ordered 3-tuple of components. Its meaning (device RGB, XYZ,
// CIELAB, JCh or normalized UI coordinates) depends on the producer.
type Triple [3]float64

// Add returns the component-wise sum of t and u.
func (t Triple) Add(u Triple) Triple {
	return Triple{t[0] + u[0], t[1] + u[1], t[2] + u[2]}
}

// Sub returns the component-wise difference t - u.
func (t Triple) Sub(u Triple) Triple {
	return Triple{t[0] - u[0], t[1] - u[1], t[2] - u[2]}
}

// Scale returns t multiplied by s.
func (t Triple) Scale(s float64) Triple {
	return Triple{t[0] * s, t[1] * s, t[2] * s}
}

// Mul returns the component-wise product of t and u.
func (t Triple) Mul(u Triple) Triple {
	return Triple{t[0] * u[0], t[1] * u[1], t[2] * u[2]}
}

// Div returns the component-wise quotient t / u.
func (t Triple) Div(u Triple) Triple {
	return Triple{t[0] / u[0], t[1] / u[1], t[2] / u[2]}
}

// Result is a conversion result together with its gamut status.
// InGamut is false when at least one component was clamped.
type Result[T any] struct {
	Val     T
	InGamut bool
}

// Ok wraps v as an in-gamut result.
func Ok[T any](v T) Result[T] {
	return Result[T]{Val: v, InGamut: true}
}

// And returns r with its gamut flag combined with the flags of the earlier
// steps of a conversion chain.
func (r Result[T]) And(inGamut ...bool) Result[T] {
	for _, g := range inGamut {
		r.InGamut = r.InGamut && g
	}
	return r
}

// gamutTolerance absorbs rounding error of the matrix round trips so that
// exact device colors such as white are not reported out of gamut.
const gamutTolerance = 1e-9

// clamp limits x to [lo, hi] and reports whether x was inside the range,
// allowing gamutTolerance of slack.
func clamp(x, lo, hi float64) (float64, bool) {
	switch {
	case x < lo:
		return lo, x >= lo-gamutTolerance
	case x > hi:
		return hi, x <= hi+gamutTolerance
	default:
		return x, true
	}
}

// Clamp limits every component of t to [0,1].
func Clamp(t Triple) Result[Triple] {
	var out Result[Triple]
	out.InGamut = true
	for i, v := range t {
		c, ok := clamp(v, 0, 1)
		out.Val[i] = c
		out.InGamut = out.InGamut && ok
	}
	return out
}
