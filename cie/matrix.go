package cie

import "math"

// detTolerance is the smallest determinant accepted by Inverse.
const detTolerance = 1e-12

// Mat3 is a 3x3 matrix in row-major order.
type Mat3 [3][3]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// MulVec returns m·v.
func (m Mat3) MulVec(v Triple) Triple {
	return Triple{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Mul returns the matrix product m·n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var r Mat3
	for i := range 3 {
		for j := range 3 {
			r[i][j] = m[i][0]*n[0][j] + m[i][1]*n[1][j] + m[i][2]*n[2][j]
		}
	}
	return r
}

// Det returns the determinant of m.
func (m Mat3) Det() float64 {
	c0 := m[1][1]*m[2][2] - m[1][2]*m[2][1]
	c1 := m[1][2]*m[2][0] - m[1][0]*m[2][2]
	c2 := m[1][0]*m[2][1] - m[1][1]*m[2][0]
	return m[0][0]*c0 + m[0][1]*c1 + m[0][2]*c2
}

// Inverse returns the inverse of m using the adjugate.
// The second result is false if m is singular.
func (m Mat3) Inverse() (Mat3, bool) {
	c0 := m[1][1]*m[2][2] - m[1][2]*m[2][1]
	c1 := m[1][2]*m[2][0] - m[1][0]*m[2][2]
	c2 := m[1][0]*m[2][1] - m[1][1]*m[2][0]

	det := m[0][0]*c0 + m[0][1]*c1 + m[0][2]*c2
	if math.Abs(det) < detTolerance {
		return Mat3{}, false
	}

	var r Mat3
	r[0][0] = c0 / det
	r[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) / det
	r[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) / det
	r[1][0] = c1 / det
	r[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) / det
	r[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) / det
	r[2][0] = c2 / det
	r[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) / det
	r[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) / det
	return r, true
}

// MustInverse is like Inverse but panics if m is singular.
// It is meant for constant matrices inverted once at startup.
func MustInverse(m Mat3) Mat3 {
	inv, ok := m.Inverse()
	if !ok {
		panic("cie: singular matrix")
	}
	return inv
}
