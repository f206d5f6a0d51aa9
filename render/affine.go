// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"math"

	"github.com/gogpu/texresolve"
)

// Affine represents a 2D affine transformation matrix.
//
// The transformation is represented as a 3x3 matrix:
//
//	| a  b  c |
//	| d  e  f |
//	| 0  0  1 |
type Affine struct {
	a, b, c float64 // x' = ax + by + c
	d, e, f float64 // y' = dx + ey + f
}

// Identity returns the identity transformation.
func Identity() Affine {
	return Affine{a: 1, e: 1}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Affine {
	return Affine{a: 1, c: tx, e: 1, f: ty}
}

// Scale returns a scaling by (sx, sy) around the origin.
// Negative values flip.
func Scale(sx, sy float64) Affine {
	return Affine{a: sx, e: sy}
}

// Rotate returns a rotation by angle radians around the origin.
func Rotate(angle float64) Affine {
	sin, cos := math.Sincos(angle)
	return Affine{
		a: cos, b: -sin,
		d: sin, e: cos,
	}
}

// RotateAt returns a rotation by angle radians around (cx, cy).
func RotateAt(angle, cx, cy float64) Affine {
	return Translate(cx, cy).Multiply(Rotate(angle)).Multiply(Translate(-cx, -cy))
}

// Multiply returns m * other: the result applies other first, then m.
func (m Affine) Multiply(other Affine) Affine {
	return Affine{
		a: m.a*other.a + m.b*other.d,
		b: m.a*other.b + m.b*other.e,
		c: m.a*other.c + m.b*other.f + m.c,
		d: m.d*other.a + m.e*other.d,
		e: m.d*other.b + m.e*other.e,
		f: m.d*other.c + m.e*other.f + m.f,
	}
}

// Invert returns the inverse transformation.
// Returns false if the matrix is singular.
func (m Affine) Invert() (Affine, bool) {
	det := m.a*m.e - m.b*m.d
	if math.Abs(det) < 1e-12 {
		return Affine{}, false
	}

	invDet := 1.0 / det
	return Affine{
		a: m.e * invDet,
		b: -m.b * invDet,
		c: (m.b*m.f - m.c*m.e) * invDet,
		d: -m.d * invDet,
		e: m.a * invDet,
		f: (m.c*m.d - m.a*m.f) * invDet,
	}, true
}

// TransformPoint applies the transformation to (x, y).
func (m Affine) TransformPoint(x, y float64) (float64, float64) {
	return m.a*x + m.b*y + m.c, m.d*x + m.e*y + m.f
}

// Apply maps the pixel-space point (x, y) to a texture coordinate.
func (m Affine) Apply(x, y float64) texresolve.Coord {
	u, v := m.TransformPoint(x, y)
	return texresolve.Coord{U: u, V: v}
}

// Derivatives returns the change in texture coordinate per pixel step in
// x (ddx) and in y (ddy). They are constant for an affine mapping.
func (m Affine) Derivatives() (ddx, ddy texresolve.Coord) {
	return texresolve.Coord{U: m.a, V: m.d}, texresolve.Coord{U: m.b, V: m.e}
}
