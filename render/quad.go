// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/texresolve"
)

// Quad is a textured rectangle in target pixel space.
//
// Dst is the destination rectangle. UV0 is the texture coordinate at the
// top-left corner of Dst and UV1 the one at the bottom-right corner;
// coordinates are interpolated linearly in between and evaluated at pixel
// centers.
type Quad struct {
	Dst      image.Rectangle
	UV0, UV1 texresolve.Coord

	// Extra, if non-nil, is applied to texture coordinates after the
	// Dst-to-UV mapping (for example a rotation around the texture center).
	Extra *Affine
}

// NewQuad returns a quad covering dst that maps the whole texture.
func NewQuad(dst image.Rectangle) Quad {
	return Quad{
		Dst: dst,
		UV0: texresolve.Coord{U: 0, V: 0},
		UV1: texresolve.Coord{U: 1, V: 1},
	}
}

// NewViewQuad returns a quad covering dst that shows the texture zoomed by
// zoom around its center shifted by offset (in texture units).
// A zoom <= 0 is treated as 1.
func NewViewQuad(dst image.Rectangle, zoom float64, offset texresolve.Coord) Quad {
	if zoom <= 0 {
		zoom = 1
	}
	half := 0.5 / zoom
	cu, cv := 0.5+offset.U, 0.5+offset.V
	return Quad{
		Dst: dst,
		UV0: texresolve.Coord{U: cu - half, V: cv - half},
		UV1: texresolve.Coord{U: cu + half, V: cv + half},
	}
}

// Transform returns the affine mapping from target pixel coordinates to
// texture coordinates. Returns false for an empty Dst.
func (q Quad) Transform() (Affine, bool) {
	w, h := q.Dst.Dx(), q.Dst.Dy()
	if w <= 0 || h <= 0 {
		return Affine{}, false
	}

	su := (q.UV1.U - q.UV0.U) / float64(w)
	sv := (q.UV1.V - q.UV0.V) / float64(h)

	m := Translate(q.UV0.U, q.UV0.V).
		Multiply(Scale(su, sv)).
		Multiply(Translate(-float64(q.Dst.Min.X), -float64(q.Dst.Min.Y)))
	if q.Extra != nil {
		m = q.Extra.Multiply(m)
	}
	return m, true
}
