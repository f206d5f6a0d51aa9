// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "github.com/gogpu/texresolve"

// pixelWriter is the output merge: resolved colors replace the destination
// pixels as 8-bit unsigned-normalized values.
type pixelWriter struct {
	pix    []byte
	stride int
	swapRB bool
}

// writeRow stores colors starting at pixel (x, y).
func (w pixelWriter) writeRow(x, y int, colors []texresolve.RGBA) {
	off := y*w.stride + x*4
	row := w.pix[off : off+len(colors)*4]
	for i, c := range colors {
		p := row[i*4 : i*4+4 : i*4+4]
		r, b := quantize(c.R), quantize(c.B)
		if w.swapRB {
			r, b = b, r
		}
		p[0] = r
		p[1] = quantize(c.G)
		p[2] = b
		p[3] = quantize(c.A)
	}
}

// quantize converts a normalized channel to 8 bits, clamping to [0, 1] and
// rounding half up.
func quantize(v float64) uint8 {
	if !(v > 0) {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
