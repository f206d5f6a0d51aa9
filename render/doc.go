// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render is the CPU host for the texture-resolve stage.
//
// A Renderer draws a textured Quad into a Target: it validates the binding
// once, derives the level of detail from the quad's pixel-to-texture
// mapping, splits the covered pixels into tiles and resolves them in
// parallel. The output merge replaces destination pixels; there is no
// blending.
//
// # Usage
//
//	r := render.NewRenderer(render.WithWorkers(4))
//	defer r.Close()
//
//	target := render.NewPixmapTarget(800, 600)
//	quad := render.NewQuad(image.Rect(0, 0, 800, 600))
//	err := r.Draw(ctx, target, quad, texresolve.Bind(tex, texresolve.SmoothSampler()))
//
// # Thread Safety
//
// A Renderer may be used from multiple goroutines, but concurrent draws to
// the same target must not overlap.
package render
