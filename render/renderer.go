// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/texresolve"
	"github.com/gogpu/texresolve/internal/parallel"
)

// Draw errors.
var (
	// ErrPrecondition wraps a binding that failed validation.
	ErrPrecondition = errors.New("render: precondition violated")

	// ErrNilTarget is returned for a nil target.
	ErrNilTarget = errors.New("render: nil target")

	// ErrCPUAccess is returned when the target has no CPU pixel access.
	ErrCPUAccess = errors.New("render: target does not support CPU rendering")

	// ErrUnsupportedFormat is returned for target formats other than
	// RGBA8Unorm and BGRA8Unorm.
	ErrUnsupportedFormat = errors.New("render: unsupported target format")

	// ErrClosed is returned by Draw after Close.
	ErrClosed = errors.New("render: renderer closed")
)

// Option configures a Renderer during creation.
type Option func(*options)

type options struct {
	workers  int
	tileW    int
	tileH    int
	logger   *slog.Logger
	progress func(done, total int)
}

// WithWorkers sets the number of worker goroutines.
// Zero or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithTileSize sets the tile size in pixels. Non-positive values use the
// default 64x64.
func WithTileSize(w, h int) Option {
	return func(o *options) {
		o.tileW, o.tileH = w, h
	}
}

// WithLogger sets the logger. By default the renderer logs through
// texresolve.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithProgress registers a callback invoked after each tile completes with
// the number of finished tiles and the total for the current draw.
// The callback runs on worker goroutines and must be safe for concurrent use.
func WithProgress(fn func(done, total int)) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// Stats holds cumulative renderer counters.
type Stats struct {
	Draws  uint64
	Tiles  uint64
	Pixels uint64
}

// Renderer resolves textured quads into CPU targets on a worker pool.
type Renderer struct {
	pool     *parallel.WorkerPool
	tileW    int
	tileH    int
	logger   *slog.Logger
	progress func(done, total int)

	draws  atomic.Uint64
	tiles  atomic.Uint64
	pixels atomic.Uint64
}

// NewRenderer creates a renderer and starts its worker pool.
// Call Close to stop the workers.
func NewRenderer(opts ...Option) *Renderer {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.tileW <= 0 {
		o.tileW = parallel.TileWidth
	}
	if o.tileH <= 0 {
		o.tileH = parallel.TileHeight
	}

	r := &Renderer{
		pool:     parallel.NewWorkerPool(o.workers),
		tileW:    o.tileW,
		tileH:    o.tileH,
		logger:   o.logger,
		progress: o.progress,
	}
	r.log().Debug("renderer created",
		"workers", r.pool.Workers(),
		"tile_width", r.tileW,
		"tile_height", r.tileH,
	)
	return r
}

func (r *Renderer) log() *slog.Logger {
	if r.logger != nil {
		return r.logger
	}
	return texresolve.Logger()
}

// validator is implemented by bindings that can report precondition
// violations, such as *texresolve.ImageBinding.
type validator interface {
	Valid() error
}

// Draw resolves every target pixel whose center lies in quad.Dst and
// writes the result to target, replacing the previous contents.
//
// Preconditions are checked once before dispatch. A binding that fails
// its Valid check is reported as ErrPrecondition. Image bindings get
// their level of detail from the quad's pixel-to-texture derivatives.
//
// If ctx is cancelled, tiles that have not started are skipped and
// ctx.Err() is returned; pixels already written stay written.
func (r *Renderer) Draw(ctx context.Context, target Target, quad Quad, b texresolve.Binding) error {
	if !r.pool.IsRunning() {
		return ErrClosed
	}
	if target == nil {
		return ErrNilTarget
	}
	pixels := target.Pixels()
	if pixels == nil {
		return ErrCPUAccess
	}
	swapRB, err := channelOrder(target.Format())
	if err != nil {
		return err
	}

	if b == nil {
		return r.precondition(texresolve.ErrNilBinding)
	}
	if v, ok := b.(validator); ok {
		if err := v.Valid(); err != nil {
			return r.precondition(err)
		}
	}

	m, ok := quad.Transform()
	if !ok {
		return nil
	}
	if ib, ok := b.(*texresolve.ImageBinding); ok {
		ddx, ddy := m.Derivatives()
		b = ib.WithGradients(ddx, ddy)
	}

	covered := quad.Dst.Intersect(image.Rect(0, 0, target.Width(), target.Height()))
	tiles := parallel.SplitTiles(covered, r.tileW, r.tileH)
	if len(tiles) == 0 {
		return nil
	}

	out := pixelWriter{pix: pixels, stride: target.Stride(), swapRB: swapRB}
	total := len(tiles)
	var done atomic.Int64

	work := make([]func(), len(tiles))
	for i, tile := range tiles {
		work[i] = func() {
			resolveTile(tile.Rect, m, b, out)
			r.tiles.Add(1)
			r.pixels.Add(uint64(tile.Pixels()))
			n := done.Add(1)
			if r.progress != nil {
				r.progress(int(n), total)
			}
		}
	}

	r.draws.Add(1)
	r.log().Debug("draw dispatched",
		"rect", covered.String(),
		"tiles", total,
	)

	if err := r.pool.ExecuteAll(ctx, work); err != nil {
		r.log().Debug("draw cancelled", "done", done.Load(), "tiles", total)
		return err
	}
	return nil
}

func (r *Renderer) precondition(err error) error {
	r.log().Warn("draw rejected", "err", err)
	return fmt.Errorf("%w: %w", ErrPrecondition, err)
}

// resolveTile resolves one tile row by row through the span form of the stage.
func resolveTile(rect image.Rectangle, m Affine, b texresolve.Binding, out pixelWriter) {
	w := rect.Dx()
	uvs := make([]texresolve.Coord, w)
	colors := make([]texresolve.RGBA, w)

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		py := float64(y) + 0.5
		for i := range uvs {
			uvs[i] = m.Apply(float64(rect.Min.X+i)+0.5, py)
		}
		texresolve.ResolveAll(uvs, b, colors)
		out.writeRow(rect.Min.X, y, colors)
	}
}

// Stats returns a snapshot of the cumulative counters.
func (r *Renderer) Stats() Stats {
	return Stats{
		Draws:  r.draws.Load(),
		Tiles:  r.tiles.Load(),
		Pixels: r.pixels.Load(),
	}
}

// Workers returns the number of worker goroutines.
func (r *Renderer) Workers() int {
	return r.pool.Workers()
}

// Close stops the worker pool. Close is safe to call multiple times.
func (r *Renderer) Close() {
	r.pool.Close()
}

func channelOrder(f gputypes.TextureFormat) (swapRB bool, err error) {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm:
		return false, nil
	case gputypes.TextureFormatBGRA8Unorm:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}
