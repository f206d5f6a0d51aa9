// Command texresolve renders an image through the texture resolve stage.
//
// The input image is bound with the configured sampler and drawn into an
// output of the requested size. Every output pixel receives the sampled
// color with alpha forced to opaque.
//
// Usage:
//
//	texresolve -in photo.png -out view.png -width 1024 -height 768 \
//		-filter linear -mip linear -zoom 2 -progress
//
// Pass "-in -" to read the input image from stdin.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/schollz/progressbar/v3"

	"github.com/gogpu/texresolve"
	"github.com/gogpu/texresolve/render"
)

func main() {
	opts, err := parseArgs(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	texresolve.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("texresolve failed", "err", err)
		stop()
		os.Exit(1) //nolint:gocritic // stop is called above
	}
}

func run(ctx context.Context, opts cliOptions, logger *slog.Logger) error {
	sampler, err := opts.Sampler()
	if err != nil {
		return err
	}

	var texOpts []texresolve.TextureOption
	if sampler.MipmapFilter != texresolve.MipmapNone {
		texOpts = append(texOpts, texresolve.WithMipmaps())
	}
	tex, err := loadTexture(opts.In, os.Stdin, texOpts...)
	if err != nil {
		return err
	}
	defer tex.Release()

	w, h := opts.Width, opts.Height
	if w <= 0 {
		w = tex.Width()
	}
	if h <= 0 {
		h = tex.Height()
	}

	rendererOpts := []render.Option{
		render.WithWorkers(opts.Workers),
		render.WithLogger(logger),
	}
	if opts.Progress {
		rendererOpts = append(rendererOpts, render.WithProgress(newProgress()))
	}
	r := render.NewRenderer(rendererOpts...)
	defer r.Close()

	target := render.NewPixmapTarget(w, h)
	quad := render.NewViewQuad(image.Rect(0, 0, w, h), opts.Zoom, texresolve.Coord{U: opts.OffsetU, V: opts.OffsetV})
	if err := r.Draw(ctx, target, quad, texresolve.Bind(tex, sampler)); err != nil {
		return err
	}

	if err := savePNG(opts.Out, target.Image()); err != nil {
		return err
	}

	stats := r.Stats()
	logger.Info("image resolved",
		"in", opts.In,
		"out", opts.Out,
		"width", w,
		"height", h,
		"levels", tex.MipLevels(),
		"tiles", stats.Tiles,
	)
	return nil
}

// loadTexture reads the input image from path, or from stdin when path
// is "-".
func loadTexture(path string, stdin io.Reader, opts ...texresolve.TextureOption) (*texresolve.Texture, error) {
	if path != stdinPath {
		return texresolve.LoadTexture(path, opts...)
	}
	data, err := io.ReadAll(io.LimitReader(stdin, maxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if len(data) > maxInputSize {
		return nil, fmt.Errorf("stdin image exceeds %d bytes", maxInputSize)
	}
	return texresolve.DecodeTexture(data, opts...)
}

// newProgress returns a renderer progress callback driving a progress bar.
// The bar is created on the first tile, when the total is known.
func newProgress() func(done, total int) {
	var (
		once sync.Once
		bar  *progressbar.ProgressBar
	)
	return func(_, total int) {
		once.Do(func() {
			bar = progressbar.Default(int64(total), "resolving")
		})
		_ = bar.Add(1)
	}
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
