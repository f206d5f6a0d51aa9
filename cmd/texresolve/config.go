package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/texresolve"
)

const (
	// maxConfigSize bounds the YAML file read by loadConfig.
	maxConfigSize = 1 << 20

	// maxInputSize bounds an input image read from stdin.
	maxInputSize = 256 << 20

	stdinPath = "-"
)

var errUsage = errors.New("usage: texresolve -in image.png -out out.png [flags]")

// Config holds the sampler and view settings. It is read from the YAML file
// given with -config; flags set on the command line override file values.
type Config struct {
	In     string `yaml:"in"`
	Out    string `yaml:"out"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`

	Filter  string  `yaml:"filter"`
	Mip     string  `yaml:"mip"`
	Address string  `yaml:"address"`
	Border  string  `yaml:"border"`
	LODBias float64 `yaml:"lod_bias"`

	Zoom    float64 `yaml:"zoom"`
	OffsetU float64 `yaml:"offset_u"`
	OffsetV float64 `yaml:"offset_v"`

	Workers int `yaml:"workers"`
}

func defaultConfig() Config {
	return Config{
		Filter:  "nearest",
		Mip:     "none",
		Address: "clamp",
		Border:  "transparent",
		Zoom:    1,
	}
}

// cliOptions are the parsed command line settings.
type cliOptions struct {
	Config
	ConfigPath string
	Progress   bool
	Verbose    bool
}

// parseArgs parses args into options. Values from the -config file are
// applied first, then every flag that was explicitly set.
func parseArgs(args []string) (cliOptions, error) {
	fs := flag.NewFlagSet("texresolve", flag.ContinueOnError)

	def := defaultConfig()
	var flags cliOptions
	fs.StringVar(&flags.In, "in", "", "input image (png, jpeg, gif, bmp, tiff, webp), - for stdin")
	fs.StringVar(&flags.Out, "out", "", "output PNG file")
	fs.IntVar(&flags.Width, "width", 0, "output width (default: texture width)")
	fs.IntVar(&flags.Height, "height", 0, "output height (default: texture height)")
	fs.StringVar(&flags.Filter, "filter", def.Filter, "texel filter: nearest, linear or cubic")
	fs.StringVar(&flags.Mip, "mip", def.Mip, "mipmap filter: none, nearest or linear")
	fs.StringVar(&flags.Address, "address", def.Address, "address mode: clamp, repeat, mirror or border")
	fs.StringVar(&flags.Border, "border", def.Border, "border color: transparent, black or white")
	fs.Float64Var(&flags.LODBias, "lod-bias", 0, "level of detail bias")
	fs.Float64Var(&flags.Zoom, "zoom", def.Zoom, "view zoom factor")
	fs.Float64Var(&flags.OffsetU, "offset-u", 0, "view center offset in texture units")
	fs.Float64Var(&flags.OffsetV, "offset-v", 0, "view center offset in texture units")
	fs.IntVar(&flags.Workers, "workers", 0, "worker goroutines (default: GOMAXPROCS)")
	fs.StringVar(&flags.ConfigPath, "config", "", "YAML file with sampler and view settings")
	fs.BoolVar(&flags.Progress, "progress", false, "show a progress bar")
	fs.BoolVar(&flags.Verbose, "v", false, "verbose logging")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts := cliOptions{
		Config:     def,
		ConfigPath: flags.ConfigPath,
		Progress:   flags.Progress,
		Verbose:    flags.Verbose,
	}
	if flags.ConfigPath != "" {
		cfg, err := loadConfig(flags.ConfigPath)
		if err != nil {
			return cliOptions{}, err
		}
		opts.Config = cfg
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			opts.In = flags.In
		case "out":
			opts.Out = flags.Out
		case "width":
			opts.Width = flags.Width
		case "height":
			opts.Height = flags.Height
		case "filter":
			opts.Filter = flags.Filter
		case "mip":
			opts.Mip = flags.Mip
		case "address":
			opts.Address = flags.Address
		case "border":
			opts.Border = flags.Border
		case "lod-bias":
			opts.LODBias = flags.LODBias
		case "zoom":
			opts.Zoom = flags.Zoom
		case "offset-u":
			opts.OffsetU = flags.OffsetU
		case "offset-v":
			opts.OffsetV = flags.OffsetV
		case "workers":
			opts.Workers = flags.Workers
		}
	})

	if opts.In == "" || opts.Out == "" {
		return cliOptions{}, errUsage
	}
	return opts, nil
}

// loadConfig reads a YAML config on top of the defaults.
func loadConfig(path string) (Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if info.Size() > maxConfigSize {
		return Config{}, fmt.Errorf("config: %s is too large (%d bytes)", path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg := defaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Sampler converts the sampler settings.
func (c Config) Sampler() (texresolve.Sampler, error) {
	filter, err := parseFilter(c.Filter)
	if err != nil {
		return texresolve.Sampler{}, err
	}
	mip, err := parseMip(c.Mip)
	if err != nil {
		return texresolve.Sampler{}, err
	}
	address, err := parseAddress(c.Address)
	if err != nil {
		return texresolve.Sampler{}, err
	}
	border, err := parseBorder(c.Border)
	if err != nil {
		return texresolve.Sampler{}, err
	}

	return texresolve.Sampler{
		AddressModeU: address,
		AddressModeV: address,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: mip,
		LODBias:      c.LODBias,
		Border:       border,
	}, nil
}

func parseFilter(s string) (texresolve.FilterMode, error) {
	switch strings.ToLower(s) {
	case "nearest", "":
		return texresolve.FilterNearest, nil
	case "linear":
		return texresolve.FilterLinear, nil
	case "cubic":
		return texresolve.FilterCubic, nil
	default:
		return 0, fmt.Errorf("unknown filter %q", s)
	}
}

func parseMip(s string) (texresolve.MipmapFilter, error) {
	switch strings.ToLower(s) {
	case "none", "":
		return texresolve.MipmapNone, nil
	case "nearest":
		return texresolve.MipmapNearest, nil
	case "linear":
		return texresolve.MipmapLinear, nil
	default:
		return 0, fmt.Errorf("unknown mipmap filter %q", s)
	}
}

func parseAddress(s string) (texresolve.AddressMode, error) {
	switch strings.ToLower(s) {
	case "clamp", "":
		return texresolve.AddressClampToEdge, nil
	case "repeat":
		return texresolve.AddressRepeat, nil
	case "mirror":
		return texresolve.AddressMirrorRepeat, nil
	case "border":
		return texresolve.AddressClampToBorder, nil
	default:
		return 0, fmt.Errorf("unknown address mode %q", s)
	}
}

func parseBorder(s string) (texresolve.BorderColor, error) {
	switch strings.ToLower(s) {
	case "transparent", "":
		return texresolve.BorderTransparentBlack, nil
	case "black":
		return texresolve.BorderOpaqueBlack, nil
	case "white":
		return texresolve.BorderOpaqueWhite, nil
	default:
		return 0, fmt.Errorf("unknown border color %q", s)
	}
}
