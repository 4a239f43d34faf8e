// Package config holds the render configuration of a zoom batch and the
// ways it is populated: defaults, a YAML file, and command-line flags.
package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/output"
)

// Isolation modes for frame workers.
const (
	IsolationGoroutine = "goroutine"
	IsolationProcess   = "process"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Config is the complete description of a render batch.
type Config struct {
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
	// Region names a landmark; when set it replaces CenterX and CenterY.
	Region string `yaml:"region"`

	StartScale    float64 `yaml:"start_scale"`
	EndScale      float64 `yaml:"end_scale"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	MaxIterations int     `yaml:"max_iterations"`
	Frames        int     `yaml:"frames"`

	FrameWorkers int    `yaml:"frame_workers"`
	RowWorkers   int    `yaml:"row_workers"`
	Isolation    string `yaml:"isolation"`

	Output  string `yaml:"output"`
	Dir     string `yaml:"dir"`
	Format  string `yaml:"format"`
	Palette string `yaml:"palette"`
	Preview bool   `yaml:"preview"`
	FPS     int    `yaml:"fps"`

	Listen    string `yaml:"listen"`
	StaticDir string `yaml:"static_dir"`
}

// Default returns the default configuration for a host with cpus
// available execution units.
func Default(cpus int) Config {
	return Config{
		CenterX:       mandel.SeahorseValley.X,
		CenterY:       mandel.SeahorseValley.Y,
		StartScale:    4,
		EndScale:      1e-11,
		Width:         3840,
		Height:        2160,
		MaxIterations: 2000,
		Frames:        300,
		FrameWorkers:  max(cpus, 1),
		RowWorkers:    1,
		Isolation:     IsolationGoroutine,
		Output:        "mandel",
		Dir:           ".",
		Format:        "jpg",
		Palette:       mandel.DefaultPalette,
		FPS:           30,
		StaticDir:     "./static",
	}
}

// Load overlays the YAML file at path onto c. Unknown keys are an error.
func Load(path string, c *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// BindFlags registers flags that write into c. The single-letter flags
// follow the classic mandelmovie command line.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.Float64Var(&c.CenterX, "x", c.CenterX, "X coordinate of image center")
	fs.Float64Var(&c.CenterY, "y", c.CenterY, "Y coordinate of image center")
	fs.StringVar(&c.Region, "region", c.Region, "landmark to zoom into, overrides -x/-y ("+strings.Join(mandel.LandmarkNames(), ", ")+")")
	fs.Float64Var(&c.StartScale, "s", c.StartScale, "initial horizontal scale")
	fs.Float64Var(&c.EndScale, "end-scale", c.EndScale, "horizontal scale of the zoom target")
	fs.IntVar(&c.Width, "W", c.Width, "image width in pixels")
	fs.IntVar(&c.Height, "H", c.Height, "image height in pixels")
	fs.IntVar(&c.MaxIterations, "m", c.MaxIterations, "max iterations")
	fs.IntVar(&c.Frames, "n", c.Frames, "number of frames")
	fs.IntVar(&c.FrameWorkers, "p", c.FrameWorkers, "number of concurrent frame workers")
	fs.IntVar(&c.RowWorkers, "t", c.RowWorkers, fmt.Sprintf("number of row workers per frame (1-%d)", mandel.MaxRowWorkers))
	fs.StringVar(&c.Isolation, "isolation", c.Isolation, "frame worker isolation: goroutine or process")
	fs.StringVar(&c.Output, "o", c.Output, "output file name base")
	fs.StringVar(&c.Dir, "dir", c.Dir, "output directory")
	fs.StringVar(&c.Format, "format", c.Format, "output format ("+strings.Join(output.FormatNames(), ", ")+")")
	fs.StringVar(&c.Palette, "palette", c.Palette, "color palette ("+strings.Join(mandel.PaletteNames(), ", ")+")")
	fs.BoolVar(&c.Preview, "P", c.Preview, "render the final frame only")
	fs.IntVar(&c.FPS, "fps", c.FPS, "frame rate of the suggested ffmpeg command")
	fs.StringVar(&c.Listen, "listen", c.Listen, "address of the live progress server, empty to disable")
	fs.StringVar(&c.StaticDir, "static", c.StaticDir, "directory served next to the progress feed")
}

// Parse builds a Config from defaults, an optional -config YAML file, and
// flags, in increasing precedence. extra, if not nil, registers additional
// flags on every flag set Parse creates.
func Parse(name string, args []string, cpus int, extra func(fs *flag.FlagSet)) (Config, error) {
	c := Default(cpus)
	path, err := parseFlags(name, args, &c, extra)
	if err != nil || path == "" {
		return c, err
	}

	c = Default(cpus)
	if err := Load(path, &c); err != nil {
		return c, err
	}
	// Flags override the file.
	_, err = parseFlags(name, args, &c, extra)
	return c, err
}

func parseFlags(name string, args []string, c *Config, extra func(fs *flag.FlagSet)) (string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", "", "YAML configuration file")
	c.BindFlags(fs)
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return *path, nil
}

// Validate returns every configuration error, joined.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, a ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, a...)...))
	}

	if c.Width <= 0 || c.Height <= 0 {
		bad("image size %dx%d must be positive", c.Width, c.Height)
	}
	if c.MaxIterations <= 0 {
		bad("max iterations %d must be positive", c.MaxIterations)
	}
	if c.Frames <= 0 {
		bad("frame count %d must be positive", c.Frames)
	}
	if c.FrameWorkers < 1 {
		bad("frame workers %d must be at least 1", c.FrameWorkers)
	}
	if c.RowWorkers < 1 || c.RowWorkers > mandel.MaxRowWorkers {
		bad("row workers %d must be between 1 and %d", c.RowWorkers, mandel.MaxRowWorkers)
	}
	if !positive(c.StartScale) {
		bad("start scale %g must be positive", c.StartScale)
	}
	if !positive(c.EndScale) {
		bad("end scale %g must be positive", c.EndScale)
	}
	if c.Isolation != IsolationGoroutine && c.Isolation != IsolationProcess {
		bad("isolation %q must be %q or %q", c.Isolation, IsolationGoroutine, IsolationProcess)
	}
	if c.Region != "" {
		if _, ok := mandel.Landmarks[c.Region]; !ok {
			bad("unknown region %q", c.Region)
		}
	} else if math.IsNaN(c.CenterX) || math.IsInf(c.CenterX, 0) || math.IsNaN(c.CenterY) || math.IsInf(c.CenterY, 0) {
		bad("center (%g, %g) must be finite", c.CenterX, c.CenterY)
	}
	if c.Output == "" {
		bad("output base must not be empty")
	}
	if c.FPS <= 0 {
		bad("fps %d must be positive", c.FPS)
	}
	if _, err := mandel.ParsePalette(c.Palette); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if _, err := output.LookupFormat(c.Format); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	// Every field is sound on its own; the zoom may still run below
	// float64 precision or past the pixel buffer limit.
	if err := c.Schedule().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func positive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0)
}

// Center returns the zoom center, resolving Region when set.
func (c Config) Center() mandel.Point {
	if p, ok := mandel.Landmarks[c.Region]; ok {
		return p
	}
	return mandel.Point{X: c.CenterX, Y: c.CenterY}
}

// Schedule returns the zoom schedule described by c.
func (c Config) Schedule() mandel.ZoomSchedule {
	return mandel.ZoomSchedule{
		Center:     c.Center(),
		StartScale: c.StartScale,
		EndScale:   c.EndScale,
		Frames:     c.Frames,
		Width:      c.Width,
		Height:     c.Height,
	}
}
