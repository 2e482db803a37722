// Package config loads texel settings from a JSON file and CLI flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"runtime"
	"strings"

	"github.com/taigrr/texel/pkg/render"
)

// Defaults: 400x300, 60 degree FOV, near plane at
// z=-50.
const (
	DefaultWidth      = 400
	DefaultHeight     = 300
	DefaultFOVDegrees = 60
	DefaultNear       = -50
	DefaultFrames     = 120
	DefaultFPS        = 60
	DefaultBackground = "30,30,40"
)

// Config holds all render and output settings.
type Config struct {
	// Render settings
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	FOVDegrees  float64 `json:"fov_degrees"`
	Near        float64 `json:"near"`
	Background  string  `json:"background"` // "R,G,B", or "none" to keep the previous frame
	Supersample int     `json:"supersample"`

	// Inputs
	Texture string `json:"texture"`

	// Batch output
	OutputDir string `json:"output_dir"`
	Format    string `json:"format"` // png or webp
	Frames    int    `json:"frames"`
	FPS       int    `json:"fps"`
	Workers   int    `json:"workers"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width       int
	Height      int
	FOVDegrees  float64
	Near        float64
	Background  string
	Supersample int
	Texture     string
	OutputDir   string
	Format      string
	Frames      int
	FPS         int
	Workers     int
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve applies non-zero CLI flags over the file values, then fills
// anything still empty with defaults.
func (c *Config) Resolve(flags Flags) {
	override(&c.Width, flags.Width)
	override(&c.Height, flags.Height)
	override(&c.FOVDegrees, flags.FOVDegrees)
	override(&c.Near, flags.Near)
	override(&c.Background, flags.Background)
	override(&c.Supersample, flags.Supersample)
	override(&c.Texture, flags.Texture)
	override(&c.OutputDir, flags.OutputDir)
	override(&c.Format, flags.Format)
	override(&c.Frames, flags.Frames)
	override(&c.FPS, flags.FPS)
	override(&c.Workers, flags.Workers)

	fillDefault(&c.Width, DefaultWidth)
	fillDefault(&c.Height, DefaultHeight)
	fillDefault(&c.FOVDegrees, DefaultFOVDegrees)
	fillDefault(&c.Near, DefaultNear)
	fillDefault(&c.Background, DefaultBackground)
	fillDefault(&c.Supersample, 1)
	fillDefault(&c.OutputDir, "frames")
	fillDefault(&c.Format, "png")
	fillDefault(&c.Frames, DefaultFrames)
	fillDefault(&c.FPS, DefaultFPS)
	fillDefault(&c.Workers, runtime.NumCPU())
}

func override[T comparable](dst *T, flag T) {
	var zero T
	if flag != zero {
		*dst = flag
	}
}

func fillDefault[T comparable](dst *T, def T) {
	var zero T
	if *dst == zero {
		*dst = def
	}
}

// Validate reports every setting that cannot be rendered.
func (c Config) Validate() error {
	var errs []error
	if err := c.Render().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Supersample < 1 || c.Supersample > 8 {
		errs = append(errs, fmt.Errorf("supersample must be 1..8, got %d", c.Supersample))
	}
	if _, err := c.BackgroundColor(); err != nil {
		errs = append(errs, err)
	}
	switch c.Format {
	case "png", "webp":
	default:
		errs = append(errs, fmt.Errorf("format must be png or webp, got %q", c.Format))
	}
	if c.Frames < 1 {
		errs = append(errs, fmt.Errorf("frames must be positive, got %d", c.Frames))
	}
	if c.FPS < 1 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.FPS))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be positive, got %d", c.Workers))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Render returns the renderer configuration, enlarged by the supersample
// factor.
func (c Config) Render() render.Config {
	ss := max(c.Supersample, 1)
	return render.Config{
		Width:  c.Width * ss,
		Height: c.Height * ss,
		FOV:    c.FOVDegrees * math.Pi / 180,
		Near:   c.Near,
	}
}

// BackgroundColor parses Background. It returns nil for "none", meaning
// frames are not cleared to a color.
func (c Config) BackgroundColor() (*color.RGBA, error) {
	return ParseColor(c.Background)
}

// ParseColor parses "R,G,B" into an opaque color, or "none" into nil.
func ParseColor(s string) (*color.RGBA, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "none") {
		return nil, nil
	}
	var r, g, b uint8
	if n, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil || n != 3 {
		return nil, fmt.Errorf("background %q: want R,G,B or none", s)
	}
	return &color.RGBA{R: r, G: g, B: b, A: 255}, nil
}
