package render

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// Errors returned by NewRenderer for unusable configurations.
var (
	ErrInvalidSize = errors.New("render: width and height must be positive")
	ErrInvalidFOV  = errors.New("render: field of view must be in (0, pi)")
	ErrNearPlane   = errors.New("render: near plane must be negative")
)

// Config is fixed for the life of a Renderer.
type Config struct {
	Width  int     // Output width in pixels
	Height int     // Output height in pixels
	FOV    float64 // Horizontal field of view in radians
	Near   float64 // Near plane z, strictly negative
}

// Validate checks the configuration.
//
// Near must be negative: the depth test compares 1/z and only orders
// fragments correctly while every vertex has z < 0. Clipping at a negative
// near plane guarantees that for everything that reaches the rasterizer.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	if !(c.FOV > 0 && c.FOV < math.Pi) {
		return fmt.Errorf("%w: got %v", ErrInvalidFOV, c.FOV)
	}
	if !(c.Near < 0) {
		return fmt.Errorf("%w: got %v", ErrNearPlane, c.Near)
	}
	return nil
}

// Stats counts what happened to the triangles drawn since the last Clear.
type Stats struct {
	Objects   int // Bounding boxes tested by Visible
	Rejected  int // Bounding boxes found outside the view
	Triangles int // Triangles submitted to Draw
	Clipped   int // Triangles entirely removed by the near plane
	Split     int // Triangles split into two by the near plane
	Culled    int // Sub-triangles rejected by the viewport or back-face test
	Drawn     int // Sub-triangles handed to the rasterizer
	Pixels    int // Pixels written
}

// Renderer draws textured triangles into its framebuffer. A Renderer is not
// safe for concurrent use; give each goroutine its own.
type Renderer struct {
	cfg     Config
	focal   float64
	frustum Frustum
	fb      *FrameBuffer
	screen  [4]ScreenVertex // Projected clip polygon, reused across draws
	stats   Stats
}

// NewRenderer creates a renderer and its framebuffer.
func NewRenderer(cfg Config) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := &Renderer{
		cfg:   cfg,
		focal: FocalLength(cfg.Width, cfg.FOV),
		fb:    NewFrameBuffer(cfg.Width, cfg.Height),
	}
	r.frustum = NewFrustum(cfg.Width, cfg.Height, r.focal, cfg.Near)
	Logger().Debug("renderer created",
		slog.Int("width", cfg.Width),
		slog.Int("height", cfg.Height),
		slog.Float64("focal", r.focal),
		slog.Float64("near", cfg.Near))
	return r, nil
}

// Resize reallocates the framebuffer for a new output size. The field of
// view is kept, so the focal length follows the width.
func (r *Renderer) Resize(width, height int) error {
	cfg := r.cfg
	cfg.Width, cfg.Height = width, height
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg == r.cfg {
		return nil
	}
	r.cfg = cfg
	r.focal = FocalLength(width, cfg.FOV)
	r.frustum = NewFrustum(width, height, r.focal, cfg.Near)
	r.fb = NewFrameBuffer(width, height)
	r.stats = Stats{}
	Logger().Debug("renderer resized",
		slog.Int("width", width),
		slog.Int("height", height),
		slog.Float64("focal", r.focal))
	return nil
}

// Config returns the renderer's configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// FocalLength returns the distance to the projection plane in pixels.
func (r *Renderer) FocalLength() float64 {
	return r.focal
}

// FrameBuffer returns the render target.
func (r *Renderer) FrameBuffer() *FrameBuffer {
	return r.fb
}

// Frustum returns the camera-space volume that can reach the viewport.
func (r *Renderer) Frustum() Frustum {
	return r.frustum
}

// Visible reports whether a camera-space bounding box may produce pixels.
// Callers use it to skip whole objects before submitting their triangles.
func (r *Renderer) Visible(box AABB) bool {
	r.stats.Objects++
	if r.frustum.IntersectAABB(box) {
		return true
	}
	r.stats.Rejected++
	return false
}

// Stats returns counters for the current frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Clear starts a new frame: the depth buffer is reset and, when bg is not
// nil, every pixel is set to *bg. With a nil bg the previous colors remain.
func (r *Renderer) Clear(bg *Color) {
	if r.stats.Triangles > 0 {
		Logger().Debug("frame done",
			slog.Int("triangles", r.stats.Triangles),
			slog.Int("drawn", r.stats.Drawn),
			slog.Int("culled", r.stats.Culled),
			slog.Int("pixels", r.stats.Pixels))
	}
	r.stats = Stats{}
	if bg != nil {
		r.fb.Fill(*bg)
	}
	r.fb.ClearDepth()
}

// Draw clips, projects, culls and rasterizes one camera-space triangle.
// Degenerate, hidden or fully clipped triangles are skipped silently.
func (r *Renderer) Draw(tri Triangle, tex *Texture) {
	r.stats.Triangles++

	poly := ClipNear(tri, r.cfg.Near)
	if poly.N == 0 {
		r.stats.Clipped++
		return
	}
	if poly.N == 4 {
		r.stats.Split++
	}

	for i := range poly.N {
		r.screen[i] = Project(poly.V[i], r.cfg.Width, r.cfg.Height, r.focal)
	}

	r.drawScreen(0, 1, 2, tex)
	if poly.N == 4 {
		r.drawScreen(0, 2, 3, tex)
	}
}

func (r *Renderer) drawScreen(i0, i1, i2 int, tex *Texture) {
	v0, v1, v2 := r.screen[i0], r.screen[i1], r.screen[i2]
	if ShouldCull(v0, v1, v2, r.cfg.Width, r.cfg.Height) {
		r.stats.Culled++
		return
	}
	r.stats.Drawn++
	r.stats.Pixels += Rasterize(v0, v1, v2, tex, r.fb)
}
