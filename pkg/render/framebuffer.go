package render

import (
	"image"
	"image/color"
	"math"
)

// EmptyDepth is the depth sentinel for a pixel nothing has been drawn to
// since the last clear. Any visible fragment has a smaller 1/z.
const EmptyDepth = math.MaxFloat64

// FrameBuffer is a color buffer paired with a per-pixel depth buffer.
// Depth stores 1/z of the winning fragment; lower is nearer.
type FrameBuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // Row-major color data
	Depth  []float64    // Row-major 1/z, EmptyDepth when unwritten
}

// NewFrameBuffer allocates a framebuffer with a cleared depth buffer and
// transparent black pixels.
func NewFrameBuffer(width, height int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
		Depth:  make([]float64, width*height),
	}
	fb.ClearDepth()
	return fb
}

// ClearDepth resets every depth value to EmptyDepth.
func (fb *FrameBuffer) ClearDepth() {
	fill(fb.Depth, EmptyDepth)
}

// Fill sets every pixel to c. Depth is untouched.
func (fb *FrameBuffer) Fill(c color.RGBA) {
	fill(fb.Pixels, c)
}

// fill sets every element of s to v by doubling copies.
func fill[T any](s []T, v T) {
	if len(s) == 0 {
		return
	}
	s[0] = v
	for i := 1; i < len(s); i *= 2 {
		copy(s[i:], s[:i])
	}
}

// InBounds reports whether (x, y) addresses a pixel.
func (fb *FrameBuffer) InBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// Pixel returns the color at (x, y), or transparent black out of bounds.
func (fb *FrameBuffer) Pixel(x, y int) color.RGBA {
	if !fb.InBounds(x, y) {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DepthAt returns the stored 1/z at (x, y), or EmptyDepth out of bounds.
func (fb *FrameBuffer) DepthAt(x, y int) float64 {
	if !fb.InBounds(x, y) {
		return EmptyDepth
	}
	return fb.Depth[y*fb.Width+x]
}

// Written reports whether any fragment has landed on (x, y) since the last
// depth clear.
func (fb *FrameBuffer) Written(x, y int) bool {
	return fb.DepthAt(x, y) != EmptyDepth
}

// Plot writes c at (x, y) if invZ is nearer than the stored depth.
// It returns whether the write happened.
func (fb *FrameBuffer) Plot(x, y int, invZ float64, c color.RGBA) bool {
	if !fb.InBounds(x, y) {
		return false
	}
	i := y*fb.Width + x
	if !fb.passes(i, invZ) {
		return false
	}
	fb.put(i, invZ, c)
	return true
}

// passes is the depth test for the pixel at index i.
func (fb *FrameBuffer) passes(i int, invZ float64) bool {
	return invZ < fb.Depth[i]
}

func (fb *FrameBuffer) put(i int, invZ float64, c color.RGBA) {
	fb.Pixels[i] = c
	fb.Depth[i] = invZ
}

// ToImage copies the color buffer into an image. Texels keep straight
// alpha, so the result is non-premultiplied.
func (fb *FrameBuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		off := y * img.Stride
		for x, c := range row {
			img.Pix[off+x*4] = c.R
			img.Pix[off+x*4+1] = c.G
			img.Pix[off+x*4+2] = c.B
			img.Pix[off+x*4+3] = c.A
		}
	}
	return img
}
