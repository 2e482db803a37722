package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw presents the color buffer on a terminal screen using half blocks:
// each cell shows two framebuffer rows, the top one as foreground of ▀ and
// the bottom one as background. The framebuffer should be twice as tall as
// the area in rows.
func (fb *FrameBuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.Pixel(x, topY)),
					Bg: cellColor(fb.Pixel(x, botY)),
				},
			})
		}
	}
}

// cellColor maps transparent pixels to the terminal default color.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	ColorWhite  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	ColorRed    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	ColorGreen  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	ColorBlue   = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	ColorGray   = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	ColorBrick  = color.RGBA{R: 156, G: 64, B: 42, A: 255}
	ColorMortar = color.RGBA{R: 190, G: 182, B: 168, A: 255}
	ColorClear  = color.RGBA{}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: a}
}
