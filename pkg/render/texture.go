package render

import (
	"bufio"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
)

// Texture is an RGBA image sampled with nearest-neighbor lookups in texel
// units. It must not change while a frame is being drawn.
type Texture struct {
	Width  int
	Height int
	Pixels []Color // Row-major pixel data
}

// NewTexture creates a transparent texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// NewSolidTexture creates a 1x1 texture of a single color.
func NewSolidTexture(c Color) *Texture {
	tex := NewTexture(1, 1)
	tex.Pixels[0] = c
	return tex
}

// LoadTexture decodes an image file into a texture.
// PNG, JPEG, GIF, BMP, WebP and TGA are supported.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %s: %w", path, err)
	}
	defer f.Close()

	img, err := decodeImage(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}

	return TextureFromImage(img), nil
}

// The tga package registers itself with image.RegisterFormat under an empty
// magic string, which matches any input. Once it is linked, image.Decode
// hands every file to the TGA decoder, so formats are sniffed here instead.
var magicDecoders = []struct {
	magic  string // '?' matches any byte
	decode func(io.Reader) (image.Image, error)
}{
	{"\x89PNG\r\n\x1a\n", png.Decode},
	{"\xff\xd8", jpeg.Decode},
	{"GIF8", gif.Decode},
	{"BM", bmp.Decode},
	{"RIFF????WEBPVP8", webp.Decode},
}

// decodeImage decodes by leading bytes. TGA has no magic number and is
// chosen by extension alone.
func decodeImage(r io.Reader, ext string) (image.Image, error) {
	if strings.EqualFold(ext, ".tga") {
		return tga.Decode(r)
	}
	br := bufio.NewReader(r)
	for _, d := range magicDecoders {
		b, err := br.Peek(len(d.magic))
		if err == nil && matchMagic(d.magic, b) {
			return d.decode(br)
		}
	}
	return nil, image.ErrFormat
}

func matchMagic(magic string, b []byte) bool {
	for i, c := range b {
		if magic[i] != c && magic[i] != '?' {
			return false
		}
	}
	return true
}

// TextureFromImage copies an image into a texture, keeping its alpha.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())

	for y := range tex.Height {
		for x := range tex.Width {
			// RGBA is premultiplied 16-bit; textures keep straight 8-bit color.
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if a == 0 {
				continue
			}
			tex.Pixels[y*tex.Width+x] = Color{
				R: uint8((r * 0xffff / a) >> 8),
				G: uint8((g * 0xffff / a) >> 8),
				B: uint8((b * 0xffff / a) >> 8),
				A: uint8(a >> 8),
			}
		}
	}

	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// NewBrickTexture creates a running-bond brick pattern. Bricks are
// brickW x brickH texels including a one-texel mortar line.
func NewBrickTexture(width, height, brickW, brickH int, brick, mortar Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		row := y / brickH
		offset := 0
		if row%2 == 1 {
			offset = brickW / 2
		}
		for x := range width {
			if y%brickH == 0 || (x+offset)%brickW == 0 {
				tex.SetPixel(x, y, mortar)
				continue
			}
			// Vary each brick slightly so the pattern reads under perspective.
			shade := uint8((row*7 + (x+offset)/brickW*13) % 24)
			tex.SetPixel(x, y, Color{
				R: brick.R - min(brick.R, shade),
				G: brick.G - min(brick.G, shade/2),
				B: brick.B - min(brick.B, shade/2),
				A: brick.A,
			})
		}
	}
	return tex
}

// SetPixel sets a texel. Out-of-range coordinates are ignored.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// At returns the texel at (x, y), clamping the coordinates to the texture.
func (t *Texture) At(x, y int) Color {
	x = min(max(x, 0), t.Width-1)
	y = min(max(y, 0), t.Height-1)
	return t.Pixels[y*t.Width+x]
}

// TexelScale converts a normalized texture coordinate, with V pointing up,
// into texel units with row 0 at the top of the image.
func (t *Texture) TexelScale(u, v float64) (float64, float64) {
	return u * float64(t.Width-1), (1 - v) * float64(t.Height-1)
}
