// Package export writes rendered frames to image files.
package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/taigrr/texel/pkg/render"
	"golang.org/x/image/draw"
)

// Encode writes img as png or webp. WebP output is lossless.
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return png.Encode(w, img)
	case "webp":
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("webp encode: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// FormatFor picks the output format from a file extension.
func FormatFor(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return "png", nil
	case ".webp":
		return "webp", nil
	default:
		return "", fmt.Errorf("unsupported output extension %q (use .png or .webp)", ext)
	}
}

// Downsample shrinks a supersampled frame by an integer factor. Filtering
// runs on premultiplied alpha so transparent pixels do not darken edges.
func Downsample(img *image.NRGBA, factor int) *image.NRGBA {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx()/factor, b.Dy()/factor

	premul := image.NewRGBA(b)
	draw.Draw(premul, b, img, b.Min, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, b, draw.Src, nil)

	result := image.NewNRGBA(dst.Bounds())
	draw.Draw(result, result.Bounds(), dst, image.Point{}, draw.Src)
	return result
}

// SaveFrame writes the framebuffer to path, downsampling by supersample
// first. The format follows the extension.
func SaveFrame(path string, fb *render.FrameBuffer, supersample int) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	img := Downsample(fb.ToImage(), supersample)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
