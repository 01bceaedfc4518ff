package output

import (
	"image"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Downsample scales a supersampled render down to width x height with
// CatmullRom filtering. Rendered images are opaque so no alpha
// premultiplication is needed.
func Downsample(img image.Image, width, height int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		if rgba, ok := img.(*image.RGBA); ok {
			return rgba
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Thumbnail fits img inside a maxSize x maxSize box, keeping the aspect ratio.
// Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxSize int) image.Image {
	if maxSize <= 0 {
		return img
	}
	return resize.Thumbnail(uint(maxSize), uint(maxSize), img, resize.Bilinear)
}
