package renderer

import (
	"image"
	"image/color"
)

// GradientPattern renders the calibration image: red grows left to right,
// green grows bottom to top, blue is fixed at 0.2. No gamma is applied,
// which makes it handy for checking image sinks and row ordering.
func GradientPattern(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		j := height - 1 - y
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: quantize(float64(x) / float64(width)),
				G: quantize(float64(j) / float64(height)),
				B: quantize(0.2),
				A: 255,
			})
		}
	}

	return img
}
