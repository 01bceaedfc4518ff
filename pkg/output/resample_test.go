package output

import (
	"image"
	"image/color"
	"testing"
)

func TestDownsample_UniformImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i], src.Pix[i+1], src.Pix[i+2], src.Pix[i+3] = 100, 150, 200, 255
	}

	dst := Downsample(src, 20, 10)
	if dst.Bounds() != image.Rect(0, 0, 20, 10) {
		t.Fatalf("Bounds = %v", dst.Bounds())
	}

	// Filtering a constant image leaves it constant
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			got := dst.RGBAAt(x, y)
			if absDiff(got.R, 100) > 1 || absDiff(got.G, 150) > 1 || absDiff(got.B, 200) > 1 || got.A != 255 {
				t.Fatalf("Pixel (%d,%d) = %v", x, y, got)
			}
		}
	}
}

func TestDownsample_SameSizeIsNoop(t *testing.T) {
	src := testImage(4, 4)
	if dst := Downsample(src, 4, 4); dst != src {
		t.Error("Same-size downsample should return the input")
	}
}

func TestDownsample_AveragesBlocks(t *testing.T) {
	// Left half black, right half white
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint8(0)
			if x >= 4 {
				v = 255
			}
			src.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}

	dst := Downsample(src, 2, 2)
	if left, right := dst.RGBAAt(0, 0).R, dst.RGBAAt(1, 0).R; left >= right {
		t.Errorf("Expected dark left and bright right, got %d and %d", left, right)
	}
}

func TestThumbnail(t *testing.T) {
	src := testImage(200, 100)

	thumb := Thumbnail(src, 50)
	if thumb.Bounds().Dx() != 50 || thumb.Bounds().Dy() != 25 {
		t.Errorf("Thumbnail bounds = %v, want 50x25", thumb.Bounds())
	}

	if small := Thumbnail(testImage(10, 5), 50); small.Bounds().Dx() != 10 {
		t.Errorf("Small images should not be enlarged, got %v", small.Bounds())
	}
	if same := Thumbnail(src, 0); same != image.Image(src) {
		t.Error("Non-positive size should return the input")
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
