package output

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
)

// Load decodes an image written by Save, choosing the decoder from the extension.
// TGA has no magic number, so header sniffing is not used.
func Load(path string) (image.Image, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("output: failed to open image file: %w", err)
	}
	defer file.Close()

	return DecodeFormat(file, format)
}

// DecodeFormat reads an image in the given format
func DecodeFormat(r io.Reader, format Format) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch format {
	case FormatPPM:
		return DecodePPM(r)
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatWebP:
		img, err = nativewebp.Decode(r)
	case FormatTGA:
		img, err = tga.Decode(r)
	default:
		return nil, fmt.Errorf("output: unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("output: %s decode: %w", format, err)
	}
	return img, nil
}
