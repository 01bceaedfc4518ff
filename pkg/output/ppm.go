package output

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
)

// ErrMalformedPPM is returned for input that is not a well-formed plain PPM
var ErrMalformedPPM = errors.New("output: malformed PPM")

// Decoder size limits, checked before the image is allocated
const (
	MaxPPMDimension = 1 << 15
	MaxPPMPixels    = 1 << 26
)

// EncodePPM writes img as a plain-text P3 PPM: a "P3\n<w> <h>\n255\n" header
// then one "r g b" line per pixel, top scanline first
func EncodePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return fmt.Errorf("output: failed to write PPM header: %w", err)
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return fmt.Errorf("output: failed to write PPM pixel data: %w", err)
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("output: failed to write PPM: %w", err)
	}
	return nil
}

// DecodePPM reads a P3 PPM. Comments and arbitrary whitespace between
// tokens are accepted; samples are rescaled to 8 bits when maxval != 255.
func DecodePPM(r io.Reader) (*image.RGBA, error) {
	pr := &ppmReader{r: bufio.NewReader(r)}

	width, height, maxVal, err := pr.readHeader()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var rgb [3]uint8
			for i := range rgb {
				v, err := pr.readInt()
				if err != nil {
					return nil, fmt.Errorf("%w: pixel (%d,%d): %v", ErrMalformedPPM, x, y, err)
				}
				if v > maxVal {
					return nil, fmt.Errorf("%w: sample %d exceeds maxval %d", ErrMalformedPPM, v, maxVal)
				}
				if maxVal == 255 {
					rgb[i] = uint8(v)
				} else {
					rgb[i] = uint8((v*255 + maxVal/2) / maxVal)
				}
			}
			img.SetRGBA(x, y, color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255})
		}
	}

	return img, nil
}

type ppmReader struct {
	r *bufio.Reader
}

func (pr *ppmReader) readHeader() (width, height, maxVal int, err error) {
	magic, err := pr.readToken()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: missing magic number: %v", ErrMalformedPPM, err)
	}
	if magic != "P3" {
		return 0, 0, 0, fmt.Errorf("%w: unsupported magic number %q", ErrMalformedPPM, magic)
	}

	if width, err = pr.readInt(); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: width: %v", ErrMalformedPPM, err)
	}
	if height, err = pr.readInt(); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: height: %v", ErrMalformedPPM, err)
	}
	if maxVal, err = pr.readInt(); err != nil {
		return 0, 0, 0, fmt.Errorf("%w: maxval: %v", ErrMalformedPPM, err)
	}

	if width <= 0 || height <= 0 {
		return 0, 0, 0, fmt.Errorf("%w: invalid size %dx%d", ErrMalformedPPM, width, height)
	}
	if width > MaxPPMDimension || height > MaxPPMDimension || width*height > MaxPPMPixels {
		return 0, 0, 0, fmt.Errorf("%w: image too large %dx%d", ErrMalformedPPM, width, height)
	}
	if maxVal <= 0 || maxVal > 65535 {
		return 0, 0, 0, fmt.Errorf("%w: invalid maxval %d", ErrMalformedPPM, maxVal)
	}
	return width, height, maxVal, nil
}

func (pr *ppmReader) readInt() (int, error) {
	token, err := pr.readToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(token)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid number %q", token)
	}
	return v, nil
}

// readToken returns the next whitespace-separated token, skipping # comments
func (pr *ppmReader) readToken() (string, error) {
	var token []byte
	for {
		b, err := pr.r.ReadByte()
		if err != nil {
			if err == io.EOF && len(token) > 0 {
				return string(token), nil
			}
			if err == io.EOF {
				return "", io.ErrUnexpectedEOF
			}
			return "", err
		}

		switch {
		case b == '#':
			if _, err := pr.r.ReadString('\n'); err != nil && err != io.EOF {
				return "", err
			}
			if len(token) > 0 {
				return string(token), nil
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f':
			if len(token) > 0 {
				return string(token), nil
			}
		default:
			token = append(token, b)
		}
	}
}
