// Package imaging turns uploaded photos into classifier input tensors.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DefaultSize is the square edge the pothole model was trained on
const DefaultSize = 128

// DefaultMaxPixels is the largest image Decode accepts unless told otherwise
const DefaultMaxPixels = 89_478_485

// ErrUnsupportedImage is returned when the upload is not a decodable image
var ErrUnsupportedImage = errors.New("unsupported image")

// Tensor is one image in height, width, channel order
type Tensor [][][]float32

// Batch is a list of tensors, the model input shape [n, h, w, c]
type Batch []Tensor

// Decode decodes JPEG, PNG, GIF, BMP and WebP data. The header is checked
// first so images above maxPixels are rejected before any pixel buffer is
// allocated. A non-positive maxPixels means DefaultMaxPixels.
func Decode(data []byte, maxPixels int) (image.Image, string, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("%w: empty image", ErrUnsupportedImage)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels",
			ErrUnsupportedImage, cfg.Width, cfg.Height, maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	return img, format, nil
}

// Preprocess resizes img to size x size with nearest-neighbour sampling,
// scales RGB channels to [0,1] and wraps the result in a batch of one.
func Preprocess(img image.Image, size int) Batch {
	if size <= 0 {
		size = DefaultSize
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	t := make(Tensor, size)
	for y := 0; y < size; y++ {
		row := make([][]float32, size)
		for x := 0; x < size; x++ {
			i := dst.PixOffset(x, y)
			row[x] = []float32{
				float32(dst.Pix[i]) / 255,
				float32(dst.Pix[i+1]) / 255,
				float32(dst.Pix[i+2]) / 255,
			}
		}
		t[y] = row
	}
	return Batch{t}
}

// Nested converts the batch to plain nested slices
func (b Batch) Nested() [][][][]float32 {
	out := make([][][][]float32, len(b))
	for i, t := range b {
		out[i] = t
	}
	return out
}
