package imaging

import (
	"errors"
	"fmt"
	"gocv.io/x/gocv"
	"image"
)

var ErrInvalidImage = errors.New("invalid or unsupported image data")

type Decoder interface {
	Decode(data []byte) (image.Image, error)
}

type decoder struct{}

// NewDecoder decodes with OpenCV, so every format imdecode understands
// (jpeg, png, bmp, webp, tiff) is accepted.
func NewDecoder() Decoder {
	return &decoder{}
}

func (d *decoder) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	defer mat.Close()

	if mat.Empty() || mat.Cols() == 0 || mat.Rows() == 0 {
		return nil, fmt.Errorf("%w: could not decode payload", ErrInvalidImage)
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return img, nil
}

func Dimensions(img image.Image) (int, int) {
	bounds := img.Bounds()
	return bounds.Dx(), bounds.Dy()
}
