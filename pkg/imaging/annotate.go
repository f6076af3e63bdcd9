package imaging

import (
	"PersonTracking/internal/entity"
	"bytes"
	"fmt"
	"gocv.io/x/gocv"
	"image"
	"image/color"
)

var (
	MatchColor = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	OtherColor = color.RGBA{R: 220, G: 40, B: 40, A: 255}
)

type Annotation struct {
	Box   entity.BoundingBox
	Color color.RGBA
	Label string
}

// AnnotateJPEG draws every annotation onto a copy of img and returns the
// result JPEG encoded at the given quality. img itself is left untouched.
func AnnotateJPEG(img image.Image, annotations []Annotation, thickness int, quality int) ([]byte, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}
	defer mat.Close()

	if thickness < 1 {
		thickness = 1
	}

	bounds := image.Rect(0, 0, mat.Cols(), mat.Rows())
	for _, a := range annotations {
		rect := image.Rect(
			int(a.Box.X),
			int(a.Box.Y),
			int(a.Box.Right()),
			int(a.Box.Bottom()),
		).Intersect(bounds)
		if rect.Empty() {
			continue
		}

		gocv.Rectangle(&mat, rect, a.Color, thickness)
		if a.Label != "" {
			labelY := rect.Min.Y - 5
			if labelY < 12 {
				labelY = rect.Min.Y + 14
			}
			gocv.PutText(&mat, a.Label, image.Point{X: rect.Min.X, Y: labelY}, gocv.FontHersheyPlain, 1.2, a.Color, 2)
		}
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{int(gocv.IMWriteJpegQuality), quality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	return bytes.Clone(buf.GetBytes()), nil
}

// Scale returns box with every coordinate multiplied by factor.
func Scale(box entity.BoundingBox, factor float64) entity.BoundingBox {
	box.X *= factor
	box.Y *= factor
	box.Width *= factor
	box.Height *= factor
	return box
}
