// Package geometry holds the box arithmetic shared by detection, association and tracking.
package geometry

import (
	"PersonTracking/internal/entity"
	"errors"
	"math"
	"sort"
)

var ErrLengthMismatch = errors.New("geometry: input slices have different lengths")

type Point struct {
	X float64
	Y float64
}

type RGB struct {
	R float64
	G float64
	B float64
}

func Area(b entity.BoundingBox) float64 {
	if b.Width <= 0 || b.Height <= 0 {
		return 0
	}
	return b.Width * b.Height
}

// IntersectionArea returns the overlapping area of two boxes, 0 when they are disjoint.
func IntersectionArea(a, b entity.BoundingBox) float64 {
	x1 := math.Max(a.X, b.X)
	y1 := math.Max(a.Y, b.Y)
	x2 := math.Min(a.Right(), b.Right())
	y2 := math.Min(a.Bottom(), b.Bottom())

	return math.Max(0, x2-x1) * math.Max(0, y2-y1)
}

// IoU is the intersection over union of two boxes. Zero-area boxes always yield 0.
func IoU(a, b entity.BoundingBox) float64 {
	areaA := Area(a)
	areaB := Area(b)
	if areaA == 0 || areaB == 0 {
		return 0
	}

	inter := IntersectionArea(a, b)
	if inter == 0 {
		return 0
	}

	union := areaA + areaB - inter
	if union <= 0 {
		return 0
	}
	return math.Min(1, inter/union)
}

func Center(b entity.BoundingBox) Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

func Contains(b entity.BoundingBox, p Point) bool {
	return p.X >= b.X && p.X <= b.Right() && p.Y >= b.Y && p.Y <= b.Bottom()
}

// Expand pads a box outward by margin times its own width and height on every side.
func Expand(b entity.BoundingBox, margin float64) entity.BoundingBox {
	padX := b.Width * margin
	padY := b.Height * margin
	b.X -= padX
	b.Y -= padY
	b.Width += 2 * padX
	b.Height += 2 * padY
	return b
}

// NonMaxSuppression keeps the most confident box of every overlapping cluster.
// Ties in confidence keep their input order.
func NonMaxSuppression(boxes []entity.BoundingBox, iouThreshold float64) []entity.BoundingBox {
	if len(boxes) == 0 {
		return []entity.BoundingBox{}
	}

	sorted := make([]entity.BoundingBox, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	suppressed := make([]bool, len(sorted))
	kept := make([]entity.BoundingBox, 0, len(sorted))
	for i := range sorted {
		if suppressed[i] {
			continue
		}
		kept = append(kept, sorted[i])
		for j := i + 1; j < len(sorted); j++ {
			if !suppressed[j] && IoU(sorted[i], sorted[j]) >= iouThreshold {
				suppressed[j] = true
			}
		}
	}
	return kept
}

func Distance(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

func ColorDistance(a, b RGB) float64 {
	dr := a.R - b.R
	dg := a.G - b.G
	db := a.B - b.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// Distances computes pairwise Euclidean distances of two equally long point slices.
func Distances(ps, qs []Point) ([]float64, error) {
	if len(ps) != len(qs) {
		return nil, ErrLengthMismatch
	}
	if len(ps) == 0 {
		return nil, nil
	}

	out := make([]float64, len(ps))
	for i := range ps {
		out[i] = Distance(ps[i], qs[i])
	}
	return out, nil
}

func ColorDistances(as, bs []RGB) ([]float64, error) {
	if len(as) != len(bs) {
		return nil, ErrLengthMismatch
	}
	if len(as) == 0 {
		return nil, nil
	}

	out := make([]float64, len(as))
	for i := range as {
		out[i] = ColorDistance(as[i], bs[i])
	}
	return out, nil
}
