package segmentation

import (
	"image"
	"math"

	"github.com/golang/geo/r2"
)

// Region is a labelled connected component together with the geometric features the
// isolation filter decides on.
type Region struct {
	Label              int
	Pixels             []image.Point
	Centroid           r2.Point
	Area               int
	EquivalentDiameter float64
	ConvexArea         int
	Solidity           float64
	Bounds             image.Rectangle
}

// NewRegion computes the features of the component made of pixels. pixels must be non-empty.
func NewRegion(label int, pixels []image.Point) Region {
	r := Region{
		Label:  label,
		Pixels: pixels,
		Area:   len(pixels),
		Bounds: image.Rectangle{Min: pixels[0], Max: pixels[0].Add(image.Pt(1, 1))},
	}
	var sx, sy float64
	for _, p := range pixels {
		sx += float64(p.X)
		sy += float64(p.Y)
		r.Bounds = r.Bounds.Union(image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))})
	}
	n := float64(len(pixels))
	r.Centroid = r2.Point{X: sx / n, Y: sy / n}
	r.EquivalentDiameter = EquivalentDiameter(len(pixels))
	r.ConvexArea = ConvexArea(pixels)
	r.Solidity = n / float64(r.ConvexArea)
	return r
}

// EquivalentDiameter returns the diameter of the circle with the given area.
func EquivalentDiameter(area int) float64 {
	return 2 * math.Sqrt(float64(area)/math.Pi)
}

// Regions extracts one Region per label of lm, ordered by label. Pixels of each region are
// listed in row-major order.
func Regions(lm *LabelMap) []Region {
	if lm.count == 0 {
		return nil
	}
	pixels := make([][]image.Point, lm.count+1)
	for label, area := range lm.areas() {
		if label != 0 {
			pixels[label] = make([]image.Point, 0, area)
		}
	}
	for y := 0; y < lm.height; y++ {
		for x := 0; x < lm.width; x++ {
			if l := lm.labels[y*lm.width+x]; l != 0 {
				pixels[l] = append(pixels[l], image.Point{x, y})
			}
		}
	}

	regions := make([]Region, 0, lm.count)
	for label := 1; label <= lm.count; label++ {
		regions = append(regions, NewRegion(label, pixels[label]))
	}
	return regions
}
