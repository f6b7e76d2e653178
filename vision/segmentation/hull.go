package segmentation

import (
	"image"
	"math"
	"sort"

	"github.com/golang/geo/r2"
)

const hullEpsilon = 1e-9

func cross(o, a, b r2.Point) float64 {
	return a.Sub(o).Cross(b.Sub(o))
}

// ConvexHull returns the convex hull of pts using Andrew's monotone chain. Vertices are
// ordered counter-clockwise (for a y-up frame) starting from the point with the smallest X.
// Collinear and duplicate points are dropped. Fewer than three points are returned sorted.
func ConvexHull(pts []r2.Point) []r2.Point {
	sorted := make([]r2.Point, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})
	if len(sorted) < 3 {
		return sorted
	}

	hull := make([]r2.Point, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

// pixelHullPoints returns the midpoints of the four edges of the leftmost and rightmost
// pixel of every row. Their hull encloses the hull of every pixel of the set.
func pixelHullPoints(pixels []image.Point) []r2.Point {
	type span struct{ lo, hi int }
	rows := map[int]span{}
	for _, p := range pixels {
		s, ok := rows[p.Y]
		if !ok {
			rows[p.Y] = span{p.X, p.X}
			continue
		}
		if p.X < s.lo {
			s.lo = p.X
		}
		if p.X > s.hi {
			s.hi = p.X
		}
		rows[p.Y] = s
	}

	pts := make([]r2.Point, 0, 8*len(rows))
	for y, s := range rows {
		for _, x := range []int{s.lo, s.hi} {
			fx, fy := float64(x), float64(y)
			pts = append(pts,
				r2.Point{X: fx - 0.5, Y: fy},
				r2.Point{X: fx + 0.5, Y: fy},
				r2.Point{X: fx, Y: fy - 0.5},
				r2.Point{X: fx, Y: fy + 0.5},
			)
		}
	}
	return pts
}

// PixelHull returns the convex hull of a set of pixels, each pixel taken as the diamond
// spanned by the midpoints of its edges.
func PixelHull(pixels []image.Point) []r2.Point {
	return ConvexHull(pixelHullPoints(pixels))
}

// ConvexArea returns the number of pixel centres lying inside or on the convex hull of
// pixels. It is never smaller than len(pixels).
func ConvexArea(pixels []image.Point) int {
	if len(pixels) == 0 {
		return 0
	}
	hull := PixelHull(pixels)

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range hull {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	count := 0
	for y := int(math.Ceil(minY - hullEpsilon)); float64(y) <= maxY+hullEpsilon; y++ {
		lo, hi, ok := hullSpan(hull, float64(y))
		if !ok {
			continue
		}
		first := int(math.Ceil(lo - hullEpsilon))
		last := int(math.Floor(hi + hullEpsilon))
		if last >= first {
			count += last - first + 1
		}
	}
	return count
}

// hullSpan returns the horizontal extent of the convex polygon at height y.
func hullSpan(hull []r2.Point, y float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for i := range hull {
		a, b := hull[i], hull[(i+1)%len(hull)]
		if y < math.Min(a.Y, b.Y)-hullEpsilon || y > math.Max(a.Y, b.Y)+hullEpsilon {
			continue
		}
		if math.Abs(b.Y-a.Y) < hullEpsilon {
			lo = math.Min(lo, math.Min(a.X, b.X))
			hi = math.Max(hi, math.Max(a.X, b.X))
			continue
		}
		x := a.X + (y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi, lo <= hi
}
