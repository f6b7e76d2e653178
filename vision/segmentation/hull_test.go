package segmentation

import (
	"image"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestConvexHull(t *testing.T) {
	pts := []r2.Point{
		{X: 1, Y: 1}, {X: 0, Y: 0}, {X: 2, Y: 2}, {X: 1, Y: 0},
		{X: 0, Y: 2}, {X: 2, Y: 0}, {X: 2, Y: 0},
	}
	hull := ConvexHull(pts)
	test.That(t, hull, test.ShouldResemble, []r2.Point{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}})

	t.Run("degenerate", func(t *testing.T) {
		test.That(t, ConvexHull(nil), test.ShouldBeEmpty)
		test.That(t, ConvexHull([]r2.Point{{X: 3, Y: 1}, {X: 1, Y: 1}}), test.ShouldResemble,
			[]r2.Point{{X: 1, Y: 1}, {X: 3, Y: 1}})
	})
}

func TestPixelHull(t *testing.T) {
	hull := PixelHull([]image.Point{{5, 5}})
	test.That(t, hull, test.ShouldResemble, []r2.Point{
		{X: 4.5, Y: 5}, {X: 5, Y: 4.5}, {X: 5.5, Y: 5}, {X: 5, Y: 5.5},
	})
}

func rectPixels(r image.Rectangle) []image.Point {
	var pts []image.Point
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			pts = append(pts, image.Pt(x, y))
		}
	}
	return pts
}

func TestConvexArea(t *testing.T) {
	test.That(t, ConvexArea(nil), test.ShouldEqual, 0)
	test.That(t, ConvexArea([]image.Point{{2, 3}}), test.ShouldEqual, 1)
	test.That(t, ConvexArea(rectPixels(image.Rect(4, 4, 7, 7))), test.ShouldEqual, 9)
	test.That(t, ConvexArea(rectPixels(image.Rect(0, 0, 10, 1))), test.ShouldEqual, 10)

	// an L closes over the one pixel in its elbow
	l := []image.Point{{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}}
	test.That(t, ConvexArea(l), test.ShouldEqual, 6)

	// two 5x5 squares joined by a 6 pixel bar fill their whole bounding box
	dumbbell := append(rectPixels(image.Rect(0, 0, 5, 5)), rectPixels(image.Rect(11, 0, 16, 5))...)
	dumbbell = append(dumbbell, rectPixels(image.Rect(5, 2, 11, 3))...)
	test.That(t, len(dumbbell), test.ShouldEqual, 56)
	test.That(t, ConvexArea(dumbbell), test.ShouldEqual, 80)
}
