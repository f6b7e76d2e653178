package segmentation

import (
	"image"
	"testing"

	"go.viam.com/test"

	"go.plaquette.dev/platecount/rimage"
	"go.plaquette.dev/platecount/testutils"
)

func TestBinarize(t *testing.T) {
	img := testutils.UniformGray(10, 4, 200)
	testutils.DrawRect(img, image.Rect(0, 0, 5, 4), 50)

	mask, threshold, ok := Binarize(img)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, threshold, test.ShouldEqual, uint8(51))
	test.That(t, mask.Count(), test.ShouldEqual, 20)
	test.That(t, mask.Get(4, 3), test.ShouldBeTrue)
	test.That(t, mask.Get(5, 0), test.ShouldBeFalse)
}

func TestBinarizeUniform(t *testing.T) {
	mask, _, ok := Binarize(testutils.UniformGray(7, 3, 128))
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, mask.Bounds(), test.ShouldResemble, image.Rect(0, 0, 7, 3))
	test.That(t, mask.Count(), test.ShouldEqual, 0)
}

func TestThresholdBelow(t *testing.T) {
	img := rimage.NewGrayFromFunc(4, 1, func(x, y int) uint8 { return uint8(x * 10) })
	mask := ThresholdBelow(img, 20)
	test.That(t, mask.Equal(testutils.MaskFromRows("##..")), test.ShouldBeTrue)
}
