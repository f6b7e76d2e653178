package preprocess

import (
	"image"
	"testing"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
	"go.viam.com/test"

	"go.plaquette.dev/platecount/rimage"
	"go.plaquette.dev/platecount/testutils"
)

func TestCorrectIlluminationUniform(t *testing.T) {
	img := testutils.UniformGray(60, 40, 200)
	corrected, err := CorrectIllumination(img, img, DefaultKernelSize)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, corrected.Bounds(), test.ShouldResemble, img.Bounds())
	for _, v := range corrected.Pix {
		test.That(t, v, test.ShouldEqual, uint8(199))
	}
}

func TestCorrectIlluminationFlattensShading(t *testing.T) {
	ramp := func(x, y int) uint8 { return uint8(150 + x) }
	reference := rimage.NewGrayFromFunc(100, 60, ramp)
	sample := rimage.NewGrayFromFunc(100, 60, ramp)
	testutils.DrawDisc(sample, image.Pt(50, 30), 5, 60)

	corrected, err := CorrectIllumination(sample, reference, DefaultKernelSize)
	test.That(t, err, test.ShouldBeNil)

	// away from the borders the blurred ramp is the ramp itself, so the background comes
	// out flat
	lo, hi := uint8(255), uint8(0)
	for y := 0; y < 60; y++ {
		for x := 30; x < 70; x++ {
			if image.Pt(x, y).Sub(image.Pt(50, 30)).In(image.Rect(-6, -6, 7, 7)) {
				continue
			}
			v := corrected.GrayAt(x, y).Y
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	test.That(t, hi-lo, test.ShouldBeLessThanOrEqualTo, uint8(1))
	test.That(t, lo, test.ShouldBeBetween, uint8(189), uint8(211))
	test.That(t, corrected.GrayAt(50, 30).Y, test.ShouldBeLessThan, uint8(100))
}

func TestCorrectIlluminationErrors(t *testing.T) {
	img := testutils.UniformGray(10, 10, 100)

	_, err := CorrectIllumination(img, testutils.UniformGray(10, 11, 100), 5)
	test.That(t, errors.Is(err, ErrDimensionMismatch), test.ShouldBeTrue)

	_, err = CorrectIllumination(img, nil, 5)
	test.That(t, errors.Is(err, ErrMissingReference), test.ShouldBeTrue)

	_, err = CorrectIllumination(image.NewGray(image.Rect(0, 0, 0, 0)), img, 5)
	test.That(t, errors.Is(err, rimage.ErrEmptyImage), test.ShouldBeTrue)

	_, err = CorrectIllumination(nil, img, 5)
	test.That(t, errors.Is(err, rimage.ErrEmptyImage), test.ShouldBeTrue)

	_, err = CorrectIllumination(img, img, 4)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "odd")
}

func TestCorrector(t *testing.T) {
	reference := rimage.NewGrayFromFunc(40, 30, func(x, y int) uint8 { return uint8(100 + 2*y) })
	c, err := NewCorrector(reference, 11)
	test.That(t, err, test.ShouldBeNil)

	field := c.Field()
	rows, cols := field.Dims()
	test.That(t, rows, test.ShouldEqual, 30)
	test.That(t, cols, test.ShouldEqual, 40)
	test.That(t, stat.Mean(field.RawMatrix().Data, nil), test.ShouldAlmostEqual, 1.0, 1e-6)

	first, err := c.Correct(reference)
	test.That(t, err, test.ShouldBeNil)
	second, err := c.Correct(reference)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, first.Pix, test.ShouldResemble, second.Pix)

	_, err = c.Correct(testutils.UniformGray(30, 40, 100))
	test.That(t, errors.Is(err, ErrDimensionMismatch), test.ShouldBeTrue)

	_, err = NewCorrector(nil, 11)
	test.That(t, errors.Is(err, ErrMissingReference), test.ShouldBeTrue)
}
