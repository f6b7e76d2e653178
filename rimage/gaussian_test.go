package rimage

import (
	"image"
	"image/color"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestGaussianKernel1D(t *testing.T) {
	test.That(t, SigmaForKernelSize(51), test.ShouldAlmostEqual, 8.0)
	test.That(t, SigmaForKernelSize(3), test.ShouldAlmostEqual, 0.8)

	kernel, err := GaussianKernel1D(51)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, kernel, test.ShouldHaveLength, 51)
	sum := 0.0
	for i, v := range kernel {
		sum += v
		test.That(t, v, test.ShouldAlmostEqual, kernel[len(kernel)-1-i])
		if i > 0 && i <= 25 {
			test.That(t, v, test.ShouldBeGreaterThan, kernel[i-1])
		}
	}
	test.That(t, sum, test.ShouldAlmostEqual, 1.0)

	for _, size := range []int{0, -3, 4} {
		_, err = GaussianKernel1D(size)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "odd and positive")
	}
}

func TestGaussianBlurUniform(t *testing.T) {
	img := NewGrayFromFunc(20, 12, func(x, y int) uint8 { return 200 })
	blurred, err := GaussianBlurGray(img, 51)
	test.That(t, err, test.ShouldBeNil)
	r, c := blurred.Dims()
	test.That(t, r, test.ShouldEqual, 12)
	test.That(t, c, test.ShouldEqual, 20)
	for y := 0; y < r; y++ {
		for x := 0; x < c; x++ {
			test.That(t, blurred.At(y, x), test.ShouldAlmostEqual, 200.0, 1e-9)
		}
	}
}

func TestGaussianBlurImpulse(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 41, 41))
	img.SetGray(20, 20, color.Gray{255})
	blurred, err := GaussianBlurGray(img, 9)
	test.That(t, err, test.ShouldBeNil)

	// the energy stays in the image when the kernel does not reach the border
	test.That(t, mat.Sum(blurred), test.ShouldAlmostEqual, 255.0, 1e-9)
	test.That(t, blurred.At(20, 20), test.ShouldBeGreaterThan, blurred.At(20, 21))
	test.That(t, blurred.At(20, 19), test.ShouldAlmostEqual, blurred.At(20, 21))
	test.That(t, blurred.At(19, 20), test.ShouldAlmostEqual, blurred.At(20, 19))
	test.That(t, blurred.At(0, 0), test.ShouldEqual, 0.0)
}

func TestGaussianBlurErrors(t *testing.T) {
	_, err := GaussianBlurGray(image.NewGray(image.Rectangle{}), 3)
	test.That(t, err, test.ShouldBeError, ErrEmptyImage)

	_, err = GaussianBlurGray(image.NewGray(image.Rect(0, 0, 2, 2)), 2)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestDenseGrayConversions(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{-4, 0, 12.9, 254.99, 255, 1e6})
	gray := DenseToGray(m)
	test.That(t, gray.Bounds(), test.ShouldResemble, image.Rect(0, 0, 3, 2))
	test.That(t, gray.Pix[:3], test.ShouldResemble, []uint8{0, 0, 12})
	test.That(t, gray.Pix[gray.Stride:gray.Stride+3], test.ShouldResemble, []uint8{254, 255, 255})

	back := GrayToDense(gray)
	test.That(t, back.At(1, 0), test.ShouldEqual, 254.0)
}
