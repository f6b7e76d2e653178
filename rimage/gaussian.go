package rimage

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.plaquette.dev/platecount/utils"
)

// SigmaForKernelSize returns the standard deviation implied by an odd kernel size when no
// sigma is given explicitly: 0.3*((size-1)*0.5 - 1) + 0.8. A 51 tap kernel gets sigma 8.
func SigmaForKernelSize(size int) float64 {
	return 0.3*((float64(size)-1)*0.5-1) + 0.8
}

// GaussianFunction1D takes in a sigma and returns a gaussian function useful for weighing averages or blurring.
func GaussianFunction1D(sigma float64) func(p float64) float64 {
	if sigma <= 0. {
		return func(p float64) float64 {
			return 1.
		}
	}
	return func(p float64) float64 {
		return math.Exp(-0.5 * p * p / (sigma * sigma))
	}
}

// GaussianKernel1D returns a normalized (summing to 1) gaussian kernel with size taps. size
// must be odd and positive.
func GaussianKernel1D(size int) ([]float64, error) {
	if size <= 0 || size%2 == 0 {
		return nil, errors.Errorf("gaussian kernel size must be odd and positive, got %d", size)
	}
	gaus := GaussianFunction1D(SigmaForKernelSize(size))
	half := size / 2
	kernel := make([]float64, size)
	sum := 0.0
	for i := range kernel {
		kernel[i] = gaus(float64(i - half))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel, nil
}

// GaussianBlurGray smooths img with a size x size gaussian kernel and returns the result as
// a height x width matrix of unclamped float64 values. The kernel is applied separably and
// borders are mirrored without repeating the edge sample.
func GaussianBlurGray(img *image.Gray, size int) (*mat.Dense, error) {
	if err := CheckNonEmpty(img); err != nil {
		return nil, err
	}
	kernel, err := GaussianKernel1D(size)
	if err != nil {
		return nil, err
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	half := size / 2

	horizontal := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for k, weight := range kernel {
				xx := utils.ReflectIndex(x+k-half, w)
				sum += weight * float64(GrayAt(img, xx, y))
			}
			horizontal.Set(y, x, sum)
		}
	}

	out := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for k, weight := range kernel {
				yy := utils.ReflectIndex(y+k-half, h)
				sum += weight * horizontal.At(yy, x)
			}
			out.Set(y, x, sum)
		}
	}
	return out, nil
}

// GrayToDense copies the samples of img into a height x width matrix.
func GrayToDense(img *image.Gray) *mat.Dense {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	out := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(y, x, float64(GrayAt(img, x, y)))
		}
	}
	return out
}

// DenseToGray clips every value of m to [0, 255] and truncates it into an 8-bit image.
func DenseToGray(m *mat.Dense) *image.Gray {
	h, w := m.Dims()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Pix[y*out.Stride+x] = utils.ClampToUint8(m.At(y, x))
		}
	}
	return out
}
