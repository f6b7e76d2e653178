// Package preprocess flattens uneven illumination and stretches contrast so that a single
// global threshold separates particles from the background of any frame.
package preprocess

import (
	"image"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"go.plaquette.dev/platecount/rimage"
)

var (
	// ErrDimensionMismatch is returned when a sample and its reference differ in size.
	ErrDimensionMismatch = errors.New("sample and reference dimensions differ")
	// ErrMissingReference is returned when no reference image is available.
	ErrMissingReference = errors.New("missing reference image")
)

// DefaultKernelSize is the side of the gaussian kernel used to estimate the illumination.
const DefaultKernelSize = 51

const epsilon = 1e-6

// A Corrector divides samples by the illumination field estimated from a blank reference
// frame. It holds no mutable state and may be shared between goroutines.
type Corrector struct {
	width, height int
	field         *mat.Dense
	divisor       *mat.Dense
}

// NewCorrector estimates the illumination field of reference: the reference is smoothed
// with a kernelSize x kernelSize gaussian and scaled so its mean is 1.
func NewCorrector(reference *image.Gray, kernelSize int) (*Corrector, error) {
	if reference == nil {
		return nil, ErrMissingReference
	}
	if err := rimage.CheckNonEmpty(reference); err != nil {
		return nil, errors.Wrap(err, "reference")
	}
	field, err := rimage.GaussianBlurGray(reference, kernelSize)
	if err != nil {
		return nil, err
	}
	mean := stat.Mean(field.RawMatrix().Data, nil)
	field.Apply(func(i, j int, v float64) float64 { return v / (mean + epsilon) }, field)
	divisor := mat.DenseCopyOf(field)
	divisor.Apply(func(i, j int, v float64) float64 { return v + epsilon }, divisor)

	return &Corrector{
		width:   reference.Bounds().Dx(),
		height:  reference.Bounds().Dy(),
		field:   field,
		divisor: divisor,
	}, nil
}

// Field returns a copy of the illumination field, centred at 1.
func (c *Corrector) Field() *mat.Dense {
	return mat.DenseCopyOf(c.field)
}

// Correct divides img by the illumination field, clipping the result to 8 bits.
func (c *Corrector) Correct(img *image.Gray) (*image.Gray, error) {
	if err := rimage.CheckNonEmpty(img); err != nil {
		return nil, err
	}
	if img.Bounds().Dx() != c.width || img.Bounds().Dy() != c.height {
		return nil, errors.Wrapf(ErrDimensionMismatch, "sample is %dx%d, reference is %dx%d",
			img.Bounds().Dx(), img.Bounds().Dy(), c.width, c.height)
	}
	corrected := rimage.GrayToDense(img)
	corrected.DivElem(corrected, c.divisor)
	return rimage.DenseToGray(corrected), nil
}

// CorrectIllumination removes the smooth shading captured by reference from img. Both
// images must have the same size.
func CorrectIllumination(img, reference *image.Gray, kernelSize int) (*image.Gray, error) {
	if err := rimage.CheckNonEmpty(img); err != nil {
		return nil, err
	}
	if reference != nil && !rimage.SameImgSize(img, reference) {
		return nil, errors.Wrapf(ErrDimensionMismatch, "sample is %v, reference is %v",
			img.Bounds().Size(), reference.Bounds().Size())
	}
	c, err := NewCorrector(reference, kernelSize)
	if err != nil {
		return nil, err
	}
	return c.Correct(img)
}
