// Package rimage defines the 8-bit grayscale images and binary masks the detection pipeline
// works on, along with the low level operations (smoothing, histograms, file I/O) shared by
// its stages.
package rimage

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	_ "github.com/lmittmann/ppm" // register ppm
	"github.com/pkg/errors"
)

var (
	// ErrEmptyImage is returned when an image has no pixels.
	ErrEmptyImage = errors.New("image has zero size")
	// ErrDecode is returned when an image file cannot be read or decoded.
	ErrDecode = errors.New("cannot decode image")
)

// NewGrayFromFile decodes the image at path and converts it to an 8-bit grayscale image
// whose bounds start at the origin. EXIF orientation is applied before conversion.
func NewGrayFromFile(path string) (*image.Gray, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "%q (%v)", path, err)
	}
	gray := ToGray(img)
	if err := CheckNonEmpty(gray); err != nil {
		return nil, errors.Wrapf(err, "image %q", path)
	}
	return gray, nil
}

// ToGray converts img to an *image.Gray with bounds starting at the origin. Gray inputs are
// copied; everything else goes through luma conversion (0.299R + 0.587G + 0.114B).
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if gray, ok := img.(*image.Gray); ok {
		draw.Draw(out, out.Bounds(), gray, bounds.Min, draw.Src)
		return out
	}
	luma := imaging.Grayscale(img)
	for y := 0; y < bounds.Dy(); y++ {
		row := luma.Pix[y*luma.Stride : y*luma.Stride+4*bounds.Dx()]
		for x := 0; x < bounds.Dx(); x++ {
			// all three channels hold the same value after Grayscale
			out.Pix[y*out.Stride+x] = row[4*x]
		}
	}
	return out
}

// CheckNonEmpty returns ErrEmptyImage if img is nil or has no pixels.
func CheckNonEmpty(img *image.Gray) error {
	if img == nil || img.Bounds().Empty() {
		return ErrEmptyImage
	}
	return nil
}

// SameImgSize compares images to see if they're the same size.
func SameImgSize(g1, g2 image.Image) bool {
	return g1.Bounds().Dx() == g2.Bounds().Dx() && g1.Bounds().Dy() == g2.Bounds().Dy()
}

// GrayAt returns the sample at (x, y) relative to the image's own origin.
func GrayAt(img *image.Gray, x, y int) uint8 {
	return img.Pix[y*img.Stride+x]
}

// NewGrayFromFunc builds a width x height gray image whose samples are given by f.
func NewGrayFromFunc(width, height int, f func(x, y int) uint8) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out.Pix[y*out.Stride+x] = f(x, y)
		}
	}
	return out
}
