// Package segmentation turns a normalized grayscale image into labelled particle candidates:
// thresholding, morphological cleanup, connected components and their shape features.
package segmentation

import (
	"image"

	"go.plaquette.dev/platecount/rimage"
)

// Binarize thresholds img with Otsu's method. Particles are darker than the background, so
// samples strictly below the threshold are foreground. When the histogram cannot be split
// the mask is empty and ok is false.
func Binarize(img *image.Gray) (mask *rimage.Mask, threshold uint8, ok bool) {
	bounds := img.Bounds()
	mask = rimage.NewMask(bounds.Dx(), bounds.Dy())
	threshold, ok = rimage.OtsuThreshold(img)
	if !ok {
		return mask, 0, false
	}
	return ThresholdBelow(img, threshold), threshold, true
}

// ThresholdBelow marks every sample strictly below t as foreground.
func ThresholdBelow(img *image.Gray, t uint8) *rimage.Mask {
	bounds := img.Bounds()
	mask := rimage.NewMask(bounds.Dx(), bounds.Dy())
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			if rimage.GrayAt(img, x, y) < t {
				mask.Set(x, y, true)
			}
		}
	}
	return mask
}
