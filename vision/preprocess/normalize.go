package preprocess

import (
	"image"

	"github.com/pkg/errors"

	"go.plaquette.dev/platecount/rimage"
)

// DefaultHistogramFloor is the intensity below which samples are left out of the
// normalization histogram.
const DefaultHistogramFloor = 35

// HistogramBin returns the bin of v in a 256 bin histogram spanning [floor, 255], or -1 if
// v is below floor. 255 belongs to the last bin.
func HistogramBin(v uint8, floor int) int {
	if int(v) < floor {
		return -1
	}
	bin := (int(v) - floor) * 256 / (255 - floor)
	if bin > 255 {
		bin = 255
	}
	return bin
}

// EqualizationTable returns the lookup table mapping every intensity v to 255 times the
// fraction of samples whose histogram bin is at most v. The histogram only covers [floor,
// 255] but fractions are taken over all samples, so dark debris does not take up output
// range.
func EqualizationTable(img *image.Gray, floor int) ([256]uint8, error) {
	var table [256]uint8
	if floor < 0 || floor > 254 {
		return table, errors.Errorf("histogram floor must be in [0, 254], got %d", floor)
	}
	if err := rimage.CheckNonEmpty(img); err != nil {
		return table, err
	}

	var bins [256]int
	hist := rimage.NewHistogram(img)
	for v, n := range hist {
		if bin := HistogramBin(uint8(v), floor); bin >= 0 {
			bins[bin] += n
		}
	}

	total := float64(hist.Total())
	cum := 0
	for v := range table {
		cum += bins[v]
		table[v] = uint8(255 * (float64(cum) / total))
	}
	return table, nil
}

// NormalizeHistogram stretches the contrast of img through its EqualizationTable.
func NormalizeHistogram(img *image.Gray, floor int) (*image.Gray, error) {
	table, err := EqualizationTable(img, floor)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	return rimage.NewGrayFromFunc(bounds.Dx(), bounds.Dy(), func(x, y int) uint8 {
		return table[rimage.GrayAt(img, x, y)]
	}), nil
}
