package rimage

import (
	"image"
	"math"
)

// Histogram counts the samples of an 8-bit image per intensity level.
type Histogram [256]int

// NewHistogram computes the histogram of img.
func NewHistogram(img *image.Gray) Histogram {
	var h Histogram
	w, ht := img.Bounds().Dx(), img.Bounds().Dy()
	for y := 0; y < ht; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for _, v := range row {
			h[v]++
		}
	}
	return h
}

// Total returns the number of samples counted.
func (h *Histogram) Total() int {
	total := 0
	for _, n := range h {
		total += n
	}
	return total
}

// Levels returns how many distinct intensities occur at least once.
func (h *Histogram) Levels() int {
	levels := 0
	for _, n := range h {
		if n > 0 {
			levels++
		}
	}
	return levels
}

// OtsuThreshold picks the split of the histogram of img that maximizes the between-class
// variance. It returns the first intensity of the bright class, so that samples strictly
// below the threshold form the dark class. ok is false when no split has a positive
// between-class variance, e.g. when the image holds a single intensity.
func OtsuThreshold(img *image.Gray) (threshold uint8, ok bool) {
	hist := NewHistogram(img)
	if hist.Levels() < 2 {
		return 0, false
	}
	scale := 1.0 / float64(hist.Total())

	mu := 0.0
	for i, n := range hist {
		mu += float64(i) * float64(n)
	}
	mu *= scale

	const epsilon = 1.1920929e-07 // float32 machine epsilon
	var (
		q1, mu1  float64
		maxSigma float64
		best     int
	)
	for i, n := range hist {
		p := float64(n) * scale
		mu1 *= q1
		q1 += p
		q2 := 1. - q1

		if math.Min(q1, q2) < epsilon || math.Max(q1, q2) > 1.-epsilon {
			continue
		}

		mu1 = (mu1 + float64(i)*p) / q1
		mu2 := (mu - q1*mu1) / q2
		sigma := q1 * q2 * (mu1 - mu2) * (mu1 - mu2)
		if sigma > maxSigma {
			maxSigma = sigma
			best = i
		}
	}
	if maxSigma == 0 {
		return 0, false
	}
	return uint8(best + 1), true
}
