package rimage

import (
	"testing"

	"go.viam.com/test"
)

func TestHistogram(t *testing.T) {
	img := NewGrayFromFunc(4, 2, func(x, y int) uint8 { return uint8(10 * (x % 2)) })
	hist := NewHistogram(img)
	test.That(t, hist[0], test.ShouldEqual, 4)
	test.That(t, hist[10], test.ShouldEqual, 4)
	test.That(t, hist.Total(), test.ShouldEqual, 8)
	test.That(t, hist.Levels(), test.ShouldEqual, 2)
}

func TestOtsuThresholdTwoLevels(t *testing.T) {
	img := NewGrayFromFunc(10, 10, func(x, y int) uint8 {
		if x < 3 {
			return 12
		}
		return 255
	})
	threshold, ok := OtsuThreshold(img)
	test.That(t, ok, test.ShouldBeTrue)
	// every split between the two levels has the same variance; the first one wins
	test.That(t, threshold, test.ShouldEqual, 13)
}

func TestOtsuThresholdBimodal(t *testing.T) {
	img := NewGrayFromFunc(20, 20, func(x, y int) uint8 {
		base := 40
		if x >= 10 {
			base = 180
		}
		return uint8(base + (x+y)%7)
	})
	threshold, ok := OtsuThreshold(img)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, threshold, test.ShouldBeGreaterThan, 46)
	test.That(t, threshold, test.ShouldBeLessThanOrEqualTo, 180)
}

func TestOtsuThresholdUniform(t *testing.T) {
	img := NewGrayFromFunc(5, 5, func(x, y int) uint8 { return 77 })
	_, ok := OtsuThreshold(img)
	test.That(t, ok, test.ShouldBeFalse)
}
