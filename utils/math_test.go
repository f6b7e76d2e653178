package utils

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestClamp(t *testing.T) {
	test.That(t, ClampF64(-3, 0, 255), test.ShouldEqual, 0)
	test.That(t, ClampF64(300, 0, 255), test.ShouldEqual, 255)
	test.That(t, ClampF64(12.5, 0, 255), test.ShouldEqual, 12.5)

	test.That(t, ClampToUint8(199.9998), test.ShouldEqual, 199)
	test.That(t, ClampToUint8(1e9), test.ShouldEqual, 255)
	test.That(t, ClampToUint8(-1), test.ShouldEqual, 0)
	test.That(t, ClampToUint8(math.NaN()), test.ShouldEqual, 0)
}

func TestReflectIndex(t *testing.T) {
	for _, tc := range []struct {
		p, length, expected int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{-7, 3, 1},
		{9, 3, 1},
		{-4, 1, 0},
	} {
		test.That(t, ReflectIndex(tc.p, tc.length), test.ShouldEqual, tc.expected)
	}
}
