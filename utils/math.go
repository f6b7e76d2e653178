package utils

import "math"

// ClampF64 restricts n to the closed interval [lo, hi].
func ClampF64(n, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, n))
}

// ClampToUint8 clips n to [0, 255] and truncates it toward zero.
func ClampToUint8(n float64) uint8 {
	if math.IsNaN(n) {
		return 0
	}
	return uint8(ClampF64(n, 0, 255))
}

// ReflectIndex maps an out of range index back into [0, length) by mirroring around the
// edges without repeating the edge sample, i.e. for length 5: -2 -> 2, -1 -> 1, 5 -> 3.
func ReflectIndex(p, length int) int {
	if length == 1 {
		return 0
	}
	for p < 0 || p >= length {
		if p < 0 {
			p = -p
		} else {
			p = 2*length - p - 2
		}
	}
	return p
}
