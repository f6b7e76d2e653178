package segmentation

import (
	"go.plaquette.dev/platecount/rimage"
)

// RemoveSmallObjects returns a copy of mask in which every 8-connected foreground component
// of at most maxArea pixels is turned into background.
func RemoveSmallObjects(mask *rimage.Mask, maxArea int) *rimage.Mask {
	out := mask.Clone()
	lm := labelWhere(mask, true, Eight)
	areas := lm.areas()
	for y := 0; y < lm.height; y++ {
		for x := 0; x < lm.width; x++ {
			if l := lm.labels[y*lm.width+x]; l != 0 && areas[l] <= maxArea {
				out.Set(x, y, false)
			}
		}
	}
	return out
}

// FillSmallHoles returns a copy of mask in which every 4-connected background component of
// at most maxArea pixels that does not touch the image border is turned into foreground.
func FillSmallHoles(mask *rimage.Mask, maxArea int) *rimage.Mask {
	out := mask.Clone()
	lm := labelWhere(mask, false, Four)
	areas := lm.areas()

	touchesBorder := make([]bool, lm.count+1)
	for x := 0; x < lm.width; x++ {
		touchesBorder[lm.At(x, 0)] = true
		touchesBorder[lm.At(x, lm.height-1)] = true
	}
	for y := 0; y < lm.height; y++ {
		touchesBorder[lm.At(0, y)] = true
		touchesBorder[lm.At(lm.width-1, y)] = true
	}

	for y := 0; y < lm.height; y++ {
		for x := 0; x < lm.width; x++ {
			l := lm.labels[y*lm.width+x]
			if l != 0 && !touchesBorder[l] && areas[l] <= maxArea {
				out.Set(x, y, true)
			}
		}
	}
	return out
}

// Clean removes small objects and then fills small holes.
func Clean(mask *rimage.Mask, minObjectArea, maxHoleArea int) *rimage.Mask {
	return FillSmallHoles(RemoveSmallObjects(mask, minObjectArea), maxHoleArea)
}
