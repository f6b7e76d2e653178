package rimage

import (
	"image"
	"image/color"
)

// Mask is a binary image. A true sample marks foreground. Its dimensions always match the
// image it was derived from.
type Mask struct {
	width, height int
	data          []bool
}

// NewMask returns an all-background mask of the given size.
func NewMask(width, height int) *Mask {
	return &Mask{
		width:  width,
		height: height,
		data:   make([]bool, width*height),
	}
}

// MaskFromGray marks every non-zero sample of img as foreground.
func MaskFromGray(img *image.Gray) *Mask {
	bounds := img.Bounds()
	m := NewMask(bounds.Dx(), bounds.Dy())
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			m.data[y*m.width+x] = GrayAt(img, x, y) != 0
		}
	}
	return m
}

// Width returns the width of the mask.
func (m *Mask) Width() int {
	return m.width
}

// Height returns the height of the mask.
func (m *Mask) Height() int {
	return m.height
}

// Bounds returns the rectangle covered by the mask.
func (m *Mask) Bounds() image.Rectangle {
	return image.Rect(0, 0, m.width, m.height)
}

// In reports whether (x, y) lies inside the mask.
func (m *Mask) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

// Get returns the sample at (x, y). Points outside of the mask are background.
func (m *Mask) Get(x, y int) bool {
	if !m.In(x, y) {
		return false
	}
	return m.data[y*m.width+x]
}

// Set sets the sample at (x, y).
func (m *Mask) Set(x, y int, v bool) {
	m.data[y*m.width+x] = v
}

// Count returns the number of foreground samples.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.data {
		if v {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	out := NewMask(m.width, m.height)
	copy(out.data, m.data)
	return out
}

// Equal reports whether both masks have the same size and samples.
func (m *Mask) Equal(other *Mask) bool {
	if other == nil || m.width != other.width || m.height != other.height {
		return false
	}
	for i, v := range m.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

// ToGray renders foreground as 255 and background as 0.
func (m *Mask) ToGray() *image.Gray {
	out := image.NewGray(m.Bounds())
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.data[y*m.width+x] {
				out.SetGray(x, y, color.Gray{255})
			}
		}
	}
	return out
}
