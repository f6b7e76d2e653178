package testutils

import (
	"image"
	"strings"

	"go.plaquette.dev/platecount/rimage"
)

// Intensities used by the synthetic frames. Platelets are dark on a bright field.
const (
	Background uint8 = 200
	Particle   uint8 = 60
)

// UniformGray returns a width x height image filled with v.
func UniformGray(width, height int, v uint8) *image.Gray {
	return rimage.NewGrayFromFunc(width, height, func(x, y int) uint8 { return v })
}

// DrawDisc paints every pixel within radius of center, i.e. dx²+dy² ≤ radius².
func DrawDisc(img *image.Gray, center image.Point, radius int, v uint8) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			p := center.Add(image.Pt(dx, dy))
			if p.In(img.Bounds()) {
				img.Pix[p.Y*img.Stride+p.X] = v
			}
		}
	}
}

// DrawRect paints the rectangle r.
func DrawRect(img *image.Gray, r image.Rectangle, v uint8) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.Pix[y*img.Stride+x] = v
		}
	}
}

// DrawDumbbell paints two side by side squares joined at mid height by a bar one pixel
// thick. The shape starts at origin and spans 2*side+bar columns.
func DrawDumbbell(img *image.Gray, origin image.Point, side, bar int, v uint8) {
	DrawRect(img, image.Rect(0, 0, side, side).Add(origin), v)
	DrawRect(img, image.Rect(side+bar, 0, 2*side+bar, side).Add(origin), v)
	DrawRect(img, image.Rect(side, side/2, side+bar, side/2+1).Add(origin), v)
}

// DiscGrid returns a frame with count discs of the given radius laid out on a grid with
// spacing pixels between centres, and the centres used.
func DiscGrid(cols, rows, radius, spacing int) (*image.Gray, []image.Point) {
	width, height := cols*spacing, rows*spacing
	img := UniformGray(width, height, Background)
	centers := make([]image.Point, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			center := image.Pt(c*spacing+spacing/2, r*spacing+spacing/2)
			DrawDisc(img, center, radius, Particle)
			centers = append(centers, center)
		}
	}
	return img, centers
}

// MaskFromRows builds a mask from rows of text in which '#' marks foreground. All rows must
// have the same length.
func MaskFromRows(rows ...string) *rimage.Mask {
	if len(rows) == 0 {
		return rimage.NewMask(0, 0)
	}
	m := rimage.NewMask(len(rows[0]), len(rows))
	for y, row := range rows {
		for x, c := range strings.Split(row, "") {
			if c == "#" {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// IsUniform reports whether every pixel of img has the same value.
func IsUniform(img *image.Gray) bool {
	b := img.Bounds()
	if b.Empty() {
		return true
	}
	first := img.GrayAt(b.Min.X, b.Min.Y).Y
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.GrayAt(x, y).Y != first {
				return false
			}
		}
	}
	return true
}
