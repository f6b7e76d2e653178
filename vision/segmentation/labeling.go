package segmentation

import (
	"image"

	"go.plaquette.dev/platecount/rimage"
)

// Connectivity selects which neighbours of a pixel count as adjacent.
type Connectivity int

const (
	// Four connects pixels sharing an edge.
	Four Connectivity = 4
	// Eight connects pixels sharing an edge or a corner.
	Eight Connectivity = 8
)

var (
	fourNeighbors  = []image.Point{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	eightNeighbors = []image.Point{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}}
)

func (c Connectivity) offsets() []image.Point {
	if c == Four {
		return fourNeighbors
	}
	return eightNeighbors
}

// LabelMap assigns every pixel the label of the component it belongs to. Label 0 is
// background; components are numbered 1..NumLabels.
type LabelMap struct {
	width, height int
	labels        []int
	count         int
}

// Width returns the width of the map.
func (lm *LabelMap) Width() int {
	return lm.width
}

// Height returns the height of the map.
func (lm *LabelMap) Height() int {
	return lm.height
}

// Bounds returns the rectangle covered by the map.
func (lm *LabelMap) Bounds() image.Rectangle {
	return image.Rect(0, 0, lm.width, lm.height)
}

// At returns the label at (x, y), 0 outside of the map.
func (lm *LabelMap) At(x, y int) int {
	if x < 0 || y < 0 || x >= lm.width || y >= lm.height {
		return 0
	}
	return lm.labels[y*lm.width+x]
}

// NumLabels returns the number of components.
func (lm *LabelMap) NumLabels() int {
	return lm.count
}

// Mask returns the union of all labelled components.
func (lm *LabelMap) Mask() *rimage.Mask {
	m := rimage.NewMask(lm.width, lm.height)
	for i, l := range lm.labels {
		if l != 0 {
			m.Set(i%lm.width, i/lm.width, true)
		}
	}
	return m
}

// ToGray renders the label values directly as gray samples, clamped at 255. Useful for
// debugging dumps only.
func (lm *LabelMap) ToGray() *image.Gray {
	out := image.NewGray(lm.Bounds())
	for i, l := range lm.labels {
		if l > 255 {
			l = 255
		}
		out.Pix[(i/lm.width)*out.Stride+i%lm.width] = uint8(l)
	}
	return out
}

// Equal reports whether both maps have the same size and labels.
func (lm *LabelMap) Equal(other *LabelMap) bool {
	if other == nil || lm.width != other.width || lm.height != other.height || lm.count != other.count {
		return false
	}
	for i, l := range lm.labels {
		if other.labels[i] != l {
			return false
		}
	}
	return true
}

// Label numbers the connected foreground components of mask. Components are discovered by
// a row-major scan and grown by breadth-first flood fill, so label k is the component whose
// first pixel in reading order comes k-th.
func Label(mask *rimage.Mask, conn Connectivity) *LabelMap {
	return labelWhere(mask, true, conn)
}

// labelWhere labels the components made of samples equal to value.
func labelWhere(mask *rimage.Mask, value bool, conn Connectivity) *LabelMap {
	w, h := mask.Width(), mask.Height()
	lm := &LabelMap{width: w, height: h, labels: make([]int, w*h)}
	offsets := conn.offsets()
	queue := []image.Point{}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if lm.labels[y*w+x] != 0 || mask.Get(x, y) != value {
				continue
			}
			lm.count++
			lm.labels[y*w+x] = lm.count
			queue = append(queue[:0], image.Point{x, y})
			for head := 0; head < len(queue); head++ {
				pt := queue[head]
				for _, off := range offsets {
					nx, ny := pt.X+off.X, pt.Y+off.Y
					if !mask.In(nx, ny) || lm.labels[ny*w+nx] != 0 || mask.Get(nx, ny) != value {
						continue
					}
					lm.labels[ny*w+nx] = lm.count
					queue = append(queue, image.Point{nx, ny})
				}
			}
		}
	}
	return lm
}

// areas returns the pixel count of every label, indexed by label.
func (lm *LabelMap) areas() []int {
	areas := make([]int, lm.count+1)
	for _, l := range lm.labels {
		areas[l]++
	}
	return areas
}
