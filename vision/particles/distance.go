package particles

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"go.plaquette.dev/platecount/vision/segmentation"
)

// DistanceMatrix holds the euclidean distances between region centroids. The diagonal is
// +Inf so a region is never its own nearest neighbour.
type DistanceMatrix struct {
	m *mat.Dense
}

// NewDistanceMatrix computes all pairwise centroid distances of regions.
func NewDistanceMatrix(regions []segmentation.Region) *DistanceMatrix {
	n := len(regions)
	if n == 0 {
		return &DistanceMatrix{}
	}
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, math.Inf(1))
		for j := i + 1; j < n; j++ {
			d := regions[i].Centroid.Sub(regions[j].Centroid).Norm()
			m.Set(i, j, d)
			m.Set(j, i, d)
		}
	}
	return &DistanceMatrix{m: m}
}

// Len returns the number of regions.
func (d *DistanceMatrix) Len() int {
	if d.m == nil {
		return 0
	}
	n, _ := d.m.Dims()
	return n
}

// At returns the distance between regions i and j.
func (d *DistanceMatrix) At(i, j int) float64 {
	return d.m.At(i, j)
}

// Nearest returns the distance from region i to its closest neighbour, +Inf when it has
// none.
func (d *DistanceMatrix) Nearest(i int) float64 {
	return floats.Min(d.m.RawRowView(i))
}

// DistanceThreshold returns the mean equivalent diameter of regions, 0 when there are none.
// A region closer than that to another one is considered part of a cluster.
func DistanceThreshold(regions []segmentation.Region) float64 {
	if len(regions) == 0 {
		return 0
	}
	diameters := make([]float64, len(regions))
	for i, r := range regions {
		diameters[i] = r.EquivalentDiameter
	}
	return stat.Mean(diameters, nil)
}
