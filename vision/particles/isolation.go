package particles

import (
	"github.com/golang/geo/r2"

	"go.plaquette.dev/platecount/rimage"
	"go.plaquette.dev/platecount/vision/segmentation"
)

// A Reason explains why a candidate was rejected.
type Reason string

// The rejection reasons, one per acceptance criterion.
const (
	ReasonClustered Reason = "clustered"
	ReasonAggregate Reason = "aggregate"
	ReasonIrregular Reason = "irregular"
)

// Verdict is the decision taken on one candidate region.
type Verdict struct {
	Label    int
	Centroid r2.Point
	Area     int
	Solidity float64
	// Nearest is the distance to the closest other candidate, +Inf if there is none.
	Nearest  float64
	Accepted bool
	Reasons  []Reason
}

// ParticleSet holds the accepted candidates, relabelled 1..Count.
type ParticleSet struct {
	Labels    *segmentation.LabelMap
	Particles []segmentation.Region
}

// Count returns the number of isolated particles.
func (ps *ParticleSet) Count() int {
	return len(ps.Particles)
}

// Judge decides on every candidate. A candidate is accepted only if its nearest neighbour is
// farther than threshold, it is no larger than cfg.MaxParticleArea and its solidity exceeds
// cfg.MinSolidity.
func Judge(regions []segmentation.Region, threshold float64, cfg Config) []Verdict {
	dm := NewDistanceMatrix(regions)
	verdicts := make([]Verdict, len(regions))
	for i, r := range regions {
		v := Verdict{
			Label:    r.Label,
			Centroid: r.Centroid,
			Area:     r.Area,
			Solidity: r.Solidity,
			Nearest:  dm.Nearest(i),
		}
		if !(v.Nearest > threshold) {
			v.Reasons = append(v.Reasons, ReasonClustered)
		}
		if r.Area > cfg.MaxParticleArea {
			v.Reasons = append(v.Reasons, ReasonAggregate)
		}
		if !(r.Solidity > cfg.MinSolidity) {
			v.Reasons = append(v.Reasons, ReasonIrregular)
		}
		v.Accepted = len(v.Reasons) == 0
		verdicts[i] = v
	}
	return verdicts
}

// Isolate keeps the candidates of a width x height frame that pass Judge against the mean
// equivalent diameter, and labels them afresh.
func Isolate(regions []segmentation.Region, width, height int, cfg Config) (*ParticleSet, []Verdict) {
	verdicts := Judge(regions, DistanceThreshold(regions), cfg)

	mask := rimage.NewMask(width, height)
	for i, v := range verdicts {
		if !v.Accepted {
			continue
		}
		for _, p := range regions[i].Pixels {
			mask.Set(p.X, p.Y, true)
		}
	}
	labels := segmentation.Label(mask, segmentation.Eight)
	return &ParticleSet{
		Labels:    labels,
		Particles: segmentation.Regions(labels),
	}, verdicts
}
