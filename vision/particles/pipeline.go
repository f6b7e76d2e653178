package particles

import (
	"image"

	"github.com/pkg/errors"

	"go.plaquette.dev/platecount/rimage"
	"go.plaquette.dev/platecount/vision/preprocess"
	"go.plaquette.dev/platecount/vision/segmentation"
)

// Stages holds the intermediate products of one run.
type Stages struct {
	Corrected  *image.Gray
	Normalized *image.Gray
	Binary     *rimage.Mask
	Cleaned    *rimage.Mask
	Candidates *segmentation.LabelMap
}

// Result is the outcome of detecting particles in one frame.
type Result struct {
	// Threshold is the Otsu threshold of the normalized frame, 0 when it could not be split.
	Threshold         uint8
	DistanceThreshold float64
	Candidates        []segmentation.Region
	Verdicts          []Verdict
	Particles         *ParticleSet
	Stages            *Stages
}

// Count returns the number of isolated particles found.
func (r *Result) Count() int {
	return r.Particles.Count()
}

// NoForeground reports whether nothing survived thresholding and cleanup. This is a valid
// outcome with a count of zero, not an error.
func (r *Result) NoForeground() bool {
	return len(r.Candidates) == 0
}

// A Pipeline runs detection on frames sharing one reference. It is safe for concurrent use.
type Pipeline struct {
	cfg       Config
	corrector *preprocess.Corrector
}

// NewPipeline validates cfg and estimates the illumination field of reference.
func NewPipeline(reference *image.Gray, cfg Config) (*Pipeline, error) {
	if err := cfg.Validate("detection"); err != nil {
		return nil, err
	}
	corrector, err := preprocess.NewCorrector(reference, cfg.KernelSize)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, corrector: corrector}, nil
}

// Config returns the parameters of the pipeline.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Process detects the isolated particles of img.
func (p *Pipeline) Process(img *image.Gray) (*Result, error) {
	corrected, err := p.corrector.Correct(img)
	if err != nil {
		return nil, err
	}
	normalized, err := preprocess.NormalizeHistogram(corrected, p.cfg.HistogramFloor)
	if err != nil {
		return nil, errors.Wrap(err, "cannot normalize histogram")
	}
	binary, threshold, _ := segmentation.Binarize(normalized)
	cleaned := segmentation.Clean(binary, p.cfg.MinObjectArea, p.cfg.MaxHoleArea)
	candidates := segmentation.Label(cleaned, segmentation.Eight)
	regions := segmentation.Regions(candidates)

	bounds := img.Bounds()
	particles, verdicts := Isolate(regions, bounds.Dx(), bounds.Dy(), p.cfg)

	res := &Result{
		Threshold:         threshold,
		DistanceThreshold: DistanceThreshold(regions),
		Candidates:        regions,
		Verdicts:          verdicts,
		Particles:         particles,
	}
	if p.cfg.KeepStages {
		res.Stages = &Stages{
			Corrected:  corrected,
			Normalized: normalized,
			Binary:     binary,
			Cleaned:    cleaned,
			Candidates: candidates,
		}
	}
	return res, nil
}

// Process detects the isolated particles of img, using reference to flatten its
// illumination.
func Process(img, reference *image.Gray, cfg Config) (*Result, error) {
	if reference == nil {
		return nil, preprocess.ErrMissingReference
	}
	if err := rimage.CheckNonEmpty(img); err != nil {
		return nil, err
	}
	if !rimage.SameImgSize(img, reference) {
		return nil, errors.Wrapf(preprocess.ErrDimensionMismatch, "sample is %v, reference is %v",
			img.Bounds().Size(), reference.Bounds().Size())
	}
	p, err := NewPipeline(reference, cfg)
	if err != nil {
		return nil, err
	}
	return p.Process(img)
}
