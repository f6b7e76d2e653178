// Package batch counts isolated particles over a directory of frames sharing one reference.
package batch

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.opencensus.io/trace"
	"go.uber.org/atomic"

	"go.plaquette.dev/platecount/config"
	"go.plaquette.dev/platecount/logging"
	"go.plaquette.dev/platecount/rimage"
	"go.plaquette.dev/platecount/utils"
	"go.plaquette.dev/platecount/vision/particles"
	"go.plaquette.dev/platecount/vision/preprocess"
	"go.plaquette.dev/platecount/vision/segmentation"
)

// Names of the files written to the output directory.
const (
	overlayPrefix = "counted_"
	stagesDir     = "stages"
	chartName     = "counts.png"
)

// A Job is one frame to count.
type Job struct {
	Name string
	Path string
}

// A Driver runs the detection pipeline over many frames. Frames are independent; one that
// fails never stops the others.
type Driver struct {
	cfg       *config.Config
	logger    logging.Logger
	pipeline  *particles.Pipeline
	clock     clock.Clock
	outputDir string

	processed atomic.Int64
	failed    atomic.Int64

	// process is swapped in tests.
	process func(img *image.Gray) (*particles.Result, error)
}

// NewDriver validates cfg and prepares the pipeline from its reference image. An invalid
// configuration or a missing reference aborts before any frame is read.
func NewDriver(cfg *config.Config, logger logging.Logger) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Reference == "" {
		return nil, errors.Wrap(preprocess.ErrMissingReference, "no reference configured")
	}
	if _, err := os.Stat(cfg.Reference); err != nil {
		return nil, errors.Wrapf(preprocess.ErrMissingReference, "%v", err)
	}
	reference, err := rimage.NewGrayFromFile(cfg.Reference)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load reference")
	}
	outputDir, err := filepath.Abs(cfg.OutputDir)
	if err != nil {
		return nil, errors.Wrapf(err, "bad output directory %q", cfg.OutputDir)
	}
	detection := cfg.Detection
	detection.KeepStages = cfg.SaveStages
	pipeline, err := particles.NewPipeline(reference, detection)
	if err != nil {
		return nil, err
	}
	logger.Debugw("reference loaded", "reference", cfg.Reference,
		"width", reference.Bounds().Dx(), "height", reference.Bounds().Dy())
	return &Driver{
		cfg:       cfg,
		logger:    logger,
		pipeline:  pipeline,
		clock:     clock.New(),
		outputDir: outputDir,
		process:   pipeline.Process,
	}, nil
}

// Discover lists the image files of the input directory in name order. The reference and
// overlays written by earlier runs are skipped.
func (d *Driver) Discover() ([]Job, error) {
	entries, err := os.ReadDir(d.cfg.InputDir)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot list input directory %q", d.cfg.InputDir)
	}
	var jobs []Job
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !utils.IsImageFile(name) || strings.HasPrefix(name, overlayPrefix) {
			continue
		}
		path := filepath.Join(d.cfg.InputDir, name)
		if utils.SameFile(path, d.cfg.Reference) {
			continue
		}
		jobs = append(jobs, Job{Name: name, Path: path})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Name < jobs[j].Name })
	return jobs, nil
}

// Processed returns how many frames have been counted so far.
func (d *Driver) Processed() int64 {
	return d.processed.Load()
}

// Failed returns how many frames have failed so far.
func (d *Driver) Failed() int64 {
	return d.failed.Load()
}

// Run counts every job on the configured number of workers. The returned report always
// holds one outcome per job, in job order. The error is non-nil only when ctx was
// cancelled; per-frame failures are recorded in the report.
func (d *Driver) Run(ctx context.Context, jobs []Job) (*Report, error) {
	report := &Report{
		RunID:     uuid.NewString(),
		Started:   d.clock.Now(),
		Reference: d.cfg.Reference,
		Detection: d.pipeline.Config(),
		Images:    make([]Outcome, len(jobs)),
	}
	d.logger.Infow("starting batch", "run", report.RunID, "images", len(jobs), "workers", d.cfg.Workers)

	errs, runErr := utils.ForEachIsolated(ctx, len(jobs), d.cfg.Workers, func(ctx context.Context, i int) error {
		outcome, err := d.runOne(ctx, jobs[i])
		report.Images[i] = outcome
		return err
	})
	for i, err := range errs {
		if err == nil {
			continue
		}
		o := &report.Images[i]
		if o.Status == StatusFailed {
			continue
		}
		// panics and jobs that never started leave no outcome behind
		*o = failure(jobs[i].Name, err)
		d.failed.Inc()
		d.logger.Errorw("image failed", "image", jobs[i].Name, "kind", o.Kind, "error", err)
	}

	report.Duration = d.clock.Since(report.Started)
	report.Summarize()
	d.logger.Infow("batch done",
		"run", report.RunID,
		"processed", report.Summary.Processed,
		"failed", report.Summary.Failed,
		"particles", report.Summary.TotalParticles,
		"duration", report.Duration)
	return report, runErr
}

func (d *Driver) runOne(ctx context.Context, job Job) (Outcome, error) {
	_, span := trace.StartSpan(ctx, "batch::Driver::runOne")
	defer span.End()
	span.AddAttributes(trace.StringAttribute("image", job.Name))

	if err := ctx.Err(); err != nil {
		return d.fail(job, err)
	}
	img, err := rimage.NewGrayFromFile(job.Path)
	if err != nil {
		return d.fail(job, err)
	}
	res, err := d.process(img)
	if err != nil {
		return d.fail(job, err)
	}

	outcome := success(job.Name, res)
	if d.cfg.Overlay {
		path, err := d.writeOverlay(job, img, res)
		if err != nil {
			return d.fail(job, err)
		}
		outcome.Overlay = path
	}
	if d.cfg.SaveStages {
		if err := d.writeStages(job, img, res); err != nil {
			return d.fail(job, err)
		}
	}
	d.processed.Inc()
	d.logger.Infow("image counted", "image", job.Name, "count", outcome.Count,
		"candidates", outcome.Candidates, "threshold", outcome.Threshold)
	if res.NoForeground() {
		d.logger.Debugw("no foreground detected", "image", job.Name)
	}
	return outcome, nil
}

func (d *Driver) fail(job Job, err error) (Outcome, error) {
	d.failed.Inc()
	o := failure(job.Name, err)
	d.logger.Errorw("image failed", "image", job.Name, "kind", o.Kind, "error", err)
	return o, err
}

func (d *Driver) writeOverlay(job Job, img *image.Gray, res *particles.Result) (string, error) {
	path, err := utils.SafeJoinDir(d.outputDir, overlayPrefix+stem(job.Name)+".png")
	if err != nil {
		return "", err
	}
	overlay := particles.Overlay(img, res.Particles.Labels, res.Count())
	if err := rimage.WriteImageToFile(path, overlay); err != nil {
		return "", err
	}
	return path, nil
}

func (d *Driver) writeStages(job Job, img *image.Gray, res *particles.Result) error {
	for _, stage := range res.StageImages(img) {
		name := filepath.Join(stagesDir, stem(job.Name)+"_"+stage.Name+".png")
		path, err := utils.SafeJoinDir(d.outputDir, name)
		if err != nil {
			return err
		}
		if err := rimage.WriteImageToFile(path, stage.Image); err != nil {
			return err
		}
	}
	return nil
}

// ReportPath is where WriteReport saves the report.
func (d *Driver) ReportPath() string {
	if d.cfg.Report != "" {
		return d.cfg.Report
	}
	return filepath.Join(d.cfg.OutputDir, config.DefaultReportName)
}

// WriteReport saves report as JSON and, when at least one frame was counted, a chart of the
// counts next to it.
func (d *Driver) WriteReport(report *Report) error {
	path := d.ReportPath()
	if err := report.Write(path); err != nil {
		return err
	}
	d.logger.Infow("report written", "path", path)
	if report.Summary.Processed == 0 {
		return nil
	}
	chart := filepath.Join(filepath.Dir(path), chartName)
	if err := report.WriteCountChart(chart); err != nil {
		return err
	}
	d.logger.Debugw("count chart written", "path", chart)
	return nil
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func success(name string, res *particles.Result) Outcome {
	rejected := map[particles.Reason]int{}
	for _, v := range res.Verdicts {
		for _, reason := range v.Reasons {
			rejected[reason]++
		}
	}
	if len(rejected) == 0 {
		rejected = nil
	}
	return Outcome{
		Image:             name,
		Status:            StatusOK,
		Count:             res.Count(),
		Candidates:        len(res.Candidates),
		Rejected:          rejected,
		Threshold:         res.Threshold,
		DistanceThreshold: res.DistanceThreshold,
		Particles: lo.Map(res.Particles.Particles, func(r segmentation.Region, i int) Particle {
			return Particle{
				Label:              i + 1,
				X:                  r.Centroid.X,
				Y:                  r.Centroid.Y,
				Area:               r.Area,
				EquivalentDiameter: r.EquivalentDiameter,
				Solidity:           r.Solidity,
			}
		}),
	}
}

func failure(name string, err error) Outcome {
	return Outcome{
		Image:  name,
		Status: StatusFailed,
		Kind:   Classify(err),
		Error:  err.Error(),
		err:    err,
	}
}

// Classify maps a per-frame error to its kind.
func Classify(err error) ErrorKind {
	switch {
	case errors.Is(err, preprocess.ErrDimensionMismatch):
		return KindDimensionMismatch
	case errors.Is(err, rimage.ErrEmptyImage):
		return KindEmptyInput
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	case errors.Is(err, rimage.ErrDecode):
		return KindDecode
	default:
		return KindInternal
	}
}
