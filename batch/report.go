package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"go.plaquette.dev/platecount/vision/particles"
)

// Status tells whether an image was counted.
type Status string

// The image statuses.
const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// ErrorKind classifies why an image failed.
type ErrorKind string

// The failure kinds.
const (
	KindDimensionMismatch ErrorKind = "dimension_mismatch"
	KindEmptyInput        ErrorKind = "empty_input"
	KindDecode            ErrorKind = "decode"
	KindCanceled          ErrorKind = "canceled"
	KindInternal          ErrorKind = "internal"
)

// Particle is the geometry of one accepted particle.
type Particle struct {
	Label              int     `json:"label"`
	X                  float64 `json:"x"`
	Y                  float64 `json:"y"`
	Area               int     `json:"area"`
	EquivalentDiameter float64 `json:"equivalent_diameter"`
	Solidity           float64 `json:"solidity"`
}

// Outcome is the result of one image. Failed images have a zero count and an error kind,
// which tells them apart from images where nothing was found.
type Outcome struct {
	Image             string                   `json:"image"`
	Status            Status                   `json:"status"`
	Kind              ErrorKind                `json:"error_kind,omitempty"`
	Error             string                   `json:"error,omitempty"`
	Count             int                      `json:"count"`
	Candidates        int                      `json:"candidates"`
	Rejected          map[particles.Reason]int `json:"rejected,omitempty"`
	Threshold         uint8                    `json:"threshold"`
	DistanceThreshold float64                  `json:"distance_threshold"`
	Particles         []Particle               `json:"particles,omitempty"`
	Overlay           string                   `json:"overlay,omitempty"`

	err error
}

// Err returns the error that made the image fail, nil if it was counted.
func (o *Outcome) Err() error {
	return o.err
}

// Summary aggregates the counts of the images that were processed successfully.
type Summary struct {
	Processed      int     `json:"processed"`
	Failed         int     `json:"failed"`
	TotalParticles int     `json:"total_particles"`
	MeanCount      float64 `json:"mean_count"`
	MedianCount    float64 `json:"median_count"`
	StdDevCount    float64 `json:"stddev_count"`
}

// Report is the outcome of a batch run.
type Report struct {
	RunID     string           `json:"run_id"`
	Started   time.Time        `json:"started"`
	Duration  time.Duration    `json:"duration_ns"`
	Reference string           `json:"reference"`
	Detection particles.Config `json:"detection"`
	Images    []Outcome        `json:"images"`
	Summary   Summary          `json:"summary"`
}

// Counts returns the particle counts of the successfully processed images, in order.
func (r *Report) Counts() []int {
	counts := make([]int, 0, len(r.Images))
	for _, o := range r.Images {
		if o.Status == StatusOK {
			counts = append(counts, o.Count)
		}
	}
	return counts
}

// Summarize computes the summary from the outcomes.
func (r *Report) Summarize() {
	var s Summary
	data := make(stats.Float64Data, 0, len(r.Images))
	for _, o := range r.Images {
		if o.Status != StatusOK {
			s.Failed++
			continue
		}
		s.Processed++
		s.TotalParticles += o.Count
		data = append(data, float64(o.Count))
	}
	if len(data) > 0 {
		// errors only occur on empty input
		s.MeanCount, _ = stats.Mean(data)
		s.MedianCount, _ = stats.Median(data)
		s.StdDevCount, _ = stats.StandardDeviation(data)
	}
	r.Summary = s
}

// Err combines the errors of all failed images.
func (r *Report) Err() error {
	var errs error
	for _, o := range r.Images {
		if o.err != nil {
			errs = multierr.Append(errs, errors.Wrapf(o.err, "image %q", o.Image))
		}
	}
	return errs
}

// String renders the outcomes as a table followed by the summary.
func (r *Report) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Image", "Status", "Count", "Candidates", "Threshold", "Error"})
	for i, o := range r.Images {
		t.AppendRow(table.Row{i + 1, o.Image, o.Status, o.Count, o.Candidates, o.Threshold, o.Error})
	}
	t.AppendFooter(table.Row{
		"", "", "", r.Summary.TotalParticles,
		"mean " + strconv.FormatFloat(r.Summary.MeanCount, 'f', 2, 64),
		"failed", r.Summary.Failed,
	})
	return t.Render()
}

// Write saves the report as indented JSON.
func (r *Report) Write(path string) error {
	buf, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "cannot encode report")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrapf(err, "cannot create directory for %q", path)
	}
	//nolint:gosec
	if err := os.WriteFile(path, append(buf, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "cannot write report %q", path)
	}
	return nil
}

// WriteCountChart plots how many images had each particle count. The format follows the
// file extension.
func (r *Report) WriteCountChart(path string) error {
	counts := r.Counts()
	if len(counts) == 0 {
		return errors.New("no processed images to chart")
	}
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	frequencies := make(plotter.Values, maxCount+1)
	for _, c := range counts {
		frequencies[c]++
	}

	p := plot.New()
	p.Title.Text = "isolated platelets per image"
	p.X.Label.Text = "particles"
	p.Y.Label.Text = "images"
	bars, err := plotter.NewBarChart(frequencies, vg.Points(12))
	if err != nil {
		return errors.Wrap(err, "cannot build count chart")
	}
	p.Add(bars)
	labels := make([]string, len(frequencies))
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	p.NominalX(labels...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "cannot write count chart %q", path)
	}
	return nil
}
