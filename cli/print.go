package cli

import (
	"fmt"
	"io"
	"log"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/fatih/color"
	"github.com/pkg/errors"

	"go.plaquette.dev/platecount/batch"
)

// printf prints a message with no prefix.
func printf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintf(w, format+"\n", a...)
}

// warningf prints a message prefixed with a bold yellow "Warning: ".
func warningf(w io.Writer, format string, a ...interface{}) {
	if _, err := color.New(color.Bold, color.FgYellow).Fprint(w, "Warning: "); err != nil {
		log.Fatal(err)
	}
	fmt.Fprintf(w, format+"\n", a...)
}

// printSummary prints the outcome table of report and one coloured line per status.
func printSummary(w io.Writer, report *batch.Report) {
	printf(w, "%s", report.String())
	s := report.Summary
	printf(w, "%s %d particles in %d images (mean %.2f, median %.1f, stddev %.2f)",
		color.GreenString("counted"), s.TotalParticles, s.Processed, s.MeanCount, s.MedianCount, s.StdDevCount)
	if s.Failed > 0 {
		printf(w, "%s %d images", color.RedString("failed"), s.Failed)
		for _, o := range report.Images {
			if o.Status == batch.StatusFailed {
				printf(w, "\t%s [%s] %s", o.Image, o.Kind, o.Error)
			}
		}
	}
}

// histogramBins caps the number of bars drawn for the counts.
const histogramBins = 10

// printHistogram draws the distribution of counts as text.
func printHistogram(w io.Writer, counts []int) error {
	if len(counts) == 0 {
		return nil
	}
	data := make([]float64, len(counts))
	distinct := map[int]struct{}{}
	for i, c := range counts {
		data[i] = float64(c)
		distinct[c] = struct{}{}
	}
	bins := len(distinct)
	if bins > histogramBins {
		bins = histogramBins
	}
	printf(w, "particles per image:")
	if err := histogram.Fprint(w, histogram.Hist(bins, data), histogram.Linear(40)); err != nil {
		return errors.Wrap(err, "cannot print histogram")
	}
	return nil
}
