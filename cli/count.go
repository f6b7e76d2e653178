package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	goutils "go.viam.com/utils"

	"go.plaquette.dev/platecount/batch"
	"go.plaquette.dev/platecount/config"
	"go.plaquette.dev/platecount/logging"
)

const progressInterval = 250 * time.Millisecond

// loadConfig reads the file named by --config, or starts from the defaults, then applies
// every flag that was set on the command line.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.Path(flagConfig); path != "" {
		read, err := readConfig(c, path)
		if err != nil {
			return nil, err
		}
		cfg = read
	}
	if c.IsSet(flagReference) {
		cfg.Reference = c.Path(flagReference)
	}
	if c.IsSet(flagInput) {
		cfg.InputDir = c.Path(flagInput)
	}
	if c.Args().Present() {
		cfg.InputDir = c.Args().First()
	}
	if c.IsSet(flagOutput) {
		cfg.OutputDir = c.Path(flagOutput)
	}
	if c.IsSet(flagWorkers) {
		cfg.Workers = c.Int(flagWorkers)
	}
	if c.IsSet(flagOverlay) {
		cfg.Overlay = c.Bool(flagOverlay)
	}
	if c.IsSet(flagSaveStages) {
		cfg.SaveStages = c.Bool(flagSaveStages)
	}
	if c.IsSet(flagReport) {
		cfg.Report = c.Path(flagReport)
	}
	if c.IsSet(flagLogLevel) {
		cfg.LogLevel = c.String(flagLogLevel)
	}
	if c.IsSet(flagLogFile) {
		cfg.LogFile = c.Path(flagLogFile)
	}
	return cfg, nil
}

func readConfig(c *cli.Context, path string) (*config.Config, error) {
	if path != stdinConfig {
		return config.Read(path)
	}
	// YAML also accepts JSON documents
	return config.FromReader("stdin.yaml", c.App.Reader)
}

func newLogger(cfg *config.Config) (logging.Logger, io.Closer) {
	if cfg.LogFile != "" {
		return logging.NewLoggerWithFile("platecount", cfg.LogFile, cfg.Level())
	}
	return logging.NewLoggerAt("platecount", cfg.Level()), nil
}

// CountAction counts every frame of the input directory and writes the report.
func CountAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, closer := newLogger(cfg)
	if closer != nil {
		defer goutils.UncheckedErrorFunc(closer.Close)
	}
	logging.ReplaceGlobal(logger)

	driver, err := batch.NewDriver(cfg, logger)
	if err != nil {
		return err
	}
	jobs, err := driver.Discover()
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		warningf(c.App.ErrWriter, "no images found in %q", cfg.InputDir)
		return nil
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	var report *batch.Report
	var runErr error
	if c.Bool(flagProgress) {
		report, runErr = runWithProgress(ctx, c.App.ErrWriter, driver, jobs)
	} else {
		report, runErr = driver.Run(ctx, jobs)
	}
	if err := driver.WriteReport(report); err != nil {
		return err
	}

	printSummary(c.App.Writer, report)
	printf(c.App.Writer, "report written to %s", driver.ReportPath())
	if c.Bool(flagHistogram) {
		if err := printHistogram(c.App.Writer, report.Counts()); err != nil {
			return err
		}
	}
	if runErr != nil {
		return errors.Wrap(runErr, "counting interrupted")
	}
	if c.Bool(flagStrict) && report.Summary.Failed > 0 {
		return report.Err()
	}
	return nil
}

// runWithProgress runs the driver while a spinner on w shows how many frames are done.
func runWithProgress(ctx context.Context, w io.Writer, driver *batch.Driver, jobs []batch.Job) (*batch.Report, error) {
	text := func() string {
		return fmt.Sprintf("counting %d images: %d done, %d failed", len(jobs), driver.Processed(), driver.Failed())
	}
	spinner, err := pterm.DefaultSpinner.WithWriter(w).WithRemoveWhenDone(false).WithText(text()).Start()
	if err != nil {
		return driver.Run(ctx, jobs)
	}

	updateCtx, stop := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	goutils.PanicCapturingGo(func() {
		defer wg.Done()
		for goutils.SelectContextOrWait(updateCtx, progressInterval) {
			spinner.UpdateText(text())
		}
	})

	report, runErr := driver.Run(ctx, jobs)
	stop()
	wg.Wait()
	if report.Summary.Failed > 0 {
		spinner.Warning(text())
	} else {
		spinner.Success(text())
	}
	return report, runErr
}
