// Package cli contains the platecount command line: counting a directory of frames and
// managing run configurations.
package cli

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
)

const (
	flagConfig     = "config"
	flagReference  = "reference"
	flagInput      = "input"
	flagOutput     = "output"
	flagWorkers    = "workers"
	flagOverlay    = "overlay"
	flagSaveStages = "save-stages"
	flagReport     = "report"
	flagLogLevel   = "log-level"
	flagLogFile    = "log-file"
	flagHistogram  = "histogram"
	flagProgress   = "progress"
	flagStrict     = "strict"
	flagForce      = "force"

	defaultConfigFile = "platecount.yaml"
	// stdinConfig as --config reads the configuration from standard input.
	stdinConfig = "-"
)

func newApp() *cli.App {
	return &cli.App{
		Name:            "platecount",
		Usage:           "count isolated platelets in microscopy frames",
		HideHelpCommand: true,
		Commands: []*cli.Command{
			{
				Name:      "count",
				Usage:     "count the isolated particles of every image in a directory",
				UsageText: fmt.Sprintf("platecount count [--%s FILE] [other options] [input directory]", flagConfig),
				Flags: []cli.Flag{
					&cli.PathFlag{
						Name:    flagConfig,
						Aliases: []string{"c"},
						Usage:   "load the run configuration from `FILE` (JSON or YAML), - for standard input",
					},
					&cli.PathFlag{
						Name:    flagReference,
						Aliases: []string{"r"},
						Usage:   "blank reference frame used to flatten illumination",
					},
					&cli.PathFlag{
						Name:    flagInput,
						Aliases: []string{"i"},
						Usage:   "directory of frames to count",
					},
					&cli.PathFlag{
						Name:    flagOutput,
						Aliases: []string{"o"},
						Usage:   "directory receiving overlays, stages and the report",
					},
					&cli.IntFlag{
						Name:  flagWorkers,
						Usage: "number of frames counted in parallel, 0 for one per core",
					},
					&cli.BoolFlag{
						Name:  flagOverlay,
						Usage: "write a counted_<name>.png overlay per frame",
					},
					&cli.BoolFlag{
						Name:  flagSaveStages,
						Usage: "write every intermediate stage per frame",
					},
					&cli.PathFlag{
						Name:  flagReport,
						Usage: "write the JSON report to `FILE` instead of the output directory",
					},
					&cli.StringFlag{
						Name:  flagLogLevel,
						Usage: "one of debug, info, warn, error",
					},
					&cli.PathFlag{
						Name:  flagLogFile,
						Usage: "also write JSON logs to `FILE`, rotated",
					},
					&cli.BoolFlag{
						Name:  flagHistogram,
						Usage: "print a histogram of the counts",
					},
					&cli.BoolFlag{
						Name:  flagProgress,
						Usage: "show a progress spinner while counting",
					},
					&cli.BoolFlag{
						Name:  flagStrict,
						Usage: "exit with an error if any frame failed",
					},
				},
				Action: CountAction,
			},
			{
				Name:            "config",
				Usage:           "create and check run configurations",
				HideHelpCommand: true,
				Subcommands: []*cli.Command{
					{
						Name:      "init",
						Usage:     "write a configuration with every default value",
						UsageText: "platecount config init [--force] [file]",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  flagForce,
								Usage: "overwrite an existing file",
							},
						},
						Action: ConfigInitAction,
					},
					{
						Name:      "validate",
						Usage:     "check a configuration file",
						UsageText: "platecount config validate <file>",
						Action:    ConfigValidateAction,
					},
				},
			},
		},
	}
}

// NewApp returns the platecount CLI writing to the given writers.
func NewApp(out, errOut io.Writer) *cli.App {
	app := newApp()
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
