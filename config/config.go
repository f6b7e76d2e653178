// Package config defines the configuration of a counting run and reads it from JSON or YAML
// files.
package config

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.plaquette.dev/platecount/logging"
	"go.plaquette.dev/platecount/vision/particles"
)

// DefaultReportName is the report file written to the output directory when no report path
// is configured.
const DefaultReportName = "report.json"

// A Config describes a batch run: where frames come from, where results go and how
// particles are detected.
type Config struct {
	Detection particles.Config `json:"detection" yaml:"detection"`

	Reference  string `json:"reference" yaml:"reference"`
	InputDir   string `json:"input_dir" yaml:"input_dir"`
	OutputDir  string `json:"output_dir" yaml:"output_dir"`
	Workers    int    `json:"workers" yaml:"workers"`
	Overlay    bool   `json:"overlay" yaml:"overlay"`
	SaveStages bool   `json:"save_stages" yaml:"save_stages"`
	Report     string `json:"report,omitempty" yaml:"report,omitempty"`
	LogLevel   string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	LogFile    string `json:"log_file,omitempty" yaml:"log_file,omitempty"`

	// ConfigFilePath is the file the config was read from, if any.
	ConfigFilePath string `json:"-" yaml:"-"`
}

// Default returns a config with every parameter at its default value.
func Default() *Config {
	return &Config{
		Detection: particles.DefaultConfig(),
		OutputDir: "counted",
		Overlay:   true,
	}
}

// Validate ensures all parts of the config are valid. The reference is not checked here;
// a run without one fails when it starts.
func (c *Config) Validate() error {
	var errs error
	invalid := func(format string, args ...interface{}) {
		errs = multierr.Append(errs, errors.Wrapf(particles.ErrInvalidConfiguration, format, args...))
	}
	if c.InputDir == "" {
		invalid("%q is required", "input_dir")
	}
	if c.OutputDir == "" {
		invalid("%q is required", "output_dir")
	}
	if c.Workers < 0 {
		invalid("workers cannot be negative, got %d", c.Workers)
	}
	if _, err := logging.LevelFromString(c.LogLevel); err != nil {
		invalid("log_level: %v", err)
	}
	if errs != nil {
		errs = utils.NewConfigValidationError(c.path(), errs)
	}
	return multierr.Combine(c.Detection.Validate("detection"), errs)
}

func (c *Config) path() string {
	if c.ConfigFilePath != "" {
		return c.ConfigFilePath
	}
	return "config"
}

// Level returns the configured log level, INFO when unset or invalid.
func (c *Config) Level() logging.Level {
	level, err := logging.LevelFromString(c.LogLevel)
	if err != nil {
		return logging.INFO
	}
	return level
}
