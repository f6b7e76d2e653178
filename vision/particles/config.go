// Package particles decides which segmented candidates are isolated platelets and renders
// the result. Process runs the whole detection chain on one frame.
package particles

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.plaquette.dev/platecount/vision/preprocess"
)

// ErrInvalidConfiguration is returned for detection parameters outside of their domain.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Config holds the detection parameters. Areas are in pixels.
type Config struct {
	KernelSize      int     `json:"kernel_size" yaml:"kernel_size"`
	HistogramFloor  int     `json:"histogram_floor" yaml:"histogram_floor"`
	MinObjectArea   int     `json:"min_object_area" yaml:"min_object_area"`
	MaxHoleArea     int     `json:"max_hole_area" yaml:"max_hole_area"`
	MaxParticleArea int     `json:"max_particle_area" yaml:"max_particle_area"`
	MinSolidity     float64 `json:"min_solidity" yaml:"min_solidity"`

	// KeepStages makes Process return the intermediate images.
	KeepStages bool `json:"-" yaml:"-"`
}

// DefaultConfig returns the parameters tuned for 8-bit bright-field platelet frames.
func DefaultConfig() Config {
	return Config{
		KernelSize:      preprocess.DefaultKernelSize,
		HistogramFloor:  preprocess.DefaultHistogramFloor,
		MinObjectArea:   15,
		MaxHoleArea:     150,
		MaxParticleArea: 150,
		MinSolidity:     0.9,
	}
}

// Validate ensures all parts of the config are valid. Every problem is reported.
func (cfg Config) Validate(path string) error {
	var errs error
	invalid := func(format string, args ...interface{}) {
		errs = multierr.Append(errs, errors.Wrapf(ErrInvalidConfiguration, format, args...))
	}
	if cfg.KernelSize <= 0 || cfg.KernelSize%2 == 0 {
		invalid("kernel_size must be a positive odd number, got %d", cfg.KernelSize)
	}
	if cfg.HistogramFloor < 0 || cfg.HistogramFloor > 254 {
		invalid("histogram_floor must be in [0, 254], got %d", cfg.HistogramFloor)
	}
	if cfg.MinObjectArea < 0 {
		invalid("min_object_area cannot be negative, got %d", cfg.MinObjectArea)
	}
	if cfg.MaxHoleArea < 0 {
		invalid("max_hole_area cannot be negative, got %d", cfg.MaxHoleArea)
	}
	if cfg.MaxParticleArea <= 0 {
		invalid("max_particle_area must be positive, got %d", cfg.MaxParticleArea)
	}
	if !(cfg.MinSolidity >= 0 && cfg.MinSolidity <= 1) {
		invalid("min_solidity must be in [0, 1], got %v", cfg.MinSolidity)
	}
	if errs != nil {
		return utils.NewConfigValidationError(path, errs)
	}
	return nil
}
