package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.plaquette.dev/platecount/logging"
	"go.plaquette.dev/platecount/vision/particles"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	test.That(t, os.WriteFile(path, []byte(content), 0o600), test.ShouldBeNil)
	return path
}

func TestReadJSON(t *testing.T) {
	t.Setenv("PLATECOUNT_DATA", "/data/run1")
	path := writeFile(t, "run.json", `{
		"reference": "${PLATECOUNT_DATA}/blank.png",
		"input_dir": "${PLATECOUNT_DATA}",
		"workers": 3,
		"detection": {"min_solidity": 0.85, "kernel_size": 31}
	}`)

	cfg, err := Read(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, path)
	test.That(t, cfg.Reference, test.ShouldEqual, "/data/run1/blank.png")
	test.That(t, cfg.InputDir, test.ShouldEqual, "/data/run1")
	test.That(t, cfg.Workers, test.ShouldEqual, 3)
	test.That(t, cfg.Detection.MinSolidity, test.ShouldEqual, 0.85)
	test.That(t, cfg.Detection.KernelSize, test.ShouldEqual, 31)

	// untouched keys keep their defaults
	defaults := particles.DefaultConfig()
	test.That(t, cfg.Detection.HistogramFloor, test.ShouldEqual, defaults.HistogramFloor)
	test.That(t, cfg.Detection.MaxParticleArea, test.ShouldEqual, defaults.MaxParticleArea)
	test.That(t, cfg.Overlay, test.ShouldBeTrue)
	test.That(t, cfg.OutputDir, test.ShouldEqual, "counted")
	test.That(t, cfg.Validate(), test.ShouldBeNil)
}

func TestReadYAML(t *testing.T) {
	path := writeFile(t, "run.yaml", strings.Join([]string{
		"reference: blank.jpg",
		"input_dir: frames",
		"overlay: false",
		"save_stages: true",
		"log_level: debug",
		"detection:",
		"  max_hole_area: 90",
		"",
	}, "\n"))

	cfg, err := Read(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Reference, test.ShouldEqual, "blank.jpg")
	test.That(t, cfg.Overlay, test.ShouldBeFalse)
	test.That(t, cfg.SaveStages, test.ShouldBeTrue)
	test.That(t, cfg.Detection.MaxHoleArea, test.ShouldEqual, 90)
	test.That(t, cfg.Detection.MinObjectArea, test.ShouldEqual, 15)
	test.That(t, cfg.Level(), test.ShouldEqual, logging.DEBUG)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Read(writeFile(t, "bad.json", `{"reference": 3}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "json")

	_, err = Read(writeFile(t, "typo.json", `{"refrence": "blank.png"}`))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = FromReader("run.yml", strings.NewReader("detection: [1, 2]"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "yaml")
}

func TestWrite(t *testing.T) {
	cfg := Default()
	cfg.InputDir = "frames"
	cfg.Reference = "frames/blank.png"
	cfg.Detection.MinSolidity = 0.8

	for _, name := range []string{"out.json", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			test.That(t, cfg.Write(path), test.ShouldBeNil)
			read, err := Read(path)
			test.That(t, err, test.ShouldBeNil)
			read.ConfigFilePath = ""
			test.That(t, read, test.ShouldResemble, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	test.That(t, errors.Is(err, particles.ErrInvalidConfiguration), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "input_dir")

	cfg.InputDir = "frames"
	test.That(t, cfg.Validate(), test.ShouldBeNil)

	cfg.Workers = -2
	cfg.LogLevel = "loud"
	cfg.Detection.KernelSize = 8
	err = cfg.Validate()
	test.That(t, errors.Is(err, particles.ErrInvalidConfiguration), test.ShouldBeTrue)
	for _, field := range []string{"workers", "log_level", "kernel_size"} {
		test.That(t, err.Error(), test.ShouldContainSubstring, field)
	}
	test.That(t, cfg.Level(), test.ShouldEqual, logging.INFO)
}
