package cli

import (
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.plaquette.dev/platecount/config"
)

// ConfigInitAction writes a configuration holding every default value, counting the
// current directory.
func ConfigInitAction(c *cli.Context) error {
	path := defaultConfigFile
	if c.Args().Present() {
		path = c.Args().First()
	}
	if _, err := os.Stat(path); err == nil && !c.Bool(flagForce) {
		return errors.Errorf("%q already exists, use --%s to overwrite it", path, flagForce)
	}
	cfg := config.Default()
	cfg.InputDir = "."
	if err := cfg.Write(path); err != nil {
		return err
	}
	printf(c.App.Writer, "wrote default configuration to %s", path)
	return nil
}

// ConfigValidateAction reads a configuration file and reports every problem in it.
func ConfigValidateAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("expected exactly one configuration file")
	}
	path := c.Args().First()
	cfg, err := config.Read(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Reference == "" {
		warningf(c.App.ErrWriter, "%s has no reference; pass one with --%s when counting", path, flagReference)
	}
	printf(c.App.Writer, "%s is valid", path)
	return nil
}
