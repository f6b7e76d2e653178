package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// isYAML reports whether path names a YAML file. Everything else is read as JSON.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Read reads a config from the given file, substituting ${VAR} references with the
// environment first. Parameters absent from the file keep their default values.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config %q", filePath)
	}
	return fromBytes(filePath, buf)
}

// FromReader reads a config from the given reader and specifies where, if applicable, the
// file the reader originated from. The path extension selects the format.
func FromReader(originalPath string, r io.Reader) (*Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	buf, err := envsubst.Bytes(raw)
	if err != nil {
		return nil, errors.Wrap(err, "cannot substitute environment variables")
	}
	return fromBytes(originalPath, buf)
}

func fromBytes(originalPath string, buf []byte) (*Config, error) {
	cfg := Default()
	if isYAML(originalPath) {
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode config from yaml")
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(buf))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode config from json")
		}
	}
	cfg.ConfigFilePath = originalPath
	return cfg, nil
}

// Write saves the config to filePath, as YAML or JSON depending on the extension.
func (c *Config) Write(filePath string) error {
	var (
		buf []byte
		err error
	)
	if isYAML(filePath) {
		buf, err = yaml.Marshal(c)
	} else {
		buf, err = json.MarshalIndent(c, "", "  ")
		buf = append(buf, '\n')
	}
	if err != nil {
		return errors.Wrap(err, "cannot encode config")
	}
	//nolint:gosec
	if err := os.WriteFile(filePath, buf, 0o644); err != nil {
		return errors.Wrapf(err, "cannot write config %q", filePath)
	}
	return nil
}
