// Package config loads the optional .suppressaudit.yaml project file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"suppressaudit/logging"
	"suppressaudit/scanner"
)

// DefaultFile is looked up in the scanned root when no path is given.
const DefaultFile = ".suppressaudit.yaml"

// Formats are the report formats the CLI can write.
var Formats = []string{"text", "json", "sarif"}

type Config struct {
	Languages      []string  `yaml:"languages"`
	Exclude        []string  `yaml:"exclude"`
	Workers        int       `yaml:"workers"`
	Format         string    `yaml:"format"`
	FailOnFindings bool      `yaml:"fail_on_findings"`
	Log            LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Format: "text",
		Log:    LogConfig{Level: "info", Format: "auto"},
	}
}

// Load reads and validates the file at path. Fields absent from the file
// keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads DefaultFile from root, returning Default() if it does not exist.
func LoadDefault(root string) (Config, error) {
	cfg, err := Load(filepath.Join(root, DefaultFile))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate checks language keys, format and worker count.
func (c Config) Validate() error {
	var errs []error
	for _, lang := range c.Languages {
		if !scanner.IsSupported(lang) {
			errs = append(errs, fmt.Errorf("unsupported language %q", lang))
		}
	}
	if !slices.Contains(Formats, c.Format) {
		errs = append(errs, fmt.Errorf("unknown format %q (want one of %v)", c.Format, Formats))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if !logging.ValidFormat(c.Log.Format) {
		errs = append(errs, fmt.Errorf("invalid log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
