// Package config loads the traj configuration file.
//
// Configuration is YAML, decoded strictly (unknown keys are errors) and
// validated with struct tags. Every field has a default, so running without a
// file is valid.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/roach88/trajectory/internal/trajectory"
)

// Plot configures the renderer.
type Plot struct {
	Output string  `yaml:"output" validate:"required"`
	Width  float64 `yaml:"width" validate:"gt=0"`
	Height float64 `yaml:"height" validate:"gt=0"`
}

// Logging configures console and file logging.
type Logging struct {
	// Level applies to the log file.
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// ConsoleLevel applies to stderr.
	ConsoleLevel string `yaml:"console_level" validate:"oneof=debug info warn error"`

	// Format applies to stderr; the file is always text.
	Format string `yaml:"format" validate:"oneof=text json"`

	// File is the log file path. Empty disables file logging.
	File string `yaml:"file"`
}

// Config is the root configuration structure.
type Config struct {
	Source    string  `yaml:"source" validate:"required"`
	Threshold int     `yaml:"threshold" validate:"gte=1"`
	Plot      Plot    `yaml:"plot"`
	Logging   Logging `yaml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Source:    filepath.Join(".", "data.npy"),
		Threshold: trajectory.OccurrenceThreshold,
		Plot: Plot{
			Output: filepath.Join(".", "plot.png"),
			Width:  6.4,
			Height: 4.8,
		},
		Logging: Logging{
			Level:        "debug",
			ConsoleLevel: "info",
			Format:       "text",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct tags.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
