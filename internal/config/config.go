// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config holds the logicsim command configuration.
//
package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	ls "github.com/db47h/logicsim"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultMaxTableInputs is the default limit on the number of switches for
// which a truth table is generated.
//
const DefaultMaxTableInputs = 10

// Config is the command configuration, as read from a YAML file:
//
//	max_passes: 50
//	max_table_inputs: 10
//	workers: 0
//	log_level: info
//	log_format: text
//	metrics_addr: localhost:9090
//
type Config struct {
	MaxPasses      int    `yaml:"max_passes" validate:"min=1,max=10000"`
	MaxTableInputs int    `yaml:"max_table_inputs" validate:"min=1,max=16"`
	Workers        int    `yaml:"workers" validate:"min=0,max=1024"`
	LogLevel       string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat      string `yaml:"log_format" validate:"oneof=text json"`
	MetricsAddr    string `yaml:"metrics_addr,omitempty" validate:"omitempty,hostname_port"`
}

// Default returns the default configuration.
//
func Default() Config {
	return Config{
		MaxPasses:      ls.DefaultMaxPasses,
		MaxTableInputs: DefaultMaxTableInputs,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

var validate = validator.New()

// Validate checks the configuration values.
//
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(err, "invalid configuration")
	}
	e := verrs[0]
	switch e.Tag() {
	case "min":
		return errors.Errorf("%s: must be at least %s, got %v", e.Field(), e.Param(), e.Value())
	case "max":
		return errors.Errorf("%s: must not exceed %s, got %v", e.Field(), e.Param(), e.Value())
	case "oneof":
		return errors.Errorf("%s: must be one of %s, got %q", e.Field(), strings.ReplaceAll(e.Param(), " ", "|"), e.Value())
	case "hostname_port":
		return errors.Errorf("%s: %q is not a host:port address", e.Field(), e.Value())
	}
	return errors.Errorf("%s: validation failed (%s)", e.Field(), e.Tag())
}

// Decode reads a configuration from r. Missing fields keep their default
// value.
//
func Decode(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decode configuration")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads the named configuration file. An empty path returns the default
// configuration.
//
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "open configuration")
	}
	defer f.Close()
	c, err := Decode(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "%s", path)
	}
	return c, nil
}

// Level returns the slog level matching LogLevel.
//
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Logger returns a logger writing to w with the configured format and level.
//
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
