// Package config loads basstab settings from a YAML file
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/james-see/basstab/pkg/converter"
	"github.com/james-see/basstab/pkg/tab"
	"gopkg.in/yaml.v3"
)

// Config holds the editor defaults and server settings
type Config struct {
	DefaultString   int    `yaml:"default_string"`
	DefaultFret     int    `yaml:"default_fret"`
	DefaultDuration string `yaml:"default_duration"`
	TimeSignature   string `yaml:"time_signature"`
	Tuning          string `yaml:"tuning"`
	LogLevel        string `yaml:"log_level"`
	Server          Server `yaml:"server"`
}

// Server configures the HTTP API
type Server struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // gin mode: debug, release or test
}

// Default returns the built-in configuration: E string, open fret, quarter
// notes in 4/4, standard tuning.
func Default() Config {
	return Config{
		DefaultString:   1,
		DefaultFret:     0,
		DefaultDuration: "quarter",
		TimeSignature:   "4/4",
		Tuning:          converter.Standard.Name,
		LogLevel:        "info",
		Server: Server{
			Port: 8080,
			Mode: "release",
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once
func (c Config) Validate() error {
	var errs []error
	if c.DefaultString < tab.LowestString || c.DefaultString > tab.HighestString {
		errs = append(errs, fmt.Errorf("default_string %d out of range 1-4", c.DefaultString))
	}
	if c.DefaultFret < 0 || c.DefaultFret > converter.MaxFret {
		errs = append(errs, fmt.Errorf("default_fret %d out of range 0-%d", c.DefaultFret, converter.MaxFret))
	}
	if _, err := c.Duration(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.TimeSig(); err != nil {
		errs = append(errs, err)
	}
	if _, err := converter.LookupTuning(c.Tuning); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode %q must be debug, release or test", c.Server.Mode))
	}
	return errors.Join(errs...)
}

// Duration returns the default note duration
func (c Config) Duration() (tab.Duration, error) {
	d, err := tab.ParseDuration(c.DefaultDuration)
	if err != nil {
		return 0, err
	}
	if !d.IsCanonical() {
		return 0, fmt.Errorf("default_duration %q is not a note value", c.DefaultDuration)
	}
	return d, nil
}

// TimeSig returns the default time signature
func (c Config) TimeSig() (tab.TimeSignature, error) {
	return tab.ParseTimeSignature(c.TimeSignature)
}

// Level returns the slog level named by LogLevel
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
