// Package config loads randen settings from files and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"

	"pkg.jsn.cam/randen/pkg/randen"
)

// EnvPrefix prefixes every environment override, e.g. RANDEN_WORKERS.
const EnvPrefix = "randen"

// Settings holds the tunables shared by the CLI and the server.
type Settings struct {
	Seed              uint64 `mapstructure:"seed"`
	Workers           int    `mapstructure:"workers"`
	MaxStringAttempts int    `mapstructure:"max_string_attempts"`

	Addr   string `mapstructure:"addr"`
	Store  string `mapstructure:"store"` // bbolt path, empty for memory
	Format string `mapstructure:"format"`

	IntMin    int64   `mapstructure:"int_min"`
	IntMax    int64   `mapstructure:"int_max"`
	FloatMin  float64 `mapstructure:"float_min"`
	FloatMax  float64 `mapstructure:"float_max"`
	MinLen    int     `mapstructure:"min_len"`
	MaxLen    int     `mapstructure:"max_len"`
	Lowercase bool    `mapstructure:"lowercase"`
}

var defaults = map[string]any{
	"seed":                0,
	"workers":             1,
	"max_string_attempts": 0,
	"addr":                ":8080",
	"store":               "",
	"format":              "csv",
	"int_min":             randen.DefaultIntMin,
	"int_max":             randen.DefaultIntMax,
	"float_min":           randen.DefaultFloatMin,
	"float_max":           randen.DefaultFloatMax,
	"min_len":             randen.DefaultMinStrLen,
	"max_len":             randen.DefaultMaxStrLen,
	"lowercase":           true,
}

// Load reads settings from path (any format viper knows by extension) with
// RANDEN_* environment overrides. An empty path uses defaults and the
// environment only.
func Load(path string) (Settings, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decode config: %w", err)
	}
	return s, nil
}

// GeneratorConfig returns the generator configuration described by s.
func (s Settings) GeneratorConfig() randen.Config {
	return randen.Config{
		Seed:              s.Seed,
		Workers:           s.Workers,
		MaxStringAttempts: s.MaxStringAttempts,
	}
}

// Params returns the column parameters described by s.
func (s Settings) Params() randen.Params {
	return randen.Params{
		IntMin:    &s.IntMin,
		IntMax:    &s.IntMax,
		FloatMin:  &s.FloatMin,
		FloatMax:  &s.FloatMax,
		MinLen:    &s.MinLen,
		MaxLen:    &s.MaxLen,
		Lowercase: &s.Lowercase,
	}
}

var (
	ErrNoSection = errors.New("no such section")
	ErrNoOption  = errors.New("no such option")
)

// OptionError reports a missing section or option in an INI file.
type OptionError struct {
	Path    string
	Section string
	Option  string // empty when the whole section is missing
}

func (e *OptionError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("%s has no section %s", e.Path, e.Section)
	}
	return fmt.Sprintf("%s has no option %s in section %s", e.Path, e.Option, e.Section)
}

func (e *OptionError) Is(target error) bool {
	if e.Option == "" {
		return target == ErrNoSection
	}
	return target == ErrNoOption
}

// Option returns one value from the INI file at path. A missing file reads
// as an empty one. Section names are case-sensitive, option names are not.
func Option(path, section, option string) (string, error) {
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return "", &OptionError{Path: path, Section: section}
	case err != nil:
		return "", fmt.Errorf("read config %s: %w", path, err)
	}

	file, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, data)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}

	// the implicit default section is not a named section
	if section == ini.DefaultSection {
		return "", &OptionError{Path: path, Section: section}
	}
	sec, err := file.GetSection(section)
	if err != nil {
		return "", &OptionError{Path: path, Section: section}
	}
	if !sec.HasKey(option) {
		return "", &OptionError{Path: path, Section: section, Option: option}
	}
	return sec.Key(option).String(), nil
}
