// SPDX-License-Identifier: MIT

package balance

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config is the file-friendly form of the engine options. Zero-valued
// numeric fields mean "use the default". Unlike the WithX constructors,
// Config reports invalid values as errors because it carries user input.
//
// YAML example:
//
//	tolerance: 5.0e-4
//	max_iterations: 300
//	verbose: true
//	schedule:
//	  - {low_row_sum_excluded: 0, z_vals_ignored: 0}
//	  - {low_row_sum_excluded: 0.01, z_vals_ignored: 0.0025}
type Config struct {
	Tolerance        float64  `yaml:"tolerance" toml:"tolerance"`
	ResidualFactor   float64  `yaml:"residual_factor" toml:"residual_factor"`
	MaxIterations    int      `yaml:"max_iterations" toml:"max_iterations"`
	StagnationDelta  float64  `yaml:"stagnation_delta" toml:"stagnation_delta"`
	StagnationTrials int      `yaml:"stagnation_trials" toml:"stagnation_trials"`
	MaxAttempts      *int     `yaml:"max_attempts" toml:"max_attempts"`
	EscalationFactor float64  `yaml:"escalation_factor" toml:"escalation_factor"`
	Schedule         []Params `yaml:"schedule" toml:"schedule"`
	Verbose          bool     `yaml:"verbose" toml:"verbose"`
}

// DefaultConfig returns a Config populated with every default.
func DefaultConfig() Config {
	attempts := DefaultMaxAttempts
	sched := make([]Params, len(DefaultSchedule))
	copy(sched, DefaultSchedule)

	return Config{
		Tolerance:        DefaultTolerance,
		ResidualFactor:   DefaultResidualFactor,
		MaxIterations:    DefaultMaxIterations,
		StagnationDelta:  DefaultStagnationDelta,
		StagnationTrials: DefaultStagnationTrials,
		MaxAttempts:      &attempts,
		EscalationFactor: DefaultEscalationFactor,
		Schedule:         sched,
	}
}

// Validate checks every set field against its domain.
func (c Config) Validate() error {
	bad := func(field string, v any) error {
		return fmt.Errorf("%s=%v: %w", field, v, ErrInvalidConfig)
	}
	finite := func(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

	switch {
	case !finite(c.Tolerance) || c.Tolerance < 0:
		return bad("tolerance", c.Tolerance)
	case !finite(c.ResidualFactor) || c.ResidualFactor < 0:
		return bad("residual_factor", c.ResidualFactor)
	case c.MaxIterations < 0:
		return bad("max_iterations", c.MaxIterations)
	case !finite(c.StagnationDelta) || c.StagnationDelta < 0 || c.StagnationDelta >= 1:
		return bad("stagnation_delta", c.StagnationDelta)
	case c.StagnationTrials < 0:
		return bad("stagnation_trials", c.StagnationTrials)
	case c.MaxAttempts != nil && *c.MaxAttempts < 0:
		return bad("max_attempts", *c.MaxAttempts)
	case !finite(c.EscalationFactor) || (c.EscalationFactor != 0 && c.EscalationFactor < 1):
		return bad("escalation_factor", c.EscalationFactor)
	}
	for i, p := range c.Schedule {
		if !p.valid() {
			return bad(fmt.Sprintf("schedule[%d]", i), p)
		}
	}

	return nil
}

// Options validates c and converts it to functional options.
func (c Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var opts []Option
	if c.Tolerance > 0 {
		opts = append(opts, WithTolerance(c.Tolerance))
	}
	if c.ResidualFactor > 0 {
		opts = append(opts, WithResidualFactor(c.ResidualFactor))
	}
	if c.MaxIterations > 0 {
		opts = append(opts, WithMaxIterations(c.MaxIterations))
	}
	if c.StagnationDelta > 0 {
		opts = append(opts, WithStagnationDelta(c.StagnationDelta))
	}
	if c.StagnationTrials > 0 {
		opts = append(opts, WithStagnationTrials(c.StagnationTrials))
	}
	if c.MaxAttempts != nil {
		opts = append(opts, WithMaxAttempts(*c.MaxAttempts))
	}
	if c.EscalationFactor > 0 {
		opts = append(opts, WithEscalationFactor(c.EscalationFactor))
	}
	if len(c.Schedule) > 0 {
		opts = append(opts, WithSchedule(c.Schedule...))
	}
	opts = append(opts, WithVerbose(c.Verbose))

	return opts, nil
}

// Config formats understood by DecodeConfig.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// DecodeConfig reads a Config in the given format. Unknown keys are rejected.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	var c Config
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&c); err != nil && err != io.EOF {
			return Config{}, fmt.Errorf("decode yaml config: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return Config{}, fmt.Errorf("decode toml config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("format %q: %w", format, ErrUnknownConfigFormat)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file.
func LoadConfig(path string) (Config, error) {
	var format string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".toml":
		format = FormatTOML
	default:
		return Config{}, fmt.Errorf("%s: %w", path, ErrUnknownConfigFormat)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return DecodeConfig(bytes.NewReader(data), format)
}
