// Package config loads iconfit settings from YAML files and environment
// variables.
//
// Precedence (highest to lowest):
//  1. Command-line flags (--seed)
//  2. Environment variables (ICONFIT_*)
//  3. Config file
//  4. Built-in defaults
//
// Environment variables:
//   - ICONFIT_SEED=42          fixed solver seed (0 seeds from the clock)
//   - ICONFIT_LOG_LEVEL=debug  enable debug logging
//
// Example file:
//
//	hog:
//	  cell_size: 6
//	  bins: 9
//	patch:
//	  block_size: 3
//	  stride: 2
//	solver:
//	  iterations: 10
//	  metric: ssd
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/iconfit/internal/feature"
	"github.com/ironsheep/iconfit/internal/hog"
	"github.com/ironsheep/iconfit/internal/imaging"
	"github.com/ironsheep/iconfit/internal/locate"
	"github.com/ironsheep/iconfit/internal/patchmatch"
)

// ErrInvalidConfig wraps every validation failure reported by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the complete iconfit configuration.
type Config struct {
	Gradient imaging.GradientOptions `yaml:"gradient"`
	HOG      hog.Options             `yaml:"hog"`
	Patch    feature.Options         `yaml:"patch"`
	Solver   SolverConfig            `yaml:"solver"`
	Locate   locate.Options          `yaml:"locate"`

	// LogLevel is "info" or "debug".
	LogLevel string `yaml:"log_level"`
}

// SolverConfig is the file form of patchmatch.Options.
type SolverConfig struct {
	InitialCandidates     int     `yaml:"initial_candidates"`
	Iterations            int     `yaml:"iterations"`
	DecayRate             float64 `yaml:"decay_rate"`
	TerminationUpdateRate float64 `yaml:"termination_update_rate"`
	Seed                  uint64  `yaml:"seed"`

	// Metric names the patch distance: "ssd" (default) or "sad".
	Metric string `yaml:"metric"`
}

// Options converts the file form into solver options.
func (s SolverConfig) Options() (patchmatch.Options, error) {
	metric, err := patchmatch.ParseMetric(s.Metric)
	if err != nil {
		return patchmatch.Options{}, err
	}
	distance, err := patchmatch.Provider(metric)
	if err != nil {
		return patchmatch.Options{}, err
	}
	return patchmatch.Options{
		InitialCandidates:     s.InitialCandidates,
		Iterations:            s.Iterations,
		DecayRate:             s.DecayRate,
		TerminationUpdateRate: s.TerminationUpdateRate,
		Seed:                  s.Seed,
		Distance:              distance,
	}, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	solver := patchmatch.DefaultOptions()
	return &Config{
		Gradient: imaging.DefaultGradientOptions(),
		HOG:      hog.DefaultOptions(),
		Patch:    feature.Options{BlockSize: 3, Stride: 2},
		Solver: SolverConfig{
			InitialCandidates:     solver.InitialCandidates,
			Iterations:            solver.Iterations,
			DecayRate:             solver.DecayRate,
			TerminationUpdateRate: solver.TerminationUpdateRate,
			Metric:                patchmatch.MetricSSD.String(),
		},
		Locate:   locate.DefaultOptions(),
		LogLevel: "info",
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides settings from ICONFIT_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ICONFIT_SEED"); v != "" {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: ICONFIT_SEED=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Solver.Seed = seed
	}
	if v := os.Getenv("ICONFIT_LOG_LEVEL"); v != "" {
		c.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	return nil
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.HOG.Validate(); err != nil {
		return fmt.Errorf("%w: hog: %w", ErrInvalidConfig, err)
	}
	if err := c.Patch.Validate(); err != nil {
		return fmt.Errorf("%w: patch: %w", ErrInvalidConfig, err)
	}
	opts, err := c.Solver.Options()
	if err != nil {
		return fmt.Errorf("%w: solver: %w", ErrInvalidConfig, err)
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("%w: solver: %w", ErrInvalidConfig, err)
	}
	if err := c.Locate.Validate(); err != nil {
		return fmt.Errorf("%w: locate: %w", ErrInvalidConfig, err)
	}
	if c.Gradient.BlurSigma < 0 {
		return fmt.Errorf("%w: gradient: blur sigma %v must be non-negative", ErrInvalidConfig, c.Gradient.BlurSigma)
	}
	switch c.LogLevel {
	case "", "info", "debug":
	default:
		return fmt.Errorf("%w: log level %q (want info or debug)", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool {
	return c.LogLevel == "debug"
}

// Locator builds a validated locator. Debug output goes to logger only when
// debug logging is enabled.
func (c *Config) Locator(logger *log.Logger) (*locate.Locator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts, err := c.Solver.Options()
	if err != nil {
		return nil, err
	}
	if !c.Debug() {
		logger = nil
	}
	return &locate.Locator{
		Gradient: c.Gradient,
		HOG:      c.HOG,
		Patch:    c.Patch,
		Solver:   opts,
		Options:  c.Locate,
		Logger:   logger,
	}, nil
}

// String renders the configuration as YAML.
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(data)
}
