// Package config loads the run configuration from YAML with LVLSPEC_*
// environment-variable overrides, and builds the process logger.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/lvlspec/divergence"
	"github.com/katalvlaran/lvlspec/pipeline"
	"github.com/katalvlaran/lvlspec/spectrum"
)

// Source kinds.
const (
	SourceSynthetic = "synthetic"
	SourceNetwork   = "network"
	SourceStore     = "store"
)

// Config is the top-level run configuration.
type Config struct {
	Run     RunConfig     `yaml:"run"`
	Source  SourceConfig  `yaml:"source"`
	Store   StoreConfig   `yaml:"store"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// RunConfig mirrors pipeline.Config; Steps uses the ParseSteps syntax.
type RunConfig struct {
	Samples        int    `yaml:"samples"`
	Size           int    `yaml:"size"`
	BinsRaw        int    `yaml:"binsRaw"`
	BinsUnfolded   int    `yaml:"binsUnfolded"`
	SmoothingBins  int    `yaml:"smoothingBins"`
	Steps          string `yaml:"steps"`
	SmoothUnfolded bool   `yaml:"smoothUnfolded"`
	Polynomial     bool   `yaml:"polynomial"`
	Rule           string `yaml:"rule"`
	Workers        int    `yaml:"workers"`
}

// SourceConfig selects and parameterizes the spectrum source.
type SourceConfig struct {
	Kind      string          `yaml:"kind"`
	CacheSize int             `yaml:"cacheSize"` // 0: no cache
	Synthetic SyntheticConfig `yaml:"synthetic"`
	Network   NetworkConfig   `yaml:"network"`
}

// SyntheticConfig parameterizes source.Synthetic.
type SyntheticConfig struct {
	Ensemble string  `yaml:"ensemble"` // uniform | goe
	Seed     int64   `yaml:"seed"`
	Scale    float64 `yaml:"scale"`
	MaxStep  int     `yaml:"maxStep"`
}

// NetworkConfig parameterizes source.Network over random flux matrices.
type NetworkConfig struct {
	Density      float64 `yaml:"density"`
	Seed         int64   `yaml:"seed"`
	ZeroDiagonal bool    `yaml:"zeroDiagonal"`
	Band         int     `yaml:"band"` // −1: none
	Solver       string  `yaml:"solver"`
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text (tint) | json
}

// MetricsConfig controls Prometheus exposure.
type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Textfile string `yaml:"textfile"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Run: RunConfig{
			Samples: 10,
			Size:    50,
			Steps:   "1-3",
			Rule:    divergence.Midpoint.String(),
			Workers: 1,
		},
		Source: SourceConfig{
			Kind:      SourceSynthetic,
			Synthetic: SyntheticConfig{Ensemble: "uniform", Seed: 1},
			Network:   NetworkConfig{Density: 0.3, Seed: 1, Band: -1, Solver: "gonum"},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Metrics: MetricsConfig{Addr: ":9090"},
	}
}

// applyEnvOverrides reads LVLSPEC_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LVLSPEC_RUN_SAMPLES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Run.Samples = n
		}
	}
	if v := os.Getenv("LVLSPEC_RUN_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Run.Size = n
		}
	}
	if v := os.Getenv("LVLSPEC_RUN_STEPS"); v != "" {
		cfg.Run.Steps = v
	}
	if v := os.Getenv("LVLSPEC_RUN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Run.Workers = n
		}
	}
	if v := os.Getenv("LVLSPEC_SOURCE_KIND"); v != "" {
		cfg.Source.Kind = v
	}
	if v := os.Getenv("LVLSPEC_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("LVLSPEC_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LVLSPEC_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("LVLSPEC_METRICS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if v := os.Getenv("LVLSPEC_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("LVLSPEC_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
}

// Validate checks cross-field consistency; numeric ranges are left to
// pipeline.Config.Resolve.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case SourceSynthetic, SourceNetwork:
	case SourceStore:
		if c.Store.Path == "" {
			return fmt.Errorf("config: source kind %q needs store.path: %w", c.Source.Kind, spectrum.ErrBadOption)
		}
	default:
		return fmt.Errorf("config: unknown source kind %q: %w", c.Source.Kind, spectrum.ErrBadOption)
	}
	if c.Run.Workers < 1 {
		return fmt.Errorf("config: workers=%d: %w", c.Run.Workers, spectrum.ErrBadOption)
	}
	if _, err := ParseRule(c.Run.Rule); err != nil {
		return err
	}
	if _, err := ParseSteps(c.Run.Steps); err != nil {
		return err
	}

	return nil
}

// Pipeline converts the run section to a resolved pipeline.Config.
func (c *Config) Pipeline() (pipeline.Config, error) {
	steps, err := ParseSteps(c.Run.Steps)
	if err != nil {
		return pipeline.Config{}, err
	}
	rule, err := ParseRule(c.Run.Rule)
	if err != nil {
		return pipeline.Config{}, err
	}

	return pipeline.Config{
		Samples:        c.Run.Samples,
		Size:           c.Run.Size,
		BinsRaw:        c.Run.BinsRaw,
		BinsUnfolded:   c.Run.BinsUnfolded,
		SmoothingBins:  c.Run.SmoothingBins,
		Steps:          steps,
		SmoothUnfolded: c.Run.SmoothUnfolded,
		ZeroDiagonal:   c.Source.Network.ZeroDiagonal,
		Polynomial:     c.Run.Polynomial,
		Rule:           rule,
	}.Resolve()
}

// ParseRule maps a rule name to a divergence.Rule ("" is midpoint).
func ParseRule(s string) (divergence.Rule, error) {
	for _, r := range []divergence.Rule{divergence.Midpoint, divergence.Trapezoid, divergence.Simpson} {
		if strings.EqualFold(s, r.String()) {
			return r, nil
		}
	}
	if s == "" {
		return divergence.Midpoint, nil
	}

	return 0, fmt.Errorf("config: unknown rule %q: %w", s, spectrum.ErrBadOption)
}

// ParseSteps expands a comma-separated list of steps and ranges, e.g.
// "1-3,10,20-40:10" → [1 2 3 10 20 30 40]. The result must be strictly
// increasing.
func ParseSteps(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		stride := 1
		if rng, st, ok := strings.Cut(part, ":"); ok {
			n, err := strconv.Atoi(st)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("config: steps %q: bad stride: %w", part, spectrum.ErrBadSteps)
			}
			part, stride = rng, n
		}
		lo, hi, isRange := strings.Cut(part, "-")
		a, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("config: steps %q: %w", part, spectrum.ErrBadSteps)
		}
		b := a
		if isRange {
			if b, err = strconv.Atoi(hi); err != nil || b < a {
				return nil, fmt.Errorf("config: steps %q: %w", part, spectrum.ErrBadSteps)
			}
		}
		for n := a; n <= b; n += stride {
			out = append(out, n)
		}
	}
	if err := spectrum.ValidateSteps(out); err != nil {
		return nil, fmt.Errorf("config: steps %q: %w", s, err)
	}

	return out, nil
}
