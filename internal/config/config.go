package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"forwardpass/internal/model"
)

// LayerConfig holds one layer's weight matrix and bias vector.
type LayerConfig struct {
	Weights [][]float64 `yaml:"weights"`
	Bias    []float64   `yaml:"bias"`
}

// Config captures the inputs and output knobs for a forward-pass run.
type Config struct {
	Input     []float64    `yaml:"input"`
	Hidden    *LayerConfig `yaml:"hidden"`
	Output    *LayerConfig `yaml:"output"`
	OutputDir string       `yaml:"output_dir"`
	LogLevel  string       `yaml:"log_level"`
	DPI       int          `yaml:"dpi"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	OutputDir string
	LogLevel  string
	DPI       int
}

// Default returns the reference configuration: three inputs, four hidden
// units and two outputs.
func Default() *Config {
	return &Config{
		Input: []float64{0.50, -1.20, 0.30},
		Hidden: &LayerConfig{
			Weights: [][]float64{
				{0.20, -0.10, 0.40},
				{-0.70, 0.30, 0.10},
				{0.50, 0.80, -0.60},
				{0.10, -0.40, 0.20},
			},
			Bias: []float64{0.10, -0.20, 0.05, 0.00},
		},
		Output: &LayerConfig{
			Weights: [][]float64{
				{0.30, -0.20, 0.10, 0.50},
				{-0.40, 0.60, -0.10, 0.20},
			},
			Bias: []float64{0.00, 0.10},
		},
		OutputDir: "outputs",
		LogLevel:  "info",
		DPI:       200,
	}
}

// Load reads and validates a Config from YAML. Sections missing from the
// file keep their reference values. An empty path yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := parseYAML(f)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.DPI > 0 {
		c.DPI = o.DPI
	}
}

// Validate verifies the config is runnable. Layer shapes are left to the
// model, which reports which dimensions disagree.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if len(c.Input) == 0 {
		return errors.New("input must not be empty")
	}
	if c.Hidden == nil || c.Output == nil {
		return errors.New("both hidden and output layers must be set")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("output_dir must be set")
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be > 0 (got %d)", c.DPI)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Params returns the model parameters described by c. The slices are
// shared with c, which the model never modifies.
func (c *Config) Params() *model.Params {
	return &model.Params{
		Hidden: model.Layer{Weights: c.Hidden.Weights, Bias: c.Hidden.Bias},
		Output: model.Layer{Weights: c.Output.Weights, Bias: c.Output.Bias},
	}
}

// ParseLevel maps a log_level string onto a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
	}
}

func parseYAML(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
