// Package config loads run settings from an HCL file and .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"

	"github.com/lox/pokerprobability/internal/report"
	"github.com/lox/pokerprobability/internal/simulator"
	"github.com/lox/pokerprobability/poker"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultFile is the config file read when none is given explicitly.
const DefaultFile = "pokerprob.hcl"

// Config represents the complete run configuration
type Config struct {
	Simulation Simulation
	Output     Output
	Log        Log
}

// Simulation controls the trial driver
type Simulation struct {
	Trials  int    `hcl:"trials,optional"`
	Mode    string `hcl:"mode,optional"`
	Workers int    `hcl:"workers,optional"`
	Seed    int64  `hcl:"seed,optional"`
	Draw    string `hcl:"draw,optional"`
	Strict  bool   `hcl:"strict,optional"`
}

// Output controls result persistence
type Output struct {
	Save      string `hcl:"save,optional"`
	Dir       string `hcl:"dir,optional"`
	BatchSize int    `hcl:"batch_size,optional"`
}

// Log controls logging
type Log struct {
	Level string `hcl:"level,optional"`
}

// fileConfig mirrors Config with optional blocks.
type fileConfig struct {
	Simulation *Simulation `hcl:"simulation,block"`
	Output     *Output     `hcl:"output,block"`
	Log        *Log        `hcl:"log,block"`
}

// SaveMode selects which files a run writes
type SaveMode int

const (
	SaveAll        SaveMode = iota // trial batches and the result file
	SaveResultOnly                 // result file only
	SaveNone
)

func (m SaveMode) String() string {
	switch m {
	case SaveAll:
		return "all"
	case SaveResultOnly:
		return "result"
	case SaveNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseSaveMode parses "all", "result" or "none" (or their first letters).
func ParseSaveMode(s string) (SaveMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all", "a":
		return SaveAll, nil
	case "result", "result-only", "r":
		return SaveResultOnly, nil
	case "none", "n":
		return SaveNone, nil
	default:
		return 0, fmt.Errorf("unknown save mode %q", s)
	}
}

// Default returns default configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Simulation.Trials == 0 {
		c.Simulation.Trials = 1000000
	}
	if c.Simulation.Mode == "" {
		c.Simulation.Mode = simulator.Concurrent.String()
	}
	if c.Simulation.Draw == "" {
		c.Simulation.Draw = poker.WithReplacement.String()
	}
	if c.Output.Save == "" {
		c.Output.Save = SaveAll.String()
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "."
	}
	if c.Output.BatchSize == 0 {
		c.Output.BatchSize = report.DefaultBatchSize
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults; attributes left out of the file keep their default values.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	c := &Config{}
	if fc.Simulation != nil {
		c.Simulation = *fc.Simulation
	}
	if fc.Output != nil {
		c.Output = *fc.Output
	}
	if fc.Log != nil {
		c.Log = *fc.Log
	}
	c.applyDefaults()
	return c, nil
}

// LoadEnv loads KEY=VALUE pairs from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadEnv(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Simulation.Trials <= 0 {
		return fmt.Errorf("%w: trials must be positive, got %d", ErrInvalidConfig, c.Simulation.Trials)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Simulation.Workers)
	}
	if _, err := simulator.ParseMode(c.Simulation.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := poker.ParseDrawStrategy(c.Simulation.Draw); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := ParseSaveMode(c.Output.Save); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Output.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive, got %d", ErrInvalidConfig, c.Output.BatchSize)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// SimulatorConfig converts the simulation block into a simulator.Config.
// Logger, clock and sinks are left for the caller.
func (c *Config) SimulatorConfig() (simulator.Config, error) {
	mode, err := simulator.ParseMode(c.Simulation.Mode)
	if err != nil {
		return simulator.Config{}, err
	}
	draw, err := poker.ParseDrawStrategy(c.Simulation.Draw)
	if err != nil {
		return simulator.Config{}, err
	}
	return simulator.Config{
		Trials:  c.Simulation.Trials,
		Mode:    mode,
		Workers: c.Simulation.Workers,
		Seed:    c.Simulation.Seed,
		Draw:    draw,
		Strict:  c.Simulation.Strict,
	}, nil
}

// SaveMode returns the parsed output.save value.
func (c *Config) SaveMode() (SaveMode, error) {
	return ParseSaveMode(c.Output.Save)
}
