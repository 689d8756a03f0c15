package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokerprobability/internal/report"
	"github.com/lox/pokerprobability/internal/simulator"
	"github.com/lox/pokerprobability/poker"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	t.Parallel()

	c := Default()
	assert.Equal(t, 1000000, c.Simulation.Trials)
	assert.Equal(t, "concurrent", c.Simulation.Mode)
	assert.Equal(t, "replacement", c.Simulation.Draw)
	assert.Equal(t, "all", c.Output.Save)
	assert.Equal(t, ".", c.Output.Dir)
	assert.Equal(t, report.DefaultBatchSize, c.Output.BatchSize)
	assert.Equal(t, "info", c.Log.Level)
	require.NoError(t, c.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	c, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeFile(t, DefaultFile, `
simulation {
  trials  = 5000
  mode    = "sequential"
  seed    = 42
  draw    = "without-replacement"
  strict  = true
}

output {
  save       = "result"
  dir        = "/tmp/runs"
}
`)

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, 5000, c.Simulation.Trials)
	assert.Equal(t, "sequential", c.Simulation.Mode)
	assert.Equal(t, int64(42), c.Simulation.Seed)
	assert.True(t, c.Simulation.Strict)
	assert.Equal(t, "/tmp/runs", c.Output.Dir)
	assert.Equal(t, report.DefaultBatchSize, c.Output.BatchSize, "unset attributes keep defaults")
	assert.Equal(t, "info", c.Log.Level, "missing blocks keep defaults")

	save, err := c.SaveMode()
	require.NoError(t, err)
	assert.Equal(t, SaveResultOnly, save)

	simCfg, err := c.SimulatorConfig()
	require.NoError(t, err)
	assert.Equal(t, 5000, simCfg.Trials)
	assert.Equal(t, simulator.Sequential, simCfg.Mode)
	assert.Equal(t, poker.WithoutReplacement, simCfg.Draw)
	assert.Equal(t, int64(42), simCfg.Seed)
	assert.True(t, simCfg.Strict)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := Load(writeFile(t, "bad.hcl", `simulation {`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "unknown.hcl", `simulation { colour = "red" }`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "type.hcl", `simulation { trials = "many" }`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero trials", func(c *Config) { c.Simulation.Trials = 0 }},
		{"negative trials", func(c *Config) { c.Simulation.Trials = -5 }},
		{"negative workers", func(c *Config) { c.Simulation.Workers = -1 }},
		{"bad mode", func(c *Config) { c.Simulation.Mode = "turbo" }},
		{"bad draw", func(c *Config) { c.Simulation.Draw = "sometimes" }},
		{"bad save", func(c *Config) { c.Output.Save = "everything" }},
		{"zero batch", func(c *Config) { c.Output.BatchSize = 0 }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := Default()
			tt.mutate(c)
			err := c.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestParseSaveMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]SaveMode{
		"all": SaveAll, "a": SaveAll,
		"result": SaveResultOnly, "R": SaveResultOnly,
		"none": SaveNone, " n ": SaveNone,
	} {
		got, err := ParseSaveMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseSaveMode("x")
	assert.Error(t, err)
	assert.Equal(t, "result", SaveResultOnly.String())
}

func TestLoadEnv(t *testing.T) {
	const key = "POKERPROB_CONFIG_TEST_TRIALS"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	path := writeFile(t, ".env", key+"=1234\n")
	require.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env"), path))
	assert.Equal(t, "1234", os.Getenv(key))

	// Existing variables win over the file.
	t.Setenv(key, "99")
	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "99", os.Getenv(key))

	require.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "none.env")))
}

func TestLoadExampleFile(t *testing.T) {
	t.Parallel()

	c, err := Load(filepath.Join("..", "..", "pokerprob.example.hcl"))
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, "runs", c.Output.Dir)
	assert.Equal(t, 1000000, c.Simulation.Trials)
}
