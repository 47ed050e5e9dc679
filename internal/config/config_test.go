package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/blackjack-mcts/internal/mcts"
	"github.com/lox/blackjack-mcts/internal/payout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, log.InfoLevel, cfg.Level())
	assert.Equal(t, mcts.DefaultExploration, cfg.Engine.Exploration)
	assert.Equal(t, 2000, cfg.Engine.Iterations)
	assert.Equal(t, 100, cfg.Engine.Playouts)
	assert.Equal(t, payout.Default(), cfg.PayoutTable())
	assert.Equal(t, 4, cfg.Simulation.Decks)
	assert.Equal(t, "mcts", cfg.Simulation.Hero)
	assert.Equal(t, "basic", cfg.Simulation.Villain)
	assert.Equal(t, "1000", cfg.Bet().String())
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"

engine {
  exploration = 0.7
  iterations  = 500
  workers     = 2
  seed        = 99
}

payout {
  premium = 2
}

simulation {
  rounds  = 250
  decks   = 6
  bet     = 10.5
  villain = "stand"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, log.DebugLevel, cfg.Level())
	assert.Equal(t, 0.7, cfg.Engine.Exploration)
	assert.Equal(t, 500, cfg.Engine.Iterations)
	assert.Equal(t, 100, cfg.Engine.Playouts, "unset values take defaults")
	assert.Equal(t, 2, cfg.Engine.Workers)
	assert.Equal(t, int64(99), cfg.Engine.Seed)

	table := cfg.PayoutTable()
	assert.Equal(t, 2.0, table.Premium)
	assert.Equal(t, 1.0, table.Win)

	assert.Equal(t, 250, cfg.Simulation.Rounds)
	assert.Equal(t, 6, cfg.Simulation.Decks)
	assert.Equal(t, "10.5", cfg.Bet().String())
	assert.Equal(t, "mcts", cfg.Simulation.Hero)
	assert.Equal(t, "stand", cfg.Simulation.Villain)

	budget := cfg.Budget()
	assert.Equal(t, 500, budget.Iterations)
	assert.Equal(t, 100, budget.Playouts)
	assert.Len(t, cfg.EngineOptions(log.New(os.Stderr)), 5)
}

func TestLoadErrors(t *testing.T) {
	t.Run("syntax", func(t *testing.T) {
		_, err := Load(writeConfig(t, `engine {`))
		assert.ErrorContains(t, err, "failed to parse HCL file")
	})

	t.Run("unknown attribute", func(t *testing.T) {
		_, err := Load(writeConfig(t, `colour = "red"`))
		assert.ErrorContains(t, err, "failed to decode HCL")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(c *Config)
		msg  string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level"},
		{"exploration", func(c *Config) { c.Engine.Exploration = -1 }, "exploration"},
		{"workers", func(c *Config) { c.Engine.Workers = -2 }, "workers"},
		{"payout", func(c *Config) { c.Payout.Surrender = 3 }, "payout: surrender"},
		{"decks", func(c *Config) { c.Simulation.Decks = 9 }, "decks must be between"},
		{"advisor", func(c *Config) { c.Simulation.Hero = "counter" }, "invalid advisor counter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.edit(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.msg)
		})
	}
}
