// Package config loads the HCL configuration shared by the advise and
// simulate commands. Every block and attribute is optional; a missing file
// yields the defaults.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/blackjack-mcts/internal/mcts"
	"github.com/lox/blackjack-mcts/internal/payout"
	"github.com/lox/blackjack-mcts/internal/strategy"
	"github.com/shopspring/decimal"
)

// Config represents the complete configuration
type Config struct {
	LogLevel   string            `hcl:"log_level,optional"`
	Engine     *EngineConfig     `hcl:"engine,block"`
	Payout     *PayoutConfig     `hcl:"payout,block"`
	Simulation *SimulationConfig `hcl:"simulation,block"`
}

// EngineConfig controls the tree search
type EngineConfig struct {
	Exploration float64 `hcl:"exploration,optional"`
	Iterations  int     `hcl:"iterations,optional"`
	Playouts    int     `hcl:"playouts,optional"`
	Workers     int     `hcl:"workers,optional"`
	Seed        int64   `hcl:"seed,optional"`
}

// PayoutConfig overrides the payout table
type PayoutConfig struct {
	Win              float64 `hcl:"win,optional"`
	Loss             float64 `hcl:"loss,optional"`
	Premium          float64 `hcl:"premium,optional"`
	Surrender        float64 `hcl:"surrender,optional"`
	DoubleMultiplier float64 `hcl:"double_multiplier,optional"`
	InsuranceSuccess float64 `hcl:"insurance_success,optional"`
	InsuranceFail    float64 `hcl:"insurance_fail,optional"`
}

// SimulationConfig controls the round simulator
type SimulationConfig struct {
	Rounds  int     `hcl:"rounds,optional"`
	Decks   int     `hcl:"decks,optional"`
	Bet     float64 `hcl:"bet,optional"`
	Seed    int64   `hcl:"seed,optional"`
	Hero    string  `hcl:"hero,optional"`
	Villain string  `hcl:"villain,optional"`
}

// Default returns the default configuration
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load loads configuration from an HCL file. A missing file is not an error.
func Load(filename string) (*Config, error) {
	if filename == "" {
		return Default(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.Engine == nil {
		c.Engine = &EngineConfig{}
	}
	if c.Engine.Exploration == 0 {
		c.Engine.Exploration = mcts.DefaultExploration
	}
	if c.Engine.Iterations == 0 {
		c.Engine.Iterations = 2000
	}
	if c.Engine.Playouts == 0 {
		c.Engine.Playouts = 100
	}

	def := payout.Default()
	if c.Payout == nil {
		c.Payout = &PayoutConfig{}
	}
	setDefault(&c.Payout.Win, def.Win)
	setDefault(&c.Payout.Loss, def.Loss)
	setDefault(&c.Payout.Premium, def.Premium)
	setDefault(&c.Payout.Surrender, def.Surrender)
	setDefault(&c.Payout.DoubleMultiplier, def.DoubleMultiplier)
	setDefault(&c.Payout.InsuranceSuccess, def.InsuranceSuccess)
	setDefault(&c.Payout.InsuranceFail, def.InsuranceFail)

	if c.Simulation == nil {
		c.Simulation = &SimulationConfig{}
	}
	if c.Simulation.Rounds == 0 {
		c.Simulation.Rounds = 1000
	}
	if c.Simulation.Decks == 0 {
		c.Simulation.Decks = 4
	}
	if c.Simulation.Bet == 0 {
		c.Simulation.Bet = 1000
	}
	if c.Simulation.Seed == 0 {
		c.Simulation.Seed = 42
	}
	if c.Simulation.Hero == "" {
		c.Simulation.Hero = "mcts"
	}
	if c.Simulation.Villain == "" {
		c.Simulation.Villain = "basic"
	}
}

func setDefault(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}

	if c.Engine.Exploration < 0 {
		return fmt.Errorf("engine: exploration must not be negative, got %g", c.Engine.Exploration)
	}
	if c.Engine.Iterations < 0 || c.Engine.Playouts < 0 {
		return errors.New("engine: iterations and playouts must be positive")
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine: workers must not be negative, got %d", c.Engine.Workers)
	}

	if err := c.PayoutTable().Validate(); err != nil {
		return fmt.Errorf("payout: %w", err)
	}

	if c.Simulation.Rounds < 0 {
		return fmt.Errorf("simulation: rounds must be positive, got %d", c.Simulation.Rounds)
	}
	if c.Simulation.Decks < 1 || c.Simulation.Decks > 8 {
		return fmt.Errorf("simulation: decks must be between 1 and 8, got %d", c.Simulation.Decks)
	}
	if c.Simulation.Bet < 0 {
		return fmt.Errorf("simulation: bet must be positive, got %g", c.Simulation.Bet)
	}
	for _, name := range []string{c.Simulation.Hero, c.Simulation.Villain} {
		if !validAdvisor(name) {
			return fmt.Errorf("simulation: invalid advisor %s", name)
		}
	}

	return nil
}

func validAdvisor(name string) bool {
	for _, n := range strategy.Names {
		if n == name {
			return true
		}
	}
	return false
}

// Level returns the parsed log level
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// PayoutTable returns the configured payout table
func (c *Config) PayoutTable() payout.Table {
	return payout.Table{
		Win:              c.Payout.Win,
		Loss:             c.Payout.Loss,
		Premium:          c.Payout.Premium,
		Surrender:        c.Payout.Surrender,
		DoubleMultiplier: c.Payout.DoubleMultiplier,
		InsuranceSuccess: c.Payout.InsuranceSuccess,
		InsuranceFail:    c.Payout.InsuranceFail,
	}
}

// EngineOptions returns the search engine options for this configuration
func (c *Config) EngineOptions(logger *log.Logger) []mcts.Option {
	return []mcts.Option{
		mcts.WithExploration(c.Engine.Exploration),
		mcts.WithWorkers(c.Engine.Workers),
		mcts.WithSeed(c.Engine.Seed),
		mcts.WithPayoutTable(c.PayoutTable()),
		mcts.WithLogger(logger),
	}
}

// Budget returns the per-decision search budget
func (c *Config) Budget() strategy.Budget {
	return strategy.Budget{Iterations: c.Engine.Iterations, Playouts: c.Engine.Playouts}
}

// Bet returns the simulation stake as an exact decimal
func (c *Config) Bet() decimal.Decimal {
	return decimal.NewFromFloat(c.Simulation.Bet)
}
