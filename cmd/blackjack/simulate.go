package main

import (
	"fmt"
	"io"

	"github.com/lox/blackjack-mcts/internal/fileutil"
	"github.com/lox/blackjack-mcts/internal/mcts"
	"github.com/lox/blackjack-mcts/internal/simulator"
	"github.com/lox/blackjack-mcts/internal/strategy"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// SimulateCmd plays duplicate rounds between two advisors.
type SimulateCmd struct {
	Rounds     int    `short:"n" help:"Rounds to play (default from config)"`
	Hero       string `help:"Hero advisor: mcts, basic or stand (default from config)"`
	Villain    string `help:"Villain advisor: mcts, basic or stand (default from config)"`
	Decks      int    `help:"Packs per shoe (default from config)"`
	Bet        string `help:"Stake per round (default from config)"`
	Seed       *int64 `help:"Base seed for the shoes and the search"`
	Iterations int    `short:"i" help:"Search iterations per question (default from config)"`
	Playouts   int    `short:"p" help:"Rollouts per evaluated leaf (default from config)"`
	Format     string `help:"Output format" enum:"text,yaml" default:"text"`
	Output     string `short:"o" help:"Write the report to a file instead of stdout" type:"path"`
}

func (cmd *SimulateCmd) Run(g *Globals) error {
	cfg, logger, err := g.setup()
	if err != nil {
		return err
	}

	sim := cfg.Simulation
	if cmd.Rounds > 0 {
		sim.Rounds = cmd.Rounds
	}
	if cmd.Hero != "" {
		sim.Hero = cmd.Hero
	}
	if cmd.Villain != "" {
		sim.Villain = cmd.Villain
	}
	if cmd.Decks > 0 {
		sim.Decks = cmd.Decks
	}
	if cmd.Seed != nil {
		sim.Seed = *cmd.Seed
		cfg.Engine.Seed = *cmd.Seed
	}
	if cmd.Iterations > 0 {
		cfg.Engine.Iterations = cmd.Iterations
	}
	if cmd.Playouts > 0 {
		cfg.Engine.Playouts = cmd.Playouts
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	bet := cfg.Bet()
	if cmd.Bet != "" {
		bet, err = decimal.NewFromString(cmd.Bet)
		if err != nil {
			return fmt.Errorf("parsing bet %q: %w", cmd.Bet, err)
		}
	}

	engine := mcts.NewEngine(cfg.EngineOptions(logger)...)
	hero, err := strategy.New(sim.Hero, engine, cfg.Budget(), logger)
	if err != nil {
		return err
	}
	villain, err := strategy.New(sim.Villain, engine, cfg.Budget(), logger)
	if err != nil {
		return err
	}

	logger.Info("Starting simulation",
		"rounds", sim.Rounds,
		"hero", hero.Name(),
		"villain", villain.Name(),
		"decks", sim.Decks,
		"seed", sim.Seed)

	report, err := simulator.New(simulator.Config{
		Rounds:  sim.Rounds,
		Decks:   sim.Decks,
		Bet:     bet,
		Seed:    sim.Seed,
		Hero:    hero,
		Villain: villain,
		Table:   cfg.PayoutTable(),
		Logger:  logger,
	}).Run()
	if err != nil {
		return err
	}

	render := func(w io.Writer) error {
		if cmd.Format == "yaml" {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
			return enc.Close()
		}
		simulator.PrintSummary(w, report)
		return nil
	}

	if cmd.Output == "" {
		return render(g.out())
	}
	if err := fileutil.WriteAtomic(cmd.Output, 0o644, render); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	logger.Info("Report written", "path", cmd.Output)
	return nil
}
