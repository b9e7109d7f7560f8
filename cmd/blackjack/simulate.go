package main

import (
	"os"
	"time"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/simulator"
)

// SimulateCmd plays rounds with a built-in bot and prints statistics
type SimulateCmd struct {
	Config  string `kong:"default='blackjack.hcl',help='Path to HCL config file'"`
	Rounds  int    `kong:"help='Number of rounds to play (overrides config)'"`
	Workers int    `kong:"help='Parallel workers, 0 for one per CPU (overrides config)'"`
	Seed    *int64 `kong:"help='Deterministic RNG seed (overrides config)'"`
	Bot     string `kong:"help='Bot to play: basic, dealer or stand (overrides config)'"`
	Bet     int    `kong:"help='Bet per round (overrides config)'"`
	Debug   bool   `kong:"help='Enable debug logging'"`
}

func (c *SimulateCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	logger, err := shared.SetupLogger(os.Stderr, cfg.Game.LogLevel, c.Debug)
	if err != nil {
		return err
	}

	sim := simulator.Config{
		Rounds:  cfg.Simulate.Rounds,
		Workers: cfg.Simulate.Workers,
		Seed:    cfg.Game.Seed,
		Bot:     cfg.Simulate.Bot,
		Bet:     cfg.Simulate.Bet,
		Logger:  logger,
	}
	if c.Rounds > 0 {
		sim.Rounds = c.Rounds
	}
	if c.Workers > 0 {
		sim.Workers = c.Workers
	}
	if c.Seed != nil {
		sim.Seed = *c.Seed
	}
	if c.Bot != "" {
		sim.Bot = c.Bot
	}
	if c.Bet > 0 {
		sim.Bet = c.Bet
	}
	sim.Seed = randutil.Seed(sim.Seed)

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	logger.Info("Starting simulation", "rounds", sim.Rounds, "workers", sim.Workers, "bot", sim.Bot, "bet", sim.Bet, "seed", sim.Seed)
	start := time.Now()
	stats, err := simulator.New(sim).Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("Simulation complete", "duration", time.Since(start).Round(time.Millisecond))

	simulator.PrintSummary(os.Stdout, stats, sim.Bot)
	return nil
}
