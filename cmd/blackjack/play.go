package main

import (
	"fmt"
	"os"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/blackjack/cmd/blackjack/shared"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/transcript"
	"github.com/lox/blackjack/internal/tui"
)

// PlayCmd runs an interactive session
type PlayCmd struct {
	Config     string         `kong:"default='blackjack.hcl',help='Path to HCL config file'"`
	Seed       *int64         `kong:"help='Deterministic RNG seed (overrides config)'"`
	Delay      *time.Duration `kong:"help='Delay between dealt cards, 0 to disable (overrides config)'"`
	Transcript string         `kong:"help='Write resolved rounds as JSON to this file on exit'"`
	Debug      bool           `kong:"help='Enable debug logging'"`
	NoColor    bool           `kong:"help='Disable colour output'"`
}

func (c *PlayCmd) Run() error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}

	// The terminal belongs to the TUI, so logs go to a file.
	logFile, err := os.OpenFile(cfg.Game.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	logger, err := shared.SetupLogger(logFile, cfg.Game.LogLevel, c.Debug)
	if err != nil {
		return err
	}

	seed := cfg.Game.Seed
	if c.Seed != nil {
		seed = *c.Seed
	}
	seed = randutil.Seed(seed)
	delay := cfg.DealDelay()
	if c.Delay != nil {
		delay = *c.Delay
	}
	transcriptPath := cfg.Game.Transcript
	if c.Transcript != "" {
		transcriptPath = c.Transcript
	}

	clock := quartz.NewReal()
	bus := game.NewEventBus()
	var recorder *transcript.Recorder
	if transcriptPath != "" {
		recorder = transcript.NewRecorder(seed, clock.Now(), logger)
		bus.Subscribe(recorder)
	}

	engine := game.NewEngine(
		game.WithLogger(logger),
		game.WithClock(clock),
		game.WithRNG(randutil.New(seed)),
		game.WithEventBus(bus),
	)
	logger.Info("Starting session", "seed", seed, "delay", delay, "transcript", transcriptPath)

	tui.ApplyTheme(cfg.UI.Theme, c.NoColor)
	runErr := tui.Run(engine, tui.NewPacer(clock, delay), logger)

	if recorder != nil {
		bus.Unsubscribe(recorder)
		if err := recorder.WriteFile(transcriptPath); err != nil {
			logger.Error("Failed to write transcript", "path", transcriptPath, "error", err)
			if runErr == nil {
				return err
			}
		}
	}
	logger.Info("Session ended", "purse", engine.Purse())
	return runErr
}
