// Package config loads the HCL configuration file shared by the play and
// simulate commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

const (
	DefaultLogLevel  = "info"
	DefaultLogFile   = "blackjack.log"
	DefaultDealDelay = 400
	DefaultTheme     = "default"
	DefaultRounds    = 10000
	DefaultBot       = "basic"
	DefaultBet       = 10
)

// Config represents the complete configuration file
type Config struct {
	Game     *GameSettings     `hcl:"game,block"`
	UI       *UISettings       `hcl:"ui,block"`
	Simulate *SimulateSettings `hcl:"simulate,block"`
}

// GameSettings contains session-level configuration
type GameSettings struct {
	Seed       int64  `hcl:"seed,optional"`
	LogLevel   string `hcl:"log_level,optional"`
	LogFile    string `hcl:"log_file,optional"`
	Transcript string `hcl:"transcript,optional"`
}

// UISettings controls presentation only; nothing here changes a round's outcome
type UISettings struct {
	DealDelayMs *int   `hcl:"deal_delay_ms,optional"`
	Theme       string `hcl:"theme,optional"`
}

// SimulateSettings are the defaults for the simulate command
type SimulateSettings struct {
	Rounds  int    `hcl:"rounds,optional"`
	Workers int    `hcl:"workers,optional"`
	Bot     string `hcl:"bot,optional"`
	Bet     int    `hcl:"bet,optional"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads configuration from an HCL file. A missing file yields defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
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
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Game == nil {
		c.Game = &GameSettings{}
	}
	if c.Game.LogLevel == "" {
		c.Game.LogLevel = DefaultLogLevel
	}
	if c.Game.LogFile == "" {
		c.Game.LogFile = DefaultLogFile
	}

	if c.UI == nil {
		c.UI = &UISettings{}
	}
	// deal_delay_ms = 0 is meaningful, so only an absent attribute gets the default.
	if c.UI.DealDelayMs == nil {
		delay := DefaultDealDelay
		c.UI.DealDelayMs = &delay
	}
	if c.UI.Theme == "" {
		c.UI.Theme = DefaultTheme
	}

	if c.Simulate == nil {
		c.Simulate = &SimulateSettings{}
	}
	if c.Simulate.Rounds == 0 {
		c.Simulate.Rounds = DefaultRounds
	}
	if c.Simulate.Bot == "" {
		c.Simulate.Bot = DefaultBot
	}
	if c.Simulate.Bet == 0 {
		c.Simulate.Bet = DefaultBet
	}
}

// DealDelay returns the presentation delay between dealt cards
func (c *Config) DealDelay() time.Duration {
	return time.Duration(*c.UI.DealDelayMs) * time.Millisecond
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Game.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level: %q", c.Game.LogLevel)
	}

	if *c.UI.DealDelayMs < 0 || *c.UI.DealDelayMs > 5000 {
		return fmt.Errorf("invalid deal_delay_ms: %d (must be 0-5000)", *c.UI.DealDelayMs)
	}
	switch c.UI.Theme {
	case "default", "mono":
	default:
		return fmt.Errorf("invalid theme: %q", c.UI.Theme)
	}

	if c.Simulate.Rounds < 1 {
		return fmt.Errorf("invalid rounds: %d", c.Simulate.Rounds)
	}
	if c.Simulate.Workers < 0 {
		return fmt.Errorf("invalid workers: %d", c.Simulate.Workers)
	}
	if c.Simulate.Bet < 1 {
		return fmt.Errorf("invalid bet: %d", c.Simulate.Bet)
	}
	return nil
}
