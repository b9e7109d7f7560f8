package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blackjack.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 400*time.Millisecond, cfg.DealDelay())
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
game {
  seed       = 42
  log_level  = "debug"
  transcript = "rounds.json"
}

ui {
  deal_delay_ms = 0
  theme         = "mono"
}

simulate {
  rounds  = 500
  workers = 4
  bot     = "dealer"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Game.Seed)
	assert.Equal(t, "debug", cfg.Game.LogLevel)
	assert.Equal(t, DefaultLogFile, cfg.Game.LogFile)
	assert.Equal(t, "rounds.json", cfg.Game.Transcript)

	assert.Equal(t, time.Duration(0), cfg.DealDelay(), "explicit zero is kept")
	assert.Equal(t, "mono", cfg.UI.Theme)

	assert.Equal(t, 500, cfg.Simulate.Rounds)
	assert.Equal(t, 4, cfg.Simulate.Workers)
	assert.Equal(t, "dealer", cfg.Simulate.Bot)
	assert.Equal(t, DefaultBet, cfg.Simulate.Bet)
}

func TestLoadPartialFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, `ui { theme = "mono" }`))
	require.NoError(t, err)

	assert.Equal(t, DefaultLogLevel, cfg.Game.LogLevel)
	assert.Equal(t, 400*time.Millisecond, cfg.DealDelay())
	assert.Equal(t, DefaultRounds, cfg.Simulate.Rounds)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		errMsg string
	}{
		{"syntax", `game {`, "failed to parse HCL file"},
		{"unknown attribute", `game { purse = 1000 }`, "failed to decode HCL"},
		{"wrong type", `ui { deal_delay_ms = "slow" }`, "failed to decode HCL"},
		{"log level", `game { log_level = "loud" }`, "invalid log_level"},
		{"negative delay", `ui { deal_delay_ms = -1 }`, "invalid deal_delay_ms"},
		{"theme", `ui { theme = "neon" }`, "invalid theme"},
		{"workers", `simulate { workers = -2 }`, "invalid workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
