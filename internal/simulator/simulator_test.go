package simulator

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/rules"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.WarnLevel})
}

func TestNew(t *testing.T) {
	simulator := New(Config{Rounds: 3, Workers: 8, Bot: "stand"})
	require.NotNil(t, simulator)
	assert.Equal(t, 3, simulator.config.Workers, "never more workers than rounds")
	assert.NotNil(t, simulator.config.Logger)

	simulator = New(Config{Rounds: 100})
	assert.Positive(t, simulator.config.Workers)
}

func TestSimulator_Run(t *testing.T) {
	for _, name := range []string{"basic", "dealer", "stand"} {
		t.Run(name, func(t *testing.T) {
			stats, err := New(Config{
				Rounds:  500,
				Workers: 4,
				Seed:    12345,
				Bot:     name,
				Bet:     20,
				Logger:  quietLogger(),
			}).Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, 500, stats.Rounds)
			assert.GreaterOrEqual(t, stats.Hands, stats.Rounds)
			assert.NoError(t, stats.Validate())
			assert.Positive(t, stats.Naturals)
		})
	}
}

func TestSimulator_StandBotNeverBusts(t *testing.T) {
	stats, err := RunSimulation(context.Background(), 300, "stand", 7, quietLogger())
	require.NoError(t, err)

	assert.Zero(t, stats.Busts)
	assert.Zero(t, stats.Splits)
	assert.Zero(t, stats.Doubles)
}

func TestSimulator_Deterministic(t *testing.T) {
	cfg := Config{Rounds: 400, Workers: 3, Seed: 99, Bot: "basic", Bet: 10, Logger: quietLogger()}

	first, err := New(cfg).Run(context.Background())
	require.NoError(t, err)
	second, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSimulator_Errors(t *testing.T) {
	_, err := New(Config{Rounds: 0, Bot: "basic"}).Run(context.Background())
	assert.ErrorContains(t, err, "rounds must be positive")

	_, err = New(Config{Rounds: 10, Bot: "nope"}).Run(context.Background())
	assert.ErrorContains(t, err, "unknown bot")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(Config{Rounds: 10, Workers: 2, Bot: "stand"}).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultFromOutcome(t *testing.T) {
	outcome := game.Outcome{
		Stake:   10,
		Wagered: 20,
		Split:   true,
		Hands: []game.HandResult{
			{Hand: deck.Player, Total: 24, Multiplier: rules.Loss},
			{Hand: deck.SideHand, Total: 20, Multiplier: rules.Win},
		},
	}
	outcome.Hands[1].Paid = 20

	r := resultFromOutcome(outcome)
	assert.Equal(t, 0, r.Net)
	assert.Equal(t, 20, r.Staked)
	assert.Equal(t, 1, r.Wins)
	assert.Equal(t, 1, r.Losses)
	assert.Equal(t, 1, r.Busts)
	assert.True(t, r.Split)
}

func TestPrintSummary(t *testing.T) {
	stats, err := RunSimulation(context.Background(), 50, "dealer", 1, quietLogger())
	require.NoError(t, err)

	var buf bytes.Buffer
	PrintSummary(&buf, stats, "dealer")
	out := buf.String()
	assert.Contains(t, out, "FINAL RESULTS for dealer-bot")
	assert.Contains(t, out, "Rounds played: 50")
	assert.Contains(t, out, "95% CI")
}
