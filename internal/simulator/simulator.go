package simulator

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack/internal/bot"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/rules"
	"github.com/lox/blackjack/internal/statistics"
)

// maxCommandsPerRound bounds a single round. A round that needs more than
// this many commands means the bot is stuck.
const maxCommandsPerRound = 64

// Config holds configuration for running simulations
type Config struct {
	Rounds  int
	Workers int
	Seed    int64
	Bot     string
	Bet     int
	Logger  *log.Logger
}

// Simulator runs blackjack rounds across independent engines
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration. Zero workers
// means one per CPU.
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.Workers > config.Rounds && config.Rounds > 0 {
		config.Workers = config.Rounds
	}
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	return &Simulator{config: config}
}

// Run plays the configured number of rounds and returns the merged
// statistics. Each worker owns an engine seeded from Derive(Seed, worker),
// so a fixed seed and worker count always produce the same result.
func (s *Simulator) Run(ctx context.Context) (*statistics.Statistics, error) {
	if s.config.Rounds <= 0 {
		return nil, fmt.Errorf("rounds must be positive, got %d", s.config.Rounds)
	}
	if _, err := bot.New(s.config.Bot, s.config.Logger); err != nil {
		return nil, err
	}

	workers := s.config.Workers
	perWorker := s.config.Rounds / workers
	remainder := s.config.Rounds % workers
	results := make([]*statistics.Statistics, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		rounds := perWorker
		if w < remainder {
			rounds++
		}
		seed := randutil.Derive(s.config.Seed, w)

		g.Go(func() error {
			stats, err := s.runWorker(ctx, w, seed, rounds)
			if err != nil {
				return fmt.Errorf("worker %d (seed %d): %w", w, seed, err)
			}
			results[w] = stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := &statistics.Statistics{}
	for _, stats := range results {
		merged.Merge(stats)
	}
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return merged, nil
}

func (s *Simulator) runWorker(ctx context.Context, worker int, seed int64, rounds int) (*statistics.Statistics, error) {
	logger := s.config.Logger.With("worker", worker)
	b, err := bot.New(s.config.Bot, logger)
	if err != nil {
		return nil, err
	}
	player := bot.NewPlayer(b, s.config.Bet, logger)
	engine := game.NewEngine(game.WithLogger(logger), game.WithRNG(randutil.New(seed)))

	stats := &statistics.Statistics{}
	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := playRound(engine, player)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", i+1, err)
		}
		stats.Add(result)
	}
	logger.Debug("Worker finished", "rounds", rounds, "mean", stats.Mean())
	return stats, nil
}

// playRound drives the engine from Betting through Resolved and back to
// the next Betting phase.
func playRound(engine *game.Engine, player *bot.Player) (statistics.RoundResult, error) {
	var result statistics.RoundResult
	resolved := false

	for n := 0; n < maxCommandsPerRound; n++ {
		if resolved && engine.Phase() == game.Betting {
			return result, nil
		}

		d := player.Next(engine)
		events, err := engine.Handle(d.Command)
		if err != nil {
			return result, err
		}

		if !resolved && engine.Phase() == game.Resolved {
			outcome, _ := engine.LastOutcome()
			result = resultFromOutcome(outcome)
			resolved = true
		}
		for _, ev := range events {
			if _, ok := ev.(game.PurseReplenishedEvent); ok {
				result.Rebuy = true
			}
		}
	}
	return result, fmt.Errorf("no result after %d commands", maxCommandsPerRound)
}

func resultFromOutcome(o game.Outcome) statistics.RoundResult {
	r := statistics.RoundResult{
		Net:     o.Net(),
		Staked:  o.Staked(),
		Natural: o.Natural,
		Split:   o.Split,
		Doubled: o.Doubled,
	}
	for _, h := range o.Hands {
		switch h.Multiplier {
		case rules.Win, rules.Natural:
			r.Wins++
		case rules.Push:
			r.Pushes++
		default:
			r.Losses++
		}
		if h.Total > rules.Blackjack {
			r.Busts++
		}
	}
	return r
}

// RunSimulation is a convenience function for running a simulation with basic parameters
func RunSimulation(ctx context.Context, rounds int, botName string, seed int64, logger *log.Logger) (*statistics.Statistics, error) {
	return New(Config{
		Rounds: rounds,
		Bot:    botName,
		Seed:   seed,
		Bet:    10,
		Logger: logger,
	}).Run(ctx)
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics, botName string) {
	low, high := stats.ConfidenceInterval95()

	fmt.Fprintf(w, "\n=== FINAL RESULTS for %s-bot ===\n", botName)
	fmt.Fprintf(w, "Rounds played: %d (%d hands)\n", stats.Rounds, stats.Hands)
	fmt.Fprintf(w, "Total wagered: %d\n", stats.Staked)

	fmt.Fprintf(w, "\n=== STATISTICAL RESULTS ===\n")
	fmt.Fprintf(w, "Mean: %.4f chips/round\n", stats.Mean())
	fmt.Fprintf(w, "Median: %.4f chips/round\n", stats.Median())
	fmt.Fprintf(w, "Std Dev: %.4f chips\n", stats.StdDev())
	fmt.Fprintf(w, "Std Error: %.4f chips\n", stats.StdError())
	fmt.Fprintf(w, "95%% CI: [%.4f, %.4f] chips/round\n", low, high)
	fmt.Fprintf(w, "Return: %.3f%% of wagered\n", stats.Return()*100)

	fmt.Fprintf(w, "\n=== HAND BREAKDOWN ===\n")
	pct := func(n int) float64 {
		if stats.Hands == 0 {
			return 0
		}
		return float64(n) / float64(stats.Hands) * 100
	}
	fmt.Fprintf(w, "Wins: %d (%.1f%%)  Pushes: %d (%.1f%%)  Losses: %d (%.1f%%)\n",
		stats.Wins, pct(stats.Wins), stats.Pushes, pct(stats.Pushes), stats.Losses, pct(stats.Losses))
	fmt.Fprintf(w, "Busts: %d  Naturals: %d  Splits: %d  Doubles: %d  Rebuys: %d\n",
		stats.Busts, stats.Naturals, stats.Splits, stats.Doubles, stats.Rebuys)
	fmt.Fprintf(w, "Sanity check: %.0f + %.0f = %.0f (natural + played = total)\n",
		stats.NaturalNet, stats.PlayedNet, stats.AllNet)
}
