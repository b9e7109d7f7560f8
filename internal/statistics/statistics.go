package statistics

import (
	"fmt"
	"math"
	"sort"
)

// RoundResult represents the outcome of a single blackjack round from the
// player's side
type RoundResult struct {
	Net     int  // Purse change over the round, in chips
	Staked  int  // Total wagered across all hands
	Natural bool // Round ended on the opening deal
	Split   bool
	Doubled bool
	Wins    int // Hands that beat the dealer, naturals included
	Pushes  int
	Losses  int
	Busts   int  // Player hands that went over 21
	Rebuy   bool // Purse was replenished after this round
}

// Hands returns the number of player hands settled in the round
func (r RoundResult) Hands() int {
	return r.Wins + r.Pushes + r.Losses
}

// Statistics tracks blackjack simulation results
type Statistics struct {
	Rounds  int
	SumNet  float64
	SumNet2 float64   // Sum of squares for variance calculation
	Values  []float64 // Store all values for median/percentile calculation

	Staked int

	// Per-hand tallies; a split round contributes two hands
	Hands  int
	Wins   int
	Pushes int
	Losses int
	Busts  int

	Naturals int
	Splits   int
	Doubles  int
	Rebuys   int

	// Net split by how the round ended, for the ledger check
	NaturalNet float64 // Rounds settled on the deal
	PlayedNet  float64 // Rounds that reached a player decision
	AllNet     float64 // Total for sanity check
}

// Mean returns the arithmetic mean net result per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumNet / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumNet2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Return returns net result as a fraction of the total amount wagered. A
// negative value is the house edge the strategy played into.
func (s *Statistics) Return() float64 {
	if s.Staked == 0 {
		return 0
	}
	return s.AllNet / float64(s.Staked)
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	net := float64(result.Net)
	s.Rounds++
	s.SumNet += net
	s.SumNet2 += net * net
	s.Values = append(s.Values, net)
	s.Staked += result.Staked

	s.Hands += result.Hands()
	s.Wins += result.Wins
	s.Pushes += result.Pushes
	s.Losses += result.Losses
	s.Busts += result.Busts

	if result.Natural {
		s.Naturals++
		s.NaturalNet += net
	} else {
		s.PlayedNet += net
	}
	s.AllNet += net

	if result.Split {
		s.Splits++
	}
	if result.Doubled {
		s.Doubles++
	}
	if result.Rebuy {
		s.Rebuys++
	}
}

// Merge folds other into s. Values are appended in other's order, so merging
// workers in a fixed order gives a deterministic result.
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumNet += other.SumNet
	s.SumNet2 += other.SumNet2
	s.Values = append(s.Values, other.Values...)
	s.Staked += other.Staked

	s.Hands += other.Hands
	s.Wins += other.Wins
	s.Pushes += other.Pushes
	s.Losses += other.Losses
	s.Busts += other.Busts

	s.Naturals += other.Naturals
	s.Splits += other.Splits
	s.Doubles += other.Doubles
	s.Rebuys += other.Rebuys

	s.NaturalNet += other.NaturalNet
	s.PlayedNet += other.PlayedNet
	s.AllNet += other.AllNet
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// WinRate returns the fraction of settled hands that won
func (s *Statistics) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Hands)
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllNet-s.NaturalNet-s.PlayedNet) <= 1e-6 &&
		math.Abs(s.AllNet-s.SumNet) <= 1e-6
}

// Validate performs comprehensive validation of statistics data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.2f, NaturalNet=%.2f, PlayedNet=%.2f, SumNet=%.2f",
			s.AllNet, s.NaturalNet, s.PlayedNet, s.SumNet)
	}

	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}

	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}

	if settled := s.Wins + s.Pushes + s.Losses; settled != s.Hands {
		return fmt.Errorf("wins+pushes+losses (%d) does not match hands (%d)", settled, s.Hands)
	}

	if s.Hands != s.Rounds+s.Splits {
		return fmt.Errorf("hands (%d) should equal rounds (%d) plus splits (%d)", s.Hands, s.Rounds, s.Splits)
	}

	if s.Busts > s.Losses+s.Pushes {
		return fmt.Errorf("busts (%d) exceed losing and pushed hands (%d)", s.Busts, s.Losses+s.Pushes)
	}

	return nil
}
