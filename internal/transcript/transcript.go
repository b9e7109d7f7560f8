// Package transcript records resolved rounds from the engine's event bus and
// writes them out as JSON. The file is an output log only; nothing reads it
// back.
package transcript

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/fileutil"
	"github.com/lox/blackjack/internal/game"
)

// Hand is one settled player hand
type Hand struct {
	Hand       string   `json:"hand"`
	Cards      []string `json:"cards"`
	Total      int      `json:"total"`
	Result     string   `json:"result"`
	Multiplier int      `json:"multiplier"`
	Paid       int      `json:"paid"`
}

// Entry is one resolved round
type Entry struct {
	RoundID     string    `json:"round_id"`
	ResolvedAt  time.Time `json:"resolved_at"`
	Stake       int       `json:"stake"`
	Natural     bool      `json:"natural,omitempty"`
	Split       bool      `json:"split,omitempty"`
	Doubled     bool      `json:"doubled,omitempty"`
	DealerCards []string  `json:"dealer_cards"`
	DealerTotal int       `json:"dealer_total"`
	Hands       []Hand    `json:"hands"`
	Net         int       `json:"net"`
	Purse       int       `json:"purse"`
	Summary     string    `json:"summary"`
}

// Transcript is the file layout
type Transcript struct {
	Seed      int64     `json:"seed"`
	StartedAt time.Time `json:"started_at"`
	Rebuys    int       `json:"rebuys"`
	Rounds    []Entry   `json:"rounds"`
}

// Recorder is a game.EventSubscriber that keeps one Entry per resolved round
type Recorder struct {
	mu        sync.Mutex
	seed      int64
	startedAt time.Time
	rebuys    int
	entries   []Entry
	logger    *log.Logger
}

// NewRecorder creates a recorder for a session started at startedAt
func NewRecorder(seed int64, startedAt time.Time, logger *log.Logger) *Recorder {
	return &Recorder{
		seed:      seed,
		startedAt: startedAt,
		logger:    logger.WithPrefix("transcript"),
	}
}

// OnEvent implements game.EventSubscriber
func (r *Recorder) OnEvent(event game.GameEvent) {
	switch ev := event.(type) {
	case game.RoundResolvedEvent:
		entry := newEntry(ev.Outcome, ev.Timestamp())
		r.mu.Lock()
		r.entries = append(r.entries, entry)
		r.mu.Unlock()
		r.logger.Debug("Recorded round", "round", entry.RoundID, "net", entry.Net)
	case game.PurseReplenishedEvent:
		r.mu.Lock()
		r.rebuys++
		r.mu.Unlock()
	}
}

// Entries returns a copy of the recorded rounds
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Snapshot returns the transcript as it would be written now
func (r *Recorder) Snapshot() Transcript {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Transcript{
		Seed:      r.seed,
		StartedAt: r.startedAt,
		Rebuys:    r.rebuys,
		Rounds:    append([]Entry{}, r.entries...),
	}
}

// WriteFile writes the transcript to path atomically
func (r *Recorder) WriteFile(path string) error {
	t := r.Snapshot()
	if err := fileutil.WriteJSONAtomic(path, t); err != nil {
		return err
	}
	r.logger.Info("Wrote transcript", "path", path, "rounds", len(t.Rounds))
	return nil
}

func newEntry(o game.Outcome, at time.Time) Entry {
	e := Entry{
		RoundID:     o.RoundID,
		ResolvedAt:  at,
		Stake:       o.Stake,
		Natural:     o.Natural,
		Split:       o.Split,
		Doubled:     o.Doubled,
		DealerCards: cardStrings(o.DealerCards),
		DealerTotal: o.DealerTotal,
		Net:         o.Net(),
		Purse:       o.Purse,
		Summary:     o.Summary(),
	}
	for _, h := range o.Hands {
		e.Hands = append(e.Hands, Hand{
			Hand:       h.Hand.String(),
			Cards:      cardStrings(h.Cards),
			Total:      h.Total,
			Result:     h.Multiplier.String(),
			Multiplier: int(h.Multiplier),
			Paid:       h.Paid,
		})
	}
	return e
}

func cardStrings(cards []deck.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
