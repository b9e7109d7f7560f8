// Package bot provides automated players that drive a game.Engine through
// its public command surface, using only the read-only queries a view would
// use.
package bot

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/ledger"
	"github.com/lox/blackjack/internal/rules"
)

// View is the query surface a bot decides from. *game.Engine satisfies it.
type View interface {
	Phase() game.Phase
	Purse() int
	PendingBet() int
	ActiveHand() deck.StackID
	Cards(id deck.StackID) []deck.Card
	HandValue(id deck.StackID) int
	CanSplit() bool
	CanDouble() bool
	HoleCard() (card deck.Card, revealed bool, ok bool)
}

// Decision is a command plus the reason it was chosen
type Decision struct {
	Command   game.Command
	Reasoning string
}

// Bot chooses a playing decision during the player's turn. It is only asked
// while View.Phase() is PlayerTurn or SideHandTurn.
type Bot interface {
	MakeDecision(view View) Decision
}

var factories = map[string]func(*log.Logger) Bot{
	"basic":  func(l *log.Logger) Bot { return NewBasicBot(l) },
	"dealer": func(l *log.Logger) Bot { return NewDealerBot(l) },
	"stand":  func(l *log.Logger) Bot { return NewStandBot(l) },
}

// New returns the named bot
func New(name string, logger *log.Logger) (Bot, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown bot %q (available: %v)", name, Names())
	}
	return factory(logger), nil
}

// Names lists the registered bots in sorted order
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Player wraps a Bot with the betting and between-round decisions, so a
// caller can loop on Next until it has played enough rounds.
type Player struct {
	bot    Bot
	bet    int
	logger *log.Logger
}

// NewPlayer creates a player that stakes bet on every round. The bet is
// clamped by the ledger like any other raise.
func NewPlayer(b Bot, bet int, logger *log.Logger) *Player {
	return &Player{
		bot:    b,
		bet:    max(bet, ledger.MinBet),
		logger: logger.WithPrefix("bot"),
	}
}

// Next returns the command to issue in the current state
func (p *Player) Next(view View) Decision {
	switch view.Phase() {
	case game.Betting:
		return p.placeBet(view)
	case game.PlayerTurn, game.SideHandTurn:
		d := p.bot.MakeDecision(view)
		p.logger.Debug("Bot decision",
			"hand", view.ActiveHand(),
			"total", view.HandValue(view.ActiveHand()),
			"command", d.Command,
			"reasoning", d.Reasoning)
		return d
	default:
		return Decision{Command: game.Command{Kind: game.PlayAgain}, Reasoning: "round over"}
	}
}

// placeBet raises toward the target bet with the largest step that fits,
// and confirms once the remaining gap is smaller than any raise.
func (p *Player) placeBet(view View) Decision {
	pending := view.PendingBet()
	ceiling := min(p.bet, view.Purse(), ledger.MaxBet)
	gap := ceiling - pending
	if gap < game.RaiseAmounts[0] {
		return Decision{Command: game.Command{Kind: game.SetBet}, Reasoning: fmt.Sprintf("betting %d", pending)}
	}

	step := game.RaiseAmounts[0]
	for _, amount := range game.RaiseAmounts {
		if amount <= gap {
			step = amount
		}
	}
	return Decision{Command: game.Raise(step), Reasoning: fmt.Sprintf("raising toward %d", ceiling)}
}

// upcard returns the dealer's visible card
func upcard(view View) (deck.Card, bool) {
	hole, revealed, dealt := view.HoleCard()
	for _, c := range view.Cards(deck.Dealer) {
		if dealt && !revealed && c == hole {
			continue
		}
		return c, true
	}
	return 0, false
}

// upcardValue returns the blackjack value of the dealer's visible card, with
// an ace counted as 11.
func upcardValue(view View) int {
	c, ok := upcard(view)
	if !ok {
		return 0
	}
	return rules.HandValue([]deck.Card{c})
}

func hit(reason string) Decision {
	return Decision{Command: game.Command{Kind: game.Hit}, Reasoning: reason}
}

func stand(reason string) Decision {
	return Decision{Command: game.Command{Kind: game.Stand}, Reasoning: reason}
}
