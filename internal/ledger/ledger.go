// Package ledger tracks the player's money for a round: the purse, the pot
// at risk and the bet being negotiated before it is confirmed.
package ledger

import "github.com/lox/blackjack/internal/rules"

const (
	// MinBet is the opening pending bet and the smallest purse that can play a round.
	MinBet = 10
	// MaxBet is the ceiling for a single confirmed bet.
	MaxBet = 100
	// StartingPurse is the bankroll at process start and after a replenish.
	StartingPurse = 500
)

// Ledger holds purse, pot and pending bet. It is owned by the game engine.
type Ledger struct {
	purse   int
	pot     int
	pending int
	wagered int
}

// New creates a ledger with the given purse
func New(purse int) *Ledger {
	return &Ledger{purse: purse}
}

func (l *Ledger) Purse() int      { return l.purse }
func (l *Ledger) Pot() int        { return l.pot }
func (l *Ledger) PendingBet() int { return l.pending }

// Wagered returns what the purse has paid into the current round
func (l *Ledger) Wagered() int { return l.wagered }

// InitializeBet starts negotiation at the minimum bet
func (l *Ledger) InitializeBet() {
	l.pending = MinBet
}

// RaiseBet adds amount to the pending bet and clamps it to the purse and to
// MaxBet. Non-positive amounts leave the bet unchanged. Returns the new
// pending bet.
func (l *Ledger) RaiseBet(amount int) int {
	if amount <= 0 {
		return l.pending
	}
	l.pending += amount
	l.pending = min(l.pending, l.purse, MaxBet)
	return l.pending
}

// ConfirmBet moves the pending bet from the purse into the pot and returns
// the new purse.
func (l *Ledger) ConfirmBet() int {
	bet := min(l.pending, l.purse)
	l.purse -= bet
	l.pot = bet
	l.wagered = bet
	return l.purse
}

// CanCoverPot reports whether the purse can match the pot once more, which
// a split requires.
func (l *Ledger) CanCoverPot() bool {
	return l.pot > 0 && l.purse >= l.pot
}

// Split debits the purse by the pot so the second hand carries the same
// stake. The pot stays the per-hand stake.
func (l *Ledger) Split() {
	l.purse -= l.pot
	l.wagered += l.pot
}

// Double doubles the pot. The purse is not debited.
func (l *Ledger) Double() {
	l.pot *= 2
}

// Payout credits pot × m to the purse and returns the amount credited.
func (l *Ledger) Payout(m rules.Multiplier) int {
	amount := l.pot * int(m)
	l.purse += amount
	return amount
}

// ClearPot drops the settled pot before a new round
func (l *Ledger) ClearPot() {
	l.pot = 0
	l.wagered = 0
}

// Insufficient reports whether the purse is below the minimum bet
func (l *Ledger) Insufficient() bool {
	return l.purse < MinBet
}

// Replenish resets the purse to the starting bankroll
func (l *Ledger) Replenish() {
	l.purse = StartingPurse
	l.pot = 0
	l.wagered = 0
}
