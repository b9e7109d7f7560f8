package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/rules"
)

// State returns a copy of the current round state
func (e *Engine) State() RoundState {
	return e.state
}

// Phase returns the current phase
func (e *Engine) Phase() Phase {
	return e.state.Phase
}

func (e *Engine) Purse() int      { return e.ledger.Purse() }
func (e *Engine) Pot() int        { return e.ledger.Pot() }
func (e *Engine) PendingBet() int { return e.ledger.PendingBet() }

// Cards returns a copy of a stack's cards. Unknown ids return nil.
func (e *Engine) Cards(id deck.StackID) []deck.Card {
	s, ok := e.stacks[id]
	if !ok {
		return nil
	}
	return s.Cards()
}

// CardCount returns the number of cards in a stack
func (e *Engine) CardCount(id deck.StackID) int {
	s, ok := e.stacks[id]
	if !ok {
		return 0
	}
	return s.Count()
}

// CardsRemaining returns the size of the draw pile
func (e *Engine) CardsRemaining() int {
	return e.CardCount(deck.DeckID)
}

// HandValue returns the blackjack total of a stack
func (e *Engine) HandValue(id deck.StackID) int {
	return rules.HandValue(e.Cards(id))
}

// HandValueDisplay returns the total as text, or "BUST" above 21
func (e *Engine) HandValueDisplay(id deck.StackID) string {
	return rules.HandValueDisplay(e.Cards(id))
}

// AcesReduced reports whether a soft ace in the stack was counted as 1
func (e *Engine) AcesReduced(id deck.StackID) bool {
	return rules.AcesReduced(e.Cards(id))
}

// CanSplit reports whether Split would be accepted now
func (e *Engine) CanSplit() bool {
	return e.isLegal(Split)
}

// CanDouble reports whether Double would be accepted now
func (e *Engine) CanDouble() bool {
	return e.isLegal(Double)
}

// LegalCommands lists the commands accepted in the current state
func (e *Engine) LegalCommands() []CommandKind {
	var legal []CommandKind
	for k := SetBet; k <= PlayAgain; k++ {
		if e.isLegal(k) {
			legal = append(legal, k)
		}
	}
	return legal
}

// ActiveHand returns the hand Hit and Stand target, or "" outside the
// player's turn
func (e *Engine) ActiveHand() deck.StackID {
	return e.state.ActiveHand()
}

// SplitActive reports whether the current round has been split
func (e *Engine) SplitActive() bool {
	return e.state.SplitActive
}

// HoleCard returns the dealer's face-down card and whether it has been
// revealed. ok is false before the deal.
func (e *Engine) HoleCard() (card deck.Card, revealed bool, ok bool) {
	s := e.state
	return s.HoleCard, s.HoleRevealed, s.HoleDealt
}

// InsufficientFunds reports whether the engine is waiting for the player to
// acknowledge going broke
func (e *Engine) InsufficientFunds() bool {
	return e.state.InsufficientFunds
}

// LastOutcome returns the most recently resolved round
func (e *Engine) LastOutcome() (Outcome, bool) {
	if e.last == nil {
		return Outcome{}, false
	}
	return *e.last, true
}

// CheckCards verifies that every card identifier is held by exactly one
// stack.
func (e *Engine) CheckCards() error {
	seen := make(map[deck.Card]deck.StackID, deck.NumCards)
	for id, s := range e.stacks {
		for _, c := range s.Cards() {
			if !c.Valid() {
				return fmt.Errorf("invalid card %d in %s", c, id)
			}
			if prev, dup := seen[c]; dup {
				return fmt.Errorf("card %s held by both %s and %s", c, prev, id)
			}
			seen[c] = id
		}
	}
	if len(seen) != deck.NumCards {
		return fmt.Errorf("expected %d cards across stacks, found %d", deck.NumCards, len(seen))
	}
	return nil
}
