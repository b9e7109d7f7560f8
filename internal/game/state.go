package game

import "github.com/lox/blackjack/internal/deck"

// Phase is the round's position in the betting/dealing/playing cycle
type Phase int

const (
	Betting Phase = iota
	Dealing
	PlayerTurn
	SideHandTurn
	DealerTurn
	Resolved
)

func (p Phase) String() string {
	switch p {
	case Betting:
		return "betting"
	case Dealing:
		return "dealing"
	case PlayerTurn:
		return "player_turn"
	case SideHandTurn:
		return "side_hand_turn"
	case DealerTurn:
		return "dealer_turn"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// RoundState is the per-round bookkeeping that sits beside the stacks and
// the ledger. Commands are applied to a copy, which replaces the engine's
// state only when the command completes.
type RoundState struct {
	Phase   Phase
	RoundID string

	// SplitActive is set once the player's pair has been split.
	SplitActive bool
	// SideHandActive routes Hit and Stand to the side hand.
	SideHandActive bool
	// FirstDecision is true until the player's first hit, stand, split or
	// double. Split and double are only offered as a first decision.
	FirstDecision bool
	Doubled       bool

	// HoleCard is the dealer's first card, dealt face down.
	HoleCard     deck.Card
	HoleDealt    bool
	HoleRevealed bool

	// Natural is set when the round ended on the opening deal.
	Natural bool
	// InsufficientFunds is the terminal sub-state entered when the purse
	// cannot cover the minimum bet; the next PlayAgain replenishes it.
	InsufficientFunds bool
}

// ActiveHand returns the stack that Hit, Stand and Double target, or the
// empty StackID outside the player's turn.
func (s RoundState) ActiveHand() deck.StackID {
	switch s.Phase {
	case PlayerTurn:
		return deck.Player
	case SideHandTurn:
		return deck.SideHand
	default:
		return ""
	}
}
