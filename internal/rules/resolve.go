package rules

// Multiplier is the factor the pot is multiplied by when paid back to the
// purse at the end of a round.
type Multiplier int

const (
	Loss    Multiplier = 0 // stake lost
	Push    Multiplier = 1 // stake returned
	Win     Multiplier = 2 // stake plus equal winnings
	Natural Multiplier = 3 // natural blackjack: stake plus double winnings
)

func (m Multiplier) String() string {
	switch m {
	case Loss:
		return "loss"
	case Push:
		return "push"
	case Win:
		return "win"
	case Natural:
		return "blackjack"
	default:
		return "unknown"
	}
}

// DetermineWinner compares a hand total against the final dealer total.
// Both busting is a push.
func DetermineWinner(dealer, hand int) Multiplier {
	switch {
	case dealer > Blackjack && hand > Blackjack:
		return Push
	case dealer > Blackjack:
		return Win
	case hand > Blackjack:
		return Loss
	case dealer == hand:
		return Push
	case dealer < hand:
		return Win
	default:
		return Loss
	}
}

// FindNatural checks the opening two-card totals for a 21. The second return
// value is false when neither side has one and play continues.
func FindNatural(dealer, player int) (Multiplier, bool) {
	switch {
	case dealer == Blackjack && player != Blackjack:
		return Loss, true
	case dealer == Blackjack && player == Blackjack:
		return Push, true
	case player == Blackjack:
		return Natural, true
	default:
		return Loss, false
	}
}
