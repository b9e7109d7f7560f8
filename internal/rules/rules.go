// Package rules holds the pure blackjack scoring functions: hand totals with
// soft-ace reduction, split/double eligibility and winner determination.
package rules

import (
	"strconv"

	"github.com/lox/blackjack/internal/deck"
)

const (
	// Blackjack is the target total.
	Blackjack = 21
	// DealerStand is the total at which the dealer stops drawing.
	DealerStand = 17
	// BustDisplay is shown in place of a total above 21.
	BustDisplay = "BUST"
)

// cardValue maps a card to its base value. Aces count 11.
func cardValue(c deck.Card) int {
	switch r := c.Rank(); {
	case r == deck.Ace:
		return 11
	case r >= deck.Ten:
		return 10
	default:
		return int(r) + 1
	}
}

// evaluate returns the hand total and whether any ace reduction fired.
//
// The reduction loop runs exactly once per ace, subtracting 10 on each pass
// where the running total is above 21. A hand that is still above 21 after
// every ace is demoted stays bust.
func evaluate(cards []deck.Card) (total int, reduced bool) {
	aces := 0
	for _, c := range cards {
		if c.IsAce() {
			aces++
		}
		total += cardValue(c)
	}

	for i := 0; i < aces; i++ {
		if total > Blackjack {
			total -= 10
			reduced = true
		}
	}
	return total, reduced
}

// HandValue returns the blackjack total of cards
func HandValue(cards []deck.Card) int {
	total, _ := evaluate(cards)
	return total
}

// AcesReduced reports whether at least one ace was demoted from 11 to 1
func AcesReduced(cards []deck.Card) bool {
	_, reduced := evaluate(cards)
	return reduced
}

// IsBust reports whether the hand total exceeds 21
func IsBust(cards []deck.Card) bool {
	return HandValue(cards) > Blackjack
}

// CanSplit reports whether the hand is exactly two cards of equal rank
func CanSplit(cards []deck.Card) bool {
	return len(cards) == 2 && cards[0].Rank() == cards[1].Rank()
}

// CanDouble reports whether the hand totals 9, 10 or 11
func CanDouble(cards []deck.Card) bool {
	total := HandValue(cards)
	return total >= 9 && total <= 11
}

// HandValueDisplay returns the total as text, or BustDisplay above 21.
// An empty hand displays as the empty string.
func HandValueDisplay(cards []deck.Card) string {
	if len(cards) == 0 {
		return ""
	}
	total := HandValue(cards)
	if total > Blackjack {
		return BustDisplay
	}
	return strconv.Itoa(total)
}
