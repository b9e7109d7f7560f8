package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
)

const aceValue = 11

// BasicBot plays a simplified basic strategy: hard totals against the
// dealer's upcard, the standard pair splits and doubles on 9 to 11.
type BasicBot struct {
	logger *log.Logger
}

// NewBasicBot creates a new BasicBot instance
func NewBasicBot(logger *log.Logger) *BasicBot {
	return &BasicBot{logger: logger}
}

func (b *BasicBot) MakeDecision(view View) Decision {
	hand := view.ActiveHand()
	cards := view.Cards(hand)
	total := view.HandValue(hand)
	up := upcardValue(view)

	if view.CanSplit() && shouldSplit(cards[0].Rank(), up) {
		return Decision{Command: game.Command{Kind: game.Split}, Reasoning: "splitting " + cards[0].Rank().String() + "s"}
	}
	if view.CanDouble() && shouldDouble(total, up) {
		return Decision{Command: game.Command{Kind: game.Double}, Reasoning: "doubling"}
	}

	switch {
	case total >= 17:
		return stand("standing on 17+")
	case total >= 13 && up <= 6:
		return stand("dealer showing a bust card")
	case total == 12 && up >= 4 && up <= 6:
		return stand("twelve against a weak upcard")
	default:
		return hit("drawing to improve")
	}
}

func shouldSplit(rank deck.Rank, up int) bool {
	switch rank {
	case deck.Ace, deck.Eight:
		return true
	case deck.Two, deck.Three, deck.Six, deck.Seven:
		return up <= 7
	case deck.Nine:
		return up <= 9 && up != 7
	default:
		// Fours, fives and ten-value pairs play better as a single hand.
		return false
	}
}

func shouldDouble(total, up int) bool {
	switch total {
	case 11:
		return up < aceValue
	case 10:
		return up <= 9
	case 9:
		return up >= 3 && up <= 6
	}
	return false
}
