package bot

import (
	"github.com/charmbracelet/log"

	"github.com/lox/blackjack/internal/rules"
)

// DealerBot mimics the house: hit below 17, never split or double
type DealerBot struct {
	logger *log.Logger
}

// NewDealerBot creates a new DealerBot instance
func NewDealerBot(logger *log.Logger) *DealerBot {
	return &DealerBot{logger: logger}
}

func (d *DealerBot) MakeDecision(view View) Decision {
	if view.HandValue(view.ActiveHand()) < rules.DealerStand {
		return hit("dealer-bot hitting below 17")
	}
	return stand("dealer-bot standing")
}
