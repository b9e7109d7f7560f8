package game

import (
	"fmt"

	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/rules"
)

// HandResult is the settlement of one player hand
type HandResult struct {
	Hand       deck.StackID     `json:"hand"`
	Cards      []deck.Card      `json:"cards"`
	Total      int              `json:"total"`
	Multiplier rules.Multiplier `json:"multiplier"`
	Paid       int              `json:"paid"`
}

// Outcome summarises a resolved round
type Outcome struct {
	RoundID     string       `json:"round_id"`
	Stake       int          `json:"stake"`   // pot per hand at settlement
	Wagered     int          `json:"wagered"` // taken from the purse this round
	Natural     bool         `json:"natural"`
	Split       bool         `json:"split"`
	Doubled     bool         `json:"doubled"`
	DealerCards []deck.Card  `json:"dealer_cards"`
	DealerTotal int          `json:"dealer_total"`
	Hands       []HandResult `json:"hands"`
	Purse       int          `json:"purse"` // purse after payout
}

// Paid returns the total credited back to the purse
func (o Outcome) Paid() int {
	paid := 0
	for _, h := range o.Hands {
		paid += h.Paid
	}
	return paid
}

// Staked returns what the purse paid into the round. A double raises the
// stake without a purse debit, so this can be less than Stake per hand.
func (o Outcome) Staked() int {
	return o.Wagered
}

// Net returns the round's profit or loss
func (o Outcome) Net() int {
	return o.Paid() - o.Staked()
}

// Summary renders the result line shown to the player
func (o Outcome) Summary() string {
	paid := o.Paid()
	if paid == 0 {
		return "You lost your bet."
	}
	return fmt.Sprintf("$%d paid out", paid)
}
