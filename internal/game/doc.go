// Package game implements the blackjack round state machine.
//
// The main type is Engine, which owns the draw pile, the dealer's hand, the
// player's hand, the side hand created by a split, the discard pile and the
// betting ledger. It advances strictly through discrete commands; each
// command runs to completion before the next is accepted.
//
// # Basic Usage
//
//	e := game.NewEngine(game.WithLogger(logger), game.WithRNG(randutil.New(42)))
//	e.RaiseBet(20)
//	events, err := e.SetBet()
//	for e.Phase() == game.PlayerTurn || e.Phase() == game.SideHandTurn {
//	    events, err = e.Stand()
//	}
//	if outcome, ok := e.LastOutcome(); ok {
//	    fmt.Println(outcome.Summary())
//	}
//
// # Views
//
// A view keeps itself in sync from two sources:
//   - events: every command returns the events it produced, in order, and
//     publishes each one on the EventBus at the point of mutation. Card
//     events (CardAddedEvent, CardRemovedEvent, HandClearedEvent) mirror the
//     contents of every stack.
//   - queries: HandValueDisplay, AcesReduced, CardCount, CanSplit, CanDouble,
//     Purse, Pot and friends are read-only and safe to poll after any command.
//
// Commands issued outside their phase return ErrIllegalCommand and leave the
// engine untouched.
//
// # Deterministic Testing
//
// Inject the RNG with WithRNG, or rig the deal with WithDeckOrder, which puts
// the given cards on top of the draw pile:
//
//	e := game.NewEngine(game.WithDeckOrder(deck.MustParseCards("TsKhQd7c")...))
package game
