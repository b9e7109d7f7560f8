package game

import (
	"time"

	"github.com/lox/blackjack/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

const (
	EventTypeRoundStarted      EventType = "round_started"
	EventTypeBetChanged        EventType = "bet_changed"
	EventTypeBetConfirmed      EventType = "bet_confirmed"
	EventTypePhaseChanged      EventType = "phase_changed"
	EventTypeCardAdded         EventType = "card_added"
	EventTypeCardRemoved       EventType = "card_removed"
	EventTypeHandCleared       EventType = "hand_cleared"
	EventTypeDeckShuffled      EventType = "deck_shuffled"
	EventTypeHoleCardRevealed  EventType = "hole_card_revealed"
	EventTypeActiveHandChanged EventType = "active_hand_changed"
	EventTypeHandSplit         EventType = "hand_split"
	EventTypePotDoubled        EventType = "pot_doubled"
	EventTypeRoundResolved     EventType = "round_resolved"
	EventTypeInsufficientFunds EventType = "insufficient_funds"
	EventTypePurseReplenished  EventType = "purse_replenished"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything that happened inside the engine
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

type stamp struct {
	at time.Time
}

func (s stamp) Timestamp() time.Time { return s.at }

// RoundStartedEvent opens the betting phase of a new round
type RoundStartedEvent struct {
	stamp
	RoundID    string
	Purse      int
	PendingBet int
}

// BetChangedEvent reports a new pending bet during negotiation
type BetChangedEvent struct {
	stamp
	PendingBet int
}

// BetConfirmedEvent reports the bet moving from the purse into the pot
type BetConfirmedEvent struct {
	stamp
	Purse int
	Pot   int
}

// PhaseChangedEvent is published on every phase transition
type PhaseChangedEvent struct {
	stamp
	From Phase
	To   Phase
}

// CardAddedEvent mirrors deck.Listener.CardAdded. FaceDown marks the
// dealer's hole card, which a view should hide until HoleCardRevealedEvent.
type CardAddedEvent struct {
	stamp
	Hand     deck.StackID
	Card     deck.Card
	FaceDown bool
}

// CardRemovedEvent mirrors deck.Listener.CardRemoved
type CardRemovedEvent struct {
	stamp
	Hand deck.StackID
	Card deck.Card
}

// HandClearedEvent replaces per-card removals when a hand is bulk cleared
type HandClearedEvent struct {
	stamp
	Hand deck.StackID
}

// DeckShuffledEvent is published when the draw pile is recreated
type DeckShuffledEvent struct {
	stamp
	Cards int
}

// HoleCardRevealedEvent tells a view which dealer card to flip face up
type HoleCardRevealedEvent struct {
	stamp
	Card deck.Card
}

// ActiveHandChangedEvent reports which hand Hit and Stand now target
type ActiveHandChangedEvent struct {
	stamp
	Hand deck.StackID
}

// HandSplitEvent is published after a pair is split
type HandSplitEvent struct {
	stamp
	Purse int
	Pot   int
}

// PotDoubledEvent is published after a double down
type PotDoubledEvent struct {
	stamp
	Purse int
	Pot   int
}

// RoundResolvedEvent carries the settled round
type RoundResolvedEvent struct {
	stamp
	Outcome Outcome
}

// InsufficientFundsEvent is published when the purse cannot cover the
// minimum bet; the player must acknowledge with PlayAgain.
type InsufficientFundsEvent struct {
	stamp
	Purse int
}

// PurseReplenishedEvent is published when the purse is reset after going broke
type PurseReplenishedEvent struct {
	stamp
	Purse int
}

func (RoundStartedEvent) EventType() EventType      { return EventTypeRoundStarted }
func (BetChangedEvent) EventType() EventType        { return EventTypeBetChanged }
func (BetConfirmedEvent) EventType() EventType      { return EventTypeBetConfirmed }
func (PhaseChangedEvent) EventType() EventType      { return EventTypePhaseChanged }
func (CardAddedEvent) EventType() EventType         { return EventTypeCardAdded }
func (CardRemovedEvent) EventType() EventType       { return EventTypeCardRemoved }
func (HandClearedEvent) EventType() EventType       { return EventTypeHandCleared }
func (DeckShuffledEvent) EventType() EventType      { return EventTypeDeckShuffled }
func (HoleCardRevealedEvent) EventType() EventType  { return EventTypeHoleCardRevealed }
func (ActiveHandChangedEvent) EventType() EventType { return EventTypeActiveHandChanged }
func (HandSplitEvent) EventType() EventType         { return EventTypeHandSplit }
func (PotDoubledEvent) EventType() EventType        { return EventTypePotDoubled }
func (RoundResolvedEvent) EventType() EventType     { return EventTypeRoundResolved }
func (InsufficientFundsEvent) EventType() EventType { return EventTypeInsufficientFunds }
func (PurseReplenishedEvent) EventType() EventType  { return EventTypePurseReplenished }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber
type SubscriberFunc func(event GameEvent)

func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus. Delivery is synchronous
// and in subscription order.
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events. SubscriberFunc
// values are not comparable and cannot be unsubscribed.
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
