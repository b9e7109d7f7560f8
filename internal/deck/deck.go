package deck

import (
	"errors"
	rand "math/rand/v2"
)

var (
	// ErrEmptyHand is returned when drawing from a stack with no cards.
	ErrEmptyHand = errors.New("deck: hand is empty")
	// ErrIndexOutOfRange is returned when drawing a position the stack does not hold.
	ErrIndexOutOfRange = errors.New("deck: index out of range")
)

// StackID names one of the card stacks owned by the game.
type StackID string

const (
	DeckID   StackID = "deck"
	Dealer   StackID = "dealer"
	Player   StackID = "player"
	SideHand StackID = "side"
	Discard  StackID = "discard"
)

func (id StackID) String() string {
	return string(id)
}

// Listener receives card notifications from a stack. Calls are synchronous
// and happen at the point of mutation, in mutation order. A move between
// stacks notifies the source's removal before the destination's addition.
type Listener interface {
	CardAdded(id StackID, card Card)
	CardRemoved(id StackID, card Card)
}

// Stack is an ordered collection of card identifiers. Insertion order is
// deal order. The draw pile and every hand are stacks.
type Stack struct {
	id        StackID
	cards     []Card
	listeners []Listener
}

// NewStack creates a stack holding the given cards in order. No
// notifications are emitted for the initial contents.
func NewStack(id StackID, cards ...Card) *Stack {
	s := &Stack{
		id:    id,
		cards: make([]Card, 0, NumCards),
	}
	s.cards = append(s.cards, cards...)
	return s
}

// ID returns the stack's identifier
func (s *Stack) ID() StackID {
	return s.id
}

// AddListener registers l for card notifications
func (s *Stack) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

// CreateDeck refills the stack with identifiers 0..51 and shuffles it.
func (s *Stack) CreateDeck(rng *rand.Rand) {
	s.cards = s.cards[:0]
	for i := 0; i < NumCards; i++ {
		s.cards = append(s.cards, Card(i))
	}
	s.Shuffle(rng)
}

// Shuffle permutes the stack in place with Fisher–Yates.
func (s *Stack) Shuffle(rng *rand.Rand) {
	for n := len(s.cards); n > 1; n-- {
		k := rng.IntN(n)
		s.cards[k], s.cards[n-1] = s.cards[n-1], s.cards[k]
	}
}

// Front returns the first card without removing it
func (s *Stack) Front() (Card, bool) {
	if len(s.cards) == 0 {
		return 0, false
	}
	return s.cards[0], true
}

// DrawFront moves the first card to the end of dst and returns it.
func (s *Stack) DrawFront(dst *Stack) (Card, error) {
	if len(s.cards) == 0 {
		return 0, ErrEmptyHand
	}
	return s.moveTo(0, dst), nil
}

// DrawSecond moves the card at position 1 to the end of dst. It is only used
// to pull the second dealt card out of a hand that is being split.
func (s *Stack) DrawSecond(dst *Stack) (Card, error) {
	switch len(s.cards) {
	case 0:
		return 0, ErrEmptyHand
	case 1:
		return 0, ErrIndexOutOfRange
	}
	return s.moveTo(1, dst), nil
}

// Reset bulk-clears the stack without per-card notifications and returns the
// cards it held.
func (s *Stack) Reset() []Card {
	cleared := make([]Card, len(s.cards))
	copy(cleared, s.cards)
	s.cards = s.cards[:0]
	return cleared
}

// Absorb appends cards without notifications. Used for the discard pile.
func (s *Stack) Absorb(cards ...Card) {
	s.cards = append(s.cards, cards...)
}

// Count returns the number of cards held
func (s *Stack) Count() int {
	return len(s.cards)
}

// Cards returns a copy of the stack's cards in order
func (s *Stack) Cards() []Card {
	cards := make([]Card, len(s.cards))
	copy(cards, s.cards)
	return cards
}

// moveTo appends the card at position i to dst. Both stacks are updated
// before any listener runs, so a card is never observed outside a stack.
func (s *Stack) moveTo(i int, dst *Stack) Card {
	card := s.cards[i]
	s.cards = append(s.cards[:i], s.cards[i+1:]...)
	dst.cards = append(dst.cards, card)

	for _, l := range s.listeners {
		l.CardRemoved(s.id, card)
	}
	for _, l := range dst.listeners {
		l.CardAdded(dst.id, card)
	}
	return card
}
