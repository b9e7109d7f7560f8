package deck

import (
	"fmt"
	"strings"
)

// NumCards is the size of a full deck. Card identifiers run from 0 to NumCards-1.
const NumCards = 52

// Suit represents a card suit. Suits are cosmetic; no rule depends on them.
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank is a card's position within its suit: 0 is the Ace, 1-8 are the
// deuce through nine, 9-12 are the ten and the face cards.
type Rank int

const (
	Ace Rank = iota
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

const rankSymbols = "A23456789TJQK"

// String returns the string representation of a rank
func (r Rank) String() string {
	if r < Ace || r > King {
		return "?"
	}
	return string(rankSymbols[r])
}

// Card is a card identifier in [0, NumCards).
type Card int

// NewCard creates the card identifier for a suit and rank
func NewCard(suit Suit, rank Rank) Card {
	return Card(int(suit)*13 + int(rank))
}

// Rank returns id mod 13
func (c Card) Rank() Rank {
	return Rank(int(c) % 13)
}

// Suit returns id div 13
func (c Card) Suit() Suit {
	return Suit(int(c) / 13)
}

// Valid reports whether the identifier is inside the deck range
func (c Card) Valid() bool {
	return c >= 0 && c < NumCards
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank() == Ace
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit().IsRed()
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return c.Rank().String() + c.Suit().String()
}

// ParseCard parses a two character card such as "As" or "td".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card string: %q", s)
	}

	rank := strings.IndexByte(rankSymbols, strings.ToUpper(s[:1])[0])
	if rank < 0 {
		return 0, fmt.Errorf("invalid rank: %c", s[0])
	}

	var suit Suit
	switch s[1] {
	case 's', 'S':
		suit = Spades
	case 'h', 'H':
		suit = Hearts
	case 'd', 'D':
		suit = Diamonds
	case 'c', 'C':
		suit = Clubs
	default:
		return 0, fmt.Errorf("invalid suit: %c", s[1])
	}

	return NewCard(suit, Rank(rank)), nil
}

// ParseCards parses a run of two character cards, e.g. "AsKd9c".
func ParseCards(s string) ([]Card, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string length: %d", len(s))
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is ParseCards for tests and fixtures; it panics on bad input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}
