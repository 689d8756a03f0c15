package poker

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrInvalidRank is returned when a rank falls outside [MinRank, MaxRank].
	ErrInvalidRank = errors.New("invalid rank")
	// ErrInvalidSuit is returned for a suit outside the four standard suits.
	ErrInvalidSuit = errors.New("invalid suit")
)

const (
	MinRank = 1 // Ace
	MaxRank = 13
)

// Suit represents a card suit
type Suit int

const (
	Spade Suit = iota
	Clover
	Heart
	Diamond
)

// NumSuits is the number of suits in a standard deck.
const NumSuits = 4

// Suits returns the four suits in deck order.
func Suits() []Suit {
	return []Suit{Spade, Clover, Heart, Diamond}
}

// String returns the suit name
func (s Suit) String() string {
	switch s {
	case Spade:
		return "Spade"
	case Clover:
		return "Clover"
	case Heart:
		return "Heart"
	case Diamond:
		return "Diamond"
	default:
		return "Unknown"
	}
}

// Letter returns the first letter of the suit name, used in card notation.
func (s Suit) Letter() byte {
	switch s {
	case Spade:
		return 'S'
	case Clover:
		return 'C'
	case Heart:
		return 'H'
	case Diamond:
		return 'D'
	default:
		return '?'
	}
}

func (s Suit) valid() bool {
	return s >= Spade && s <= Diamond
}

// Card is an immutable playing card. Rank 1 is the Ace.
type Card struct {
	suit Suit
	rank int
}

// NewCard creates a card, rejecting ranks outside [1,13].
func NewCard(suit Suit, rank int) (Card, error) {
	if rank < MinRank || rank > MaxRank {
		return Card{}, fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidRank, rank, MinRank, MaxRank)
	}
	if !suit.valid() {
		return Card{}, fmt.Errorf("%w: %d", ErrInvalidSuit, int(suit))
	}
	return Card{suit: suit, rank: rank}, nil
}

// MustCard is like NewCard but panics on error.
func MustCard(suit Suit, rank int) Card {
	c, err := NewCard(suit, rank)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Card) Suit() Suit { return c.suit }
func (c Card) Rank() int  { return c.rank }

// IsAce reports whether the card is an Ace.
func (c Card) IsAce() bool { return c.rank == MinRank }

// String renders the suit letter followed by the rank, e.g. "S1" or "D13".
func (c Card) String() string {
	return string(c.suit.Letter()) + strconv.Itoa(c.rank)
}

// ParseCard parses the notation produced by Card.String. Case-insensitive.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Card{}, fmt.Errorf("card %q too short", s)
	}

	var suit Suit
	switch unicode.ToUpper(rune(s[0])) {
	case 'S':
		suit = Spade
	case 'C':
		suit = Clover
	case 'H':
		suit = Heart
	case 'D':
		suit = Diamond
	default:
		return Card{}, fmt.Errorf("card %q: %w: %q", s, ErrInvalidSuit, s[0])
	}

	rank, err := strconv.Atoi(s[1:])
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w: %v", s, ErrInvalidRank, err)
	}

	card, err := NewCard(suit, rank)
	if err != nil {
		return Card{}, fmt.Errorf("card %q: %w", s, err)
	}
	return card, nil
}

// ParseCards parses a list of cards separated by whitespace, commas or
// brackets, so both "S1 H10" and "[S1][H10]" are accepted.
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '[' || r == ']'
	})

	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		card, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// SortByRank stable-sorts cards by ascending rank in place.
func SortByRank(cards []Card) {
	slices.SortStableFunc(cards, func(a, b Card) int {
		return a.rank - b.rank
	})
}

// FormatHand renders cards as "[S1][H2]...".
func FormatHand(cards []Card) string {
	var b strings.Builder
	b.Grow(len(cards) * 5)
	for _, c := range cards {
		b.WriteByte('[')
		b.WriteString(c.String())
		b.WriteByte(']')
	}
	return b.String()
}
