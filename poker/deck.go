package poker

import (
	"fmt"
	"strings"

	"github.com/lox/pokerprobability/internal/shuffle"
)

const (
	// DeckSize is the number of cards in a standard deck
	DeckSize = NumSuits * MaxRank
	// HandSize is the number of cards drawn per trial
	HandSize = 5
)

// Source is the random source used for sampling. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}

// Deck is an ordered sequence of cards. It is read-only while sampling.
type Deck []Card

// FullDeck returns the 52 standard cards, suit-major and rank-ascending.
func FullDeck() Deck {
	d := make(Deck, 0, DeckSize)
	for _, suit := range Suits() {
		for rank := MinRank; rank <= MaxRank; rank++ {
			d = append(d, Card{suit: suit, rank: rank})
		}
	}
	return d
}

// Len returns the number of cards in the deck
func (d Deck) Len() int { return len(d) }

// DrawHand samples five cards independently and uniformly from the deck.
// The same card may appear more than once in a hand. Exactly five calls
// are made to rng.
func DrawHand(deck Deck, rng Source) [HandSize]Card {
	var hand [HandSize]Card
	for i := range hand {
		hand[i] = deck[rng.IntN(len(deck))]
	}
	return hand
}

// DrawStrategy selects how a Dealer samples hands.
type DrawStrategy int

const (
	// WithReplacement draws five independent cards (duplicates possible).
	WithReplacement DrawStrategy = iota
	// WithoutReplacement deals five distinct cards from a freshly shuffled deck.
	WithoutReplacement
)

func (s DrawStrategy) String() string {
	switch s {
	case WithReplacement:
		return "replacement"
	case WithoutReplacement:
		return "without-replacement"
	default:
		return "unknown"
	}
}

// ParseDrawStrategy parses the names produced by DrawStrategy.String.
func ParseDrawStrategy(s string) (DrawStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replacement", "with-replacement":
		return WithReplacement, nil
	case "without-replacement", "no-replacement":
		return WithoutReplacement, nil
	default:
		return 0, fmt.Errorf("unknown draw strategy %q", s)
	}
}

// Dealer produces hands from a deck using a fixed strategy.
// It is not safe for concurrent use.
type Dealer struct {
	deck     Deck
	rng      Source
	strategy DrawStrategy
	shoe     *shuffle.List[Card]
}

// NewDealer creates a dealer with explicit RNG
func NewDealer(deck Deck, rng Source, strategy DrawStrategy) *Dealer {
	d := &Dealer{
		deck:     deck,
		rng:      rng,
		strategy: strategy,
	}
	if strategy == WithoutReplacement {
		d.shoe = shuffle.New[Card](rng, deck...)
	}
	return d
}

// Strategy returns the dealer's draw strategy
func (d *Dealer) Strategy() DrawStrategy { return d.strategy }

// Deal draws one five-card hand.
func (d *Dealer) Deal() [HandSize]Card {
	if d.strategy != WithoutReplacement {
		return DrawHand(d.deck, d.rng)
	}

	d.shoe.Shuffle()
	var hand [HandSize]Card
	for i := range hand {
		hand[i], _ = d.shoe.Next()
	}
	return hand
}
