package poker

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHandSize is returned when a hand does not hold exactly five cards.
	ErrInvalidHandSize = errors.New("invalid hand size")
	// ErrClassifierConsistency signals that more than one category survived
	// flag resolution.
	ErrClassifierConsistency = errors.New("classifier consistency error")
)

// ConsistencyError reports a hand for which several category flags were
// still set after resolution. Chosen is the first flag in enumeration order.
type ConsistencyError struct {
	Hand   []Card
	Flags  Flags
	Chosen Category
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: hand %s has flags %s, chose %s",
		ErrClassifierConsistency, FormatHand(e.Hand), e.Flags, e.Chosen)
}

func (e *ConsistencyError) Unwrap() error { return ErrClassifierConsistency }

// Rank-frequency slots: slot 0 counts Aces (low), slots 1-12 ranks 2-13,
// and slot 13 counts Aces again as high for straight detection only.
const (
	numSlots = MaxRank + 1
	highAce  = MaxRank
)

func rankSlots(cards []Card) [numSlots]int {
	var slots [numSlots]int
	for _, c := range cards {
		slots[c.rank-1]++
		if c.IsAce() {
			slots[highAce]++
		}
	}
	return slots
}

// Evaluate sets the category flags for a five-card hand. The input is not
// modified. For standard hands at most one flag is set; hands with repeated
// cards can end up with several.
func Evaluate(cards []Card) (Flags, error) {
	var f Flags
	if len(cards) != HandSize {
		return f, fmt.Errorf("%w: got %d cards, want %d", ErrInvalidHandSize, len(cards), HandSize)
	}

	var hand [HandSize]Card
	copy(hand[:], cards)
	SortByRank(hand[:])

	slots := rankSlots(hand[:])

	// Multiplicities ignore the high-Ace slot.
	pairs := 0
	for _, n := range slots[:highAce] {
		switch n {
		case 4:
			f[FourOfAKind] = true
		case 3:
			f[ThreeOfAKind] = true
		case 2:
			f[OnePair] = true
			pairs++
		}
	}
	if f[ThreeOfAKind] && f[OnePair] {
		f[ThreeOfAKind] = false
		f[OnePair] = false
		f[FullHouse] = true
	} else if pairs == 2 && !f[FullHouse] {
		f[TwoPair] = true
		f[OnePair] = false
	}

	// A run of five present ranks across slots 0-13. K-A-2 cannot form one
	// because the low and high Ace sit at opposite ends.
	run, top := 0, -1
	for i, n := range slots {
		if n >= 1 {
			run++
		} else {
			run = 0
		}
		if run >= 5 {
			f[Straight] = true
			top = i
		}
	}

	f[Flush] = true
	for _, c := range hand[1:] {
		if c.suit != hand[0].suit {
			f[Flush] = false
			break
		}
	}

	if f[Straight] && f[Flush] {
		f[Straight] = false
		f[Flush] = false
		f[StraightFlush] = true
	}
	if f[StraightFlush] && top == highAce {
		f[StraightFlush] = false
		f[RoyalStraightFlush] = true
	}

	return f, nil
}

// Classify returns the single category of a five-card hand. When more than
// one flag survives, the first in enumeration order is returned together with
// a *ConsistencyError so the caller can decide whether to continue.
func Classify(cards []Card) (Category, error) {
	f, err := Evaluate(cards)
	if err != nil {
		return NoPair, err
	}

	chosen, n := NoPair, 0
	for i, set := range f {
		if !set {
			continue
		}
		if n == 0 {
			chosen = Category(i)
		}
		n++
	}
	if n > 1 {
		hand := make([]Card, len(cards))
		copy(hand, cards)
		return chosen, &ConsistencyError{Hand: hand, Flags: f, Chosen: chosen}
	}
	return chosen, nil
}
