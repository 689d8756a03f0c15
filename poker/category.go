package poker

import (
	"fmt"
	"strings"
)

// Category enumerates the mutually exclusive five-card hand categories.
// The order matters: when several flags survive classification the first
// one in this order is chosen.
type Category uint8

const (
	NoPair Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	FourOfAKind
	FullHouse
	Straight
	Flush
	StraightFlush
	RoyalStraightFlush
)

// NumCategories is the number of hand categories.
const NumCategories = int(RoyalStraightFlush) + 1

var categoryNames = [NumCategories]string{
	NoPair:             "NoPair",
	OnePair:            "OnePair",
	TwoPair:            "TwoPair",
	ThreeOfAKind:       "ThreeOfAKind",
	FourOfAKind:        "FourOfAKind",
	FullHouse:          "FullHouse",
	Straight:           "Straight",
	Flush:              "Flush",
	StraightFlush:      "StraightFlush",
	RoyalStraightFlush: "RoyalStraightFlush",
}

// Categories returns every category in enumeration order.
func Categories() []Category {
	out := make([]Category, NumCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

func (c Category) String() string {
	if int(c) < NumCategories {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// ParseCategory is the inverse of Category.String (case-insensitive).
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if strings.EqualFold(name, s) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("unknown hand category %q", s)
}

// Flags is a fixed-size flag set indexed by Category.
type Flags [NumCategories]bool

// Count returns the number of flags set.
func (f Flags) Count() int {
	n := 0
	for _, set := range f {
		if set {
			n++
		}
	}
	return n
}

// Set returns the set categories in enumeration order.
func (f Flags) Set() []Category {
	var out []Category
	for i, set := range f {
		if set {
			out = append(out, Category(i))
		}
	}
	return out
}

func (f Flags) String() string {
	set := f.Set()
	names := make([]string, len(set))
	for i, c := range set {
		names[i] = c.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}
