package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lox/pokerprobability/poker"
)

// ClassifyCmd classifies one hand given on the command line.
type ClassifyCmd struct {
	Cards []string `arg:"" help:"Five cards as suit letter and rank, e.g. S1 H13 D10 C2 S5"`

	out io.Writer
}

func (cmd *ClassifyCmd) Run() error {
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}

	cards, err := poker.ParseCards(strings.Join(cmd.Cards, " "))
	if err != nil {
		return err
	}
	if len(cards) != poker.HandSize {
		return fmt.Errorf("%w: got %d cards", poker.ErrInvalidHandSize, len(cards))
	}

	poker.SortByRank(cards)
	category, err := poker.Classify(cards)
	var inconsistent *poker.ConsistencyError
	if err != nil && !errors.As(err, &inconsistent) {
		return err
	}

	fmt.Fprintf(out, "%s\t%s\n", poker.FormatHand(cards), category)
	if inconsistent != nil {
		fmt.Fprintf(out, "warning: hand matched %s\n", inconsistent.Flags)
	}
	return nil
}
