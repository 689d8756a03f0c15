package statistics

import "github.com/lox/pokerprobability/poker"

// Tally counts trials per hand category.
type Tally struct {
	counts [poker.NumCategories]int64
}

// Add records one trial of category c.
func (t *Tally) Add(c poker.Category) {
	t.counts[c]++
}

// Count returns the number of trials recorded for c.
func (t *Tally) Count(c poker.Category) int64 {
	return t.counts[c]
}

// Total returns the number of trials recorded across all categories.
func (t *Tally) Total() int64 {
	var n int64
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Probability returns Count(c)/Total(), or 0 for an empty tally.
func (t *Tally) Probability(c poker.Category) float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return float64(t.counts[c]) / float64(total)
}

// Merge adds the counts of other into t.
func (t *Tally) Merge(other *Tally) {
	for i, n := range other.counts {
		t.counts[i] += n
	}
}

// Counts returns a copy of the per-category counts indexed by category.
func (t *Tally) Counts() [poker.NumCategories]int64 {
	return t.counts
}
