// Package shuffle provides a list that can be shuffled in place and then
// consumed item by item through a wrapping cursor.
package shuffle

// Source is the random source used for shuffling and random insertion.
type Source interface {
	IntN(n int) int
}

// State describes where a List is in its shuffle/consume cycle.
type State int

const (
	NotShuffled State = iota
	Shuffled
	AtEnd
)

func (s State) String() string {
	switch s {
	case NotShuffled:
		return "NotShuffled"
	case Shuffled:
		return "Shuffled"
	case AtEnd:
		return "AtEnd"
	default:
		return "Unknown"
	}
}

// List is an ordered container with Fisher-Yates shuffling and a cursor.
// It is not safe for concurrent use.
type List[T any] struct {
	items  []T
	cursor int
	state  State
	rng    Source
}

// New creates a list holding a copy of items.
func New[T any](rng Source, items ...T) *List[T] {
	l := &List[T]{
		items: make([]T, len(items)),
		rng:   rng,
	}
	copy(l.items, items)
	return l
}

// State returns the current state
func (l *List[T]) State() State { return l.state }

// Len returns the number of items
func (l *List[T]) Len() int { return len(l.items) }

// At returns the item at index i.
func (l *List[T]) At(i int) T { return l.items[i] }

// Items returns a copy of the items in their current order.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Add appends item while the list has never been shuffled. Once shuffled,
// item is inserted at a uniformly random position in [0, Len()].
func (l *List[T]) Add(item T) {
	if l.state == NotShuffled {
		l.items = append(l.items, item)
		return
	}
	l.insert(l.rng.IntN(len(l.items)+1), item)
}

// Append always adds item at the end, regardless of state.
func (l *List[T]) Append(item T) {
	l.items = append(l.items, item)
}

func (l *List[T]) insert(i int, item T) {
	var zero T
	l.items = append(l.items, zero)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = item
}

// Shuffle permutes the items uniformly (Fisher-Yates) and rewinds the cursor.
func (l *List[T]) Shuffle() {
	for i := len(l.items) - 1; i > 0; i-- {
		j := l.rng.IntN(i + 1)
		l.items[i], l.items[j] = l.items[j], l.items[i]
	}
	l.cursor = 0
	l.state = Shuffled
}

// Next returns the item under the cursor and advances it. more is false when
// the returned item was the last one; the list then moves to AtEnd and the
// cursor wraps to the start. An empty list returns the zero value and false.
func (l *List[T]) Next() (item T, more bool) {
	if len(l.items) == 0 {
		return item, false
	}

	item = l.items[l.cursor]
	l.cursor++
	if l.cursor >= len(l.items) {
		l.cursor = 0
		l.state = AtEnd
		return item, false
	}
	return item, true
}

// Clear removes all items and resets the list to NotShuffled.
func (l *List[T]) Clear() {
	l.items = l.items[:0]
	l.cursor = 0
	l.state = NotShuffled
}
