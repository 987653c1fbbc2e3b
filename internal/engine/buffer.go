package engine

import "github.com/roach88/stochrammar/internal/grammar"

// DefaultBufferSize is the initial capacity of a generation buffer.
const DefaultBufferSize = 32

// slot holds one token of a generation.
type slot[T any] struct {
	token grammar.Token[T]
	// ground is set once Replace reported the token terminal; the token is
	// then carried forward and never replaced again.
	ground bool
	depth  int
}

// generation is a growable token buffer with an explicit logical length.
//
// Capacity is len(slots); only slots[:n] are meaningful. Appends that do
// not fit double the capacity, repeatedly if one doubling is not enough,
// before anything is written.
type generation[T any] struct {
	slots   []slot[T]
	n       int
	growths int
}

func newGeneration[T any](capacity int) *generation[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &generation[T]{slots: make([]slot[T], capacity)}
}

// reserve guarantees room for extra more slots.
func (g *generation[T]) reserve(extra int) {
	need := g.n + extra
	capacity := len(g.slots)
	if need <= capacity {
		return
	}
	for capacity < need {
		capacity *= 2
		g.growths++
	}
	grown := make([]slot[T], capacity)
	copy(grown, g.slots[:g.n])
	g.slots = grown
}

func (g *generation[T]) push(s slot[T]) {
	g.reserve(1)
	g.slots[g.n] = s
	g.n++
}

// pushTokens appends successors in order at the given depth.
func (g *generation[T]) pushTokens(tokens []grammar.Token[T], depth int) {
	g.reserve(len(tokens))
	for _, t := range tokens {
		g.slots[g.n] = slot[T]{token: t, depth: depth}
		g.n++
	}
}

func (g *generation[T]) items() []slot[T] {
	return g.slots[:g.n]
}

func (g *generation[T]) len() int {
	return g.n
}

func (g *generation[T]) capacity() int {
	return len(g.slots)
}

// reset empties the buffer, keeping its capacity. Slots are cleared so the
// previous generation's tokens can be collected.
func (g *generation[T]) reset() {
	clear(g.slots[:g.n])
	g.n = 0
}
