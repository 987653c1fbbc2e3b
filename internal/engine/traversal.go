package engine

import (
	"fmt"
	"strings"

	"github.com/edwingeng/deque"
)

// Traversal selects the order in which the tree engine applies actions.
type Traversal int

const (
	// DepthFirst is pre-order: a node acts when first visited, then its
	// children are walked left to right.
	DepthFirst Traversal = iota + 1
	// BreadthFirst is level order by tree depth, left to right within a level.
	BreadthFirst
)

// String returns the canonical name of the traversal.
func (t Traversal) String() string {
	switch t {
	case DepthFirst:
		return "depth-first"
	case BreadthFirst:
		return "breadth-first"
	default:
		return "none"
	}
}

// ParseTraversal converts a user-supplied traversal name.
func ParseTraversal(s string) (Traversal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "depth-first", "depth", "dfs", "pre-order", "preorder":
		return DepthFirst, nil
	case "breadth-first", "breadth", "bfs", "level-order", "levelorder":
		return BreadthFirst, nil
	default:
		return 0, fmt.Errorf("unknown traversal %q: must be one of [depth-first breadth-first]", s)
	}
}

// sequencer yields tree nodes in traversal order.
type sequencer[T any] interface {
	// add schedules the children of a visited node.
	add(children []*node[T])
	next() *node[T]
	empty() bool
}

func newSequencer[T any](t Traversal) sequencer[T] {
	if t == BreadthFirst {
		return &traversalQueue[T]{d: deque.NewDeque()}
	}
	return &traversalStack[T]{d: deque.NewDeque()}
}

// traversalStack yields pre-order. Children are pushed right to left so the
// leftmost child is popped first.
type traversalStack[T any] struct {
	d deque.Deque
}

func (s *traversalStack[T]) add(children []*node[T]) {
	for i := len(children) - 1; i >= 0; i-- {
		s.d.PushBack(children[i])
	}
}

func (s *traversalStack[T]) next() *node[T] {
	return s.d.PopBack().(*node[T])
}

func (s *traversalStack[T]) empty() bool {
	return s.d.Empty()
}

// traversalQueue yields level order.
type traversalQueue[T any] struct {
	d deque.Deque
}

func (q *traversalQueue[T]) add(children []*node[T]) {
	for _, c := range children {
		q.d.PushBack(c)
	}
}

func (q *traversalQueue[T]) next() *node[T] {
	return q.d.PopFront().(*node[T])
}

func (q *traversalQueue[T]) empty() bool {
	return q.d.Empty()
}
