package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTraversal(t *testing.T) {
	tests := []struct {
		in   string
		want Traversal
	}{
		{"depth-first", DepthFirst},
		{"dfs", DepthFirst},
		{"Pre-Order", DepthFirst},
		{"breadth-first", BreadthFirst},
		{"bfs", BreadthFirst},
		{"level-order", BreadthFirst},
	}
	for _, tt := range tests {
		got, err := ParseTraversal(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseTraversal("in-order")
	assert.Error(t, err)
}

func TestTraversal_String(t *testing.T) {
	assert.Equal(t, "depth-first", DepthFirst.String())
	assert.Equal(t, "breadth-first", BreadthFirst.String())
	assert.Equal(t, "none", Traversal(0).String())
}

func TestSequencer_StackYieldsLeftmostChildFirst(t *testing.T) {
	s := newSequencer[string](DepthFirst)
	a, b, c := &node[string]{}, &node[string]{}, &node[string]{}

	s.add([]*node[string]{a, b, c})
	assert.Same(t, a, s.next())
	assert.Same(t, b, s.next())
	assert.Same(t, c, s.next())
	assert.True(t, s.empty())
}

func TestSequencer_QueueIsFIFO(t *testing.T) {
	q := newSequencer[string](BreadthFirst)
	a, b, c := &node[string]{}, &node[string]{}, &node[string]{}

	q.add([]*node[string]{a, b})
	assert.Same(t, a, q.next())
	q.add([]*node[string]{c})
	assert.Same(t, b, q.next())
	assert.Same(t, c, q.next())
	assert.True(t, q.empty())
}
