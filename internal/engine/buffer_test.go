package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneration_PushWithinCapacity(t *testing.T) {
	g := newGeneration[string](4)
	g.pushTokens([]tok{lit("a"), lit("b")}, 1)

	assert.Equal(t, 2, g.len())
	assert.Equal(t, 4, g.capacity())
	assert.Equal(t, 0, g.growths)
}

func TestGeneration_RepeatedDoublingInOneAppend(t *testing.T) {
	g := newGeneration[string](32)
	g.push(slot[string]{token: lit("first")})

	batch := make([]tok, 127)
	for i := range batch {
		batch[i] = lit("a")
	}
	g.pushTokens(batch, 1)

	assert.Equal(t, 128, g.len())
	assert.Equal(t, 128, g.capacity())
	assert.Equal(t, 2, g.growths)

	items := g.items()
	assert.Equal(t, "first", items[0].token.Act(""), "existing contents survive growth")
	assert.Equal(t, 0, items[0].depth)
	assert.Equal(t, 1, items[127].depth)
}

func TestGeneration_ResetKeepsCapacity(t *testing.T) {
	g := newGeneration[string](2)
	g.pushTokens([]tok{lit("a"), lit("b"), lit("c")}, 0)
	require.Equal(t, 4, g.capacity())

	g.reset()
	assert.Equal(t, 0, g.len())
	assert.Equal(t, 4, g.capacity())
	assert.Nil(t, g.slots[0].token, "reset clears stale tokens")
}

func TestGeneration_MinimumCapacity(t *testing.T) {
	g := newGeneration[string](0)
	assert.Equal(t, 1, g.capacity())

	g.push(slot[string]{token: lit("a")})
	g.push(slot[string]{token: lit("b")})
	assert.Equal(t, 2, g.capacity())
}
