package engine

import (
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/stochrammar/internal/grammar"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSequence_ReplacesWithGrounds(t *testing.T) {
	g := stringGrammar(func() tok {
		return rewrite(func() []tok { return []tok{lit("b")} })
	})

	out, err := NewSequence(g, WithLogger(quietLogger())).Run(grammar.NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, "b", out)
}

func TestSequence_ChainCollapses(t *testing.T) {
	out, err := NewSequence(chainGrammar(), WithLogger(quietLogger())).Run(grammar.NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, "ground", out)
}

func TestSequence_BranchingPreservesOrder(t *testing.T) {
	out, err := NewSequence(branchGrammar(), WithLogger(quietLogger())).Run(grammar.NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestSequence_DoesNotActOnNonTerminals(t *testing.T) {
	out, err := NewSequence(actionRootGrammar(), WithLogger(quietLogger())).Run(grammar.NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, "B", out, "root action must not fire in the sequence engine")
}

func TestSequence_PreOrderLeafOrder(t *testing.T) {
	out, err := NewSequence(traversalGrammar(), WithLogger(quietLogger())).Run(grammar.NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, "abdebca", out)
}

func TestSequence_BufferGrowth_TwoDoublingsInOnePass(t *testing.T) {
	n := DefaultBufferSize * 4

	out, stats, err := NewSequence(wideGrammar(n), WithLogger(quietLogger())).RunWithStats(grammar.NewRand(1))
	require.NoError(t, err)

	assert.Len(t, out, 128)
	assert.Regexp(t, `^a+$`, out)
	assert.Equal(t, 128, stats.Terminals)
	assert.Equal(t, 128, stats.PeakWidth)
	// 32 → 64 → 128 in the "next" buffer during the first pass.
	assert.GreaterOrEqual(t, stats.BufferGrowths, 2)
}

func TestSequence_BufferGrowth_TinyInitialCapacity(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 33, 100} {
		out, err := NewSequence(wideGrammar(n), WithBufferSize(1), WithLogger(quietLogger())).Run(grammar.NewRand(1))
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("a", n), out, "n=%d", n)
	}
}

func TestSequence_NeverReplacesTerminalTwice(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
	)
	g := stringGrammar(func() tok {
		return rewrite(func() []tok {
			return []tok{
				countingToken{mu: &mu, calls: &calls},
				rewrite(func() []tok { return []tok{rewrite(func() []tok { return []tok{lit("z")} })} }),
			}
		})
	})

	out, stats, err := NewSequence(g, WithLogger(quietLogger())).RunWithStats(grammar.NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, "z", out)
	assert.Equal(t, 1, calls, "terminal must be replaced exactly once across generations")
	assert.Equal(t, 4, stats.Generations)
}

func TestSequence_Stats(t *testing.T) {
	_, stats, err := NewSequence(traversalGrammar(), WithLogger(quietLogger())).RunWithStats(grammar.NewRand(1))
	require.NoError(t, err)

	assert.Equal(t, 7, stats.Terminals)
	assert.Equal(t, 7, stats.Acts)
	assert.Equal(t, 3, stats.MaxDepth)
	// A; aBCa; abDEbca; abdebca; final pass with nothing left to rewrite.
	assert.Equal(t, 4, stats.Generations)
	assert.Equal(t, 7, stats.PeakWidth)
}

func TestSequence_ReplaceErrorAbortsRun(t *testing.T) {
	boom := errors.New("no such rule")
	g := stringGrammar(func() tok {
		return rewrite(func() []tok {
			return []tok{lit("a"), grammar.Rule(func(*rand.Rand) ([]tok, error) { return nil, boom })}
		})
	})

	obs := &recordingObserver{}
	out, err := NewSequence(g,
		WithLogger(quietLogger()),
		WithObserver(obs),
		WithRunIDs(NewFixedGenerator("run-err")),
	).Run(grammar.NewRand(1))

	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, IsReplaceError(err))
	assert.ErrorIs(t, err, boom)

	var re *RunError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "run-err", re.RunID)
	assert.Equal(t, 1, re.Step)

	assert.Empty(t, obs.acts, "no action may run after a failed rewrite")
	require.Len(t, obs.errs, 1)
	assert.Error(t, obs.errs[0])
}

func TestSequence_NilRootToken(t *testing.T) {
	g := stringGrammar(func() tok { return nil })

	_, err := NewSequence(g, WithLogger(quietLogger())).Run(grammar.NewRand(1))
	assert.True(t, IsInvalidGrammarError(err))
}

func TestSequence_NilSuccessor(t *testing.T) {
	g := stringGrammar(func() tok {
		return rewrite(func() []tok { return []tok{lit("a"), nil} })
	})

	_, err := NewSequence(g, WithLogger(quietLogger())).Run(grammar.NewRand(1))
	assert.True(t, IsInvalidGrammarError(err))
}

func TestSequence_DeterministicGivenSeed(t *testing.T) {
	eng := NewSequence(recursiveGrammar(0.7), WithLogger(quietLogger()))

	for seed := uint64(0); seed < 20; seed++ {
		a, err := eng.Run(grammar.NewRand(seed))
		require.NoError(t, err)
		b, err := eng.Run(grammar.NewRand(seed))
		require.NoError(t, err)
		assert.Equal(t, a, b, "seed %d", seed)
		assert.Regexp(t, `^x*y$`, a)
	}
}

func TestSequence_NilRandUsesDefault(t *testing.T) {
	out, err := NewSequence(recursiveGrammar(0.5), WithLogger(quietLogger())).Run(nil)
	require.NoError(t, err)
	assert.Regexp(t, `^x*y$`, out)
}

func TestSequence_ObserverActEvents(t *testing.T) {
	obs := &recordingObserver{}
	_, err := NewSequence(branchGrammar(),
		WithLogger(quietLogger()),
		WithObserver(obs),
		WithRunIDs(NewFixedGenerator("run-1")),
	).Run(grammar.NewRand(1))
	require.NoError(t, err)

	require.Len(t, obs.started, 1)
	assert.Equal(t, RunInfo{RunID: "run-1", Engine: KindSequence}, obs.started[0])

	require.Len(t, obs.acts, 2)
	assert.Equal(t, ActEvent{RunID: "run-1", Seq: 1, Depth: 2, Terminal: true}, obs.acts[0])
	assert.Equal(t, ActEvent{RunID: "run-1", Seq: 2, Depth: 2, Terminal: true}, obs.acts[1])
}

func TestSequence_ConcurrentRunsShareEngine(t *testing.T) {
	eng := NewSequence(traversalGrammar(), WithLogger(quietLogger()))

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := eng.Run(grammar.NewRand(uint64(i)))
			if err == nil {
				results[i] = out
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, "abdebca", r)
	}
}

func TestSequence_NonStringEntity(t *testing.T) {
	push := func(v int) grammar.Token[[]int] {
		return grammar.Ground(func(e []int) []int { return append(e, v) })
	}
	g := grammar.Funcs[[]int]{
		Root: func() grammar.Token[[]int] {
			return grammar.Produces(func() []grammar.Token[[]int] {
				return []grammar.Token[[]int]{push(1), push(2), push(3)}
			})
		},
		Blank: func() []int { return []int{} },
	}

	out, err := NewSequence[[]int](g, WithLogger(quietLogger())).Run(grammar.NewRand(1))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, out)
}
