package engine

import (
	"math/rand/v2"
	"sync"

	"github.com/roach88/stochrammar/internal/grammar"
)

type tok = grammar.Token[string]

// lit is a terminal appending s.
func lit(s string) tok {
	return grammar.Ground(func(e string) string { return e + s })
}

// rewrite is a non-terminal always rewriting to the tokens built by next.
func rewrite(next func() []tok, opts ...grammar.RuleOption[string]) tok {
	return grammar.Produces(next, opts...)
}

func stringGrammar(root func() tok) grammar.Grammar[string] {
	return grammar.Funcs[string]{
		Root:  root,
		Blank: func() string { return "" },
	}
}

// traversalGrammar is A→aBCa, B→bDEb, C→c, D→d, E→e.
func traversalGrammar() grammar.Grammar[string] {
	d := func() tok { return rewrite(func() []tok { return []tok{lit("d")} }) }
	e := func() tok { return rewrite(func() []tok { return []tok{lit("e")} }) }
	c := func() tok { return rewrite(func() []tok { return []tok{lit("c")} }) }
	b := func() tok { return rewrite(func() []tok { return []tok{lit("b"), d(), e(), lit("b")} }) }
	a := func() tok { return rewrite(func() []tok { return []tok{lit("a"), b(), c(), lit("a")} }) }
	return stringGrammar(a)
}

// chainGrammar is A→B, B→C, C→"ground".
func chainGrammar() grammar.Grammar[string] {
	c := func() tok { return rewrite(func() []tok { return []tok{lit("ground")} }) }
	b := func() tok { return rewrite(func() []tok { return []tok{c()} }) }
	return stringGrammar(func() tok { return rewrite(func() []tok { return []tok{b()} }) })
}

// branchGrammar is A→BC, B→"hello ", C→"world".
func branchGrammar() grammar.Grammar[string] {
	b := func() tok { return rewrite(func() []tok { return []tok{lit("hello ")} }) }
	c := func() tok { return rewrite(func() []tok { return []tok{lit("world")} }) }
	return stringGrammar(func() tok { return rewrite(func() []tok { return []tok{b(), c()} }) })
}

// wideGrammar rewrites its root into n copies of "a".
func wideGrammar(n int) grammar.Grammar[string] {
	return stringGrammar(func() tok {
		return rewrite(func() []tok {
			out := make([]tok, n)
			for i := range out {
				out[i] = lit("a")
			}
			return out
		})
	})
}

// actionRootGrammar has a root whose action resets the entity to "A" and a
// single terminal child "B".
func actionRootGrammar() grammar.Grammar[string] {
	return stringGrammar(func() tok {
		return rewrite(func() []tok { return []tok{lit("B")} },
			grammar.WithAction(func(string) string { return "A" }))
	})
}

// recursiveGrammar is ROOT → "x" ROOT (p) | "y" (1-p).
func recursiveGrammar(p float64) grammar.Grammar[string] {
	var root func() tok
	root = func() tok {
		return grammar.Rule(func(r *rand.Rand) ([]tok, error) {
			if r.Float64() < p {
				return []tok{lit("x"), root()}, nil
			}
			return []tok{lit("y")}, nil
		})
	}
	return stringGrammar(root)
}

// countingToken counts Replace calls and reports terminal every time.
type countingToken struct {
	grammar.NoAct[string]
	mu    *sync.Mutex
	calls *int
}

func (c countingToken) Replace(*rand.Rand) ([]tok, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.calls++
	return nil, nil
}

// recordingObserver captures observer callbacks.
type recordingObserver struct {
	mu       sync.Mutex
	started  []RunInfo
	acts     []ActEvent
	finished []Stats
	errs     []error
}

func (o *recordingObserver) RunStarted(info RunInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = append(o.started, info)
}

func (o *recordingObserver) TokenActed(ev ActEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.acts = append(o.acts, ev)
}

func (o *recordingObserver) RunFinished(_ RunInfo, stats Stats, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, stats)
	o.errs = append(o.errs, err)
}

func (o *recordingObserver) terminalActs() int {
	n := 0
	for _, a := range o.acts {
		if a.Terminal {
			n++
		}
	}
	return n
}
