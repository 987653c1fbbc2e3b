package engine

import (
	"math/rand/v2"

	"github.com/ahrtr/gocontainer/stack"

	"github.com/roach88/stochrammar/internal/grammar"
)

// DefaultArity is the initial child capacity of a tree node.
const DefaultArity = 4

// node wraps a token with its ordered children.
type node[T any] struct {
	token    grammar.Token[T]
	children []*node[T]
	depth    int
}

// addChildren attaches one child per token, preserving order. Child storage
// starts at DefaultArity and doubles until it fits. Returns the number of
// doublings performed.
func (n *node[T]) addChildren(tokens []grammar.Token[T]) int {
	growths := 0
	need := len(n.children) + len(tokens)
	capacity := cap(n.children)
	if capacity == 0 {
		capacity = DefaultArity
	}
	for capacity < need {
		capacity *= 2
		growths++
	}
	if capacity != cap(n.children) {
		grown := make([]*node[T], len(n.children), capacity)
		copy(grown, n.children)
		n.children = grown
	}
	for _, t := range tokens {
		n.children = append(n.children, &node[T]{token: t, depth: n.depth + 1})
	}
	return growths
}

// Tree is the explicit-tree engine.
//
// Every node acts during the walk, terminal or not: an action attached to a
// non-terminal token fires before (depth-first) or in level with (breadth-
// first) its descendants.
//
// Thread-safety: a Tree is immutable after construction and may run
// concurrently, one *rand.Rand per concurrent run.
type Tree[T any] struct {
	grammar grammar.Grammar[T]
	opts    options
}

// NewTree creates a tree engine for g. The traversal order is fixed at
// construction with WithTraversal (default DepthFirst).
func NewTree[T any](g grammar.Grammar[T], opts ...Option) *Tree[T] {
	o := newOptions(opts)
	if o.traversal != BreadthFirst {
		o.traversal = DepthFirst
	}
	return &Tree[T]{grammar: g, opts: o}
}

// Kind returns KindTree.
func (t *Tree[T]) Kind() Kind {
	return KindTree
}

// Traversal returns the configured walk order.
func (t *Tree[T]) Traversal() Traversal {
	return t.opts.traversal
}

// Run builds the expansion tree and applies every node's action in the
// configured traversal order.
func (t *Tree[T]) Run(r *rand.Rand) (T, error) {
	entity, _, err := t.RunWithStats(r)
	return entity, err
}

// RunWithStats is Run plus expansion statistics.
func (t *Tree[T]) RunWithStats(r *rand.Rand) (T, Stats, error) {
	info := RunInfo{
		RunID:     t.opts.runIDs.Generate(),
		Engine:    KindTree,
		Traversal: t.opts.traversal,
	}
	t.opts.observer.RunStarted(info)

	var (
		entity T
		stats  Stats
	)
	root, err := t.build(resolveRand(r), info, &stats)
	if err == nil {
		entity = t.walk(root, info, &stats)
	}

	t.opts.observer.RunFinished(info, stats, err)
	logRun(t.opts.logger, info, stats, err)
	if err != nil {
		var zero T
		return zero, stats, err
	}
	return entity, stats, nil
}

// build expands the root token into a complete tree. The frontier is LIFO,
// so expansion proceeds depth-first; this affects only construction order,
// never the walk order.
func (t *Tree[T]) build(r *rand.Rand, info RunInfo, stats *Stats) (*node[T], error) {
	rootToken := t.grammar.RootToken()
	if rootToken == nil {
		return nil, NewInvalidGrammarError(info.RunID, 0, "grammar returned nil root token")
	}

	root := &node[T]{token: rootToken}
	stats.Nodes = 1

	budget := newQuota(t.opts.maxReplacements)
	frontier := stack.New()
	frontier.Push(root)
	for !frontier.IsEmpty() {
		n := frontier.Pop().(*node[T])

		if err := budget.check(info.RunID, n.depth); err != nil {
			return nil, err
		}
		successors, err := n.token.Replace(r)
		stats.Replacements++
		if err != nil {
			return nil, NewReplaceError(info.RunID, n.depth, err)
		}
		if grammar.Terminal(successors) {
			stats.Terminals++
			continue
		}
		for _, s := range successors {
			if s == nil {
				return nil, NewInvalidGrammarError(info.RunID, n.depth, "replace returned nil successor")
			}
		}

		stats.ChildGrowths += n.addChildren(successors)
		stats.Nodes += len(successors)
		if n.depth+1 > stats.MaxDepth {
			stats.MaxDepth = n.depth + 1
		}
		for _, c := range n.children {
			frontier.Push(c)
		}
	}

	t.opts.logger.Debug("tree built",
		"run_id", info.RunID,
		"nodes", stats.Nodes,
		"max_depth", stats.MaxDepth,
	)
	return root, nil
}

// walk applies every node's action in traversal order.
func (t *Tree[T]) walk(root *node[T], info RunInfo, stats *Stats) T {
	clock := NewClock()
	entity := t.grammar.BlankEntity()

	seq := newSequencer[T](t.opts.traversal)
	seq.add([]*node[T]{root})
	for !seq.empty() {
		n := seq.next()
		seq.add(n.children)

		entity = n.token.Act(entity)
		t.opts.observer.TokenActed(ActEvent{
			RunID:    info.RunID,
			Seq:      clock.Next(),
			Depth:    n.depth,
			Terminal: len(n.children) == 0,
		})
	}
	stats.Acts = int(clock.Current())
	return entity
}
