package engine

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/roach88/stochrammar/internal/grammar"
)

// Runner expands a grammar into an entity of type T.
//
// Both engines implement Runner; they differ only in the order in which
// token actions are applied.
type Runner[T any] interface {
	// Run generates one entity. A nil r selects grammar.DefaultRand().
	Run(r *rand.Rand) (T, error)

	// RunWithStats is Run plus the run's expansion statistics.
	RunWithStats(r *rand.Rand) (T, Stats, error)

	// Kind reports which engine this is.
	Kind() Kind
}

// Kind names an engine implementation.
type Kind string

const (
	// KindSequence is the flat, double-buffered fixpoint engine.
	KindSequence Kind = "sequence"
	// KindTree is the explicit tree engine with selectable traversal.
	KindTree Kind = "tree"
)

// ParseKind converts a user-supplied engine name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequence", "seq", "flat":
		return KindSequence, nil
	case "tree":
		return KindTree, nil
	default:
		return "", fmt.Errorf("unknown engine %q: must be one of [sequence tree]", s)
	}
}

// New builds the engine named by kind.
func New[T any](kind Kind, g grammar.Grammar[T], opts ...Option) (Runner[T], error) {
	switch kind {
	case KindSequence:
		return NewSequence(g, opts...), nil
	case KindTree:
		return NewTree(g, opts...), nil
	default:
		return nil, fmt.Errorf("unknown engine kind %q", kind)
	}
}

// Stats describes the work performed by a single run.
// Fields that do not apply to an engine are left at zero.
type Stats struct {
	// Replacements counts Replace calls.
	Replacements int `json:"replacements"`
	// Terminals counts tokens that reported terminal.
	Terminals int `json:"terminals"`
	// Acts counts Act calls applied to the entity.
	Acts int `json:"acts"`
	// MaxDepth is the deepest tree level reached (root is 0).
	MaxDepth int `json:"max_depth"`

	// Generations counts rewrite passes (sequence engine).
	Generations int `json:"generations,omitempty"`
	// PeakWidth is the widest generation (sequence engine).
	PeakWidth int `json:"peak_width,omitempty"`
	// BufferGrowths counts capacity doublings of the generation buffers.
	BufferGrowths int `json:"buffer_growths,omitempty"`

	// Nodes counts tree nodes (tree engine).
	Nodes int `json:"nodes,omitempty"`
	// ChildGrowths counts capacity doublings of child storage (tree engine).
	ChildGrowths int `json:"child_growths,omitempty"`
}

// RunInfo identifies a run to observers.
type RunInfo struct {
	RunID     string
	Engine    Kind
	Traversal Traversal // zero for the sequence engine
}

// ActEvent describes one Act application.
type ActEvent struct {
	RunID    string
	Seq      int64 // 1-based, in application order
	Depth    int   // tree depth of the token (root is 0)
	Terminal bool
}

// Observer receives run lifecycle callbacks. Callbacks are invoked from the
// goroutine executing the run; implementations shared by concurrent runs
// must be safe for concurrent use.
type Observer interface {
	RunStarted(info RunInfo)
	TokenActed(ev ActEvent)
	RunFinished(info RunInfo, stats Stats, err error)
}

type nopObserver struct{}

func (nopObserver) RunStarted(RunInfo) {}
func (nopObserver) TokenActed(ActEvent) {}
func (nopObserver) RunFinished(RunInfo, Stats, error) {}

// Option configures an engine. Options that do not apply to an engine are
// ignored by it.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	observer   Observer
	runIDs     RunIDGenerator
	bufferSize int
	traversal  Traversal

	maxReplacements int
}

func newOptions(opts []Option) options {
	o := options{
		logger:     slog.Default(),
		observer:   nopObserver{},
		runIDs:     UUIDv7Generator{},
		bufferSize: DefaultBufferSize,
		traversal:  DepthFirst,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for run diagnostics.
// Default: slog.Default() at construction time.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver registers an observer for run lifecycle and act events.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithRunIDs overrides the run ID generator.
// Use NewFixedGenerator in tests for deterministic IDs.
func WithRunIDs(gen RunIDGenerator) Option {
	return func(o *options) {
		if gen != nil {
			o.runIDs = gen
		}
	}
}

// WithBufferSize sets the initial capacity of the sequence engine's
// generation buffers. Values below 1 are ignored.
//
// Default: 32 (DefaultBufferSize)
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithTraversal selects the tree engine's walk order.
//
// Default: DepthFirst
func WithTraversal(t Traversal) Option {
	return func(o *options) {
		o.traversal = t
	}
}

// WithMaxReplacements limits the number of Replace calls per run. A run
// that needs more fails with a BUDGET_EXCEEDED RunError. Values below 1
// mean unlimited.
//
// Default: unlimited
func WithMaxReplacements(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxReplacements = n
		}
	}
}

func resolveRand(r *rand.Rand) *rand.Rand {
	if r == nil {
		return grammar.DefaultRand()
	}
	return r
}

// logRun records the outcome of a run.
func logRun(l *slog.Logger, info RunInfo, stats Stats, err error) {
	if err != nil {
		l.Warn("run failed",
			"run_id", info.RunID,
			"engine", info.Engine,
			"replacements", stats.Replacements,
			"error", err,
		)
		return
	}
	l.Debug("run finished",
		"run_id", info.RunID,
		"engine", info.Engine,
		"replacements", stats.Replacements,
		"terminals", stats.Terminals,
		"acts", stats.Acts,
		"max_depth", stats.MaxDepth,
	)
}
