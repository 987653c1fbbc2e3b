package cli

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/stochrammar/internal/engine"
	"github.com/roach88/stochrammar/internal/examples"
	"github.com/roach88/stochrammar/internal/grammar"
	"github.com/roach88/stochrammar/internal/rulefile"
)

// SourceOptions selects a grammar and configures the engine that runs it.
// Shared by generate and trace.
type SourceOptions struct {
	Grammar    string
	Example    string
	Engine     string
	Traversal  string
	Seed       uint64
	BufferSize int

	MaxReplacements int
}

func (s *SourceOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.Grammar, "grammar", "g", "", "path to a YAML, TOML or CUE rule file")
	cmd.Flags().StringVarP(&s.Example, "example", "e", "", "name of a built-in example grammar")
	cmd.Flags().StringVar(&s.Engine, "engine", "", "engine (sequence|tree)")
	cmd.Flags().StringVar(&s.Traversal, "traversal", "", "tree traversal (depth-first|breadth-first)")
	cmd.Flags().Uint64Var(&s.Seed, "seed", 0, "random seed for reproducible output")
	cmd.Flags().IntVar(&s.BufferSize, "buffer-size", 0, "initial generation buffer capacity (sequence engine)")
	cmd.Flags().IntVar(&s.MaxReplacements, "max-replacements", 0, "fail runs that need more Replace calls (0 = unlimited)")
	cmd.MarkFlagsMutuallyExclusive("grammar", "example")
	cmd.MarkFlagsOneRequired("grammar", "example")
}

// settings is SourceOptions merged over the loaded configuration.
type settings struct {
	source     string // display name of the grammar
	kind       engine.Kind
	traversal  engine.Traversal
	seeded     bool
	seed       uint64
	bufferSize int

	maxReplacements int
}

func (s *SourceOptions) resolve(cmd *cobra.Command, root *RootOptions) (settings, error) {
	cfg := root.Config
	out := settings{
		kind:       cfg.EngineKind(),
		traversal:  cfg.TraversalOrder(),
		seeded:     cfg.Seeded,
		seed:       cfg.Seed,
		bufferSize: cfg.BufferSize,

		maxReplacements: cfg.MaxReplacements,
	}

	if cmd.Flags().Changed("engine") {
		kind, err := engine.ParseKind(s.Engine)
		if err != nil {
			return out, err
		}
		out.kind = kind
	}
	if cmd.Flags().Changed("traversal") {
		traversal, err := engine.ParseTraversal(s.Traversal)
		if err != nil {
			return out, err
		}
		out.traversal = traversal
	}

	if cmd.Flags().Changed("seed") {
		out.seeded, out.seed = true, s.Seed
	}
	if cmd.Flags().Changed("buffer-size") {
		if s.BufferSize < 1 {
			return out, fmt.Errorf("buffer-size must be at least 1, got %d", s.BufferSize)
		}
		out.bufferSize = s.BufferSize
	}
	if cmd.Flags().Changed("max-replacements") {
		if s.MaxReplacements < 0 {
			return out, fmt.Errorf("max-replacements must be non-negative, got %d", s.MaxReplacements)
		}
		out.maxReplacements = s.MaxReplacements
	}

	out.source = s.Example
	if s.Grammar != "" {
		out.source = s.Grammar
	}
	return out, nil
}

// rand returns the seeded source, or nil for the process-wide default.
func (st settings) rand() *rand.Rand {
	if !st.seeded {
		return nil
	}
	return grammar.NewRand(st.seed)
}

// traversalName is empty for the sequence engine.
func (st settings) traversalName() string {
	if st.kind != engine.KindTree {
		return ""
	}
	return st.traversal.String()
}

// buildRunner constructs the engine over the selected grammar. Undefined
// rule references in a rule file are reported as warnings; they only fail
// the runs that reach them.
func (s *SourceOptions) buildRunner(st settings, root *RootOptions, f *OutputFormatter, extra ...engine.Option) (engine.Runner[string], error) {
	opts := append([]engine.Option{
		engine.WithLogger(root.Logger),
		engine.WithTraversal(st.traversal),
		engine.WithBufferSize(st.bufferSize),
		engine.WithMaxReplacements(st.maxReplacements),
	}, extra...)

	if s.Example != "" {
		ex, err := examples.Lookup(s.Example)
		if err != nil {
			return nil, err
		}
		f.VerboseLog("Using example %s: %s", ex.Name, ex.Description)
		return ex.Runner(st.kind, opts...)
	}

	g, doc, err := rulefile.LoadGrammar(s.Grammar)
	if err != nil {
		return nil, err
	}
	f.VerboseLog("Loaded %s: %d rule(s) over %d key(s)", doc.Name, len(doc.Rules), len(g.Keys()))
	for _, verr := range g.Validate() {
		f.Warn("%v", verr)
	}

	r, err := engine.New(st.kind, g, opts...)
	if err != nil {
		return nil, err
	}
	return engine.Render(r, func(b *strings.Builder) string { return b.String() }), nil
}
