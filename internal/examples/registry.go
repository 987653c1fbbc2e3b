package examples

import (
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/stochrammar/internal/engine"
	"github.com/roach88/stochrammar/internal/grammar"
)

// Example is a named built-in grammar.
type Example struct {
	Name        string
	Description string

	// Deterministic is true when every run yields the same output.
	Deterministic bool

	build func(kind engine.Kind, opts ...engine.Option) (engine.Runner[string], error)
}

// Runner builds an engine of the given kind over the example grammar.
func (e Example) Runner(kind engine.Kind, opts ...engine.Option) (engine.Runner[string], error) {
	return e.build(kind, opts...)
}

func stringExample[T any](g func() grammar.Grammar[T], render func(T) string) func(engine.Kind, ...engine.Option) (engine.Runner[string], error) {
	return func(kind engine.Kind, opts ...engine.Option) (engine.Runner[string], error) {
		r, err := engine.New(kind, g(), opts...)
		if err != nil {
			return nil, err
		}
		return engine.Render(r, render), nil
	}
}

func identity(s string) string { return s }

var registry = map[string]Example{
	"weighted": {
		Name:        "weighted",
		Description: "ROOT := A B (0.2) | A (0.2) | ROOT (0.6); A := a | A; B := b | B",
		build:       stringExample(Weighted, identity),
	},
	"traversal": {
		Name:          "traversal",
		Description:   "A → aBCa, B → bDEb, C → c, D → d, E → e",
		Deterministic: true,
		build:         stringExample(Traversal, identity),
	},
	"chain": {
		Name:          "chain",
		Description:   "A → B, B → C, C → ground",
		Deterministic: true,
		build:         stringExample(Chain, identity),
	},
	"magic": {
		Name:        "magic",
		Description: "ROOT → abra | cadabra | abra ROOT | cadabra ROOT",
		build: stringExample(func() grammar.Grammar[*strings.Builder] { return Magic() },
			func(b *strings.Builder) string { return b.String() }),
	},
}

// Names returns the registered example names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every example sorted by name.
func All() []Example {
	out := make([]Example, 0, len(registry))
	for _, name := range Names() {
		out = append(out, registry[name])
	}
	return out
}

// Lookup finds an example by name.
func Lookup(name string) (Example, error) {
	ex, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Example{}, fmt.Errorf("unknown example %q: must be one of %v", name, Names())
	}
	return ex, nil
}
