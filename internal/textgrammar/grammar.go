package textgrammar

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/stochrammar/internal/grammar"
)

// RootKey is the reserved key of the root rule.
const RootKey = "ROOT"

// Token is a token of a text grammar.
type Token = grammar.Token[*strings.Builder]

// alternative is one right-hand side of a rule.
type alternative struct {
	weight float64
	tokens []Token
}

// Grammar is a registry of named, weighted production rules producing text.
// It implements grammar.Grammar[*strings.Builder].
type Grammar struct {
	mu    sync.RWMutex
	rules map[string][]alternative
	order []string // keys in registration order
	nfc   bool
}

// Option configures a Grammar.
type Option func(*Grammar)

// WithNFC normalizes literal text to Unicode NFC when the literal is
// created. Without it literals are emitted byte for byte.
func WithNFC() Option {
	return func(g *Grammar) {
		g.nfc = true
	}
}

// New creates an empty grammar.
func New(opts ...Option) *Grammar {
	g := &Grammar{rules: make(map[string][]alternative)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddRule adds an alternative with weight 1 to the rule named key.
// An alternative with no tokens rewrites to nothing.
func (g *Grammar) AddRule(key string, tokens ...Token) {
	g.add(key, 1, tokens)
}

// AddWeightedRule adds an alternative to the rule named key. Alternatives
// of a rule are chosen with probability proportional to their weight.
func (g *Grammar) AddWeightedRule(key string, weight float64, tokens ...Token) error {
	if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
		return fmt.Errorf("rule %q: weight must be positive and finite, got %v", key, weight)
	}
	g.add(key, weight, tokens)
	return nil
}

func (g *Grammar) add(key string, weight float64, tokens []Token) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.rules[key]; !ok {
		g.order = append(g.order, key)
	}
	g.rules[key] = append(g.rules[key], alternative{
		weight: weight,
		tokens: append([]Token(nil), tokens...),
	})
}

// Keys returns the defined rule keys in registration order.
func (g *Grammar) Keys() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.order...)
}

// Alternatives returns the number of alternatives registered for key.
func (g *Grammar) Alternatives(key string) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rules[key])
}

// RootToken returns a reference to the ROOT rule. If no ROOT rule exists at
// rewrite time the root is terminal and the output is empty.
func (g *Grammar) RootToken() Token {
	return rootRef{g: g}
}

// BlankEntity returns an empty builder.
func (g *Grammar) BlankEntity() *strings.Builder {
	return &strings.Builder{}
}

// choose picks an alternative of key. ok is false if key is undefined.
func (g *Grammar) choose(key string, r *rand.Rand) ([]Token, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	alts, ok := g.rules[key]
	if !ok || len(alts) == 0 {
		return nil, false
	}

	picked := alts[len(alts)-1]
	if len(alts) > 1 {
		total := 0.0
		for _, a := range alts {
			total += a.weight
		}
		x := r.Float64() * total
		for _, a := range alts {
			if x < a.weight {
				picked = a
				break
			}
			x -= a.weight
		}
	}
	// Successors are owned by the engine; never hand out the rule table.
	return append([]Token(nil), picked.tokens...), true
}

// Validate reports every reference to an undefined key. A grammar that
// validates cleanly can still loop forever; termination is not checked.
func (g *Grammar) Validate() []error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var errs []error
	seen := make(map[string]bool)
	for _, key := range g.order {
		for _, alt := range g.rules[key] {
			for _, t := range alt.tokens {
				r, ok := t.(ref)
				if !ok || seen[r.key] {
					continue
				}
				if _, defined := g.rules[r.key]; !defined {
					seen[r.key] = true
					errs = append(errs, fmt.Errorf("rule %q: %w", key, &MissingRuleError{Key: r.key}))
				}
			}
		}
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Error() < errs[j].Error() })
	return errs
}

// Literal returns a terminal token that appends text verbatim, or its NFC
// form if the grammar was created WithNFC.
func (g *Grammar) Literal(text string) Token {
	if g.nfc {
		text = norm.NFC.String(text)
	}
	return literal{text: text}
}

// Ref returns a token that rewrites to one alternative of the rule named
// key, looked up when the token is rewritten.
func (g *Grammar) Ref(key string) Token {
	return ref{g: g, key: key}
}

type literal struct {
	text string
}

func (l literal) Replace(*rand.Rand) ([]Token, error) {
	return nil, nil
}

func (l literal) Act(b *strings.Builder) *strings.Builder {
	b.WriteString(l.text)
	return b
}

type ref struct {
	grammar.NoAct[*strings.Builder]
	g   *Grammar
	key string
}

func (t ref) Replace(r *rand.Rand) ([]Token, error) {
	tokens, ok := t.g.choose(t.key, r)
	if !ok {
		return nil, &MissingRuleError{Key: t.key}
	}
	return tokens, nil
}

// rootRef differs from ref only in treating a missing rule as empty.
type rootRef struct {
	grammar.NoAct[*strings.Builder]
	g *Grammar
}

func (t rootRef) Replace(r *rand.Rand) ([]Token, error) {
	tokens, _ := t.g.choose(RootKey, r)
	return tokens, nil
}
