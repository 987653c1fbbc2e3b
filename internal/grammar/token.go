package grammar

import "math/rand/v2"

// Token is a node of a stochastic context-free grammar producing values of
// type T.
//
// Replace rewrites the token. A nil or empty result marks the token as
// terminal; engines never call Replace again on a token that reported
// terminal. A non-nil error aborts the run.
//
// Act applies the token's effect to the entity and returns the result.
// Non-terminal tokens typically return the entity unchanged.
type Token[T any] interface {
	Replace(r *rand.Rand) ([]Token[T], error)
	Act(entity T) T
}

// Action is an effect applied to the entity under construction.
type Action[T any] func(entity T) T

// NoAct provides the identity Act for embedding in non-terminal tokens.
//
//	type sentence struct{ grammar.NoAct[string] }
//
//	func (sentence) Replace(r *rand.Rand) ([]grammar.Token[string], error) { ... }
type NoAct[T any] struct{}

// Act returns entity unchanged.
func (NoAct[T]) Act(entity T) T { return entity }

// Terminal reports whether a Replace result denotes a terminal token.
func Terminal[T any](successors []Token[T]) bool {
	return len(successors) == 0
}

// Tokens is shorthand for building a successor slice.
func Tokens[T any](ts ...Token[T]) []Token[T] {
	return ts
}

// ground is a terminal token carrying its effect.
type ground[T any] struct {
	action Action[T]
}

// Ground returns a terminal token whose Act applies action.
// A nil action makes the token a terminal no-op.
func Ground[T any](action Action[T]) Token[T] {
	return ground[T]{action: action}
}

func (g ground[T]) Replace(*rand.Rand) ([]Token[T], error) {
	return nil, nil
}

func (g ground[T]) Act(entity T) T {
	if g.action == nil {
		return entity
	}
	return g.action(entity)
}

// ReplaceFunc produces the successors of a non-terminal token.
type ReplaceFunc[T any] func(r *rand.Rand) ([]Token[T], error)

// RuleOption configures a token built by Rule.
type RuleOption[T any] func(*rule[T])

// WithAction attaches an effect to a non-terminal token. The action is fixed
// at construction; tokens are never mutated afterwards.
//
// Whether the action fires depends on the engine: the tree engine applies it
// while walking, the sequence engine discards non-terminals before acting.
func WithAction[T any](action Action[T]) RuleOption[T] {
	return func(r *rule[T]) {
		r.action = action
	}
}

type rule[T any] struct {
	replace ReplaceFunc[T]
	action  Action[T]
}

// Rule returns a token whose successors come from replace. A nil replace
// yields a terminal token.
func Rule[T any](replace ReplaceFunc[T], opts ...RuleOption[T]) Token[T] {
	t := &rule[T]{replace: replace}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *rule[T]) Replace(r *rand.Rand) ([]Token[T], error) {
	if t.replace == nil {
		return nil, nil
	}
	return t.replace(r)
}

func (t *rule[T]) Act(entity T) T {
	if t.action == nil {
		return entity
	}
	return t.action(entity)
}

// Produces returns a non-terminal token that always rewrites to the tokens
// built by next. next is called on every Replace so that each rewrite step
// yields brand-new successor instances.
func Produces[T any](next func() []Token[T], opts ...RuleOption[T]) Token[T] {
	return Rule(func(*rand.Rand) ([]Token[T], error) {
		return next(), nil
	}, opts...)
}
