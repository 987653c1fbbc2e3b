package examples

import (
	"math/rand/v2"

	"github.com/roach88/stochrammar/internal/grammar"
)

type token = grammar.Token[string]

// Weighted returns a grammar that samples its own weighted choices:
//
//	ROOT := A B (0.2) | A (0.2) | ROOT (0.6)
//	A    := "a" (0.5) | "A" (0.5)
//	B    := "b" (0.5) | "B" (0.5)
//
// Every output matches ^[aA][bB]?$.
func Weighted() grammar.Grammar[string] {
	return grammar.Funcs[string]{
		Root:  weightedRoot,
		Blank: func() string { return "" },
	}
}

func weightedRoot() token {
	return grammar.Rule(func(r *rand.Rand) ([]token, error) {
		switch sample := r.Float64(); {
		case sample < 0.2:
			return grammar.Tokens(letter("a", "A"), letter("b", "B")), nil
		case sample < 0.4:
			return grammar.Tokens(letter("a", "A")), nil
		default:
			return grammar.Tokens(weightedRoot()), nil
		}
	})
}

// letter picks lower or upper with equal probability.
func letter(lower, upper string) token {
	return grammar.Rule(func(r *rand.Rand) ([]token, error) {
		if r.Float64() < 0.5 {
			return grammar.Tokens(text(lower)), nil
		}
		return grammar.Tokens(text(upper)), nil
	})
}

func text(s string) token {
	return grammar.Ground(func(e string) string { return e + s })
}
