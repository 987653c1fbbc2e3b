package examples

import "github.com/roach88/stochrammar/internal/grammar"

// Traversal returns the deterministic grammar
//
//	A → a B C a
//	B → b D E b
//	C → c
//	D → d
//	E → e
//
// It yields "abdebca" under the sequence engine and a depth-first tree walk,
// and "aabbcde" under a breadth-first tree walk.
func Traversal() grammar.Grammar[string] {
	rule := func(next func() []token) func() token {
		return func() token { return grammar.Produces(next) }
	}
	d := rule(func() []token { return grammar.Tokens(text("d")) })
	e := rule(func() []token { return grammar.Tokens(text("e")) })
	c := rule(func() []token { return grammar.Tokens(text("c")) })
	b := rule(func() []token { return grammar.Tokens(text("b"), d(), e(), text("b")) })
	a := rule(func() []token { return grammar.Tokens(text("a"), b(), c(), text("a")) })

	return grammar.Funcs[string]{Root: a, Blank: func() string { return "" }}
}

// Chain returns A → B, B → C, C → "ground". Every engine yields "ground".
func Chain() grammar.Grammar[string] {
	c := func() token { return grammar.Produces(func() []token { return grammar.Tokens(text("ground")) }) }
	b := func() token { return grammar.Produces(func() []token { return grammar.Tokens(c()) }) }
	a := func() token { return grammar.Produces(func() []token { return grammar.Tokens(b()) }) }

	return grammar.Funcs[string]{Root: a, Blank: func() string { return "" }}
}
