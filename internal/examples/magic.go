package examples

import "github.com/roach88/stochrammar/internal/textgrammar"

// Magic returns a text grammar for the language (abra|cadabra)+:
//
//	ROOT → "abra" | "cadabra" | "abra" ROOT | "cadabra" ROOT
func Magic() *textgrammar.Grammar {
	g := textgrammar.New()
	g.AddRule(textgrammar.RootKey, g.Literal("abra"))
	g.AddRule(textgrammar.RootKey, g.Literal("cadabra"))
	g.AddRule(textgrammar.RootKey, g.Literal("abra"), g.Ref(textgrammar.RootKey))
	g.AddRule(textgrammar.RootKey, g.Literal("cadabra"), g.Ref(textgrammar.RootKey))
	return g
}
