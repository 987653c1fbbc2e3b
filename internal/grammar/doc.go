// Package grammar defines the contracts shared by every stochastic grammar
// and every expansion engine.
//
// A grammar is a factory: it hands out a fresh root Token and a fresh blank
// accumulator ("entity") for each run. Tokens know how to rewrite themselves
// into successor tokens and how to act on the entity under construction.
//
// # Tokens
//
// Replace returns either no successors (the token is terminal, also called
// a ground token) or a non-empty, ordered slice of successors. Successor
// order is preserved by the engines as left-to-right child order.
//
// Replace must draw entropy only from the *rand.Rand it is handed. A run is
// therefore reproducible given a seeded source:
//
//	r := rand.New(rand.NewPCG(42, 42))
//	out, err := engine.NewSequence(g).Run(r)
//
// # Termination
//
// Every non-terminal token must reach an all-terminal frontier with
// probability 1 under repeated rewriting. Engines trust this contract and
// never bound iteration count; a grammar that violates it loops forever.
package grammar
