// Package textgrammar provides a stochastic grammar that produces plain text.
//
// Rules are registered under string keys; each key may hold several
// weighted alternatives, one of which is chosen per rewrite. The key "ROOT"
// (RootKey) names the root rule:
//
//	g := textgrammar.New()
//	g.AddRule(textgrammar.RootKey, g.Literal("abra"))
//	g.AddRule(textgrammar.RootKey, g.Literal("cadabra"), g.Ref(textgrammar.RootKey))
//
//	out, err := engine.NewSequence[*strings.Builder](g).Run(grammar.NewRand(7))
//
// A grammar without a ROOT rule always generates the empty string. A Ref to
// any other key that is still undefined when it is rewritten fails the run
// with a *MissingRuleError.
//
// Thread-safety: rules may be added at any time. Runs take a read lock for
// each rule lookup, so a rule added concurrently with a run may or may not
// be seen by it.
package textgrammar
