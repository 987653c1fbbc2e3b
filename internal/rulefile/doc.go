// Package rulefile loads text grammars from rule-table documents.
//
// A rule table is plain structured data, written as YAML, TOML or CUE.
// No grammar notation is parsed: every rule is an explicit key, an optional
// weight and a right-hand side of literal and reference symbols.
//
// # Document Format
//
//	name: magic
//	description: "abra/cadabra words"
//	rules:
//	  - key: ROOT
//	    rhs:
//	      - lit: abra
//	  - key: ROOT
//	    weight: 2
//	    rhs:
//	      - lit: cadabra
//	      - ref: ROOT
//
// In TOML:
//
//	name = "magic"
//
//	[[rules]]
//	key = "ROOT"
//	rhs = [{ lit = "abra" }]
//
//	[[rules]]
//	key = "ROOT"
//	weight = 2.0
//	rhs = [{ lit = "cadabra" }, { ref = "ROOT" }]
//
// The same document in CUE:
//
//	name: "magic"
//	rules: [
//		{key: "ROOT", rhs: [{lit: "abra"}]},
//		{key: "ROOT", weight: 2.0, rhs: [{lit: "cadabra"}, {ref: "ROOT"}]},
//	]
//
// Rules sharing a key are alternatives, chosen with probability
// proportional to weight (default 1). An omitted or empty rhs rewrites to
// nothing. The key "ROOT" names the root rule. Literals are emitted
// verbatim unless the document sets normalize: nfc.
package rulefile
