// Package harness runs grammar scenarios: YAML files that name a grammar,
// an engine configuration and a set of assertions over the generated
// outputs.
//
// A scenario runs with a seeded random source and fixed run IDs, so its
// outputs and act trace are reproducible and can be compared against golden
// snapshots under testdata/golden.
//
// Example scenario:
//
//	name: traversal-bfs
//	description: breadth-first walk of the traversal grammar
//	example: traversal
//	engine: tree
//	traversal: breadth-first
//	seed: 1
//	runs: 2
//	assertions:
//	  - type: equals
//	    value: aabbcde
//	  - type: acts
//	    count: 12
//
// Grammars come either from a built-in example (example:) or from a rule
// file (grammar:) resolved relative to the scenario file.
package harness
