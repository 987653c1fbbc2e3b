// Package engine implements the expansion engines that turn a stochastic
// grammar into an artifact.
//
// Two engines share the grammar.Token / grammar.Grammar contract and can be
// swapped without touching grammar code:
//
// Sequence engine:
// Flat fixpoint rewriting over two generation buffers. Every pass rewrites
// each pending token into its successors in place; terminals are carried
// forward untouched. When a pass rewrites nothing, the buffer holds only
// terminals in pre-order leaf order and their actions are applied left to
// right. No tree is ever built: memory is proportional to the widest
// generation, not to the total number of tokens produced.
//
// Tree engine:
// Builds the full expansion as an n-ary tree using a LIFO frontier, then
// walks the finished tree applying every node's action, terminal or not.
// The walk order is selectable:
//   - DepthFirst: pre-order, children left to right, a node acts when it is
//     first visited (before any of its descendants).
//   - BreadthFirst: level order by tree depth.
//
// For the grammar A→aBCa, B→bDEb, C→c, D→d, E→e the sequence engine and the
// depth-first walk both produce "abdebca"; the breadth-first walk produces
// "aabbcde".
//
// EXECUTION MODEL:
//
// A run is synchronous and single-goroutine with no suspension points. Each
// run owns its buffers, tree, clock and entity. Engines hold only
// configuration and are safe to share between goroutines, provided every
// concurrent run is given its own *rand.Rand (or nil, which selects the
// goroutine-safe grammar.DefaultRand).
//
// The engines trust that the grammar terminates almost surely. By default
// they do not bound iteration count; WithMaxReplacements sets a cap on
// Replace calls per run. Cycles are never detected.
package engine
