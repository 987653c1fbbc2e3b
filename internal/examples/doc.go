// Package examples holds the built-in demonstration grammars.
//
// The string-valued grammars (Weighted, Traversal, Chain) are written as
// client code against the grammar package, one token type per rule. Magic
// is built on the textgrammar registry. All of them are reachable by name
// through Lookup for the command line.
package examples
