// Package api defines the executable API-format graph: nodes keyed by id,
// each with a class type and named inputs that are either literal values or
// references to another node's output slot.
//
// The input variants form a sealed interface (Value) so every consumer
// branches exhaustively; there is exactly one representation of "reference to
// node output" (NodeRef) and it is distinguishable from the two-element array
// it serializes as.
//
// Graph preserves node insertion order. Marshaling an unmodified graph
// reproduces the document it was parsed from, which is what makes conversion
// reports and graph-model round trips byte-identical run to run.
package api
