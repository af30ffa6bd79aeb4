// Package dag derives a dependency view from an API-format graph: which
// nodes feed which, transitive ancestry, a deterministic topological order
// with cycle reporting, and DOT/Mermaid renderings for inspection.
package dag
