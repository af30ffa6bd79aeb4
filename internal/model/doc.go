// Package model provides ergonomic, schema-aware navigation and mutation
// over an API-format graph: a root view grouped by class type, grouped
// writes and transforms, single-node widget access, and a read-only wrapper
// pairing widget values with their parameter specs.
//
// The model wraps the graph without copying. Views alias it, writes mutate
// it in place, and the contract assumes single-threaded use; there is no
// internal locking.
package model
