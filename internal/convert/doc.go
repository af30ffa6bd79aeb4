// Package convert turns a UI-authored workflow (positional widget arrays
// plus explicit link edges) into an executable API-format graph, validating
// each node against its registered class schema.
//
// Conversion is fail-soft and partial-success-aware: every node is attempted
// in input order, critical failures skip only the offending node, and the
// resulting report always satisfies processed + skipped == total with
// success exactly when the error list is empty. Identical inputs produce
// byte-identical reports.
package convert
