// Package schema holds the per-class parameter declarations that drive
// conversion: which parameters are literal widgets, which are link-fed, in
// what order positional widget values are consumed, and what defaults,
// bounds, choices, and tooltips each parameter carries.
//
// Parsing is deliberately tolerant. A malformed class or parameter entry is
// skipped with a warning, never a load failure; an unrecognized type tag is
// an opaque link type, not an error.
package schema
