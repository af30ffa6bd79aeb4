// Package workflow models the UI-authored graph format: nodes carrying
// positional widget values and named input declarations, plus an explicit
// link list. It owns document-shape validation (CUE) and decoding; it does
// not interpret the graph; that is the convert package's job.
package workflow
