// Package store persists conversion run records to SQLite. It is the
// pass/fail record interface consumed by external test orchestration; the
// conversion core itself never touches it.
package store
