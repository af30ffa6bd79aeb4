package model

import "fmt"

// ErrorCode categorizes graph-model failures. These are caller programming
// errors (bad id, wrong-kind access), so operations fail fast with one of
// these rather than silently doing nothing.
type ErrorCode string

const (
	// ErrCodeNotFound indicates an id with no node in the graph.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeEmptyGroup indicates first-element access on an empty group.
	ErrCodeEmptyGroup ErrorCode = "EMPTY_GROUP"

	// ErrCodeNotAWidget indicates widget-surface access to a link-classified
	// parameter. Links are reached only via explicit graph traversal.
	ErrCodeNotAWidget ErrorCode = "NOT_A_WIDGET"

	// ErrCodeUnknownParam indicates a parameter name the node neither
	// declares nor currently carries.
	ErrCodeUnknownParam ErrorCode = "UNKNOWN_PARAM"
)

// Error is a structured graph-model error.
type Error struct {
	Code    ErrorCode
	Message string
	NodeID  string
	Param   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.NodeID != "" && e.Param != "":
		return fmt.Sprintf("%s: %s (node=%s, param=%s)", e.Code, e.Message, e.NodeID, e.Param)
	case e.NodeID != "":
		return fmt.Sprintf("%s: %s (node=%s)", e.Code, e.Message, e.NodeID)
	case e.Param != "":
		return fmt.Sprintf("%s: %s (param=%s)", e.Code, e.Message, e.Param)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// IsCode reports whether err is a model Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}
