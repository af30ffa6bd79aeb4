package model

import (
	"github.com/sjellis/flowconv/internal/api"
	"github.com/sjellis/flowconv/internal/schema"
)

// LookupKind tags the result of a widget lookup. Callers branch on the tag;
// there is no implicit coercion between the two shapes.
type LookupKind string

const (
	// LookupWrapped means the owning schema is known and the value arrives
	// as a WrappedValue with choices and tooltip.
	LookupWrapped LookupKind = "wrapped"
	// LookupRaw means no spec is known for this parameter (unregistered
	// class, or a key the schema does not declare); the value arrives as
	// the raw literal.
	LookupRaw LookupKind = "raw"
)

// Lookup is the discriminated result of Node.Widget. Exactly one of Wrapped
// (when Kind is LookupWrapped) or Raw (when Kind is LookupRaw) is set.
type Lookup struct {
	Kind    LookupKind
	Wrapped *WrappedValue
	Raw     api.Value
}

// Value returns the underlying raw value regardless of kind.
func (l Lookup) Value() api.Value {
	if l.Kind == LookupWrapped {
		return l.Wrapped.Value()
	}
	return l.Raw
}

// WrappedValue is a read-only pairing of a raw widget value with its owning
// parameter spec. Equality delegates to the raw value, so a wrapped value
// compares equal to its unwrapped form.
type WrappedValue struct {
	raw  api.Value
	spec *schema.ParamSpec
}

// Wrap pairs a value with its spec.
func Wrap(raw api.Value, spec *schema.ParamSpec) *WrappedValue {
	return &WrappedValue{raw: raw, spec: spec}
}

// Value returns the raw value.
func (w *WrappedValue) Value() api.Value {
	return w.raw
}

// Spec returns the owning parameter spec.
func (w *WrappedValue) Spec() *schema.ParamSpec {
	return w.spec
}

// Choices returns the enumerated domain, or false when the parameter does
// not enumerate one.
func (w *WrappedValue) Choices() ([]string, bool) {
	if len(w.spec.Choices) == 0 {
		return nil, false
	}
	out := make([]string, len(w.spec.Choices))
	copy(out, w.spec.Choices)
	return out, true
}

// Tooltip returns the declared tooltip, or false when there is none.
func (w *WrappedValue) Tooltip() (string, bool) {
	if w.spec.Tooltip == "" {
		return "", false
	}
	return w.spec.Tooltip, true
}

// Equal compares against either another WrappedValue or a raw api.Value.
// Wrapping never affects equality: Wrap(x, s).Equal(x) holds for all x.
func (w *WrappedValue) Equal(other any) bool {
	switch o := other.(type) {
	case *WrappedValue:
		return api.Equal(w.raw, o.raw)
	case WrappedValue:
		return api.Equal(w.raw, o.raw)
	case api.Value:
		return api.Equal(w.raw, o)
	default:
		return false
	}
}

// Compare orders against another wrapped or raw value, delegating to the
// raw values. The second return is false for kinds with no defined order
// (arrays, objects, refs) or mismatched kinds.
func (w *WrappedValue) Compare(other any) (int, bool) {
	var ov api.Value
	switch o := other.(type) {
	case *WrappedValue:
		ov = o.raw
	case WrappedValue:
		ov = o.raw
	case api.Value:
		ov = o
	default:
		return 0, false
	}
	return compareValues(w.raw, ov)
}

func compareValues(a, b api.Value) (int, bool) {
	switch av := a.(type) {
	case api.Int:
		switch bv := b.(type) {
		case api.Int:
			return cmpInt64(int64(av), int64(bv)), true
		case api.Float:
			return cmpFloat64(float64(av), float64(bv)), true
		}
	case api.Float:
		switch bv := b.(type) {
		case api.Int:
			return cmpFloat64(float64(av), float64(bv)), true
		case api.Float:
			return cmpFloat64(float64(av), float64(bv)), true
		}
	case api.String:
		if bv, ok := b.(api.String); ok {
			switch {
			case av < bv:
				return -1, true
			case av > bv:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	return 0, false
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
