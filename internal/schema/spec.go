package schema

import (
	"github.com/sjellis/flowconv/internal/api"
)

// ParamKind classifies a parameter as widget (literal-valued) or link
// (sourced from another node's output). Classification is tag-driven and is
// the single source of truth for conversion and for value wrapping.
type ParamKind string

const (
	// KindWidget marks a literal-valued parameter.
	KindWidget ParamKind = "widget"
	// KindLink marks a parameter fed by an edge from another node.
	KindLink ParamKind = "link"
)

// ParamSpec describes one declared parameter of a node class. Immutable once
// parsed.
type ParamSpec struct {
	Name     string
	Kind     ParamKind
	TypeTag  string    // value-type tag, e.g. "INT", "MODEL"; "COMBO" for choice lists
	Default  api.Value // nil when the declaration carries no default
	Min      *float64
	Max      *float64
	Step     *float64
	Choices  []string // enumerated domain for choice widgets; nil otherwise
	Tooltip  string
	Required bool
}

// HasDefault reports whether the declaration carried an explicit default.
func (p *ParamSpec) HasDefault() bool {
	return p.Default != nil
}

// ClassSchema is the ordered parameter declaration for one node class.
// Required entries precede optional entries; within each block, source
// declaration order is preserved. That order defines positional widget
// consumption.
type ClassSchema struct {
	ClassType string
	Params    []ParamSpec
}

// Widgets returns the widget-classified params in declaration order.
func (s *ClassSchema) Widgets() []ParamSpec {
	var out []ParamSpec
	for _, p := range s.Params {
		if p.Kind == KindWidget {
			out = append(out, p)
		}
	}
	return out
}

// Links returns the link-classified params in declaration order.
func (s *ClassSchema) Links() []ParamSpec {
	var out []ParamSpec
	for _, p := range s.Params {
		if p.Kind == KindLink {
			out = append(out, p)
		}
	}
	return out
}

// Param returns the spec for name, or nil if the class does not declare it.
func (s *ClassSchema) Param(name string) *ParamSpec {
	for i := range s.Params {
		if s.Params[i].Name == name {
			return &s.Params[i]
		}
	}
	return nil
}

// Registry is a flat lookup from class type to its schema. Caller-supplied
// and immutable for the duration of a conversion.
type Registry struct {
	classes map[string]*ClassSchema
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]*ClassSchema)}
}

// Register adds or replaces a class schema.
func (r *Registry) Register(s *ClassSchema) {
	r.classes[s.ClassType] = s
}

// Lookup returns the schema for classType, or (nil, false) when the type has
// no registered schema.
func (r *Registry) Lookup(classType string) (*ClassSchema, bool) {
	s, ok := r.classes[classType]
	return s, ok
}

// Len returns the number of registered classes.
func (r *Registry) Len() int {
	return len(r.classes)
}
