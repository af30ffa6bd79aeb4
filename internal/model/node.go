package model

import (
	"sort"

	"github.com/sjellis/flowconv/internal/api"
	"github.com/sjellis/flowconv/internal/schema"
)

// Node is a schema-aware view over one API node. The widget-name table is
// built at construction: what Widget and WidgetNames expose is exactly what
// is in that table, nothing reflective.
type Node struct {
	id          string
	node        *api.Node
	cls         *schema.ClassSchema // nil when the registry has no entry
	widgetNames []string
	widgetSet   map[string]bool
}

// newNode builds the view and its widget table. With a schema the table is
// the schema's widget declarations in order; without one it falls back to
// structure: every input key whose current value is not a node reference,
// sorted for determinism.
func newNode(id string, n *api.Node, reg *schema.Registry) *Node {
	view := &Node{id: id, node: n, widgetSet: make(map[string]bool)}

	if reg != nil {
		if cls, ok := reg.Lookup(n.ClassType); ok {
			view.cls = cls
			for _, spec := range cls.Widgets() {
				view.widgetNames = append(view.widgetNames, spec.Name)
				view.widgetSet[spec.Name] = true
			}
			return view
		}
	}

	for name, v := range n.Inputs {
		if _, isRef := api.AsNodeRef(v); isRef {
			continue
		}
		view.widgetNames = append(view.widgetNames, name)
		view.widgetSet[name] = true
	}
	sort.Strings(view.widgetNames)
	return view
}

// ID returns the node's graph id.
func (n *Node) ID() string {
	return n.id
}

// ClassType returns the node's class type.
func (n *Node) ClassType() string {
	return n.node.ClassType
}

// API returns the underlying API node. Views alias the graph; mutating the
// returned node is visible through every other view of it.
func (n *Node) API() *api.Node {
	return n.node
}

// WidgetNames returns every parameter name classified as a widget for this
// node, in table order.
func (n *Node) WidgetNames() []string {
	out := make([]string, len(n.widgetNames))
	copy(out, n.widgetNames)
	return out
}

// Widget looks up a widget by name. With a known schema the result is
// wrapped (choices, tooltip); without one it is the raw literal. Both are
// part of the contract. Link-classified names are rejected: links are
// reached only via explicit id-based graph traversal.
func (n *Node) Widget(name string) (Lookup, error) {
	if err := n.checkWidgetName(name); err != nil {
		return Lookup{}, err
	}
	raw, ok := n.node.Inputs[name]
	if !ok {
		if n.cls != nil {
			if spec := n.cls.Param(name); spec != nil && spec.HasDefault() {
				// Declared but unset: surface the schema default.
				return Lookup{Kind: LookupWrapped, Wrapped: Wrap(spec.Default, spec)}, nil
			}
		}
		return Lookup{}, &Error{
			Code:    ErrCodeUnknownParam,
			Message: "widget has no value",
			NodeID:  n.id,
			Param:   name,
		}
	}

	if n.cls != nil {
		if spec := n.cls.Param(name); spec != nil {
			return Lookup{Kind: LookupWrapped, Wrapped: Wrap(raw, spec)}, nil
		}
	}
	return Lookup{Kind: LookupRaw, Raw: raw}, nil
}

// Set writes a widget value in place. Writing to a link-classified name
// fails with a wrong-kind error and performs no mutation.
func (n *Node) Set(name string, v api.Value) error {
	if err := n.checkWidgetName(name); err != nil {
		return err
	}
	n.node.Inputs[name] = v
	if !n.widgetSet[name] {
		// Structural table: a fresh literal key joins the widget set.
		n.widgetSet[name] = true
		n.widgetNames = append(n.widgetNames, name)
		if n.cls == nil {
			sort.Strings(n.widgetNames)
		}
	}
	return nil
}

// checkWidgetName rejects names that resolve to link parameters, using the
// schema when known and falling back to the structural test (is the current
// value a node reference) otherwise.
func (n *Node) checkWidgetName(name string) error {
	if n.cls != nil {
		if spec := n.cls.Param(name); spec != nil && spec.Kind == schema.KindLink {
			return &Error{
				Code:    ErrCodeNotAWidget,
				Message: "parameter is link-classified; use graph traversal",
				NodeID:  n.id,
				Param:   name,
			}
		}
		return nil
	}
	if v, ok := n.node.Inputs[name]; ok {
		if _, isRef := api.AsNodeRef(v); isRef {
			return &Error{
				Code:    ErrCodeNotAWidget,
				Message: "input currently holds a node reference",
				NodeID:  n.id,
				Param:   name,
			}
		}
	}
	return nil
}
