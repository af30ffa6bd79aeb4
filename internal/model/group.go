package model

import (
	"github.com/sjellis/flowconv/internal/api"
)

// Group is an ordered sequence of node views sharing a class type or a query
// result. Members alias the underlying graph; group writes mutate it in
// place.
type Group struct {
	members []*Node
}

// Len returns the number of members.
func (g *Group) Len() int {
	return len(g.members)
}

// At returns the i-th member, or nil when i is out of range.
func (g *Group) At(i int) *Node {
	if i < 0 || i >= len(g.members) {
		return nil
	}
	return g.members[i]
}

// First returns the first member, failing with an empty-result error on an
// empty group.
func (g *Group) First() (*Node, error) {
	if len(g.members) == 0 {
		return nil, &Error{Code: ErrCodeEmptyGroup, Message: "group has no members"}
	}
	return g.members[0], nil
}

// Members returns the member views in order.
func (g *Group) Members() []*Node {
	out := make([]*Node, len(g.members))
	copy(out, g.members)
	return out
}

// IDs returns the member node ids in order.
func (g *Group) IDs() []string {
	out := make([]string, len(g.members))
	for i, m := range g.members {
		out[i] = m.ID()
	}
	return out
}

// Set writes one widget value across every member. Validation runs first
// over all members; if the name resolves to a link parameter on any of
// them, the call fails and no member is mutated.
func (g *Group) Set(name string, v api.Value) error {
	for _, m := range g.members {
		if err := m.checkWidgetName(name); err != nil {
			return err
		}
	}
	for _, m := range g.members {
		if err := m.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}

// Apply computes and assigns a new value from each member's current value.
// All current values are read and transformed before anything is written,
// so a missing or link-classified widget on any member leaves the whole
// group untouched.
func (g *Group) Apply(name string, fn func(api.Value) api.Value) error {
	staged := make([]api.Value, len(g.members))
	for i, m := range g.members {
		lookup, err := m.Widget(name)
		if err != nil {
			return err
		}
		staged[i] = fn(lookup.Value())
	}
	for i, m := range g.members {
		if err := m.Set(name, staged[i]); err != nil {
			return err
		}
	}
	return nil
}

// Values returns the ordered sequence of the named widget's current values
// across members. Members on which the widget currently has no value are
// skipped; a link-classified name fails.
func (g *Group) Values(name string) ([]api.Value, error) {
	out := make([]api.Value, 0, len(g.members))
	for _, m := range g.members {
		lookup, err := m.Widget(name)
		if err != nil {
			if IsCode(err, ErrCodeUnknownParam) {
				continue
			}
			return nil, err
		}
		out = append(out, lookup.Value())
	}
	return out, nil
}
