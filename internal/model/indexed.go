package model

import (
	"github.com/sjellis/flowconv/internal/api"
	"github.com/sjellis/flowconv/internal/schema"
)

// indexedModel precomputes the lookup tables at construction. What the
// tables hold is exactly what the model exposes: ByType answers come from
// the type table, Types lists its keys, and nothing is resolved through
// reflection at query time.
//
// The tables hold pointers into the wrapped graph, so value mutation through
// views stays visible; adding or removing nodes from the graph after
// construction is outside the contract.
type indexedModel struct {
	graph   *api.Graph
	reg     *schema.Registry
	entries []Entry
	byID    map[string]*Node
	byType  map[string][]*Node
	types   []string
}

func newIndexedModel(graph *api.Graph, reg *schema.Registry) *indexedModel {
	m := &indexedModel{
		graph:  graph,
		reg:    reg,
		byID:   make(map[string]*Node),
		byType: make(map[string][]*Node),
	}
	graph.Walk(func(id string, n *api.Node) bool {
		view := newNode(id, n, reg)
		m.entries = append(m.entries, Entry{ID: id, Node: n})
		m.byID[id] = view
		if _, seen := m.byType[n.ClassType]; !seen {
			m.types = append(m.types, n.ClassType)
		}
		m.byType[n.ClassType] = append(m.byType[n.ClassType], view)
		return true
	})
	return m
}

func (m *indexedModel) ByType(classType string) *Group {
	return &Group{members: m.byType[classType]}
}

func (m *indexedModel) ByID(id string) (*Node, error) {
	view, ok := m.byID[id]
	if !ok {
		return nil, &Error{Code: ErrCodeNotFound, Message: "no node with id", NodeID: id}
	}
	return view, nil
}

func (m *indexedModel) Select(pred func(id string, n *api.Node) bool) *Group {
	var members []*Node
	for _, e := range m.entries {
		if pred(e.ID, e.Node) {
			members = append(members, m.byID[e.ID])
		}
	}
	return &Group{members: members}
}

func (m *indexedModel) Nodes() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *indexedModel) Types() []string {
	out := make([]string, len(m.types))
	copy(out, m.types)
	return out
}

func (m *indexedModel) Graph() *api.Graph {
	return m.graph
}
