package model

import (
	"github.com/sjellis/flowconv/internal/api"
	"github.com/sjellis/flowconv/internal/schema"
)

// scanModel walks the graph on every query. It keeps no state beyond the
// graph and registry, so it observes structural changes (nodes added or
// removed after construction) that indexedModel would miss.
type scanModel struct {
	graph *api.Graph
	reg   *schema.Registry
}

func (m *scanModel) ByType(classType string) *Group {
	return m.Select(func(_ string, n *api.Node) bool {
		return n.ClassType == classType
	})
}

func (m *scanModel) ByID(id string) (*Node, error) {
	n := m.graph.Get(id)
	if n == nil {
		return nil, &Error{Code: ErrCodeNotFound, Message: "no node with id", NodeID: id}
	}
	return newNode(id, n, m.reg), nil
}

func (m *scanModel) Select(pred func(id string, n *api.Node) bool) *Group {
	var members []*Node
	m.graph.Walk(func(id string, n *api.Node) bool {
		if pred(id, n) {
			members = append(members, newNode(id, n, m.reg))
		}
		return true
	})
	return &Group{members: members}
}

func (m *scanModel) Nodes() []Entry {
	var out []Entry
	m.graph.Walk(func(id string, n *api.Node) bool {
		out = append(out, Entry{ID: id, Node: n})
		return true
	})
	return out
}

func (m *scanModel) Types() []string {
	var types []string
	seen := make(map[string]bool)
	m.graph.Walk(func(_ string, n *api.Node) bool {
		if !seen[n.ClassType] {
			seen[n.ClassType] = true
			types = append(types, n.ClassType)
		}
		return true
	})
	return types
}

func (m *scanModel) Graph() *api.Graph {
	return m.graph
}
