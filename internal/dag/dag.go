package dag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sjellis/flowconv/internal/api"
)

// Edge is one dependency: To consumes an output of From.
type Edge struct {
	From  string
	To    string
	Input string // the consumer's input name
}

// CycleError reports that the graph is not a DAG. Cycle holds the ids of one
// offending cycle in traversal order.
type CycleError struct {
	Cycle []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Cycle, " -> "))
}

// Dag is the dependency view of an API-format graph, derived from NodeRef
// inputs. Dangling references (to ids not in the graph) are collected, not
// fatal: a partially converted graph still has a useful dependency view.
type Dag struct {
	order    []string
	deps     map[string][]string // consumer id -> source ids, by input name
	edges    []Edge
	dangling []Edge
}

// Build derives the dependency graph. Edges for each node are ordered by
// input name so identical graphs always produce identical views.
func Build(g *api.Graph) *Dag {
	d := &Dag{
		order: g.IDs(),
		deps:  make(map[string][]string),
	}

	g.Walk(func(id string, n *api.Node) bool {
		names := make([]string, 0, len(n.Inputs))
		for name := range n.Inputs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			ref, ok := api.AsNodeRef(n.Inputs[name])
			if !ok {
				continue
			}
			edge := Edge{From: ref.NodeID, To: id, Input: name}
			if !g.Has(ref.NodeID) {
				d.dangling = append(d.dangling, edge)
				continue
			}
			d.edges = append(d.edges, edge)
			d.deps[id] = append(d.deps[id], ref.NodeID)
		}
		return true
	})
	return d
}

// Edges returns every resolved dependency edge.
func (d *Dag) Edges() []Edge {
	out := make([]Edge, len(d.edges))
	copy(out, d.edges)
	return out
}

// Dangling returns edges whose source id is not in the graph.
func (d *Dag) Dangling() []Edge {
	out := make([]Edge, len(d.dangling))
	copy(out, d.dangling)
	return out
}

// Deps returns the direct dependencies of id, in input-name order.
func (d *Dag) Deps(id string) []string {
	out := make([]string, len(d.deps[id]))
	copy(out, d.deps[id])
	return out
}

// Ancestors returns every transitive dependency of id. Order is breadth
// first and deterministic.
func (d *Dag) Ancestors(id string) []string {
	seen := map[string]bool{id: true}
	var out []string
	frontier := []string{id}
	for len(frontier) > 0 {
		var next []string
		for _, cur := range frontier {
			for _, dep := range d.deps[cur] {
				if seen[dep] {
					continue
				}
				seen[dep] = true
				out = append(out, dep)
				next = append(next, dep)
			}
		}
		frontier = next
	}
	return out
}

// Topo returns a topological order: every node after all of its
// dependencies. Ties break by graph insertion order, so the result is
// deterministic. Returns a CycleError when the graph has a cycle.
func (d *Dag) Topo() ([]string, error) {
	indegree := make(map[string]int, len(d.order))
	consumers := make(map[string][]string)
	for _, id := range d.order {
		indegree[id] = len(d.deps[id])
	}
	for _, e := range d.edges {
		consumers[e.From] = append(consumers[e.From], e.To)
	}

	var ready []string
	for _, id := range d.order {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	out := make([]string, 0, len(d.order))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		out = append(out, id)
		for _, consumer := range consumers[id] {
			indegree[consumer]--
			if indegree[consumer] == 0 {
				ready = append(ready, consumer)
			}
		}
	}

	if len(out) != len(d.order) {
		return nil, &CycleError{Cycle: d.findCycle(indegree)}
	}
	return out, nil
}

// findCycle walks dependency pointers among the still-blocked nodes until an
// id repeats, then trims the walk to the cycle itself.
func (d *Dag) findCycle(indegree map[string]int) []string {
	blocked := make(map[string]bool)
	var start string
	for _, id := range d.order {
		if indegree[id] > 0 {
			blocked[id] = true
			if start == "" {
				start = id
			}
		}
	}
	if start == "" {
		return nil
	}

	var path []string
	at := map[string]int{}
	cur := start
	for {
		if pos, seen := at[cur]; seen {
			return append(path[pos:], cur)
		}
		at[cur] = len(path)
		path = append(path, cur)
		next := ""
		for _, dep := range d.deps[cur] {
			if blocked[dep] {
				next = dep
				break
			}
		}
		if next == "" {
			return path
		}
		cur = next
	}
}

// DOT renders the dependency graph in Graphviz dot syntax.
func (d *Dag) DOT(g *api.Graph) string {
	var b strings.Builder
	b.WriteString("digraph flow {\n")
	b.WriteString("  rankdir=LR;\n")
	for _, id := range d.order {
		label := id
		if n := g.Get(id); n != nil {
			label = fmt.Sprintf("%s\\n%s", id, n.ClassType)
		}
		fmt.Fprintf(&b, "  %q [label=%q];\n", id, label)
	}
	for _, e := range d.edges {
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", e.From, e.To, e.Input)
	}
	b.WriteString("}\n")
	return b.String()
}

// Mermaid renders the dependency graph as a mermaid flowchart.
func (d *Dag) Mermaid(g *api.Graph) string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")
	for _, id := range d.order {
		label := id
		if n := g.Get(id); n != nil {
			label = fmt.Sprintf("%s: %s", id, n.ClassType)
		}
		fmt.Fprintf(&b, "  n%s[%q]\n", id, label)
	}
	for _, e := range d.edges {
		fmt.Fprintf(&b, "  n%s -->|%s| n%s\n", e.From, e.Input, e.To)
	}
	return b.String()
}
