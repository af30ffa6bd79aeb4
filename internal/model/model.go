package model

import (
	"fmt"

	"github.com/sjellis/flowconv/internal/api"
	"github.com/sjellis/flowconv/internal/schema"
)

// Entry is one (id, node) pair in graph encounter order.
type Entry struct {
	ID   string
	Node *api.Node
}

// Model is the graph-model contract: schema-aware navigation and mutation
// over an API-format graph. Two implementations exist; which one a process
// uses is a configuration-time choice made once at startup, not a mutable
// global consulted ad hoc.
type Model interface {
	// ByType returns a grouped view of all nodes of the class type, in
	// encounter order. The group may be empty.
	ByType(classType string) *Group

	// ByID returns a single-node view, or a not-found error.
	ByID(id string) (*Node, error)

	// Select returns a grouped view of nodes matching the predicate, in
	// encounter order.
	Select(pred func(id string, n *api.Node) bool) *Group

	// Nodes returns every (id, node) pair in encounter order. This is the
	// model's only enumerable container surface.
	Nodes() []Entry

	// Types returns the class types present, in first-encounter order.
	Types() []string

	// Graph returns the wrapped graph. The model wraps without copying;
	// serializing the graph reproduces the original mapping byte-for-byte
	// modulo writes performed through the model.
	Graph() *api.Graph
}

// Impl selects a Model implementation.
type Impl string

const (
	// ImplIndexed builds id and type tables at construction; lookups are
	// table hits. The default.
	ImplIndexed Impl = "indexed"
	// ImplScan keeps no tables and walks the graph per query. Slower, but
	// writes through other aliases of the graph are always visible.
	ImplScan Impl = "scan"
)

// ParseImpl maps a configuration string to an Impl.
func ParseImpl(s string) (Impl, error) {
	switch Impl(s) {
	case ImplIndexed, "":
		return ImplIndexed, nil
	case ImplScan:
		return ImplScan, nil
	default:
		return "", fmt.Errorf("unknown graph-model implementation %q (want %q or %q)", s, ImplIndexed, ImplScan)
	}
}

// Options configures model construction.
type Options struct {
	Impl Impl
}

// New wraps graph in the selected implementation. reg may be nil; the model
// then classifies widgets structurally.
func New(graph *api.Graph, reg *schema.Registry, opts Options) (Model, error) {
	impl, err := ParseImpl(string(opts.Impl))
	if err != nil {
		return nil, err
	}
	switch impl {
	case ImplScan:
		return &scanModel{graph: graph, reg: reg}, nil
	default:
		return newIndexedModel(graph, reg), nil
	}
}
