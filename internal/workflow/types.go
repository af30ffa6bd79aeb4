package workflow

import (
	"github.com/sjellis/flowconv/internal/api"
)

// Input is one named input declaration on a UI node. Link is nil for a
// literal placeholder and set for an edge-fed input.
type Input struct {
	Name string
	Link *int
}

// Node is a UI-authored node: positional widget values plus named input
// declarations. Title is display-only and surfaces as _meta when conversion
// runs with metadata enabled.
type Node struct {
	ID      string
	Type    string
	Widgets []api.Value
	Inputs  []Input
	Title   string
}

// Link is one explicit edge of the UI graph. Endpoints may reference node
// ids that do not exist; that is a validation condition handled during
// conversion, not a parse failure.
type Link struct {
	ID         int
	Origin     string
	OriginSlot int
	Target     string
	TargetSlot int
	Type       string
}

// Workflow is the parsed UI-format document: a node set and a link set.
type Workflow struct {
	Nodes []Node
	Links []Link
}
