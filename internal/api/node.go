package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Node is one node of an API-format graph: a class type plus named inputs.
// Each input is either a literal or a NodeRef to another node's output.
type Node struct {
	ClassType string
	Inputs    map[string]Value
	// Meta carries display-only metadata (e.g. the UI title). It is never
	// read by conversion or the graph model.
	Meta map[string]string

	// inputOrder remembers the order input names were first set, so an
	// unmodified node re-marshals with its inputs in document order.
	inputOrder []string
}

// SetInput sets a named input. The first set of a name fixes its position in
// the marshaled output; overwriting keeps the position. Inputs written to the
// map directly marshal after the ordered ones, in sorted name order.
func (n *Node) SetInput(name string, v Value) {
	if n.Inputs == nil {
		n.Inputs = make(map[string]Value)
	}
	if _, ok := n.Inputs[name]; !ok {
		n.inputOrder = append(n.inputOrder, name)
	}
	n.Inputs[name] = v
}

// inputNames returns input names in marshal order: first-set order for names
// recorded by SetInput or the parser, then any remaining names sorted.
func (n *Node) inputNames() []string {
	names := make([]string, 0, len(n.Inputs))
	seen := make(map[string]bool, len(n.inputOrder))
	for _, name := range n.inputOrder {
		if _, ok := n.Inputs[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}
	rest := make([]string, 0, len(n.Inputs)-len(names))
	for name := range n.Inputs {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	out := &Node{ClassType: n.ClassType}
	if n.Inputs != nil {
		out.Inputs = make(map[string]Value, len(n.Inputs))
		for k, v := range n.Inputs {
			out.Inputs[k] = cloneValue(v)
		}
	}
	out.inputOrder = append([]string(nil), n.inputOrder...)
	if n.Meta != nil {
		out.Meta = make(map[string]string, len(n.Meta))
		for k, v := range n.Meta {
			out.Meta[k] = v
		}
	}
	return out
}

func cloneValue(v Value) Value {
	switch val := v.(type) {
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = cloneValue(elem)
		}
		return out
	case Object:
		out := make(Object, len(val))
		for k, elem := range val {
			out[k] = cloneValue(elem)
		}
		return out
	default:
		return v
	}
}

// Graph is an id-keyed collection of API nodes that remembers insertion
// order. Order is what makes reports and serializations deterministic:
// iteration and marshaling always follow the order ids were first added.
type Graph struct {
	nodes map[string]*Node
	order []string
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// Put inserts or replaces a node. First insertion fixes the id's position.
func (g *Graph) Put(id string, n *Node) {
	if _, exists := g.nodes[id]; !exists {
		g.order = append(g.order, id)
	}
	g.nodes[id] = n
}

// Get returns the node for id, or nil if absent.
func (g *Graph) Get(id string) *Node {
	return g.nodes[id]
}

// Has reports whether the graph contains id.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// IDs returns node ids in insertion order. The slice is a copy.
func (g *Graph) IDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Walk calls fn for every (id, node) pair in insertion order, stopping early
// if fn returns false.
func (g *Graph) Walk(fn func(id string, n *Node) bool) {
	for _, id := range g.order {
		if !fn(id, g.nodes[id]) {
			return
		}
	}
}

// MarshalJSON writes the graph as {"<id>": {"class_type": ..., "inputs": ...,
// "_meta": ...?}, ...} with nodes in insertion order and inputs in first-set
// order. The parser records document order for both, so re-marshaling an
// unmodified graph reproduces the bytes it was parsed from.
func (g *Graph) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range g.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		nb, err := marshalNode(g.nodes[id])
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", id, err)
		}
		buf.Write(nb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNode(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"class_type":`)
	ctb, err := json.Marshal(n.ClassType)
	if err != nil {
		return nil, err
	}
	buf.Write(ctb)
	buf.WriteString(`,"inputs":{`)
	for i, name := range n.inputNames() {
		if i > 0 {
			buf.WriteByte(',')
		}
		nb, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(nb)
		buf.WriteByte(':')
		if err := writeValue(&buf, n.Inputs[name]); err != nil {
			return nil, fmt.Errorf("input %q: %w", name, err)
		}
	}
	buf.WriteByte('}')
	if len(n.Meta) > 0 {
		buf.WriteString(`,"_meta":`)
		mb, err := json.Marshal(n.Meta)
		if err != nil {
			return nil, err
		}
		buf.Write(mb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses an API-format graph, preserving the document's node
// and input order. Each node object must carry "class_type" and "inputs". A
// two-element input array [string, integer] decodes as a NodeRef; everything
// else decodes as a literal.
func (g *Graph) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("api graph: expected object, got %v", tok)
	}

	g.nodes = make(map[string]*Node)
	g.order = nil

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("api graph: non-string node id %v", keyTok)
		}
		node, err := decodeNode(dec)
		if err != nil {
			return fmt.Errorf("node %q: %w", id, err)
		}
		g.Put(id, node)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// decodeNode reads one node object from the stream, recording input order as
// encountered. Unknown fields are skipped; a malformed _meta is ignored.
func decodeNode(dec *json.Decoder) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	node := &Node{}
	var haveClass, haveInputs bool
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("non-string field name %v", keyTok)
		}
		switch key {
		case "class_type":
			if err := dec.Decode(&node.ClassType); err != nil {
				return nil, fmt.Errorf("class_type: %w", err)
			}
			haveClass = true
		case "inputs":
			if err := decodeInputs(dec, node); err != nil {
				return nil, err
			}
			haveInputs = true
		case "_meta":
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, err
			}
			var meta map[string]string
			if err := json.Unmarshal(raw, &meta); err == nil {
				node.Meta = meta
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, err
			}
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	if !haveClass {
		return nil, fmt.Errorf("missing class_type")
	}
	if !haveInputs {
		return nil, fmt.Errorf("missing inputs")
	}
	return node, nil
}

func decodeInputs(dec *json.Decoder, node *Node) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("inputs: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("inputs: expected object, got %v", tok)
	}
	node.Inputs = make(map[string]Value)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("inputs: non-string input name %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("input %q: %w", name, err)
		}
		v, err := UnmarshalInput(raw)
		if err != nil {
			return fmt.Errorf("input %q: %w", name, err)
		}
		node.SetInput(name, v)
	}
	_, err = dec.Token()
	return err
}

// UnmarshalInput decodes one node input. The NodeRef wire form is exactly a
// two-element array whose first element is a string and whose second is an
// integer; any other array stays a literal Array.
func UnmarshalInput(data []byte) (Value, error) {
	v, err := UnmarshalValue(data)
	if err != nil {
		return nil, err
	}
	if ref, ok := AsNodeRef(v); ok {
		return ref, nil
	}
	return v, nil
}

// AsNodeRef reports whether v has the NodeRef shape, returning the typed
// reference when it does. Accepts both an already-typed NodeRef and the raw
// two-element array form.
func AsNodeRef(v Value) (NodeRef, bool) {
	if ref, ok := v.(NodeRef); ok {
		return ref, true
	}
	arr, ok := v.(Array)
	if !ok || len(arr) != 2 {
		return NodeRef{}, false
	}
	id, ok := arr[0].(String)
	if !ok {
		return NodeRef{}, false
	}
	slot, ok := arr[1].(Int)
	if !ok {
		return NodeRef{}, false
	}
	return NodeRef{NodeID: string(id), Slot: int(slot)}, true
}
