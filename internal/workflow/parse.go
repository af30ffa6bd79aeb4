package workflow

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sjellis/flowconv/internal/api"
)

// Parse decodes a UI-format workflow document. The document shape must have
// passed CheckDocument first; Parse itself only fails on JSON-level damage.
//
// Node and link entries that are not objects (or arrays, for links) are
// dropped silently, matching the tolerance of the rest of the pipeline:
// structural noise in the document must not abort conversion.
func Parse(data []byte) (*Workflow, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc struct {
		Nodes []json.RawMessage `json:"nodes"`
		Links []json.RawMessage `json:"links"`
	}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("workflow: %w", err)
	}

	wf := &Workflow{}
	for i, raw := range doc.Nodes {
		node, err := parseNode(raw)
		if err != nil {
			return nil, fmt.Errorf("workflow: node[%d]: %w", i, err)
		}
		if node != nil {
			wf.Nodes = append(wf.Nodes, *node)
		}
	}
	for _, raw := range doc.Links {
		link, ok := parseLink(raw)
		if !ok {
			continue
		}
		wf.Links = append(wf.Links, link)
	}
	return wf, nil
}

func parseNode(raw json.RawMessage) (*Node, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]json.RawMessage
	if err := dec.Decode(&obj); err != nil {
		// Non-object entries are noise, not errors.
		return nil, nil
	}

	node := &Node{}
	if idRaw, ok := obj["id"]; ok {
		node.ID = idString(idRaw)
	}
	if tRaw, ok := obj["type"]; ok {
		_ = json.Unmarshal(tRaw, &node.Type)
	}
	if titleRaw, ok := obj["title"]; ok {
		_ = json.Unmarshal(titleRaw, &node.Title)
	}

	// "widgets" is the document key; "widgets_values" is the UI editor's
	// legacy spelling. Accept both, preferring the former.
	wRaw, ok := obj["widgets"]
	if !ok {
		wRaw, ok = obj["widgets_values"]
	}
	if ok {
		var items []json.RawMessage
		if err := json.Unmarshal(wRaw, &items); err == nil {
			for i, item := range items {
				v, err := api.UnmarshalValue(item)
				if err != nil {
					return nil, fmt.Errorf("widget[%d]: %w", i, err)
				}
				node.Widgets = append(node.Widgets, v)
			}
		}
	}

	if inRaw, ok := obj["inputs"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(inRaw, &items); err == nil {
			for _, item := range items {
				var in struct {
					Name string `json:"name"`
					Link *int   `json:"link"`
				}
				if err := json.Unmarshal(item, &in); err != nil || in.Name == "" {
					continue
				}
				node.Inputs = append(node.Inputs, Input{Name: in.Name, Link: in.Link})
			}
		}
	}
	return node, nil
}

// parseLink accepts both wire forms:
//
//	{"id": 7, "origin": 1, "origin_slot": 0, "target": 2, "target_slot": 1, "type": "MODEL"}
//	[7, 1, 0, 2, 1, "MODEL"]
//
// The positional array is what the UI editor emits.
func parseLink(raw json.RawMessage) (Link, bool) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return Link{}, false
	}
	if trimmed[0] == '[' {
		return parseLinkArray(raw)
	}
	if trimmed[0] == '{' {
		return parseLinkObject(raw)
	}
	return Link{}, false
}

func parseLinkObject(raw json.RawMessage) (Link, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj struct {
		ID         *int            `json:"id"`
		Origin     json.RawMessage `json:"origin"`
		OriginSlot int             `json:"origin_slot"`
		Target     json.RawMessage `json:"target"`
		TargetSlot int             `json:"target_slot"`
		Type       string          `json:"type"`
	}
	if err := dec.Decode(&obj); err != nil || obj.ID == nil {
		return Link{}, false
	}
	return Link{
		ID:         *obj.ID,
		Origin:     idString(obj.Origin),
		OriginSlot: obj.OriginSlot,
		Target:     idString(obj.Target),
		TargetSlot: obj.TargetSlot,
		Type:       obj.Type,
	}, true
}

func parseLinkArray(raw json.RawMessage) (Link, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var parts []json.RawMessage
	if err := dec.Decode(&parts); err != nil || len(parts) < 5 {
		return Link{}, false
	}
	id, ok := intAt(parts, 0)
	if !ok {
		return Link{}, false
	}
	originSlot, ok := intAt(parts, 2)
	if !ok {
		return Link{}, false
	}
	targetSlot, ok := intAt(parts, 4)
	if !ok {
		return Link{}, false
	}
	link := Link{
		ID:         id,
		Origin:     idString(parts[1]),
		OriginSlot: originSlot,
		Target:     idString(parts[3]),
		TargetSlot: targetSlot,
	}
	if len(parts) >= 6 {
		_ = json.Unmarshal(parts[5], &link.Type)
	}
	return link, true
}

func intAt(parts []json.RawMessage, i int) (int, bool) {
	var n json.Number
	if err := json.Unmarshal(parts[i], &n); err != nil {
		return 0, false
	}
	v, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return int(v), true
}

// idString normalizes a node id to its string form. Ids are numbers in the
// UI document but become string keys in the API-format graph; normalizing at
// the boundary keeps every downstream lookup on one representation.
func idString(raw json.RawMessage) string {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}
