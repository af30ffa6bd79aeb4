package api

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces a canonical serialization of a graph for hashing
// and golden-file comparison. It differs from MarshalJSON in three ways:
// node ids and object keys are sorted by UTF-16 code units (RFC 8785 order),
// strings are NFC normalized, and <, >, & are never HTML-escaped.
//
// This is NOT the wire format. The wire format (MarshalJSON) preserves node
// encounter order; canonical form exists so two graphs with the same content
// always hash identically regardless of how they were assembled.
func MarshalCanonical(g *Graph) ([]byte, error) {
	ids := g.IDs()
	sort.Slice(ids, func(i, j int) bool { return utf16Less(ids[i], ids[j]) })

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeCanonicalString(&buf, id)
		buf.WriteByte(':')
		if err := writeCanonicalNode(&buf, g.Get(id)); err != nil {
			return nil, fmt.Errorf("node %q: %w", id, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeCanonicalNode(buf *bytes.Buffer, n *Node) error {
	buf.WriteByte('{')
	if len(n.Meta) > 0 {
		writeCanonicalString(buf, "_meta")
		buf.WriteByte(':')
		keys := make([]string, 0, len(n.Meta))
		for k := range n.Meta {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return utf16Less(keys[i], keys[j]) })
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, k)
			buf.WriteByte(':')
			writeCanonicalString(buf, n.Meta[k])
		}
		buf.WriteByte('}')
		buf.WriteByte(',')
	}
	writeCanonicalString(buf, "class_type")
	buf.WriteByte(':')
	writeCanonicalString(buf, n.ClassType)
	buf.WriteByte(',')
	writeCanonicalString(buf, "inputs")
	buf.WriteByte(':')

	names := make([]string, 0, len(n.Inputs))
	for name := range n.Inputs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return utf16Less(names[i], names[j]) })
	buf.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeCanonicalString(buf, name)
		buf.WriteByte(':')
		if err := writeCanonicalValue(buf, n.Inputs[name]); err != nil {
			return fmt.Errorf("input %q: %w", name, err)
		}
	}
	buf.WriteByte('}')
	buf.WriteByte('}')
	return nil
}

func writeCanonicalValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("nil Value")
	case Null:
		buf.WriteString("null")
	case String:
		writeCanonicalString(buf, string(val))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Float:
		// Shortest representation that round-trips.
		buf.WriteString(strconv.FormatFloat(float64(val), 'g', -1, 64))
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case NodeRef:
		buf.WriteByte('[')
		writeCanonicalString(buf, val.NodeID)
		buf.WriteByte(',')
		buf.WriteString(strconv.Itoa(val.Slot))
		buf.WriteByte(']')
	case Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalValue(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case Object:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return utf16Less(keys[i], keys[j]) })
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, k)
			buf.WriteByte(':')
			if err := writeCanonicalValue(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown Value type %T", v)
	}
	return nil
}

// writeCanonicalString writes an NFC-normalized JSON string without HTML
// escaping. Control characters use the shortest standard escapes.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				var tmp [utf8.UTFMax]byte
				n := utf8.EncodeRune(tmp[:], r)
				buf.Write(tmp[:n])
			}
		}
	}
	buf.WriteByte('"')
}

// utf16Less orders strings by UTF-16 code units as RFC 8785 requires.
// UTF-8 byte order disagrees with this for characters outside the BMP.
func utf16Less(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}
