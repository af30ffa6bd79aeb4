package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Value is a sealed interface over the types that may appear as a node input
// in an API-format graph. Only Null, String, Int, Float, Bool, Array, Object,
// and NodeRef implement it. Consumers type-switch over these variants; there
// is no duck typing and no raw interface{} escape hatch.
type Value interface {
	value() // sealed
}

// Null represents a JSON null input value.
type Null struct{}

func (Null) value() {}

// String represents a string input value.
type String string

func (String) value() {}

// Int represents an integer input value. JSON numbers without a fraction or
// exponent decode to Int, never Float, so `42` survives a round trip as `42`.
type Int int64

func (Int) value() {}

// Float represents a fractional input value.
type Float float64

func (Float) value() {}

// Bool represents a boolean input value.
type Bool bool

func (Bool) value() {}

// Array represents a JSON array input value.
type Array []Value

func (Array) value() {}

// Object represents a JSON object input value.
type Object map[string]Value

func (Object) value() {}

// NodeRef is an input sourced from another node's output slot. On the wire it
// is the two-element array ["<node id>", slot].
type NodeRef struct {
	NodeID string
	Slot   int
}

func (NodeRef) value() {}

// Equal reports deep equality of two values. A NodeRef never equals the
// array form it serializes as; the variants are distinct by construction.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case Float:
		bv, ok := b.(Float)
		return ok && av == bv
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case NodeRef:
		bv, ok := b.(NodeRef)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bval, present := bv[k]
			if !present || !Equal(v, bval) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FromAny converts a decoded JSON value (as produced by json.Decoder with
// UseNumber) into a Value. It never fails on well-formed decoder output.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		return numberValue(val)
	case float64:
		// Plain json.Unmarshal without UseNumber lands here.
		if val == float64(int64(val)) {
			return Int(int64(val)), nil
		}
		return Float(val), nil
	case int:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			conv, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = conv
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			conv, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = conv
		}
		return obj, nil
	case Value:
		return val, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

func numberValue(n json.Number) (Value, error) {
	if i, err := n.Int64(); err == nil {
		return Int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", string(n), err)
	}
	return Float(f), nil
}

// UnmarshalValue decodes JSON bytes into a Value. Numbers decode to Int when
// they carry no fraction or exponent. Two-element arrays are NOT interpreted
// as NodeRef here; that interpretation belongs to node-input decoding.
func UnmarshalValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return FromAny(raw)
}

// MarshalValue encodes a Value as compact JSON. Object keys are emitted in
// sorted order so identical values always produce identical bytes.
func MarshalValue(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeValue(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("nil Value")
	case Null:
		buf.WriteString("null")
	case String:
		b, err := json.Marshal(string(val))
		if err != nil {
			return err
		}
		buf.Write(b)
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Float:
		b, err := json.Marshal(float64(val))
		if err != nil {
			return err
		}
		buf.Write(b)
	case Bool:
		buf.WriteString(strconv.FormatBool(bool(val)))
	case NodeRef:
		id, err := json.Marshal(val.NodeID)
		if err != nil {
			return err
		}
		buf.WriteByte('[')
		buf.Write(id)
		buf.WriteByte(',')
		buf.WriteString(strconv.Itoa(val.Slot))
		buf.WriteByte(']')
	case Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case Object:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeValue(buf, val[k]); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown Value type %T", v)
	}
	return nil
}
