package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sjellis/flowconv/internal/api"
)

// valueTags are the scalar type tags that mark a widget parameter. Any other
// scalar tag ("MODEL", "LATENT", custom types, ...) classifies as link.
// Unknown tags are accepted as opaque link types; the catalog never fails to
// load because of a tag it has not seen before.
var valueTags = map[string]bool{
	"INT":     true,
	"FLOAT":   true,
	"STRING":  true,
	"BOOLEAN": true,
}

// ParseWarning records a catalog entry that was tolerated but not usable.
type ParseWarning struct {
	ClassType string
	Message   string
}

// ParseCatalog builds a Registry from a raw catalog document of the shape
//
//	{ "<class>": { "input": { "required": { "<name>": [tag, opts?] },
//	                          "optional": { ... } } } }
//
// Parameter order inside required/optional is preserved from the document
// (it defines positional widget consumption), which is why this parses with
// a token stream instead of a Go map. Malformed class or parameter entries
// are skipped with a warning; only an unreadable top-level document is an
// error.
func ParseCatalog(data []byte) (*Registry, []ParseWarning, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("catalog: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("catalog: expected top-level object")
	}

	reg := NewRegistry()
	var warns []ParseWarning

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("catalog: %w", err)
		}
		classType, ok := keyTok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("catalog: non-string class key %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("catalog: class %q: %w", classType, err)
		}

		cls, clsWarns := parseClass(classType, raw)
		warns = append(warns, clsWarns...)
		if cls != nil {
			reg.Register(cls)
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("catalog: %w", err)
	}
	return reg, warns, nil
}

// parseClass parses one class entry. Returns nil when the entry is unusable;
// an entry with no declared inputs still registers (an input-less class is a
// legitimate source node).
func parseClass(classType string, raw json.RawMessage) (*ClassSchema, []ParseWarning) {
	var warns []ParseWarning

	inputRaw, ok := objectField(raw, "input")
	cls := &ClassSchema{ClassType: classType}
	if !ok {
		return cls, nil
	}

	for _, section := range []struct {
		key      string
		required bool
	}{
		{"required", true},
		{"optional", false},
	} {
		secRaw, ok := objectField(inputRaw, section.key)
		if !ok {
			continue
		}
		params, secWarns := parseSection(classType, secRaw, section.required)
		cls.Params = append(cls.Params, params...)
		warns = append(warns, secWarns...)
	}
	return cls, warns
}

// parseSection walks one required/optional block in declaration order.
func parseSection(classType string, raw json.RawMessage, required bool) ([]ParamSpec, []ParseWarning) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, []ParseWarning{{classType, fmt.Sprintf("unreadable input section: %v", err)}}
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, []ParseWarning{{classType, "input section is not an object"}}
	}

	var params []ParamSpec
	var warns []ParseWarning
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			warns = append(warns, ParseWarning{classType, fmt.Sprintf("truncated input section: %v", err)})
			return params, warns
		}
		name, ok := keyTok.(string)
		if !ok {
			warns = append(warns, ParseWarning{classType, fmt.Sprintf("non-string parameter name %v", keyTok)})
			return params, warns
		}
		var entry json.RawMessage
		if err := dec.Decode(&entry); err != nil {
			warns = append(warns, ParseWarning{classType, fmt.Sprintf("parameter %q: %v", name, err)})
			return params, warns
		}
		spec, ok := parseParam(name, entry, required)
		if !ok {
			warns = append(warns, ParseWarning{classType, fmt.Sprintf("parameter %q: malformed declaration", name)})
			continue
		}
		params = append(params, spec)
	}
	return params, warns
}

// parseParam interprets one [tagOrChoiceList, options?] declaration.
func parseParam(name string, entry json.RawMessage, required bool) (ParamSpec, bool) {
	var parts []json.RawMessage
	if err := json.Unmarshal(entry, &parts); err != nil || len(parts) == 0 {
		return ParamSpec{}, false
	}

	spec := ParamSpec{Name: name, Required: required}

	// Head: scalar tag or choice list.
	var choiceList []string
	if err := json.Unmarshal(parts[0], &choiceList); err == nil {
		spec.Kind = KindWidget
		spec.TypeTag = "COMBO"
		spec.Choices = choiceList
	} else {
		var tag string
		if err := json.Unmarshal(parts[0], &tag); err != nil {
			return ParamSpec{}, false
		}
		spec.TypeTag = tag
		if valueTags[strings.ToUpper(tag)] {
			spec.Kind = KindWidget
		} else {
			spec.Kind = KindLink
		}
	}

	if len(parts) >= 2 {
		applyOptions(&spec, parts[1])
	}
	return spec, true
}

// applyOptions reads the options object. Unknown option keys are ignored;
// an options blob that is not an object is ignored entirely.
func applyOptions(spec *ParamSpec, raw json.RawMessage) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var opts map[string]any
	if err := dec.Decode(&opts); err != nil {
		return
	}

	if d, ok := opts["default"]; ok {
		if v, err := api.FromAny(d); err == nil {
			spec.Default = v
		}
	}
	if t, ok := opts["tooltip"].(string); ok {
		spec.Tooltip = t
	}
	spec.Min = floatOption(opts, "min")
	spec.Max = floatOption(opts, "max")
	spec.Step = floatOption(opts, "step")

	// Newer catalogs declare choice widgets as ["COMBO", {"options": [...]}].
	if strings.EqualFold(spec.TypeTag, "COMBO") && spec.Choices == nil {
		if rawOpts, ok := opts["options"].([]any); ok {
			choices := make([]string, 0, len(rawOpts))
			for _, c := range rawOpts {
				if s, ok := c.(string); ok {
					choices = append(choices, s)
				}
			}
			spec.Choices = choices
			spec.Kind = KindWidget
		}
	}
}

func floatOption(opts map[string]any, key string) *float64 {
	n, ok := opts[key].(json.Number)
	if !ok {
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	return &f
}

// objectField extracts a named field from a raw JSON object without
// disturbing the order of anything inside it.
func objectField(raw json.RawMessage, field string) (json.RawMessage, bool) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	v, ok := m[field]
	return v, ok
}
