/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: json.go
Description: JSON wire form for format specs. The persisted shape keeps
header field rules in a single "value" slot (a literal number, "random",
or "variable") and annotates arrays with their element stride, so spec
files stay readable next to the binaries they describe.
*/

package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	ruleWordRandom   = "random"
	ruleWordVariable = "variable"
)

// headerFieldJSON is the persisted shape of a header field. Value holds
// either a JSON number (fixed) or one of the rule words.
type headerFieldJSON struct {
	Name  string          `json:"name"`
	Type  FieldType       `json:"type"`
	Value json.RawMessage `json:"value"`
}

// arrayFieldJSON is the persisted shape of an array field. Stride is
// redundant with the element type and is ignored on read.
type arrayFieldJSON struct {
	Name       string    `json:"name"`
	CountField string    `json:"count_field"`
	Type       FieldType `json:"type"`
	Stride     int       `json:"stride"`
}

type specJSON struct {
	Name   string            `json:"name"`
	Header []headerFieldJSON `json:"header"`
	Arrays []arrayFieldJSON  `json:"arrays"`
}

// MarshalJSON renders the spec in its persisted wire form
func (s *FormatSpec) MarshalJSON() ([]byte, error) {
	out := specJSON{
		Name:   s.Name,
		Header: make([]headerFieldJSON, 0, len(s.Header)),
		Arrays: make([]arrayFieldJSON, 0, len(s.Arrays)),
	}

	for _, f := range s.Header {
		var raw json.RawMessage
		switch f.Rule.Kind {
		case RuleFixed:
			if f.Rule.Literal.IsFloat() {
				raw = json.RawMessage(strconv.FormatFloat(f.Rule.Literal.Real, 'g', -1, 64))
			} else {
				raw = json.RawMessage(strconv.FormatInt(f.Rule.Literal.Int, 10))
			}
		case RuleRandom:
			raw = json.RawMessage(strconv.Quote(ruleWordRandom))
		case RuleCountOf:
			raw = json.RawMessage(strconv.Quote(ruleWordVariable))
		default:
			return nil, schemaErrorf(s.Name, "field %q has unknown rule kind %d", f.Name, f.Rule.Kind)
		}
		out.Header = append(out.Header, headerFieldJSON{Name: f.Name, Type: f.Type, Value: raw})
	}

	for _, a := range s.Arrays {
		out.Arrays = append(out.Arrays, arrayFieldJSON{
			Name:       a.Name,
			CountField: a.CountField,
			Type:       a.ElementType,
			Stride:     a.ElementType.Width(),
		})
	}

	return json.Marshal(out)
}

// UnmarshalJSON restores a spec from its persisted wire form. CountOf
// targets are recovered from the arrays' count_field links; the stride
// annotation is ignored in favour of the element type.
func (s *FormatSpec) UnmarshalJSON(data []byte) error {
	var in specJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("spec json: %w", err)
	}

	// Arrays first so count fields can resolve their targets
	arrays := make([]ArrayField, 0, len(in.Arrays))
	countTarget := make(map[string]string, len(in.Arrays))
	for _, a := range in.Arrays {
		arrays = append(arrays, ArrayField{
			Name:        a.Name,
			CountField:  a.CountField,
			ElementType: a.Type,
		})
		countTarget[a.CountField] = a.Name
	}

	header := make([]HeaderField, 0, len(in.Header))
	for _, f := range in.Header {
		rule, err := parseRule(in.Name, f.Name, f.Value, countTarget)
		if err != nil {
			return err
		}
		header = append(header, HeaderField{Name: f.Name, Type: f.Type, Rule: rule})
	}

	s.Name = in.Name
	s.Header = header
	s.Arrays = arrays
	return nil
}

// parseRule decodes a header field's value slot into a ValueRule
func parseRule(spec, field string, raw json.RawMessage, countTarget map[string]string) (ValueRule, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ValueRule{}, schemaErrorf(spec, "field %q has no value", field)
	}

	if raw[0] == '"' {
		var word string
		if err := json.Unmarshal(raw, &word); err != nil {
			return ValueRule{}, schemaErrorf(spec, "field %q: %v", field, err)
		}
		switch word {
		case ruleWordRandom:
			return Random(), nil
		case ruleWordVariable:
			target, ok := countTarget[field]
			if !ok {
				return ValueRule{}, schemaErrorf(spec, "count field %q is not referenced by any array", field)
			}
			return CountOf(target), nil
		default:
			return ValueRule{}, schemaErrorf(spec, "field %q has unknown value word %q", field, word)
		}
	}

	// A bare number: integer unless the text carries a fractional or
	// exponent marker, mirroring how the specs are written out.
	text := string(raw)
	if !bytes.ContainsAny(raw, ".eE") {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return ValueRule{}, schemaErrorf(spec, "field %q has bad integer %q: %v", field, text, err)
		}
		return Fixed(IntValue(n)), nil
	}

	x, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return ValueRule{}, schemaErrorf(spec, "field %q has bad number %q: %v", field, text, err)
	}
	return Fixed(FloatValue(x)), nil
}

// ParseSpec decodes and validates a persisted format spec
func ParseSpec(data []byte) (*FormatSpec, error) {
	var spec FormatSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}
