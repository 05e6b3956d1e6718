/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: format.go
Description: Declarative binary format model. A FormatSpec describes a file
as an ordered little-endian header followed by count-driven trailing arrays.
Value rules are a proper sum type (Fixed/Random/CountOf) so a literal value
can never be confused with a marker. Validation enforces the header/array
bijection before any file is ever written.
*/

package schema

// FieldType identifies the wire type of a header field or array element
type FieldType string

const (
	// TypeUint16 is a 2-byte little-endian unsigned integer
	TypeUint16 FieldType = "uint16"
	// TypeUint32 is a 4-byte little-endian unsigned integer
	TypeUint32 FieldType = "uint32"
	// TypeFloat is a 4-byte little-endian IEEE-754 single precision float
	TypeFloat FieldType = "float"
	// TypeFloat3 is three consecutive floats, 12 bytes (array elements only)
	TypeFloat3 FieldType = "float3"
)

// Width returns the encoded byte width of the type, or 0 when unknown
func (t FieldType) Width() int {
	switch t {
	case TypeUint16:
		return 2
	case TypeUint32, TypeFloat:
		return 4
	case TypeFloat3:
		return 12
	default:
		return 0
	}
}

// HeaderKind reports whether the type may appear as a header field
func (t FieldType) HeaderKind() bool {
	return t == TypeUint16 || t == TypeUint32 || t == TypeFloat
}

// ElementKind reports whether the type may appear as an array element
func (t FieldType) ElementKind() bool {
	return t == TypeUint32 || t == TypeFloat || t == TypeFloat3
}

// Integer reports whether the type carries an unsigned integer value
func (t FieldType) Integer() bool {
	return t == TypeUint16 || t == TypeUint32
}

// RuleKind discriminates how a header field obtains its value
type RuleKind int

const (
	// RuleFixed fields carry a literal value baked into the spec
	RuleFixed RuleKind = iota
	// RuleRandom fields are assigned a fresh value per encoded file
	RuleRandom
	// RuleCountOf fields carry the element count of a named trailing array
	RuleCountOf
)

// String returns the wire name of the rule kind
func (k RuleKind) String() string {
	switch k {
	case RuleFixed:
		return "fixed"
	case RuleRandom:
		return "random"
	case RuleCountOf:
		return "variable"
	default:
		return "unknown"
	}
}

// ValueRule is the sum type governing a header field's value: exactly one
// of a fixed literal, a per-file random draw, or a derived array count.
type ValueRule struct {
	Kind    RuleKind // which variant applies
	Literal Value    // payload for RuleFixed
	Array   string   // target array name for RuleCountOf
}

// Fixed builds a rule carrying a literal value
func Fixed(v Value) ValueRule {
	return ValueRule{Kind: RuleFixed, Literal: v}
}

// FixedUint builds a fixed rule for an unsigned integer literal
func FixedUint(v uint64) ValueRule {
	return ValueRule{Kind: RuleFixed, Literal: IntValue(int64(v))}
}

// FixedFloat builds a fixed rule for a floating point literal
func FixedFloat(v float64) ValueRule {
	return ValueRule{Kind: RuleFixed, Literal: FloatValue(v)}
}

// Random builds a rule sampled fresh for every encoded file
func Random() ValueRule {
	return ValueRule{Kind: RuleRandom}
}

// CountOf builds a rule deriving the field value from an array's length
func CountOf(array string) ValueRule {
	return ValueRule{Kind: RuleCountOf, Array: array}
}

// HeaderField is a fixed-width scalar at a fixed position in the header
type HeaderField struct {
	Name string    // unique within the spec
	Type FieldType // uint16, uint32, or float
	Rule ValueRule // how the field's value is obtained
}

// ArrayField is a trailing run of fixed-width elements whose length is
// carried by a companion CountOf header field.
type ArrayField struct {
	Name        string    // unique within the spec
	CountField  string    // header field holding this array's element count
	ElementType FieldType // uint32, float, or float3
}

// FormatSpec is the complete declarative description of a binary layout.
// Header order is byte-layout order. Specs are immutable once files
// referencing them exist.
type FormatSpec struct {
	Name   string
	Header []HeaderField
	Arrays []ArrayField
}

// HeaderSize returns the total byte width of the header
func (s *FormatSpec) HeaderSize() int {
	size := 0
	for _, f := range s.Header {
		size += f.Type.Width()
	}
	return size
}

// Field returns the header field with the given name
func (s *FormatSpec) Field(name string) (*HeaderField, bool) {
	for i := range s.Header {
		if s.Header[i].Name == name {
			return &s.Header[i], true
		}
	}
	return nil, false
}

// Array returns the array field with the given name
func (s *FormatSpec) Array(name string) (*ArrayField, bool) {
	for i := range s.Arrays {
		if s.Arrays[i].Name == name {
			return &s.Arrays[i], true
		}
	}
	return nil, false
}

// Validate checks the spec's internal consistency: unique names, legal
// types, and a strict bijection between CountOf header fields and arrays.
// Returns a SchemaError describing the first inconsistency found.
func (s *FormatSpec) Validate() error {
	names := make(map[string]bool, len(s.Header)+len(s.Arrays))

	for _, f := range s.Header {
		if f.Name == "" {
			return schemaErrorf(s.Name, "header field with empty name")
		}
		if names[f.Name] {
			return schemaErrorf(s.Name, "duplicate name %q", f.Name)
		}
		names[f.Name] = true

		if !f.Type.HeaderKind() {
			return schemaErrorf(s.Name, "header field %q has illegal type %q", f.Name, f.Type)
		}

		if f.Rule.Kind == RuleCountOf {
			if !f.Type.Integer() {
				return schemaErrorf(s.Name, "count field %q must be an integer type, got %q", f.Name, f.Type)
			}
			target, ok := s.Array(f.Rule.Array)
			if !ok {
				return schemaErrorf(s.Name, "count field %q references missing array %q", f.Name, f.Rule.Array)
			}
			if target.CountField != f.Name {
				return schemaErrorf(s.Name, "count field %q references array %q, which is counted by %q",
					f.Name, f.Rule.Array, target.CountField)
			}
		}
	}

	for _, a := range s.Arrays {
		if a.Name == "" {
			return schemaErrorf(s.Name, "array field with empty name")
		}
		if names[a.Name] {
			return schemaErrorf(s.Name, "duplicate name %q", a.Name)
		}
		names[a.Name] = true

		if !a.ElementType.ElementKind() {
			return schemaErrorf(s.Name, "array %q has illegal element type %q", a.Name, a.ElementType)
		}

		counter, ok := s.Field(a.CountField)
		if !ok {
			return schemaErrorf(s.Name, "array %q references missing count field %q", a.Name, a.CountField)
		}
		if counter.Rule.Kind != RuleCountOf || counter.Rule.Array != a.Name {
			return schemaErrorf(s.Name, "array %q count field %q does not count it", a.Name, a.CountField)
		}
	}

	return nil
}
