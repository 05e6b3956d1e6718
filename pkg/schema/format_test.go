/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: format_test.go
Description: Tests for format spec construction and validation. Covers
the field type table, the linkage rules between count fields and arrays,
and the value matching used during scoring.
*/

package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/lyra-formats/pkg/schema"
)

// meshLikeSpec builds a small valid spec with a fixed magic, a random
// field, and two counted arrays, shaped like the specs experiments use.
func meshLikeSpec() *schema.FormatSpec {
	return &schema.FormatSpec{
		Name: "TestFormat",
		Header: []schema.HeaderField{
			{Name: "magic", Type: schema.TypeUint32, Rule: schema.FixedUint(0x4D475246)},
			{Name: "field_0", Type: schema.TypeFloat, Rule: schema.Random()},
			{Name: "count_0", Type: schema.TypeUint32, Rule: schema.CountOf("array_0")},
			{Name: "count_1", Type: schema.TypeUint32, Rule: schema.CountOf("array_1")},
		},
		Arrays: []schema.ArrayField{
			{Name: "array_0", CountField: "count_0", ElementType: schema.TypeFloat3},
			{Name: "array_1", CountField: "count_1", ElementType: schema.TypeUint32},
		},
	}
}

// TestFieldTypeWidths tests the byte widths behind header and array layout
func TestFieldTypeWidths(t *testing.T) {
	assert.Equal(t, 2, schema.TypeUint16.Width())
	assert.Equal(t, 4, schema.TypeUint32.Width())
	assert.Equal(t, 4, schema.TypeFloat.Width())
	assert.Equal(t, 12, schema.TypeFloat3.Width())
	assert.Equal(t, 0, schema.FieldType("uint64").Width())

	// Only scalar types may appear in headers
	assert.True(t, schema.TypeUint16.HeaderKind())
	assert.True(t, schema.TypeFloat.HeaderKind())
	assert.False(t, schema.TypeFloat3.HeaderKind())

	// Arrays additionally admit float triples
	assert.True(t, schema.TypeFloat3.ElementKind())
	assert.False(t, schema.TypeUint16.ElementKind())
}

// TestSpecValidation tests that a well-formed spec passes validation
func TestSpecValidation(t *testing.T) {
	spec := meshLikeSpec()
	require.NoError(t, spec.Validate())

	// 4 + 4 + 4 + 4 header bytes
	assert.Equal(t, 16, spec.HeaderSize())

	field, ok := spec.Field("count_0")
	require.True(t, ok)
	assert.Equal(t, schema.RuleCountOf, field.Rule.Kind)
	assert.Equal(t, "array_0", field.Rule.Array)

	arr, ok := spec.Array("array_1")
	require.True(t, ok)
	assert.Equal(t, "count_1", arr.CountField)

	_, ok = spec.Field("missing")
	assert.False(t, ok)
}

// TestSpecValidationRejectsDuplicateNames tests the global namespace rule
func TestSpecValidationRejectsDuplicateNames(t *testing.T) {
	spec := meshLikeSpec()
	spec.Header[1].Name = "magic"
	err := spec.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	// Header and array names share one namespace
	spec = meshLikeSpec()
	spec.Header[1].Name = "array_0"
	assert.Error(t, spec.Validate())
}

// TestSpecValidationRejectsFloatCount tests that count fields must be integers
func TestSpecValidationRejectsFloatCount(t *testing.T) {
	spec := meshLikeSpec()
	spec.Header[2].Type = schema.TypeFloat
	err := spec.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count_0")
}

// TestSpecValidationRejectsMissingArray tests a count pointing at no array
func TestSpecValidationRejectsMissingArray(t *testing.T) {
	spec := meshLikeSpec()
	spec.Header[2].Rule = schema.CountOf("nowhere")
	assert.Error(t, spec.Validate())
}

// TestSpecValidationRejectsUnlinkedArray tests an array without a live count
func TestSpecValidationRejectsUnlinkedArray(t *testing.T) {
	// The count field exists but is not a count rule
	spec := meshLikeSpec()
	spec.Header[2].Rule = schema.Random()
	assert.Error(t, spec.Validate())

	// The count field names a different array than the one pointing at it
	spec = meshLikeSpec()
	spec.Arrays[0].CountField = "count_1"
	assert.Error(t, spec.Validate())
}

// TestSpecValidationRejectsBadHeaderType tests header type restrictions
func TestSpecValidationRejectsBadHeaderType(t *testing.T) {
	spec := meshLikeSpec()
	spec.Header[1].Type = schema.TypeFloat3
	assert.Error(t, spec.Validate())

	spec = meshLikeSpec()
	spec.Header[1].Name = ""
	assert.Error(t, spec.Validate())
}

// TestValueMatching tests the tolerance rules scoring relies on
func TestValueMatching(t *testing.T) {
	// Integers must match exactly
	assert.True(t, schema.IntValue(42).Matches(schema.IntValue(42), 1e-3))
	assert.False(t, schema.IntValue(42).Matches(schema.IntValue(43), 1e-3))

	// Floats match within tolerance
	assert.True(t, schema.FloatValue(0.5).Matches(schema.FloatValue(0.5004), 1e-3))
	assert.False(t, schema.FloatValue(0.5).Matches(schema.FloatValue(0.51), 1e-3))

	// Mixed kinds compare as floats, exactly
	assert.True(t, schema.IntValue(7).Matches(schema.FloatValue(7.0), 1e-3))
	assert.False(t, schema.IntValue(7).Matches(schema.FloatValue(7.5), 1e-3))
}

// TestValueRendering tests the string forms used in journals and prompts
func TestValueRendering(t *testing.T) {
	assert.Equal(t, "42", schema.IntValue(42).String())
	assert.Equal(t, "0.25", schema.FloatValue(0.25).String())
	assert.Equal(t, 42.0, schema.IntValue(42).Float64())
	assert.False(t, schema.IntValue(1).IsFloat())
	assert.True(t, schema.FloatValue(1).IsFloat())
}
