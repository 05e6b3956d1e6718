/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: codec_test.go
Description: Tests for the binary encoder and decoder. Covers round-trips
under pinned assignments, the sampling ranges for unpinned values, size
arithmetic, and truncation reporting.
*/

package codec_test

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/lyra-formats/pkg/codec"
	"github.com/kleascm/lyra-formats/pkg/schema"
	"github.com/kleascm/lyra-formats/pkg/utils"
)

// TestMain writes a suite summary to the metrics directory so codec runs
// stay comparable across revisions.
func TestMain(m *testing.M) {
	start := time.Now()
	code := m.Run()

	summary := map[string]interface{}{
		"timestamp":        start.Format("2006-01-02 15:04:05"),
		"version":          "1.0.0",
		"duration_seconds": time.Since(start).Seconds(),
		"passed":           code == 0,
	}
	if _, err := utils.WriteMetricsResult("codec", "1.0.0", summary); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write metrics: %v\n", err)
	}

	os.Exit(code)
}

// testSpec builds a spec exercising every header type and both array kinds
func testSpec() *schema.FormatSpec {
	return &schema.FormatSpec{
		Name: "CodecTest",
		Header: []schema.HeaderField{
			{Name: "magic", Type: schema.TypeUint32, Rule: schema.FixedUint(0xC0DEC)},
			{Name: "field_0", Type: schema.TypeUint16, Rule: schema.Random()},
			{Name: "field_1", Type: schema.TypeFloat, Rule: schema.Random()},
			{Name: "count_0", Type: schema.TypeUint32, Rule: schema.CountOf("array_0")},
			{Name: "count_1", Type: schema.TypeUint32, Rule: schema.CountOf("array_1")},
		},
		Arrays: []schema.ArrayField{
			{Name: "array_0", CountField: "count_0", ElementType: schema.TypeFloat3},
			{Name: "array_1", CountField: "count_1", ElementType: schema.TypeUint32},
		},
	}
}

// TestEncodeDecodeRoundTrip tests that pinned values come back as ground truth
func TestEncodeDecodeRoundTrip(t *testing.T) {
	spec := testSpec()
	rng := rand.New(rand.NewSource(1))

	asn := &codec.Assignment{
		Values: map[string]schema.Value{
			"field_0": schema.IntValue(77),
			"field_1": schema.FloatValue(0.25),
		},
		Counts: map[string]int{"array_0": 7, "array_1": 9},
	}

	data, err := codec.Encode(spec, asn, rng)
	require.NoError(t, err)

	// header 18 bytes, 7 float triples, 9 uint32s
	assert.Equal(t, spec.HeaderSize()+7*12+9*4, len(data))

	truth, err := codec.Decode(spec, data)
	require.NoError(t, err)
	require.Len(t, truth, len(spec.Header))

	assert.Equal(t, int64(0xC0DEC), truth["magic"].Int)
	assert.Equal(t, int64(77), truth["field_0"].Int)
	assert.Equal(t, int64(7), truth["count_0"].Int)
	assert.Equal(t, int64(9), truth["count_1"].Int)

	// 0.25 is exact in single precision
	require.True(t, truth["field_1"].IsFloat())
	assert.Equal(t, 0.25, truth["field_1"].Real)
}

// TestEncodeSamplingBounds tests the ranges unpinned values are drawn from
func TestEncodeSamplingBounds(t *testing.T) {
	spec := testSpec()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 25; i++ {
		data, err := codec.Encode(spec, nil, rng)
		require.NoError(t, err)

		truth, err := codec.Decode(spec, data)
		require.NoError(t, err)

		// Random integers stay small so parsers can be judged on exact hits
		f0 := truth["field_0"].Int
		assert.GreaterOrEqual(t, f0, int64(0))
		assert.LessOrEqual(t, f0, int64(100))

		f1 := truth["field_1"].Real
		assert.GreaterOrEqual(t, f1, 0.0)
		assert.Less(t, f1, 1.0)

		// Counts land in the sampling window and explain the file size
		c0, c1 := truth["count_0"].Int, truth["count_1"].Int
		for _, c := range []int64{c0, c1} {
			assert.GreaterOrEqual(t, c, int64(5))
			assert.LessOrEqual(t, c, int64(50))
		}
		assert.Equal(t, int64(spec.HeaderSize())+c0*12+c1*4, int64(len(data)))
	}
}

// TestEncodeDeterministic tests that one seed reproduces identical bytes
func TestEncodeDeterministic(t *testing.T) {
	spec := testSpec()

	a, err := codec.Encode(spec, nil, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	b, err := codec.Encode(spec, nil, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

// TestEncodeEmptyArray tests that a pinned zero count encodes no elements
func TestEncodeEmptyArray(t *testing.T) {
	spec := testSpec()
	asn := &codec.Assignment{Counts: map[string]int{"array_0": 0, "array_1": 0}}

	data, err := codec.Encode(spec, asn, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, spec.HeaderSize(), len(data))

	truth, err := codec.Decode(spec, data)
	require.NoError(t, err)
	assert.Equal(t, int64(0), truth["count_0"].Int)
}

// TestEncodeRejectsInvalidSpec tests that encoding validates first
func TestEncodeRejectsInvalidSpec(t *testing.T) {
	spec := testSpec()
	spec.Header[1].Name = "magic"

	_, err := codec.Encode(spec, nil, rand.New(rand.NewSource(1)))
	require.Error(t, err)

	var schemaErr *schema.SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

// TestDecodeTruncated tests the typed error for short data
func TestDecodeTruncated(t *testing.T) {
	spec := testSpec()

	_, err := codec.Decode(spec, make([]byte, spec.HeaderSize()-1))
	require.Error(t, err)

	var trunc *codec.TruncatedDataError
	require.True(t, errors.As(err, &trunc))
	assert.Equal(t, spec.HeaderSize(), trunc.Expected)
	assert.Equal(t, spec.HeaderSize()-1, trunc.Actual)
}

// TestFloatPrecisionTolerance tests that single-precision drift stays scoreable
func TestFloatPrecisionTolerance(t *testing.T) {
	spec := &schema.FormatSpec{
		Name: "FloatOnly",
		Header: []schema.HeaderField{
			{Name: "scale", Type: schema.TypeFloat, Rule: schema.Random()},
		},
	}

	// 0.1 is not representable in float32; the stored value drifts slightly
	asn := &codec.Assignment{Values: map[string]schema.Value{"scale": schema.FloatValue(0.1)}}
	data, err := codec.Encode(spec, asn, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	truth, err := codec.Decode(spec, data)
	require.NoError(t, err)

	got := truth["scale"]
	assert.NotEqual(t, 0.1, got.Real)
	assert.True(t, got.Matches(schema.FloatValue(0.1), 1e-3))
}
