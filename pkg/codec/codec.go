/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: codec.go
Description: Byte-level encoder and decoder for declarative format specs.
Encode materializes a spec into a little-endian binary file, sampling any
unpinned values from a caller-supplied RNG so generation stays
reproducible under a fixed seed. Decode recovers the header scalars, which
serve as the ground truth when scoring a parser's output against a file.
*/

package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/kleascm/lyra-formats/pkg/schema"
)

const (
	// Sampling ranges for values the spec leaves open
	minArrayCount  = 5
	maxArrayCount  = 50
	maxRandomUint  = 100
	maxArrayUint32 = 1000
)

// GroundTruth maps header field names to their decoded values
type GroundTruth map[string]schema.Value

// Assignment pins chosen header values and array counts for one encode.
// Anything left unset is sampled from the encoder's RNG.
type Assignment struct {
	Values map[string]schema.Value // per-field overrides for Random fields
	Counts map[string]int          // per-array element counts
}

// TruncatedDataError reports data too short to hold the spec's header
type TruncatedDataError struct {
	Expected int // header size demanded by the spec
	Actual   int // bytes actually available
}

func (e *TruncatedDataError) Error() string {
	return fmt.Sprintf("truncated data: header needs %d bytes, have %d", e.Expected, e.Actual)
}

// Encode materializes one binary file conforming to the spec. A nil
// assignment samples everything; a nil rng falls back to a time seed.
func Encode(spec *schema.FormatSpec, asn *Assignment, rng *rand.Rand) ([]byte, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// Fix array counts first so CountOf fields can be written in header order
	counts := make(map[string]int, len(spec.Arrays))
	for _, a := range spec.Arrays {
		n := -1
		if asn != nil {
			if pinned, ok := asn.Counts[a.Name]; ok {
				n = pinned
			}
		}
		if n < 0 {
			n = minArrayCount + rng.Intn(maxArrayCount-minArrayCount+1)
		}
		counts[a.Name] = n
	}

	total := spec.HeaderSize()
	for _, a := range spec.Arrays {
		total += counts[a.Name] * a.ElementType.Width()
	}
	buf := make([]byte, 0, total)

	for _, f := range spec.Header {
		v, err := headerValue(&f, asn, counts, rng)
		if err != nil {
			return nil, err
		}
		buf, err = appendScalar(buf, f.Type, v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
	}

	for _, a := range spec.Arrays {
		for i := 0; i < counts[a.Name]; i++ {
			switch a.ElementType {
			case schema.TypeUint32:
				buf = binary.LittleEndian.AppendUint32(buf, uint32(rng.Intn(maxArrayUint32+1)))
			case schema.TypeFloat:
				buf = appendFloat32(buf, rng.Float32())
			case schema.TypeFloat3:
				buf = appendFloat32(buf, rng.Float32())
				buf = appendFloat32(buf, rng.Float32())
				buf = appendFloat32(buf, rng.Float32())
			default:
				return nil, fmt.Errorf("array %q: unsupported element type %q", a.Name, a.ElementType)
			}
		}
	}

	return buf, nil
}

// headerValue resolves a header field's value under the given assignment
func headerValue(f *schema.HeaderField, asn *Assignment, counts map[string]int, rng *rand.Rand) (schema.Value, error) {
	switch f.Rule.Kind {
	case schema.RuleFixed:
		return f.Rule.Literal, nil
	case schema.RuleCountOf:
		return schema.IntValue(int64(counts[f.Rule.Array])), nil
	case schema.RuleRandom:
		if asn != nil {
			if pinned, ok := asn.Values[f.Name]; ok {
				return pinned, nil
			}
		}
		if f.Type.Integer() {
			return schema.IntValue(int64(rng.Intn(maxRandomUint + 1))), nil
		}
		// float32 draw widened so the value survives the 4-byte round trip
		return schema.FloatValue(float64(rng.Float32())), nil
	default:
		return schema.Value{}, fmt.Errorf("field %q: unknown rule kind %d", f.Name, f.Rule.Kind)
	}
}

// appendScalar writes one header scalar in little-endian order
func appendScalar(buf []byte, t schema.FieldType, v schema.Value) ([]byte, error) {
	switch t {
	case schema.TypeUint16:
		if v.IsFloat() {
			return nil, fmt.Errorf("float value for uint16 field")
		}
		if v.Int < 0 || v.Int > math.MaxUint16 {
			return nil, fmt.Errorf("value %d out of uint16 range", v.Int)
		}
		return binary.LittleEndian.AppendUint16(buf, uint16(v.Int)), nil
	case schema.TypeUint32:
		if v.IsFloat() {
			return nil, fmt.Errorf("float value for uint32 field")
		}
		if v.Int < 0 || v.Int > math.MaxUint32 {
			return nil, fmt.Errorf("value %d out of uint32 range", v.Int)
		}
		return binary.LittleEndian.AppendUint32(buf, uint32(v.Int)), nil
	case schema.TypeFloat:
		return appendFloat32(buf, float32(v.Float64())), nil
	default:
		return nil, fmt.Errorf("unsupported header type %q", t)
	}
}

func appendFloat32(buf []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
}

// Decode reads the header scalars of data according to the spec. Trailing
// array bytes are deliberately left untouched; the header carries every
// value the evaluation scores against. Returns TruncatedDataError when
// data cannot hold the full header.
func Decode(spec *schema.FormatSpec, data []byte) (GroundTruth, error) {
	need := spec.HeaderSize()
	if len(data) < need {
		return nil, &TruncatedDataError{Expected: need, Actual: len(data)}
	}

	truth := make(GroundTruth, len(spec.Header))
	off := 0
	for _, f := range spec.Header {
		switch f.Type {
		case schema.TypeUint16:
			truth[f.Name] = schema.IntValue(int64(binary.LittleEndian.Uint16(data[off:])))
		case schema.TypeUint32:
			truth[f.Name] = schema.IntValue(int64(binary.LittleEndian.Uint32(data[off:])))
		case schema.TypeFloat:
			bits := binary.LittleEndian.Uint32(data[off:])
			truth[f.Name] = schema.FloatValue(float64(math.Float32frombits(bits)))
		default:
			return nil, fmt.Errorf("field %q: unsupported header type %q", f.Name, f.Type)
		}
		off += f.Type.Width()
	}

	return truth, nil
}
