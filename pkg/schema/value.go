/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: value.go
Description: Tagged numeric value type shared by the format model, the codec,
and the validator. Carries either an integer or a floating point payload so
field values, ground truth, and parsed candidate values all flow through one
comparable representation.
*/

package schema

import (
	"math"
	"strconv"
)

// ValueKind discriminates the numeric payload of a Value
type ValueKind int

const (
	// KindInt holds an integer payload (covers the full uint32 range)
	KindInt ValueKind = iota
	// KindFloat holds a floating point payload
	KindFloat
)

// Value is a tagged numeric value. Header field values, decoded ground
// truth, and parsed candidate values are all Values, which keeps the
// comparison rules in one place.
type Value struct {
	Kind ValueKind // payload discriminator
	Int  int64     // integer payload when Kind is KindInt
	Real float64   // floating point payload when Kind is KindFloat
}

// IntValue creates an integer Value
func IntValue(v int64) Value {
	return Value{Kind: KindInt, Int: v}
}

// FloatValue creates a floating point Value
func FloatValue(v float64) Value {
	return Value{Kind: KindFloat, Real: v}
}

// IsFloat reports whether the value carries a floating point payload
func (v Value) IsFloat() bool {
	return v.Kind == KindFloat
}

// Float64 returns the numeric payload as a float64 regardless of kind
func (v Value) Float64() float64 {
	if v.Kind == KindFloat {
		return v.Real
	}
	return float64(v.Int)
}

// Matches compares two values under the scoring rules: two floats match
// within the given absolute tolerance, two integers match exactly, and a
// mixed pair matches on exact numeric equality.
func (v Value) Matches(other Value, tolerance float64) bool {
	if v.Kind == KindFloat && other.Kind == KindFloat {
		return math.Abs(v.Real-other.Real) < tolerance
	}
	if v.Kind == KindInt && other.Kind == KindInt {
		return v.Int == other.Int
	}
	return v.Float64() == other.Float64()
}

// String renders the value the way candidate output lines carry numbers:
// integers without a decimal point, floats in their shortest representation.
func (v Value) String() string {
	if v.Kind == KindFloat {
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	}
	return strconv.FormatInt(v.Int, 10)
}
