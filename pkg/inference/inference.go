/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inference.go
Description: Structure inference over raw binary samples. A Heuristic
proposes named header values from bytes alone, with no knowledge of the
spec that produced them. Inferences render to the same "Name: Value"
text the scoring layer consumes, so heuristic output and generated
parser output are judged by identical rules.
*/

package inference

import (
	"fmt"
	"strings"
)

// Heuristic proposes header fields from a raw sample. Implementations
// are deterministic and total: any input yields an inference, possibly
// an empty one, never an error.
type Heuristic interface {
	Analyze(data []byte) *Inference
	Name() string
}

// InferredField is one named value a heuristic claims to have found
type InferredField struct {
	Name  string
	Value int64
}

// Inference is an ordered list of inferred header fields
type Inference struct {
	Fields []InferredField
}

// Empty reports whether the heuristic found nothing
func (inf *Inference) Empty() bool {
	return len(inf.Fields) == 0
}

// Value returns the inferred value for name
func (inf *Inference) Value(name string) (int64, bool) {
	for _, f := range inf.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return 0, false
}

// Render emits the inference as scoreable "Name: Value" lines
func (inf *Inference) Render() string {
	var b strings.Builder
	for _, f := range inf.Fields {
		fmt.Fprintf(&b, "%s: %d\n", f.Name, f.Value)
	}
	return b.String()
}
