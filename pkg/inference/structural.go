/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: structural.go
Description: Structural baseline heuristic. Embodies the fixed prior that
a binary file is a printable four-byte magic, a small header of uint32
counts, and 12-byte trailing records. It guesses header values from that
shape alone and only commits to counts when the arithmetic closes over
the whole file, which keeps it honest on formats it was never built for.
*/

package inference

import "encoding/binary"

const (
	magicWidth        = 4
	headerGuess       = 16     // assumed header size when checking the fit
	recordStride      = 12     // assumed trailing record width
	maxPlausibleCount = 100000 // counts at or above this are noise, not sizes
)

// countOffsets are the header positions probed for plausible counts
var countOffsets = []int{4, 8, 12}

// StructuralHeuristic is the deterministic baseline every oracle-driven
// attempt is measured against. It carries no per-format state.
type StructuralHeuristic struct{}

// NewStructuralHeuristic creates the baseline heuristic
func NewStructuralHeuristic() *StructuralHeuristic {
	return &StructuralHeuristic{}
}

// Name returns the heuristic's identifier
func (h *StructuralHeuristic) Name() string {
	return "structural"
}

// Analyze proposes header fields for data. A printable magic yields a
// Magic field holding the little-endian value of the first four bytes.
// When two plausible counts explain the file length exactly as
// header + 12-byte records, the heuristic claims a version of 1 and
// vertex and triangle counts. It never fails; unrecognized shapes just
// yield a smaller or empty inference.
func (h *StructuralHeuristic) Analyze(data []byte) *Inference {
	inf := &Inference{}

	if len(data) >= magicWidth && printableMagic(data[:magicWidth]) {
		inf.Fields = append(inf.Fields, InferredField{
			Name:  "Magic",
			Value: int64(binary.LittleEndian.Uint32(data[:magicWidth])),
		})
	}

	var candidates []int64
	for _, off := range countOffsets {
		if off+4 > len(data) {
			continue
		}
		v := binary.LittleEndian.Uint32(data[off:])
		if v < maxPlausibleCount {
			candidates = append(candidates, int64(v))
		}
	}

	if len(candidates) >= 2 {
		c1, c2 := candidates[0], candidates[1]
		if int64(headerGuess)+recordStride*(c1+c2) == int64(len(data)) {
			inf.Fields = append(inf.Fields,
				InferredField{Name: "Version", Value: 1},
				InferredField{Name: "Vertices", Value: c1},
				InferredField{Name: "Triangles", Value: c2},
			)
		}
	}

	return inf
}

// printableMagic reports whether all bytes are ASCII letters or digits
func printableMagic(b []byte) bool {
	for _, c := range b {
		alnum := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !alnum {
			return false
		}
	}
	return true
}
