/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Structural analysis of binary samples. Builds the evidence a
format hypothesis is prompted from: a per-chunk entropy map that separates
headers from payload, alignment scores counting small machine words at
likely strides, and summary statistics. Reports render to the plain text
handed to the oracle, and two reports diff against each other to expose
which regions grow with content.
*/

package analysis

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/montanaflynn/stats"
)

const (
	// ChunkSize is the entropy window in bytes
	ChunkSize = 64
	// smallValueLimit bounds what counts as a plausible length or index
	smallValueLimit = 100000
	// barWidth is the width of a rendered entropy bar
	barWidth = 10
)

// strideProbes are the alignments scored during the scan. Only the
// 4-byte stride is actually interpreted; the others anchor the scale.
var strideProbes = []int{2, 4, 8}

// FileReport is the structural evidence extracted from one sample
type FileReport struct {
	Path            string
	Size            int
	ChunkEntropy    []float64   // Shannon entropy per ChunkSize window
	AlignmentScores map[int]int // stride -> count of small values
	EntropyMean     float64
	EntropyMin      float64
	EntropyMax      float64
}

// Analyze builds a report for data, labelled with path for rendering
func Analyze(path string, data []byte) *FileReport {
	r := &FileReport{
		Path:            path,
		Size:            len(data),
		ChunkEntropy:    chunkEntropy(data),
		AlignmentScores: alignmentScores(data),
	}

	if len(r.ChunkEntropy) > 0 {
		r.EntropyMean, _ = stats.Mean(r.ChunkEntropy)
		r.EntropyMin, _ = stats.Min(r.ChunkEntropy)
		r.EntropyMax, _ = stats.Max(r.ChunkEntropy)
	}

	return r
}

// AnalyzeFile reads path and builds its report
func AnalyzeFile(path string) (*FileReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Analyze(path, data), nil
}

// Render emits the report as prompt-ready text: file identity, alignment
// scores, then the entropy map with one bar per chunk and a stats line.
func (r *FileReport) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "File: %s\n", r.Path)
	fmt.Fprintf(&b, "Size: %d bytes\n", r.Size)

	b.WriteString("Alignment Scores: ")
	for _, stride := range strideProbes {
		fmt.Fprintf(&b, "%d:%d ", stride, r.AlignmentScores[stride])
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Entropy Map (%d chunks):\n", len(r.ChunkEntropy))
	for i, e := range r.ChunkEntropy {
		bars := int(e * 1.25)
		if bars > barWidth {
			bars = barWidth
		}
		if bars < 0 {
			bars = 0
		}
		fmt.Fprintf(&b, "%4d: [%s%s] %.2f\n",
			i*ChunkSize, strings.Repeat("#", bars), strings.Repeat(" ", barWidth-bars), e)
	}

	if len(r.ChunkEntropy) > 0 {
		fmt.Fprintf(&b, "Entropy Stats: mean=%.2f min=%.2f max=%.2f\n",
			r.EntropyMean, r.EntropyMin, r.EntropyMax)
	}

	return b.String()
}

// DiffReport captures how two samples of the same format differ
type DiffReport struct {
	PathA, PathB string
	SizeA, SizeB int
	SizeDelta    int64   // SizeB - SizeA
	EntropyDelta float64 // mean entropy shift from A to B
}

// Diff compares two reports, typically two files of one format whose
// size difference betrays the per-record stride.
func Diff(a, b *FileReport) *DiffReport {
	return &DiffReport{
		PathA:        a.Path,
		PathB:        b.Path,
		SizeA:        a.Size,
		SizeB:        b.Size,
		SizeDelta:    int64(b.Size) - int64(a.Size),
		EntropyDelta: b.EntropyMean - a.EntropyMean,
	}
}

// Render emits the differential section appended to prompt text
func (d *DiffReport) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "\nDifferential Analysis (%s vs %s):\n", d.PathA, d.PathB)
	if d.SizeDelta != 0 {
		fmt.Fprintf(&b, "Size diff: %d vs %d (Delta: %d)\n", d.SizeA, d.SizeB, d.SizeDelta)
	} else {
		b.WriteString("Size match.\n")
	}
	fmt.Fprintf(&b, "Mean entropy delta: %+.2f\n", d.EntropyDelta)

	return b.String()
}

// chunkEntropy slices data into ChunkSize windows and scores each one.
// The final window may be short; it is scored over its real length.
func chunkEntropy(data []byte) []float64 {
	var entropies []float64
	for i := 0; i < len(data); i += ChunkSize {
		end := i + ChunkSize
		if end > len(data) {
			end = len(data)
		}
		entropies = append(entropies, shannonEntropy(data[i:end]))
	}
	return entropies
}

// shannonEntropy returns the entropy of chunk in bits per byte, 0 to 8
func shannonEntropy(chunk []byte) float64 {
	if len(chunk) == 0 {
		return 0
	}

	var freq [256]int
	for _, c := range chunk {
		freq[c]++
	}

	entropy := 0.0
	total := float64(len(chunk))
	for _, count := range freq {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}

	return entropy
}

// alignmentScores counts small little-endian values at each probed
// stride. Small words at stride 4 are the signature of count fields and
// index arrays; 2 and 8 stay unscanned so a flat zero marks them inert.
func alignmentScores(data []byte) map[int]int {
	scores := make(map[int]int, len(strideProbes))
	for _, stride := range strideProbes {
		scores[stride] = 0
	}

	if len(data) >= 4 {
		score := 0
		for i := 0; i+4 <= len(data); i += 4 {
			if binary.LittleEndian.Uint32(data[i:]) < smallValueLimit {
				score++
			}
		}
		scores[4] = score
	}

	return scores
}
