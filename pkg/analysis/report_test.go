/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report_test.go
Description: Tests for structural analysis reports. Covers entropy
measurement on known distributions, alignment scoring, the rendered
prompt text, and differential comparison of two samples.
*/

package analysis_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/lyra-formats/pkg/analysis"
)

// TestAnalyzeEntropy tests entropy on degenerate and uniform chunks
func TestAnalyzeEntropy(t *testing.T) {
	// A constant chunk carries no information
	flat := analysis.Analyze("flat.bin", make([]byte, analysis.ChunkSize))
	require.Len(t, flat.ChunkEntropy, 1)
	assert.Equal(t, 0.0, flat.ChunkEntropy[0])

	// A chunk of 64 distinct bytes hits 6 bits per byte
	distinct := make([]byte, analysis.ChunkSize)
	for i := range distinct {
		distinct[i] = byte(i)
	}
	spread := analysis.Analyze("spread.bin", distinct)
	require.Len(t, spread.ChunkEntropy, 1)
	assert.InDelta(t, 6.0, spread.ChunkEntropy[0], 1e-9)

	// Two chunks, stats over both
	both := analysis.Analyze("both.bin", append(make([]byte, analysis.ChunkSize), distinct...))
	require.Len(t, both.ChunkEntropy, 2)
	assert.InDelta(t, 3.0, both.EntropyMean, 1e-9)
	assert.Equal(t, 0.0, both.EntropyMin)
	assert.InDelta(t, 6.0, both.EntropyMax, 1e-9)
}

// TestAnalyzeShortTail tests that a trailing partial chunk is still scored
func TestAnalyzeShortTail(t *testing.T) {
	data := make([]byte, analysis.ChunkSize+8)
	r := analysis.Analyze("tail.bin", data)
	assert.Len(t, r.ChunkEntropy, 2)
	assert.Equal(t, len(data), r.Size)
}

// TestAlignmentScores tests the small-word count at the 4-byte stride
func TestAlignmentScores(t *testing.T) {
	// Eight uint32 values, half small, half huge
	buf := make([]byte, 32)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(i+1))
	}
	for i := 4; i < 8; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], 0xFFFFFFFF)
	}

	r := analysis.Analyze("aligned.bin", buf)
	assert.Equal(t, 4, r.AlignmentScores[4])

	// The untested strides stay pinned at zero
	assert.Equal(t, 0, r.AlignmentScores[2])
	assert.Equal(t, 0, r.AlignmentScores[8])
}

// TestReportRender tests the prompt-ready text shape
func TestReportRender(t *testing.T) {
	data := make([]byte, 100)
	r := analysis.Analyze("sample.bin", data)
	text := r.Render()

	assert.Contains(t, text, "File: sample.bin")
	assert.Contains(t, text, "Size: 100 bytes")
	assert.Contains(t, text, "Alignment Scores:")
	assert.Contains(t, text, "Entropy Map (2 chunks):")
	assert.Contains(t, text, "Entropy Stats:")
}

// TestRenderEmptyFile tests that zero-length input renders without stats
func TestRenderEmptyFile(t *testing.T) {
	r := analysis.Analyze("empty.bin", nil)
	text := r.Render()

	assert.Contains(t, text, "Size: 0 bytes")
	assert.Contains(t, text, "Entropy Map (0 chunks):")
	assert.NotContains(t, text, "Entropy Stats:")
}

// TestAnalyzeFile tests the disk-reading entry point
func TestAnalyzeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.bin")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3, 4}, 0644))

	r, err := analysis.AnalyzeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, r.Size)
	assert.Equal(t, path, r.Path)

	_, err = analysis.AnalyzeFile(filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}

// TestDiff tests the differential view of two samples
func TestDiff(t *testing.T) {
	small := analysis.Analyze("a.bin", make([]byte, 100))
	large := analysis.Analyze("b.bin", make([]byte, 220))

	d := analysis.Diff(small, large)
	assert.Equal(t, int64(120), d.SizeDelta)

	text := d.Render()
	assert.Contains(t, text, "Differential Analysis (a.bin vs b.bin):")
	assert.Contains(t, text, "Size diff: 100 vs 220 (Delta: 120)")

	same := analysis.Diff(small, analysis.Analyze("c.bin", make([]byte, 100)))
	assert.Contains(t, same.Render(), "Size match.")
}
