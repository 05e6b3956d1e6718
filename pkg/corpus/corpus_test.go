/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: corpus_test.go
Description: Tests for corpus management. Covers registration rules,
insertion-ordered listing, store ingestion of persisted specs with their
file batches, and content-hash deduplication.
*/

package corpus_test

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/lyra-formats/pkg/corpus"
	"github.com/kleascm/lyra-formats/pkg/generator"
	"github.com/kleascm/lyra-formats/pkg/schema"
	"github.com/kleascm/lyra-formats/pkg/storage"
)

// entry builds a corpus entry with a trivially valid spec
func entry(name string, files ...string) *corpus.FormatEntry {
	return &corpus.FormatEntry{
		Name:  name,
		Spec:  &schema.FormatSpec{Name: name},
		Files: files,
	}
}

// TestCorpusAdd tests registration and the duplicate guard
func TestCorpusAdd(t *testing.T) {
	c := corpus.New()
	require.NoError(t, c.Add(entry("Alpha", "a_0.bin")))
	require.NoError(t, c.Add(entry("Beta", "b_0.bin", "b_1.bin")))

	assert.Error(t, c.Add(entry("Alpha")))

	assert.Equal(t, 2, c.Size())
	assert.Equal(t, 3, c.TotalFiles())

	got, ok := c.Get("Beta")
	require.True(t, ok)
	assert.Len(t, got.Files, 2)
	assert.False(t, got.AddedAt.IsZero())

	_, ok = c.Get("Gamma")
	assert.False(t, ok)
}

// TestCorpusAllOrder tests deterministic insertion-order iteration
func TestCorpusAllOrder(t *testing.T) {
	c := corpus.New()
	names := []string{"Zeta", "Alpha", "Mid"}
	for _, n := range names {
		require.NoError(t, c.Add(entry(n)))
	}

	all := c.All()
	require.Len(t, all, 3)
	for i, n := range names {
		assert.Equal(t, n, all[i].Name)
	}
}

// TestCorpusStats tests the composition rollup
func TestCorpusStats(t *testing.T) {
	c := corpus.New()
	require.NoError(t, c.Add(entry("Alpha", "a_0.bin", "a_1.bin")))

	stats := c.Stats()
	assert.Equal(t, 1, stats["formats"])
	assert.Equal(t, 2, stats["files"])

	byFormat, ok := stats["by_format"].(map[string]int)
	require.True(t, ok)
	assert.Equal(t, 2, byFormat["Alpha"])
}

// TestIngestStore tests rebuilding a corpus from persisted artifacts
func TestIngestStore(t *testing.T) {
	store := storage.NewMemStore()
	rng := rand.New(rand.NewSource(4))

	// A random format and the baseline mesh corpus
	_, err := generator.NewRandomFormatGenerator(store, rng, nil).Generate("RandomFormat_0", 2)
	require.NoError(t, err)
	_, err = generator.NewSimpleMeshGenerator(store, rng, nil).
		Generate([]generator.MeshConfig{{Vertices: 5, Triangles: 2}, {Vertices: 8, Triangles: 3}})
	require.NoError(t, err)

	c := corpus.New()
	added, err := c.IngestStore(store, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, c.Size())

	random, ok := c.Get("RandomFormat_0")
	require.True(t, ok)
	assert.Equal(t, "RandomFormat_0_spec.json", random.SpecPath)
	assert.Len(t, random.Files, 2)

	mesh, ok := c.Get(generator.SimpleMeshName)
	require.True(t, ok)
	assert.Equal(t, generator.SimpleMeshSpecFile, mesh.SpecPath)
	assert.Equal(t, []string{"test_00.smsh", "test_01.smsh"}, mesh.Files)
}

// TestIngestStoreDeduplicates tests that identical file content is dropped
func TestIngestStoreDeduplicates(t *testing.T) {
	store := storage.NewMemStore()

	spec := &schema.FormatSpec{
		Name: "Dup",
		Header: []schema.HeaderField{
			{Name: "magic", Type: schema.TypeUint32, Rule: schema.FixedUint(1)},
		},
	}
	raw, err := json.Marshal(spec)
	require.NoError(t, err)
	require.NoError(t, store.Write("Dup_spec.json", raw))

	// Two names, one content
	require.NoError(t, store.Write("Dup_0.bin", []byte{1, 0, 0, 0}))
	require.NoError(t, store.Write("Dup_1.bin", []byte{1, 0, 0, 0}))

	c := corpus.New()
	added, err := c.IngestStore(store, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	got, ok := c.Get("Dup")
	require.True(t, ok)
	assert.Equal(t, []string{"Dup_0.bin"}, got.Files)
}

// TestIngestStoreSkipsBadSpecs tests that corrupt specs do not abort a scan
func TestIngestStoreSkipsBadSpecs(t *testing.T) {
	store := storage.NewMemStore()
	require.NoError(t, store.Write("Broken_spec.json", []byte("not json")))

	spec := &schema.FormatSpec{
		Name: "Good",
		Header: []schema.HeaderField{
			{Name: "magic", Type: schema.TypeUint32, Rule: schema.FixedUint(7)},
		},
	}
	raw, err := json.Marshal(spec)
	require.NoError(t, err)
	require.NoError(t, store.Write("Good_spec.json", raw))
	require.NoError(t, store.Write("Good_0.bin", []byte{7, 0, 0, 0}))

	c := corpus.New()
	added, err := c.IngestStore(store, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	_, ok := c.Get("Good")
	assert.True(t, ok)
}

// TestIngestStoreSkipsSpecsWithoutFiles tests the no-usable-files guard
func TestIngestStoreSkipsSpecsWithoutFiles(t *testing.T) {
	store := storage.NewMemStore()

	spec := &schema.FormatSpec{
		Name: "Lonely",
		Header: []schema.HeaderField{
			{Name: "magic", Type: schema.TypeUint32, Rule: schema.FixedUint(7)},
		},
	}
	raw, err := json.Marshal(spec)
	require.NoError(t, err)
	require.NoError(t, store.Write("Lonely_spec.json", raw))

	c := corpus.New()
	added, err := c.IngestStore(store, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Equal(t, 0, c.Size())
}
