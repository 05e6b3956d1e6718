/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: storage_test.go
Description: Tests for artifact storage. Covers the disk-backed store's
write/read/list cycle including nested names, and the in-memory store's
isolation guarantees.
*/

package storage_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/lyra-formats/pkg/storage"
)

// TestDirStoreRoundTrip tests writing, reading, and listing disk artifacts
func TestDirStoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	store, err := storage.NewDirStore(root)
	require.NoError(t, err)
	assert.Equal(t, root, store.Root())

	require.NoError(t, store.Write("alpha_0.bin", []byte{1, 2, 3}))
	require.NoError(t, store.Write("alpha_1.bin", []byte{4, 5}))
	require.NoError(t, store.Write("beta_spec.json", []byte(`{}`)))

	data, err := store.Read("alpha_0.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	names, err := store.List("alpha_*.bin")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha_0.bin", "alpha_1.bin"}, names)

	// Path must point at the real file for child processes
	info, err := os.Stat(store.Path("beta_spec.json"))
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

// TestDirStoreNestedNames tests that subdirectories are created on demand
func TestDirStoreNestedNames(t *testing.T) {
	store, err := storage.NewDirStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Write("batch/run_0.bin", []byte{9}))

	data, err := store.Read("batch/run_0.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, data)
}

// TestDirStoreOverwrite tests that a rewrite replaces the previous content
func TestDirStoreOverwrite(t *testing.T) {
	store, err := storage.NewDirStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Write("x.bin", []byte{1}))
	require.NoError(t, store.Write("x.bin", []byte{2, 2}))

	data, err := store.Read("x.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 2}, data)
}

// TestDirStoreMissingRead tests the error path for absent artifacts
func TestDirStoreMissingRead(t *testing.T) {
	store, err := storage.NewDirStore(filepath.Join(t.TempDir(), "fresh"))
	require.NoError(t, err)

	_, err = store.Read("nope.bin")
	assert.Error(t, err)
}

// TestMemStoreIsolation tests that readers get copies, not shared slices
func TestMemStoreIsolation(t *testing.T) {
	store := storage.NewMemStore()

	original := []byte{1, 2, 3}
	require.NoError(t, store.Write("a.bin", original))

	// Mutating the caller's slice must not reach the store
	original[0] = 99
	data, err := store.Read("a.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	// Mutating a read result must not poison later reads
	data[1] = 99
	again, err := store.Read("a.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, again)
}

// TestMemStoreList tests glob matching over in-memory names
func TestMemStoreList(t *testing.T) {
	store := storage.NewMemStore()
	require.NoError(t, store.Write("f_spec.json", []byte(`{}`)))
	require.NoError(t, store.Write("f_0.bin", []byte{0}))
	require.NoError(t, store.Write("f_1.bin", []byte{1}))

	names, err := store.List("f_*.bin")
	require.NoError(t, err)
	assert.Equal(t, []string{"f_0.bin", "f_1.bin"}, names)

	// Bare names double as paths for in-process consumers
	assert.Equal(t, "f_0.bin", store.Path("f_0.bin"))

	_, err = store.Read("missing.bin")
	assert.Error(t, err)
}
