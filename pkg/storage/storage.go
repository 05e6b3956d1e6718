/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: storage.go
Description: Artifact storage for generated specs and binary files. The
Store interface abstracts a flat namespace of named blobs; DirStore backs
it with a directory on disk (what experiments use, since child parser
processes need real paths) and MemStore keeps everything in memory for
tests that should not touch the filesystem.
*/

package storage

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
)

// Store is a flat namespace of named binary artifacts
type Store interface {
	// Write persists data under name, replacing any previous content
	Write(name string, data []byte) error
	// Read returns the content stored under name
	Read(name string) ([]byte, error)
	// List returns the stored names matching a glob pattern, sorted
	List(pattern string) ([]string, error)
	// Path returns the location of name for consumers outside the
	// process, such as a spawned parser binary
	Path(name string) string
}

// DirStore stores artifacts as files inside a root directory
type DirStore struct {
	root string
}

// NewDirStore creates the root directory if needed and returns a store over it
func NewDirStore(root string) (*DirStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s: %w", root, err)
	}
	return &DirStore{root: root}, nil
}

// Root returns the directory backing the store
func (s *DirStore) Root() string {
	return s.root
}

func (s *DirStore) Write(name string, data []byte) error {
	full := filepath.Join(s.root, name)
	if dir := filepath.Dir(full); dir != s.root {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create dir for %s: %w", name, err)
		}
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (s *DirStore) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

func (s *DirStore) List(pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.root, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(s.root, m)
		if err != nil {
			continue
		}
		names = append(names, filepath.ToSlash(rel))
	}
	sort.Strings(names)
	return names, nil
}

func (s *DirStore) Path(name string) string {
	return filepath.Join(s.root, name)
}

// MemStore keeps artifacts in process memory. Path returns the bare
// name, so it only suits tests that never hand paths to child processes.
type MemStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemStore returns an empty in-memory store
func NewMemStore() *MemStore {
	return &MemStore{blobs: make(map[string][]byte)}
}

func (s *MemStore) Write(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.blobs[name] = cp
	return nil
}

func (s *MemStore) Read(name string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[name]
	if !ok {
		return nil, fmt.Errorf("no artifact named %s", name)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *MemStore) List(pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var names []string
	for name := range s.blobs {
		ok, err := path.Match(pattern, name)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemStore) Path(name string) string {
	return name
}
