/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: corpus.go
Description: Corpus management for generated formats. Tracks every
format spec and the binary files encoded against it, with thread-safe
access and content-hash deduplication so re-ingested or colliding files
never inflate an evaluation. Ingestion rebuilds a corpus from a storage
directory by pairing persisted specs with their file batches.
*/

package corpus

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kleascm/lyra-formats/pkg/generator"
	"github.com/kleascm/lyra-formats/pkg/schema"
	"github.com/kleascm/lyra-formats/pkg/storage"
)

// FormatEntry is one format known to the corpus
type FormatEntry struct {
	Name     string             // format name, unique within the corpus
	Spec     *schema.FormatSpec // decoded ground-truth spec
	SpecPath string             // stored name of the spec JSON
	Files    []string           // stored names of this format's binaries
	AddedAt  time.Time
}

// Corpus is the thread-safe collection of formats under evaluation
type Corpus struct {
	mu      sync.RWMutex
	formats map[string]*FormatEntry
	order   []string        // insertion order, for deterministic runs
	seen    map[string]bool // sha256 of file content, for deduplication
}

// New creates an empty corpus
func New() *Corpus {
	return &Corpus{
		formats: make(map[string]*FormatEntry),
		seen:    make(map[string]bool),
	}
}

// Add registers a format entry. Adding a name twice is an error, since
// a spec is immutable once files referencing it exist.
func (c *Corpus) Add(entry *FormatEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.formats[entry.Name]; exists {
		return fmt.Errorf("format %q already in corpus", entry.Name)
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = time.Now()
	}

	c.formats[entry.Name] = entry
	c.order = append(c.order, entry.Name)
	return nil
}

// Get retrieves a format entry by name
func (c *Corpus) Get(name string) (*FormatEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.formats[name]
	return entry, ok
}

// All returns every entry in insertion order
func (c *Corpus) All() []*FormatEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]*FormatEntry, 0, len(c.order))
	for _, name := range c.order {
		entries = append(entries, c.formats[name])
	}
	return entries
}

// Size returns the number of formats in the corpus
func (c *Corpus) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.formats)
}

// TotalFiles returns the number of files across all formats
func (c *Corpus) TotalFiles() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, entry := range c.formats {
		total += len(entry.Files)
	}
	return total
}

// Stats returns corpus composition for logging and reporting
func (c *Corpus) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	byFormat := make(map[string]int, len(c.formats))
	files := 0
	for name, entry := range c.formats {
		byFormat[name] = len(entry.Files)
		files += len(entry.Files)
	}

	return map[string]interface{}{
		"formats":   len(c.formats),
		"files":     files,
		"by_format": byFormat,
	}
}

// IngestStore scans a store for persisted specs and registers each with
// its file batch: <name>_spec.json pairs with <name>_*.bin, and the
// baseline mesh spec pairs with *.smsh. Files whose content hash was
// already seen are dropped. Unparseable specs are skipped with a
// warning rather than aborting the scan. Returns the number of formats
// added.
func (c *Corpus) IngestStore(store storage.Store, logger *logrus.Logger) (int, error) {
	if logger == nil {
		logger = logrus.New()
	}

	specNames, err := store.List("*_spec.json")
	if err != nil {
		return 0, fmt.Errorf("failed to list specs: %w", err)
	}

	added := 0
	for _, specName := range specNames {
		data, err := store.Read(specName)
		if err != nil {
			logger.WithField("spec", specName).WithError(err).Warn("Failed to read spec, skipping")
			continue
		}
		spec, err := schema.ParseSpec(data)
		if err != nil {
			logger.WithField("spec", specName).WithError(err).Warn("Invalid spec, skipping")
			continue
		}

		base := strings.TrimSuffix(specName, "_spec.json")
		pattern := base + "_*.bin"
		if specName == generator.SimpleMeshSpecFile {
			pattern = "*.smsh"
		}
		fileNames, err := store.List(pattern)
		if err != nil {
			return added, fmt.Errorf("failed to list files for %s: %w", specName, err)
		}

		files := c.dedupFiles(store, fileNames, logger)
		if len(files) == 0 {
			logger.WithField("format", spec.Name).Warn("Spec has no usable files, skipping")
			continue
		}

		entry := &FormatEntry{
			Name:     spec.Name,
			Spec:     spec,
			SpecPath: specName,
			Files:    files,
		}
		if err := c.Add(entry); err != nil {
			logger.WithField("format", spec.Name).WithError(err).Warn("Skipping duplicate format")
			continue
		}
		added++
	}

	return added, nil
}

// dedupFiles filters out files whose content was already ingested
func (c *Corpus) dedupFiles(store storage.Store, names []string, logger *logrus.Logger) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := make([]string, 0, len(names))
	for _, name := range names {
		data, err := store.Read(name)
		if err != nil {
			logger.WithField("file", name).WithError(err).Warn("Failed to read file, skipping")
			continue
		}
		sum := sha256.Sum256(data)
		key := hex.EncodeToString(sum[:])
		if c.seen[key] {
			continue
		}
		c.seen[key] = true
		kept = append(kept, name)
	}
	return kept
}
