/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: store.go
Description: Durable experiment results. Every attempt and every
generated format lands in an embedded bbolt database as JSON, keyed so
attempts scan chronologically within a format. Writes are transactional,
so a killed experiment never corrupts what earlier runs recorded. The
summary rollup feeds the CLI and the dashboard.
*/

package results

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
	bolt "go.etcd.io/bbolt"
)

// Bucket keys
var (
	bucketAttempts = []byte("attempts")
	bucketFormats  = []byte("formats")
)

// AttemptRecord is the persisted outcome of one parser attempt
type AttemptRecord struct {
	ID              string             `json:"id"`
	Format          string             `json:"format"`
	FilePath        string             `json:"file_path"`
	Timestamp       time.Time          `json:"timestamp"`
	AnalysisSummary string             `json:"analysis_summary"`
	Prompt          string             `json:"prompt"`
	Hypothesis      string             `json:"hypothesis"`
	GeneratedCode   string             `json:"generated_code"`
	ParserOutput    string             `json:"parser_output"`
	ValidationScore float64            `json:"validation_score"`
	GroundTruth     map[string]float64 `json:"ground_truth"`
	Status          string             `json:"status"`
	Success         bool               `json:"success"`
	DurationMS      int64              `json:"duration_ms"`
	Error           string             `json:"error,omitempty"`
}

// FormatRecord is the persisted identity of one generated format
type FormatRecord struct {
	Name      string    `json:"name"`
	SpecPath  string    `json:"spec_path"`
	Files     []string  `json:"files"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary rolls the whole database up into headline numbers
type Summary struct {
	Formats   int     `json:"formats"`
	Attempts  int     `json:"attempts"`
	Successes int     `json:"successes"`
	MeanScore float64 `json:"mean_score"`
	BestScore float64 `json:"best_score"`
}

// Store is the bbolt-backed results database
type Store struct {
	db *bolt.DB
}

// Open opens or creates the results database at path and ensures the
// buckets exist.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open results db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketAttempts); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketFormats)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create result buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// attemptKey orders attempts chronologically within their format
func attemptKey(rec *AttemptRecord) []byte {
	return []byte(fmt.Sprintf("%s/%s_%s", rec.Format, rec.Timestamp.UTC().Format(time.RFC3339Nano), rec.ID))
}

// SaveAttempt persists one attempt record
func (s *Store) SaveAttempt(rec *AttemptRecord) error {
	if rec == nil {
		return fmt.Errorf("nil attempt record")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAttempts).Put(attemptKey(rec), data)
	})
}

// SaveFormat persists one format record, keyed by name
func (s *Store) SaveFormat(rec *FormatRecord) error {
	if rec == nil {
		return fmt.Errorf("nil format record")
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal format: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFormats).Put([]byte(rec.Name), data)
	})
}

// ListAttempts returns attempts for one format in chronological order,
// or every attempt when format is empty.
func (s *Store) ListAttempts(format string) ([]*AttemptRecord, error) {
	var records []*AttemptRecord
	prefix := []byte(nil)
	if format != "" {
		prefix = []byte(format + "/")
	}

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketAttempts).Cursor()
		k, v := c.First()
		if prefix != nil {
			k, v = c.Seek(prefix)
		}
		for ; k != nil; k, v = c.Next() {
			if prefix != nil && !bytes.HasPrefix(k, prefix) {
				break
			}
			var rec AttemptRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("corrupt attempt record %s: %w", k, err)
			}
			records = append(records, &rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListFormats returns every stored format record, sorted by name
func (s *Store) ListFormats() ([]*FormatRecord, error) {
	var records []*FormatRecord
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketFormats).ForEach(func(k, v []byte) error {
			var rec FormatRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("corrupt format record %s: %w", k, err)
			}
			records = append(records, &rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// BestAttempt returns the highest-scoring attempt for a format, or nil
// when the format has none.
func (s *Store) BestAttempt(format string) (*AttemptRecord, error) {
	attempts, err := s.ListAttempts(format)
	if err != nil {
		return nil, err
	}

	var best *AttemptRecord
	for _, a := range attempts {
		if best == nil || a.ValidationScore > best.ValidationScore {
			best = a
		}
	}
	return best, nil
}

// Summary aggregates the database into headline numbers
func (s *Store) Summary() (*Summary, error) {
	formats, err := s.ListFormats()
	if err != nil {
		return nil, err
	}
	attempts, err := s.ListAttempts("")
	if err != nil {
		return nil, err
	}

	sum := &Summary{Formats: len(formats), Attempts: len(attempts)}
	if len(attempts) == 0 {
		return sum, nil
	}

	scores := make([]float64, 0, len(attempts))
	for _, a := range attempts {
		scores = append(scores, a.ValidationScore)
		if a.Success {
			sum.Successes++
		}
	}
	sum.MeanScore, _ = stats.Mean(scores)
	sum.BestScore, _ = stats.Max(scores)

	return sum, nil
}
