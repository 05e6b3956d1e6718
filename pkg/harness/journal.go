/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: journal.go
Description: Append-only JSONL journal of parser attempts. One file per
experiment session, one JSON object per line, flushed on every write so
a crashed run loses at most the line being written. The journal is the
raw audit trail behind the results database: prompts, hypotheses, parser
output, and scores exactly as they happened.
*/

package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Journal writes attempt entries to a session-stamped JSONL file
type Journal struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// journalEntry is the wire form of one logged attempt
type journalEntry struct {
	Timestamp       float64            `json:"timestamp"` // unix seconds
	FilePath        string             `json:"file_path"`
	AnalysisSummary string             `json:"analysis_summary,omitempty"`
	Prompt          string             `json:"prompt,omitempty"`
	Hypothesis      string             `json:"hypothesis,omitempty"`
	GeneratedCode   string             `json:"generated_code,omitempty"`
	ParserOutput    string             `json:"parser_output,omitempty"`
	ValidationScore float64            `json:"validation_score"`
	GroundTruth     map[string]float64 `json:"ground_truth,omitempty"`
	Success         bool               `json:"success"`
	Error           string             `json:"error,omitempty"`
}

// NewJournal creates dir if needed and opens a fresh session journal
// named experiment_<unix>.jsonl inside it.
func NewJournal(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal dir %s: %w", dir, err)
	}

	path := filepath.Join(dir, fmt.Sprintf("experiment_%d.jsonl", time.Now().Unix()))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal %s: %w", path, err)
	}

	return &Journal{path: path, file: file}, nil
}

// Path returns the journal file's location
func (j *Journal) Path() string {
	return j.path
}

// LogAttempt appends one completed attempt to the journal
func (j *Journal) LogAttempt(filePath, analysisSummary, prompt, hypothesis, generatedCode, parserOutput string,
	score float64, truth map[string]float64, success bool) error {
	return j.write(&journalEntry{
		Timestamp:       unixNow(),
		FilePath:        filePath,
		AnalysisSummary: analysisSummary,
		Prompt:          prompt,
		Hypothesis:      hypothesis,
		GeneratedCode:   generatedCode,
		ParserOutput:    parserOutput,
		ValidationScore: score,
		GroundTruth:     truth,
		Success:         success,
	})
}

// LogError appends an attempt that failed before producing output
func (j *Journal) LogError(filePath, errMsg string) error {
	return j.write(&journalEntry{
		Timestamp: unixNow(),
		FilePath:  filePath,
		Error:     errMsg,
		Success:   false,
	})
}

// Close flushes and closes the journal file
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// write serializes one entry and appends it under the lock
func (j *Journal) write(entry *journalEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal journal entry: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return fmt.Errorf("journal is closed")
	}
	if _, err := j.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// unixNow returns the current time as fractional unix seconds
func unixNow() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
