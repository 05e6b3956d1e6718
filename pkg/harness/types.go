/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: types.go
Description: Core types for the experiment harness. Defines the run
configuration covering corpus generation, candidate evaluation, and
persistence, plus the thread-safe statistics the harness accumulates
while attempts execute on multiple workers.
*/

package harness

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Config contains all configuration parameters for an experiment run
type Config struct {
	// Corpus configuration
	DataDir        string `json:"data_dir"`         // directory for specs and binaries
	FormatCount    int    `json:"format_count"`     // random formats generated per run
	FilesPerFormat int    `json:"files_per_format"` // encoded files per format

	// Evaluation configuration
	KeepThreshold float64       `json:"keep_threshold"` // minimum score to keep a hypothesis
	Workers       int           `json:"workers"`        // parallel workers for baseline scoring
	Timeout       time.Duration `json:"timeout"`        // per build/run stage limit
	Seed          int64         `json:"seed"`           // RNG seed, 0 means time-based

	// Candidate pipeline configuration
	WorkDir   string   `json:"work_dir"`   // scratch space for candidate sources
	BuildArgs []string `json:"build_args"` // compiler argv, empty means cc defaults
	RunArgs   []string `json:"run_args"`   // run argv, empty means binary+input
	SourceExt string   `json:"source_ext"` // candidate source extension

	// Persistence configuration
	ResultsPath string `json:"results_path"` // bbolt results database
	JournalDir  string `json:"journal_dir"`  // directory for JSONL journals
}

// DefaultConfig returns a runnable configuration rooted under baseDir
func DefaultConfig(baseDir string) *Config {
	return &Config{
		DataDir:        baseDir + "/data",
		FormatCount:    3,
		FilesPerFormat: 3,
		KeepThreshold:  0.8,
		Workers:        runtime.NumCPU(),
		Timeout:        30 * time.Second,
		WorkDir:        baseDir + "/work",
		ResultsPath:    baseDir + "/results.db",
		JournalDir:     baseDir + "/logs",
	}
}

// Validate checks the configuration for values the harness cannot run with
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data dir not set")
	}
	if c.WorkDir == "" {
		return fmt.Errorf("work dir not set")
	}
	if c.FormatCount < 0 || c.FilesPerFormat < 1 {
		return fmt.Errorf("bad corpus sizing: %d formats, %d files each", c.FormatCount, c.FilesPerFormat)
	}
	if c.KeepThreshold < 0 || c.KeepThreshold > 1 {
		return fmt.Errorf("keep threshold %.2f outside [0,1]", c.KeepThreshold)
	}
	if c.Workers < 1 {
		return fmt.Errorf("need at least one worker")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// ExperimentStats tracks counters across an experiment run.
// Counters use atomic operations; score aggregates take the mutex.
type ExperimentStats struct {
	Attempts   int64 // total parser attempts
	Successes  int64 // attempts that built, ran, and exited cleanly
	BuildFails int64 // attempts rejected by the toolchain
	Crashes    int64 // candidates that died on a signal
	Timeouts   int64 // candidates that exceeded the stage timeout
	Kept       int64 // hypotheses admitted to the knowledge base

	StartTime time.Time

	mu         sync.Mutex
	scoreCount int64
	scoreSum   float64
	bestScore  float64
}

// NewExperimentStats creates zeroed statistics stamped with the start time
func NewExperimentStats() *ExperimentStats {
	return &ExperimentStats{StartTime: time.Now()}
}

// IncrementAttempts atomically increments the attempt counter
func (s *ExperimentStats) IncrementAttempts() {
	atomic.AddInt64(&s.Attempts, 1)
}

// IncrementSuccesses atomically increments the success counter
func (s *ExperimentStats) IncrementSuccesses() {
	atomic.AddInt64(&s.Successes, 1)
}

// IncrementBuildFails atomically increments the build failure counter
func (s *ExperimentStats) IncrementBuildFails() {
	atomic.AddInt64(&s.BuildFails, 1)
}

// IncrementCrashes atomically increments the crash counter
func (s *ExperimentStats) IncrementCrashes() {
	atomic.AddInt64(&s.Crashes, 1)
}

// IncrementTimeouts atomically increments the timeout counter
func (s *ExperimentStats) IncrementTimeouts() {
	atomic.AddInt64(&s.Timeouts, 1)
}

// IncrementKept atomically increments the kept-hypothesis counter
func (s *ExperimentStats) IncrementKept() {
	atomic.AddInt64(&s.Kept, 1)
}

// RecordScore folds one validation score into the aggregates
func (s *ExperimentStats) RecordScore(score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scoreCount++
	s.scoreSum += score
	if score > s.bestScore {
		s.bestScore = score
	}
}

// StatsSnapshot is a consistent copy of the statistics at one moment
type StatsSnapshot struct {
	Attempts   int64         `json:"attempts"`
	Successes  int64         `json:"successes"`
	BuildFails int64         `json:"build_fails"`
	Crashes    int64         `json:"crashes"`
	Timeouts   int64         `json:"timeouts"`
	Kept       int64         `json:"kept"`
	MeanScore  float64       `json:"mean_score"`
	BestScore  float64       `json:"best_score"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Snapshot returns a copy safe to read while workers keep running
func (s *ExperimentStats) Snapshot() *StatsSnapshot {
	snap := &StatsSnapshot{
		Attempts:   atomic.LoadInt64(&s.Attempts),
		Successes:  atomic.LoadInt64(&s.Successes),
		BuildFails: atomic.LoadInt64(&s.BuildFails),
		Crashes:    atomic.LoadInt64(&s.Crashes),
		Timeouts:   atomic.LoadInt64(&s.Timeouts),
		Kept:       atomic.LoadInt64(&s.Kept),
		Elapsed:    time.Since(s.StartTime),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scoreCount > 0 {
		snap.MeanScore = s.scoreSum / float64(s.scoreCount)
	}
	snap.BestScore = s.bestScore

	return snap
}
