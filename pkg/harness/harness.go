/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: harness.go
Description: Experiment harness. Composes the generator, analysis,
oracle, pipeline, validator, and persistence layers into the evaluation
loop: generate unseen formats, prompt the oracle with structural
analysis plus prior knowledge, compile and run its proposed parser, and
score the output against decoded ground truth. The structural heuristic
runs the same files concurrently as the baseline every attempt must beat.
*/

package harness

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/kleascm/lyra-formats/pkg/analysis"
	"github.com/kleascm/lyra-formats/pkg/codec"
	"github.com/kleascm/lyra-formats/pkg/corpus"
	"github.com/kleascm/lyra-formats/pkg/generator"
	"github.com/kleascm/lyra-formats/pkg/inference"
	"github.com/kleascm/lyra-formats/pkg/oracle"
	"github.com/kleascm/lyra-formats/pkg/pipeline"
	"github.com/kleascm/lyra-formats/pkg/results"
	"github.com/kleascm/lyra-formats/pkg/storage"
	"github.com/kleascm/lyra-formats/pkg/validator"
)

// promptTemplate frames the structural analysis and prior knowledge
// handed to the oracle for each attempt.
const promptTemplate = "Analyze this file format based on the following analysis:\n%s\nPrevious knowledge: %s"

// knowledgeInPrompt bounds how many prior hypotheses each prompt carries
const knowledgeInPrompt = 2

// summaryLimit truncates analysis text stored in journals and records
const summaryLimit = 200

// Harness wires every component of one experiment run together
type Harness struct {
	config *Config
	logger *logrus.Logger

	store     *storage.DirStore
	random    *generator.RandomFormatGenerator
	mesh      *generator.SimpleMeshGenerator
	corpus    *corpus.Corpus
	oracle    oracle.Oracle
	pipeline  *pipeline.Pipeline
	heuristic inference.Heuristic
	knowledge *KnowledgeBase
	journal   *Journal
	results   *results.Store
	stats     *ExperimentStats
	reporters []Reporter
}

// New validates config and assembles a ready harness. The oracle comes
// from the environment; use SetOracle to inject a different one before
// running.
func New(config *Config, logger *logrus.Logger) (*Harness, error) {
	if config == nil {
		return nil, fmt.Errorf("harness config is nil")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid harness config: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}

	store, err := storage.NewDirStore(config.DataDir)
	if err != nil {
		return nil, err
	}

	var rng *rand.Rand
	if config.Seed != 0 {
		rng = rand.New(rand.NewSource(config.Seed))
	}

	pipeCfg := pipeline.DefaultConfig(config.WorkDir)
	pipeCfg.Timeout = config.Timeout
	if len(config.BuildArgs) > 0 {
		pipeCfg.BuildArgs = config.BuildArgs
	}
	if len(config.RunArgs) > 0 {
		pipeCfg.RunArgs = config.RunArgs
	}
	if config.SourceExt != "" {
		pipeCfg.SourceExt = config.SourceExt
	}
	pipe, err := pipeline.New(pipeCfg, logger)
	if err != nil {
		return nil, err
	}

	journal, err := NewJournal(config.JournalDir)
	if err != nil {
		return nil, err
	}

	resultStore, err := results.Open(config.ResultsPath)
	if err != nil {
		journal.Close()
		return nil, err
	}

	return &Harness{
		config:    config,
		logger:    logger,
		store:     store,
		random:    generator.NewRandomFormatGenerator(store, rng, logger),
		mesh:      generator.NewSimpleMeshGenerator(store, rng, logger),
		corpus:    corpus.New(),
		oracle:    oracle.NewFromEnv(logger),
		pipeline:  pipe,
		heuristic: inference.NewStructuralHeuristic(),
		knowledge: NewKnowledgeBase(config.KeepThreshold),
		journal:   journal,
		results:   resultStore,
		stats:     NewExperimentStats(),
	}, nil
}

// SetOracle replaces the environment-selected oracle
func (h *Harness) SetOracle(o oracle.Oracle) {
	h.oracle = o
}

// SetHeuristic replaces the baseline heuristic
func (h *Harness) SetHeuristic(heur inference.Heuristic) {
	h.heuristic = heur
}

// AddReporter registers a Reporter for experiment telemetry
func (h *Harness) AddReporter(reporter Reporter) {
	h.reporters = append(h.reporters, reporter)
}

// Corpus exposes the format corpus for inspection
func (h *Harness) Corpus() *corpus.Corpus {
	return h.corpus
}

// Knowledge exposes the knowledge base for inspection
func (h *Harness) Knowledge() *KnowledgeBase {
	return h.knowledge
}

// Stats returns the live statistics collector
func (h *Harness) Stats() *ExperimentStats {
	return h.stats
}

// Journal returns the session journal
func (h *Harness) Journal() *Journal {
	return h.journal
}

// Close releases the journal and the results database
func (h *Harness) Close() error {
	jerr := h.journal.Close()
	rerr := h.results.Close()
	if jerr != nil {
		return jerr
	}
	return rerr
}

// GenerateCorpus writes the baseline mesh corpus plus the configured
// number of random formats, registering everything in the corpus and
// the results database.
func (h *Harness) GenerateCorpus() error {
	mesh, err := h.mesh.Generate(nil)
	if err != nil {
		return fmt.Errorf("failed to generate mesh corpus: %w", err)
	}
	if err := h.registerFormat(mesh); err != nil {
		return err
	}

	for i := 0; i < h.config.FormatCount; i++ {
		name := fmt.Sprintf("RandomFormat_%d", i)
		gen, err := h.random.Generate(name, h.config.FilesPerFormat)
		if err != nil {
			return fmt.Errorf("failed to generate %s: %w", name, err)
		}
		if err := h.registerFormat(gen); err != nil {
			return err
		}
	}

	return nil
}

// IngestExisting loads previously generated specs and files from the
// data directory instead of generating fresh ones.
func (h *Harness) IngestExisting() (int, error) {
	return h.corpus.IngestStore(h.store, h.logger)
}

// registerFormat records a generated format in the corpus, the results
// database, and the reporters.
func (h *Harness) registerFormat(gen *generator.GeneratedFormat) error {
	entry := &corpus.FormatEntry{
		Name:     gen.Spec.Name,
		Spec:     gen.Spec,
		SpecPath: gen.SpecPath,
		Files:    gen.Files,
	}
	if err := h.corpus.Add(entry); err != nil {
		return err
	}

	rec := &results.FormatRecord{
		Name:      gen.Spec.Name,
		SpecPath:  gen.SpecPath,
		Files:     gen.Files,
		CreatedAt: time.Now(),
	}
	if err := h.results.SaveFormat(rec); err != nil {
		h.logger.WithError(err).Warn("Failed to persist format record")
	}

	for _, r := range h.reporters {
		r.OnFormatGenerated(gen.Spec.Name, len(gen.Files))
	}
	return nil
}

// RunExperiment runs one oracle attempt for every file of every format
// in the corpus, sequentially so each attempt sees the knowledge the
// previous ones admitted.
func (h *Harness) RunExperiment(ctx context.Context) error {
	entries := h.corpus.All()
	if len(entries) == 0 {
		return fmt.Errorf("corpus is empty; generate or ingest formats first")
	}

	for _, entry := range entries {
		h.logger.WithFields(logrus.Fields{
			"format": entry.Name,
			"files":  len(entry.Files),
		}).Info("Starting experiment for format")

		for _, file := range entry.Files {
			if err := ctx.Err(); err != nil {
				return err
			}
			h.runAttempt(ctx, entry, file)
		}
	}

	snap := h.stats.Snapshot()
	h.logger.WithFields(logrus.Fields{
		"attempts":   snap.Attempts,
		"successes":  snap.Successes,
		"kept":       snap.Kept,
		"mean_score": snap.MeanScore,
		"best_score": snap.BestScore,
	}).Info("Experiment completed")

	return nil
}

// runAttempt executes the full loop for one file: analyze, prompt,
// generate, build, run, score, persist.
func (h *Harness) runAttempt(ctx context.Context, entry *corpus.FormatEntry, file string) {
	h.stats.IncrementAttempts()
	filePath := h.store.Path(file)

	data, err := h.store.Read(file)
	if err != nil {
		h.logger.WithField("file", file).WithError(err).Error("Failed to read sample")
		h.journalError(filePath, err)
		return
	}

	report := analysis.Analyze(filePath, data)
	analysisText := report.Render()
	prompt := h.buildPrompt(analysisText)

	hypothesis, err := h.oracle.ProposeParser(ctx, prompt)
	if err != nil {
		h.logger.WithField("file", file).WithError(err).Error("Oracle query failed")
		h.journalError(filePath, err)
		return
	}

	runRes, err := h.pipeline.BuildAndRun(ctx, hypothesis, filePath)
	if err != nil {
		h.logger.WithField("file", file).WithError(err).Error("Pipeline failed")
		h.journalError(filePath, err)
		return
	}

	score := 0.0
	var truthMap map[string]float64
	success := runRes.Status == pipeline.StatusOK
	if success {
		truth, derr := codec.Decode(entry.Spec, data)
		if derr != nil {
			// No ground truth for this file; the attempt scores zero
			// rather than inventing values.
			h.logger.WithField("file", file).WithError(derr).Warn("No ground truth available")
		} else {
			score = validator.Score(truth, runRes.Output)
			truthMap = truthFloats(truth)
		}
	}

	h.accountStatus(runRes.Status)
	h.stats.RecordScore(score)

	kept := false
	if success {
		kept = h.knowledge.Offer(&Hypothesis{
			Format: entry.Name,
			Text:   hypothesis,
			Score:  score,
			Source: h.oracle.Name(),
		})
		if kept {
			h.stats.IncrementKept()
		}
	}

	rec := &results.AttemptRecord{
		ID:              uuid.New().String()[:8],
		Format:          entry.Name,
		FilePath:        filePath,
		Timestamp:       time.Now(),
		AnalysisSummary: summarize(analysisText),
		Prompt:          prompt,
		Hypothesis:      hypothesis,
		GeneratedCode:   hypothesis,
		ParserOutput:    runRes.Output,
		ValidationScore: score,
		GroundTruth:     truthMap,
		Status:          string(runRes.Status),
		Success:         success,
		DurationMS:      runRes.Duration.Milliseconds(),
	}
	if !success {
		rec.Error = runRes.Stderr
	}

	if err := h.results.SaveAttempt(rec); err != nil {
		h.logger.WithError(err).Warn("Failed to persist attempt")
	}
	if err := h.journal.LogAttempt(filePath, rec.AnalysisSummary, prompt, hypothesis,
		hypothesis, runRes.Output, score, truthMap, success); err != nil {
		h.logger.WithError(err).Warn("Failed to journal attempt")
	}

	for _, r := range h.reporters {
		r.OnAttemptCompleted(rec)
	}

	h.logger.WithFields(logrus.Fields{
		"format": entry.Name,
		"file":   file,
		"status": runRes.Status,
		"score":  score,
		"kept":   kept,
	}).Info("Attempt finished")
}

// buildPrompt assembles the oracle prompt from analysis text and the
// best prior knowledge.
func (h *Harness) buildPrompt(analysisText string) string {
	kb := h.knowledge.PromptContext(knowledgeInPrompt)
	if kb == "" {
		kb = "None"
	}
	return fmt.Sprintf(promptTemplate, analysisText, kb)
}

// journalError records an attempt that failed before any output existed
func (h *Harness) journalError(filePath string, err error) {
	if jerr := h.journal.LogError(filePath, err.Error()); jerr != nil {
		h.logger.WithError(jerr).Warn("Failed to journal error")
	}
}

// accountStatus maps a pipeline status onto the statistics counters
func (h *Harness) accountStatus(status pipeline.Status) {
	switch status {
	case pipeline.StatusOK:
		h.stats.IncrementSuccesses()
	case pipeline.StatusBuildError:
		h.stats.IncrementBuildFails()
	case pipeline.StatusCrash:
		h.stats.IncrementCrashes()
	case pipeline.StatusTimeout:
		h.stats.IncrementTimeouts()
	}
}

// BaselineScore is the heuristic's result on one file
type BaselineScore struct {
	Format   string  `json:"format"`
	File     string  `json:"file"`
	Score    float64 `json:"score"`
	Inferred int     `json:"inferred"` // fields the heuristic claimed
}

// BaselineSummary aggregates baseline scores across a corpus
type BaselineSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// EvaluateBaseline scores the structural heuristic on every corpus file
// using a bounded worker pool. Scores keep corpus order regardless of
// completion order.
func (h *Harness) EvaluateBaseline(ctx context.Context) ([]*BaselineScore, *BaselineSummary, error) {
	type job struct {
		entry *corpus.FormatEntry
		file  string
	}

	var jobs []job
	for _, entry := range h.corpus.All() {
		for _, file := range entry.Files {
			jobs = append(jobs, job{entry: entry, file: file})
		}
	}
	if len(jobs) == 0 {
		return nil, &BaselineSummary{}, nil
	}

	scores := make([]*BaselineScore, len(jobs))
	sem := semaphore.NewWeighted(int64(h.config.Workers))
	var wg sync.WaitGroup

	for i, jb := range jobs {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, nil, err
		}
		wg.Add(1)
		go func(i int, jb job) {
			defer wg.Done()
			defer sem.Release(1)
			scores[i] = h.scoreBaseline(jb.entry, jb.file)
		}(i, jb)
	}
	wg.Wait()

	values := make([]float64, 0, len(scores))
	for _, s := range scores {
		values = append(values, s.Score)
		for _, r := range h.reporters {
			r.OnBaselineScored(s.Format, s.File, s.Score)
		}
	}

	summary := &BaselineSummary{Count: len(values)}
	summary.Mean, _ = stats.Mean(values)
	summary.Median, _ = stats.Median(values)
	summary.Min, _ = stats.Min(values)
	summary.Max, _ = stats.Max(values)

	return scores, summary, nil
}

// scoreBaseline runs the heuristic on one file and scores its rendering
func (h *Harness) scoreBaseline(entry *corpus.FormatEntry, file string) *BaselineScore {
	result := &BaselineScore{Format: entry.Name, File: file}

	data, err := h.store.Read(file)
	if err != nil {
		h.logger.WithField("file", file).WithError(err).Warn("Baseline read failed")
		return result
	}

	inf := h.heuristic.Analyze(data)
	result.Inferred = len(inf.Fields)

	score, err := validator.ScoreFile(entry.Spec, data, inf.Render())
	if err != nil {
		h.logger.WithField("file", file).WithError(err).Warn("Baseline has no ground truth")
		return result
	}
	result.Score = score

	return result
}

// truthFloats converts decoded ground truth into the persisted form
func truthFloats(truth codec.GroundTruth) map[string]float64 {
	m := make(map[string]float64, len(truth))
	for name, v := range truth {
		m[name] = v.Float64()
	}
	return m
}

// summarize truncates analysis text for journals and attempt records
func summarize(text string) string {
	if len(text) > summaryLimit {
		text = text[:summaryLimit]
	}
	return text + "..."
}
