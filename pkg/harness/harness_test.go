/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: harness_test.go
Description: End-to-end tests for the experiment harness. Runs the full
generate/prompt/build/run/score loop against a shell-based candidate
toolchain and a mock oracle whose proposal genuinely parses the baseline
mesh header, then checks statistics, persistence, and baseline scoring.
*/

package harness_test

import (
	"context"
	"math/rand"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/lyra-formats/pkg/generator"
	"github.com/kleascm/lyra-formats/pkg/harness"
	"github.com/kleascm/lyra-formats/pkg/oracle"
	"github.com/kleascm/lyra-formats/pkg/results"
	"github.com/kleascm/lyra-formats/pkg/storage"
)

// meshParserScript reads the four header words of a mesh file and prints
// them as scoreable lines. It stands in for a perfect oracle proposal.
const meshParserScript = `f="$1"
set -- $(od -An -tu4 -N16 "$f")
echo "Magic: $1"
echo "Version: $2"
echo "Vertices: $3"
echo "Triangles: $4"
`

// recordingReporter counts the events the harness emits
type recordingReporter struct {
	mu        sync.Mutex
	formats   int
	attempts  int
	baselines int
}

func (r *recordingReporter) OnFormatGenerated(format string, files int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formats++
}

func (r *recordingReporter) OnAttemptCompleted(rec *results.AttemptRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
}

func (r *recordingReporter) OnBaselineScored(format, file string, score float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.baselines++
}

// quietLogger keeps experiment noise out of test output
func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

// shellHarnessConfig builds a config whose candidate toolchain runs
// proposals through the shell instead of a C compiler.
func shellHarnessConfig(t *testing.T) *harness.Config {
	t.Helper()
	cfg := harness.DefaultConfig(t.TempDir())
	cfg.Seed = 1
	cfg.Workers = 2
	cfg.Timeout = 5 * time.Second
	cfg.BuildArgs = []string{"/bin/sh", "-c", "cp {src} {bin}"}
	cfg.RunArgs = []string{"/bin/sh", "{bin}", "{input}"}
	cfg.SourceExt = ".sh"
	return cfg
}

// journalLines reads a JSONL journal back as one string per entry
func journalLines(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimSpace(string(raw)), "\n"), nil
}

// seedMeshCorpus writes a two-file mesh corpus into the harness data dir
func seedMeshCorpus(t *testing.T, dataDir string) {
	t.Helper()
	store, err := storage.NewDirStore(dataDir)
	require.NoError(t, err)

	gen := generator.NewSimpleMeshGenerator(store, rand.New(rand.NewSource(2)), quietLogger())
	_, err = gen.Generate([]generator.MeshConfig{
		{Vertices: 10, Triangles: 5},
		{Vertices: 5, Triangles: 1},
	})
	require.NoError(t, err)
}

// TestConfigValidate tests the run configuration guards
func TestConfigValidate(t *testing.T) {
	require.NoError(t, harness.DefaultConfig(t.TempDir()).Validate())

	cfg := harness.DefaultConfig(t.TempDir())
	cfg.KeepThreshold = 1.5
	assert.Error(t, cfg.Validate())

	cfg = harness.DefaultConfig(t.TempDir())
	cfg.Workers = 0
	assert.Error(t, cfg.Validate())

	cfg = harness.DefaultConfig(t.TempDir())
	cfg.FilesPerFormat = 0
	assert.Error(t, cfg.Validate())

	cfg = harness.DefaultConfig(t.TempDir())
	cfg.DataDir = ""
	assert.Error(t, cfg.Validate())
}

// TestExperimentStats tests the counters and score aggregates
func TestExperimentStats(t *testing.T) {
	s := harness.NewExperimentStats()
	s.IncrementAttempts()
	s.IncrementAttempts()
	s.IncrementSuccesses()
	s.IncrementKept()
	s.RecordScore(0.5)
	s.RecordScore(1.0)

	snap := s.Snapshot()
	assert.Equal(t, int64(2), snap.Attempts)
	assert.Equal(t, int64(1), snap.Successes)
	assert.Equal(t, int64(1), snap.Kept)
	assert.InDelta(t, 0.75, snap.MeanScore, 1e-9)
	assert.Equal(t, 1.0, snap.BestScore)
	assert.Greater(t, snap.Elapsed, time.Duration(0))
}

// TestGenerateCorpus tests corpus generation and registration
func TestGenerateCorpus(t *testing.T) {
	cfg := shellHarnessConfig(t)
	cfg.FormatCount = 2
	cfg.FilesPerFormat = 2

	h, err := harness.New(cfg, quietLogger())
	require.NoError(t, err)
	defer h.Close()

	reporter := &recordingReporter{}
	h.AddReporter(reporter)

	require.NoError(t, h.GenerateCorpus())

	// The baseline mesh plus the configured random formats
	assert.Equal(t, 3, h.Corpus().Size())
	assert.Equal(t, len(generator.DefaultMeshConfigs)+4, h.Corpus().TotalFiles())
	assert.Equal(t, 3, reporter.formats)

	mesh, ok := h.Corpus().Get(generator.SimpleMeshName)
	require.True(t, ok)
	assert.Len(t, mesh.Files, len(generator.DefaultMeshConfigs))

	_, ok = h.Corpus().Get("RandomFormat_1")
	assert.True(t, ok)
}

// TestRunExperimentEndToEnd tests the whole loop on the mesh corpus with
// an oracle proposal that actually parses the header.
func TestRunExperimentEndToEnd(t *testing.T) {
	cfg := shellHarnessConfig(t)
	h, err := harness.New(cfg, quietLogger())
	require.NoError(t, err)

	seedMeshCorpus(t, cfg.DataDir)
	added, err := h.IngestExisting()
	require.NoError(t, err)
	require.Equal(t, 1, added)

	h.SetOracle(&oracle.MockOracle{Response: meshParserScript})
	reporter := &recordingReporter{}
	h.AddReporter(reporter)

	require.NoError(t, h.RunExperiment(context.Background()))

	snap := h.Stats().Snapshot()
	assert.Equal(t, int64(2), snap.Attempts)
	assert.Equal(t, int64(2), snap.Successes)
	assert.Equal(t, int64(0), snap.BuildFails)
	assert.Equal(t, int64(2), snap.Kept)
	assert.Equal(t, 1.0, snap.BestScore)
	assert.InDelta(t, 1.0, snap.MeanScore, 1e-9)
	assert.Equal(t, 2, reporter.attempts)

	// Perfect parses were admitted as knowledge
	best := h.Knowledge().Best()
	require.NotNil(t, best)
	assert.Equal(t, generator.SimpleMeshName, best.Format)
	assert.Equal(t, 1.0, best.Score)
	assert.Equal(t, "mock", best.Source)

	journalPath := h.Journal().Path()
	require.NoError(t, h.Close())

	// Attempts persisted with prompts, output, and ground truth
	store, err := results.Open(cfg.ResultsPath)
	require.NoError(t, err)
	defer store.Close()

	attempts, err := store.ListAttempts(generator.SimpleMeshName)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	first, second := attempts[0], attempts[1]
	assert.Equal(t, "ok", first.Status)
	assert.True(t, first.Success)
	assert.Equal(t, 1.0, first.ValidationScore)
	assert.Contains(t, first.Prompt, "Analyze this file format based on the following analysis:")
	assert.Contains(t, first.Prompt, "Previous knowledge: None")
	assert.Contains(t, first.ParserOutput, "Vertices: 10")
	assert.Len(t, first.GroundTruth, 4)
	assert.Equal(t, 10.0, first.GroundTruth["vertex_count"])

	// The second attempt already sees the first one's hypothesis
	assert.Contains(t, second.Prompt, "--- Hypothesis 1 (format SimpleMesh, score 1.00) ---")

	// The journal mirrors both attempts
	j, err := journalLines(journalPath)
	require.NoError(t, err)
	assert.Len(t, j, 2)
}

// TestRunExperimentEmptyCorpus tests the guard against running nothing
func TestRunExperimentEmptyCorpus(t *testing.T) {
	h, err := harness.New(shellHarnessConfig(t), quietLogger())
	require.NoError(t, err)
	defer h.Close()

	assert.Error(t, h.RunExperiment(context.Background()))
}

// TestRunExperimentOracleFailure tests that oracle errors journal and score zero
func TestRunExperimentOracleFailure(t *testing.T) {
	cfg := shellHarnessConfig(t)
	h, err := harness.New(cfg, quietLogger())
	require.NoError(t, err)
	defer h.Close()

	seedMeshCorpus(t, cfg.DataDir)
	_, err = h.IngestExisting()
	require.NoError(t, err)

	h.SetOracle(&oracle.MockOracle{Err: context.DeadlineExceeded})
	require.NoError(t, h.RunExperiment(context.Background()))

	snap := h.Stats().Snapshot()
	assert.Equal(t, int64(2), snap.Attempts)
	assert.Equal(t, int64(0), snap.Successes)
	assert.Equal(t, 0.0, snap.BestScore)
	assert.Equal(t, 0, h.Knowledge().Size())
}

// TestRunExperimentCancellation tests that a cancelled context stops the run
func TestRunExperimentCancellation(t *testing.T) {
	cfg := shellHarnessConfig(t)
	h, err := harness.New(cfg, quietLogger())
	require.NoError(t, err)
	defer h.Close()

	seedMeshCorpus(t, cfg.DataDir)
	_, err = h.IngestExisting()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = h.RunExperiment(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestEvaluateBaseline tests heuristic scoring across the corpus
func TestEvaluateBaseline(t *testing.T) {
	cfg := shellHarnessConfig(t)
	h, err := harness.New(cfg, quietLogger())
	require.NoError(t, err)
	defer h.Close()

	seedMeshCorpus(t, cfg.DataDir)
	_, err = h.IngestExisting()
	require.NoError(t, err)

	reporter := &recordingReporter{}
	h.AddReporter(reporter)

	scores, summary, err := h.EvaluateBaseline(context.Background())
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, 2, reporter.baselines)

	// test_00.smsh is 10/5: the version word displaces the counts, the
	// fit fails, and only the magic is credited (1 of 4 header fields).
	assert.Equal(t, "test_00.smsh", scores[0].File)
	assert.Equal(t, 1, scores[0].Inferred)
	assert.InDelta(t, 0.25, scores[0].Score, 1e-9)

	// test_01.smsh is 5/1: 16 + 12*(1+5) closes over the 88-byte file,
	// and value-based matching credits every header field.
	assert.Equal(t, "test_01.smsh", scores[1].File)
	assert.Equal(t, 4, scores[1].Inferred)
	assert.InDelta(t, 1.0, scores[1].Score, 1e-9)

	assert.InDelta(t, 0.625, summary.Mean, 1e-9)
	assert.InDelta(t, 0.25, summary.Min, 1e-9)
	assert.InDelta(t, 1.0, summary.Max, 1e-9)
}

// TestEvaluateBaselineEmptyCorpus tests the empty-corpus shape
func TestEvaluateBaselineEmptyCorpus(t *testing.T) {
	h, err := harness.New(shellHarnessConfig(t), quietLogger())
	require.NoError(t, err)
	defer h.Close()

	scores, summary, err := h.EvaluateBaseline(context.Background())
	require.NoError(t, err)
	assert.Nil(t, scores)
	assert.Equal(t, 0, summary.Count)
}

// TestLoggerReporter tests the stock reporter against all event kinds
func TestLoggerReporter(t *testing.T) {
	r := harness.NewLoggerReporter(quietLogger())
	r.OnFormatGenerated("SimpleMesh", 10)
	r.OnBaselineScored("SimpleMesh", "test_00.smsh", 0.25)
	r.OnAttemptCompleted(&results.AttemptRecord{Format: "SimpleMesh", Status: "ok"})
	r.OnAttemptCompleted(&results.AttemptRecord{Format: "SimpleMesh", Status: "crash"})
}
