/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dashboard_test.go
Description: Tests for the HTML dashboard. Verifies data assembly from
the results database, per-format aggregation, chart preparation, and the
rendered HTML and JSON artifacts.
*/

package reporting_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kleascm/lyra-formats/pkg/reporting"
	"github.com/kleascm/lyra-formats/pkg/results"
)

// populatedStore opens a results database holding two formats and three
// attempts with mixed outcomes.
func populatedStore(t *testing.T) *results.Store {
	t.Helper()
	store, err := results.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveFormat(&results.FormatRecord{
		Name:      "SimpleMesh",
		SpecPath:  "simplemesh_spec.json",
		Files:     []string{"test_00.smsh", "test_01.smsh"},
		CreatedAt: base,
	}))
	require.NoError(t, store.SaveFormat(&results.FormatRecord{
		Name:      "RandomFormat_0",
		SpecPath:  "RandomFormat_0_spec.json",
		Files:     []string{"RandomFormat_0_0.bin"},
		CreatedAt: base,
	}))

	attempts := []*results.AttemptRecord{
		{ID: "a1", Format: "SimpleMesh", FilePath: "data/test_00.smsh",
			Timestamp: base.Add(1 * time.Second), ValidationScore: 1.0, Status: "ok", Success: true},
		{ID: "a2", Format: "SimpleMesh", FilePath: "data/test_01.smsh",
			Timestamp: base.Add(2 * time.Second), ValidationScore: 0.5, Status: "ok", Success: true},
		{ID: "a3", Format: "RandomFormat_0", FilePath: "data/RandomFormat_0_0.bin",
			Timestamp: base.Add(3 * time.Second), ValidationScore: 0, Status: "crash", Success: false},
	}
	for _, a := range attempts {
		require.NoError(t, store.SaveAttempt(a))
	}

	return store
}

// quietLogger keeps dashboard chatter out of test output
func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

// TestBuildDashboardData tests aggregation from the results store
func TestBuildDashboardData(t *testing.T) {
	store := populatedStore(t)

	data, err := reporting.BuildDashboardData(store, "1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "Lyra Formats", data.Title)
	assert.Equal(t, "1.2.3", data.Version)
	assert.Len(t, data.SessionID, 8)
	assert.False(t, data.GeneratedAt.IsZero())

	assert.Equal(t, 3, data.Summary.Attempts)
	assert.Equal(t, 2, data.Summary.Successes)
	assert.InDelta(t, 66.67, data.SuccessRate, 0.01)
	assert.Equal(t, map[string]int{"ok": 2, "crash": 1}, data.StatusCounts)

	// Formats come back sorted by name with their score aggregates
	require.Len(t, data.Formats, 2)
	random, mesh := data.Formats[0], data.Formats[1]

	assert.Equal(t, "RandomFormat_0", random.Name)
	assert.Equal(t, 1, random.Files)
	assert.Equal(t, 1, random.Attempts)
	assert.Equal(t, 0.0, random.BestScore)

	assert.Equal(t, "SimpleMesh", mesh.Name)
	assert.Equal(t, 2, mesh.Files)
	assert.Equal(t, 2, mesh.Attempts)
	assert.Equal(t, 1.0, mesh.BestScore)
	assert.InDelta(t, 0.75, mesh.MeanScore, 1e-9)

	assert.Len(t, data.Attempts, 3)
}

// TestBuildDashboardDataEmpty tests the empty-database shape
func TestBuildDashboardDataEmpty(t *testing.T) {
	store, err := results.Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer store.Close()

	data, err := reporting.BuildDashboardData(store, "dev")
	require.NoError(t, err)

	assert.Equal(t, 0, data.Summary.Attempts)
	assert.Equal(t, 0.0, data.SuccessRate)
	assert.Empty(t, data.Formats)
	assert.Empty(t, data.Attempts)
	assert.Empty(t, data.StatusCounts)
}

// TestGenerateDashboard tests the rendered HTML and JSON artifacts
func TestGenerateDashboard(t *testing.T) {
	store := populatedStore(t)
	data, err := reporting.BuildDashboardData(store, "1.2.3")
	require.NoError(t, err)

	outDir := filepath.Join(t.TempDir(), "dashboard")
	generator := reporting.NewDashboardGenerator(outDir, quietLogger())
	require.NoError(t, generator.GenerateDashboard(data))

	html, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	require.NoError(t, err)

	assert.Equal(t, "Lyra Formats - Experiment Dashboard", doc.Find("title").Text())
	assert.Contains(t, doc.Find(".header p").Text(), "Session: "+data.SessionID)
	assert.Equal(t, 6, doc.Find(".stat-card").Length())

	// The leaderboard carries a header row plus one row per format
	rows := doc.Find("table.format-table tr")
	require.Equal(t, 3, rows.Length())
	assert.Equal(t, "RandomFormat_0", rows.Eq(1).Find("td").First().Text())
	assert.Equal(t, "SimpleMesh", rows.Eq(2).Find("td").First().Text())

	// Every attempt shows up in the history tab
	assert.Equal(t, 3, doc.Find(".attempt-item").Length())
	assert.Equal(t, 1, doc.Find(".attempt-item.crash").Length())

	// Chart payloads made it into the page script
	script := doc.Find("script").Last().Text()
	assert.Contains(t, script, "Validation Score Trend")

	// The exported JSON mirrors the rendered data, charts included
	raw, err := os.ReadFile(filepath.Join(outDir, "dashboard.json"))
	require.NoError(t, err)

	var exported map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &exported))
	assert.Equal(t, data.SessionID, exported["session_id"])

	charts, ok := exported["charts"].(map[string]interface{})
	require.True(t, ok)
	assert.NotNil(t, charts["score_trend_chart"])
	assert.NotNil(t, charts["status_chart"])
	assert.NotNil(t, charts["format_chart"])
}
