/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dashboard.go
Description: HTML dashboard system for the Lyra Formats harness.
Generates beautiful, interactive web reports with score trends, status
breakdowns, per-format leaderboards, and attempt history straight from
the results database.
*/

package reporting

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/kleascm/lyra-formats/pkg/results"
)

// trendLimit caps how many attempts the score trend chart plots
const trendLimit = 100

// attemptLimit caps how many attempts the history tab lists
const attemptLimit = 50

// DashboardGenerator creates beautiful HTML dashboards
type DashboardGenerator struct {
	outputDir string
	logger    *logrus.Logger
	templates *template.Template
}

// DashboardData contains all data for dashboard generation
type DashboardData struct {
	Title        string                   `json:"title"`
	GeneratedAt  time.Time                `json:"generated_at"`
	Version      string                   `json:"version"`
	SessionID    string                   `json:"session_id"`
	Summary      *results.Summary         `json:"summary"`
	SuccessRate  float64                  `json:"success_rate"`
	StatusCounts map[string]int           `json:"status_counts"`
	Formats      []*FormatSummary         `json:"formats"`
	Attempts     []*results.AttemptRecord `json:"attempts"`
	Charts       *ChartData               `json:"charts"`
}

// FormatSummary aggregates attempt outcomes for one format
type FormatSummary struct {
	Name      string  `json:"name"`
	Files     int     `json:"files"`
	Attempts  int     `json:"attempts"`
	BestScore float64 `json:"best_score"`
	MeanScore float64 `json:"mean_score"`
}

// ChartData contains chart configuration and data
type ChartData struct {
	ScoreTrendChart *ChartConfig `json:"score_trend_chart"`
	StatusChart     *ChartConfig `json:"status_chart"`
	FormatChart     *ChartConfig `json:"format_chart"`
}

// ChartConfig contains chart configuration
type ChartConfig struct {
	Type    string      `json:"type"`
	Title   string      `json:"title"`
	Data    interface{} `json:"data"`
	Options interface{} `json:"options"`
}

// NewDashboardGenerator creates a new dashboard generator
func NewDashboardGenerator(outputDir string, logger *logrus.Logger) *DashboardGenerator {
	funcs := template.FuncMap{
		"json": func(v interface{}) (template.JS, error) {
			b, err := json.Marshal(v)
			return template.JS(b), err
		},
	}
	return &DashboardGenerator{
		outputDir: outputDir,
		logger:    logger,
		templates: template.Must(template.New("dashboard").Funcs(funcs).Parse(dashboardTemplate)),
	}
}

// BuildDashboardData assembles dashboard data from the results store
func BuildDashboardData(store *results.Store, version string) (*DashboardData, error) {
	summary, err := store.Summary()
	if err != nil {
		return nil, fmt.Errorf("failed to summarize results: %w", err)
	}

	formats, err := store.ListFormats()
	if err != nil {
		return nil, fmt.Errorf("failed to list formats: %w", err)
	}

	attempts, err := store.ListAttempts("")
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}

	data := &DashboardData{
		Title:        "Lyra Formats",
		GeneratedAt:  time.Now(),
		Version:      version,
		SessionID:    uuid.New().String()[:8],
		Summary:      summary,
		StatusCounts: make(map[string]int),
	}
	if summary.Attempts > 0 {
		data.SuccessRate = float64(summary.Successes) / float64(summary.Attempts) * 100
	}

	scoresByFormat := make(map[string][]float64)
	for _, a := range attempts {
		data.StatusCounts[a.Status]++
		scoresByFormat[a.Format] = append(scoresByFormat[a.Format], a.ValidationScore)
	}

	for _, f := range formats {
		fs := &FormatSummary{
			Name:  f.Name,
			Files: len(f.Files),
		}
		if scores := scoresByFormat[f.Name]; len(scores) > 0 {
			fs.Attempts = len(scores)
			fs.BestScore, _ = stats.Max(scores)
			fs.MeanScore, _ = stats.Mean(scores)
		}
		data.Formats = append(data.Formats, fs)
	}

	if len(attempts) > attemptLimit {
		attempts = attempts[len(attempts)-attemptLimit:]
	}
	data.Attempts = attempts

	return data, nil
}

// GenerateDashboard creates a complete HTML dashboard
func (dg *DashboardGenerator) GenerateDashboard(data *DashboardData) error {
	// Create output directory
	if err := os.MkdirAll(dg.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Generate main dashboard
	if err := dg.generateMainDashboard(data); err != nil {
		return fmt.Errorf("failed to generate main dashboard: %w", err)
	}

	// Export raw data alongside the HTML
	if err := dg.exportData(data); err != nil {
		return fmt.Errorf("failed to export dashboard data: %w", err)
	}

	dg.logger.Infof("Dashboard generated successfully in: %s", dg.outputDir)
	return nil
}

// generateMainDashboard creates the main dashboard HTML
func (dg *DashboardGenerator) generateMainDashboard(data *DashboardData) error {
	// Prepare chart data
	dg.prepareChartData(data)

	// Generate HTML
	outputFile := filepath.Join(dg.outputDir, "index.html")
	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	// Execute template
	if err := dg.templates.Execute(file, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return nil
}

// exportData writes the dashboard data as JSON for external tooling
func (dg *DashboardGenerator) exportData(data *DashboardData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dg.outputDir, "dashboard.json"), raw, 0644)
}

// prepareChartData prepares chart configurations
func (dg *DashboardGenerator) prepareChartData(data *DashboardData) {
	data.Charts = &ChartData{
		ScoreTrendChart: dg.createScoreTrendChart(data),
		StatusChart:     dg.createStatusChart(data),
		FormatChart:     dg.createFormatChart(data),
	}
}

// createScoreTrendChart creates the validation score trend configuration
func (dg *DashboardGenerator) createScoreTrendChart(data *DashboardData) *ChartConfig {
	attempts := data.Attempts
	if len(attempts) > trendLimit {
		attempts = attempts[len(attempts)-trendLimit:]
	}

	labels := make([]string, 0, len(attempts))
	scores := make([]float64, 0, len(attempts))
	for i, a := range attempts {
		labels = append(labels, fmt.Sprintf("%d", i+1))
		scores = append(scores, a.ValidationScore)
	}

	return &ChartConfig{
		Type:  "line",
		Title: "Validation Score Trend",
		Data: map[string]interface{}{
			"labels": labels,
			"datasets": []map[string]interface{}{
				{
					"label":           "Score",
					"data":            scores,
					"borderColor":     "rgb(75, 192, 192)",
					"backgroundColor": "rgba(75, 192, 192, 0.2)",
				},
			},
		},
		Options: map[string]interface{}{
			"responsive": true,
			"scales": map[string]interface{}{
				"y": map[string]interface{}{
					"beginAtZero": true,
					"max":         1.0,
				},
			},
		},
	}
}

// createStatusChart creates the attempt status distribution configuration
func (dg *DashboardGenerator) createStatusChart(data *DashboardData) *ChartConfig {
	statuses := []string{"ok", "build_error", "crash", "timeout", "error"}
	colors := []string{"#4CAF50", "#ff9800", "#f44336", "#ffc107", "#9e9e9e"}

	counts := make([]int, len(statuses))
	for i, s := range statuses {
		counts[i] = data.StatusCounts[s]
	}

	return &ChartConfig{
		Type:  "doughnut",
		Title: "Attempt Status Distribution",
		Data: map[string]interface{}{
			"labels": statuses,
			"datasets": []map[string]interface{}{
				{
					"data":            counts,
					"backgroundColor": colors,
				},
			},
		},
		Options: map[string]interface{}{
			"responsive": true,
		},
	}
}

// createFormatChart creates the per-format best score configuration
func (dg *DashboardGenerator) createFormatChart(data *DashboardData) *ChartConfig {
	labels := make([]string, 0, len(data.Formats))
	best := make([]float64, 0, len(data.Formats))
	for _, f := range data.Formats {
		labels = append(labels, f.Name)
		best = append(best, f.BestScore)
	}

	return &ChartConfig{
		Type:  "bar",
		Title: "Best Score by Format",
		Data: map[string]interface{}{
			"labels": labels,
			"datasets": []map[string]interface{}{
				{
					"label":           "Best Score",
					"data":            best,
					"backgroundColor": "rgba(102, 126, 234, 0.6)",
				},
			},
		},
		Options: map[string]interface{}{
			"responsive": true,
			"scales": map[string]interface{}{
				"y": map[string]interface{}{
					"beginAtZero": true,
					"max":         1.0,
				},
			},
		},
	}
}
