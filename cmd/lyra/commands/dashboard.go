/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dashboard.go
Description: CLI command for generating beautiful HTML dashboards.
Provides comprehensive experiment metrics visualization with interactive
charts, score trends, status breakdowns, and per-format leaderboards.
*/

package commands

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/lyra-formats/pkg/reporting"
	"github.com/kleascm/lyra-formats/pkg/results"
)

// PerformDashboardGeneration generates a beautiful HTML dashboard
func PerformDashboardGeneration(cmd *cobra.Command, args []string) error {
	// Load configuration
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logging
	if err := SetupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	logger := logrus.StandardLogger()
	logger.Info("Starting dashboard generation...")

	outputDir := viper.GetString("dashboard.output_dir")
	if outputDir == "" {
		outputDir = "./dashboard"
	}

	// Open the results database
	store, err := results.Open(viper.GetString("results_db"))
	if err != nil {
		return fmt.Errorf("failed to open results database: %w", err)
	}
	defer store.Close()

	// Generate dashboard data
	data, err := reporting.BuildDashboardData(store, Version)
	if err != nil {
		return fmt.Errorf("failed to build dashboard data: %w", err)
	}

	// Generate dashboard
	generator := reporting.NewDashboardGenerator(outputDir, logger)
	if err := generator.GenerateDashboard(data); err != nil {
		return fmt.Errorf("failed to generate dashboard: %w", err)
	}

	indexPath := filepath.Join(outputDir, "index.html")
	fmt.Printf("📊 Dashboard generated: %s\n", indexPath)
	fmt.Printf("   Formats: %d | Attempts: %d | Best Score: %.2f\n",
		data.Summary.Formats, data.Summary.Attempts, data.Summary.BestScore)

	// Open in browser if requested
	if viper.GetBool("dashboard.auto_open") {
		if err := openBrowser(indexPath); err != nil {
			logger.WithError(err).Warn("Failed to open dashboard in browser")
		}
	}

	logger.Info("Dashboard generation completed successfully!")
	return nil
}

// openBrowser opens the given path with the platform's default browser
func openBrowser(path string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path).Start()
	default:
		return exec.Command("xdg-open", path).Start()
	}
}
