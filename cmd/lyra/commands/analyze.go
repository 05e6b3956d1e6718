/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: analyze.go
Description: Analyze command implementation for Lyra Formats. Prints
entropy maps, alignment scores, and differential reports for binary
files without any format knowledge.
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/lyra-formats/pkg/analysis"
)

// RunAnalyze prints structural analysis for each file argument
func RunAnalyze(cmd *cobra.Command, args []string) error {
	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	if err := SetupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	reports := make([]*analysis.FileReport, 0, len(args))
	for _, path := range args {
		report, err := analysis.AnalyzeFile(path)
		if err != nil {
			return fmt.Errorf("failed to analyze %s: %w", path, err)
		}
		reports = append(reports, report)
		fmt.Println(report.Render())
	}

	if viper.GetBool("diff") {
		if len(reports) < 2 {
			return fmt.Errorf("--diff needs two files")
		}
		diff := analysis.Diff(reports[0], reports[1])
		fmt.Println(diff.Render())
	}

	return nil
}
