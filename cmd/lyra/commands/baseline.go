/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: baseline.go
Description: Baseline command implementation for Lyra Formats. Scores
the structural heuristic against every corpus file and reports aggregate
statistics, the reference point oracle attempts must beat.
*/

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/lyra-formats/pkg/harness"
	"github.com/kleascm/lyra-formats/pkg/utils"
)

// RunBaseline scores the structural heuristic over the existing corpus
func RunBaseline(cmd *cobra.Command, args []string) error {
	fmt.Println("📐 Lyra Formats - Structural Baseline")
	fmt.Println("=====================================")
	fmt.Println()

	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	expLogger, err := NewExperimentLogger()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer expLogger.Close()

	logger := expLogger.GetLogger()

	config := createHarnessConfig()

	h, err := harness.New(config, logger)
	if err != nil {
		return fmt.Errorf("failed to create harness: %w", err)
	}
	defer h.Close()

	added, err := h.IngestExisting()
	if err != nil {
		return fmt.Errorf("failed to ingest corpus: %w", err)
	}
	if added == 0 {
		return fmt.Errorf("no formats found in %s; run 'lyra-formats generate' first", config.DataDir)
	}
	fmt.Printf("📂 Ingested %d formats from %s\n\n", added, config.DataDir)

	scores, summary, err := h.EvaluateBaseline(context.Background())
	if err != nil {
		return fmt.Errorf("baseline evaluation failed: %w", err)
	}

	fmt.Printf("  %-20s %-22s %-8s %s\n", "FORMAT", "FILE", "FIELDS", "SCORE")
	for _, s := range scores {
		fmt.Printf("  %-20s %-22s %-8d %.2f\n", s.Format, s.File, s.Inferred, s.Score)
		expLogger.LogBaselineScore(s.Format, s.File, s.Score, map[string]interface{}{
			"inferred_fields": s.Inferred,
		})
	}

	fmt.Println("\n📊 Baseline Summary")
	fmt.Println("===================")
	fmt.Printf("  Files:   %d\n", summary.Count)
	fmt.Printf("  Mean:    %.2f\n", summary.Mean)
	fmt.Printf("  Median:  %.2f\n", summary.Median)
	fmt.Printf("  Min:     %.2f\n", summary.Min)
	fmt.Printf("  Max:     %.2f\n", summary.Max)

	// Export metrics if requested
	if viper.GetBool("metrics") {
		path, err := utils.WriteMetricsResult("baseline", Version, summary)
		if err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		fmt.Printf("\n📈 Metrics written to %s\n", path)
	}

	fmt.Println("\n✨ Baseline evaluation completed!")
	return nil
}
