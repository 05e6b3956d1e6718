/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: experiment.go
Description: Experiment command implementation for Lyra Formats. Handles
the main evaluation loop with comprehensive configuration, graceful
shutdown, and final statistics reporting.
*/

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/lyra-formats/pkg/harness"
	"github.com/kleascm/lyra-formats/pkg/utils"
)

// RunExperiment executes the full oracle evaluation loop
func RunExperiment(cmd *cobra.Command, args []string) error {
	fmt.Println("🔬 Lyra Formats - Oracle Experiment")
	fmt.Println("===================================")
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

	// Build the harness configuration
	config := createHarnessConfig()

	// Create the harness
	h, err := harness.New(config, logger)
	if err != nil {
		return fmt.Errorf("failed to create harness: %w", err)
	}
	defer h.Close()

	h.AddReporter(harness.NewLoggerReporter(logger))

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\n🛑 Received shutdown signal, stopping experiment...")
		cancel()
	}()

	// Build or load the corpus
	if viper.GetBool("use_existing") {
		added, err := h.IngestExisting()
		if err != nil {
			return fmt.Errorf("failed to ingest corpus: %w", err)
		}
		fmt.Printf("📂 Ingested %d formats from %s\n\n", added, config.DataDir)
	} else {
		if err := h.GenerateCorpus(); err != nil {
			return fmt.Errorf("failed to generate corpus: %w", err)
		}
		fmt.Printf("🧬 Generated %d formats (%d files)\n\n", h.Corpus().Size(), h.Corpus().TotalFiles())
	}

	// Run the experiment
	if err := h.RunExperiment(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\n⚠️  Experiment interrupted")
		} else {
			return fmt.Errorf("experiment failed: %w", err)
		}
	}

	// Print final statistics
	printFinalStats(h)

	snap := h.Stats().Snapshot()
	expLogger.LogStats(snap.Attempts, snap.Successes, snap.Kept, snap.MeanScore, map[string]interface{}{
		"best_score": snap.BestScore,
	})

	// Export metrics if requested
	if viper.GetBool("metrics") {
		path, err := utils.WriteMetricsResult("experiment", Version, snap)
		if err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		fmt.Printf("📈 Metrics written to %s\n", path)
	}

	fmt.Printf("📓 Journal: %s\n", h.Journal().Path())
	fmt.Println("\n✨ Experiment completed!")
	return nil
}

// createHarnessConfig builds the harness configuration from viper
func createHarnessConfig() *harness.Config {
	config := harness.DefaultConfig(".")

	config.DataDir = viper.GetString("data_dir")
	config.ResultsPath = viper.GetString("results_db")
	config.JournalDir = viper.GetString("journal_dir")

	if v := viper.GetInt("format_count"); v > 0 {
		config.FormatCount = v
	}
	if v := viper.GetInt("files_per_format"); v > 0 {
		config.FilesPerFormat = v
	}
	if v := viper.GetInt("workers"); v > 0 {
		config.Workers = v
	}
	if v := viper.GetDuration("timeout"); v > 0 {
		config.Timeout = v
	}
	if viper.IsSet("keep_threshold") {
		config.KeepThreshold = viper.GetFloat64("keep_threshold")
	}
	if v := viper.GetString("work_dir"); v != "" {
		config.WorkDir = v
	}
	if v := viper.GetStringSlice("build_args"); len(v) > 0 {
		config.BuildArgs = v
	}
	if v := viper.GetStringSlice("run_args"); len(v) > 0 {
		config.RunArgs = v
	}
	if v := viper.GetString("source_ext"); v != "" {
		config.SourceExt = v
	}
	config.Seed = viper.GetInt64("seed")

	return config
}

// printFinalStats prints comprehensive final statistics
func printFinalStats(h *harness.Harness) {
	snap := h.Stats().Snapshot()

	fmt.Println("\n📊 Final Statistics")
	fmt.Println("===================")
	fmt.Printf("  Attempts:      %d\n", snap.Attempts)
	fmt.Printf("  Successes:     %d\n", snap.Successes)
	fmt.Printf("  Build Errors:  %d\n", snap.BuildFails)
	fmt.Printf("  Crashes:       %d\n", snap.Crashes)
	fmt.Printf("  Timeouts:      %d\n", snap.Timeouts)
	fmt.Printf("  Kept:          %d\n", snap.Kept)
	fmt.Printf("  Mean Score:    %.2f\n", snap.MeanScore)
	fmt.Printf("  Best Score:    %.2f\n", snap.BestScore)
	fmt.Printf("  Elapsed:       %s\n", snap.Elapsed.Round(time.Millisecond))

	if best := h.Knowledge().Best(); best != nil {
		fmt.Printf("\n🏆 Best hypothesis: format %s scored %.2f\n", best.Format, best.Score)
	}
}
