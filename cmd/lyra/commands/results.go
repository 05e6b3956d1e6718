/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: results.go
Description: Results command implementation for Lyra Formats. Prints a
summary of recorded experiment attempts from the results database,
including per-format best scores.
*/

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/lyra-formats/pkg/results"
)

// RunResults summarizes the results database
func RunResults(cmd *cobra.Command, args []string) error {
	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	if err := SetupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	store, err := results.Open(viper.GetString("results_db"))
	if err != nil {
		return fmt.Errorf("failed to open results database: %w", err)
	}
	defer store.Close()

	summary, err := store.Summary()
	if err != nil {
		return fmt.Errorf("failed to summarize results: %w", err)
	}

	fmt.Println("📊 Results Summary")
	fmt.Println("==================")
	fmt.Printf("  Formats:    %d\n", summary.Formats)
	fmt.Printf("  Attempts:   %d\n", summary.Attempts)
	fmt.Printf("  Successes:  %d\n", summary.Successes)
	fmt.Printf("  Mean Score: %.2f\n", summary.MeanScore)
	fmt.Printf("  Best Score: %.2f\n", summary.BestScore)

	formats, err := store.ListFormats()
	if err != nil {
		return fmt.Errorf("failed to list formats: %w", err)
	}
	if len(formats) == 0 {
		return nil
	}

	fmt.Println("\n🏆 Best Attempt per Format")
	fmt.Println("==========================")
	for _, f := range formats {
		best, err := store.BestAttempt(f.Name)
		if err != nil {
			return fmt.Errorf("failed to find best attempt for %s: %w", f.Name, err)
		}
		if best == nil {
			fmt.Printf("  %-20s no attempts\n", f.Name)
			continue
		}
		fmt.Printf("  %-20s %.2f (%s, %s)\n", f.Name, best.ValidationScore, best.Status, best.Timestamp.Format("2006-01-02 15:04:05"))
	}

	return nil
}
