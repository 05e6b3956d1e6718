/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: validate.go
Description: Validate command implementation for Lyra Formats. Scores a
parser's captured stdout against the ground truth decoded from a sample
file and its format specification.
*/

package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/lyra-formats/pkg/schema"
	"github.com/kleascm/lyra-formats/pkg/validator"
)

// RunValidate scores saved parser output against decoded ground truth
func RunValidate(cmd *cobra.Command, args []string) error {
	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	if err := SetupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	specData, err := os.ReadFile(viper.GetString("spec_path"))
	if err != nil {
		return fmt.Errorf("failed to read spec: %w", err)
	}
	spec, err := schema.ParseSpec(specData)
	if err != nil {
		return fmt.Errorf("failed to parse spec: %w", err)
	}

	fileData, err := os.ReadFile(viper.GetString("bin_path"))
	if err != nil {
		return fmt.Errorf("failed to read sample file: %w", err)
	}

	output, err := os.ReadFile(viper.GetString("output_path"))
	if err != nil {
		return fmt.Errorf("failed to read parser output: %w", err)
	}

	score, err := validator.ScoreFile(spec, fileData, string(output))
	if err != nil {
		return fmt.Errorf("failed to score output: %w", err)
	}

	fmt.Printf("🎯 Format: %s\n", spec.Name)
	fmt.Printf("🎯 Validation score: %.2f\n", score)
	return nil
}
