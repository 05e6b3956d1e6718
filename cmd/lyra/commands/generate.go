/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: generate.go
Description: Generate command implementation for Lyra Formats. Creates
random binary format specifications plus encoded sample files, and the
fixed SimpleMesh baseline corpus, in the configured data directory.
*/

package commands

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kleascm/lyra-formats/pkg/generator"
	"github.com/kleascm/lyra-formats/pkg/storage"
)

// RunGenerate creates the synthetic corpus in the data directory
func RunGenerate(cmd *cobra.Command, args []string) error {
	fmt.Println("🧬 Lyra Formats - Corpus Generation")
	fmt.Println("===================================")
	fmt.Println()

	// Load configuration first
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logging
	if err := SetupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	logger := logrus.StandardLogger()

	store, err := storage.NewDirStore(viper.GetString("data_dir"))
	if err != nil {
		return fmt.Errorf("failed to open data directory: %w", err)
	}

	var rng *rand.Rand
	if seed := viper.GetInt64("seed"); seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}

	// The mesh corpus is always generated so the structural baseline has
	// known files to score against.
	mesh := generator.NewSimpleMeshGenerator(store, rng, logger)
	meshResult, err := mesh.Generate(nil)
	if err != nil {
		return fmt.Errorf("failed to generate mesh corpus: %w", err)
	}
	fmt.Printf("📦 %s: %d files\n", meshResult.Spec.Name, len(meshResult.Files))

	if !viper.GetBool("mesh_only") {
		random := generator.NewRandomFormatGenerator(store, rng, logger)
		count := viper.GetInt("format_count")
		files := viper.GetInt("files_per_format")

		for i := 0; i < count; i++ {
			name := fmt.Sprintf("RandomFormat_%d", i)
			result, err := random.Generate(name, files)
			if err != nil {
				return fmt.Errorf("failed to generate %s: %w", name, err)
			}
			fmt.Printf("📦 %s: %d files (header %d bytes, %d arrays)\n",
				result.Spec.Name, len(result.Files), result.Spec.HeaderSize(), len(result.Spec.Arrays))
		}
	}

	fmt.Printf("\n✨ Corpus written to %s\n", store.Root())
	return nil
}
