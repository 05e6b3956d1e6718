/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for Lyra Formats. Provides
comprehensive command-line options, configuration management, and
beautiful user interface for generating synthetic binary formats and
running format-recovery experiments with advanced logging capabilities.
*/

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kleascm/lyra-formats/cmd/lyra/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Configuration
	configFile string
	logLevel   string
	jsonLogs   bool

	// Workspace configuration
	dataDir    string
	resultsDB  string
	journalDir string

	// Generation configuration
	formatCount    int
	filesPerFormat int
	seed           int64
	meshOnly       bool

	// Experiment configuration
	workers       int
	timeout       time.Duration
	keepThreshold float64
	workDir       string
	buildArgs     []string
	runArgs       []string
	sourceExt     string
	useExisting   bool
	writeMetrics  bool

	// Analysis configuration
	diffFiles bool

	// Validation configuration
	specPath   string
	binPath    string
	outputPath string
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:   "lyra-formats",
		Short: "Lyra Formats - Binary format recovery experiment harness",
		Long: `Lyra Formats is a self-contained evaluation harness for binary format
reverse engineering. It synthesizes unseen binary file formats, asks an
oracle to write parsers for them from structural analysis alone, compiles
and executes the proposed parsers in a sandboxed pipeline, and scores
their output against decoded ground truth.`,
		Version: "1.0.0",
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Use JSON log format")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "Directory for generated specs and sample files")
	rootCmd.PersistentFlags().StringVar(&resultsDB, "results-db", "./results.db", "Path to the results database")
	rootCmd.PersistentFlags().StringVar(&journalDir, "journal-dir", "./logs", "Directory for experiment journals")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("json_logs", rootCmd.PersistentFlags().Lookup("json-logs"))
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
	viper.BindPFlag("results_db", rootCmd.PersistentFlags().Lookup("results-db"))
	viper.BindPFlag("journal_dir", rootCmd.PersistentFlags().Lookup("journal-dir"))

	// Add generate command
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate synthetic binary formats and sample files",
		Long: `Generate random binary format specifications and encode sample files
for each. Every run also emits the fixed SimpleMesh baseline corpus so the
structural heuristic always has known files to score against.`,
		RunE: commands.RunGenerate,
	}

	generateCmd.Flags().IntVar(&formatCount, "formats", 3, "Number of random formats to generate")
	generateCmd.Flags().IntVar(&filesPerFormat, "files", 3, "Number of sample files per format")
	generateCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = time-based)")
	generateCmd.Flags().BoolVar(&meshOnly, "mesh-only", false, "Generate only the SimpleMesh baseline corpus")

	viper.BindPFlag("format_count", generateCmd.Flags().Lookup("formats"))
	viper.BindPFlag("files_per_format", generateCmd.Flags().Lookup("files"))
	viper.BindPFlag("seed", generateCmd.Flags().Lookup("seed"))
	viper.BindPFlag("mesh_only", generateCmd.Flags().Lookup("mesh-only"))

	rootCmd.AddCommand(generateCmd)

	// Add experiment command
	experimentCmd := &cobra.Command{
		Use:   "experiment",
		Short: "Run the full oracle experiment loop",
		Long: `Run the complete evaluation loop: generate or ingest a corpus of
synthetic formats, analyze each sample file, prompt the oracle for a
parser, compile and execute the proposal, and score its output against
decoded ground truth. High-scoring hypotheses feed back into later
prompts as prior knowledge.`,
		RunE: commands.RunExperiment,
	}

	experimentCmd.Flags().IntVar(&formatCount, "formats", 3, "Number of random formats to generate")
	experimentCmd.Flags().IntVar(&filesPerFormat, "files", 3, "Number of sample files per format")
	experimentCmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = time-based)")
	experimentCmd.Flags().IntVar(&workers, "workers", 0, "Number of parallel workers (0 = auto-detect)")
	experimentCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Maximum build or run time per stage")
	experimentCmd.Flags().Float64Var(&keepThreshold, "keep-threshold", 0.8, "Minimum score for a hypothesis to enter the knowledge base")
	experimentCmd.Flags().StringVar(&workDir, "work-dir", "./work", "Directory for generated sources and binaries")
	experimentCmd.Flags().StringSliceVar(&buildArgs, "build-args", []string{}, "Compiler argv with {src} and {bin} placeholders")
	experimentCmd.Flags().StringSliceVar(&runArgs, "run-args", []string{}, "Parser argv with {bin} and {input} placeholders")
	experimentCmd.Flags().StringVar(&sourceExt, "source-ext", "", "Extension for candidate sources (default .c)")
	experimentCmd.Flags().BoolVar(&useExisting, "use-existing", false, "Ingest formats already in the data directory instead of generating")
	experimentCmd.Flags().BoolVar(&writeMetrics, "metrics", false, "Write final statistics to the metrics directory")

	viper.BindPFlag("format_count", experimentCmd.Flags().Lookup("formats"))
	viper.BindPFlag("files_per_format", experimentCmd.Flags().Lookup("files"))
	viper.BindPFlag("seed", experimentCmd.Flags().Lookup("seed"))
	viper.BindPFlag("workers", experimentCmd.Flags().Lookup("workers"))
	viper.BindPFlag("timeout", experimentCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("keep_threshold", experimentCmd.Flags().Lookup("keep-threshold"))
	viper.BindPFlag("work_dir", experimentCmd.Flags().Lookup("work-dir"))
	viper.BindPFlag("build_args", experimentCmd.Flags().Lookup("build-args"))
	viper.BindPFlag("run_args", experimentCmd.Flags().Lookup("run-args"))
	viper.BindPFlag("source_ext", experimentCmd.Flags().Lookup("source-ext"))
	viper.BindPFlag("use_existing", experimentCmd.Flags().Lookup("use-existing"))
	viper.BindPFlag("metrics", experimentCmd.Flags().Lookup("metrics"))

	rootCmd.AddCommand(experimentCmd)

	// Add baseline command
	baselineCmd := &cobra.Command{
		Use:   "baseline",
		Short: "Score the structural heuristic against the corpus",
		Long: `Run the non-LLM structural heuristic over every file in the corpus and
score its inferred fields against decoded ground truth. This is the
reference point every oracle attempt is compared to.`,
		RunE: commands.RunBaseline,
	}

	baselineCmd.Flags().IntVar(&workers, "workers", 0, "Number of parallel workers (0 = auto-detect)")
	baselineCmd.Flags().BoolVar(&writeMetrics, "metrics", false, "Write the baseline summary to the metrics directory")

	viper.BindPFlag("workers", baselineCmd.Flags().Lookup("workers"))
	viper.BindPFlag("metrics", baselineCmd.Flags().Lookup("metrics"))

	rootCmd.AddCommand(baselineCmd)

	// Add analyze command
	analyzeCmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Print entropy and alignment analysis for binary files",
		Long: `Analyze binary files without any format knowledge: per-chunk Shannon
entropy, stride alignment scores, and size. With --diff and exactly two
files, also print a differential report between them.`,
		Args: cobra.MinimumNArgs(1),
		RunE: commands.RunAnalyze,
	}

	analyzeCmd.Flags().BoolVar(&diffFiles, "diff", false, "Diff the first two files after analyzing them")

	viper.BindPFlag("diff", analyzeCmd.Flags().Lookup("diff"))

	rootCmd.AddCommand(analyzeCmd)

	// Add validate command
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Score parser output against a spec and sample file",
		Long: `Decode ground truth from a sample file using its format specification,
then score a parser's captured stdout against it. Useful for re-scoring
saved parser output without re-running the pipeline.`,
		RunE: commands.RunValidate,
	}

	validateCmd.Flags().StringVar(&specPath, "spec", "", "Path to the format specification JSON (required)")
	validateCmd.Flags().StringVar(&binPath, "file", "", "Path to the encoded sample file (required)")
	validateCmd.Flags().StringVar(&outputPath, "output", "", "Path to the parser output text (required)")

	validateCmd.MarkFlagRequired("spec")
	validateCmd.MarkFlagRequired("file")
	validateCmd.MarkFlagRequired("output")

	viper.BindPFlag("spec_path", validateCmd.Flags().Lookup("spec"))
	viper.BindPFlag("bin_path", validateCmd.Flags().Lookup("file"))
	viper.BindPFlag("output_path", validateCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(validateCmd)

	// Add results command
	resultsCmd := &cobra.Command{
		Use:   "results",
		Short: "Summarize the results database",
		Long: `Print a summary of all recorded experiment attempts: per-format best
scores, status distribution, and overall statistics from the results
database.`,
		RunE: commands.RunResults,
	}

	rootCmd.AddCommand(resultsCmd)

	// Add dashboard command for beautiful HTML reports
	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Generate beautiful HTML dashboard reports",
		Long: `Generate comprehensive HTML dashboards with interactive charts, score
trends, status breakdowns, and per-format leaderboards from the results
database. Perfect for sharing results and monitoring experiment progress.`,
		RunE: commands.PerformDashboardGeneration,
	}

	dashboardCmd.Flags().String("output-dir", "./dashboard", "Output directory for dashboard files")
	dashboardCmd.Flags().Bool("auto-open", false, "Automatically open dashboard in browser")

	viper.BindPFlag("dashboard.output_dir", dashboardCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("dashboard.auto_open", dashboardCmd.Flags().Lookup("auto-open"))

	rootCmd.AddCommand(dashboardCmd)

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
