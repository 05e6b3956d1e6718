/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utils.go
Description: Shared utilities for the Lyra Formats commands. Provides
common configuration loading, logging setup, and utility functions used
across all command implementations.
*/

package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/kleascm/lyra-formats/pkg/logging"
)

// Version is stamped into dashboards and metrics exports
const Version = "1.0.0"

// LoadConfig loads configuration from files and environment
func LoadConfig() error {
	// Set config file if specified
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("LYRA")
	viper.AutomaticEnv()

	return nil
}

// NewExperimentLogger builds the file-backed experiment logger from the
// loaded configuration. Log files land next to the journals. The caller
// owns the returned logger and must Close it.
func NewExperimentLogger() (*logging.Logger, error) {
	format := logging.LogFormatCustom
	if viper.GetBool("json_logs") {
		format = logging.LogFormatJSON
	}

	outputDir := viper.GetString("journal_dir")
	if outputDir == "" {
		outputDir = "./logs"
	}

	config := &logging.LoggerConfig{
		Level:     logging.LogLevel(viper.GetString("log_level")),
		Format:    format,
		OutputDir: outputDir,
		MaxFiles:  10,
		MaxSize:   100 * 1024 * 1024,
		Timestamp: true,
		Colors:    true,
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logging configuration: %w", err)
	}

	return logging.NewLogger(config)
}

// SetupLogging configures the logging system
func SetupLogging() error {
	logLevel := viper.GetString("log_level")
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logrus.SetLevel(level)
	if viper.GetBool("json_logs") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return nil
}
