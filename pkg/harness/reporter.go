/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: reporter.go
Description: Reporter interface and implementations for experiment
telemetry. Allows the harness to notify listeners of generated formats,
completed attempts, and baseline scores without coupling the evaluation
loop to any particular output.
*/

package harness

import (
	"github.com/sirupsen/logrus"

	"github.com/kleascm/lyra-formats/pkg/results"
)

// Reporter defines the interface for experiment event hooks.
// Allows the harness to notify listeners of generation and scoring events.
type Reporter interface {
	// OnFormatGenerated is called when a format and its files exist
	OnFormatGenerated(format string, files int)
	// OnAttemptCompleted is called after an attempt is fully scored
	OnAttemptCompleted(rec *results.AttemptRecord)
	// OnBaselineScored is called for every heuristic baseline score
	OnBaselineScored(format, file string, score float64)
}

// LoggerReporter logs experiment events using the standard logger
type LoggerReporter struct {
	logger *logrus.Logger
}

// NewLoggerReporter creates a new LoggerReporter
func NewLoggerReporter(logger *logrus.Logger) *LoggerReporter {
	if logger == nil {
		logger = logrus.New()
	}
	return &LoggerReporter{logger: logger}
}

// OnFormatGenerated logs corpus growth
func (r *LoggerReporter) OnFormatGenerated(format string, files int) {
	r.logger.WithFields(logrus.Fields{"format": format, "files": files}).Info("Format generated")
}

// OnAttemptCompleted logs attempt outcomes, warning on crashes
func (r *LoggerReporter) OnAttemptCompleted(rec *results.AttemptRecord) {
	fields := logrus.Fields{
		"format": rec.Format,
		"file":   rec.FilePath,
		"status": rec.Status,
		"score":  rec.ValidationScore,
	}
	switch rec.Status {
	case "crash":
		r.logger.WithFields(fields).Warn("Candidate crashed")
	case "timeout":
		r.logger.WithFields(fields).Warn("Candidate timed out")
	default:
		r.logger.WithFields(fields).Info("Attempt completed")
	}
}

// OnBaselineScored logs heuristic baseline results
func (r *LoggerReporter) OnBaselineScored(format, file string, score float64) {
	r.logger.WithFields(logrus.Fields{
		"format": format,
		"file":   file,
		"score":  score,
	}).Info("Baseline scored")
}
