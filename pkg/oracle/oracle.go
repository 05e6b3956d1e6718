/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: oracle.go
Description: Oracle abstraction over the hypothesis source. An oracle
receives the analysis prompt for an unknown format and proposes complete
parser source code. The environment decides which oracle runs: a real
chat-completions endpoint when credentials are present, otherwise a mock
that keeps the rest of the pipeline exercisable offline.
*/

package oracle

import (
	"context"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment keys configuring the HTTP oracle
const (
	EnvAPIKey  = "LYRA_ORACLE_API_KEY"
	EnvBaseURL = "LYRA_ORACLE_URL"
	EnvModel   = "LYRA_ORACLE_MODEL"
)

// Oracle proposes parser source code for an analyzed binary format
type Oracle interface {
	// Name identifies the oracle in logs and attempt records
	Name() string
	// ProposeParser returns complete parser source for the prompt
	ProposeParser(ctx context.Context, prompt string) (string, error)
}

// NewFromEnv selects an oracle from the environment. A .env file is
// loaded when present. Without an API key the mock oracle is returned,
// with a warning, so experiments degrade rather than abort.
func NewFromEnv(logger *logrus.Logger) Oracle {
	if logger == nil {
		logger = logrus.New()
	}

	// Missing .env is fine; real environments set variables directly
	_ = godotenv.Load()

	apiKey := os.Getenv(EnvAPIKey)
	if apiKey == "" {
		logger.Warnf("No %s found in environment, using mock oracle", EnvAPIKey)
		return NewMockOracle()
	}

	return NewHTTPOracle(os.Getenv(EnvBaseURL), apiKey, os.Getenv(EnvModel), logger)
}

// StripCodeFences removes a surrounding markdown code block, which chat
// models emit even when told not to. Inner content is untouched.
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	lines := strings.Split(text, "\n")
	lines = lines[1:]
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
