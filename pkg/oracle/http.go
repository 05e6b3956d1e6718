/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: http.go
Description: Chat-completions oracle. Sends the analysis prompt to an
OpenAI-compatible endpoint under a fixed system instruction demanding a
complete C parser with "FieldName: value" output, then strips the
markdown fences models wrap around code. Any reachable endpoint speaking
the chat-completions shape works, local or hosted.
*/

package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini"
	requestTimeout = 90 * time.Second
)

// systemPrompt pins the oracle's output contract: a complete program,
// header fields printed one per line, no prose around the code.
const systemPrompt = `You are a C expert.
Your task is to write a COMPLETE C program that parses the given binary file format.

Requirements:
1. Define the necessary structs to read the file header.
2. Implement a 'main' function that:
   - Accepts a filename as a command line argument.
   - Opens the file in binary mode.
   - Reads the header.
   - Prints ALL fields found in the header to stdout in the format:
     FieldName: <value>

Output ONLY valid C code. No markdown, no explanations.`

// HTTPOracle queries an OpenAI-compatible chat-completions endpoint
type HTTPOracle struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *logrus.Logger
}

// NewHTTPOracle creates an oracle against baseURL using apiKey and
// model. Empty baseURL and model fall back to the hosted defaults.
func NewHTTPOracle(baseURL, apiKey, model string, logger *logrus.Logger) *HTTPOracle {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &HTTPOracle{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// Name identifies the oracle by its model
func (o *HTTPOracle) Name() string {
	return o.model
}

// ProposeParser sends the prompt under the fixed system instruction and
// returns the model's code with any markdown fences removed.
func (o *HTTPOracle) ProposeParser(ctx context.Context, prompt string) (string, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type reqBody struct {
		Model       string  `json:"model"`
		Messages    []msg   `json:"messages"`
		Temperature float64 `json:"temperature"`
	}

	body := reqBody{
		Model: o.model,
		Messages: []msg{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.2,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal oracle request: %w", err)
	}

	url := strings.TrimRight(o.baseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to build oracle request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	o.logger.WithFields(logrus.Fields{
		"model":  o.model,
		"prompt": len(prompt),
	}).Debug("Querying oracle")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("oracle request failed: %w", err)
	}
	defer resp.Body.Close()

	respRaw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read oracle response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("oracle http %d: %s", resp.StatusCode, string(respRaw))
	}

	type choice struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	type respBody struct {
		Choices []choice `json:"choices"`
	}
	var decoded respBody
	if err := json.Unmarshal(respRaw, &decoded); err != nil {
		return "", fmt.Errorf("failed to unmarshal oracle response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("oracle response missing choices")
	}

	return StripCodeFences(decoded.Choices[0].Message.Content), nil
}
