// Package agent holds the Gemini-backed implementations of the intent
// classifier and the narrative generator. Both are thin, constrained
// wrappers: the model is never used as a calculator and never touches
// portfolio data directly.
package agent

import (
	"context"
	"fmt"
	"os"
	"time"

	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// defaultTimeout bounds every call to the backend. On timeout the caller
// gets an ExternalServiceError, never an indefinite stall.
const defaultTimeout = 20 * time.Second

// Client wraps the Gemini client shared by the classifier and narrator.
type Client struct {
	genai   *genai.Client
	timeout time.Duration
}

// Available reports whether a backend credential is configured. Callers
// use it to degrade to deterministic-only behavior instead of crashing.
func Available() bool {
	return os.Getenv("GEMINI_API_KEY") != "" || os.Getenv("GOOGLE_API_KEY") != ""
}

// NewClient initializes the Gemini client from the ambient credential.
func NewClient(ctx context.Context) (*Client, error) {
	c, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("initializing Gemini client: %w", err)
	}
	return &Client{genai: c, timeout: defaultTimeout}, nil
}

// generate sends one prompt and returns the first text part. It retries
// once on failure, then gives up: the resolver must never loop on a dead
// backend.
func (c *Client) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.genai.Models.GenerateContent(callCtx, model, genai.Text(prompt), config)
		cancel()
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
			lastErr = fmt.Errorf("empty response")
			continue
		}
		return resp.Candidates[0].Content.Parts[0].Text, nil
	}
	return "", lastErr
}
