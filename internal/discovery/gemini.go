// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiBaseURL overrides the Gemini API endpoint when non-empty. Package-level var for test substitution.
var geminiBaseURL = ""

// GeminiBackend asks a Gemini model grounded with Google Search.
type GeminiBackend struct {
	Model   string
	Timeout time.Duration

	client *genai.Client
}

// NewGeminiBackend creates a Gemini API client for apiKey.
func NewGeminiBackend(ctx context.Context, apiKey, model string, httpClient *http.Client, timeout time.Duration) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini discovery needs an API key")
	}
	cfg := &genai.ClientConfig{
		Backend:    genai.BackendGeminiAPI,
		APIKey:     apiKey,
		HTTPClient: httpClient,
	}
	if geminiBaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: geminiBaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiBackend{Model: model, Timeout: timeout, client: client}, nil
}

func (g *GeminiBackend) Name() string { return "gemini" }

// FindCandidateNames sends the discovery prompt with search grounding and
// returns the concatenated text of the first candidate.
func (g *GeminiBackend) FindCandidateNames(ctx context.Context, institution string) (string, error) {
	prompt, err := RenderPrompt(institution)
	if err != nil {
		return "", err
	}

	ctx, cancel := withTimeout(ctx, g.Timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx, g.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return "", fmt.Errorf("calling gemini API: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini API returned no text")
	}
	return text, nil
}
