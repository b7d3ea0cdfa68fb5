// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/wevbarker/sauron/internal/httputil"
)

// openAIURL is the Chat Completions endpoint. Package-level var for test substitution.
var openAIURL = "https://api.openai.com/v1/chat/completions"

const openAIService = "OpenAI API"

// OpenAIBackend uses a search-enabled chat model to list names.
type OpenAIBackend struct {
	APIKey  string
	Model   string
	Client  *http.Client
	Timeout time.Duration
}

type openAIRequest struct {
	Model            string          `json:"model"`
	Messages         []openAIMessage `json:"messages"`
	WebSearchOptions struct{}        `json:"web_search_options"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *OpenAIBackend) Name() string { return "openai" }

// FindCandidateNames sends the discovery prompt and returns the first
// choice's text.
func (o *OpenAIBackend) FindCandidateNames(ctx context.Context, institution string) (string, error) {
	prompt, err := RenderPrompt(institution)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(openAIRequest{
		Model:    o.Model,
		Messages: []openAIMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	ctx, cancel := withTimeout(ctx, o.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.APIKey)

	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", openAIService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", httputil.ReadError(openAIService, resp)
	}

	var oResp openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&oResp); err != nil {
		return "", &httputil.DecodeError{Service: openAIService, Err: err}
	}
	if len(oResp.Choices) == 0 || oResp.Choices[0].Message == nil || oResp.Choices[0].Message.Content == nil {
		return "", &httputil.DecodeError{Service: openAIService, Err: fmt.Errorf("no message content")}
	}
	return *oResp.Choices[0].Message.Content, nil
}
