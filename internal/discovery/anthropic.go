// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wevbarker/sauron/internal/httputil"
)

// anthropicURL is the Messages API endpoint. Package-level var for test substitution.
var anthropicURL = "https://api.anthropic.com/v1/messages"

const (
	anthropicService   = "Anthropic API"
	anthropicVersion   = "2023-06-01"
	anthropicMaxTokens = 4096
	webSearchMaxUses   = 5
)

// AnthropicBackend asks a Claude model with the server-side web search
// tool enabled.
type AnthropicBackend struct {
	APIKey  string
	Model   string
	Client  *http.Client
	Timeout time.Duration
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
	Tools     []anthropicTool    `json:"tools,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicTool struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	MaxUses int    `json:"max_uses,omitempty"`
}

type anthropicResponse struct {
	Content []struct {
		Type string  `json:"type"`
		Text *string `json:"text"`
	} `json:"content"`
}

func (a *AnthropicBackend) Name() string { return "anthropic" }

// FindCandidateNames sends the discovery prompt and joins every text block
// of the reply. Search results are interleaved with text blocks, so the
// names can be split across several of them.
func (a *AnthropicBackend) FindCandidateNames(ctx context.Context, institution string) (string, error) {
	prompt, err := RenderPrompt(institution)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     a.Model,
		MaxTokens: anthropicMaxTokens,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
		Tools: []anthropicTool{{
			Type:    "web_search_20250305",
			Name:    "web_search",
			MaxUses: webSearchMaxUses,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	ctx, cancel := withTimeout(ctx, a.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	client := a.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", anthropicService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", httputil.ReadError(anthropicService, resp)
	}

	var aResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&aResp); err != nil {
		return "", &httputil.DecodeError{Service: anthropicService, Err: err}
	}

	var parts []string
	for _, block := range aResp.Content {
		if block.Type == "text" && block.Text != nil {
			parts = append(parts, *block.Text)
		}
	}
	if len(parts) == 0 {
		return "", &httputil.DecodeError{Service: anthropicService, Err: fmt.Errorf("no text content")}
	}
	return strings.Join(parts, "\n"), nil
}
