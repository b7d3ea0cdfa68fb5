// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discovery asks a web-search-capable model, the OpenAlex author
// index, or a local file for the people working at an institution. The
// returned text is untrusted and is always filtered by the finder before
// use.
package discovery

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"text/template"
	"time"

	"github.com/wevbarker/sauron/internal/finder"
	"github.com/wevbarker/sauron/pkg/types"
)

// promptTmpl asks for bare names, one per line.
var promptTmpl = template.Must(template.New("discovery").Parse(`Find the faculty, researchers, and postdocs affiliated with {{.Institution}}.

Search the institution's official website and extract ONLY the names of researchers.
Return a clean list with one name per line in the format: FirstName LastName
Do not include titles (Dr., Prof., etc.), positions, or any other text.
Focus on researchers who might work in physics, cosmology, astrophysics, or related theoretical fields.
`))

// RenderPrompt executes the discovery prompt for institution.
func RenderPrompt(institution string) (string, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, struct{ Institution string }{Institution: institution}); err != nil {
		return "", fmt.Errorf("rendering discovery prompt: %w", err)
	}
	return buf.String(), nil
}

// New returns the Source selected by cfg. apiKey is ignored by the file
// backend, whose names file must already exist. A nil client gets one
// bounded by cfg.Timeout.
func New(ctx context.Context, cfg types.DiscoveryConfig, apiKey string, client *http.Client) (finder.Source, error) {
	model := cfg.Model
	if model == "" {
		model = types.DefaultModel(cfg.Backend)
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout + 10*time.Second}
	}

	switch cfg.Backend {
	case types.DiscoveryOpenAI, "":
		return &OpenAIBackend{APIKey: apiKey, Model: model, Client: client, Timeout: cfg.Timeout}, nil
	case types.DiscoveryAnthropic:
		return &AnthropicBackend{APIKey: apiKey, Model: model, Client: client, Timeout: cfg.Timeout}, nil
	case types.DiscoveryGemini:
		g, err := NewGeminiBackend(ctx, apiKey, model, client, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return g, nil
	case types.DiscoveryOpenAlex:
		return &OpenAlexSource{Client: client, Email: cfg.Email, Timeout: cfg.Timeout}, nil
	case types.DiscoveryFile:
		if cfg.NamesFile == "" {
			return nil, fmt.Errorf("file discovery needs a names file")
		}
		if cfg.NamesFile != "-" {
			if _, err := os.Stat(cfg.NamesFile); err != nil {
				return nil, fmt.Errorf("names file: %w", err)
			}
		}
		return &FileSource{Path: cfg.NamesFile}, nil
	}
	return nil, fmt.Errorf("unknown discovery backend %q (want openai, anthropic, gemini, openalex, or file)", cfg.Backend)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
