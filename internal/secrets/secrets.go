// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves discovery API keys from a directory of plain-text
// files and the environment. Each file in the directory is one secret: the
// filename is the key name and the trimmed contents are the value.
//
// Recognized key files: openai-api-key, anthropic-api-key, google-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wevbarker/sauron/pkg/types"
)

// Key file names.
const (
	OpenAIKey    = "openai-api-key"
	AnthropicKey = "anthropic-api-key"
	GoogleKey    = "google-api-key"
)

// envFallbacks lists the environment variables consulted, in order, when a
// key file is absent.
var envFallbacks = map[string][]string{
	OpenAIKey:    {"OPENAI_API_KEY"},
	AnthropicKey: {"ANTHROPIC_API_KEY"},
	GoogleKey:    {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
}

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error. Unreadable files are logged
// and skipped.
func Load(dir string, logger zerolog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			out[name] = value
		}
	}
	return out, nil
}

// Lookup returns the value for key from loaded, falling back to the key's
// environment variables. getenv is os.Getenv outside tests.
func Lookup(loaded map[string]string, key string, getenv func(string) string) string {
	if v := loaded[key]; v != "" {
		return v
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	for _, env := range envFallbacks[key] {
		if v := strings.TrimSpace(getenv(env)); v != "" {
			return v
		}
	}
	return ""
}

// KeyFor names the secret a discovery backend needs. The file backend needs
// none and returns "".
func KeyFor(b types.DiscoveryBackend) string {
	switch b {
	case types.DiscoveryOpenAI:
		return OpenAIKey
	case types.DiscoveryAnthropic:
		return AnthropicKey
	case types.DiscoveryGemini:
		return GoogleKey
	}
	return ""
}

// Resolve returns the API key for backend b. An explicit key wins, then the
// secrets directory, then the environment. A backend that needs a key and
// has none is an error naming both places to put it.
func Resolve(b types.DiscoveryBackend, explicit string, loaded map[string]string, getenv func(string) string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	key := KeyFor(b)
	if key == "" {
		return "", nil
	}
	if v := Lookup(loaded, key, getenv); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("no API key for %s discovery: write .secrets/%s or set %s",
		b, key, strings.Join(envFallbacks[key], " or "))
}
