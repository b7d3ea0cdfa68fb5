// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wevbarker/sauron/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, OpenAIKey, "  sk-abc123  \n")
				writeFile(t, dir, GoogleKey, "AIzaXYZ\n")
				return dir
			},
			want: map[string]string{
				OpenAIKey: "sk-abc123",
				GoogleKey: "AIzaXYZ",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, AnthropicKey, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{AnthropicKey: "valid-key"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, OpenAIKey, "sk-real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{OpenAIKey: "sk-real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t), zerolog.Nop())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestLookup(t *testing.T) {
	env := map[string]string{
		"OPENAI_API_KEY": "sk-env",
		"GEMINI_API_KEY": "gem-env",
	}
	getenv := func(k string) string { return env[k] }

	assert.Equal(t, "sk-file", Lookup(map[string]string{OpenAIKey: "sk-file"}, OpenAIKey, getenv))
	assert.Equal(t, "sk-env", Lookup(nil, OpenAIKey, getenv))
	assert.Equal(t, "gem-env", Lookup(nil, GoogleKey, getenv), "GEMINI_API_KEY is the second fallback")
	assert.Equal(t, "", Lookup(nil, AnthropicKey, getenv))

	env["GOOGLE_API_KEY"] = "google-env"
	assert.Equal(t, "google-env", Lookup(nil, GoogleKey, getenv))
}

func TestResolve(t *testing.T) {
	getenv := func(string) string { return "" }

	key, err := Resolve(types.DiscoveryOpenAI, "explicit", nil, getenv)
	require.NoError(t, err)
	assert.Equal(t, "explicit", key)

	key, err = Resolve(types.DiscoveryAnthropic, "", map[string]string{AnthropicKey: "ak"}, getenv)
	require.NoError(t, err)
	assert.Equal(t, "ak", key)

	key, err = Resolve(types.DiscoveryFile, "", nil, getenv)
	require.NoError(t, err)
	assert.Empty(t, key)

	_, err = Resolve(types.DiscoveryGemini, "", nil, getenv)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google-api-key")
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY or GEMINI_API_KEY")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
