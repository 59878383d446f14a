package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "GEMINI_API_KEY", cfg.LLM.APIKeyEnv)
	assert.Equal(t, 600, cfg.Chunker.ChunkSize)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, SamplingConfig{MaxTokens: 1700, Temperature: 0.3}, cfg.Generation.Document)
	assert.Equal(t, SamplingConfig{MaxTokens: 400, Temperature: 0.4}, cfg.Generation.General)
	assert.Equal(t, SamplingConfig{MaxTokens: 500, Temperature: 0.3}, cfg.Generation.Summary)
	assert.Equal(t, 12000, cfg.Generation.SummaryMaxInputChars)
	assert.Equal(t, time.Hour, cfg.Session.TTL())
	assert.Equal(t, time.Minute, cfg.LLM.Timeout())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileKeepsValues(t *testing.T) {
	path := writeFile(t, `
llm:
  provider: openai
  base_url: http://localhost:11434/v1
  model: llama3
chunker:
  chunk_size: 200
generation:
  general:
    max_tokens: 100
    temperature: 0
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "OPENAI_API_KEY", cfg.LLM.APIKeyEnv)
	assert.Equal(t, "llama3", cfg.LLM.Model)
	assert.Equal(t, 200, cfg.Chunker.ChunkSize)
	assert.Equal(t, SamplingConfig{MaxTokens: 100, Temperature: 0}, cfg.Generation.General)
	assert.Equal(t, 1700, cfg.Generation.Document.MaxTokens)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown provider", "llm:\n  provider: bard\n"},
		{"negative top k", "retrieval:\n  top_k: -1\n"},
		{"bad base url", "llm:\n  base_url: not a url\n"},
		{"malformed yaml", "llm: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestResolve_ExplicitPathMustExist(t *testing.T) {
	_, _, err := Resolve(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	path := writeFile(t, "retrieval:\n  top_k: 5\n")
	cfg, used, err := Resolve(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, Save(path, defaultConfig()))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}
