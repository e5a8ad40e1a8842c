package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.LLM.Model)
	assert.True(t, cfg.DemoSeed)
	assert.Equal(t, "en", cfg.Language)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kagami.yaml")
	body := []byte("storage:\n  backend: memory\nlanguage: ja\ndemo_seed: false\n")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "ja", cfg.Language)
	assert.False(t, cfg.DemoSeed)
	// Untouched keys keep their defaults.
	assert.Equal(t, "claude-3-5-haiku-latest", cfg.LLM.Model)
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kagami.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage: [oops"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverridesAPIKeys(t *testing.T) {
	t.Setenv("KAGAMI_API_KEY", "key-from-env")
	t.Setenv("ELEVENLABS_API_KEY", "eleven-from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "key-from-env", cfg.LLM.APIKey)
	assert.Equal(t, "eleven-from-env", cfg.TTS.ElevenLabsKey)
}

func TestAnthropicEnvIsFallbackOnly(t *testing.T) {
	t.Setenv("KAGAMI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-env")

	path := filepath.Join(t.TempDir(), "kagami.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm:\n  api_key: from-file\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.LLM.APIKey)
}
