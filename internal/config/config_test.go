package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STORAGE_TYPE", "minio")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mongo", cfg.Server.Store)
	assert.Equal(t, "ieltsprep", cfg.Mongo.Database)
	assert.Equal(t, 72*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, ProviderGemini, cfg.AI.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Models.Writing)
	assert.NotEmpty(t, cfg.AI.BaseURL)
	assert.False(t, cfg.AI.IsEnabled())
	assert.Equal(t, "minio", cfg.Storage.Type)
}

func TestLoadConfig_EnvAndFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("server:\n  port: \"9090\"\nai:\n  provider: openai\n  models:\n    writing: gpt-4.1\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644))

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("STORAGE_TYPE", "minio")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, ProviderOpenAI, cfg.AI.Provider)
	assert.True(t, cfg.AI.IsEnabled())
	assert.Equal(t, "gpt-4.1", cfg.AI.Models.Writing)
	assert.Equal(t, "whisper-1", cfg.AI.Models.Transcribe)
	assert.Empty(t, cfg.AI.BaseURL)
}

func TestLoadConfig_ReleaseNeedsStrongSecret(t *testing.T) {
	t.Setenv("SERVER_MODE", "release")
	t.Setenv("STORAGE_TYPE", "minio")
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
