package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, ":3001", cfg.Server.Addr)
	assert.Equal(t, "2023-06-01", cfg.Server.AnthropicVersion)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 60*time.Second, cfg.Server.UpstreamTimeout)
	assert.Equal(t, ProviderRelay, cfg.LLM.Provider)
	assert.Equal(t, 20*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, StoreModeFile, cfg.Store.Mode)
	assert.Equal(t, 10*time.Second, cfg.Store.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Run("unknown provider", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.LLM.Provider = "openai"
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm.provider")
	})

	t.Run("relay without url", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.LLM.RelayURL = ""
		assert.ErrorContains(t, cfg.Validate(), "llm.relay_url")
	})

	t.Run("http store without url", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Store.Mode = StoreModeHTTP
		cfg.Store.URL = ""
		assert.ErrorContains(t, cfg.Validate(), "store.url")
	})

	t.Run("http store without timeout", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.Store.Mode = StoreModeHTTP
		cfg.Store.Timeout = 0
		assert.ErrorContains(t, cfg.Validate(), "store.timeout")
	})

	t.Run("errors are joined", func(t *testing.T) {
		cfg := NewDefaultConfig()
		cfg.LLM.Timeout = 0
		cfg.Server.RelayBurst = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm.timeout")
		assert.Contains(t, err.Error(), "server.relay_rps")
	})
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "actionplan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9000"
  session_dir: /tmp/sessions
llm:
  provider: claude
  timeout: 5s
`), 0o644))

	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("ACTIONPLAN_LOGGER_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "/tmp/sessions", cfg.Server.SessionDir)
	assert.Equal(t, ProviderClaude, cfg.LLM.Provider)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "sk-test", cfg.Anthropic.APIKey)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
