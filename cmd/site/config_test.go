package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	site "github.com/arshadyaseen/site"
)

func TestLoadConfigYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`
name: From YAML
url: https://yaml.example
post_cache_ttl: 2m
copilot_provider: gemini
copilot_rate_limit: 3
`), 0o644))

	t.Chdir(dir)
	t.Setenv("SITE_CONFIG", yamlPath)
	t.Setenv("SITE_URL", "https://env.example")
	t.Setenv("COPILOT_PROVIDER", "")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("GROQ_API_KEY", "groq-key")
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "From YAML", cfg.Name)
	assert.Equal(t, "https://env.example", cfg.URL)
	assert.Equal(t, 2*time.Minute, cfg.PostCacheTTL)
	assert.Equal(t, "gemini", cfg.CopilotProvider)
	assert.Equal(t, "gem-key", cfg.CopilotAPIKey)
	assert.Equal(t, 3, cfg.CopilotRateLimit)
	assert.Equal(t, "secret", cfg.SessionSecret)
	assert.True(t, cfg.CookieSecure)
}

func TestLoadConfigWithoutFiles(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SITE_CONFIG", "")
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("GROQ_API_KEY", "groq-key")
	t.Setenv("COPILOT_PROVIDER", "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "groq-key", cfg.CopilotAPIKey)
	assert.NotEmpty(t, cfg.SessionSecret)
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\nGROQ_API_KEY=from-dotenv\n"), 0o644))
	t.Chdir(dir)
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))
	t.Setenv("GROQ_API_KEY", "from-shell")

	require.NoError(t, loadDotenv())
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
	assert.Equal(t, "from-shell", os.Getenv("GROQ_API_KEY"))
}

func TestLoadDotenvMissingFile(t *testing.T) {
	t.Chdir(t.TempDir())
	assert.NoError(t, loadDotenv())
}

func TestApplyEnvRejectsBadValues(t *testing.T) {
	t.Setenv("COPILOT_RATE_LIMIT", "lots")
	var cfg site.SiteConfig
	assert.Error(t, applyEnv(&cfg))
}

func TestPortSetsAddr(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("PORT", "8080")
	var cfg site.SiteConfig
	require.NoError(t, applyEnv(&cfg))
	assert.Equal(t, ":8080", cfg.Addr)
}
