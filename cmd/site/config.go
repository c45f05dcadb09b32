package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	site "github.com/arshadyaseen/site"
	"github.com/arshadyaseen/site/internal/logger"
)

const (
	envFile    = ".env"
	configFile = "site.yaml"
)

// loadDotenv copies .env into the process environment. Variables already
// set win. A missing file is not an error.
func loadDotenv() error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}
	return nil
}

// loadConfig reads the optional YAML file, then applies environment
// overrides. Secrets only come from the environment.
func loadConfig() (site.SiteConfig, error) {
	var cfg site.SiteConfig
	path := site.EnvOr("SITE_CONFIG", configFile)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return site.SiteConfig{}, fmt.Errorf("parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return site.SiteConfig{}, fmt.Errorf("read %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return site.SiteConfig{}, err
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = uuid.NewString()
		logger.Log.Warn("SESSION_SECRET is not set, theme preferences will reset on restart")
	}
	if cfg.CopilotAPIKey == "" {
		logger.Log.Warn("no completion API key set, /api/copilot will fail")
	}
	return cfg, nil
}

func applyEnv(cfg *site.SiteConfig) error {
	cfg.Name = site.EnvOr("SITE_NAME", cfg.Name)
	cfg.URL = site.EnvOr("SITE_URL", cfg.URL)
	cfg.Description = site.EnvOr("SITE_DESCRIPTION", cfg.Description)
	cfg.Author = site.EnvOr("SITE_AUTHOR", cfg.Author)
	cfg.Intro = site.EnvOr("SITE_INTRO", cfg.Intro)
	cfg.Addr = site.EnvOr("ADDR", cfg.Addr)
	if port := os.Getenv("PORT"); port != "" && os.Getenv("ADDR") == "" {
		cfg.Addr = ":" + port
	}
	cfg.DatabasePath = site.EnvOr("DATABASE_PATH", cfg.DatabasePath)
	cfg.ContentDir = site.EnvOr("CONTENT_DIR", cfg.ContentDir)
	cfg.SessionSecret = site.EnvOr("SESSION_SECRET", cfg.SessionSecret)
	cfg.AnalyticsScript = site.EnvOr("ANALYTICS_SCRIPT", cfg.AnalyticsScript)
	cfg.SpeedInsightsScript = site.EnvOr("SPEED_INSIGHTS_SCRIPT", cfg.SpeedInsightsScript)
	cfg.CopilotProvider = site.EnvOr("COPILOT_PROVIDER", cfg.CopilotProvider)
	cfg.CopilotModel = site.EnvOr("COPILOT_MODEL", cfg.CopilotModel)

	if cfg.CopilotProvider == "gemini" {
		cfg.CopilotAPIKey = os.Getenv("GEMINI_API_KEY")
	} else {
		cfg.CopilotAPIKey = os.Getenv("GROQ_API_KEY")
	}

	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("COOKIE_SECURE: %w", err)
		}
		cfg.CookieSecure = b
	}
	if v := os.Getenv("COPILOT_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("COPILOT_RATE_LIMIT: %w", err)
		}
		cfg.CopilotRateLimit = n
	}
	if v := os.Getenv("POST_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("POST_CACHE_TTL: %w", err)
		}
		cfg.PostCacheTTL = d
	}
	return nil
}
