package site

import (
	"io/fs"
	"time"

	"github.com/arshadyaseen/site/copilot"
	"github.com/arshadyaseen/site/views"
)

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name        string `yaml:"name"`        // Site name (default "Arshad Yaseen")
	URL         string `yaml:"url"`         // Canonical URL (default "http://localhost:3000")
	Description string `yaml:"description"` // Site description for RSS and meta tags
	Author      string `yaml:"author"`      // Author name for JSON-LD (default Name)
	Intro       string `yaml:"intro"`       // Home page paragraph
	Locale      string `yaml:"locale"`      // og:locale (default "en_US")

	Addr         string        `yaml:"addr"`           // Listen address (default ":3000")
	DatabasePath string        `yaml:"database_path"`  // SQLite path (default "data/site.db")
	ContentDir   string        `yaml:"content_dir"`    // Markdown posts directory (default "content/posts")
	PostCacheTTL time.Duration `yaml:"post_cache_ttl"` // Post cache TTL (default 5min)

	SessionSecret string `yaml:"-"`             // Required: cookie session secret
	CookieSecure  bool   `yaml:"cookie_secure"` // Set true for HTTPS

	AnalyticsScript     string `yaml:"analytics_script"`      // Analytics widget script, "off" disables it
	SpeedInsightsScript string `yaml:"speed_insights_script"` // Speed insights widget script, "off" disables it

	CopilotProvider  string `yaml:"copilot_provider"`   // "groq" (default) or "gemini"
	CopilotModel     string `yaml:"copilot_model"`      // Provider default when empty
	CopilotAPIKey    string `yaml:"-"`                  // GROQ_API_KEY or GEMINI_API_KEY
	CopilotRateLimit int    `yaml:"copilot_rate_limit"` // Requests per minute per IP, 0 disables
}

const (
	defaultName        = "Arshad Yaseen"
	defaultDescription = "Frontend engineer who does backend stuff too. Also into ML."
	defaultIntro       = "I'm a Frontend engineer who does backend stuff too. Also into ML."

	defaultAnalyticsScript     = "/_vercel/insights/script.js"
	defaultSpeedInsightsScript = "/_vercel/speed-insights/script.js"

	// WidgetDisabled turns off an instrumentation widget when used as its
	// script URL.
	WidgetDisabled = "off"
)

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = defaultName
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Description == "" {
		c.Description = defaultDescription
	}
	if c.Author == "" {
		c.Author = c.Name
	}
	if c.Intro == "" {
		c.Intro = defaultIntro
	}
	if c.Locale == "" {
		c.Locale = "en_US"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content/posts"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.CopilotProvider == "" {
		c.CopilotProvider = "groq"
	}
	if c.AnalyticsScript == "" {
		c.AnalyticsScript = defaultAnalyticsScript
	}
	if c.SpeedInsightsScript == "" {
		c.SpeedInsightsScript = defaultSpeedInsightsScript
	}
}

func widgetScript(script string) string {
	if script == WidgetDisabled {
		return ""
	}
	return script
}

// viewSite is the subset of the configuration templates see.
func (c SiteConfig) viewSite() views.SiteConfig {
	return views.SiteConfig{
		Name:                c.Name,
		URL:                 c.URL,
		Description:         c.Description,
		Author:              c.Author,
		Intro:               c.Intro,
		Locale:              c.Locale,
		AnalyticsScript:     widgetScript(c.AnalyticsScript),
		SpeedInsightsScript: widgetScript(c.SpeedInsightsScript),
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs during Init, after the built-in routes.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithContentFS reads posts from dir inside fsys instead of Config.ContentDir
// on disk.
func WithContentFS(fsys fs.FS, dir string) Option {
	return func(a *App) {
		a.contentFS = fsys
		a.contentDir = dir
	}
}

// WithCompletionProvider replaces the provider built from the copilot settings.
func WithCompletionProvider(p copilot.Provider) Option {
	return func(a *App) {
		a.Copilot = p
	}
}

// WithImageRenderer replaces the default Open Graph image renderer.
func WithImageRenderer(r ImageRenderer) Option {
	return func(a *App) {
		a.Images = r
	}
}
