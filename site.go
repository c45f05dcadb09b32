// Package site serves Arshad Yaseen's personal website: the home page, the
// blog, the monacopilot playground, generated Open Graph images and the
// editor completion proxy. It is built with Echo and templ components.
package site

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arshadyaseen/site/content"
	"github.com/arshadyaseen/site/copilot"
	"github.com/arshadyaseen/site/internal/logger"
	"github.com/arshadyaseen/site/ogimage"
)

// ImageRenderer rasterizes a title into an encoded image.
type ImageRenderer interface {
	Render(ctx context.Context, title string, width, height int) ([]byte, error)
}

// App wires together the store, cache, collaborators, handlers and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Cache   *PostCache
	Copilot copilot.Provider
	Images  ImageRenderer

	limiter      *RateLimiter
	stopEvents   func()
	contentFS    fs.FS
	contentDir   string
	customRoutes []func(*App)
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store, imports posts, builds the collaborators that were
// not injected and registers middleware and routes. Start calls it; tests
// call it directly and drive a.Echo with httptest.
func (a *App) Init() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("site: SessionSecret is required")
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("site: init store: %w", err)
	}
	a.Store = store

	if err := a.importPosts(); err != nil {
		return err
	}
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)

	if a.Copilot == nil {
		a.Copilot = newProvider(a.Config)
	}
	if a.Images == nil {
		r, err := ogimage.New()
		if err != nil {
			return fmt.Errorf("site: init image renderer: %w", err)
		}
		a.Images = r
	}
	if a.Config.CopilotRateLimit > 0 {
		a.limiter = NewRateLimiter(a.Config.CopilotRateLimit, time.Minute)
	}
	a.stopEvents = LogCompletionEvents()

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until the server is shut down.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	return a.Serve()
}

// Serve listens on Config.Addr until the server is shut down. Init must have
// run.
func (a *App) Serve() error {
	logger.Log.Infof("listening on %s", a.Config.Addr)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Reload re-imports the markdown posts and drops the cached copy so the next
// request sees them.
func (a *App) Reload() error {
	if err := a.importPosts(); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return nil
}

// importPosts replaces the stored posts with the markdown posts on disk.
// A missing content directory leaves the store empty.
func (a *App) importPosts() error {
	fsys, dir := a.contentFS, a.contentDir
	if fsys == nil {
		fsys, dir = os.DirFS("."), a.Config.ContentDir
	}
	posts, err := content.LoadPosts(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.WarnWithFields("content directory not found, serving no posts", logger.Fields{"dir": dir})
			return a.Store.ReplaceAll(nil)
		}
		return fmt.Errorf("site: import posts: %w", err)
	}
	if err := a.Store.ReplaceAll(posts); err != nil {
		return fmt.Errorf("site: import posts: %w", err)
	}
	logger.Log.Infof("imported %d posts from %s", len(posts), dir)
	return nil
}

func newProvider(cfg SiteConfig) copilot.Provider {
	if cfg.CopilotProvider == "gemini" {
		return copilot.NewGemini(copilot.GeminiConfig{
			APIKey: cfg.CopilotAPIKey,
			Model:  cfg.CopilotModel,
		})
	}
	return copilot.NewGroq(copilot.GroqConfig{
		APIKey: cfg.CopilotAPIKey,
		Model:  cfg.CopilotModel,
	})
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/public/*", a.handleAsset)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/rss", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/blog", a.handleBlog)
	e.GET("/blog/:slug", a.handlePost)
	e.GET("/monacopilot", a.handleMonacopilot)
	e.POST("/theme", a.handleTheme)

	e.GET("/og", a.handleOG)

	api := e.Group("/api")
	if a.limiter != nil {
		api.Use(a.rateLimit)
	}
	api.POST("/copilot", a.handleCopilot)
}

// Close releases the store, the limiter and the event listeners.
func (a *App) Close() error {
	if a.stopEvents != nil {
		a.stopEvents()
	}
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
