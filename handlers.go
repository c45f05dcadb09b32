package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/arshadyaseen/site/internal/logger"
	"github.com/arshadyaseen/site/ogimage"
	"github.com/arshadyaseen/site/views"
)

// ErrInvalidJSON is returned when a completion request body is not JSON.
var ErrInvalidJSON = errors.New("site: request body is not valid JSON")

// defaultOGTitle is drawn when /og is requested without a title.
const defaultOGTitle = "Arshad Yaseen"

// maxCompletionBody bounds the completion request body.
const maxCompletionBody = 1 << 20

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Cache.ListPosts()
	if err != nil {
		return err
	}
	return Render(c, views.Home(a.Config.viewSite(), a.chrome(c), posts))
}

func (a *App) handleBlog(c echo.Context) error {
	posts, err := a.Cache.ListPosts()
	if err != nil {
		return err
	}
	return Render(c, views.BlogIndex(a.Config.viewSite(), a.chrome(c), posts))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Param("slug"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return RenderStatus(c, http.StatusNotFound, views.NotFound(a.Config.viewSite(), a.chrome(c)))
		}
		return err
	}
	return Render(c, views.PostDetail(a.Config.viewSite(), a.chrome(c), post))
}

func (a *App) handleMonacopilot(c echo.Context) error {
	return Render(c, views.Monacopilot(a.Config.viewSite(), a.chrome(c), "/api/copilot"))
}

// handleCopilot forwards the request body to the completion provider and
// answers with the provider's bytes unchanged. The provider call is detached
// from client cancellation; its own HTTP timeout bounds it.
func (a *App) handleCopilot(c echo.Context) error {
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxCompletionBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "completion request body too large")
		}
		return fmt.Errorf("site: read completion request: %w", err)
	}
	if !json.Valid(body) {
		return ErrInvalidJSON
	}
	ctx := context.WithoutCancel(c.Request().Context())
	resp, err := a.Copilot.Complete(ctx, body)
	if err != nil {
		return fmt.Errorf("site: completion: %w", err)
	}
	return c.JSONBlob(http.StatusOK, resp)
}

func (a *App) handleOG(c echo.Context) error {
	title := c.QueryParam("title")
	if title == "" {
		title = defaultOGTitle
	}
	img, err := a.Images.Render(c.Request().Context(), title, ogimage.Width, ogimage.Height)
	if err != nil {
		return fmt.Errorf("site: render og image: %w", err)
	}
	return c.Blob(http.StatusOK, "image/png", img)
}

func (a *App) handleTheme(c echo.Context) error {
	next := views.ThemeDark
	if themeFromSession(c) == views.ThemeDark {
		next = views.ThemeLight
	}
	if err := setThemeSession(c, next); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, safeRedirect(c.FormValue("redirect")))
}

// safeRedirect keeps theme redirects on this site.
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPosts()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPosts()
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\n\nSitemap: " + views.BuildURL(a.Config.URL, "sitemap.xml") + "\n"
	return c.String(http.StatusOK, body)
}

func (a *App) handleAsset(c echo.Context) error {
	assets, err := fs.Sub(EmbeddedAssets, "embedded")
	if err != nil {
		return err
	}
	name := c.Param("*")
	if _, err := fs.Stat(assets, name); err != nil {
		return echo.ErrNotFound
	}
	return echo.StaticFileHandler(name, assets)(c)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	isAPI := strings.HasPrefix(c.Request().URL.Path, "/api/")

	if code >= 500 {
		logger.ErrorWithFields("request failed", logger.Fields{
			"method": c.Request().Method,
			"path":   c.Request().URL.Path,
			"status": code,
			"error":  err.Error(),
		})
	}

	switch {
	case isAPI && code >= 500:
		_ = c.JSON(code, map[string]string{"message": http.StatusText(code)})
	case isAPI:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	case code == http.StatusNotFound:
		_ = RenderStatus(c, code, views.NotFound(a.Config.viewSite(), a.chrome(c)))
	case code >= 500:
		_ = RenderStatus(c, code, views.ServerError(a.Config.viewSite(), a.chrome(c)))
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
