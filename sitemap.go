package site

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arshadyaseen/site/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// staticRoutes are the pages listed in the sitemap besides posts.
var staticRoutes = []string{"", "blog", "monacopilot"}

func (a *App) renderSitemap(c echo.Context, posts []views.Post) error {
	base := a.Config.URL
	latest := ""
	if len(posts) > 0 {
		latest = posts[0].PublishedAt
	}
	urls := make([]sitemapURL, 0, len(staticRoutes)+len(posts))
	for _, route := range staticRoutes {
		urls = append(urls, sitemapURL{Loc: views.BuildURL(base, route), LastMod: latest})
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     views.BuildURL(base, "blog", p.Slug),
			LastMod: p.PublishedAt,
		})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
