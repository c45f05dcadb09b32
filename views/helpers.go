package views

import (
	"encoding/json"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// BuildURL joins path segments onto a base URL. Unlike a directory listing,
// site routes carry no trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// OGImageURL returns the absolute URL of the generated Open Graph image for title.
func OGImageURL(base, title string) string {
	return BuildURL(base, "og") + "?title=" + url.QueryEscape(title)
}

// PostPath is the detail route for a post slug.
func PostPath(slug string) string {
	return "/blog/" + url.PathEscape(slug)
}

// FormatDate renders a YYYY-MM-DD date as "January 2, 2006".
// Unparseable input is returned unchanged.
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("January 2, 2006")
}

// PageTitle applies the "%s | Site" title template.
func PageTitle(site SiteConfig, title string) string {
	if title == "" || title == site.Name {
		return site.Name
	}
	return title + " | " + site.Name
}

// headMeta is PageMeta with the site-level fallbacks applied.
type headMeta struct {
	PageMeta
	OGTitle string
}

func (m PageMeta) resolve(site SiteConfig) headMeta {
	if m.Description == "" {
		m.Description = site.Description
	}
	if m.URL == "" {
		m.URL = BuildURL(site.URL)
	}
	if m.OGType == "" {
		m.OGType = "website"
	}
	ogTitle := m.Title
	if ogTitle == "" {
		ogTitle = site.Name
	}
	return headMeta{PageMeta: m, OGTitle: ogTitle}
}

func homeMeta(site SiteConfig) PageMeta {
	return PageMeta{
		URL:     BuildURL(site.URL),
		OGImage: OGImageURL(site.URL, site.Name),
		JSONLD:  WebsiteJsonLD(site),
	}
}

func blogMeta(site SiteConfig) PageMeta {
	return PageMeta{
		Title:       "Blog",
		Description: site.Name + "'s blog posts.",
		URL:         BuildURL(site.URL, "blog"),
		OGImage:     OGImageURL(site.URL, "Blog"),
	}
}

func postMeta(site SiteConfig, post Post) PageMeta {
	return PageMeta{
		Title:       post.Title,
		Description: post.Summary,
		URL:         BuildURL(site.URL, "blog", post.Slug),
		OGType:      "article",
		OGImage:     OGImageURL(site.URL, post.Title),
		PublishedAt: post.PublishedAt,
		JSONLD:      BlogPostingJsonLD(site, post),
	}
}

func monacopilotMeta(site SiteConfig) PageMeta {
	return PageMeta{
		Title:       "Monacopilot",
		Description: "AI-autocompletion plugin for monaco editor",
		URL:         BuildURL(site.URL, "monacopilot"),
		OGImage:     OGImageURL(site.URL, "Monacopilot"),
	}
}

// jsonLD emits an encoded JSON-LD block. The encoder escapes <, > and &, so
// the data cannot close the script element.
func jsonLD(data string) templ.Component {
	return templ.Raw(`<script type="application/ld+json">` + data + `</script>`)
}

// WebsiteJsonLD produces a Schema.org WebSite JSON-LD block using cfg values.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     cfg.Name,
		"url":      BuildURL(cfg.URL),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return marshalJSONLD(data)
}

// BlogPostingJsonLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJsonLD(cfg SiteConfig, post Post) string {
	postURL := BuildURL(cfg.URL, "blog", post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Summary,
		"datePublished": post.PublishedAt,
		"dateModified":  post.PublishedAt,
		"url":           postURL,
		"image":         OGImageURL(cfg.URL, post.Title),
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return marshalJSONLD(data)
}

func marshalJSONLD(data map[string]interface{}) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return strings.TrimSpace(string(b))
}
