package views

// SiteConfig holds the site-wide values templates need.
// Every handler passes this to templates so nothing is hardcoded.
type SiteConfig struct {
	Name        string // SITE_NAME  (default "Arshad Yaseen")
	URL         string // SITE_URL   (default "http://localhost:3000")
	Description string // SITE_DESCRIPTION
	Author      string // SITE_AUTHOR
	Intro       string // SITE_INTRO, the home page paragraph
	Locale      string // og:locale (default "en_US")

	AnalyticsScript     string // analytics widget script URL, empty disables it
	SpeedInsightsScript string // performance widget script URL, empty disables it
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string // rendered through the "%s | Name" template, empty uses the site name
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	OGImage     string
	PublishedAt string
	JSONLD      string
}

// Chrome is the per-request state the outer shell needs.
type Chrome struct {
	Path      string // request path, drives layout selection
	Theme     string // "light" or "dark"; only the decorated layout honors it
	CSRFToken string
}

// Post is a blog entry as supplied by the post source.
type Post struct {
	Title       string
	PublishedAt string // YYYY-MM-DD
	Summary     string
	Slug        string
	Body        string // markdown
	Link        string // /blog/{slug}
}
