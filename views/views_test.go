package views

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSite = SiteConfig{
	Name:                "Arshad Yaseen",
	URL:                 "https://example.com",
	Description:         "Frontend engineer who does backend stuff too. Also into ML.",
	Author:              "Arshad Yaseen",
	Intro:               "I'm a Frontend engineer who does backend stuff too. Also into ML.",
	Locale:              "en_US",
	AnalyticsScript:     "/_vercel/insights/script.js",
	SpeedInsightsScript: "/_vercel/speed-insights/script.js",
}

func renderDoc(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(buf.String()))
	require.NoError(t, err)
	return doc
}

func makePosts(n int) []Post {
	posts := make([]Post, n)
	for i := range posts {
		slug := fmt.Sprintf("post-%d", i)
		posts[i] = Post{
			Title:       fmt.Sprintf("Title %d", i),
			Summary:     fmt.Sprintf("Summary %d", i),
			Slug:        slug,
			PublishedAt: fmt.Sprintf("2024-01-%02d", 28-i),
			Link:        PostPath(slug),
		}
	}
	return posts
}

func TestSelectLayout(t *testing.T) {
	tests := []struct {
		path string
		want Layout
	}{
		{"/", LayoutDecorated},
		{"/blog", LayoutDecorated},
		{"/blog/", LayoutBare},
		{"/blog/hello-world", LayoutBare},
		{"/monacopilot", LayoutBare},
		{"/og", LayoutBare},
		{"", LayoutBare},
		{"/BLOG", LayoutBare},
		{"/blogs", LayoutBare},
		{"/api/copilot", LayoutBare},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectLayout(tt.path))
		})
	}
}

func TestLayoutString(t *testing.T) {
	assert.Equal(t, "bare", LayoutBare.String())
	assert.Equal(t, "decorated", LayoutDecorated.String())
}

func TestContainerDecoratedHasChrome(t *testing.T) {
	for _, path := range []string{"/", "/blog"} {
		doc := renderDoc(t, Container(testSite, Chrome{Path: path}, templ.Raw("<p id=child>hi</p>")))
		main := doc.Find("main")
		assert.Equal(t, "decorated", main.AttrOr("data-layout", ""), path)
		assert.Equal(t, 1, main.Find("nav").Length(), path)
		assert.Equal(t, 1, main.Find("footer").Length(), path)
		assert.Equal(t, 1, main.Find(`script[data-widget="analytics"]`).Length(), path)
		assert.Equal(t, 1, main.Find(`script[data-widget="speed-insights"]`).Length(), path)
		assert.Equal(t, 1, main.Find("#child").Length(), path)
	}
}

func TestContainerBareHasNoChrome(t *testing.T) {
	doc := renderDoc(t, Container(testSite, Chrome{Path: "/blog/x"}, templ.Raw("<p id=child>hi</p>")))
	main := doc.Find("main")
	assert.Equal(t, "bare", main.AttrOr("data-layout", ""))
	assert.Equal(t, 0, main.Find("nav").Length())
	assert.Equal(t, 0, main.Find("footer").Length())
	assert.Equal(t, 0, main.Find("script").Length())
	assert.Equal(t, 1, main.Find("#child").Length())
}

func TestDecoratedOmitsDisabledWidgets(t *testing.T) {
	site := testSite
	site.AnalyticsScript = ""
	site.SpeedInsightsScript = ""
	doc := renderDoc(t, Container(site, Chrome{Path: "/"}, nil))
	assert.Equal(t, 0, doc.Find("script[data-widget]").Length())
}

func TestDecoratedTheme(t *testing.T) {
	doc := renderDoc(t, Container(testSite, Chrome{Path: "/", Theme: ThemeDark}, nil))
	assert.Equal(t, "dark", doc.Find("main").AttrOr("data-theme", ""))

	doc = renderDoc(t, Container(testSite, Chrome{Path: "/", Theme: "neon"}, nil))
	assert.Equal(t, "light", doc.Find("main").AttrOr("data-theme", ""))
}

func TestNavbarMarksActiveLink(t *testing.T) {
	doc := renderDoc(t, Navbar(Chrome{Path: "/blog", CSRFToken: "tok"}))
	active := doc.Find("a.nav-link-active")
	require.Equal(t, 1, active.Length())
	assert.Equal(t, "/blog", active.AttrOr("href", ""))
	assert.Equal(t, "tok", doc.Find(`input[name="_csrf"]`).AttrOr("value", ""))
}

func TestNavbarEscapesAttributes(t *testing.T) {
	doc := renderDoc(t, Navbar(Chrome{Path: `/x"><script>`, CSRFToken: `a"b`}))
	assert.Equal(t, `a"b`, doc.Find(`input[name="_csrf"]`).AttrOr("value", ""))
	assert.Equal(t, `/x"><script>`, doc.Find(`input[name="redirect"]`).AttrOr("value", ""))
	assert.Equal(t, 0, doc.Find("script").Length())
}

func TestDocumentShell(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NotFound(testSite, Chrome{Path: "/missing"}).Render(context.Background(), &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "<!doctype html>"))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Not Found | Arshad Yaseen", doc.Find("title").Text())
	assert.Equal(t, "https://example.com/", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
	assert.Equal(t, "website", doc.Find(`meta[property="og:type"]`).AttrOr("content", ""))
	assert.Equal(t, 0, doc.Find(`meta[property="og:image"]`).Length())
	assert.Equal(t, "404 - Page Not Found", doc.Find("h1.page-title").Text())
}

func TestPostListPreservesOrderAndCount(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		posts := makePosts(n)
		// Reverse so the input is not in date order; the list must not re-sort.
		for i, j := 0, len(posts)-1; i < j; i, j = i+1, j-1 {
			posts[i], posts[j] = posts[j], posts[i]
		}
		doc := renderDoc(t, PostList(posts))
		items := doc.Find("ul.post-list > li")
		require.Equal(t, n, items.Length())
		items.Each(func(i int, s *goquery.Selection) {
			assert.Equal(t, posts[i].Title, s.Find(".post-title").Text())
			assert.Equal(t, posts[i].Summary, s.Find(".post-summary").Text())
			assert.Equal(t, "/blog/"+posts[i].Slug, s.Find("a").AttrOr("href", ""))
		})
	}
}

func TestPostListEscapesContent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PostList([]Post{{Title: "<b>x</b>", Slug: "a b"}}).Render(context.Background(), &buf))
	assert.NotContains(t, buf.String(), "<b>x</b>")
	assert.Contains(t, buf.String(), `href="/blog/a%20b"`)
}

func TestHomePage(t *testing.T) {
	doc := renderDoc(t, Home(testSite, Chrome{Path: "/"}, makePosts(2)))
	assert.Equal(t, "Arshad Yaseen", doc.Find("title").Text())
	assert.Equal(t, "Arshad Yaseen", doc.Find("h1").First().Text())
	assert.Contains(t, doc.Find("p.intro").Text(), "Frontend engineer")
	assert.Equal(t, 2, doc.Find("li.post-item").Length())
	assert.Equal(t, "decorated", doc.Find("main").AttrOr("data-layout", ""))
	assert.Equal(t, "en_US", doc.Find(`meta[property="og:locale"]`).AttrOr("content", ""))
	assert.Contains(t, doc.Find(`meta[name="googlebot"]`).AttrOr("content", ""), "max-image-preview:large")
}

func TestBlogIndexEmpty(t *testing.T) {
	doc := renderDoc(t, BlogIndex(testSite, Chrome{Path: "/blog"}, nil))
	assert.Equal(t, "Blog | Arshad Yaseen", doc.Find("title").Text())
	assert.Equal(t, "Arshad Yaseen's blog posts.", doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	assert.Equal(t, 1, doc.Find("ul.post-list").Length())
	assert.Equal(t, 0, doc.Find("ul.post-list li").Length())
}

func TestPostDetail(t *testing.T) {
	post := Post{Title: "Hello World", Slug: "hello-world", PublishedAt: "2024-04-09", Summary: "hi", Body: "Some **bold** text."}
	doc := renderDoc(t, PostDetail(testSite, Chrome{Path: "/blog/hello-world"}, post))
	assert.Equal(t, "Hello World | Arshad Yaseen", doc.Find("title").Text())
	assert.Equal(t, "bold", doc.Find(".prose strong").Text())
	assert.Equal(t, "April 9, 2024", doc.Find(".post-date time").Text())
	assert.Equal(t, "article", doc.Find(`meta[property="og:type"]`).AttrOr("content", ""))
	assert.Equal(t, "https://example.com/og?title=Hello+World", doc.Find(`meta[property="og:image"]`).AttrOr("content", ""))
	assert.Equal(t, "bare", doc.Find("main").AttrOr("data-layout", ""))
	assert.Contains(t, doc.Find(`script[type="application/ld+json"]`).Text(), `"BlogPosting"`)
}

func TestMonacopilotPage(t *testing.T) {
	doc := renderDoc(t, Monacopilot(testSite, Chrome{Path: "/monacopilot"}, "/api/copilot"))
	assert.Equal(t, "Monacopilot | Arshad Yaseen", doc.Find("title").Text())
	assert.Equal(t, "/api/copilot", doc.Find("#editor").AttrOr("data-endpoint", ""))
	assert.Equal(t, "bare", doc.Find("main").AttrOr("data-layout", ""))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "https://example.com/", BuildURL("https://example.com"))
	assert.Equal(t, "https://example.com/blog/x", BuildURL("https://example.com", "blog", "x"))
	assert.Equal(t, "https://example.com/og?title=A+%26+B", OGImageURL("https://example.com", "A & B"))
	assert.Equal(t, "January 2, 2006", FormatDate("2006-01-02"))
	assert.Equal(t, "soon", FormatDate("soon"))
	assert.Equal(t, "Arshad Yaseen", PageTitle(testSite, ""))
	assert.Equal(t, "Blog | Arshad Yaseen", PageTitle(testSite, "Blog"))
}
