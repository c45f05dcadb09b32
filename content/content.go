// Package content reads blog posts from markdown files with YAML frontmatter.
//
// A post file lives at <dir>/<slug>.md (or .mdx) and starts with:
//
//	---
//	title: 'Post title'
//	publishedAt: '2024-04-09'
//	summary: 'One line summary.'
//	---
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/arshadyaseen/site/markdown"
	"github.com/arshadyaseen/site/views"
)

// ErrMissingField is returned when a post lacks a required frontmatter key.
var ErrMissingField = errors.New("missing frontmatter field")

var extensions = map[string]bool{".md": true, ".mdx": true}

// LoadPosts parses every post file directly under dir in fsys. Drafts
// (frontmatter "draft: true") are skipped. Posts are returned newest first,
// ties broken by slug.
func LoadPosts(fsys fs.FS, dir string) ([]views.Post, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", dir, err)
	}
	var posts []views.Post
	for _, entry := range entries {
		if entry.IsDir() || !extensions[path.Ext(entry.Name())] {
			continue
		}
		src, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("content: read %s: %w", entry.Name(), err)
		}
		post, draft, err := ParsePost(entry.Name(), src)
		if err != nil {
			return nil, err
		}
		if draft {
			continue
		}
		posts = append(posts, post)
	}
	SortPosts(posts)
	return posts, nil
}

// ParsePost builds a post from a file name and its source. The slug is the
// file name without extension. draft reports whether the post is unpublished.
func ParsePost(filename string, src []byte) (post views.Post, draft bool, err error) {
	doc, err := markdown.Parse(src)
	if err != nil {
		return views.Post{}, false, fmt.Errorf("content: %s: %w", filename, err)
	}
	slug := strings.TrimSuffix(path.Base(filename), path.Ext(filename))
	post = views.Post{
		Title:       doc.String("title"),
		PublishedAt: doc.String("publishedAt"),
		Summary:     doc.String("summary"),
		Slug:        slug,
		Body:        doc.Body,
		Link:        views.PostPath(slug),
	}
	if post.Title == "" {
		return views.Post{}, false, fmt.Errorf("content: %s: %w: title", filename, ErrMissingField)
	}
	if post.PublishedAt == "" {
		return views.Post{}, false, fmt.Errorf("content: %s: %w: publishedAt", filename, ErrMissingField)
	}
	if _, err := time.Parse("2006-01-02", post.PublishedAt); err != nil {
		return views.Post{}, false, fmt.Errorf("content: %s: invalid publishedAt %q, use YYYY-MM-DD", filename, post.PublishedAt)
	}
	return post, doc.Bool("draft"), nil
}

// SortPosts orders posts newest first, ties broken by slug.
func SortPosts(posts []views.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].PublishedAt != posts[j].PublishedAt {
			return posts[i].PublishedAt > posts[j].PublishedAt
		}
		return posts[i].Slug < posts[j].Slug
	})
}
