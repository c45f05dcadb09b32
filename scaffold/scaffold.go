// Package scaffold writes new markdown posts from an embedded template.
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// Templates contains the scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// ErrExists is returned when the target post file is already present.
var ErrExists = errors.New("scaffold: post already exists")

// Post holds the template variables for a new post.
type Post struct {
	Title       string
	Slug        string
	PublishedAt string // YYYY-MM-DD
	Summary     string
}

var postTemplate = template.Must(template.New("post.md.tmpl").
	Funcs(template.FuncMap{
		// quote escapes a value for a single-quoted YAML scalar.
		"quote": func(s string) string { return strings.ReplaceAll(s, "'", "''") },
	}).
	ParseFS(Templates, "templates/post.md.tmpl"))

// WritePost renders the post template into dir/<slug>.md and returns the
// path it wrote. Existing files are never overwritten.
func WritePost(dir string, p Post) (string, error) {
	if p.Slug == "" {
		return "", fmt.Errorf("scaffold: empty slug for %q", p.Title)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	outPath := filepath.Join(dir, p.Slug+".md")

	f, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrExists, outPath)
		}
		return "", fmt.Errorf("scaffold: create %s: %w", outPath, err)
	}
	defer f.Close()

	if err := postTemplate.Execute(f, p); err != nil {
		return "", fmt.Errorf("scaffold: execute template: %w", err)
	}
	return outPath, nil
}
