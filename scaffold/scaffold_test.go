package scaffold

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arshadyaseen/site/content"
)

func TestWritePostRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "posts")
	path, err := WritePost(dir, Post{
		Title:       "It's a Test",
		Slug:        "its-a-test",
		PublishedAt: "2024-04-09",
	})
	if err != nil {
		t.Fatalf("WritePost failed: %v", err)
	}
	if filepath.Base(path) != "its-a-test.md" {
		t.Errorf("path = %q", path)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	post, draft, err := content.ParsePost(filepath.Base(path), src)
	if err != nil {
		t.Fatalf("ParsePost failed: %v", err)
	}
	if post.Title != "It's a Test" {
		t.Errorf("Title = %q", post.Title)
	}
	if post.PublishedAt != "2024-04-09" {
		t.Errorf("PublishedAt = %q", post.PublishedAt)
	}
	if !draft {
		t.Error("new posts should start as drafts")
	}
}

func TestWritePostRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	p := Post{Title: "Once", Slug: "once", PublishedAt: "2024-01-01"}
	if _, err := WritePost(dir, p); err != nil {
		t.Fatalf("first WritePost failed: %v", err)
	}
	if _, err := WritePost(dir, p); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
}

func TestWritePostEmptySlug(t *testing.T) {
	if _, err := WritePost(t.TempDir(), Post{Title: "???"}); err == nil {
		t.Error("expected error for empty slug")
	}
}
