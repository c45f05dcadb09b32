package site

import (
	"errors"
	"sync"
	"time"

	"github.com/arshadyaseen/site/views"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = errors.New("site: post not found")

// PostCache is an in-memory cache of the stored posts with a TTL.
type PostCache struct {
	mu      sync.RWMutex
	posts   []views.Post
	fetched time.Time
	ttl     time.Duration
	store   *Store
}

// NewPostCache creates a PostCache backed by the given Store.
func NewPostCache(s *Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached posts after ensuring the cache is fresh.
// It tries a read lock first and only takes the write lock to reload.
func (c *PostCache) ensureLoaded() ([]views.Post, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.ListPosts()
	if err != nil {
		return nil, err
	}
	c.posts = posts
	c.fetched = time.Now()
	return c.posts, nil
}

// ListPosts returns every post, newest first. Callers must not modify the
// returned slice.
func (c *PostCache) ListPosts() ([]views.Post, error) {
	return c.ensureLoaded()
}

// GetPost returns a single post by slug from the cache.
func (c *PostCache) GetPost(slug string) (views.Post, error) {
	posts, err := c.ensureLoaded()
	if err != nil {
		return views.Post{}, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return views.Post{}, ErrNotFound
}
