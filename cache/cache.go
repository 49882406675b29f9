// Package cache keeps rendered share pages on disk. Entries are keyed by the
// share token plus a revision hash of everything shown on the page, so an
// edit produces a new key instead of a stale hit.
package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

type Cache struct {
	dir string
}

func New(dir string) *Cache {
	return &Cache{dir: filepath.Join(dir, "share")}
}

// Revision hashes the parts of a page that affect its rendering.
func Revision(parts ...string) string {
	return generateHash(strings.Join(parts, "\x00"))
}

// generateHash generates an xxHash hash for the given string
func generateHash(s string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(s))
}

// GetCachePath returns the cache file path for a token at a revision.
func (c *Cache) GetCachePath(token, revision string) string {
	// tokens are URL-safe base64, but never trust a path segment
	safe := filepath.Base(filepath.Clean("/" + token))
	return filepath.Join(c.dir, fmt.Sprintf("%s_%s.html", safe, revision))
}

func (c *Cache) ensureDir() error {
	return os.MkdirAll(c.dir, 0755)
}

// Write stores html for token at revision, dropping older revisions of the same token.
func (c *Cache) Write(token, revision, html string) error {
	if err := c.ensureDir(); err != nil {
		return err
	}
	if err := c.Clear(token); err != nil {
		return err
	}
	return os.WriteFile(c.GetCachePath(token, revision), []byte(html), 0644)
}

// Read returns the cached html if it exists and is younger than maxAge.
func (c *Cache) Read(token, revision string, maxAge time.Duration) (string, bool) {
	cachePath := c.GetCachePath(token, revision)

	info, err := os.Stat(cachePath)
	if err != nil {
		return "", false
	}

	if time.Since(info.ModTime()) > maxAge {
		return "", false
	}

	content, err := os.ReadFile(cachePath)
	if err != nil {
		return "", false
	}

	return string(content), true
}

// Clear removes every cached revision of token.
func (c *Cache) Clear(token string) error {
	safe := filepath.Base(filepath.Clean("/" + token))
	matches, err := filepath.Glob(filepath.Join(c.dir, safe+"_*.html"))
	if err != nil {
		return err
	}
	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// ClearOld removes cache files older than maxAge.
func (c *Cache) ClearOld(maxAge time.Duration) error {
	return filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}

		if info.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		if time.Since(info.ModTime()) > maxAge {
			os.Remove(path)
		}

		return nil
	})
}
