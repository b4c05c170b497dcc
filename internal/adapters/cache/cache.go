// Package cache implements the cache coordinator (C5): cache key/path
// derivation and TTL-based freshness decisions. Grounded on
// runtime/__init__.py's _Cache/_should_refresh/_cache_key.
package cache

import (
	"context"
	"os"
	"time"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
	"github.com/madstone-tech/ducksearch/internal/core/usecases"
)

var _ usecases.CacheCoordinator = (*Coordinator)(nil)

// Coordinator implements usecases.CacheCoordinator.
type Coordinator struct{}

// New constructs a Coordinator.
func New() *Coordinator {
	return &Coordinator{}
}

// EntryPath renders entry's on-disk location under layout's cache dir.
func (c *Coordinator) EntryPath(layout entities.RootLayout, entry entities.CacheEntry) string {
	return entry.Path(layout.CacheDir)
}

// NeedsRefresh reports whether the artifact at path is missing or its
// mtime is older than ttl.
func (c *Coordinator) NeedsRefresh(ctx context.Context, path string, ttl time.Duration) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	return !entities.IsFresh(info.ModTime(), time.Now(), ttl), nil
}

// EnsureDirs idempotently creates every required cache subdirectory, so
// concurrent callers never race on directory creation (spec.md §4.5).
func (c *Coordinator) EnsureDirs(layout entities.RootLayout) error {
	for _, dir := range layout.CacheChildren() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// TTLFor returns the report's CACHE.ttl_seconds override if present and
// valid, else entities.DefaultCacheTTL.
func TTLFor(report entities.Report) time.Duration {
	if seconds, ok := report.CacheTTLSeconds(); ok && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return entities.DefaultCacheTTL
}
