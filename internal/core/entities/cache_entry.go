package entities

import (
	"path/filepath"
	"strings"
	"time"
)

// DefaultCacheTTL is the default freshness window for a cache artifact,
// overridable per-report via the CACHE metadata block's ttl_seconds key.
const DefaultCacheTTL = 300 * time.Second

// CacheStage is one of the four stages C4 writes artifacts to.
type CacheStage string

const (
	StageArtifacts      CacheStage = "artifacts"
	StageMaterialize    CacheStage = "materialize"
	StageLiteralSources CacheStage = "literal_sources"
	StageBindings       CacheStage = "bindings"
)

// CacheKey derives a report's cache key from its path relative to
// reports/: the extension is stripped and '/' is mapped to '__'.
func CacheKey(reportRelPath string) string {
	rel := strings.TrimSuffix(reportRelPath, filepath.Ext(reportRelPath))
	return strings.ReplaceAll(rel, "/", "__")
}

// CacheEntry locates one artifact on disk: <cache>/<stage>/<key>[__<name>].parquet.
// Name is empty for the base artifact (StageArtifacts).
type CacheEntry struct {
	Stage CacheStage
	Key   string
	Name  string
}

// Path renders the entry's location under a cache root directory.
func (e CacheEntry) Path(cacheRoot string) string {
	fileName := e.Key
	if e.Name != "" {
		fileName += "__" + e.Name
	}
	return filepath.Join(cacheRoot, string(e.Stage), fileName+".parquet")
}

// IsFresh reports whether an artifact last modified at modTime is still
// within ttl of now, per spec.md §4.5's TTL-based freshness rule.
func IsFresh(modTime, now time.Time, ttl time.Duration) bool {
	return now.Sub(modTime) <= ttl
}
