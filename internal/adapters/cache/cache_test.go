package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
)

func TestCoordinator_EntryPath(t *testing.T) {
	layout := entities.NewRootLayout("/root")
	entry := entities.CacheEntry{Stage: entities.StageMaterialize, Key: "reports__regions", Name: "totals"}
	got := New().EntryPath(layout, entry)
	want := filepath.Join("/root", "cache", "materialize", "reports__regions__totals.parquet")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCoordinator_NeedsRefresh_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.parquet")
	needs, err := New().NeedsRefresh(context.Background(), path, entities.DefaultCacheTTL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !needs {
		t.Error("expected refresh needed for missing file")
	}
}

func TestCoordinator_NeedsRefresh_FreshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.parquet")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	needs, err := New().NeedsRefresh(context.Background(), path, entities.DefaultCacheTTL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if needs {
		t.Error("expected no refresh needed for fresh file")
	}
}

func TestCoordinator_NeedsRefresh_StaleFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stale.parquet")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatal(err)
	}
	needs, err := New().NeedsRefresh(context.Background(), path, entities.DefaultCacheTTL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !needs {
		t.Error("expected refresh needed for stale file")
	}
}

func TestCoordinator_EnsureDirs_CreatesAllNine(t *testing.T) {
	root := t.TempDir()
	layout := entities.NewRootLayout(root)
	if err := New().EnsureDirs(layout); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, dir := range layout.CacheChildren() {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory at %s", dir)
		}
	}
}

func TestCoordinator_EnsureDirs_Idempotent(t *testing.T) {
	root := t.TempDir()
	layout := entities.NewRootLayout(root)
	coord := New()
	if err := coord.EnsureDirs(layout); err != nil {
		t.Fatal(err)
	}
	if err := coord.EnsureDirs(layout); err != nil {
		t.Errorf("second call should be a no-op, got error: %v", err)
	}
}

func TestTTLFor_UsesReportOverride(t *testing.T) {
	report := entities.Report{Metadata: map[entities.MetadataBlock]any{
		entities.BlockCache: map[string]any{"ttl_seconds": 60},
	}}
	if got := TTLFor(report); got != 60*time.Second {
		t.Errorf("got %v, want 60s", got)
	}
}

func TestTTLFor_DefaultsWhenAbsent(t *testing.T) {
	report := entities.Report{}
	if got := TTLFor(report); got != entities.DefaultCacheTTL {
		t.Errorf("got %v, want default", got)
	}
}
