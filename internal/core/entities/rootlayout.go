package entities

import "path/filepath"

// CacheSubdirs is the closed set of nine required cache subdirectories.
// Only artifacts, materialize, literal_sources, and bindings are ever
// written to by this module; the rest are reserved for collaborators
// outside its scope but must still exist for a root to validate.
var CacheSubdirs = [9]string{
	"artifacts",
	"slices",
	"materialize",
	"literal_sources",
	"bindings",
	"facets",
	"charts",
	"manifests",
	"tmp",
}

// RootLayout is a validated view of a ducksearch runtime root. It is
// produced once by the Root Validator and consumed read-only by every
// other component.
type RootLayout struct {
	Root        string
	ConfigFile  string
	ReportsDir  string
	CompositesDir string
	CacheDir    string
}

// NewRootLayout derives the canonical layout paths under root. It does not
// check the filesystem; use the rootlayout adapter's Validate to do that.
func NewRootLayout(root string) RootLayout {
	return RootLayout{
		Root:          root,
		ConfigFile:    filepath.Join(root, "config.toml"),
		ReportsDir:    filepath.Join(root, "reports"),
		CompositesDir: filepath.Join(root, "composites"),
		CacheDir:      filepath.Join(root, "cache"),
	}
}

// CacheChildren returns the nine required cache subdirectory paths.
func (l RootLayout) CacheChildren() []string {
	children := make([]string, len(CacheSubdirs))
	for i, name := range CacheSubdirs {
		children[i] = filepath.Join(l.CacheDir, name)
	}
	return children
}

// CacheSubdir returns the path to a single named cache subdirectory.
func (l RootLayout) CacheSubdir(name string) string {
	return filepath.Join(l.CacheDir, name)
}
