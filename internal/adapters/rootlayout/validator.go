// Package rootlayout implements the root validator (C1): it asserts a
// ducksearch runtime root's on-disk layout without ever mutating it.
package rootlayout

import (
	"context"
	"os"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
	"github.com/madstone-tech/ducksearch/internal/core/usecases"
)

var _ usecases.RootValidator = (*Validator)(nil)

// Validator implements usecases.RootValidator against the real filesystem.
type Validator struct{}

// New constructs a Validator.
func New() *Validator {
	return &Validator{}
}

// Validate checks that root contains config.toml, reports/, composites/,
// and cache/ with all nine required subdirectories. Every missing entry is
// collected before returning; the filesystem is never written to.
func (v *Validator) Validate(ctx context.Context, root string) (entities.RootLayout, error) {
	layout := entities.NewRootLayout(root)

	var missing entities.MissingPaths

	if !isFile(layout.ConfigFile) {
		missing = append(missing, layout.ConfigFile)
	}
	for _, dir := range []string{layout.ReportsDir, layout.CompositesDir, layout.CacheDir} {
		if !isDir(dir) {
			missing = append(missing, dir)
		}
	}
	for _, child := range layout.CacheChildren() {
		if !isDir(child) {
			missing = append(missing, child)
		}
	}

	if len(missing) > 0 {
		return entities.RootLayout{}, missing
	}

	return layout, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
