package entities

import (
	"fmt"
	"regexp"
	"strings"
)

// identPattern is the identifier grammar shared by parameter names,
// binding ids, import ids, and CTE names: the same shape the placeholder
// regex requires for a `name` capture group (spec.md §6).
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier checks that name is a legal identifier for the given
// kind (used in error messages: "parameter", "binding id", "import id",
// "CTE name", ...).
func ValidateIdentifier(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}
	if !identPattern.MatchString(name) {
		return fmt.Errorf("%s name %q is not a valid identifier", kind, name)
	}
	return nil
}

// ValidatePath checks that a path is non-empty and contains no traversal
// segments.
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("path %q must not contain '..'", path)
	}
	return nil
}

// IsPlainIdentifier reports whether name can be emitted unquoted as a SQL
// identifier under identPattern's grammar.
func IsPlainIdentifier(name string) bool {
	return identPattern.MatchString(name)
}

// FoldCase lowercases name for case-insensitive duplicate detection, the
// rule spec.md applies when comparing parameter names against each other
// and against payload keys.
func FoldCase(name string) string {
	return strings.ToLower(name)
}
