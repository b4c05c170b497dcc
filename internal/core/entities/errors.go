// Package entities contains the domain entities for ducksearch.
// These are pure Go structs with validation logic and zero external dependencies.
package entities

import (
	"fmt"
	"strings"
)

// ErrorCode is one of the stable taxonomy codes reported at every boundary
// (parser, compiler, execution pipeline, HTTP/CLI surface).
type ErrorCode string

const (
	CodePathMissing        ErrorCode = "PathMissing"
	CodeUnsupportedBlock   ErrorCode = "UnsupportedBlock"
	CodeSchemaInvalid      ErrorCode = "SchemaInvalid"
	CodeDuplicateId        ErrorCode = "DuplicateId"
	CodeBadType            ErrorCode = "BadType"
	CodeBadScope           ErrorCode = "BadScope"
	CodeUnknownRef         ErrorCode = "UnknownRef"
	CodeBadParquetPath     ErrorCode = "BadParquetPath"
	CodeIllegalSQL         ErrorCode = "IllegalSQL"
	CodeMultipleStatements ErrorCode = "MultipleStatements"
	CodeBadPlaceholderType ErrorCode = "BadPlaceholderType"
	CodeCycle              ErrorCode = "Cycle"
	CodeDuplicateParamKey  ErrorCode = "DuplicateParamKey"
	CodeExecutionFailed    ErrorCode = "ExecutionFailed"
)

// TaxonomyError is a single stable-coded error raised anywhere in the
// pipeline. The message must never include payload values or secret-block
// contents; callers are responsible for sanitizing before wrapping.
type TaxonomyError struct {
	Code    ErrorCode
	Message string
	Path    string // optional: the report file the error was raised against
}

func (e *TaxonomyError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewTaxonomyError constructs a TaxonomyError.
func NewTaxonomyError(code ErrorCode, path, message string) *TaxonomyError {
	return &TaxonomyError{Code: code, Message: message, Path: path}
}

// LintErrors is a collection of TaxonomyError values gathered while linting
// one or more reports. A single report's parse aborts on its first error
// (spec.md §7), but a multi-file `lint` run accumulates every file's errors
// into one report instead of stopping at the first bad file.
type LintErrors []*TaxonomyError

func (le LintErrors) Error() string {
	if len(le) == 0 {
		return "no lint errors"
	}
	if len(le) == 1 {
		return le[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d lint errors:\n", len(le))
	for i, err := range le {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

func (le LintErrors) HasErrors() bool {
	return len(le) > 0
}

func (le *LintErrors) Add(code ErrorCode, path, message string) {
	*le = append(*le, NewTaxonomyError(code, path, message))
}

// MissingPaths aggregates every missing root-layout entry into a single
// PathMissing error instead of short-circuiting on the first one (spec.md
// §4.1, §8: "Layout validation aggregates all missing entries into a single
// error").
type MissingPaths []string

func (mp MissingPaths) Error() string {
	return fmt.Sprintf("[%s] missing required paths: %s", CodePathMissing, strings.Join(mp, ", "))
}

func (mp MissingPaths) Code() ErrorCode {
	return CodePathMissing
}
