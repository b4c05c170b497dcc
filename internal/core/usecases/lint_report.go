package usecases

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
)

// discoverReports walks reportsDir and returns every *.sql file path.
func discoverReports(reportsDir string) ([]string, error) {
	var paths []string
	err := filepath.Walk(reportsDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".sql") {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// LintReport validates a runtime root's layout, parses every report
// under reports/, and collects every file's errors into one report
// instead of stopping at the first bad file.
type LintReport struct {
	validator RootValidator
	parser    ReportParser
	logger    Logger
}

// NewLintReport constructs the lint use case.
func NewLintReport(validator RootValidator, parser ReportParser, logger Logger) *LintReport {
	return &LintReport{validator: validator, parser: parser, logger: logger}
}

// LintResult is the outcome of linting one runtime root.
type LintResult struct {
	// Findings maps each report's path (relative to reports/) to the
	// errors found in it. A report with no entry parsed cleanly.
	Findings map[string]entities.LintErrors
}

// HasErrors reports whether any report failed to parse.
func (r LintResult) HasErrors() bool {
	for _, errs := range r.Findings {
		if errs.HasErrors() {
			return true
		}
	}
	return false
}

// Execute validates root and lints every *.sql file under reports/.
func (u *LintReport) Execute(ctx context.Context, root string) (LintResult, error) {
	layout, err := u.validator.Validate(ctx, root)
	if err != nil {
		return LintResult{}, err
	}

	reportPaths, err := discoverReports(layout.ReportsDir)
	if err != nil {
		return LintResult{}, err
	}

	result := LintResult{Findings: make(map[string]entities.LintErrors)}
	for _, path := range reportPaths {
		rel, relErr := filepath.Rel(layout.ReportsDir, path)
		if relErr != nil {
			rel = path
		}
		if _, err := u.parser.Parse(ctx, path); err != nil {
			var errs entities.LintErrors
			if taxErr, ok := err.(*entities.TaxonomyError); ok {
				errs = append(errs, taxErr)
			} else {
				errs.Add(entities.CodeSchemaInvalid, rel, err.Error())
			}
			result.Findings[rel] = errs
			u.logger.Warn("lint failed", "report", rel, "error", err.Error())
		}
	}

	return result, nil
}
