package cli

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/madstone-tech/ducksearch/internal/core/entities"
	"github.com/madstone-tech/ducksearch/internal/core/usecases"
)

var _ usecases.ReportFormatter = (*ReportFormatter)(nil)

var (
	colorError   = lipgloss.Color("#ef4444")
	colorSuccess = lipgloss.Color("#10b981")
	colorMuted   = lipgloss.Color("#6b7280")

	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

// ReportFormatter implements usecases.ReportFormatter, rendering `lint`
// findings to stdout with lipgloss severity coloring.
type ReportFormatter struct{}

// NewReportFormatter creates a new ReportFormatter instance.
func NewReportFormatter() *ReportFormatter {
	return &ReportFormatter{}
}

// PrintLintReport formats and displays taxonomy errors grouped by the
// report they were raised against.
func (f *ReportFormatter) PrintLintReport(findings map[string]entities.LintErrors) {
	if len(findings) == 0 {
		fmt.Println(successStyle.Render("✓ no lint errors found"))
		return
	}

	paths := make([]string, 0, len(findings))
	total := 0
	for path, errs := range findings {
		if errs.HasErrors() {
			paths = append(paths, path)
			total += len(errs)
		}
	}
	sort.Strings(paths)

	if total == 0 {
		fmt.Println(successStyle.Render("✓ no lint errors found"))
		return
	}

	for _, path := range paths {
		fmt.Println(mutedStyle.Render(path))
		for _, err := range findings[path] {
			fmt.Printf("  %s %s\n", errorStyle.Render(fmt.Sprintf("[%s]", err.Code)), err.Message)
		}
	}
	fmt.Println()
	fmt.Println(errorStyle.Render(fmt.Sprintf("%d error(s) across %d report(s)", total, len(paths))))
}
