package cmd

import (
	"context"
	"fmt"

	"github.com/madstone-tech/ducksearch/internal/adapters/cli"
	"github.com/madstone-tech/ducksearch/internal/adapters/logging"
	"github.com/madstone-tech/ducksearch/internal/adapters/reportparser"
	"github.com/madstone-tech/ducksearch/internal/adapters/rootlayout"
	"github.com/madstone-tech/ducksearch/internal/core/usecases"
)

// LintCommand validates a report root's layout and lints every report
// under reports/, printing every file's errors instead of stopping at
// the first bad one.
type LintCommand struct {
	root     string
	exitCode bool
}

// NewLintCommand creates a new lint command.
func NewLintCommand(root string, exitCode bool) *LintCommand {
	return &LintCommand{root: root, exitCode: exitCode}
}

// Execute runs the lint command.
func (c *LintCommand) Execute(ctx context.Context) error {
	validator := rootlayout.New()
	parser := reportparser.New()
	logger := logging.GetLogger()

	useCase := usecases.NewLintReport(validator, parser, logger)
	formatter := cli.NewReportFormatter()

	result, err := useCase.Execute(ctx, c.root)
	if err != nil {
		return fmt.Errorf("failed to lint %s: %w", c.root, err)
	}

	formatter.PrintLintReport(result.Findings)

	if result.HasErrors() && c.exitCode {
		return fmt.Errorf("lint failed")
	}
	return nil
}
