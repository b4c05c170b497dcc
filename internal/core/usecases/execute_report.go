package usecases

import (
	"context"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
)

// ExecuteReport orchestrates C2+C3+C4+C5: validate the root, parse and
// compile the requested report, and run it against the embedded SQL
// engine. This is the use case behind GET /report.
type ExecuteReport struct {
	validator RootValidator
	executor  Executor
	logger    Logger
}

// NewExecuteReport constructs the execute-report use case.
func NewExecuteReport(validator RootValidator, executor Executor, logger Logger) *ExecuteReport {
	return &ExecuteReport{validator: validator, executor: executor, logger: logger}
}

// Execute validates root, then runs reportPath (relative to reports/)
// with the given request payload, recursing into imports as needed. The
// returned ExecutionResult describes every artifact the run produced.
func (u *ExecuteReport) Execute(ctx context.Context, root, reportPath string, payload map[string]any) (entities.ExecutionResult, error) {
	if _, err := u.validator.Validate(ctx, root); err != nil {
		return entities.ExecutionResult{}, err
	}

	result, err := u.executor.Execute(ctx, root, reportPath, payload)
	if err != nil {
		u.logger.Error("report execution failed", err, "report", reportPath)
		return entities.ExecutionResult{}, err
	}
	return result, nil
}
