package duckdbrt

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/madstone-tech/ducksearch/internal/adapters/compiler"
	"github.com/madstone-tech/ducksearch/internal/core/entities"
)

// resolveBindValues reads each binding's persisted key/value cache file
// back to produce the SQL fragment `{{bind <id>}}` substitutes to: a
// quoted path for value_mode path_list_literal, otherwise the row(s)
// matching the binding's key expression rendered as a scalar literal
// (value_mode single, the default) or a parenthesized literal list
// (value_mode list). spec.md §4.3 requires this; the Python original
// validates `bind` placeholders at lint time but never actually
// resolves them at execution time, which this deliberately corrects.
func (e *Executor) resolveBindValues(ctx context.Context, conn *sql.Conn, entries []entities.BindingSpec, outputs map[string]string, values map[string]any, reportRelPath string) (map[string]string, error) {
	resolved := make(map[string]string, len(entries))
	for _, entry := range entries {
		path, ok := outputs[entry.ID]
		if !ok {
			continue
		}

		if entry.ValueMode == "path_list_literal" {
			resolved[entry.ID] = "'" + toPosix(path) + "'"
			continue
		}

		keyExpr, err := bindKeyExpr(entry, values)
		if err != nil {
			return nil, withPath(err, reportRelPath)
		}

		query := fmt.Sprintf("SELECT value FROM read_parquet('%s') WHERE key = %s", toPosix(path), keyExpr)
		rows, err := conn.QueryContext(ctx, query)
		if err != nil {
			e.logger.Error("binding lookup failed", err, "report", reportRelPath, "id", entry.ID)
			return nil, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "embedded engine execution failed")
		}

		var collected []any
		for rows.Next() {
			var v any
			if err := rows.Scan(&v); err != nil {
				rows.Close()
				return nil, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "embedded engine execution failed")
			}
			collected = append(collected, v)
		}
		closeErr := rows.Close()
		if err := rows.Err(); err != nil {
			return nil, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "embedded engine execution failed")
		}
		if closeErr != nil {
			return nil, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "embedded engine execution failed")
		}

		var literal string
		if entry.ValueMode == "list" {
			literal, err = compiler.RenderLiteral(collected)
		} else {
			var scalar any
			if len(collected) > 0 {
				scalar = collected[0]
			}
			literal, err = compiler.RenderLiteral(scalar)
		}
		if err != nil {
			return nil, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "embedded engine execution failed")
		}
		resolved[entry.ID] = literal
	}
	return resolved, nil
}

// bindKeyExpr renders the SQL expression a binding's value lookup
// filters on: key_sql verbatim, or the caller's bound key_param value
// rendered as a literal.
func bindKeyExpr(entry entities.BindingSpec, values map[string]any) (string, error) {
	if entry.KeySQL != "" {
		return entry.KeySQL, nil
	}
	value, ok := values[entry.KeyParam]
	if !ok {
		return "NULL", nil
	}
	return compiler.RenderLiteral(value)
}

func withPath(err error, path string) error {
	if taxErr, ok := err.(*entities.TaxonomyError); ok && taxErr.Path == "" {
		taxErr.Path = path
		return taxErr
	}
	return err
}
