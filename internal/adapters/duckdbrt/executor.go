// Package duckdbrt implements the execution pipeline (C4): it recurses
// into imports, compiles and runs a report's materializations, literal
// sources, bindings, and base artifact against an embedded DuckDB
// connection, honoring cache freshness throughout. Grounded on
// runtime/__init__.py's execute_report and its private helpers.
package duckdbrt

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
	"github.com/madstone-tech/ducksearch/internal/core/usecases"
)

var _ usecases.Executor = (*Executor)(nil)

// Executor implements usecases.Executor.
type Executor struct {
	parser       usecases.ReportParser
	compiler     usecases.PlaceholderCompiler
	cache        usecases.CacheCoordinator
	logger       usecases.Logger
	maxOpenConns int
	defaultTTL   time.Duration
}

// New constructs an Executor from its C2/C3/C5 collaborators.
func New(parser usecases.ReportParser, compiler usecases.PlaceholderCompiler, cache usecases.CacheCoordinator, logger usecases.Logger) *Executor {
	return &Executor{parser: parser, compiler: compiler, cache: cache, logger: logger}
}

// WithMaxOpenConns caps how many concurrent embedded-engine connections
// one Execute call may open, sized from the server's --workers setting.
func (e *Executor) WithMaxOpenConns(n int) *Executor {
	e.maxOpenConns = n
	return e
}

// WithDefaultTTL sets the root-wide default cache freshness window,
// sourced from config.toml's [cache] ttl_seconds, used whenever a report
// doesn't declare its own CACHE.ttl_seconds override.
func (e *Executor) WithDefaultTTL(d time.Duration) *Executor {
	e.defaultTTL = d
	return e
}

// Execute runs reportPath (relative to layout.ReportsDir) under root,
// recursing into imports, and returns the resulting artifact paths. A
// single embedded-engine connection pool backs the whole recursion, so
// imports share it rather than each opening their own.
func (e *Executor) Execute(ctx context.Context, root, reportPath string, payload map[string]any) (entities.ExecutionResult, error) {
	layout := entities.NewRootLayout(root)
	if err := e.cache.EnsureDirs(layout); err != nil {
		return entities.ExecutionResult{}, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportPath, "failed to prepare cache directories")
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return entities.ExecutionResult{}, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportPath, "failed to open embedded engine")
	}
	defer db.Close()
	if e.maxOpenConns > 0 {
		db.SetMaxOpenConns(e.maxOpenConns)
	}

	visiting := make(map[string]bool)
	return e.executeReport(ctx, db, layout, reportPath, payload, visiting)
}

func (e *Executor) executeReport(ctx context.Context, db *sql.DB, layout entities.RootLayout, reportRelPath string, payload map[string]any, visiting map[string]bool) (entities.ExecutionResult, error) {
	absPath := filepath.Join(layout.ReportsDir, reportRelPath)
	if visiting[absPath] {
		return entities.ExecutionResult{}, entities.NewTaxonomyError(entities.CodeCycle, reportRelPath, "import cycle detected")
	}
	visiting[absPath] = true
	defer delete(visiting, absPath)

	report, err := e.parser.Parse(ctx, absPath)
	if err != nil {
		return entities.ExecutionResult{}, err
	}

	cacheKey := entities.CacheKey(reportRelPath)
	ttl := ttlFor(report, e.defaultTTLOrFallback())

	importPaths := make(map[string]string)
	for _, imp := range report.Imports() {
		childPayload := selectPassParams(payload, imp.PassParams)
		importResult, err := e.executeReport(ctx, db, layout, imp.Path, childPayload, visiting)
		if err != nil {
			return entities.ExecutionResult{}, err
		}
		importPaths[imp.ID] = importResult.Base
	}

	values, err := FoldPayload(payload)
	if err != nil {
		return entities.ExecutionResult{}, err
	}

	matBodies := extractMaterializationBodies(report.SQL)

	compiledSQL, err := e.compiler.Compile(ctx, report, usecases.ParameterBindings{Values: values, Payload: payload})
	if err != nil {
		return entities.ExecutionResult{}, err
	}
	compiledSQL = substituteRuntimePlaceholders(compiledSQL, layout, cacheKey, importPaths, nil)

	conn, err := db.Conn(ctx)
	if err != nil {
		return entities.ExecutionResult{}, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "failed to open embedded engine connection")
	}
	defer conn.Close()

	materialized, err := e.runMaterializations(ctx, conn, layout, cacheKey, ttl, matBodies, reportRelPath)
	if err != nil {
		return entities.ExecutionResult{}, err
	}

	literalSources, err := e.runLiteralSources(ctx, conn, layout, cacheKey, ttl, report.LiteralSources(), reportRelPath)
	if err != nil {
		return entities.ExecutionResult{}, err
	}

	bindings, err := e.runBindings(ctx, conn, layout, cacheKey, ttl, report.Bindings(), reportRelPath)
	if err != nil {
		return entities.ExecutionResult{}, err
	}

	bindValues, err := e.resolveBindValues(ctx, conn, report.Bindings(), bindings, values, reportRelPath)
	if err != nil {
		return entities.ExecutionResult{}, err
	}
	compiledSQL = substituteRuntimePlaceholders(compiledSQL, layout, cacheKey, importPaths, bindValues)

	basePath := entities.CacheEntry{Stage: entities.StageArtifacts, Key: cacheKey}.Path(layout.CacheDir)
	needsRefresh, err := e.cache.NeedsRefresh(ctx, basePath, ttl)
	if err != nil {
		return entities.ExecutionResult{}, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "failed to inspect cache state")
	}
	if needsRefresh {
		stmt := fmt.Sprintf("COPY (%s) TO '%s' (FORMAT parquet)", compiledSQL, toPosix(basePath))
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			e.logger.Error("report execution failed", err, "report", reportRelPath)
			return entities.ExecutionResult{}, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "embedded engine execution failed")
		}
	}

	return entities.ExecutionResult{
		Base:           basePath,
		Materialized:   materialized,
		LiteralSources: literalSources,
		Bindings:       bindings,
	}, nil
}

// runMaterializations ensures each materialized CTE's cache file is
// fresh, creating a temp table from its body and copying it out when
// stale. Ported from runtime/__init__.py's _prepare_materializations.
func (e *Executor) runMaterializations(ctx context.Context, conn *sql.Conn, layout entities.RootLayout, cacheKey string, ttl time.Duration, bodies map[string]string, reportRelPath string) (map[string]string, error) {
	outputs := make(map[string]string, len(bodies))
	for name, body := range bodies {
		entryPath := entities.CacheEntry{Stage: entities.StageMaterialize, Key: cacheKey, Name: name}.Path(layout.CacheDir)
		needsRefresh, err := e.cache.NeedsRefresh(ctx, entryPath, ttl)
		if err != nil {
			return nil, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "failed to inspect cache state")
		}
		if needsRefresh {
			if _, err := conn.ExecContext(ctx, fmt.Sprintf("CREATE OR REPLACE TEMP TABLE %s AS %s", name, body)); err != nil {
				e.logger.Error("materialization failed", err, "report", reportRelPath, "name", name)
				return nil, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "embedded engine execution failed")
			}
			stmt := fmt.Sprintf("COPY (SELECT * FROM %s) TO '%s' (FORMAT parquet)", name, toPosix(entryPath))
			if _, err := conn.ExecContext(ctx, stmt); err != nil {
				e.logger.Error("materialization persist failed", err, "report", reportRelPath, "name", name)
				return nil, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "embedded engine execution failed")
			}
		}
		outputs[name] = entryPath
	}
	return outputs, nil
}

// runLiteralSources projects each LITERAL_SOURCES entry's value_column
// from its from_cte to its own cache file. Ported from
// runtime/__init__.py's _materialize_literal_sources.
func (e *Executor) runLiteralSources(ctx context.Context, conn *sql.Conn, layout entities.RootLayout, cacheKey string, ttl time.Duration, entries []entities.LiteralSourceSpec, reportRelPath string) (map[string]string, error) {
	outputs := make(map[string]string, len(entries))
	for _, entry := range entries {
		entryPath := entities.CacheEntry{Stage: entities.StageLiteralSources, Key: cacheKey, Name: entry.ID}.Path(layout.CacheDir)
		needsRefresh, err := e.cache.NeedsRefresh(ctx, entryPath, ttl)
		if err != nil {
			return nil, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "failed to inspect cache state")
		}
		if needsRefresh {
			stmt := fmt.Sprintf("COPY (SELECT %s FROM %s) TO '%s' (FORMAT parquet)", entry.ValueColumn, entry.FromCTE, toPosix(entryPath))
			if _, err := conn.ExecContext(ctx, stmt); err != nil {
				e.logger.Error("literal source persist failed", err, "report", reportRelPath, "id", entry.ID)
				return nil, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "embedded engine execution failed")
			}
		}
		outputs[entry.ID] = entryPath
	}
	return outputs, nil
}

// runBindings projects each BINDINGS entry's key/value columns from its
// source relation to its own cache file. Ported from
// runtime/__init__.py's _materialize_bindings.
func (e *Executor) runBindings(ctx context.Context, conn *sql.Conn, layout entities.RootLayout, cacheKey string, ttl time.Duration, entries []entities.BindingSpec, reportRelPath string) (map[string]string, error) {
	outputs := make(map[string]string, len(entries))
	for _, entry := range entries {
		entryPath := entities.CacheEntry{Stage: entities.StageBindings, Key: cacheKey, Name: entry.ID}.Path(layout.CacheDir)
		needsRefresh, err := e.cache.NeedsRefresh(ctx, entryPath, ttl)
		if err != nil {
			return nil, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "failed to inspect cache state")
		}
		if needsRefresh {
			stmt := fmt.Sprintf(
				"COPY (SELECT %s AS key, %s AS value FROM %s) TO '%s' (FORMAT parquet)",
				entry.KeyColumn, entry.ValueColumn, entry.Source, toPosix(entryPath),
			)
			if _, err := conn.ExecContext(ctx, stmt); err != nil {
				e.logger.Error("binding persist failed", err, "report", reportRelPath, "id", entry.ID)
				return nil, entities.NewTaxonomyError(entities.CodeExecutionFailed, reportRelPath, "embedded engine execution failed")
			}
		}
		outputs[entry.ID] = entryPath
	}
	return outputs, nil
}

// ttlFor resolves a report's effective cache TTL: its own
// CACHE.ttl_seconds override if present, else fallback.
func ttlFor(report entities.Report, fallback time.Duration) time.Duration {
	if seconds, ok := report.CacheTTLSeconds(); ok && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

func (e *Executor) defaultTTLOrFallback() time.Duration {
	if e.defaultTTL > 0 {
		return e.defaultTTL
	}
	return entities.DefaultCacheTTL
}

func toPosix(path string) string {
	return filepath.ToSlash(path)
}
