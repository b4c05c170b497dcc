package usecases

import (
	"context"
	"time"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
)

// RootValidator defines the interface for validating a runtime root's
// on-disk layout (C1).
type RootValidator interface {
	// Validate checks root for config.toml, reports/, composites/, and
	// the nine cache subdirectories, aggregating every missing entry into
	// a single error instead of short-circuiting.
	Validate(ctx context.Context, root string) (entities.RootLayout, error)
}

// ReportParser defines the interface for extracting metadata, linting,
// and parsing one report SQL file (C2).
type ReportParser interface {
	// Parse reads path, strips and validates its metadata blocks, checks
	// cross-references and dependency cycles, and validates its SQL body.
	Parse(ctx context.Context, path string) (entities.Report, error)
}

// PlaceholderCompiler defines the interface for rewriting materialization
// CTEs and substituting `{{type name}}` placeholders with concrete SQL
// fragments (C3).
type PlaceholderCompiler interface {
	// Compile rewrites materialization CTEs and substitutes the param,
	// ident and path placeholders in report.SQL from the supplied
	// bindings; mat, bind and import placeholders are left for the
	// executor to resolve.
	Compile(ctx context.Context, report entities.Report, params ParameterBindings) (string, error)
}

// ParameterBindings is the resolved per-request value for every declared
// parameter, plus the raw request payload needed for hybrid-scope
// (`__client__`) routing decisions.
type ParameterBindings struct {
	// Values holds the server-side value for each parameter name that
	// resolved to the server role for this request.
	Values map[string]any
	// Payload is the raw request payload, including any `__client__<name>`
	// keys. The compiler reads only Values; hybrid-scope routing is
	// decided by the executor when it folds the payload into Values.
	Payload map[string]any
}

// Executor defines the interface for running a parsed, compiled report
// against the embedded SQL engine (C4).
type Executor interface {
	// Execute runs report under root, recursing into imports, and writes
	// every stage's artifact to the cache coordinator's chosen paths.
	Execute(ctx context.Context, root string, reportPath string, payload map[string]any) (entities.ExecutionResult, error)
}

// CacheCoordinator defines the interface for deciding cache freshness and
// naming cache artifacts (C5).
type CacheCoordinator interface {
	// EntryPath returns the on-disk path for one cache entry.
	EntryPath(layout entities.RootLayout, entry entities.CacheEntry) string

	// NeedsRefresh reports whether the artifact at path is missing or
	// stale relative to ttl. The executor passes the report's own
	// CACHE.ttl_seconds override, else its configured default TTL, else
	// entities.DefaultCacheTTL.
	NeedsRefresh(ctx context.Context, path string, ttl time.Duration) (bool, error)

	// EnsureDirs idempotently creates the nine cache subdirectories.
	EnsureDirs(layout entities.RootLayout) error
}

// FileWatcher defines the interface for monitoring file system changes,
// used by `serve --dev` to log report SQL changes on disk.
type FileWatcher interface {
	// Watch starts monitoring a directory for changes.
	// Returns a channel of change events; returns error if setup fails.
	Watch(ctx context.Context, rootPath string) (<-chan FileChangeEvent, error)

	// Stop halts file watching and closes all channels.
	Stop() error
}

// FileChangeEvent describes a change detected by the file watcher.
type FileChangeEvent struct {
	// Path relative to the watched root
	Path string
	// Op is one of: create, write, remove, rename, chmod
	Op string
}

// Logger defines the interface for structured logging.
//
// Implementations MUST emit JSON logs to stderr. The logger is used
// throughout the application for tracing and debugging.
type Logger interface {
	// Debug logs a debug-level message.
	Debug(msg string, keysAndValues ...any)

	// Info logs an info-level message.
	Info(msg string, keysAndValues ...any)

	// Warn logs a warning-level message.
	Warn(msg string, keysAndValues ...any)

	// Error logs an error-level message.
	Error(msg string, err error, keysAndValues ...any)

	// WithContext returns a logger that includes the given context (for request/operation tracking).
	WithContext(ctx context.Context) Logger

	// WithFields returns a logger with additional structured fields.
	WithFields(keysAndValues ...any) Logger
}

// RuntimeConfig is the decoded shape of <root>/config.toml.
type RuntimeConfig struct {
	Server struct {
		Host    string `toml:"host"`
		Port    int    `toml:"port"`
		Workers int    `toml:"workers"`
	} `toml:"server"`
	Cache struct {
		TTLSeconds int `toml:"ttl_seconds"`
	} `toml:"cache"`
}

// ConfigLoader defines the interface for loading runtime configuration.
//
// Implementations read <root>/config.toml (TOML format); serve's flags
// override the loaded values when they differ from their defaults, and
// environment variables are not consulted.
type ConfigLoader interface {
	// LoadConfig reads <root>/config.toml and applies defaults.
	LoadConfig(ctx context.Context, root string) (RuntimeConfig, error)
}

// ReportFormatter defines the interface for formatting lint findings for
// human display.
//
// Implementations MAY use terminal formatting (via lipgloss) for CLI
// output and plain text for non-TTY environments.
type ReportFormatter interface {
	// PrintLintReport formats and displays taxonomy errors grouped by
	// the file they were raised against.
	PrintLintReport(findings map[string]entities.LintErrors)
}
