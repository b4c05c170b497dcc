// Package compiler implements the placeholder compiler (C3): it rewrites
// materialization CTEs and substitutes `{{type name}}` placeholders that
// resolve purely from a report's declared parameters and config values.
// `mat`, `bind`, and `import` placeholders resolve to cache/import paths
// the execution pipeline only knows once it has recursed into imports and
// computed cache keys (runtime/__init__.py does this in the same pass as
// execution, not as a separate compile step); those tokens are left
// untouched here and substituted by the duckdbrt executor.
package compiler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
	"github.com/madstone-tech/ducksearch/internal/core/usecases"
)

var _ usecases.PlaceholderCompiler = (*Compiler)(nil)

// Compiler implements usecases.PlaceholderCompiler.
type Compiler struct{}

// New constructs a Compiler.
func New() *Compiler {
	return &Compiler{}
}

// Compile rewrites report.SQL's materialization CTEs and substitutes
// config/param/ident/path placeholders with SQL literals rendered from
// params. mat/bind/import placeholders are left as-is for the executor.
func (c *Compiler) Compile(ctx context.Context, report entities.Report, params usecases.ParameterBindings) (string, error) {
	sql := RewriteMaterialize(report.SQL)

	byName := make(map[string]entities.Parameter, len(report.Parameters))
	for _, p := range report.Parameters {
		byName[p.Name] = p
	}
	config := report.Config()

	var firstErr error
	substituted := entities.PlaceholderPattern.ReplaceAllStringFunc(sql, func(token string) string {
		if firstErr != nil {
			return token
		}
		match := entities.PlaceholderPattern.FindStringSubmatch(token)
		placeholderType := entities.PlaceholderType(strings.ToLower(match[1]))
		name := strings.TrimSpace(match[2])

		switch placeholderType {
		case entities.PlaceholderConfig:
			value, ok := config[name]
			if !ok {
				firstErr = entities.NewTaxonomyError(entities.CodeUnknownRef, report.Path, "unknown config placeholder: "+name)
				return token
			}
			return quoteString(value)

		case entities.PlaceholderParam, entities.PlaceholderPath:
			literal, err := renderParamLiteral(byName, params, name)
			if err != nil {
				firstErr = withReportPath(err, report.Path)
				return token
			}
			return literal

		case entities.PlaceholderIdent:
			literal, err := renderIdentLiteral(byName, params, name)
			if err != nil {
				firstErr = withReportPath(err, report.Path)
				return token
			}
			return literal

		case entities.PlaceholderMat, entities.PlaceholderBind, entities.PlaceholderImport:
			return token

		default:
			firstErr = entities.NewTaxonomyError(entities.CodeBadPlaceholderType, report.Path, "invalid placeholder type: "+string(placeholderType))
			return token
		}
	})

	if firstErr != nil {
		return "", firstErr
	}
	return substituted, nil
}

// RenderLiteral renders a Go value as a SQL literal. Exposed for the
// executor, which resolves `{{bind <id>}}` placeholders against values
// read back from DuckDB after a binding's cache file is persisted.
func RenderLiteral(value any) (string, error) {
	return renderLiteral(value)
}

// RewriteMaterialize rewrites every `<name> AS MATERIALIZE[_CLOSED] (...)`
// CTE header into plain `<name> AS (...)`, leaving the body untouched.
// Ported from runtime/__init__.py's _rewrite_materialize.
func RewriteMaterialize(sql string) string {
	return entities.MaterializePattern.ReplaceAllString(sql, "$1 AS (")
}

func withReportPath(err error, path string) error {
	if taxErr, ok := err.(*entities.TaxonomyError); ok && taxErr.Path == "" {
		taxErr.Path = path
		return taxErr
	}
	return err
}

func renderParamLiteral(byName map[string]entities.Parameter, params usecases.ParameterBindings, name string) (string, error) {
	if _, ok := byName[name]; !ok {
		return "", entities.NewTaxonomyError(entities.CodeUnknownRef, "", "unknown param placeholder: "+name)
	}
	value, ok := params.Values[name]
	if !ok {
		return "NULL", nil
	}
	return renderLiteral(value)
}

// renderIdentLiteral enforces spec.md §4.3's rule that `{{ident name}}`
// may only reference an injected_ident_literal parameter, rendering its
// value as a bare (quoted) identifier rather than a string literal.
func renderIdentLiteral(byName map[string]entities.Parameter, params usecases.ParameterBindings, name string) (string, error) {
	param, ok := byName[name]
	if !ok {
		return "", entities.NewTaxonomyError(entities.CodeUnknownRef, "", "unknown ident placeholder: "+name)
	}
	if param.Type.Kind != entities.KindInjectedIdentLiteral {
		return "", entities.NewTaxonomyError(entities.CodeBadPlaceholderType, "", "ident placeholder "+name+" requires an injected_ident_literal parameter")
	}
	value, ok := params.Values[name]
	if !ok {
		return "", entities.NewTaxonomyError(entities.CodeUnknownRef, "", "ident placeholder "+name+" has no bound value")
	}
	ident, ok := value.(string)
	if !ok {
		return "", entities.NewTaxonomyError(entities.CodeBadType, "", "ident placeholder "+name+" value must be a string")
	}
	return quoteIdent(ident), nil
}

// renderLiteral renders a Go value as a SQL literal: strings are quoted
// with doubled single quotes, booleans become TRUE/FALSE, numbers are
// stringified verbatim, nil becomes NULL, and slices become a
// parenthesized literal list.
func renderLiteral(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "NULL", nil
	case string:
		return quoteString(v), nil
	case bool:
		if v {
			return "TRUE", nil
		}
		return "FALSE", nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			rendered, err := renderLiteral(item)
			if err != nil {
				return "", err
			}
			parts[i] = rendered
		}
		return "(" + strings.Join(parts, ", ") + ")", nil
	default:
		return "", fmt.Errorf("unsupported parameter value type %T", value)
	}
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(name string) string {
	if entities.IsPlainIdentifier(name) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
