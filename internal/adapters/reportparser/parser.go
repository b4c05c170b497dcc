// Package reportparser implements the report parser and linter (C2): it
// extracts metadata blocks, splits statements, validates schema, enforces
// cross-reference integrity, detects dependency cycles, and rejects
// illegal SQL constructs. Ported from report_parser.py.
package reportparser

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
	"github.com/madstone-tech/ducksearch/internal/core/usecases"
)

var _ usecases.ReportParser = (*Parser)(nil)

// Parser implements usecases.ReportParser by reading a report file from
// disk and parsing its metadata blocks and SQL body.
type Parser struct{}

// New constructs a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse reads path and parses it into a Report. path is used verbatim as
// Report.Path; callers that need a reports/-relative path for cache
// keying compute it themselves from their own root layout.
func (p *Parser) Parse(ctx context.Context, path string) (entities.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entities.Report{}, entities.NewTaxonomyError(entities.CodePathMissing, path, err.Error())
	}
	return parseReportSQL(path, string(data))
}

func parseReportSQL(path, text string) (entities.Report, error) {
	metadata, stripped, err := extractMetadata(text)
	if err != nil {
		return entities.Report{}, withPath(err, path)
	}

	if err := validateMetadataSchema(metadata); err != nil {
		return entities.Report{}, withPath(err, path)
	}

	statements := splitTopLevelStatements(stripped)
	if len(statements) != 1 {
		return entities.Report{}, entities.NewTaxonomyError(entities.CodeMultipleStatements, path, "report SQL must contain exactly one statement")
	}

	params, err := parseParams(metadata, stripped)
	if err != nil {
		return entities.Report{}, withPath(err, path)
	}

	if err := validateCrossReferences(metadata, params); err != nil {
		return entities.Report{}, withPath(err, path)
	}

	sanitized := stripComments(stripped)
	if err := detectIllegalConstructs(sanitized); err != nil {
		return entities.Report{}, withPath(err, path)
	}
	if err := validateParquetPaths(sanitized); err != nil {
		return entities.Report{}, withPath(err, path)
	}
	if err := validatePlaceholders(stripped, metadata, params); err != nil {
		return entities.Report{}, withPath(err, path)
	}

	return entities.Report{
		Path:       path,
		SQL:        strings.TrimSpace(stripped),
		Metadata:   metadata,
		Parameters: params,
	}, nil
}

func withPath(err error, path string) error {
	if taxErr, ok := err.(*entities.TaxonomyError); ok && taxErr.Path == "" {
		taxErr.Path = path
		return taxErr
	}
	return err
}

// extractMetadata pulls every /***NAME ... ***/ block out of sql, parses
// its body as YAML, and returns the stripped SQL with blocks removed.
// Ported from report_parser.py's _extract_metadata.
func extractMetadata(sql string) (map[entities.MetadataBlock]any, string, error) {
	metadata := make(map[entities.MetadataBlock]any)
	stripped := sql

	for _, match := range entities.MetadataBlockPattern.FindAllStringSubmatch(sql, -1) {
		full, blockName, body := match[0], entities.MetadataBlock(match[1]), strings.TrimSpace(match[2])

		if !entities.SupportedBlocks[blockName] {
			return nil, "", entities.NewTaxonomyError(entities.CodeUnsupportedBlock, "", "unsupported metadata block: "+string(blockName))
		}

		var value any
		if body != "" {
			if err := yaml.Unmarshal([]byte(body), &value); err != nil {
				return nil, "", entities.NewTaxonomyError(entities.CodeSchemaInvalid, "", fmt.Sprintf("invalid YAML in %s block: %v", blockName, err))
			}
			value = normalizeYAML(value)
		}
		if value == nil {
			value = map[string]any{}
		}
		metadata[blockName] = value
		stripped = strings.Replace(stripped, full, "", 1)
	}

	return metadata, stripped, nil
}

// normalizeYAML recursively converts yaml.v3's map[string]interface{}
// decode target into the map[string]any / []any shape the rest of this
// package (and entities.Report's accessors) expect; yaml.v3 already
// produces these for generic `any` targets, so this mostly passes values
// through, normalizing map[any]any edge cases defensively.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeYAML(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return v
	}
}

// parseParams builds the ordered Parameter list from the PARAMS block.
// Ported from report_parser.py's _parse_params.
func parseParams(metadata map[entities.MetadataBlock]any, sql string) ([]entities.Parameter, error) {
	raw, _ := metadata[entities.BlockParams].(map[string]any)
	if raw == nil {
		return nil, nil
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	seenLower := make(map[string]bool, len(names))
	params := make([]entities.Parameter, 0, len(names))

	for _, name := range names {
		cfgAny := raw[name]
		cfg, ok := cfgAny.(map[string]any)
		if !ok {
			return nil, entities.NewTaxonomyError(entities.CodeSchemaInvalid, "", "PARAMS entries must be mappings")
		}

		if err := entities.ValidateIdentifier("parameter", name); err != nil {
			return nil, entities.NewTaxonomyError(entities.CodeBadType, "", err.Error())
		}

		lowered := entities.FoldCase(name)
		if seenLower[lowered] {
			return nil, entities.NewTaxonomyError(entities.CodeDuplicateId, "", "duplicate parameter names differ only by case")
		}
		seenLower[lowered] = true

		typeSpec, ok := cfg["type"].(string)
		if !ok {
			return nil, entities.NewTaxonomyError(entities.CodeBadType, "", "parameter "+name+" is missing a type")
		}
		paramType, err := parseParamType(typeSpec)
		if err != nil {
			return nil, entities.NewTaxonomyError(entities.CodeBadType, "", err.Error())
		}

		scope, _ := cfg["scope"].(string)
		if scope == "" {
			scope = string(inferScope(name, sql))
		}
		if scope != string(entities.ScopeData) && scope != string(entities.ScopeView) && scope != string(entities.ScopeHybrid) {
			return nil, entities.NewTaxonomyError(entities.CodeBadScope, "", "invalid scope for "+name+": "+scope)
		}

		var appliesTo *entities.AppliesTo
		if rawApplies, ok := cfg["applies_to"]; ok && rawApplies != nil {
			appliesTo, err = parseAppliesTo(rawApplies)
			if err != nil {
				return nil, err
			}
			if err := enforceAppliesTo(sql, *appliesTo); err != nil {
				return nil, err
			}
		}

		params = append(params, entities.Parameter{
			Name:      name,
			Type:      paramType,
			Scope:     entities.ParameterScope(scope),
			AppliesTo: appliesTo,
		})
	}

	return params, nil
}

func parseAppliesTo(raw any) (*entities.AppliesTo, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, entities.NewTaxonomyError(entities.CodeSchemaInvalid, "", "applies_to must be a mapping")
	}
	cte, _ := m["cte"].(string)
	mode, _ := m["mode"].(string)
	if cte == "" || mode == "" {
		return nil, entities.NewTaxonomyError(entities.CodeSchemaInvalid, "", "applies_to requires cte and mode")
	}
	if mode != string(entities.ModeWrapper) && mode != string(entities.ModeInline) {
		return nil, entities.NewTaxonomyError(entities.CodeSchemaInvalid, "", "applies_to mode must be wrapper or inline")
	}
	return &entities.AppliesTo{CTE: cte, Mode: entities.AppliesToMode(mode)}, nil
}

// enforceAppliesTo checks that the named CTE (and, for wrapper mode, its
// `<cte>_base` sibling) is actually defined in sql. Ported from
// report_parser.py's _enforce_applies_to.
func enforceAppliesTo(sql string, applies entities.AppliesTo) error {
	cteNames := cteNameSet(sql)
	if !cteNames[applies.CTE] {
		return entities.NewTaxonomyError(entities.CodeUnknownRef, "", "CTE "+applies.CTE+" not defined in SQL")
	}
	if applies.Mode == entities.ModeWrapper {
		baseName := applies.CTE + "_base"
		if !cteNames[baseName] {
			return entities.NewTaxonomyError(entities.CodeUnknownRef, "", "wrapper applies_to expects "+baseName+" CTE")
		}
	}
	return nil
}

func cteNameSet(sql string) map[string]bool {
	names := make(map[string]bool)
	for _, match := range entities.CTEDefPattern.FindAllStringSubmatch(sql, -1) {
		names[match[1]] = true
	}
	return names
}

// inferScope infers data/view scope per spec.md §4.2: a report body
// referencing {{param <name>}} or {{ident <name>}} implies data scope.
func inferScope(name, sql string) entities.ParameterScope {
	for _, match := range entities.PlaceholderPattern.FindAllStringSubmatch(sql, -1) {
		t := lower(match[1])
		if (t == "param" || t == "ident") && trimSpace(match[2]) == name {
			return entities.ScopeData
		}
	}
	return entities.ScopeView
}
