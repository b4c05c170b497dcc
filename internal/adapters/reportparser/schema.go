package reportparser

import (
	"fmt"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
)

// validateMetadataSchema checks each block's decoded payload against the
// shape spec.md §4.2 requires. Ported from report_parser.py's
// _validate_metadata_schema.
func validateMetadataSchema(metadata map[entities.MetadataBlock]any) error {
	for block, value := range metadata {
		switch block {
		case entities.BlockConfig:
			m, err := ensureMapping(value, "CONFIG block must be a mapping")
			if err != nil {
				return err
			}
			for key, val := range m {
				if _, ok := val.(string); !ok {
					return schemaErr(fmt.Sprintf("CONFIG %s must be a string type hint", key))
				}
			}

		case entities.BlockCache:
			m, err := ensureMapping(value, "CACHE block must be a mapping")
			if err != nil {
				return err
			}
			if ttl, present := m["ttl_seconds"]; present {
				if _, isBool := ttl.(bool); isBool {
					return schemaErr("CACHE ttl_seconds must be a number")
				}
				n, ok := asFloat(ttl)
				if !ok {
					return schemaErr("CACHE ttl_seconds must be a number")
				}
				if n <= 0 {
					return schemaErr("CACHE ttl_seconds must be positive")
				}
			}

		case entities.BlockParams:
			if _, err := ensureMapping(value, "PARAMS block must be a mapping"); err != nil {
				return err
			}

		case entities.BlockSources, entities.BlockTable, entities.BlockSearch,
			entities.BlockFacets, entities.BlockCharts, entities.BlockDerivedParams,
			entities.BlockSecrets:
			if _, err := ensureMapping(value, string(block)+" block must be a mapping"); err != nil {
				return err
			}

		case entities.BlockLiteralSources:
			entries, err := ensureListOfMappings(value, "LITERAL_SOURCES must be a list of mappings")
			if err != nil {
				return err
			}
			for _, entry := range entries {
				for _, key := range []string{"id", "from_cte", "value_column"} {
					if _, ok := entry[key]; !ok {
						return schemaErr("LITERAL_SOURCES entries require " + key)
					}
				}
			}

		case entities.BlockBindings:
			entries, err := ensureListOfMappings(value, "BINDINGS must be a list of mappings")
			if err != nil {
				return err
			}
			for _, entry := range entries {
				for _, key := range []string{"id", "source", "key_column", "value_column", "kind"} {
					if _, ok := entry[key]; !ok {
						return schemaErr("BINDINGS entries require " + key)
					}
				}
				_, hasParam := entry["key_param"]
				_, hasSQL := entry["key_sql"]
				if !hasParam && !hasSQL {
					return schemaErr("BINDINGS entries require key_param or key_sql")
				}
				if hasParam && hasSQL {
					return schemaErr("BINDINGS entries cannot set both key_param and key_sql")
				}
				if mode, ok := entry["value_mode"]; ok {
					modeStr, _ := mode.(string)
					if modeStr != "single" && modeStr != "list" && modeStr != "path_list_literal" {
						return schemaErr("BINDINGS value_mode must be single, list, or path_list_literal")
					}
				}
			}

		case entities.BlockImports:
			entries, err := ensureListOfMappings(value, "IMPORTS must be a list of mappings")
			if err != nil {
				return err
			}
			for _, entry := range entries {
				if _, ok := entry["id"]; !ok {
					return schemaErr("IMPORTS entries require id and report")
				}
				if _, ok := entry["report"]; !ok {
					return schemaErr("IMPORTS entries require id and report")
				}
				if pp, ok := entry["pass_params"]; ok {
					if _, ok := pp.([]any); !ok {
						return schemaErr("IMPORTS pass_params must be a list")
					}
				}
			}
		}
	}
	return nil
}

func schemaErr(message string) error {
	return entities.NewTaxonomyError(entities.CodeSchemaInvalid, "", message)
}

func ensureMapping(value any, message string) (map[string]any, error) {
	if value == nil {
		return map[string]any{}, nil
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil, schemaErr(message)
	}
	return m, nil
}

func ensureListOfMappings(value any, message string) ([]map[string]any, error) {
	if value == nil {
		return nil, nil
	}
	list, ok := value.([]any)
	if !ok {
		return nil, schemaErr(message)
	}
	entries := make([]map[string]any, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, schemaErr(message)
		}
		entries = append(entries, m)
	}
	return entries, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// validateCrossReferences checks binding/import id uniqueness and that
// every binding's key_param names a declared parameter. Ported from
// report_parser.py's _validate_cross_references.
func validateCrossReferences(metadata map[entities.MetadataBlock]any, params []entities.Parameter) error {
	paramNames := make(map[string]bool, len(params))
	for _, p := range params {
		paramNames[p.Name] = true
	}

	report := entities.Report{Metadata: metadata}

	seenBindIDs := make(map[string]bool)
	for _, b := range report.Bindings() {
		if seenBindIDs[b.ID] {
			return entities.NewTaxonomyError(entities.CodeDuplicateId, "", "duplicate binding id: "+b.ID)
		}
		seenBindIDs[b.ID] = true
		if b.KeyParam != "" && !paramNames[b.KeyParam] {
			return entities.NewTaxonomyError(entities.CodeUnknownRef, "", "binding "+b.ID+" refers to missing param "+b.KeyParam)
		}
	}

	seenImportIDs := make(map[string]bool)
	for _, imp := range report.Imports() {
		if seenImportIDs[imp.ID] {
			return entities.NewTaxonomyError(entities.CodeDuplicateId, "", "duplicate import id: "+imp.ID)
		}
		seenImportIDs[imp.ID] = true
	}

	return detectDependencyCycles(report)
}

// detectDependencyCycles builds the binding/import dependency graph and
// runs three-color DFS cycle detection over it.
func detectDependencyCycles(report entities.Report) error {
	graph := entities.NewDependencyGraph()

	for _, b := range report.Bindings() {
		graph.AddNode(b.ID)
		if b.Source != "" {
			graph.AddEdge(b.ID, b.Source)
		}
	}
	for _, imp := range report.Imports() {
		graph.AddNode(imp.ID)
		if imp.Path != "" {
			graph.AddEdge(imp.ID, imp.Path)
		}
	}

	if cycle := graph.DetectCycle(); cycle != nil {
		return entities.CycleError(cycle)
	}
	return nil
}

// validatePlaceholders checks that every {{type name}} occurrence names a
// known type and that its target resolves against the report's declared
// config/param/binding/materialization/import names. Ported from
// report_parser.py's _validate_placeholders.
func validatePlaceholders(sql string, metadata map[entities.MetadataBlock]any, params []entities.Parameter) error {
	report := entities.Report{Metadata: metadata}

	configNames := make(map[string]bool)
	for k := range report.Config() {
		configNames[k] = true
	}
	paramNames := make(map[string]bool, len(params))
	for _, p := range params {
		paramNames[p.Name] = true
	}
	bindingIDs := make(map[string]bool)
	for _, b := range report.Bindings() {
		bindingIDs[b.ID] = true
	}
	importIDs := make(map[string]bool)
	for _, imp := range report.Imports() {
		importIDs[imp.ID] = true
	}
	matNames := materializedCTEs(stripComments(sql))

	for _, match := range entities.PlaceholderPattern.FindAllStringSubmatch(sql, -1) {
		placeholderType := entities.PlaceholderType(lower(match[1]))
		name := trimSpace(match[2])

		if !entities.ValidPlaceholderTypes[placeholderType] {
			return entities.NewTaxonomyError(entities.CodeBadPlaceholderType, "", "invalid placeholder type: "+string(placeholderType))
		}

		var known bool
		switch placeholderType {
		case entities.PlaceholderConfig:
			known = configNames[name]
		case entities.PlaceholderParam, entities.PlaceholderIdent, entities.PlaceholderPath:
			known = paramNames[name]
		case entities.PlaceholderBind:
			known = bindingIDs[name]
		case entities.PlaceholderMat:
			known = matNames[name]
		case entities.PlaceholderImport:
			known = importIDs[name]
		}
		if !known {
			return entities.NewTaxonomyError(entities.CodeUnknownRef, "", "unknown "+string(placeholderType)+" placeholder: "+name)
		}
	}

	return nil
}

func materializedCTEs(sql string) map[string]bool {
	names := make(map[string]bool)
	for _, match := range entities.MaterializePattern.FindAllStringSubmatch(sql, -1) {
		names[match[1]] = true
	}
	return names
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
