package entities

// MetadataBlock is one of the closed set of 13 metadata block names a
// report may declare (spec.md §3).
type MetadataBlock string

const (
	BlockParams         MetadataBlock = "PARAMS"
	BlockConfig         MetadataBlock = "CONFIG"
	BlockSources        MetadataBlock = "SOURCES"
	BlockCache          MetadataBlock = "CACHE"
	BlockTable          MetadataBlock = "TABLE"
	BlockSearch         MetadataBlock = "SEARCH"
	BlockFacets         MetadataBlock = "FACETS"
	BlockCharts         MetadataBlock = "CHARTS"
	BlockDerivedParams  MetadataBlock = "DERIVED_PARAMS"
	BlockLiteralSources MetadataBlock = "LITERAL_SOURCES"
	BlockBindings       MetadataBlock = "BINDINGS"
	BlockImports        MetadataBlock = "IMPORTS"
	BlockSecrets        MetadataBlock = "SECRETS"
)

// SupportedBlocks is the closed set of metadata block names. Any other
// name encountered in a report raises UnsupportedBlock.
var SupportedBlocks = map[MetadataBlock]bool{
	BlockParams:         true,
	BlockConfig:         true,
	BlockSources:        true,
	BlockCache:          true,
	BlockTable:          true,
	BlockSearch:         true,
	BlockFacets:         true,
	BlockCharts:         true,
	BlockDerivedParams:  true,
	BlockLiteralSources: true,
	BlockBindings:       true,
	BlockImports:        true,
	BlockSecrets:        true,
}

// Report is the product of parsing one report SQL file (spec.md §3).
type Report struct {
	// Path is the report file path exactly as passed to the parser (the
	// executor passes an absolute path); cache keys are derived separately
	// from the reports/-relative path.
	Path string
	// SQL is the original SQL with metadata blocks stripped.
	SQL string
	// Metadata maps block name to its parsed payload (a mapping or list
	// of mappings, depending on the block).
	Metadata map[MetadataBlock]any
	// Parameters is the ordered list of declared parameters.
	Parameters []Parameter
}

// BindingSpec describes one BINDINGS metadata entry (spec.md §4.2): a
// named SQL fragment materialized from either a literal key parameter or
// an arbitrary key expression.
type BindingSpec struct {
	ID          string
	Source      string
	KeyColumn   string
	ValueColumn string
	Kind        string
	KeyParam    string
	KeySQL      string
	ValueMode   string // one of {single, list, path_list_literal}
}

// ImportSpec describes one IMPORTS metadata entry: another report pulled
// in by relative path and bound to a local id.
type ImportSpec struct {
	ID         string
	Path       string
	PassParams []string
}

// entryList coerces a raw decoded metadata value into a slice of
// key/value entries, accepting both []any (the shape yaml.v3 produces
// when decoding into interface{}) and []map[string]any (used directly by
// tests and in-memory construction).
func entryList(raw any) []map[string]any {
	switch v := raw.(type) {
	case []map[string]any:
		return v
	case []any:
		entries := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				entries = append(entries, m)
			}
		}
		return entries
	default:
		return nil
	}
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Bindings returns the report's BINDINGS metadata entries, typed.
func (r Report) Bindings() []BindingSpec {
	entries := entryList(r.Metadata[BlockBindings])
	specs := make([]BindingSpec, 0, len(entries))
	for _, entry := range entries {
		specs = append(specs, BindingSpec{
			ID:          stringField(entry, "id"),
			Source:      stringField(entry, "source"),
			KeyColumn:   stringField(entry, "key_column"),
			ValueColumn: stringField(entry, "value_column"),
			Kind:        stringField(entry, "kind"),
			KeyParam:    stringField(entry, "key_param"),
			KeySQL:      stringField(entry, "key_sql"),
			ValueMode:   stringField(entry, "value_mode"),
		})
	}
	return specs
}

// Imports returns the report's IMPORTS metadata entries, typed.
func (r Report) Imports() []ImportSpec {
	entries := entryList(r.Metadata[BlockImports])
	specs := make([]ImportSpec, 0, len(entries))
	for _, entry := range entries {
		spec := ImportSpec{
			ID:   stringField(entry, "id"),
			Path: stringField(entry, "report"),
		}
		if raw, ok := entry["pass_params"].([]any); ok {
			for _, p := range raw {
				if s, ok := p.(string); ok {
					spec.PassParams = append(spec.PassParams, s)
				}
			}
		}
		specs = append(specs, spec)
	}
	return specs
}

// LiteralSourceSpec describes one LITERAL_SOURCES metadata entry: a
// projection of a named CTE's column, persisted as its own artifact.
type LiteralSourceSpec struct {
	ID          string
	FromCTE     string
	ValueColumn string
}

// LiteralSources returns the report's LITERAL_SOURCES metadata entries, typed.
func (r Report) LiteralSources() []LiteralSourceSpec {
	entries := entryList(r.Metadata[BlockLiteralSources])
	specs := make([]LiteralSourceSpec, 0, len(entries))
	for _, entry := range entries {
		specs = append(specs, LiteralSourceSpec{
			ID:          stringField(entry, "id"),
			FromCTE:     stringField(entry, "from_cte"),
			ValueColumn: stringField(entry, "value_column"),
		})
	}
	return specs
}

// Config returns the report's CONFIG metadata block as a string map.
func (r Report) Config() map[string]string {
	raw, _ := r.Metadata[BlockConfig].(map[string]any)
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

// CacheTTLSeconds returns the report's CACHE.ttl_seconds override, or
// (0, false) if the report does not set one.
func (r Report) CacheTTLSeconds() (int, bool) {
	raw, ok := r.Metadata[BlockCache].(map[string]any)
	if !ok {
		return 0, false
	}
	switch v := raw["ttl_seconds"].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
