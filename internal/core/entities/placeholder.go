package entities

import "regexp"

// PlaceholderPattern matches `{{type name}}` tokens in report SQL.
// Mirrors report_parser.py's PLACEHOLDER_RE.
var PlaceholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_]+)\s+([^}]+?)\s*\}\}`)

// MetadataBlockPattern matches `/***NAME ... ***/` metadata blocks.
// Mirrors report_parser.py's METADATA_RE.
var MetadataBlockPattern = regexp.MustCompile(`(?s)/\*{3}([A-Z_]+)\s*(.*?)\*{3}/`)

// CTEDefPattern matches a CTE definition's leading `name AS (`.
// Mirrors report_parser.py's CTE_DEF_RE.
var CTEDefPattern = regexp.MustCompile(`(?i)\b([A-Za-z0-9_]+)\b\s+AS\s*\(`)

// MaterializePattern matches `name AS MATERIALIZE(_CLOSED)? (`.
// Mirrors report_parser.py's MATERIALIZE_RE.
var MaterializePattern = regexp.MustCompile(`(?i)\b([A-Za-z0-9_]+)\b\s+AS\s+MATERIALIZE(?:_CLOSED)?\s*\(`)

// PlaceholderType is the `type` half of a `{{type name}}` token.
type PlaceholderType string

const (
	PlaceholderConfig PlaceholderType = "config"
	PlaceholderParam  PlaceholderType = "param"
	PlaceholderBind   PlaceholderType = "bind"
	PlaceholderMat    PlaceholderType = "mat"
	PlaceholderImport PlaceholderType = "import"
	PlaceholderIdent  PlaceholderType = "ident"
	PlaceholderPath   PlaceholderType = "path"
)

// ValidPlaceholderTypes is the closed set of placeholder types accepted
// anywhere in a report's SQL (spec.md §6).
var ValidPlaceholderTypes = map[PlaceholderType]bool{
	PlaceholderConfig: true,
	PlaceholderParam:  true,
	PlaceholderBind:   true,
	PlaceholderMat:    true,
	PlaceholderImport: true,
	PlaceholderIdent:  true,
	PlaceholderPath:   true,
}

// Placeholder is one parsed `{{type name}}` occurrence.
type Placeholder struct {
	Type PlaceholderType
	Name string
	// Raw is the exact matched text.
	Raw string
}
