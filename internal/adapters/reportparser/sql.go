package reportparser

import (
	"regexp"
	"strings"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
)

var illegalKeywords = []string{
	"attach", "install", "load", "pragma", "set",
	"create", "alter", "drop", "insert", "update", "delete",
}

type keywordPattern struct {
	keyword string
	regex   *regexp.Regexp
}

var illegalKeywordPatterns = buildKeywordPatterns(illegalKeywords)

func buildKeywordPatterns(keywords []string) []keywordPattern {
	patterns := make([]keywordPattern, len(keywords))
	for i, kw := range keywords {
		patterns[i] = keywordPattern{keyword: kw, regex: regexp.MustCompile(`(?i)\b` + kw + `\b`)}
	}
	return patterns
}

var copyPattern = regexp.MustCompile(`(?i)\bcopy\b`)
var toPattern = regexp.MustCompile(`(?i)\bto\b`)
var parquetFormatPattern = regexp.MustCompile(`(?i)\bformat\b[^;]*\bparquet\b`)

// detectIllegalConstructs rejects attach/install/load/pragma/set/create/
// alter/drop/insert/update/delete anywhere in sanitized SQL, and any COPY
// usage that isn't `COPY ... TO ... (... FORMAT parquet ...)`. Ported from
// report_parser.py's _detect_illegal_constructs.
func detectIllegalConstructs(sql string) error {
	for _, pattern := range illegalKeywordPatterns {
		if pattern.regex.MatchString(sql) {
			return entities.NewTaxonomyError(entities.CodeIllegalSQL, "", "illegal SQL construct detected: "+pattern.keyword)
		}
	}

	for _, loc := range copyPattern.FindAllStringIndex(sql, -1) {
		statement := sql[loc[0]:]
		if idx := strings.IndexByte(statement, ';'); idx >= 0 {
			statement = statement[:idx]
		}

		toLoc := toPattern.FindStringIndex(statement)
		var optionsSegment string
		if toLoc != nil {
			optionsSegment = statement[toLoc[1]:]
		}
		if toLoc == nil || !parquetFormatPattern.MatchString(optionsSegment) {
			return entities.NewTaxonomyError(entities.CodeIllegalSQL, "", "illegal SQL construct detected: copy")
		}
	}

	return nil
}

var parquetScanPattern = regexp.MustCompile(`(?i)parquet_scan\s*\(`)

// validateParquetPaths requires every parquet_scan(...) first argument to
// be a string literal or a {{bind <id>}} placeholder, forbidding string
// concatenation. Ported from report_parser.py's _validate_parquet_paths.
func validateParquetPaths(sql string) error {
	for _, loc := range parquetScanPattern.FindAllStringIndex(sql, -1) {
		start := loc[1]
		body, ok := entities.ExtractParenthetical(sql, start)
		if !ok {
			continue
		}
		arg := entities.FirstArgument(body)
		if arg == "" {
			continue
		}
		trimmed := strings.TrimSpace(arg)
		if strings.Contains(stripComments(trimmed), "||") {
			return entities.NewTaxonomyError(entities.CodeBadParquetPath, "", "parquet_scan path must not use string concatenation")
		}
		if trimmed[0] != '\'' && trimmed[0] != '"' {
			if m := entities.PlaceholderPattern.FindStringSubmatch(trimmed); m != nil && strings.EqualFold(m[1], "bind") {
				continue
			}
			return entities.NewTaxonomyError(entities.CodeBadParquetPath, "", "parquet_scan path must be a string literal")
		}
	}
	return nil
}

