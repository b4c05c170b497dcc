package duckdbrt

import (
	"strings"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
)

// extractMaterializationBodies finds every `<name> AS MATERIALIZE[_CLOSED]
// (...)` CTE in sql (before the compiler's header rewrite) and returns
// each name's parenthesized body, keyed by CTE name. Ported from
// runtime/__init__.py's _extract_materialization_bodies.
func extractMaterializationBodies(sql string) map[string]string {
	bodies := make(map[string]string)
	for _, match := range entities.MaterializePattern.FindAllStringSubmatchIndex(sql, -1) {
		name := sql[match[2]:match[3]]
		body, ok := entities.ExtractParenthetical(sql, match[1])
		if ok {
			bodies[name] = body
		}
	}
	return bodies
}

// substituteRuntimePlaceholders resolves the `mat`, `bind`, and `import`
// placeholders the compiler deliberately left untouched, now that cache
// paths, import results, and (once resolved) binding values are known.
// bindValues is nil on the first pass, before bindings have executed;
// `bind` tokens are left untouched until the second pass supplies it.
// Ported from runtime/__init__.py's _build_placeholder_replacements/
// _substitute_placeholders, extended to actually resolve `bind` (the
// original never does, despite the report parser validating it).
func substituteRuntimePlaceholders(sql string, layout entities.RootLayout, cacheKey string, importPaths map[string]string, bindValues map[string]string) string {
	return entities.PlaceholderPattern.ReplaceAllStringFunc(sql, func(token string) string {
		match := entities.PlaceholderPattern.FindStringSubmatch(token)
		placeholderType := entities.PlaceholderType(strings.ToLower(match[1]))
		name := strings.TrimSpace(match[2])

		switch placeholderType {
		case entities.PlaceholderMat:
			path := entities.CacheEntry{Stage: entities.StageMaterialize, Key: cacheKey, Name: name}.Path(layout.CacheDir)
			return "'" + toPosix(path) + "'"
		case entities.PlaceholderImport:
			if path, ok := importPaths[name]; ok {
				return "'" + toPosix(path) + "'"
			}
			return token
		case entities.PlaceholderBind:
			if literal, ok := bindValues[name]; ok {
				return literal
			}
			return token
		default:
			return token
		}
	})
}

// selectPassParams restricts payload to the keys an IMPORTS entry's
// pass_params names, so a child report only ever sees the parameters its
// parent explicitly forwards.
func selectPassParams(payload map[string]any, passParams []string) map[string]any {
	if len(passParams) == 0 {
		return nil
	}
	allowed := make(map[string]bool, len(passParams))
	for _, name := range passParams {
		allowed[name] = true
	}
	out := make(map[string]any)
	for k, v := range payload {
		bare := strings.TrimPrefix(k, "__client__")
		if allowed[bare] {
			out[k] = v
		}
	}
	return out
}

// FoldPayload folds a request payload into the canonical server-side
// value mapping per spec.md §4.4: a bare name always wins over its
// `__client__<name>` variant, and a `__client__`-only key leaves the
// parameter absent from the server-side substitution so the cache key
// stays invariant to it. Case-insensitive duplicate raw keys are fatal.
func FoldPayload(payload map[string]any) (map[string]any, error) {
	seen := make(map[string]string, len(payload))
	for k := range payload {
		lower := entities.FoldCase(k)
		if prev, ok := seen[lower]; ok && prev != k {
			return nil, entities.NewTaxonomyError(entities.CodeDuplicateParamKey, "", "duplicate payload key (case-insensitive): "+k+" / "+prev)
		}
		seen[lower] = k
	}

	values := make(map[string]any, len(payload))
	for k, v := range payload {
		if !strings.HasPrefix(k, "__client__") {
			values[k] = v
		}
	}
	return values, nil
}
