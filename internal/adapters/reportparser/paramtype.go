package reportparser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/madstone-tech/ducksearch/internal/core/entities"
)

var primitiveKinds = map[string]entities.Primitive{
	"int":         entities.PrimitiveInt,
	"float":       entities.PrimitiveFloat,
	"bool":        entities.PrimitiveBool,
	"date":        entities.PrimitiveDate,
	"datetime":    entities.PrimitiveDatetime,
	"str":         entities.PrimitiveStr,
	"InjectedStr": entities.PrimitiveInjectedStr,
}

// parseParamType is a shallow recursive descent over Optional[_], List[_],
// Literal[...], InjectedIdentLiteral[...], and the seven primitives.
// Ported from report_parser.py's parse_param_type.
func parseParamType(spec string) (entities.ParameterType, error) {
	text := strings.TrimSpace(spec)

	switch {
	case strings.HasPrefix(text, "Optional[") && strings.HasSuffix(text, "]"):
		inner, err := parseParamType(text[len("Optional[") : len(text)-1])
		if err != nil {
			return entities.ParameterType{}, err
		}
		return entities.ParameterType{Kind: entities.KindOptional, Inner: &inner}, nil

	case strings.HasPrefix(text, "List[") && strings.HasSuffix(text, "]"):
		inner, err := parseParamType(text[len("List[") : len(text)-1])
		if err != nil {
			return entities.ParameterType{}, err
		}
		return entities.ParameterType{Kind: entities.KindList, Inner: &inner}, nil

	case strings.HasPrefix(text, "Literal[") && strings.HasSuffix(text, "]"):
		literals, err := parseLiteralValues(text[len("Literal[") : len(text)-1])
		if err != nil {
			return entities.ParameterType{}, err
		}
		return entities.ParameterType{Kind: entities.KindLiteral, Literals: literals}, nil

	case strings.HasPrefix(text, "InjectedIdentLiteral[") && strings.HasSuffix(text, "]"):
		literals, err := parseLiteralValues(text[len("InjectedIdentLiteral[") : len(text)-1])
		if err != nil {
			return entities.ParameterType{}, err
		}
		return entities.ParameterType{Kind: entities.KindInjectedIdentLiteral, Literals: literals}, nil
	}

	if prim, ok := primitiveKinds[text]; ok {
		return entities.ParameterType{Kind: entities.KindPrimitive, Primitive: prim}, nil
	}

	return entities.ParameterType{}, fmt.Errorf("unsupported parameter type: %s", spec)
}

// parseLiteralValues parses a comma-separated list of literal values
// (strings, ints, floats, booleans — no arbitrary expressions). Ported
// from report_parser.py's _parse_literal_values (which defers to Python's
// ast.literal_eval on a synthetic list literal).
func parseLiteralValues(body string) ([]any, error) {
	tokens, err := splitLiteralTokens(body)
	if err != nil {
		return nil, err
	}

	values := make([]any, 0, len(tokens))
	for _, tok := range tokens {
		val, err := parseLiteralToken(tok)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	return values, nil
}

// splitLiteralTokens splits a literal-list body on top-level commas,
// respecting quoted strings.
func splitLiteralTokens(body string) ([]string, error) {
	var tokens []string
	var current []byte
	var inString byte

	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case inString != 0:
			current = append(current, ch)
			if ch == inString {
				inString = 0
			}
		case ch == '\'' || ch == '"':
			inString = ch
			current = append(current, ch)
		case ch == ',':
			tokens = append(tokens, trimSpace(string(current)))
			current = current[:0]
		default:
			current = append(current, ch)
		}
	}
	if inString != 0 {
		return nil, fmt.Errorf("unterminated string literal in %q", body)
	}

	tail := trimSpace(string(current))
	if tail != "" || len(tokens) > 0 {
		tokens = append(tokens, tail)
	}

	result := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if tok != "" {
			result = append(result, tok)
		}
	}
	return result, nil
}

func parseLiteralToken(tok string) (any, error) {
	if len(tok) >= 2 && (tok[0] == '\'' || tok[0] == '"') && tok[len(tok)-1] == tok[0] {
		return tok[1 : len(tok)-1], nil
	}
	switch tok {
	case "True", "true":
		return true, nil
	case "False", "false":
		return false, nil
	}
	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("literal must parse to a string, number, or boolean: %q", tok)
}
