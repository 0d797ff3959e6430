package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nathan-king/rcss-preprocessor/internal/ast"
	"github.com/nathan-king/rcss-preprocessor/internal/theme"
)

// shorthandExpansion is one declaration produced by a shorthand step,
// carrying the step's append flag so the caller can apply the
// replace-unless-append merge rule.
type shorthandExpansion struct {
	Decl   ast.Declaration
	Append bool
}

var reShorthandHole = regexp.MustCompile(`@\{([A-Za-z0-9_]+)\}`)

// expandShorthand expands a shorthand property's raw value: tokenise,
// assign keys (keyed, positional, or the bare pseudo-key "token"), then
// instantiate each step's template.
func (r *Resolver) expandShorthand(propName string, def theme.ShorthandDef, rawValue string, span ast.Span) ([]shorthandExpansion, error) {
	values, err := r.parseShorthandValue(propName, def, rawValue, span)
	if err != nil {
		return nil, err
	}

	var out []shorthandExpansion
	for _, step := range def.Steps {
		val, applied, err := r.instantiateShorthandStep(step, values, propName, span)
		if err != nil {
			return nil, err
		}
		if !applied {
			continue
		}
		out = append(out, shorthandExpansion{
			Decl:   ast.Declaration{Property: step.Property, Value: val, Span: span},
			Append: step.Append,
		})
	}
	return out, nil
}

// parseShorthandValue tokenises rawValue and assigns each token to a step
// key: an explicit `key=value` or `key(value)` token assigns its key
// directly; a bare token fills the next unfilled slot in def.Order; a bare
// token with no slot left (including an empty def.Order) is assigned the
// pseudo-key "token".
func (r *Resolver) parseShorthandValue(propName string, def theme.ShorthandDef, rawValue string, span ast.Span) (map[string]string, error) {
	rawValue = strings.TrimSpace(rawValue)
	if rawValue == "" {
		return nil, fmt.Errorf("Shorthand value cannot be empty")
	}
	substituted, err := r.substituteVariables(rawValue, 0)
	if err != nil {
		return nil, withSpan(span, err)
	}

	tokens, err := splitShorthandTokens(substituted)
	if err != nil {
		return nil, err
	}
	aliasMap := buildShorthandAliasMap(propName, def.Order)

	values := make(map[string]string)
	filled := make(map[string]bool)
	var positionalRaws []string

	for _, raw := range tokens {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		key, val, keyed := classifyShorthandToken(raw)
		if keyed {
			canon := canonicalizeShorthandKey(key, aliasMap)
			values[canon] = val
			filled[canon] = true
			continue
		}
		positionalRaws = append(positionalRaws, val)
	}

	slot := 0
	for _, val := range positionalRaws {
		assigned := false
		for slot < len(def.Order) {
			key := def.Order[slot]
			slot++
			if filled[key] {
				continue
			}
			values[key] = val
			filled[key] = true
			assigned = true
			break
		}
		if !assigned {
			values["token"] = val
		}
	}
	return values, nil
}

// splitShorthandTokens splits a shorthand value on whitespace, except that
// a `name(...)` call is kept as one token even if its arguments contain
// spaces.
func splitShorthandTokens(s string) ([]string, error) {
	var out []string
	i, n := 0, len(s)
	for i < n {
		for i < n && isSpaceByte(s[i]) {
			i++
		}
		if i >= n {
			break
		}
		start := i
		for i < n && !isSpaceByte(s[i]) {
			switch s[i] {
			case '(':
				_, end, err := readBalancedParens(s, i)
				if err != nil {
					return nil, err
				}
				i = end
			case '"', '\'':
				i = skipQuoted(s, i)
			default:
				i++
			}
		}
		out = append(out, s[start:i])
	}
	return out, nil
}

func classifyShorthandToken(tok string) (key, value string, isKeyed bool) {
	if idx := strings.IndexByte(tok, '='); idx > 0 && !strings.Contains(tok[:idx], "(") {
		return tok[:idx], tok[idx+1:], true
	}
	if idx := strings.IndexByte(tok, '('); idx > 0 && strings.HasSuffix(tok, ")") {
		return tok[:idx], tok[idx+1 : len(tok)-1], true
	}
	return "", tok, false
}

// instantiateShorthandStep fills a step's template from values, resolving
// each referenced token value against the step's target property.
func (r *Resolver) instantiateShorthandStep(step theme.ShorthandStep, values map[string]string, shorthandName string, span ast.Span) (string, bool, error) {
	result := step.Template
	for _, m := range reShorthandHole.FindAllStringSubmatch(step.Template, -1) {
		key := m[1]
		raw, ok := values[key]
		if !ok {
			if step.Optional {
				return "", false, nil
			}
			return "", false, fmt.Errorf("Missing required value for shorthand '%s' template '%s'", shorthandName, step.Template)
		}
		resolved, err := r.resolveShorthandArg(raw, step.Property, span)
		if err != nil {
			return "", false, err
		}
		result = strings.ReplaceAll(result, "@{"+key+"}", resolved)
	}
	return result, true, nil
}

func (r *Resolver) resolveShorthandArg(raw, property string, span ast.Span) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "@") && len(raw) > 1 && (isTokenChar(raw[1]) || raw[1] == '(') {
		if raw[1] == '(' {
			inner, _, err := readBalancedParens(raw, 1)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf(`url("%s")`, inner), nil
		}
		name, _ := scanTokenName(raw, 1)
		return r.resolveToken(property, name)
	}
	return rewriteColorFunctions(raw), nil
}

// buildShorthandAliasMap derives a shorthand's key-alias table: each order
// key maps to itself, its camelCase and kebab-case spellings,
// and — when it's prefixed by the shorthand's own name — its bare suffix
// (e.g. order key "borderWidth" for shorthand "border" also aliases "width").
func buildShorthandAliasMap(propName string, order []string) map[string]string {
	aliasMap := make(map[string]string, len(order)*3)
	lowerProp := strings.ToLower(propName)
	for _, key := range order {
		aliasMap[key] = key
		aliasMap[strings.ToLower(key)] = key
		kebab := camelToKebab(key)
		aliasMap[kebab] = key
		aliasMap[strings.ToLower(kebab)] = key

		if len(key) > len(propName) && strings.HasPrefix(strings.ToLower(key), lowerProp) {
			suffix := key[len(propName):]
			suffix = strings.ToLower(suffix[:1]) + suffix[1:]
			aliasMap[suffix] = key
			aliasMap[camelToKebab(suffix)] = key
		}
	}
	return aliasMap
}

func canonicalizeShorthandKey(key string, aliasMap map[string]string) string {
	if canon, ok := aliasMap[key]; ok {
		return canon
	}
	if canon, ok := aliasMap[strings.ToLower(key)]; ok {
		return canon
	}
	if canon, ok := aliasMap[kebabToCamel(key)]; ok {
		return canon
	}
	return key
}

func camelToKebab(s string) string {
	var b strings.Builder
	for i, c := range s {
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(c - 'A' + 'a')
		} else {
			b.WriteRune(c)
		}
	}
	return b.String()
}
