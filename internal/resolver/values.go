// Package resolver expands a parsed Stylesheet in place: property-cluster
// blocks, shorthand templates, user-variable and theme-token substitution,
// and color-function rewriting, leaving pure CSS behind for the emitter.
package resolver

import (
	"fmt"
	"strings"

	"github.com/nathan-king/rcss-preprocessor/internal/ast"
)

const maxVariableDepth = 16

// resolveValue runs the three value-resolution passes in order: variable
// substitution, token interpolation, color-function rewriting.
func (r *Resolver) resolveValue(value, property string, span ast.Span) (string, error) {
	withVars, err := r.substituteVariables(value, 0)
	if err != nil {
		return "", withSpan(span, err)
	}
	withTokens, err := r.interpolateTokens(withVars, property)
	if err != nil {
		return "", withSpan(span, err)
	}
	return rewriteColorFunctions(withTokens), nil
}

func withSpan(span ast.Span, err error) error {
	if span.Line == 0 && span.Column == 0 {
		return err
	}
	return fmt.Errorf("%d:%d: %s", span.Line, span.Column, err.Error())
}

func isNameStart(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isNameCont(c byte) bool {
	return isNameStart(c) || (c >= '0' && c <= '9') || c == '-'
}

// isBoundaryBefore reports whether the character before a `$variable`
// sigil makes it a legal start position: whitespace, start-of-string, or
// punctuation outside [A-Za-z0-9_-].
func isBoundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	c := s[i-1]
	if isWhitespaceByte(c) {
		return true
	}
	return !isNameCont(c) && !isNameStart(c)
}

func isWhitespaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// isTokenBoundaryBefore reports whether the character before an `@token`
// sigil makes it a legal start position: whitespace, start-of-string, or
// one of the exact punctuation set `(){}[],;:+-*/%`. Unlike
// isBoundaryBefore, this is a closed set, not "anything that isn't a name
// character" — a token glued onto `.`, `=`, `!`, `<`, `#`, or `~` is not a
// legal boundary and must be rejected.
func isTokenBoundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	c := s[i-1]
	if isWhitespaceByte(c) {
		return true
	}
	switch c {
	case '(', ')', '{', '}', '[', ']', ',', ';', ':', '+', '-', '*', '/', '%':
		return true
	}
	return false
}

// substituteVariables replaces `$name` references with their raw value
// from the stylesheet's variable table, recursively, bounded to depth 16.
func (r *Resolver) substituteVariables(value string, depth int) (string, error) {
	if depth > maxVariableDepth {
		return "", fmt.Errorf("RCSS variable error: maximum recursion depth exceeded")
	}

	var out strings.Builder
	i := 0
	n := len(value)
	for i < n {
		c := value[i]
		if c == '"' || c == '\'' {
			j := skipQuoted(value, i)
			out.WriteString(value[i:j])
			i = j
			continue
		}
		if c == '$' && isBoundaryBefore(value, i) && i+1 < n && isNameStart(value[i+1]) {
			j := i + 1
			for j < n && isNameCont(value[j]) {
				j++
			}
			name := value[i+1 : j]
			raw, ok := r.sheet.Variables[name]
			if !ok {
				return "", fmt.Errorf("RCSS variable error: unknown variable '$%s'", name)
			}
			resolved, err := r.substituteVariables(raw, depth+1)
			if err != nil {
				return "", err
			}
			out.WriteString(resolved)
			i = j
			continue
		}
		out.WriteByte(c)
		i++
	}
	return out.String(), nil
}

// interpolateTokens expands `@(url)` wrappers and `@token` references
// against the theme, for the given target property.
func (r *Resolver) interpolateTokens(value, property string) (string, error) {
	var out strings.Builder
	i := 0
	n := len(value)
	for i < n {
		c := value[i]
		switch {
		case c == '"' || c == '\'':
			j := skipQuoted(value, i)
			out.WriteString(value[i:j])
			i = j

		case c == '@' && i+1 < n && value[i+1] == '(':
			inner, j, err := readBalancedParens(value, i+1)
			if err != nil {
				return "", err
			}
			resolvedInner, err := r.interpolateTokens(inner, property)
			if err != nil {
				return "", err
			}
			out.WriteString(`url("`)
			out.WriteString(resolvedInner)
			out.WriteString(`")`)
			i = j

		case c == '@' && i+1 < n && isTokenChar(value[i+1]):
			if !isTokenBoundaryBefore(value, i) {
				return "", fmt.Errorf("tokens must be separated from surrounding characters")
			}
			name, j := scanTokenName(value, i+1)
			css, err := r.resolveToken(property, name)
			if err != nil {
				return "", err
			}
			out.WriteString(css)
			i = j

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String(), nil
}

func isTokenChar(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') ||
		c == '_' || c == '/' || c == '-'
}

// scanTokenName consumes a token name `[A-Za-z0-9_/.-]+`, accepting `.`
// only when the following character is a digit (so `@1.5` works but
// `@x.y` stops before the dot).
func scanTokenName(s string, start int) (string, int) {
	i := start
	n := len(s)
	for i < n {
		c := s[i]
		if isTokenChar(c) {
			i++
			continue
		}
		if c == '.' && i+1 < n && s[i+1] >= '0' && s[i+1] <= '9' {
			i++
			continue
		}
		break
	}
	return s[start:i], i
}

// skipQuoted advances past a quoted region starting at i (the opening
// quote), returning the index just past the closing quote.
func skipQuoted(s string, i int) int {
	q := s[i]
	i++
	n := len(s)
	for i < n && s[i] != q {
		if s[i] == '\\' && i+1 < n {
			i += 2
			continue
		}
		i++
	}
	if i < n {
		i++
	}
	return i
}

// readBalancedParens reads the content between openParen (index of the
// '(') and its matching ')', respecting quotes and nested parens. Returns
// the inner text and the index just past the closing paren.
func readBalancedParens(s string, openParen int) (string, int, error) {
	depth := 0
	n := len(s)
	start := openParen + 1
	for i := openParen; i < n; i++ {
		switch s[i] {
		case '"', '\'':
			i = skipQuoted(s, i) - 1
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return s[start:i], i + 1, nil
			}
		}
	}
	return "", 0, fmt.Errorf("Unterminated @(...) expression")
}

var colorFunctionNames = map[string]bool{
	"mix": true, "lighten": true, "darken": true, "alpha": true,
	"shade": true, "tint": true, "tone": true,
}

// rewriteColorFunctions rewrites mix/lighten/darken/alpha/shade/tint/tone
// calls into `color-mix(...)`, recursing into arguments so nested calls
// are rewritten too. A call with unrecognised arity is left untouched.
func rewriteColorFunctions(value string) string {
	var out strings.Builder
	i := 0
	n := len(value)
	for i < n {
		c := value[i]
		if c == '"' || c == '\'' {
			j := skipQuoted(value, i)
			out.WriteString(value[i:j])
			i = j
			continue
		}
		if isNameStart(c) {
			j := i
			for j < n && isNameCont(value[j]) {
				j++
			}
			name := value[i:j]
			if colorFunctionNames[name] && j < n && value[j] == '(' {
				argsText, end, err := readBalancedParens(value, j)
				if err == nil {
					args := splitTopLevelCommas(argsText)
					rewritten, ok := rewriteColorCall(name, args)
					if ok {
						out.WriteString(rewritten)
						i = end
						continue
					}
				}
			}
			out.WriteString(value[i:j])
			i = j
			continue
		}
		out.WriteByte(c)
		i++
	}
	return out.String()
}

func rewriteColorCall(name string, rawArgs []string) (string, bool) {
	args := make([]string, len(rawArgs))
	for i, a := range rawArgs {
		args[i] = strings.TrimSpace(rewriteColorFunctions(a))
	}
	switch name {
	case "mix":
		if len(args) != 3 {
			return "", false
		}
		return fmt.Sprintf("color-mix(in srgb, %s %s, %s)", args[1], args[2], args[0]), true
	case "lighten", "tint":
		if len(args) != 2 {
			return "", false
		}
		return fmt.Sprintf("color-mix(in srgb, white %s, %s)", args[1], args[0]), true
	case "darken", "shade":
		if len(args) != 2 {
			return "", false
		}
		return fmt.Sprintf("color-mix(in srgb, black %s, %s)", args[1], args[0]), true
	case "tone":
		if len(args) != 2 {
			return "", false
		}
		return fmt.Sprintf("color-mix(in srgb, gray %s, %s)", args[1], args[0]), true
	case "alpha":
		if len(args) != 2 {
			return "", false
		}
		return fmt.Sprintf("color-mix(in srgb, %s %s, transparent)", args[0], args[1]), true
	}
	return "", false
}

// splitTopLevelCommas splits s on commas outside nested parens/quotes.
func splitTopLevelCommas(s string) []string {
	var out []string
	depth := 0
	start := 0
	n := len(s)
	for i := 0; i < n; i++ {
		switch s[i] {
		case '"', '\'':
			i = skipQuoted(s, i) - 1
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}
