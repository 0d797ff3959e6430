package resolver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nathan-king/rcss-preprocessor/internal/ast"
)

// gridCommand is one parsed subcommand from a `grid: ...` value, e.g.
// `cols(4)` becomes {name: "cols", argsRaw: "4"}. A bare subcommand like
// `masonry` has an empty argsRaw.
type gridCommand struct {
	name    string
	argsRaw string
}

// parseGridValue tokenises a `grid: ...` value into its subcommands.
func parseGridValue(value string) ([]gridCommand, error) {
	value = strings.TrimSpace(value)
	var cmds []gridCommand
	i, n := 0, len(value)
	for i < n {
		for i < n && isSpaceByte(value[i]) {
			i++
		}
		if i >= n {
			break
		}
		start := i
		for i < n && value[i] != '(' && !isSpaceByte(value[i]) {
			i++
		}
		name := value[start:i]
		if name == "" {
			return nil, fmt.Errorf("unknown grid command")
		}
		var argsRaw string
		if i < n && value[i] == '(' {
			inner, end, err := readBalancedParens(value, i)
			if err != nil {
				return nil, err
			}
			argsRaw = inner
			i = end
		}
		cmds = append(cmds, gridCommand{name: name, argsRaw: argsRaw})
	}
	if len(cmds) == 0 {
		return nil, fmt.Errorf("grid() requires at least one subcommand")
	}
	return cmds, nil
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

var gridCommandNames = map[string]bool{
	"masonry": true, "cols": true, "rows": true,
	"gap": true, "areas": true, "columns": true,
}

// expandGridCommands expands a collected command map (from either a
// `grid:` value or a `grid {}` cluster) into flat CSS declarations.
func (r *Resolver) expandGridCommands(cmds map[string]string, hasExplicitDisplay bool, span ast.Span) ([]ast.Declaration, error) {
	for name := range cmds {
		if !gridCommandNames[name] {
			return nil, fmt.Errorf("unknown grid command")
		}
	}

	_, masonry := cmds["masonry"]
	_, hasCols := cmds["cols"]
	_, hasRows := cmds["rows"]
	_, hasAreas := cmds["areas"]
	_, hasColumns := cmds["columns"]

	if masonry && (hasCols || hasRows || hasAreas) {
		return nil, fmt.Errorf("cannot mix masonry and grid subcommands")
	}
	if hasColumns && !masonry {
		return nil, fmt.Errorf("columns() expects masonry mode")
	}

	var out []ast.Declaration
	resolveArg := func(text, prop string) (string, error) {
		return r.resolveValue(strings.TrimSpace(text), prop, span)
	}
	resolveInt := func(text string) (int, error) {
		css, err := resolveArg(text, "grid-template-columns")
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(css))
		if err != nil {
			return 0, fmt.Errorf("cols()/columns() expects a number")
		}
		return n, nil
	}

	if masonry {
		if !hasExplicitDisplay {
			out = append(out, ast.Declaration{Property: "display", Value: "block"})
		}
		if v, ok := cmds["columns"]; ok {
			n, err := resolveInt(v)
			if err != nil {
				return nil, err
			}
			out = append(out, ast.Declaration{Property: "column-count", Value: strconv.Itoa(n)})
		}
		if v, ok := cmds["gap"]; ok {
			parts := strings.Fields(v)
			if len(parts) != 1 {
				return nil, fmt.Errorf("gap() expects one value")
			}
			css, err := resolveArg(parts[0], "column-gap")
			if err != nil {
				return nil, err
			}
			out = append(out, ast.Declaration{Property: "column-gap", Value: css})
		}
		return out, nil
	}

	if !hasExplicitDisplay {
		out = append(out, ast.Declaration{Property: "display", Value: "grid"})
	}
	if v, ok := cmds["cols"]; ok {
		n, err := resolveInt(v)
		if err != nil {
			return nil, err
		}
		out = append(out, ast.Declaration{
			Property: "grid-template-columns",
			Value:    fmt.Sprintf("repeat(%d, minmax(0, 1fr))", n),
		})
	}
	if v, ok := cmds["rows"]; ok {
		parts := strings.Fields(v)
		resolved := make([]string, 0, len(parts))
		for _, p := range parts {
			css, err := resolveArg(p, "grid-template-rows")
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, css)
		}
		out = append(out, ast.Declaration{Property: "grid-template-rows", Value: strings.Join(resolved, " ")})
	}
	if v, ok := cmds["gap"]; ok {
		parts := strings.Fields(v)
		switch len(parts) {
		case 1:
			css, err := resolveArg(parts[0], "gap")
			if err != nil {
				return nil, err
			}
			out = append(out, ast.Declaration{Property: "gap", Value: css})
		case 2:
			row, err := resolveArg(parts[0], "row-gap")
			if err != nil {
				return nil, err
			}
			col, err := resolveArg(parts[1], "column-gap")
			if err != nil {
				return nil, err
			}
			out = append(out, ast.Declaration{Property: "row-gap", Value: row})
			out = append(out, ast.Declaration{Property: "column-gap", Value: col})
		default:
			return nil, fmt.Errorf("gap() expects one or two values")
		}
	}
	if v, ok := cmds["areas"]; ok {
		rows, err := extractQuotedRows(v)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		for _, row := range rows {
			b.WriteString("\n    \"")
			b.WriteString(row)
			b.WriteString("\"")
		}
		out = append(out, ast.Declaration{Property: "grid-template-areas", Value: b.String()})
	}
	return out, nil
}

var reQuotedString = regexp.MustCompile(`"([^"]*)"`)

// extractQuotedRows pulls every double-quoted string out of an areas(...)
// argument list, erroring if anything other than quoted strings and
// whitespace is present.
func extractQuotedRows(s string) ([]string, error) {
	matches := reQuotedString.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("areas() expects quoted strings")
	}
	var rows []string
	last := 0
	for _, m := range matches {
		if strings.TrimSpace(s[last:m[0]]) != "" {
			return nil, fmt.Errorf("areas() expects quoted strings")
		}
		rows = append(rows, s[m[2]:m[3]])
		last = m[1]
	}
	if strings.TrimSpace(s[last:]) != "" {
		return nil, fmt.Errorf("areas() expects quoted strings")
	}
	return rows, nil
}
