package rparser

import (
	"fmt"
	"strings"

	"github.com/nathan-king/rcss-preprocessor/internal/ast"
)

// statement is one top-level fragment of a balanced-brace scan: either a
// `;`-terminated piece of text, or a `header { body }` block.
type statement struct {
	isBlock bool
	header  string
	text    string // for non-block statements, the text before ';'
	body    string // for blocks, the text between the matching braces
	span    ast.Span
}

// splitStatements scans s at depth zero, splitting it into statements.
// Quoted strings are skipped whole so `;`/`{`/`}` inside them never affect
// depth tracking. Enforces the strict rule that every fragment must end
// in `;` or open a block.
func splitStatements(s string) ([]statement, error) {
	var out []statement
	n := len(s)
	i := 0
	start := 0

	for i < n {
		c := s[i]
		switch {
		case c == '"' || c == '\'':
			i = skipQuoted(s, i)
		case c == '{':
			header := strings.TrimSpace(s[start:i])
			close, err := findMatchingBrace(s, i)
			if err != nil {
				return nil, err
			}
			out = append(out, statement{
				isBlock: true,
				header:  header,
				body:    s[i+1 : close],
				span:    spanAt(s, start),
			})
			i = close + 1
			start = i
		case c == ';':
			text := s[start:i]
			if strings.TrimSpace(text) != "" {
				out = append(out, statement{text: text, span: spanAt(s, start)})
			}
			i++
			start = i
		default:
			i++
		}
	}

	if strings.TrimSpace(s[start:]) != "" {
		return nil, fmt.Errorf("Unexpected end of nested block")
	}
	return out, nil
}

// skipQuoted advances past a quoted string starting at i (which must point
// at the opening quote character) and returns the index just past it.
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

// findMatchingBrace returns the index of the `}` matching the `{` at
// openIdx, skipping quoted regions and nested braces.
func findMatchingBrace(s string, openIdx int) (int, error) {
	depth := 0
	n := len(s)
	for i := openIdx; i < n; i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\'':
			i = skipQuoted(s, i) - 1
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("Unexpected end of nested block")
}

// spanAt computes the (line, column) of byte offset idx in s, 1-indexed.
func spanAt(s string, idx int) ast.Span {
	if idx > len(s) {
		idx = len(s)
	}
	line := 1 + strings.Count(s[:idx], "\n")
	lastNL := strings.LastIndexByte(s[:idx], '\n')
	col := idx - lastNL
	return ast.Span{Line: line, Column: col}
}
