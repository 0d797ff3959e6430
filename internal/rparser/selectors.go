package rparser

import "strings"

// splitCommaSelectors splits a comma-delimited selector list at depth zero,
// so a pseudo-class argument list like `:not(a, b)` is not split apart.
func splitCommaSelectors(s string) []string {
	var out []string
	depth := 0
	start := 0
	n := len(s)
	for i := 0; i < n; i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	out = append(out, strings.TrimSpace(s[start:]))
	return out
}

// combineSelectors produces the Cartesian product of parents and children,
// substituting `&` with the parent term when present and otherwise joining
// with a descendant space. An empty parent list yields the raw children.
func combineSelectors(parents []string, children []string) []string {
	if len(parents) == 0 {
		parents = []string{""}
	}
	out := make([]string, 0, len(parents)*len(children))
	for _, p := range parents {
		for _, c := range children {
			c = strings.TrimSpace(c)
			var combined string
			switch {
			case strings.Contains(c, "&"):
				combined = strings.ReplaceAll(c, "&", p)
			case p == "":
				combined = c
			default:
				combined = p + " " + c
			}
			out = append(out, strings.TrimSpace(combined))
		}
	}
	return out
}
