// Package rparser turns merged source text (after loader inlining) into an
// ast.Stylesheet in two stages: a line-oriented pre-pass that peels off
// presets/variables/named blocks, then a balanced-brace block parser over
// whatever's left.
package rparser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nathan-king/rcss-preprocessor/internal/ast"
)

var (
	reVariableDef  = regexp.MustCompile(`^\$([A-Za-z_][\w-]*)\s*:\s*(.*);\s*$`)
	reNamedOpen    = regexp.MustCompile(`^\$([A-Za-z_][\w-]*)\s*\{\s*$`)
	reApply        = regexp.MustCompile(`^apply\s*:\s*\$([A-Za-z_][\w-]*)\s*$`)
	reDeclaration  = regexp.MustCompile(`^(-{0,2}[A-Za-z_][A-Za-z0-9_.-]*)\s*:\s*(.*)$`)
	reMediaScreen  = regexp.MustCompile(`^screen\(.*\)$`)
)

var clusterNames = map[string]bool{
	"border": true,
	"flex":   true,
	"grid":   true,
	"radius": true,
}

// Parse converts merged source text into a Stylesheet. Preset rules are
// prepended in the order: base, dark, then each media preset.
func Parse(text string) (*ast.Stylesheet, error) {
	sheet := ast.New()

	cleaned, presets, err := prePass(text, sheet)
	if err != nil {
		return nil, err
	}

	stmts, err := splitStatements(cleaned)
	if err != nil {
		return nil, err
	}
	for _, st := range stmts {
		if !st.isBlock || st.header == "" {
			return nil, fmt.Errorf("Missing selector before '{'")
		}
		selectors := splitCommaSelectors(st.header)
		if err := parseRuleBody(st.body, selectors, sheet); err != nil {
			return nil, err
		}
	}

	prependPresetRules(sheet, presets)
	return sheet, nil
}

// presetState accumulates the preset directives collected during the
// pre-pass, kept separate from the Stylesheet until parsing completes so
// preset rules can be prepended in a fixed order.
type presetState struct {
	base           []string
	dark           []string
	reducedMotion  bool
	noBase         bool
}

// prePass performs the line-oriented scan: preset directives, variable
// definitions, and named declaration blocks are extracted; everything else
// is returned as the cleaned body for the block parser.
func prePass(text string, sheet *ast.Stylesheet) (string, *presetState, error) {
	presets := &presetState{}
	lines := strings.Split(text, "\n")
	var cleaned strings.Builder

	i := 0
	for i < len(lines) {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "%"):
			applyPresetDirective(trimmed, presets)
			i++

		case reVariableDef.MatchString(trimmed):
			m := reVariableDef.FindStringSubmatch(trimmed)
			sheet.Variables[m[1]] = strings.TrimSpace(m[2])
			i++

		case reNamedOpen.MatchString(trimmed):
			m := reNamedOpen.FindStringSubmatch(trimmed)
			name := m[1]
			i++
			var body strings.Builder
			closed := false
			for i < len(lines) {
				if strings.TrimSpace(lines[i]) == "}" {
					closed = true
					i++
					break
				}
				body.WriteString(lines[i])
				body.WriteByte('\n')
				i++
			}
			if !closed {
				return "", nil, fmt.Errorf("Unexpected end of nested block")
			}
			decls, err := parseDeclarationsOnly(body.String())
			if err != nil {
				return "", nil, err
			}
			sheet.NamedBlocks[name] = &ast.NamedBlock{Declarations: decls}

		default:
			cleaned.WriteString(line)
			cleaned.WriteByte('\n')
			i++
		}
	}

	return cleaned.String(), presets, nil
}

// applyPresetDirective handles one `%...` line, accumulating its
// whitespace-separated tokens into the right preset scope.
func applyPresetDirective(line string, presets *presetState) {
	fields := strings.Fields(strings.TrimPrefix(line, "%"))
	nextIsDark := false
	for _, tok := range fields {
		switch {
		case tok == "dark":
			nextIsDark = true
			continue
		case tok == "no-base":
			presets.noBase = true
		case tok == "reduced-motion":
			presets.reducedMotion = true
		case strings.HasPrefix(tok, "dark-"):
			presets.dark = append(presets.dark, tok)
		case nextIsDark:
			presets.dark = append(presets.dark, tok)
		default:
			presets.base = append(presets.base, tok)
		}
		nextIsDark = false
	}
}

// prependPresetRules builds the synthesized :root/:media preset rules and
// prepends them to the stylesheet in the fixed order: base, dark, media.
func prependPresetRules(sheet *ast.Stylesheet, presets *presetState) {
	var synthesized []*ast.Rule

	baseNames := presets.base
	if len(baseNames) == 0 && !presets.noBase {
		baseNames = []string{"base-16"}
	}
	if baseDecls := mergePresetDeclarations(baseNames); len(baseDecls) > 0 {
		synthesized = append(synthesized, &ast.Rule{Selector: ":root", Declarations: baseDecls})
	}

	if darkDecls := mergePresetDeclarations(presets.dark); len(darkDecls) > 0 {
		synthesized = append(synthesized, &ast.Rule{
			Selector: ":root",
			Media: []ast.MediaBlock{
				{Query: "(prefers-color-scheme: dark)", Declarations: darkDecls},
			},
		})
	}

	if presets.reducedMotion {
		synthesized = append(synthesized, &ast.Rule{
			Selector: "*",
			Media: []ast.MediaBlock{
				{Query: "(prefers-reduced-motion: reduce)", Declarations: reducedMotionDeclarations},
			},
		})
	}

	sheet.Rules = append(synthesized, sheet.Rules...)
}

// parseRuleBody parses the body of a block whose header(s) have already
// resolved to combinedSelectors, emitting one Rule per selector and
// recursing into nested selector blocks as it encounters them.
func parseRuleBody(body string, combinedSelectors []string, sheet *ast.Stylesheet) error {
	stmts, err := splitStatements(body)
	if err != nil {
		return err
	}

	var decls []ast.Declaration
	var media []ast.MediaBlock

	for _, st := range stmts {
		if st.isBlock {
			header := st.header
			switch {
			case clusterHeaderName(header) != "":
				sub, err := parseClusterBody(clusterHeaderName(header), st.body)
				if err != nil {
					return err
				}
				decls = append(decls, sub...)

			case header == "dark" || header == "light" || reMediaScreen.MatchString(header):
				inner, err := parseDeclarationsOnly(st.body)
				if err != nil {
					return err
				}
				media = append(media, ast.MediaBlock{Query: header, Declarations: inner})

			default:
				// Everything else is a nested selector block. These
				// normally carry &, ., #, :, [, >, +, ~, or *, but a bare
				// type selector like `div` carries none of them and is
				// still a selector in practice, so it falls through to
				// this case too.
				children := splitCommaSelectors(header)
				combined := combineSelectors(combinedSelectors, children)
				if err := parseRuleBody(st.body, combined, sheet); err != nil {
					return err
				}
			}
			continue
		}

		text := strings.TrimSpace(st.text)
		if m := reApply.FindStringSubmatch(text); m != nil {
			nb, ok := sheet.NamedBlocks[m[1]]
			if !ok {
				return fmt.Errorf("unknown named block '$%s'", m[1])
			}
			decls = append(decls, append([]ast.Declaration(nil), nb.Declarations...)...)
			continue
		}
		m := reDeclaration.FindStringSubmatch(text)
		if m == nil {
			return fmt.Errorf("Invalid declaration line: '%s'", text)
		}
		decls = append(decls, ast.Declaration{
			Property: m[1],
			Value:    strings.TrimSpace(m[2]),
			Span:     st.span,
		})
	}

	for _, sel := range combinedSelectors {
		sheet.Rules = append(sheet.Rules, &ast.Rule{
			Selector:     sel,
			Declarations: append([]ast.Declaration(nil), decls...),
			Media:        append([]ast.MediaBlock(nil), media...),
		})
	}
	return nil
}

// clusterHeaderName returns header itself if it names a property-cluster
// block (bare, e.g. "border", or dotted deeper, e.g. "grid.areas"), else "".
func clusterHeaderName(header string) string {
	if clusterNames[header] {
		return header
	}
	if idx := strings.IndexByte(header, '.'); idx > 0 && clusterNames[header[:idx]] {
		return header
	}
	return ""
}

// parseClusterBody flattens a property-cluster block into dotted
// declarations, recursing into further nested blocks by extending the
// dotted path.
func parseClusterBody(prefix string, body string) ([]ast.Declaration, error) {
	stmts, err := splitStatements(body)
	if err != nil {
		return nil, err
	}
	var decls []ast.Declaration
	for _, st := range stmts {
		if st.isBlock {
			subPrefix := prefix + "." + strings.TrimSpace(st.header)
			sub, err := parseClusterBody(subPrefix, st.body)
			if err != nil {
				return nil, err
			}
			decls = append(decls, sub...)
			continue
		}
		text := strings.TrimSpace(st.text)
		m := reDeclaration.FindStringSubmatch(text)
		if m == nil {
			return nil, fmt.Errorf("Invalid declaration line: '%s'", text)
		}
		decls = append(decls, ast.Declaration{
			Property: prefix + "." + m[1],
			Value:    strings.TrimSpace(m[2]),
			Span:     st.span,
		})
	}
	return decls, nil
}

// parseDeclarationsOnly parses a flat declaration list with no nested
// blocks allowed, as required inside a media shorthand block.
func parseDeclarationsOnly(body string) ([]ast.Declaration, error) {
	stmts, err := splitStatements(body)
	if err != nil {
		return nil, err
	}
	var decls []ast.Declaration
	for _, st := range stmts {
		if st.isBlock {
			return nil, fmt.Errorf("Nested blocks deeper than one level are not supported")
		}
		text := strings.TrimSpace(st.text)
		m := reDeclaration.FindStringSubmatch(text)
		if m == nil {
			return nil, fmt.Errorf("Invalid declaration line: '%s'", text)
		}
		decls = append(decls, ast.Declaration{
			Property: m[1],
			Value:    strings.TrimSpace(m[2]),
			Span:     st.span,
		})
	}
	return decls, nil
}
