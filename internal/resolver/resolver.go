package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nathan-king/rcss-preprocessor/internal/ast"
	"github.com/nathan-king/rcss-preprocessor/internal/theme"
)

// Resolver holds the state threaded through one stylesheet's resolution:
// the stylesheet itself (for variable lookups) and the loaded theme (for
// token lookups).
type Resolver struct {
	sheet *ast.Stylesheet
	theme *theme.Theme
}

// New returns a Resolver ready to walk sheet's rules against th.
func New(sheet *ast.Stylesheet, th *theme.Theme) *Resolver {
	return &Resolver{sheet: sheet, theme: th}
}

// Resolve expands sheet's rules in place against th.
func Resolve(sheet *ast.Stylesheet, th *theme.Theme) error {
	r := New(sheet, th)
	for _, rule := range sheet.Rules {
		if err := r.resolveRule(rule); err != nil {
			return err
		}
	}
	return nil
}

var borderClusterProps = map[string]string{
	"color": "border-color",
	"width": "border-width",
	"style": "border-style",
}

var flexClusterProps = map[string]string{
	"direction": "flex-direction",
	"wrap":      "flex-wrap",
	"justify":   "justify-content",
	"align":     "align-items",
	"content":   "align-content",
	"gap":       "gap",
}

func isRadiusClusterProp(prop string) bool {
	return strings.HasPrefix(prop, "radius.") || strings.Contains(prop, ".radius.")
}

func radiusClusterKey(prop string) string {
	if strings.HasPrefix(prop, "radius.") {
		return strings.TrimPrefix(prop, "radius.")
	}
	idx := strings.LastIndex(prop, ".radius.")
	return prop[idx+len(".radius."):]
}

// resolveRule walks a rule's declarations in order: grid command,
// grid-cluster accumulation, radius-cluster accumulation, shorthand match,
// border-cluster, flex-cluster, then default resolution, followed by
// flushing the accumulated clusters and rewriting media sub-blocks.
func (r *Resolver) resolveRule(rule *ast.Rule) error {
	hasExplicitDisplay := false
	for _, d := range rule.Declarations {
		if d.Property == "display" {
			hasExplicitDisplay = true
		}
	}

	var out []ast.Declaration
	gridCmds := map[string]string{}
	gridUsed := false
	var gridSpan ast.Span
	radius := &radiusSpec{}
	flexUsed := false

	for _, d := range rule.Declarations {
		switch {
		case d.Property == "grid":
			cmds, err := parseGridValue(d.Value)
			if err != nil {
				return withSpan(d.Span, err)
			}
			cmdMap := make(map[string]string, len(cmds))
			for _, c := range cmds {
				cmdMap[c.name] = c.argsRaw
			}
			decls, err := r.expandGridCommands(cmdMap, hasExplicitDisplay, d.Span)
			if err != nil {
				return withSpan(d.Span, err)
			}
			for _, nd := range decls {
				out = mergeDecl(out, nd, false)
			}

		case strings.HasPrefix(d.Property, "grid."):
			gridCmds[strings.TrimPrefix(d.Property, "grid.")] = d.Value
			gridUsed = true
			gridSpan = d.Span

		case isRadiusClusterProp(d.Property):
			radius.set(radiusClusterKey(d.Property), d.Value, d.Span)

		case r.shorthandFor(d.Property) != nil:
			def := *r.shorthandFor(d.Property)
			exps, err := r.expandShorthand(d.Property, def, d.Value, d.Span)
			if err != nil {
				return withSpan(d.Span, err)
			}
			for _, e := range exps {
				out = mergeDecl(out, e.Decl, e.Append)
			}

		case strings.HasPrefix(d.Property, "border.") && borderClusterProps[strings.TrimPrefix(d.Property, "border.")] != "":
			cssProp := borderClusterProps[strings.TrimPrefix(d.Property, "border.")]
			val, err := r.resolveValue(d.Value, cssProp, d.Span)
			if err != nil {
				return err
			}
			out = mergeDecl(out, ast.Declaration{Property: cssProp, Value: val, Span: d.Span}, false)

		case strings.HasPrefix(d.Property, "flex.") && flexClusterProps[strings.TrimPrefix(d.Property, "flex.")] != "":
			cssProp := flexClusterProps[strings.TrimPrefix(d.Property, "flex.")]
			val, err := r.resolveValue(d.Value, cssProp, d.Span)
			if err != nil {
				return err
			}
			out = mergeDecl(out, ast.Declaration{Property: cssProp, Value: val, Span: d.Span}, false)
			flexUsed = true

		default:
			val, err := r.resolveValue(d.Value, d.Property, d.Span)
			if err != nil {
				return err
			}
			out = mergeDecl(out, ast.Declaration{Property: d.Property, Value: val, Span: d.Span}, false)
		}
	}

	if radius.used {
		decls, err := r.expandRadius(radius)
		if err != nil {
			return err
		}
		for _, nd := range decls {
			out = mergeDecl(out, nd, false)
		}
	}
	if gridUsed {
		decls, err := r.expandGridCommands(gridCmds, hasExplicitDisplay, gridSpan)
		if err != nil {
			return withSpan(gridSpan, err)
		}
		for _, nd := range decls {
			out = mergeDecl(out, nd, false)
		}
	}
	if flexUsed && !hasDisplay(out) {
		out = append([]ast.Declaration{{Property: "display", Value: "flex"}}, out...)
	}
	rule.Declarations = out

	for i := range rule.Media {
		mb := &rule.Media[i]
		rewritten, err := r.rewriteMediaQuery(mb.Query)
		if err != nil {
			return err
		}
		mb.Query = rewritten
		for j := range mb.Declarations {
			d := &mb.Declarations[j]
			val, err := r.resolveValue(d.Value, d.Property, d.Span)
			if err != nil {
				return err
			}
			d.Value = val
		}
	}
	return nil
}

func (r *Resolver) shorthandFor(property string) *theme.ShorthandDef {
	if def, ok := r.theme.Shorthands[property]; ok {
		return &def
	}
	return nil
}

// mergeDecl appends d to list, or — if a declaration for the same property
// is already present — joins it (when appendMode is set, or the property
// is always-append box-shadow) or replaces it outright.
func mergeDecl(list []ast.Declaration, d ast.Declaration, appendMode bool) []ast.Declaration {
	for i := range list {
		if list[i].Property != d.Property {
			continue
		}
		if appendMode || d.Property == "box-shadow" {
			list[i].Value = list[i].Value + ", " + d.Value
		} else {
			list[i].Value = d.Value
			list[i].Span = d.Span
		}
		return list
	}
	return append(list, d)
}

func hasDisplay(list []ast.Declaration) bool {
	for _, d := range list {
		if d.Property == "display" {
			return true
		}
	}
	return false
}

var reMediaScreenCapture = regexp.MustCompile(`^screen\((.*)\)$`)

// rewriteMediaQuery expands the media shorthands: `screen(@tok)` resolves
// tok against the `screens` collection, `dark`/`light` become
// prefers-color-scheme queries, anything else passes through untouched.
func (r *Resolver) rewriteMediaQuery(query string) (string, error) {
	switch query {
	case "dark":
		return "(prefers-color-scheme: dark)", nil
	case "light":
		return "(prefers-color-scheme: light)", nil
	}
	if m := reMediaScreenCapture.FindStringSubmatch(query); m != nil {
		name := strings.TrimPrefix(strings.TrimSpace(m[1]), "@")
		val, found := descendCollection(r.theme.Collections["screens"], name)
		if !found {
			return "", fmt.Errorf("Unknown token '@%s' in screens", name)
		}
		css, err := theme.ValueToCSS(val)
		if err != nil {
			return "", err
		}
		return "(min-width: " + css + ")", nil
	}
	return query, nil
}
