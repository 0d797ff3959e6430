package resolver

import (
	"fmt"
	"strings"

	"github.com/nathan-king/rcss-preprocessor/internal/ast"
	"github.com/nathan-king/rcss-preprocessor/internal/theme"
)

// radiusAliases maps the convenience keys `top`/`left`/`right`/`bottom`
// onto their logical equivalents before a radiusSpec ever sees them.
var radiusAliases = map[string]string{
	"top":    "block-start",
	"bottom": "block-end",
	"left":   "inline-start",
	"right":  "inline-end",
}

var radiusCornerOrder = []string{"top-left", "top-right", "bottom-left", "bottom-right"}

// radiusSpec accumulates radius-cluster (`radius.*`) declarations for a
// rule, flushed once the rule's own declarations have all been walked.
type radiusSpec struct {
	values map[string]string
	span   ast.Span
	used   bool
}

func (s *radiusSpec) set(key, value string, span ast.Span) {
	key = strings.ReplaceAll(key, "_", "-")
	if alias, ok := radiusAliases[key]; ok {
		key = alias
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	if !s.used {
		s.span = span
	}
	s.used = true
}

// expandRadius derives the four corner radii from a radiusSpec, applying
// precedence in order: all, then inline, then block, then explicit
// per-side/per-corner keys.
func (r *Resolver) expandRadius(spec *radiusSpec) ([]ast.Declaration, error) {
	corners := make(map[string]string, 4)

	apply := func(names []string, value string) {
		for _, n := range names {
			corners[n] = value
		}
	}

	if v, ok := spec.values["all"]; ok {
		apply(radiusCornerOrder, v)
	}
	if v, ok := spec.values["inline"]; ok {
		parts := strings.Fields(v)
		switch len(parts) {
		case 1:
			apply([]string{"top-left", "bottom-left"}, parts[0])
			apply([]string{"top-right", "bottom-right"}, parts[0])
		case 2:
			apply([]string{"top-left", "bottom-left"}, parts[0])
			apply([]string{"top-right", "bottom-right"}, parts[1])
		}
	}
	if v, ok := spec.values["block"]; ok {
		parts := strings.Fields(v)
		switch len(parts) {
		case 1:
			apply([]string{"top-left", "top-right"}, parts[0])
			apply([]string{"bottom-left", "bottom-right"}, parts[0])
		case 2:
			apply([]string{"top-left", "top-right"}, parts[0])
			apply([]string{"bottom-left", "bottom-right"}, parts[1])
		}
	}
	if v, ok := spec.values["inline-start"]; ok {
		apply([]string{"top-left", "bottom-left"}, v)
	}
	if v, ok := spec.values["inline-end"]; ok {
		apply([]string{"top-right", "bottom-right"}, v)
	}
	if v, ok := spec.values["block-start"]; ok {
		apply([]string{"top-left", "top-right"}, v)
	}
	if v, ok := spec.values["block-end"]; ok {
		apply([]string{"bottom-left", "bottom-right"}, v)
	}
	for _, corner := range radiusCornerOrder {
		if v, ok := spec.values[corner]; ok {
			corners[corner] = v
		}
	}

	var out []ast.Declaration
	for _, corner := range radiusCornerOrder {
		raw, ok := corners[corner]
		if !ok {
			continue
		}
		css, err := r.resolveRadiusValue(raw)
		if err != nil {
			return nil, withSpan(spec.span, err)
		}
		out = append(out, ast.Declaration{
			Property: "border-" + corner + "-radius",
			Value:    css,
			Span:     spec.span,
		})
	}
	return out, nil
}

// resolveRadiusValue resolves a radius corner's raw value, falling back to
// the spacing collection when the borderRadius mapping doesn't recognise
// the token.
func (r *Resolver) resolveRadiusValue(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	withVars, err := r.substituteVariables(raw, 0)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(withVars, "@") {
		return rewriteColorFunctions(withVars), nil
	}
	name, end := scanTokenName(withVars, 1)
	tail := withVars[end:]
	if css, tokErr := r.resolveToken("radius", name); tokErr == nil {
		return css + tail, nil
	}
	val, found := descendCollection(r.theme.Collections["spacing"], name)
	if !found {
		return "", fmt.Errorf("Unknown token '@%s' in spacing", name)
	}
	css, err := theme.ValueToCSS(val)
	if err != nil {
		return "", err
	}
	return css + tail, nil
}
