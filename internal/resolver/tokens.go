package resolver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nathan-king/rcss-preprocessor/internal/theme"
)

// propertyAliases maps a lowercased camelCase property key to the
// property-mapping key that actually governs its token resolution.
var propertyAliases = map[string]string{
	"color":        "textColor",
	"background":   "backgroundColor",
	"from":         "gradientColorStops",
	"via":          "gradientColorStops",
	"to":           "gradientColorStops",
	"shadow":       "boxShadow",
	"offsetwidth":  "ringOffsetWidth",
	"offsetcolor":  "ringOffsetColor",
	"family":       "fontFamily",
	"size":         "fontSize",
	"weight":       "fontWeight",
	"lineheight":   "lineHeight",
	"radius":       "borderRadius",
}

// canonicalPropertyKey converts a CSS (kebab-case) property name into the
// key used to look it up in theme.Properties, applying the alias table and
// the "anything ending in Radius maps to borderRadius" rule.
func canonicalPropertyKey(prop string) string {
	camel := kebabToCamel(strings.TrimLeft(prop, "-"))
	if target, ok := propertyAliases[strings.ToLower(camel)]; ok {
		return target
	}
	if strings.HasSuffix(camel, "Radius") {
		return "borderRadius"
	}
	return camel
}

func kebabToCamel(s string) string {
	parts := strings.Split(s, "-")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
		} else {
			b.WriteString(strings.ToUpper(p[:1]))
			b.WriteString(p[1:])
		}
	}
	return b.String()
}

// resolveToken resolves a single `@token` reference for the declaration's
// property.
func (r *Resolver) resolveToken(property, token string) (string, error) {
	if idx := strings.IndexByte(token, '/'); idx > 0 {
		base, opacityTok := token[:idx], token[idx+1:]
		baseCSS, err := r.resolveTokenValue(property, base)
		if err != nil {
			return "", err
		}
		opacityVal, found := descendCollection(r.theme.Collections["opacity"], opacityTok)
		if !found {
			return "", fmt.Errorf("Unknown token '@%s' in opacity", opacityTok)
		}
		opacityCSS, err := theme.ValueToCSS(opacityVal)
		if err != nil {
			return "", err
		}
		return injectAlpha(baseCSS, opacityCSS)
	}
	return r.resolveTokenValue(property, token)
}

// resolveTokenValue resolves token against the property-mapping table
// (falling back to the colors collection), without the base/opacity split.
func (r *Resolver) resolveTokenValue(property, token string) (string, error) {
	if strings.HasPrefix(property, "--") {
		return r.lookupInCollectionNamed("colors", token, property)
	}

	key := canonicalPropertyKey(property)
	pm, hasMapping := r.theme.Properties[key]
	if !hasMapping {
		return r.lookupInCollectionNamed("colors", token, property)
	}

	if ov, ok := pm.Overrides[token]; ok {
		return stringifyTokenValue(ov, token, property)
	}

	coll, collExists := r.theme.Collections[pm.Collection]
	if !collExists {
		return "", fmt.Errorf("Unknown collection '%s'", pm.Collection)
	}
	val, found := descendCollection(coll, token)
	if !found {
		return r.lookupInCollectionNamed("colors", token, property)
	}
	return stringifyTokenValue(val, token, property)
}

func (r *Resolver) lookupInCollectionNamed(collection, token, property string) (string, error) {
	coll, ok := r.theme.Collections[collection]
	if !ok {
		return "", fmt.Errorf("Unknown property '%s'", property)
	}
	val, found := descendCollection(coll, token)
	if !found {
		return "", fmt.Errorf("Unknown property '%s'", property)
	}
	return stringifyTokenValue(val, token, property)
}

func stringifyTokenValue(v any, token, property string) (string, error) {
	if v == nil {
		return "", fmt.Errorf("Token '@%s' for %s is null", token, property)
	}
	return theme.ValueToCSS(v)
}

// descendCollection walks tree (a nested map[string]any) following token,
// preferring an exact key match at each level before splitting on '-' and
// descending further.
func descendCollection(tree any, token string) (any, bool) {
	m, ok := tree.(map[string]any)
	if !ok {
		return nil, false
	}
	if v, ok := m[token]; ok {
		return v, true
	}
	idx := strings.IndexByte(token, '-')
	if idx <= 0 {
		return nil, false
	}
	sub, ok := m[token[:idx]]
	if !ok {
		return nil, false
	}
	return descendCollection(sub, token[idx+1:])
}

var reFunctionColor = regexp.MustCompile(`^[A-Za-z-]+\(`)
var reHexColor = regexp.MustCompile(`^#([A-Fa-f0-9]+)$`)

// injectAlpha implements the `base/opacity` token shape: a function-call
// color gets " / opacity)" spliced before its closing paren; a hex color is
// rewritten to rgba(r,g,b,opacity).
func injectAlpha(baseCSS, opacityCSS string) (string, error) {
	if reFunctionColor.MatchString(baseCSS) && strings.HasSuffix(baseCSS, ")") {
		return baseCSS[:len(baseCSS)-1] + " / " + opacityCSS + ")", nil
	}
	if m := reHexColor.FindStringSubmatch(baseCSS); m != nil {
		r, g, b, err := hexToRGB(m[1])
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("rgba(%d, %d, %d, %s)", r, g, b, opacityCSS), nil
	}
	return "", fmt.Errorf("Unsupported color format: %s", baseCSS)
}

func hexToRGB(hex string) (int, int, int, error) {
	expand := func(c byte) string { return string([]byte{c, c}) }
	switch len(hex) {
	case 3, 4:
		rv, e1 := strconv.ParseInt(expand(hex[0]), 16, 0)
		gv, e2 := strconv.ParseInt(expand(hex[1]), 16, 0)
		bv, e3 := strconv.ParseInt(expand(hex[2]), 16, 0)
		if e1 != nil || e2 != nil || e3 != nil {
			return 0, 0, 0, fmt.Errorf("Invalid hex color: #%s", hex)
		}
		return int(rv), int(gv), int(bv), nil
	case 6, 8:
		rv, e1 := strconv.ParseInt(hex[0:2], 16, 0)
		gv, e2 := strconv.ParseInt(hex[2:4], 16, 0)
		bv, e3 := strconv.ParseInt(hex[4:6], 16, 0)
		if e1 != nil || e2 != nil || e3 != nil {
			return 0, 0, 0, fmt.Errorf("Invalid hex color: #%s", hex)
		}
		return int(rv), int(gv), int(bv), nil
	default:
		return 0, 0, 0, fmt.Errorf("Invalid hex color: #%s", hex)
	}
}
