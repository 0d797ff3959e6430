package rparser

import "github.com/nathan-king/rcss-preprocessor/internal/ast"

// decl is a tiny constructor to keep the preset table below readable.
func decl(prop, value string) ast.Declaration {
	return ast.Declaration{Property: prop, Value: value}
}

// presetRegistry maps a preset name to its fixed declaration list. Values
// are plain CSS already — presets are base-layer defaults, not places where
// theme tokens are expected to resolve differently per project.
//
// "no-base" is the sentinel that suppresses the default base preset and
// carries no declarations of its own.
var presetRegistry = map[string][]ast.Declaration{
	"no-base": {},

	"base-14": {
		decl("font-size", "14px"),
		decl("line-height", "1.5"),
		decl("font-family", "system-ui, sans-serif"),
	},
	"base-16": {
		decl("font-size", "16px"),
		decl("line-height", "1.5"),
		decl("font-family", "system-ui, sans-serif"),
	},
	"base-18": {
		decl("font-size", "18px"),
		decl("line-height", "1.5"),
		decl("font-family", "system-ui, sans-serif"),
	},

	"spacious": {
		decl("line-height", "1.8"),
		decl("letter-spacing", "0.01em"),
	},
	"reading": {
		decl("max-width", "65ch"),
		decl("line-height", "1.7"),
	},
	"compact": {
		decl("line-height", "1.3"),
		decl("letter-spacing", "-0.01em"),
	},
	"system": {
		decl("font-family", "-apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif"),
	},
	"fluid-type": {
		decl("font-size", "clamp(1rem, 0.9rem + 0.5vw, 1.25rem)"),
	},

	"light-ui": {
		decl("color-scheme", "light"),
		decl("--bg", "#ffffff"),
		decl("--fg", "#111111"),
	},
	"dark-ui": {
		decl("color-scheme", "dark"),
		decl("--bg", "#111111"),
		decl("--fg", "#f5f5f5"),
	},

	"smooth": {
		decl("transition-timing-function", "cubic-bezier(0.4, 0, 0.2, 1)"),
		decl("transition-duration", "200ms"),
	},
	"snappy": {
		decl("transition-timing-function", "cubic-bezier(0.2, 0, 0, 1)"),
		decl("transition-duration", "100ms"),
	},

	"code": {
		decl("font-family", "ui-monospace, SFMono-Regular, Menlo, monospace"),
		decl("font-variant-ligatures", "none"),
	},
	"accessible-lg": {
		decl("font-size", "20px"),
		decl("line-height", "1.6"),
	},
	"print": {
		decl("background", "none"),
		decl("color", "#000"),
	},
}

// reducedMotionDeclarations are the declarations injected by the
// `reduced-motion` preset token, which is always scoped to a media block
// rather than merged into the base/dark `:root` rule.
var reducedMotionDeclarations = []ast.Declaration{
	decl("transition-duration", "0.01ms"),
	decl("animation-duration", "0.01ms"),
	decl("animation-iteration-count", "1"),
}

// mergePresetDeclarations applies the "later wins, others untouched" rule:
// each preset in order overwrites properties it redefines but leaves
// everything else from earlier presets intact.
func mergePresetDeclarations(names []string) []ast.Declaration {
	var order []string
	values := make(map[string]string)
	for _, name := range names {
		for _, d := range presetRegistry[name] {
			if _, seen := values[d.Property]; !seen {
				order = append(order, d.Property)
			}
			values[d.Property] = d.Value
		}
	}
	out := make([]ast.Declaration, 0, len(order))
	for _, prop := range order {
		out = append(out, decl(prop, values[prop]))
	}
	return out
}
