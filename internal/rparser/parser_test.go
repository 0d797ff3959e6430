package rparser

import (
	"testing"

	"github.com/nathan-king/rcss-preprocessor/internal/ast"
)

func TestCombineSelectorsWithAmpersand(t *testing.T) {
	got := combineSelectors([]string{".card"}, []string{"&:hover", "&.active"})
	want := []string{".card:hover", ".card.active"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCombineSelectorsDescendant(t *testing.T) {
	got := combineSelectors([]string{".card", ".panel"}, []string{"h1", "p"})
	want := []string{".card h1", ".card p", ".panel h1", ".panel p"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitCommaSelectorsRespectsParens(t *testing.T) {
	got := splitCommaSelectors(`a:not(b, c), .d`)
	want := []string{"a:not(b, c)", ".d"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMergePresetDeclarationsLaterWins(t *testing.T) {
	decls := mergePresetDeclarations([]string{"base-16", "spacious"})
	values := make(map[string]string)
	for _, d := range decls {
		values[d.Property] = d.Value
	}
	if values["line-height"] != "1.8" {
		t.Errorf("expected spacious to override line-height, got %q", values["line-height"])
	}
	if values["font-size"] != "16px" {
		t.Errorf("expected base-16 font-size to survive, got %q", values["font-size"])
	}
}

func TestParseBasicRule(t *testing.T) {
	sheet, err := Parse(".x { color: red; }")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	var rule = findRule(t, sheet, ".x")
	if len(rule.Declarations) != 1 || rule.Declarations[0].Property != "color" || rule.Declarations[0].Value != "red" {
		t.Fatalf("unexpected declarations: %+v", rule.Declarations)
	}
}

func TestParseNestedSelector(t *testing.T) {
	sheet, err := Parse(".card { color: red; &:hover { color: blue; } }")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	findRule(t, sheet, ".card")
	findRule(t, sheet, ".card:hover")
}

func TestParseClusterBlockFlattensDottedProperties(t *testing.T) {
	sheet, err := Parse(".x { grid { cols: 4; gap: 2; } }")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	rule := findRule(t, sheet, ".x")
	if len(rule.Declarations) != 2 {
		t.Fatalf("expected 2 flattened declarations, got %+v", rule.Declarations)
	}
	if rule.Declarations[0].Property != "grid.cols" || rule.Declarations[1].Property != "grid.gap" {
		t.Errorf("expected dotted grid.* properties, got %+v", rule.Declarations)
	}
}

func TestParseApplyExpandsNamedBlock(t *testing.T) {
	src := "$box {\n  padding: 1rem;\n}\n.x { apply: $box; color: red; }"
	sheet, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	rule := findRule(t, sheet, ".x")
	if len(rule.Declarations) != 2 || rule.Declarations[0].Property != "padding" {
		t.Fatalf("expected applied declaration first, got %+v", rule.Declarations)
	}
}

func TestParseMediaShorthandBlock(t *testing.T) {
	sheet, err := Parse(".x { color: black; dark { color: white; } }")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	rule := findRule(t, sheet, ".x")
	if len(rule.Media) != 1 || rule.Media[0].Query != "dark" {
		t.Fatalf("expected one dark media block, got %+v", rule.Media)
	}
}

func TestParseMissingSelectorBeforeBraceErrors(t *testing.T) {
	_, err := Parse("{ color: red; }")
	if err == nil {
		t.Fatalf("expected error for missing selector, got nil")
	}
}

func TestParseDefaultsToBase16Preset(t *testing.T) {
	sheet, err := Parse(".x { color: red; }")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(sheet.Rules) == 0 || sheet.Rules[0].Selector != ":root" {
		t.Fatalf("expected synthesized :root preset rule first, got %+v", sheet.Rules)
	}
}

func findRule(t *testing.T, sheet *ast.Stylesheet, selector string) *ast.Rule {
	t.Helper()
	for _, r := range sheet.Rules {
		if r.Selector == selector {
			return r
		}
	}
	t.Fatalf("no rule found for selector %q in %+v", selector, sheet.Rules)
	return nil
}
