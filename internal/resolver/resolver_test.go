package resolver

import (
	"strings"
	"testing"

	"github.com/nathan-king/rcss-preprocessor/internal/ast"
	"github.com/nathan-king/rcss-preprocessor/internal/emitter"
	"github.com/nathan-king/rcss-preprocessor/internal/rparser"
	"github.com/nathan-king/rcss-preprocessor/internal/theme"
)

func loadTestTheme(t *testing.T) *theme.Theme {
	t.Helper()
	th, err := theme.Load("../../testdata/themes/default")
	if err != nil {
		t.Fatalf("failed to load test theme: %v", err)
	}
	return th
}

func compile(t *testing.T, src string) string {
	t.Helper()
	sheet, err := rparser.Parse(src)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if err := Resolve(sheet, loadTestTheme(t)); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	return emitter.Emit(sheet)
}

// Example 1: a worked compiler scenario.
func TestScenarioTokenPadding(t *testing.T) {
	out := compile(t, "%no-base\n.x { padding: @4; }")
	if !strings.Contains(out, "padding: 1rem;") {
		t.Errorf("expected 'padding: 1rem;' in output, got: %s", out)
	}
}

// Example 2: a worked compiler scenario.
func TestScenarioGridCols(t *testing.T) {
	out := compile(t, "%no-base\n.x { grid: cols(4) gap(@2); }")
	for _, want := range []string{"display: grid;", "grid-template-columns: repeat(4, minmax(0, 1fr));", "gap: 0.5rem;"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}
}

// Example 3: a worked compiler scenario.
func TestScenarioMasonry(t *testing.T) {
	out := compile(t, "%no-base\n.x { grid: masonry columns(3) gap(@4); }")
	for _, want := range []string{"display: block;", "column-count: 3;", "column-gap: 1rem;"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}
}

// Example 4: a worked compiler scenario.
func TestScenarioGradientAutoprefix(t *testing.T) {
	out := compile(t, "%no-base\n.x { background: linear-gradient(to right, red, blue); }")
	webkitIdx := strings.Index(out, "background: -webkit-linear-gradient(to right, red, blue);")
	plainIdx := strings.Index(out, "background: linear-gradient(to right, red, blue);")
	if webkitIdx == -1 || plainIdx == -1 {
		t.Fatalf("expected both prefixed and plain background declarations, got: %s", out)
	}
	if webkitIdx > plainIdx {
		t.Errorf("expected -webkit- declaration to precede the original, got: %s", out)
	}
}

// Example 5: a worked compiler scenario.
func TestScenarioVariableOfToken(t *testing.T) {
	out := compile(t, "%no-base\n$s: @3;\n.x { padding: $s; }")
	if !strings.Contains(out, "padding: 0.75rem;") {
		t.Errorf("expected 'padding: 0.75rem;' in output, got: %s", out)
	}
}

func TestFlexClusterInsertsDisplayFlexFirst(t *testing.T) {
	// Checked on the resolved rule rather than the emitted text: the emitter
	// writes the vendor-prefixed display values ahead of `display: flex`.
	sheet, err := rparser.Parse("%no-base\n.x { flex.direction: column; flex.gap: @2; }")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if err := Resolve(sheet, loadTestTheme(t)); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(sheet.Rules) != 1 || sheet.Rules[0].Selector != ".x" || len(sheet.Rules[0].Declarations) == 0 {
		t.Fatalf("expected .x rule with declarations, got: %+v", sheet.Rules)
	}
	first := sheet.Rules[0].Declarations[0]
	if first.Property != "display" || first.Value != "flex" {
		t.Errorf("expected display: flex to be first declaration, got %s: %s", first.Property, first.Value)
	}
}

func TestBorderClusterRewritesProperties(t *testing.T) {
	out := compile(t, "%no-base\n.x { border.width: 1px; border.style: solid; border.color: @red; }")
	for _, want := range []string{"border-width: 1px;", "border-style: solid;", "border-color: #ff0000;"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestRadiusClusterPrecedence(t *testing.T) {
	out := compile(t, "%no-base\n.x { radius.all: 1px; radius.top-left: 4px; }")
	if !strings.Contains(out, "border-top-left-radius: 4px;") {
		t.Errorf("expected explicit corner to win, got: %s", out)
	}
	if !strings.Contains(out, "border-bottom-right-radius: 1px;") {
		t.Errorf("expected all to apply elsewhere, got: %s", out)
	}
}

func TestShadowShorthandAppends(t *testing.T) {
	th := loadTestTheme(t)
	sheet := &ast.Stylesheet{
		Variables:   map[string]string{},
		NamedBlocks: map[string]*ast.NamedBlock{},
		Rules: []*ast.Rule{{
			Selector: ".x",
			Declarations: []ast.Declaration{
				{Property: "box-shadow", Value: "0 0 0 1px black"},
				{Property: "shadow", Value: "@sm"},
			},
		}},
	}
	if err := Resolve(sheet, th); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	out := emitter.Emit(sheet)
	if !strings.Contains(out, "box-shadow: 0 0 0 1px black, 0 1px 2px rgba(0, 0, 0, 0.05);") {
		t.Errorf("expected box-shadow values to be appended, got: %s", out)
	}
}

func TestUnknownVariableErrors(t *testing.T) {
	sheet, err := rparser.Parse("%no-base\n.x { color: $missing; }")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	err = Resolve(sheet, loadTestTheme(t))
	if err == nil {
		t.Fatalf("expected error for unknown variable")
	}
	if !strings.Contains(err.Error(), "unknown variable") {
		t.Errorf("expected 'unknown variable' in error, got: %v", err)
	}
}

func TestColorMixFunctionRewrite(t *testing.T) {
	out := compile(t, "%no-base\n.x { color: lighten(#ff0000, 20%); }")
	if !strings.Contains(out, "color: color-mix(in srgb, white 20%, #ff0000);") {
		t.Errorf("expected color-mix rewrite, got: %s", out)
	}
}
