package emitter

import (
	"strings"
	"testing"

	"github.com/nathan-king/rcss-preprocessor/internal/ast"
)

func emitOne(decls []ast.Declaration) string {
	sheet := &ast.Stylesheet{
		Rules: []*ast.Rule{{Selector: ".x", Declarations: decls}},
	}
	return Emit(sheet)
}

func TestEmitBasicRule(t *testing.T) {
	out := emitOne([]ast.Declaration{{Property: "color", Value: "red"}})
	want := ".x {\n    color: red;\n}\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestEmitMediaBlockNesting(t *testing.T) {
	sheet := &ast.Stylesheet{
		Rules: []*ast.Rule{{
			Selector: ".x",
			Media: []ast.MediaBlock{{
				Query:        "(min-width: 768px)",
				Declarations: []ast.Declaration{{Property: "color", Value: "blue"}},
			}},
		}},
	}
	out := Emit(sheet)
	want := "@media (min-width: 768px) {\n  .x {\n    color: blue;\n  }\n}\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestEmitSkipsRuleWithNoDeclarations(t *testing.T) {
	sheet := &ast.Stylesheet{
		Rules: []*ast.Rule{{Selector: ".x"}},
	}
	out := Emit(sheet)
	if out != "" {
		t.Errorf("expected empty output for declaration-less rule, got %q", out)
	}
}

func TestAutoprefixBorderRadiusDoublesPrefix(t *testing.T) {
	out := emitOne([]ast.Declaration{{Property: "border-radius", Value: "4px"}})
	for _, want := range []string{"-webkit-border-radius: 4px;", "-moz-border-radius: 4px;", "border-radius: 4px;"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}
	webkitIdx := strings.Index(out, "-webkit-border-radius")
	plainIdx := strings.Index(out, "border-radius: 4px")
	if webkitIdx == -1 || plainIdx == -1 || webkitIdx > plainIdx {
		t.Errorf("expected prefixed declarations to precede the original, got: %s", out)
	}
}

func TestAutoprefixBoxShadowIsWebkitOnly(t *testing.T) {
	out := emitOne([]ast.Declaration{{Property: "box-shadow", Value: "0 1px 2px black"}})
	if !strings.Contains(out, "-webkit-box-shadow: 0 1px 2px black;") {
		t.Errorf("expected -webkit-box-shadow, got: %s", out)
	}
	if strings.Contains(out, "-moz-box-shadow") {
		t.Errorf("did not expect -moz-box-shadow, got: %s", out)
	}
}

func TestAutoprefixBackgroundGradientAddsWebkitDuplicate(t *testing.T) {
	out := emitOne([]ast.Declaration{{Property: "background", Value: "linear-gradient(to right, red, blue)"}})
	if !strings.Contains(out, "background: -webkit-linear-gradient(to right, red, blue);") {
		t.Errorf("expected webkit-prefixed gradient background, got: %s", out)
	}
	if !strings.Contains(out, "background: linear-gradient(to right, red, blue);") {
		t.Errorf("expected plain gradient background, got: %s", out)
	}
}

func TestAutoprefixBackgroundSkipsNonGradient(t *testing.T) {
	out := emitOne([]ast.Declaration{{Property: "background", Value: "red"}})
	if strings.Contains(out, "-webkit-") {
		t.Errorf("did not expect any -webkit- prefix for a plain color background, got: %s", out)
	}
}

func TestAutoprefixDisplayFlexAddsLegacySyntaxes(t *testing.T) {
	out := emitOne([]ast.Declaration{{Property: "display", Value: "flex"}})
	for _, want := range []string{"display: -webkit-box;", "display: -ms-flexbox;", "display: flex;"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestAutoprefixCursorGrab(t *testing.T) {
	out := emitOne([]ast.Declaration{{Property: "cursor", Value: "grab"}})
	if !strings.Contains(out, "cursor: -webkit-grab;") || !strings.Contains(out, "cursor: grab;") {
		t.Errorf("expected both -webkit-grab and grab cursor declarations, got: %s", out)
	}
}

func TestAutoprefixCursorGrabbing(t *testing.T) {
	out := emitOne([]ast.Declaration{{Property: "cursor", Value: "grabbing"}})
	if !strings.Contains(out, "cursor: -webkit-grabbing;") {
		t.Errorf("expected -webkit-grabbing, got: %s", out)
	}
}

func TestAutoprefixLeavesUnrelatedDeclarationsAlone(t *testing.T) {
	out := emitOne([]ast.Declaration{{Property: "padding", Value: "1rem"}})
	if strings.Contains(out, "-webkit-") || strings.Contains(out, "-moz-") || strings.Contains(out, "-ms-") {
		t.Errorf("did not expect any vendor prefix, got: %s", out)
	}
}
