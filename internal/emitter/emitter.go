// Package emitter serialises a resolved ast.Stylesheet into CSS text,
// inserting vendor-prefixed sibling declarations per a static autoprefix
// table.
package emitter

import (
	"strings"

	"github.com/nathan-king/rcss-preprocessor/internal/ast"
)

// Emit serialises sheet's rules (and their media sub-blocks) to CSS.
func Emit(sheet *ast.Stylesheet) string {
	var b strings.Builder
	for _, rule := range sheet.Rules {
		emitRule(&b, rule)
	}
	return b.String()
}

func emitRule(b *strings.Builder, rule *ast.Rule) {
	if len(rule.Declarations) > 0 {
		b.WriteString(rule.Selector)
		b.WriteString(" {\n")
		emitDeclarations(b, rule.Declarations, "    ")
		b.WriteString("}\n")
	}
	for _, mb := range rule.Media {
		b.WriteString("@media ")
		b.WriteString(mb.Query)
		b.WriteString(" {\n")
		b.WriteString("  ")
		b.WriteString(rule.Selector)
		b.WriteString(" {\n")
		emitDeclarations(b, mb.Declarations, "    ")
		b.WriteString("  }\n")
		b.WriteString("}\n")
	}
}

func emitDeclarations(b *strings.Builder, decls []ast.Declaration, indent string) {
	for _, d := range decls {
		for _, extra := range autoprefix(d.Property, d.Value) {
			writeDeclaration(b, indent, extra.property, extra.value)
		}
		writeDeclaration(b, indent, d.Property, d.Value)
	}
}

func writeDeclaration(b *strings.Builder, indent, property, value string) {
	b.WriteString(indent)
	b.WriteString(property)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString(";\n")
}
