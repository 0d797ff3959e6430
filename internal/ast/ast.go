// Package ast defines the intermediate representation produced by the
// parser, mutated in place by the resolver, and consumed by the emitter.
package ast

// Span is a (line, column) coordinate used in error messages. The zero
// value (0,0) is the sentinel for "unknown position".
type Span struct {
	Line   int
	Column int
}

// Declaration is a single `property: value;` pair.
type Declaration struct {
	Property string
	Value    string
	Span     Span
}

// MediaBlock is a `@media query { ... }` sub-block attached to the rule
// whose selector it nests under.
type MediaBlock struct {
	Query        string
	Declarations []Declaration
}

// Rule is one selector block: `selector { declarations; media-blocks }`.
// Rule order from the input is preserved; duplicate selectors are never
// merged.
type Rule struct {
	Selector     string
	Declarations []Declaration
	Media        []MediaBlock
}

// NamedBlock is a pre-parsed `$name { ... }` declaration list, expanded in
// place wherever `apply: $name;` appears.
type NamedBlock struct {
	Declarations []Declaration
}

// Stylesheet is the full parsed (and later resolved) document: an ordered
// list of rules plus the unordered `$name: value;` variable table.
type Stylesheet struct {
	Rules       []*Rule
	Variables   map[string]string
	NamedBlocks map[string]*NamedBlock
}

// New returns an empty Stylesheet ready for the parser to populate.
func New() *Stylesheet {
	return &Stylesheet{
		Rules:       make([]*Rule, 0),
		Variables:   make(map[string]string),
		NamedBlocks: make(map[string]*NamedBlock),
	}
}

// AddDeclaration appends d to r's declaration list in place.
func (r *Rule) AddDeclaration(d Declaration) {
	r.Declarations = append(r.Declarations, d)
}
