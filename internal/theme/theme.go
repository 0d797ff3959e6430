// Package theme loads and represents the design-token theme: keyed
// collections of values, the property→collection mapping table (with
// per-token overrides), and the shorthand-definition table.
//
// Deserialization of the on-disk JSON shape is intentionally thin — only
// the theme's logical shape matters to the compiler core. The package
// decodes into Go's natural `any` tree (string/float64/bool/[]any/
// map[string]any/nil) rather than a bespoke tagged-variant type, since that
// is exactly the shape `encoding/json` already produces.
package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Override maps a token name directly to a JSON value, bypassing the
// collection lookup for that one token.
type Override = map[string]any

// PropertyMapping says which collection a CSS property resolves its tokens
// from, plus per-token overrides that take precedence over the collection.
type PropertyMapping struct {
	Collection string   `json:"collection"`
	Overrides  Override `json:"overrides,omitempty"`
}

// ShorthandStep is one instruction in a shorthand's expansion template.
type ShorthandStep struct {
	Property string `json:"property"`
	Template string `json:"template"`
	Append   bool   `json:"append,omitempty"`
	Optional bool   `json:"optional,omitempty"`
}

// ShorthandDef describes how a shorthand property's value expands into a
// sequence of concrete declarations.
type ShorthandDef struct {
	Steps []ShorthandStep `json:"steps"`
	Order []string        `json:"order,omitempty"`
}

// UnmarshalJSON accepts both shapes shorthands.json allows: a bare step
// array, or an object with "steps" and an optional "order".
func (d *ShorthandDef) UnmarshalJSON(data []byte) error {
	var steps []ShorthandStep
	if err := json.Unmarshal(data, &steps); err == nil {
		d.Steps = steps
		return nil
	}

	var obj struct {
		Steps []ShorthandStep `json:"steps"`
		Order []string        `json:"order"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	d.Steps = obj.Steps
	d.Order = obj.Order
	return nil
}

// Theme is the immutable, fully-loaded token set read at startup.
type Theme struct {
	Collections map[string]any
	Properties  map[string]PropertyMapping
	Shorthands  map[string]ShorthandDef
}

type tokensFile struct {
	Collections map[string]any             `json:"collections"`
	Properties  map[string]PropertyMapping `json:"properties"`
}

// Load reads tokens.json (required) and shorthands.json (optional) from dir
// and returns the assembled Theme.
func Load(dir string) (*Theme, error) {
	tokensPath := filepath.Join(dir, "tokens.json")
	data, err := os.ReadFile(tokensPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", tokensPath, err)
	}

	var tf tokensFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", tokensPath, err)
	}

	t := &Theme{
		Collections: tf.Collections,
		Properties:  tf.Properties,
		Shorthands:  make(map[string]ShorthandDef),
	}
	if t.Collections == nil {
		t.Collections = make(map[string]any)
	}
	if t.Properties == nil {
		t.Properties = make(map[string]PropertyMapping)
	}

	shorthandsPath := filepath.Join(dir, "shorthands.json")
	if data, err := os.ReadFile(shorthandsPath); err == nil {
		if err := json.Unmarshal(data, &t.Shorthands); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", shorthandsPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", shorthandsPath, err)
	}

	return t, nil
}

// ValueToCSS stringifies a resolved JSON-shaped theme value: strings pass
// through; numbers/bools are formatted; arrays take element 0 if it is a
// string, else are JSON-encoded; objects are
// JSON-encoded; null is an error.
func ValueToCSS(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", fmt.Errorf("token value is null")
	case string:
		return val, nil
	case bool:
		if val {
			return "true", nil
		}
		return "false", nil
	case float64:
		return formatNumber(val), nil
	case []any:
		if len(val) > 0 {
			if s, ok := val[0].(string); ok {
				return s, nil
			}
		}
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
