package emitter

import "strings"

// prefixed is one extra sibling declaration an autoprefix rule produces.
type prefixed struct {
	property string
	value    string
}

var alwaysPrefixDouble = map[string][2]string{
	"border-radius": {"-webkit-border-radius", "-moz-border-radius"},
	"transform":     {"-webkit-transform", "-ms-transform"},
	"appearance":    {"-webkit-appearance", "-moz-appearance"},
}

var webkitOnly = map[string]string{
	"box-shadow":      "-webkit-box-shadow",
	"filter":          "-webkit-filter",
	"backdrop-filter": "-webkit-backdrop-filter",
}

var gradientFuncs = []string{
	"linear-gradient(", "radial-gradient(", "conic-gradient(",
	"repeating-linear-gradient(", "repeating-radial-gradient(", "repeating-conic-gradient(",
}

var cursorPrefix = map[string]string{
	"grab":     "-webkit-grab",
	"grabbing": "-webkit-grabbing",
}

// autoprefix returns the extra declarations the static autoprefix table
// produces for one resolved (property, value) pair.
func autoprefix(property, value string) []prefixed {
	if pair, ok := alwaysPrefixDouble[property]; ok {
		return []prefixed{{pair[0], value}, {pair[1], value}}
	}
	if webkit, ok := webkitOnly[property]; ok {
		return []prefixed{{webkit, value}}
	}
	if property == "background" || property == "background-image" {
		if isGradient(value) && !strings.HasPrefix(value, "-webkit-") {
			return []prefixed{{property, "-webkit-" + value}}
		}
		return nil
	}
	if property == "display" && value == "flex" {
		return []prefixed{{"display", "-webkit-box"}, {"display", "-ms-flexbox"}}
	}
	if property == "cursor" {
		if webkit, ok := cursorPrefix[value]; ok {
			return []prefixed{{"cursor", webkit}}
		}
	}
	return nil
}

func isGradient(value string) bool {
	for _, fn := range gradientFuncs {
		if strings.HasPrefix(value, fn) {
			return true
		}
	}
	return false
}
