// Package compiler wires the loader, parser, resolver, and emitter into
// the single-shot pipeline the CLI drives: parse → resolve → emit.
package compiler

import (
	"go.uber.org/zap"

	"github.com/nathan-king/rcss-preprocessor/internal/emitter"
	"github.com/nathan-king/rcss-preprocessor/internal/loader"
	"github.com/nathan-king/rcss-preprocessor/internal/resolver"
	"github.com/nathan-king/rcss-preprocessor/internal/rparser"
	"github.com/nathan-king/rcss-preprocessor/internal/theme"
)

// Compile loads inputPath (inlining its @imports), parses it, resolves it
// against th, and serialises the result to CSS text.
func Compile(inputPath string, th *theme.Theme, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	merged, err := loader.Load(inputPath, log)
	if err != nil {
		return "", err
	}

	sheet, err := rparser.Parse(merged)
	if err != nil {
		return "", err
	}
	log.Debug("parsed stylesheet", zap.Int("rules", len(sheet.Rules)))

	if err := resolver.Resolve(sheet, th); err != nil {
		return "", err
	}

	return emitter.Emit(sheet), nil
}
