// Package loader recursively inlines `@import "relative/path";` directives
// into a single text buffer, operating on raw lines rather than an AST,
// since inlining happens before the parser ever runs.
package loader

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// reImport matches an `@import "path";` line (single or double quotes)
// after trimming surrounding whitespace.
var reImport = regexp.MustCompile(`^@import\s+(?:"([^"]*)"|'([^']*)')\s*;\s*$`)

// Load reads path and recursively inlines every `@import` line it finds,
// returning one merged text buffer. Relative import paths resolve against
// the directory of the file that contains them.
func Load(path string, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	l := &loadState{
		visited: make(map[string]bool),
		stack:   make(map[string]bool),
		log:     log,
	}
	return l.load(path)
}

type loadState struct {
	visited map[string]bool // fully inlined already
	stack   map[string]bool // currently being inlined (cycle detection)
	log     *zap.Logger
}

func (l *loadState) load(path string) (string, error) {
	canonical, err := canonicalize(path)
	if err != nil {
		return "", fmt.Errorf("Failed to resolve %s", path)
	}

	if l.stack[canonical] {
		return "", fmt.Errorf("Recursive import detected: %s", canonical)
	}
	if l.visited[canonical] {
		return "", nil
	}

	data, err := os.ReadFile(canonical)
	if err != nil {
		return "", fmt.Errorf("Failed to read %s", canonical)
	}
	l.log.Debug("loading source", zap.String("path", canonical))

	l.stack[canonical] = true
	defer delete(l.stack, canonical)

	dir := filepath.Dir(canonical)
	var out strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if m := reImport.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			rel := m[1]
			if rel == "" {
				rel = m[2]
			}
			imported := filepath.Join(dir, rel)
			inlined, err := l.load(imported)
			if err != nil {
				return "", err
			}
			out.WriteString(inlined)
			out.WriteByte('\n')
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("Failed to read %s", canonical)
	}

	l.visited[canonical] = true
	return out.String(), nil
}

// ImportedFiles returns the canonical path of path and every file it
// transitively @imports, for callers (such as --watch) that need to know
// which files to monitor rather than their merged content.
func ImportedFiles(path string) ([]string, error) {
	visited := make(map[string]bool)
	stack := make(map[string]bool)
	var files []string

	var walk func(p string) error
	walk = func(p string) error {
		canonical, err := canonicalize(p)
		if err != nil {
			return fmt.Errorf("Failed to resolve %s", p)
		}
		if stack[canonical] {
			return fmt.Errorf("Recursive import detected: %s", canonical)
		}
		if visited[canonical] {
			return nil
		}

		data, err := os.ReadFile(canonical)
		if err != nil {
			return fmt.Errorf("Failed to read %s", canonical)
		}

		stack[canonical] = true
		defer delete(stack, canonical)
		files = append(files, canonical)

		dir := filepath.Dir(canonical)
		scanner := bufio.NewScanner(strings.NewReader(string(data)))
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			m := reImport.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			rel := m[1]
			if rel == "" {
				rel = m[2]
			}
			if err := walk(filepath.Join(dir, rel)); err != nil {
				return err
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("Failed to read %s", canonical)
		}

		visited[canonical] = true
		return nil
	}

	if err := walk(path); err != nil {
		return nil, err
	}
	return files, nil
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	// EvalSymlinks requires the file to exist; fall back to the absolute
	// path so a not-yet-readable path still produces a stable canonical
	// form for cycle/visited tracking (the subsequent os.ReadFile surfaces
	// the real error).
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return filepath.Clean(resolved), nil
	}
	return filepath.Clean(abs), nil
}
