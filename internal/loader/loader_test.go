package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}

func TestLoadInlinesImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.rcss", ".base { color: red; }\n")
	main := writeFile(t, dir, "main.rcss", `@import "base.rcss";
.main { color: blue; }
`)

	merged, err := Load(main, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !strings.Contains(merged, ".base { color: red; }") {
		t.Errorf("expected merged text to contain base.rcss content, got: %s", merged)
	}
	if !strings.Contains(merged, ".main { color: blue; }") {
		t.Errorf("expected merged text to contain main.rcss content, got: %s", merged)
	}
}

func TestLoadDedupesRepeatedImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.rcss", ".shared { color: green; }\n")
	main := writeFile(t, dir, "main.rcss", `@import "shared.rcss";
@import "shared.rcss";
.main { color: blue; }
`)

	merged, err := Load(main, nil)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if n := strings.Count(merged, ".shared"); n != 1 {
		t.Errorf("expected shared.rcss content to appear exactly once, got %d occurrences in: %s", n, merged)
	}
}

func TestLoadDetectsRecursiveImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.rcss", `@import "b.rcss";
.a { color: red; }
`)
	bPath := writeFile(t, dir, "b.rcss", `@import "a.rcss";
.b { color: blue; }
`)

	_, err := Load(bPath, nil)
	if err == nil {
		t.Fatalf("expected recursive import error, got nil")
	}
	if !strings.Contains(err.Error(), "Recursive import detected") {
		t.Errorf("expected 'Recursive import detected' in error, got: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.rcss"), nil)
	if err == nil {
		t.Fatalf("expected error for missing file, got nil")
	}
	if !strings.Contains(err.Error(), "Failed to read") {
		t.Errorf("expected 'Failed to read' in error, got: %v", err)
	}
}

func TestImportedFilesListsTransitiveImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "leaf.rcss", ".leaf {}\n")
	mid := writeFile(t, dir, "mid.rcss", `@import "leaf.rcss";
.mid {}
`)
	main := writeFile(t, dir, "main.rcss", `@import "mid.rcss";
.main {}
`)
	_ = mid

	files, err := ImportedFiles(main)
	if err != nil {
		t.Fatalf("ImportedFiles returned error: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 transitively imported files, got %d: %v", len(files), files)
	}
}
