package checks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeReportFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExpandInputs_Globs(t *testing.T) {
	dir := t.TempDir()
	writeReportFile(t, filepath.Join(dir, "reports", "vet.txt"), "")
	writeReportFile(t, filepath.Join(dir, "reports", "style.txt"), "")
	writeReportFile(t, filepath.Join(dir, "reports", "unit", "results.xml"), "")

	groups := []PatternGroup{
		{GrammarID: "govet", Patterns: []string{filepath.Join(dir, "reports", "*.txt")}},
		{GrammarID: "xunit", Patterns: []string{filepath.Join(dir, "**", "*.xml")}},
	}
	inputs, err := ExpandInputs(groups)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inputs) != 3 {
		t.Fatalf("expected 3 inputs, got %d: %v", len(inputs), inputs)
	}

	// Groups resolve in order: govet files first, then the xunit match.
	if inputs[0].Grammar.ID != "govet" || inputs[1].Grammar.ID != "govet" {
		t.Errorf("expected govet inputs first, got %v", inputs)
	}
	last := inputs[2]
	if last.Grammar.ID != "xunit" {
		t.Errorf("expected xunit input last, got %q", last.Grammar.ID)
	}
	if filepath.Base(last.Path) != "results.xml" {
		t.Errorf("expected results.xml, got %q", last.Path)
	}
}

func TestExpandInputs_DuplicatePatternsCollapse(t *testing.T) {
	dir := t.TempDir()
	writeReportFile(t, filepath.Join(dir, "vet.txt"), "")

	groups := []PatternGroup{
		{GrammarID: "govet", Patterns: []string{
			filepath.Join(dir, "*.txt"),
			filepath.Join(dir, "vet.txt"),
		}},
	}
	inputs, err := ExpandInputs(groups)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inputs) != 1 {
		t.Errorf("expected 1 input, got %d", len(inputs))
	}
}

func TestExpandInputs_NoMatchesIsNotAnError(t *testing.T) {
	dir := t.TempDir()
	inputs, err := ExpandInputs([]PatternGroup{
		{GrammarID: "pep8", Patterns: []string{filepath.Join(dir, "nothing-*.txt")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inputs) != 0 {
		t.Errorf("expected 0 inputs, got %d", len(inputs))
	}
}

func TestExpandInputs_Stdin(t *testing.T) {
	inputs, err := ExpandInputs([]PatternGroup{
		{GrammarID: "pep8", Patterns: []string{"-"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inputs) != 1 || inputs[0].Path != "-" {
		t.Fatalf("expected single stdin input, got %v", inputs)
	}
}

func TestExpandInputs_StdinClaimedOnce(t *testing.T) {
	inputs, err := ExpandInputs([]PatternGroup{
		{GrammarID: "pep8", Patterns: []string{"-"}},
		{GrammarID: "xunit", Patterns: []string{"-"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inputs) != 1 {
		t.Fatalf("expected stdin claimed once, got %d inputs: %v", len(inputs), inputs)
	}
	if inputs[0].Grammar.ID != "pep8" {
		t.Errorf("expected the first group to claim stdin, got %q", inputs[0].Grammar.ID)
	}
}

func TestExpandInputs_UnknownGrammar(t *testing.T) {
	_, err := ExpandInputs([]PatternGroup{{GrammarID: "tslint", Patterns: []string{"*.txt"}}})
	if err == nil {
		t.Fatal("expected error for unknown grammar")
	}
	if !strings.Contains(err.Error(), "unknown grammar") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseInput_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vet.txt")
	writeReportFile(t, path, "main.go:10: unused variable x\n")

	g := mustGrammar(t, "govet")
	res, err := ParseInput(Input{Grammar: g, Path: path}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Annotations) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(res.Annotations))
	}
	if res.Annotations[0].Path != "main.go" {
		t.Errorf("expected path=main.go, got %q", res.Annotations[0].Path)
	}
}

func TestParseInput_Stdin(t *testing.T) {
	g := mustGrammar(t, "pep8")
	stdin := strings.NewReader("a.py:1:2: E225 missing whitespace around operator\n")
	res, err := ParseInput(Input{Grammar: g, Path: "-"}, stdin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Annotations) != 1 {
		t.Fatalf("expected 1 annotation, got %d", len(res.Annotations))
	}
}

func TestParseInput_MissingFile(t *testing.T) {
	g := mustGrammar(t, "govet")
	_, err := ParseInput(Input{Grammar: g, Path: filepath.Join(t.TempDir(), "missing.txt")}, nil)
	if err == nil {
		t.Fatal("expected error for missing report file")
	}
}
