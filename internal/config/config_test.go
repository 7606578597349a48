package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `
check:
  name: backend-lint
  title: Backend lint results
  details_url: https://ci.example.com/build/123
paths:
  del_prefix: "./"
  add_prefix: "backend/"
inputs:
  - grammar: pep8
    patterns:
      - reports/flake8.txt
  - grammar: xunit
    patterns:
      - "reports/**/*.xml"
      - "-"
`

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "octocheck.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeTestConfig(t, validConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Check.Name != "backend-lint" {
		t.Errorf("Check.Name = %q, want %q", cfg.Check.Name, "backend-lint")
	}
	if cfg.Check.Title != "Backend lint results" {
		t.Errorf("Check.Title = %q", cfg.Check.Title)
	}
	if cfg.Check.DetailsURL != "https://ci.example.com/build/123" {
		t.Errorf("Check.DetailsURL = %q", cfg.Check.DetailsURL)
	}
	if cfg.Paths.DelPrefix != "./" || cfg.Paths.AddPrefix != "backend/" {
		t.Errorf("Paths = %+v", cfg.Paths)
	}
	if len(cfg.Inputs) != 2 {
		t.Fatalf("len(Inputs) = %d, want 2", len(cfg.Inputs))
	}
	if cfg.Inputs[0].Grammar != "pep8" {
		t.Errorf("Inputs[0].Grammar = %q", cfg.Inputs[0].Grammar)
	}
	if len(cfg.Inputs[1].Patterns) != 2 || cfg.Inputs[1].Patterns[1] != "-" {
		t.Errorf("Inputs[1].Patterns = %v", cfg.Inputs[1].Patterns)
	}
}

func TestDefaultsApplied(t *testing.T) {
	yaml := `
inputs:
  - grammar: govet
    patterns:
      - vet.txt
`
	path := writeTestConfig(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Check.Name != DefaultCheckName {
		t.Errorf("Check.Name = %q, want default %q", cfg.Check.Name, DefaultCheckName)
	}
	if cfg.Check.Title != DefaultTitle {
		t.Errorf("Check.Title = %q, want default %q", cfg.Check.Title, DefaultTitle)
	}
}

func TestExplicitNameNotOverridden(t *testing.T) {
	path := writeTestConfig(t, validConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Check.Name == DefaultCheckName {
		t.Error("explicit check name was replaced by the default")
	}
}

func TestValidateValidConfig(t *testing.T) {
	path := writeTestConfig(t, validConfig)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	errs := Validate(cfg)
	if len(errs) != 0 {
		t.Errorf("Validate() returned %d errors for valid config:", len(errs))
		for _, e := range errs {
			t.Errorf("  - %s", e)
		}
	}
}

func TestValidateUnrecognizedGrammar(t *testing.T) {
	yaml := `
inputs:
  - grammar: tslint
    patterns:
      - lint.txt
`
	path := writeTestConfig(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	errs := Validate(cfg)
	found := false
	for _, e := range errs {
		if strings.Contains(e.Message, "unrecognized grammar") {
			found = true
		}
	}
	if !found {
		t.Error("expected validation error for unrecognized grammar")
	}
}

func TestValidateMissingGrammar(t *testing.T) {
	yaml := `
inputs:
  - patterns:
      - lint.txt
`
	path := writeTestConfig(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	errs := Validate(cfg)
	found := false
	for _, e := range errs {
		if e.Field == "inputs[0].grammar" && strings.Contains(e.Message, "required") {
			found = true
		}
	}
	if !found {
		t.Error("expected validation error for missing grammar")
	}
}

func TestValidateEmptyPatterns(t *testing.T) {
	yaml := `
inputs:
  - grammar: govet
`
	path := writeTestConfig(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	errs := Validate(cfg)
	found := false
	for _, e := range errs {
		if e.Field == "inputs[0].patterns" {
			found = true
		}
	}
	if !found {
		t.Error("expected validation error for empty patterns")
	}
}

func TestValidateRecognizedGrammars(t *testing.T) {
	for _, grammar := range []string{"govet", "pep8", "cargo", "xunit"} {
		yaml := `
inputs:
  - grammar: ` + grammar + `
    patterns:
      - report.txt
`
		path := writeTestConfig(t, yaml)
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error for grammar %q: %v", grammar, err)
		}
		errs := Validate(cfg)
		for _, e := range errs {
			if strings.Contains(e.Message, "unrecognized grammar") {
				t.Errorf("grammar %q should be recognized but got error: %s", grammar, e)
			}
		}
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeTestConfig(t, "not: [valid: yaml: !!!")
	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadNonexistentFile(t *testing.T) {
	_, err := Load("/nonexistent/path/octocheck.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadDefaultMissingFileIsNotAnError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	orig, _ := os.Getwd()
	dir := t.TempDir()
	os.Chdir(dir)
	defer os.Chdir(orig)

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error: %v", err)
	}
	if cfg.Check.Name != DefaultCheckName {
		t.Errorf("Check.Name = %q, want default %q", cfg.Check.Name, DefaultCheckName)
	}
	if len(cfg.Inputs) != 0 {
		t.Errorf("expected no inputs, got %v", cfg.Inputs)
	}
}

func TestLoadDefaultFromCurrentDir(t *testing.T) {
	orig, _ := os.Getwd()
	dir := t.TempDir()
	os.Chdir(dir)
	defer os.Chdir(orig)

	content := `
check:
  name: local-check
inputs:
  - grammar: cargo
    patterns:
      - target/diag.json
`
	os.WriteFile(filepath.Join(dir, "octocheck.yaml"), []byte(content), 0644)

	cfg, err := LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault() error: %v", err)
	}
	if cfg.Check.Name != "local-check" {
		t.Errorf("Check.Name = %q, want %q", cfg.Check.Name, "local-check")
	}
}
