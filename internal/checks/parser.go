package checks

import (
	"io"
	"sort"
)

// ParseResult holds the normalized output from a parser: the annotations
// extracted from one report plus the status the report implies.
type ParseResult struct {
	Annotations []Annotation
	Status      Status
}

// Parser converts one raw tool report into a ParseResult. Lines or
// blocks a parser does not recognize are skipped, not errors; an error
// return means the whole input was unreadable or structurally invalid.
type Parser interface {
	Parse(r io.Reader) (ParseResult, error)
}

// Grammar describes one supported tool-output format.
type Grammar struct {
	ID     string
	Name   string // display name used in check-run details
	Parser Parser
}

func grammarRegistry() map[string]Grammar {
	return map[string]Grammar{
		"govet": {ID: "govet", Name: "go vet", Parser: &GovetParser{}},
		"pep8":  {ID: "pep8", Name: "PEP8", Parser: &Pep8Parser{}},
		"cargo": {ID: "cargo", Name: "Cargo JSON", Parser: &CargoParser{}},
		"xunit": {ID: "xunit", Name: "xUnit", Parser: &XUnitParser{}},
	}
}

// LookupGrammar returns the grammar registered under the given id.
func LookupGrammar(id string) (Grammar, bool) {
	g, ok := grammarRegistry()[id]
	return g, ok
}

// GrammarIDs returns the ids of all registered grammars, sorted.
func GrammarIDs() []string {
	reg := grammarRegistry()
	ids := make([]string, 0, len(reg))
	for id := range reg {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
