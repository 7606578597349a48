package checks

import (
	"fmt"
	"io"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// PatternGroup pairs a grammar id with the glob patterns naming its
// report files.
type PatternGroup struct {
	GrammarID string
	Patterns  []string
}

// Input is one resolved report source. Path "-" means standard input.
type Input struct {
	Grammar Grammar
	Path    string
}

// ExpandInputs resolves pattern groups into concrete inputs, in group
// order. Patterns support ** globbing; the literal "-" is kept as-is. A
// pattern matching nothing contributes nothing; duplicate paths within a
// group are dropped. Standard input has a single reader, so the first
// group naming "-" claims it and later mentions are dropped.
func ExpandInputs(groups []PatternGroup) ([]Input, error) {
	var inputs []Input
	stdinClaimed := false
	for _, group := range groups {
		g, ok := LookupGrammar(group.GrammarID)
		if !ok {
			return nil, fmt.Errorf("unknown grammar %q", group.GrammarID)
		}

		seen := make(map[string]struct{})
		for _, pattern := range group.Patterns {
			if pattern == "-" {
				if !stdinClaimed {
					stdinClaimed = true
					inputs = append(inputs, Input{Grammar: g, Path: "-"})
				}
				continue
			}
			matches, err := doublestar.FilepathGlob(pattern)
			if err != nil {
				return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
			}
			for _, m := range matches {
				if _, dup := seen[m]; dup {
					continue
				}
				seen[m] = struct{}{}
				inputs = append(inputs, Input{Grammar: g, Path: m})
			}
		}
	}
	return inputs, nil
}

// ParseInput opens and parses a single input, reading stdin for "-".
func ParseInput(in Input, stdin io.Reader) (ParseResult, error) {
	if in.Path == "-" {
		res, err := in.Grammar.Parser.Parse(stdin)
		if err != nil {
			return ParseResult{}, fmt.Errorf("parse stdin: %w", err)
		}
		return res, nil
	}

	f, err := os.Open(in.Path)
	if err != nil {
		return ParseResult{}, fmt.Errorf("open report file: %w", err)
	}
	defer f.Close()

	res, err := in.Grammar.Parser.Parse(f)
	if err != nil {
		return ParseResult{}, fmt.Errorf("parse %s: %w", in.Path, err)
	}
	return res, nil
}
