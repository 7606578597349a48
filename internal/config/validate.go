package config

import (
	"fmt"

	"github.com/octocheck/octocheck/internal/checks"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a Config for structural and semantic errors.
// It returns a slice of all validation errors found (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	for i, in := range cfg.Inputs {
		prefix := fmt.Sprintf("inputs[%d]", i)

		if in.Grammar == "" {
			errs = append(errs, ValidationError{
				Field:   prefix + ".grammar",
				Message: "is required",
			})
		} else if _, ok := checks.LookupGrammar(in.Grammar); !ok {
			errs = append(errs, ValidationError{
				Field:   prefix + ".grammar",
				Message: fmt.Sprintf("unrecognized grammar %q (known: %v)", in.Grammar, checks.GrammarIDs()),
			})
		}

		if len(in.Patterns) == 0 {
			errs = append(errs, ValidationError{
				Field:   prefix + ".patterns",
				Message: "at least one pattern is required",
			})
		}
	}

	return errs
}
