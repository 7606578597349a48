package checks

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FileReport records the outcome of parsing a single input file.
type FileReport struct {
	Grammar     string `json:"grammar"`
	Path        string `json:"path"`
	Annotations int    `json:"annotations"`
	Status      Status `json:"status"`
}

// Report accumulates parse results across all input files and carries
// everything the reporter needs for one check-run submission. Annotations
// are deduplicated structurally, keeping first-seen order.
type Report struct {
	files        []FileReport
	annotations  []Annotation
	seen         map[Annotation]struct{}
	byGrammar    map[string]*grammarTally
	grammarOrder []string
	status       Status
}

type grammarTally struct {
	name  string
	files int
	seen  map[Annotation]struct{}
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{
		seen:      make(map[Annotation]struct{}),
		byGrammar: make(map[string]*grammarTally),
	}
}

// Add merges the parse result of one input file into the report.
func (r *Report) Add(g Grammar, path string, res ParseResult) {
	tally := r.byGrammar[g.ID]
	if tally == nil {
		tally = &grammarTally{name: g.Name, seen: make(map[Annotation]struct{})}
		r.byGrammar[g.ID] = tally
		r.grammarOrder = append(r.grammarOrder, g.ID)
	}
	tally.files++

	for _, ann := range res.Annotations {
		tally.seen[ann] = struct{}{}
		if _, ok := r.seen[ann]; ok {
			continue
		}
		r.seen[ann] = struct{}{}
		r.annotations = append(r.annotations, ann)
	}

	r.files = append(r.files, FileReport{
		Grammar:     g.ID,
		Path:        path,
		Annotations: len(res.Annotations),
		Status:      res.Status,
	})
	r.status = r.status.Merge(res.Status)
}

// Files returns the per-file results in parse order.
func (r *Report) Files() []FileReport {
	return r.files
}

// Annotations returns the merged annotations in first-seen order.
func (r *Report) Annotations() []Annotation {
	return r.annotations
}

// Status returns the worst status across all parsed inputs.
func (r *Report) Status() Status {
	return r.status
}

// Conclusion returns the check-run conclusion implied by the status.
func (r *Report) Conclusion() string {
	return r.status.Conclusion()
}

// Summary returns the one-line summary shown in the check-run output.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d files parsed, %d annotations in total.", len(r.files), len(r.annotations))
}

// Details returns the per-grammar breakdown shown as the check-run text.
// Empty when nothing was parsed.
func (r *Report) Details() string {
	var b strings.Builder
	for _, id := range r.grammarOrder {
		t := r.byGrammar[id]
		fmt.Fprintf(&b, "%d %s files parsed, %d %s annotations.\n\n", t.files, t.name, len(t.seen), t.name)
	}
	return b.String()
}

// RewritePaths makes annotation paths repository-relative: delPrefix is
// stripped when present, then addPrefix is prepended. Call once after all
// inputs have been added.
func (r *Report) RewritePaths(delPrefix, addPrefix string) {
	if delPrefix == "" && addPrefix == "" {
		return
	}
	for i := range r.annotations {
		path := r.annotations[i].Path
		if delPrefix != "" {
			path = strings.TrimPrefix(path, delPrefix)
		}
		r.annotations[i].Path = addPrefix + path
	}
}

// JSON returns the report as indented JSON.
func (r *Report) JSON() (string, error) {
	snap := struct {
		Conclusion  string       `json:"conclusion"`
		Summary     string       `json:"summary"`
		Files       []FileReport `json:"files"`
		Annotations []Annotation `json:"annotations"`
	}{r.Conclusion(), r.Summary(), r.files, r.annotations}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
