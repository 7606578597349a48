package checks

import "encoding/json"

// Level classifies a single annotation. The values are the wire values
// accepted by the GitHub Checks API annotation_level field.
type Level string

const (
	LevelNotice  Level = "notice"
	LevelWarning Level = "warning"
	LevelFailure Level = "failure"
)

// Annotation is one normalized finding extracted from a tool report.
// StartColumn/EndColumn are only set when StartLine == EndLine; the
// Checks API rejects columns on multi-line annotations.
type Annotation struct {
	Path        string `json:"path"`
	StartLine   int    `json:"start_line"`
	EndLine     int    `json:"end_line"`
	StartColumn int    `json:"start_column,omitempty"`
	EndColumn   int    `json:"end_column,omitempty"`
	Level       Level  `json:"annotation_level"`
	Message     string `json:"message"`
	Title       string `json:"title,omitempty"`
	RawDetails  string `json:"raw_details,omitempty"`
}

// Status is the aggregate outcome of parsing one or more reports.
// Values are ordered so that merging two statuses keeps the worse one.
type Status int

const (
	StatusSuccess Status = iota
	StatusNeutral
	StatusFailure
)

// Merge returns the worse of the two statuses.
func (s Status) Merge(other Status) Status {
	if other > s {
		return other
	}
	return s
}

// Conclusion returns the check-run conclusion string for the status.
func (s Status) Conclusion() string {
	switch s {
	case StatusFailure:
		return "failure"
	case StatusNeutral:
		return "neutral"
	default:
		return "success"
	}
}

func (s Status) String() string {
	return s.Conclusion()
}

// MarshalJSON renders the status as its conclusion string.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Conclusion())
}
