package checks

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// CargoParser parses cargo's JSON-lines diagnostic output
// (cargo build --message-format json).
type CargoParser struct{}

type cargoLine struct {
	Reason  string        `json:"reason"`
	Message *cargoMessage `json:"message"`
}

type cargoMessage struct {
	Message  string         `json:"message"`
	Level    string         `json:"level"`
	Code     *cargoCode     `json:"code"`
	Rendered string         `json:"rendered"`
	Spans    []cargoSpan    `json:"spans"`
	Children []cargoMessage `json:"children"`
}

type cargoCode struct {
	Code        string `json:"code"`
	Explanation string `json:"explanation"`
}

type cargoSpan struct {
	FileName             string `json:"file_name"`
	LineStart            int    `json:"line_start"`
	LineEnd              int    `json:"line_end"`
	ColumnStart          int    `json:"column_start"`
	ColumnEnd            int    `json:"column_end"`
	IsPrimary            bool   `json:"is_primary"`
	Label                string `json:"label"`
	SuggestedReplacement string `json:"suggested_replacement"`
}

func (p *CargoParser) Parse(r io.Reader) (ParseResult, error) {
	var result ParseResult

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		var line cargoLine
		if err := json.Unmarshal(sc.Bytes(), &line); err != nil {
			continue
		}
		if line.Reason != "compiler-message" || line.Message == nil {
			continue
		}
		p.annotateMessage(&result, line.Message, nil)
	}
	return result, sc.Err()
}

// annotateMessage emits one annotation per span of a compiler message and
// recurses into child messages. Child messages resolve their title against
// the parent's primary span, which points at the code the child refers to.
func (p *CargoParser) annotateMessage(result *ParseResult, msg, parent *cargoMessage) {
	title := msg.Message

	if msg.Level == "" {
		return
	}
	var level Level
	switch {
	case strings.Contains(msg.Level, "error"):
		level = LevelFailure
		result.Status = StatusFailure
	case strings.Contains(msg.Level, "warning"):
		level = LevelWarning
		result.Status = StatusFailure
	default:
		level = LevelNotice
	}

	var rawDetails strings.Builder
	if msg.Rendered != "" {
		rawDetails.WriteString(msg.Rendered)
		rawDetails.WriteString("\n")
	}
	if msg.Code != nil {
		if msg.Code.Code != "" {
			fmt.Fprintf(&rawDetails, "Error code %s\n", msg.Code.Code)
		}
		if msg.Code.Explanation != "" {
			rawDetails.WriteString(msg.Code.Explanation)
		}
	}

	primarySource := msg
	if parent != nil {
		primarySource = parent
	}
	if primary := primarySpan(primarySource); primary != nil {
		if primary.FileName != "" && primary.LineStart != 0 {
			title = fmt.Sprintf("%s#%d: %s", primary.FileName, primary.LineStart, title)
		}
	}

	for _, span := range msg.Spans {
		if span.FileName == "" || span.LineStart == 0 {
			continue
		}
		lineEnd := span.LineEnd
		if lineEnd == 0 {
			lineEnd = span.LineStart
		}

		label := span.Label
		if label == "" {
			switch {
			case span.SuggestedReplacement != "":
				label = fmt.Sprintf("Suggested replacement: %s", span.SuggestedReplacement)
			case title != "":
				label = title
			default:
				continue
			}
		}

		ann := Annotation{
			Path:      span.FileName,
			StartLine: span.LineStart,
			EndLine:   lineEnd,
			Level:     level,
			Message:   label,
		}
		if span.LineStart == lineEnd {
			ann.StartColumn = span.ColumnStart
			ann.EndColumn = span.ColumnEnd
		}
		ann.RawDetails = rawDetails.String()
		ann.Title = title
		result.Annotations = append(result.Annotations, ann)
	}

	for i := range msg.Children {
		p.annotateMessage(result, &msg.Children[i], msg)
	}
}

// primarySpan returns the first span marked primary, or nil.
func primarySpan(msg *cargoMessage) *cargoSpan {
	for i := range msg.Spans {
		if msg.Spans[i].IsPrimary {
			return &msg.Spans[i]
		}
	}
	return nil
}
