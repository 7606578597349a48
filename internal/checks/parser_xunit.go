package checks

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"
)

// XUnitParser parses JUnit-style XML test reports.
type XUnitParser struct{}

// maxRawDetailBytes caps the failure text carried into raw details;
// the Checks API rejects oversized annotation payloads.
const maxRawDetailBytes = 65536

type xunitSuite struct {
	Cases []xunitCase `xml:"testcase"`
}

type xunitCase struct {
	File     string         `xml:"file,attr"`
	Line     string         `xml:"line,attr"`
	Errors   []xunitProblem `xml:"error"`
	Failures []xunitProblem `xml:"failure"`
}

type xunitProblem struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}

func (p *XUnitParser) Parse(r io.Reader) (ParseResult, error) {
	var result ParseResult

	data, err := io.ReadAll(r)
	if err != nil {
		return result, fmt.Errorf("read xunit report: %w", err)
	}

	var probe struct {
		XMLName xml.Name
	}
	if err := xml.Unmarshal(data, &probe); err != nil {
		return result, fmt.Errorf("parse xunit XML: %w", err)
	}

	var suites []xunitSuite
	switch probe.XMLName.Local {
	case "testsuites":
		var doc struct {
			Suites []xunitSuite `xml:"testsuite"`
		}
		if err := xml.Unmarshal(data, &doc); err != nil {
			return result, fmt.Errorf("parse xunit XML: %w", err)
		}
		suites = doc.Suites
	case "testsuite":
		var suite xunitSuite
		if err := xml.Unmarshal(data, &suite); err != nil {
			return result, fmt.Errorf("parse xunit XML: %w", err)
		}
		suites = []xunitSuite{suite}
	default:
		return result, fmt.Errorf("invalid xunit report: root element <%s>", probe.XMLName.Local)
	}

	for _, suite := range suites {
		for _, tc := range suite.Cases {
			for _, problem := range tc.Errors {
				annotateCase(&result, tc, problem)
				result.Status = StatusFailure
			}
			for _, problem := range tc.Failures {
				annotateCase(&result, tc, problem)
				result.Status = StatusFailure
			}
		}
	}
	return result, nil
}

// annotateCase turns one <error> or <failure> into an annotation. Cases
// without file and line attributes carry no location and are skipped.
func annotateCase(result *ParseResult, tc xunitCase, problem xunitProblem) {
	message := problem.Message
	if message == "" {
		message = problem.Type
	}
	if message == "" || tc.File == "" || tc.Line == "" {
		return
	}
	line, err := strconv.Atoi(tc.Line)
	if err != nil {
		return
	}

	ann := Annotation{
		Path:      tc.File,
		StartLine: line,
		EndLine:   line,
		Level:     LevelFailure,
		Message:   message,
	}
	if problem.Text != "" {
		text := problem.Text
		if len(text) > maxRawDetailBytes {
			// Cut on a rune boundary so the details stay valid UTF-8.
			cut := maxRawDetailBytes
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			text = text[:cut]
		}
		ann.RawDetails = text
	}
	result.Annotations = append(result.Annotations, ann)
}
