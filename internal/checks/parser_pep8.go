package checks

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// Pep8Parser parses pep8/flake8 text output.
type Pep8Parser struct{}

// pep8 output format: app/views.py:42:80: E501 line too long (83 > 79 characters)
var pep8LineRe = regexp.MustCompile(`^(.+?):(\d+):(\d+):\s*(.+)$`)

// maxLineBytes bounds a single report line; cargo rendered diagnostics
// can run far past bufio.Scanner's default token size.
const maxLineBytes = 10 * 1024 * 1024

func (p *Pep8Parser) Parse(r io.Reader) (ParseResult, error) {
	var result ParseResult

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		m := pep8LineRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		line, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		msg := strings.TrimSpace(m[4])

		// E-codes are errors, everything else (W, C, F, ...) a warning
		level := LevelWarning
		if strings.HasPrefix(msg, "E") {
			level = LevelFailure
		}
		result.Annotations = append(result.Annotations, Annotation{
			Path:        m[1],
			StartLine:   line,
			EndLine:     line,
			StartColumn: col,
			EndColumn:   col,
			Level:       level,
			Message:     msg,
		})
		result.Status = StatusFailure
	}
	return result, sc.Err()
}
