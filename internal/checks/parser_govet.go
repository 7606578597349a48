package checks

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// GovetParser parses go vet style output.
type GovetParser struct{}

// go vet output format: main.go:10: unused variable x
// A column is sometimes present: main.go:10:5: unused variable x
var govetLineRe = regexp.MustCompile(`^(.+?):(\d+)(?::(\d+))?:\s*(.+)$`)

func (p *GovetParser) Parse(r io.Reader) (ParseResult, error) {
	var result ParseResult

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		m := govetLineRe.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		line, _ := strconv.Atoi(m[2])
		ann := Annotation{
			Path:      m[1],
			StartLine: line,
			EndLine:   line,
			Level:     LevelWarning,
			Message:   strings.TrimSpace(m[4]),
		}
		if m[3] != "" {
			col, _ := strconv.Atoi(m[3])
			ann.StartColumn = col
			ann.EndColumn = col
		}
		result.Annotations = append(result.Annotations, ann)
		result.Status = StatusFailure
	}
	return result, sc.Err()
}
