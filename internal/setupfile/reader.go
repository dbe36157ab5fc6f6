// Package setupfile reads declared dependency sections out of a setup.py
// style declarations file. The file is scanned as text, never executed.
package setupfile

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Declaration is one declared name with the line it appears on.
type Declaration struct {
	Line int
	Name string
}

// Reader scans a declarations file for named, indentation-delimited
// sections of quoted entries.
type Reader struct {
	path  string
	lines []string
}

// Open reads the declarations file at path.
func Open(path string) (*Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read declarations file: %w", err)
	}
	return NewReader(path, data), nil
}

// NewReader creates a Reader over in-memory file content.
func NewReader(path string, src []byte) *Reader {
	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	return &Reader{path: path, lines: strings.Split(text, "\n")}
}

// Path returns the declarations file path.
func (r *Reader) Path() string {
	return r.path
}

// declPattern matches a quoted declared name immediately followed by a comma.
var declPattern = regexp.MustCompile(`.*['"]([a-zA-Z_\-0-9]+)['"],`)

// indentPattern captures a line's leading whitespace.
var indentPattern = regexp.MustCompile(`^(\s*)`)

// noImportMarker annotates a declaration line excluded from auditing.
const noImportMarker = "# no-import"

// Section extracts the declared names of the named section. The section
// starts at the first line matching the name followed by a colon or equals
// sign and ends at the first subsequent line indented no deeper than the
// header. A missing header means nothing was declared and yields an empty
// list, which is not an error.
func (r *Reader) Section(name string) []Declaration {
	headerPattern := regexp.MustCompile(regexp.QuoteMeta(name) + `.*[:=]`)

	start := -1
	indent := 0
	for i, line := range r.lines {
		if headerPattern.MatchString(line) {
			start = i
			indent = len(indentPattern.FindStringSubmatch(line)[1])
			break
		}
	}
	if start < 0 {
		return nil
	}

	stop := len(r.lines)
	for i := start + 1; i < len(r.lines); i++ {
		lineIndent := len(indentPattern.FindStringSubmatch(r.lines[i])[1])
		if lineIndent <= indent {
			stop = i
			break
		}
	}

	var decls []Declaration
	for i := start; i < stop; i++ {
		line := r.lines[i]
		match := declPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		if strings.Contains(line, noImportMarker) {
			continue
		}
		decls = append(decls, Declaration{Line: i + 1, Name: match[1]})
	}
	return decls
}

// Names returns just the declared names of a section.
func (r *Reader) Names(name string) []string {
	decls := r.Section(name)
	names := make([]string, 0, len(decls))
	for _, d := range decls {
		names = append(names, d.Name)
	}
	return names
}
