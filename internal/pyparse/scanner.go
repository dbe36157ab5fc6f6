package pyparse

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ParseFile reads and parses one Python source file.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse extracts the top-level import statements from src. Only statements
// starting at column zero are considered; nested imports are intentionally
// invisible, matching syntax-tree body walking.
func Parse(path string, src []byte) (*File, error) {
	f := &File{Path: path}

	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	st := &lexState{}
	var buf strings.Builder
	bufLine := 0
	building := false
	collecting := false

	for n, raw := range lines {
		lineNo := n + 1
		startsLogical := st.clean() && !building

		sanitized, err := sanitizeLine(raw, st)
		if err != nil {
			return nil, &ParseError{Path: path, Line: lineNo, Msg: err.Error()}
		}

		if startsLogical {
			if isImportStart(sanitized) {
				building = true
				collecting = true
				buf.Reset()
				bufLine = lineNo
			} else if !st.clean() {
				// A non-import logical line spanning several physical
				// lines; consume it without collecting.
				building = true
				collecting = false
			}
		}

		if collecting {
			buf.WriteString(sanitized)
			buf.WriteByte(' ')
		}

		if building && st.clean() {
			building = false
			if collecting {
				collecting = false
				if err := parseStatement(f, buf.String(), bufLine); err != nil {
					return nil, err
				}
			}
		}
	}

	if !st.clean() {
		return nil, &ParseError{Path: path, Line: len(lines), Msg: "unexpected end of file"}
	}
	if collecting {
		return nil, &ParseError{Path: path, Line: bufLine, Msg: "unterminated import statement"}
	}

	return f, nil
}

// lexState carries the lexical scan state across physical lines.
type lexState struct {
	tripleDelim string // delimiter of an open triple-quoted string
	singleDelim byte   // delimiter of a single-quoted string continued by a backslash
	depth       int    // open bracket nesting
	continued   bool   // previous line ended with a line-continuation backslash
}

// clean reports whether a new logical line may begin.
func (st *lexState) clean() bool {
	return st.tripleDelim == "" && st.singleDelim == 0 && st.depth == 0 && !st.continued
}

// sanitizeLine advances the lexical state across one physical line and
// returns the line with string contents and comments blanked out, so the
// statement parser never sees quoted or commented text.
func sanitizeLine(line string, st *lexState) (string, error) {
	var out strings.Builder
	st.continued = false

	i := 0
	for i < len(line) {
		if st.tripleDelim != "" {
			end := strings.Index(line[i:], st.tripleDelim)
			if end < 0 {
				return out.String(), nil
			}
			i += end + len(st.tripleDelim)
			st.tripleDelim = ""
			out.WriteByte(' ')
			continue
		}

		if st.singleDelim != 0 {
			closed, next, err := scanSingleString(line, i, st.singleDelim, st)
			if err != nil {
				return out.String(), err
			}
			i = next
			if closed {
				out.WriteByte(' ')
			}
			continue
		}

		c := line[i]
		switch {
		case c == '#':
			return out.String(), nil
		case c == '\'' || c == '"':
			delim := string(c)
			if strings.HasPrefix(line[i:], delim+delim+delim) {
				st.tripleDelim = delim + delim + delim
				i += 3
				continue
			}
			closed, next, err := scanSingleString(line, i+1, c, st)
			if err != nil {
				return out.String(), err
			}
			i = next
			if closed {
				out.WriteByte(' ')
			}
		case c == '(' || c == '[' || c == '{':
			st.depth++
			out.WriteByte(c)
			i++
		case c == ')' || c == ']' || c == '}':
			if st.depth > 0 {
				st.depth--
			}
			out.WriteByte(c)
			i++
		case c == '\\' && i == len(line)-1:
			st.continued = true
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}

	return out.String(), nil
}

// scanSingleString consumes a single-quoted string body starting at i.
// It returns whether the string closed on this line and the index after it.
// An unterminated string is only legal when the line ends with a backslash.
func scanSingleString(line string, i int, delim byte, st *lexState) (bool, int, error) {
	for i < len(line) {
		c := line[i]
		if c == '\\' {
			if i == len(line)-1 {
				// String continues on the next physical line.
				st.singleDelim = delim
				return false, i + 1, nil
			}
			i += 2
			continue
		}
		if c == delim {
			st.singleDelim = 0
			return true, i + 1, nil
		}
		i++
	}
	return false, i, fmt.Errorf("unterminated string literal")
}

var (
	dottedNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	namePattern       = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// isImportStart reports whether a sanitized line opens a column-zero
// import or from statement.
func isImportStart(line string) bool {
	return hasKeyword(line, "import") || hasKeyword(line, "from")
}

// hasKeyword reports whether line starts with the keyword followed by a
// token boundary.
func hasKeyword(line, keyword string) bool {
	if !strings.HasPrefix(line, keyword) {
		return false
	}
	rest := line[len(keyword):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '(' || rest[0] == '.'
}

// parseStatement parses one collected logical import statement.
func parseStatement(f *File, text string, line int) error {
	text = strings.Join(strings.Fields(text), " ")

	if strings.HasPrefix(text, "import") {
		return parsePlainImport(f, strings.TrimSpace(text[len("import"):]), line)
	}
	return parseFromImport(f, strings.TrimSpace(text[len("from"):]), line)
}

// parsePlainImport handles "import a.b, c as d".
func parsePlainImport(f *File, rest string, line int) error {
	if rest == "" {
		return &ParseError{Path: f.Path, Line: line, Msg: "import statement names no module"}
	}
	for _, part := range strings.Split(rest, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 || (len(fields) != 1 && (len(fields) != 3 || fields[1] != "as")) {
			return &ParseError{Path: f.Path, Line: line, Msg: fmt.Sprintf("malformed import target %q", strings.TrimSpace(part))}
		}
		target := fields[0]
		if !dottedNamePattern.MatchString(target) {
			return &ParseError{Path: f.Path, Line: line, Msg: fmt.Sprintf("invalid module name %q", target)}
		}
		f.Imports = append(f.Imports, Import{Line: line, Module: target})
	}
	return nil
}

// parseFromImport handles "from ..base import a, b as c" including the
// parenthesized and star forms.
func parseFromImport(f *File, rest string, line int) error {
	idx := findImportKeyword(rest)
	if idx < 0 {
		return &ParseError{Path: f.Path, Line: line, Msg: "from statement without import clause"}
	}

	moduleSpec := strings.ReplaceAll(rest[:idx], " ", "")
	namesSpec := strings.TrimSpace(rest[idx+len("import"):])

	level := 0
	for level < len(moduleSpec) && moduleSpec[level] == '.' {
		level++
	}
	module := moduleSpec[level:]

	if module != "" && !dottedNamePattern.MatchString(module) {
		return &ParseError{Path: f.Path, Line: line, Msg: fmt.Sprintf("invalid module name %q", module)}
	}
	if level == 0 && module == "" {
		// "from import x" is invalid syntax; never guess a target.
		return &ParseError{Path: f.Path, Line: line, Msg: "from statement names no module"}
	}

	namesSpec = strings.TrimPrefix(namesSpec, "(")
	namesSpec = strings.TrimSuffix(namesSpec, ")")
	namesSpec = strings.TrimSpace(namesSpec)
	if namesSpec == "" {
		return &ParseError{Path: f.Path, Line: line, Msg: "from statement imports no names"}
	}

	var names []string
	for _, part := range strings.Split(namesSpec, ",") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue // trailing comma inside parentheses
		}
		if len(fields) != 1 && (len(fields) != 3 || fields[1] != "as") {
			return &ParseError{Path: f.Path, Line: line, Msg: fmt.Sprintf("malformed import name %q", strings.TrimSpace(part))}
		}
		name := fields[0]
		if name != "*" && !namePattern.MatchString(name) {
			return &ParseError{Path: f.Path, Line: line, Msg: fmt.Sprintf("invalid import name %q", name)}
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return &ParseError{Path: f.Path, Line: line, Msg: "from statement imports no names"}
	}

	f.Froms = append(f.Froms, FromImport{Line: line, Level: level, Module: module, Names: names})
	return nil
}

// findImportKeyword locates the "import" keyword as its own token.
func findImportKeyword(s string) int {
	for idx := 0; idx < len(s); {
		found := strings.Index(s[idx:], "import")
		if found < 0 {
			return -1
		}
		pos := idx + found
		before := pos == 0 || s[pos-1] == ' ' || s[pos-1] == '.'
		afterIdx := pos + len("import")
		after := afterIdx == len(s) || s[afterIdx] == ' ' || s[afterIdx] == '('
		if before && after {
			return pos
		}
		idx = pos + 1
	}
	return -1
}
