// Package pyparse extracts import statements from Python source files and
// rewrites them into fully qualified module records.
package pyparse

import "fmt"

// Import is a plain "import a.b" statement target.
type Import struct {
	Line   int
	Module string // dotted target exactly as stated
}

// FromImport is a "from X import a, b" statement.
type FromImport struct {
	Line   int
	Level  int      // leading-dot count; 0 for absolute imports
	Module string   // dotted base after the dots; may be empty when Level > 0
	Names  []string // imported symbols ("*" for star imports)
}

// File holds the import statements parsed from one source file.
type File struct {
	Path    string
	Imports []Import
	Froms   []FromImport
}

// ParseError describes a source file the scanner could not make sense of.
// It is fatal for that file only, never for the whole run.
type ParseError struct {
	Path string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}
