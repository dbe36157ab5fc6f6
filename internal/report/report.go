// Package report renders audit diagnostics in the one-line-per-finding
// format consumed by humans and CI logs alike.
package report

import (
	"fmt"
	"io"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/dbsmedya/depaudit/internal/audit"
)

// Diagnostic kinds. Each reported line ends with one of these in
// parentheses.
const (
	KindUnimportable  = "unimportable"
	KindMissingRun    = "missing-from-install-requires"
	KindMissingTest   = "missing-from-extras-require"
	KindUnusedRun     = "unused-install-requires"
	KindUnusedTest    = "unused-extras-require"
	KindUnusedPackage = "unused-project-module"
	KindUnusedTestMod = "unused-test-module"
	KindUnparsable    = "unparsable"
)

// corpusKinds maps a corpus to the declaration-related kinds it reports.
type corpusKinds struct {
	missingDecl string
	unusedDecl  string
	unusedLocal string
}

func kindsFor(corpus string) corpusKinds {
	if corpus == audit.CorpusTest {
		return corpusKinds{
			missingDecl: KindMissingTest,
			unusedDecl:  KindUnusedTest,
			unusedLocal: KindUnusedTestMod,
		}
	}
	return corpusKinds{
		missingDecl: KindMissingRun,
		unusedDecl:  KindUnusedRun,
		unusedLocal: KindUnusedPackage,
	}
}

// Reporter writes diagnostics to a single destination.
type Reporter struct {
	out       io.Writer
	setupFile string // display name for declaration locations
}

// New creates a Reporter. setupFile is the name printed as the location
// of declaration diagnostics, usually "setup.py".
func New(out io.Writer, setupFile string) *Reporter {
	return &Reporter{out: out, setupFile: setupFile}
}

// Print renders both corpora and reports whether any diagnostic was
// written.
func (r *Reporter) Print(res *audit.Result) bool {
	found := r.PrintCorpus(res.Package)
	if r.PrintCorpus(res.Test) {
		found = true
	}
	return found
}

// PrintCorpus renders one corpus's diagnostics and reports whether any
// were written. A clean corpus prints nothing.
func (r *Reporter) PrintCorpus(c *audit.CorpusResult) bool {
	kinds := kindsFor(c.Name)
	sets := c.Sets

	locations := make([]string, 0, len(sets.Missing)+len(sets.MissingDeclaration)+len(sets.UnusedDeclaration)+len(c.Unparsable))
	for _, rec := range sets.Missing {
		locations = append(locations, fmt.Sprintf("%s:%d", rec.Path, rec.Line))
	}
	for _, rec := range sets.MissingDeclaration {
		locations = append(locations, fmt.Sprintf("%s:%d", rec.Path, rec.Line))
	}
	for _, decl := range sets.UnusedDeclaration {
		locations = append(locations, fmt.Sprintf("%s:%d", r.setupFile, decl.Line))
	}
	for _, perr := range c.Unparsable {
		locations = append(locations, fmt.Sprintf("%s:%d", perr.Path, perr.Line))
	}
	width := maxWidth(locations)

	i := 0
	for _, rec := range sets.Missing {
		r.line(locations[i], width, rec.Module, KindUnimportable, color.Red)
		i++
	}
	for _, rec := range sets.MissingDeclaration {
		r.line(locations[i], width, rec.Module, kinds.missingDecl, color.Red)
		i++
	}
	for _, decl := range sets.UnusedDeclaration {
		r.line(locations[i], width, decl.Name, kinds.unusedDecl, color.Yellow)
		i++
	}
	for _, perr := range c.Unparsable {
		r.line(locations[i], width, perr.Msg, KindUnparsable, color.Magenta)
		i++
	}
	for _, name := range sets.UnusedLocal {
		fmt.Fprintf(r.out, "%s (%s)\n", name, color.Yellow.Sprint(kinds.unusedLocal))
	}

	return c.ErrorsFound()
}

// line prints one located diagnostic with the location column padded so
// the arrows align within the corpus.
func (r *Reporter) line(location string, width int, subject, kind string, c color.Color) {
	fmt.Fprintf(r.out, "%s -> %s (%s)\n",
		runewidth.FillRight(location, width), subject, c.Sprint(kind))
}

func maxWidth(locations []string) int {
	width := 0
	for _, loc := range locations {
		if w := runewidth.StringWidth(loc); w > width {
			width = w
		}
	}
	return width
}
