package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gookit/color"

	"github.com/dbsmedya/depaudit/internal/audit"
	"github.com/dbsmedya/depaudit/internal/crossref"
	"github.com/dbsmedya/depaudit/internal/pyparse"
	"github.com/dbsmedya/depaudit/internal/setupfile"
)

func TestMain(m *testing.M) {
	// Output depends on terminal detection otherwise.
	color.Disable()
	m.Run()
}

func packageCorpus(sets crossref.Sets, unparsable ...pyparse.ParseError) *audit.CorpusResult {
	return &audit.CorpusResult{Name: audit.CorpusPackage, Sets: sets, Unparsable: unparsable}
}

func TestPrintCorpus_PackageKinds(t *testing.T) {
	c := packageCorpus(crossref.Sets{
		Missing: []pyparse.Record{
			{Path: "widgets/core.py", Line: 3, Module: "vanished"},
		},
		MissingDeclaration: []pyparse.Record{
			{Path: "widgets/core.py", Line: 2, Module: "attrs"},
		},
		UnusedDeclaration: []setupfile.Declaration{
			{Name: "leftover", Line: 11},
		},
		UnusedLocal: []string{"widgets.orphan"},
	})

	var buf bytes.Buffer
	found := New(&buf, "setup.py").PrintCorpus(c)
	if !found {
		t.Error("PrintCorpus() = false, want true")
	}

	want := "" +
		"widgets/core.py:3 -> vanished (unimportable)\n" +
		"widgets/core.py:2 -> attrs (missing-from-install-requires)\n" +
		"setup.py:11       -> leftover (unused-install-requires)\n" +
		"widgets.orphan (unused-project-module)\n"
	if buf.String() != want {
		t.Errorf("output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrintCorpus_TestKinds(t *testing.T) {
	c := &audit.CorpusResult{
		Name: audit.CorpusTest,
		Sets: crossref.Sets{
			MissingDeclaration: []pyparse.Record{
				{Path: "test/test_core.py", Line: 1, Module: "hypothesis"},
			},
			UnusedDeclaration: []setupfile.Declaration{
				{Name: "coverage", Line: 16},
			},
			UnusedLocal: []string{"test.helpers"},
		},
	}

	var buf bytes.Buffer
	New(&buf, "setup.py").PrintCorpus(c)

	out := buf.String()
	for _, want := range []string{
		"test/test_core.py:1 -> hypothesis (missing-from-extras-require)\n",
		"setup.py:16         -> coverage (unused-extras-require)\n",
		"test.helpers (unused-test-module)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintCorpus_Unparsable(t *testing.T) {
	c := packageCorpus(crossref.Sets{}, pyparse.ParseError{
		Path: "widgets/broken.py",
		Line: 4,
		Msg:  "unterminated string literal",
	})

	var buf bytes.Buffer
	found := New(&buf, "setup.py").PrintCorpus(c)
	if !found {
		t.Error("PrintCorpus() = false, want true")
	}

	want := "widgets/broken.py:4 -> unterminated string literal (unparsable)\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrintCorpus_AlignsLocationColumn(t *testing.T) {
	c := packageCorpus(crossref.Sets{
		Missing: []pyparse.Record{
			{Path: "a.py", Line: 1, Module: "short"},
			{Path: "widgets/very/deep/module.py", Line: 120, Module: "long"},
		},
	})

	var buf bytes.Buffer
	New(&buf, "setup.py").PrintCorpus(c)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	first := strings.Index(lines[0], " -> ")
	second := strings.Index(lines[1], " -> ")
	if first != second {
		t.Errorf("arrow columns differ: %d vs %d\n%s", first, second, buf.String())
	}
}

func TestPrintCorpus_Clean(t *testing.T) {
	var buf bytes.Buffer
	found := New(&buf, "setup.py").PrintCorpus(packageCorpus(crossref.Sets{}))
	if found {
		t.Error("PrintCorpus() = true for a clean corpus")
	}
	if buf.Len() != 0 {
		t.Errorf("clean corpus printed %q", buf.String())
	}
}

func TestPrint_BothCorpora(t *testing.T) {
	res := &audit.Result{
		Package: packageCorpus(crossref.Sets{
			UnusedLocal: []string{"widgets.orphan"},
		}),
		Test: &audit.CorpusResult{
			Name: audit.CorpusTest,
			Sets: crossref.Sets{
				UnusedLocal: []string{"test.helpers"},
			},
		},
	}

	var buf bytes.Buffer
	found := New(&buf, "setup.py").Print(res)
	if !found {
		t.Error("Print() = false, want true")
	}

	want := "widgets.orphan (unused-project-module)\n" +
		"test.helpers (unused-test-module)\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrint_Clean(t *testing.T) {
	res := &audit.Result{
		Package: packageCorpus(crossref.Sets{}),
		Test:    &audit.CorpusResult{Name: audit.CorpusTest},
	}

	var buf bytes.Buffer
	if New(&buf, "setup.py").Print(res) {
		t.Error("Print() = true for a clean result")
	}
}
