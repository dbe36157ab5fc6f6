// Package audit drives the full import analysis: discovery, extraction,
// resolution, classification, and cross-referencing, once per corpus.
package audit

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/depaudit/internal/config"
	"github.com/dbsmedya/depaudit/internal/crossref"
	"github.com/dbsmedya/depaudit/internal/discovery"
	"github.com/dbsmedya/depaudit/internal/graph"
	"github.com/dbsmedya/depaudit/internal/logger"
	"github.com/dbsmedya/depaudit/internal/pymodule"
	"github.com/dbsmedya/depaudit/internal/pyparse"
	"github.com/dbsmedya/depaudit/internal/resolver"
	"github.com/dbsmedya/depaudit/internal/setupfile"
)

// Corpus names used throughout reporting.
const (
	CorpusPackage = "package"
	CorpusTest    = "test"
)

// CorpusResult holds one corpus's diagnostics.
type CorpusResult struct {
	Name       string
	Files      []string
	Sets       crossref.Sets
	Unparsable []pyparse.ParseError
}

// ErrorsFound reports whether the corpus produced any diagnostic.
func (c *CorpusResult) ErrorsFound() bool {
	return !c.Sets.Empty() || len(c.Unparsable) > 0
}

// Result is the outcome of one full analysis run.
type Result struct {
	Package *CorpusResult
	Test    *CorpusResult
}

// ErrorsFound reports whether either corpus produced diagnostics.
func (r *Result) ErrorsFound() bool {
	return r.Package.ErrorsFound() || r.Test.ErrorsFound()
}

// Runner performs the analysis described by its configuration. A run is
// a single synchronous pass; it mutates nothing and re-running on an
// unchanged tree yields identical results.
type Runner struct {
	cfg    *config.Config
	logger *logger.Logger
}

// NewRunner creates a Runner.
func NewRunner(cfg *config.Config, log *logger.Logger) *Runner {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Runner{cfg: cfg, logger: log}
}

// Run analyzes the package corpus and the test corpus and returns both
// diagnostic sets.
func (r *Runner) Run() (*Result, error) {
	setup, disc, err := r.open()
	if err != nil {
		return nil, err
	}

	packagePaths, err := disc.PackagePaths()
	if err != nil {
		return nil, err
	}
	testPaths, err := disc.TestPaths(packagePaths)
	if err != nil {
		return nil, err
	}

	index := pymodule.NewIndex(append(append([]string{}, packagePaths...), testPaths...))
	env := resolver.NewEnvironment(&r.cfg.Environment)
	res := resolver.New(env, []string{disc.Root()}, r.logger)

	packageFiles := toSet(packagePaths)
	testFiles := toSet(testPaths)

	packageResult, err := r.analyzeCorpus(corpusSpec{
		name:    CorpusPackage,
		paths:   packagePaths,
		section: r.cfg.Sections.Runtime,
		own:     packageFiles,
	}, setup, index, res)
	if err != nil {
		return nil, err
	}

	// The test corpus sees the package's files as foreign: they are
	// neither its own local modules nor external dependencies.
	testResult, err := r.analyzeCorpus(corpusSpec{
		name:    CorpusTest,
		paths:   testPaths,
		section: r.cfg.Sections.Test,
		own:     testFiles,
		foreign: packageFiles,
	}, setup, index, res)
	if err != nil {
		return nil, err
	}

	return &Result{Package: packageResult, Test: testResult}, nil
}

// BuildGraph builds the project-local import graph over every source file
// in both corpora.
func (r *Runner) BuildGraph() (*graph.Graph, error) {
	_, disc, err := r.open()
	if err != nil {
		return nil, err
	}

	packagePaths, err := disc.PackagePaths()
	if err != nil {
		return nil, err
	}
	testPaths, err := disc.TestPaths(packagePaths)
	if err != nil {
		return nil, err
	}
	allPaths := append(append([]string{}, packagePaths...), testPaths...)

	index := pymodule.NewIndex(allPaths)
	builder := graph.NewBuilder(index)

	for _, path := range allPaths {
		records, err := r.extract(path, index)
		if err != nil {
			return nil, err
		}
		builder.AddRecords(records)
	}

	return builder.Graph(), nil
}

// open prepares the setup reader and the discoverer.
func (r *Runner) open() (*setupfile.Reader, *discovery.Discoverer, error) {
	root, err := filepath.Abs(r.cfg.Project.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	setup, err := setupfile.Open(filepath.Join(root, r.cfg.Project.SetupFile))
	if err != nil {
		return nil, nil, err
	}

	disc, err := discovery.New(r.cfg, setup, r.logger)
	if err != nil {
		return nil, nil, err
	}

	return setup, disc, nil
}

// corpusSpec parameterizes one corpus analysis.
type corpusSpec struct {
	name    string
	paths   []string
	section string
	own     map[string]bool // the corpus's own files, for project classification
	foreign map[string]bool // files visible to the corpus but owned elsewhere
}

// index is the shared project module index; res resolves against the full
// environment. The three classification maps keep first-occurrence order
// so diagnostics come out deterministically.
func (r *Runner) analyzeCorpus(spec corpusSpec, setup *setupfile.Reader, index *pymodule.Index, res *resolver.Resolver) (*CorpusResult, error) {
	log := r.logger.WithCorpus(spec.name)

	unique := orderedmap.NewOrderedMap[string, pyparse.Record]()
	var unparsable []pyparse.ParseError

	for _, path := range spec.paths {
		records, err := pyparse.ExtractRecords(path, index)
		if err != nil {
			var perr *pyparse.ParseError
			if errors.As(err, &perr) && r.cfg.Policy.OnParseError == config.ParsePolicyReport {
				log.Warnw("skipping unparsable file", "file", perr.Path, "line", perr.Line, "reason", perr.Msg)
				unparsable = append(unparsable, *perr)
				continue
			}
			return nil, fmt.Errorf("failed to extract imports: %w", err)
		}
		for _, rec := range records {
			if _, seen := unique.Get(rec.Module); !seen {
				unique.Set(rec.Module, rec)
			}
		}
	}

	external := orderedmap.NewOrderedMap[string, pyparse.Record]()
	project := orderedmap.NewOrderedMap[string, pyparse.Record]()
	missing := orderedmap.NewOrderedMap[string, pyparse.Record]()

	for el := unique.Front(); el != nil; el = el.Next() {
		rec := el.Value

		extraRoot, err := pymodule.PackageParentPath(rec.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve package parent for %s: %w", rec.Path, err)
		}

		resolution, ok := res.Resolve(el.Key, extraRoot)
		if !ok {
			missing.Set(el.Key, rec)
			continue
		}

		switch resolver.Classify(resolution, spec.own) {
		case resolver.OriginProject:
			project.Set(el.Key, rec)
		case resolver.OriginExternal:
			if spec.foreign[resolution.Origin] {
				continue
			}
			external.Set(el.Key, rec)
		case resolver.OriginStandard:
			// Standard modules need no declaration and are never local.
		}
	}

	sets := crossref.Compute(crossref.Input{
		External:        external,
		Project:         project,
		Missing:         missing,
		Declared:        setup.Section(spec.section),
		LocalModules:    pymodule.ModuleNames(spec.paths),
		AllowToolchain:  r.cfg.Allow.Toolchain,
		AllowUnimported: r.cfg.Allow.Unimported,
	})

	log.Debugw("corpus analyzed",
		"files", len(spec.paths),
		"imports", unique.Len(),
		"missing", len(sets.Missing),
		"undeclared", len(sets.MissingDeclaration),
		"unused_declared", len(sets.UnusedDeclaration),
		"unused_local", len(sets.UnusedLocal),
	)

	return &CorpusResult{
		Name:       spec.name,
		Files:      spec.paths,
		Sets:       sets,
		Unparsable: unparsable,
	}, nil
}

// extract parses one file under the configured parse-error policy,
// dropping unparsable files when the policy says report (the graph has no
// diagnostic channel of its own).
func (r *Runner) extract(path string, index *pymodule.Index) ([]pyparse.Record, error) {
	records, err := pyparse.ExtractRecords(path, index)
	if err != nil {
		var perr *pyparse.ParseError
		if errors.As(err, &perr) && r.cfg.Policy.OnParseError == config.ParsePolicyReport {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to extract imports: %w", err)
	}
	return records, nil
}

func toSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set
}
