package resolver

import "strings"

// Origin classifies where a resolved module comes from.
type Origin int

const (
	// OriginStandard is a runtime-standard module: a builtin or part of
	// the standard library installation.
	OriginStandard Origin = iota
	// OriginProject is a module defined by the audited project itself.
	OriginProject
	// OriginExternal is an installed third-party dependency.
	OriginExternal
)

// String returns the origin class name.
func (o Origin) String() string {
	switch o {
	case OriginStandard:
		return "standard"
	case OriginProject:
		return "project"
	default:
		return "external"
	}
}

// Classify partitions a resolution by its origin file. The checks run in
// a fixed order: standard-library detection comes before project
// membership because some environments vendor standard modules under
// paths that would otherwise collide with project paths.
func Classify(res Resolution, projectFiles map[string]bool) Origin {
	if res.Origin == "" {
		return OriginStandard
	}
	if isStandardPath(res.Origin) {
		return OriginStandard
	}
	if projectFiles[res.Origin] {
		return OriginProject
	}
	return OriginExternal
}

// isStandardPath reports whether an origin file lives under a standard
// library installation rather than an installed-packages directory.
func isStandardPath(path string) bool {
	return strings.Contains(path, "lib/python") && !strings.Contains(path, "packages")
}
