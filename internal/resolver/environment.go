// Package resolver determines whether qualified module names exist and
// where they originate, without executing any target code.
package resolver

import (
	"github.com/dbsmedya/depaudit/internal/config"
)

// defaultBuiltins are module names compiled into the interpreter itself;
// they resolve without any origin file.
var defaultBuiltins = []string{
	"abc", "array", "atexit", "binascii", "builtins", "cmath", "errno",
	"faulthandler", "gc", "itertools", "marshal", "math", "posix", "pwd",
	"select", "sys", "syslog", "time", "unicodedata", "zlib",
	"_abc", "_ast", "_codecs", "_collections", "_functools", "_imp",
	"_io", "_locale", "_operator", "_signal", "_socket", "_sre",
	"_stat", "_string", "_thread", "_tracemalloc", "_warnings", "_weakref",
}

// Environment describes where modules outside the project live: the
// standard library roots, the installed-packages roots, and the builtin
// module names that have no file at all.
type Environment struct {
	StdlibRoots  []string
	PackageRoots []string
	builtins     map[string]bool
}

// NewEnvironment builds an Environment from configuration, merging any
// configured extra builtin names into the default set.
func NewEnvironment(cfg *config.EnvironmentConfig) *Environment {
	env := &Environment{
		builtins: make(map[string]bool, len(defaultBuiltins)),
	}
	for _, name := range defaultBuiltins {
		env.builtins[name] = true
	}
	if cfg != nil {
		env.StdlibRoots = append(env.StdlibRoots, cfg.StdlibPaths...)
		env.PackageRoots = append(env.PackageRoots, cfg.PackagePaths...)
		for _, name := range cfg.BuiltinModules {
			env.builtins[name] = true
		}
	}
	return env
}

// IsBuiltin reports whether name is a builtin module.
func (e *Environment) IsBuiltin(name string) bool {
	return e.builtins[name]
}
