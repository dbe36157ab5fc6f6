// Package config provides configuration structures and loading for depaudit.
package config

// Parse error policies accepted by PolicyConfig.OnParseError.
const (
	ParsePolicyFail   = "fail"
	ParsePolicyReport = "report"
)

// Config represents the complete application configuration.
type Config struct {
	Project     ProjectConfig     `yaml:"project" mapstructure:"project"`
	Sections    SectionsConfig    `yaml:"sections" mapstructure:"sections"`
	Environment EnvironmentConfig `yaml:"environment" mapstructure:"environment"`
	Allow       AllowConfig       `yaml:"allow" mapstructure:"allow"`
	Policy      PolicyConfig      `yaml:"policy" mapstructure:"policy"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// ProjectConfig describes the audited source tree.
type ProjectConfig struct {
	Root      string   `yaml:"root" mapstructure:"root"`
	SetupFile string   `yaml:"setup_file" mapstructure:"setup_file"`
	Packages  []string `yaml:"packages" mapstructure:"packages"` // explicit package dirs (discovered when empty)
	Modules   []string `yaml:"modules" mapstructure:"modules"`   // explicit standalone module files (py_modules when empty)
}

// SectionsConfig names the declaration sections read from the setup file.
type SectionsConfig struct {
	Runtime string `yaml:"runtime" mapstructure:"runtime"` // runtime dependency section
	Test    string `yaml:"test" mapstructure:"test"`       // test-only dependency section
	Modules string `yaml:"modules" mapstructure:"modules"` // standalone module section
}

// EnvironmentConfig describes where non-project modules live.
type EnvironmentConfig struct {
	StdlibPaths    []string `yaml:"stdlib_paths" mapstructure:"stdlib_paths"`
	PackagePaths   []string `yaml:"package_paths" mapstructure:"package_paths"`
	BuiltinModules []string `yaml:"builtin_modules" mapstructure:"builtin_modules"`
}

// AllowConfig holds names exempt from specific diagnostics.
type AllowConfig struct {
	// Toolchain lists external modules provided by the packaging toolchain
	// itself; they never count as missing declarations.
	Toolchain []string `yaml:"toolchain" mapstructure:"toolchain"`
	// Unimported lists local modules that are structurally required but
	// never imported (the entry-point script, test fixtures, the test
	// package marker).
	Unimported []string `yaml:"unimported" mapstructure:"unimported"`
}

// PolicyConfig holds behavior choices for ambiguous conditions.
type PolicyConfig struct {
	OnParseError string `yaml:"on_parse_error" mapstructure:"on_parse_error"` // fail or report
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Project: ProjectConfig{
			Root:      ".",
			SetupFile: "setup.py",
		},
		Sections: SectionsConfig{
			Runtime: "install_requires",
			Test:    "test",
			Modules: "py_modules",
		},
		Allow: AllowConfig{
			Toolchain: []string{
				"setuptools", // included by pip
			},
			Unimported: []string{
				"setup",          // setup.py
				"example_module", // imported by string in test
				"test",           // the test package
			},
		},
		Policy: PolicyConfig{
			OnParseError: ParsePolicyFail,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}
