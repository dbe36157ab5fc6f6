package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckCommandStructure(t *testing.T) {
	assert.NotNil(t, checkCmd)
	assert.Equal(t, "check", checkCmd.Use)
	assert.NotEmpty(t, checkCmd.Short)
	assert.NotEmpty(t, checkCmd.Long)
	assert.NotNil(t, checkCmd.RunE)
}

func TestCheckCommandExample(t *testing.T) {
	assert.Contains(t, checkCmd.Long, "Example:")
	assert.Contains(t, checkCmd.Long, "depaudit check")
}

func TestCheckIsAddedToRoot(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "check" {
			found = true
			break
		}
	}
	assert.True(t, found, "check command should be added to root command")
}

// writeAuditedProject lays out a clean Python project, a fake interpreter
// environment, and a config file pointing at both.
func writeAuditedProject(t *testing.T) (root, cfgPath string) {
	t.Helper()
	root = t.TempDir()
	env := t.TempDir()

	files := map[string]string{
		"setup.py": `import setuptools

setuptools.setup(
    name='widgets',
    py_modules=[
        'example_module',
    ],
    install_requires=[
        'requests',
    ],
    extras_require={
        'test': [
            'pytest',
        ],
    },
)
`,
		"example_module.py":   "",
		"widgets/__init__.py": "from . import core\n",
		"widgets/core.py":     "import requests\nfrom . import helpers\n",
		"widgets/helpers.py":  "import sys\n",
		"test/__init__.py":    "from . import test_core\n",
		"test/test_core.py":   "import pytest\nimport widgets\n",
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	site := filepath.Join(env, "lib", "python3.11", "site-packages")
	for _, pkg := range []string{"setuptools", "requests", "pytest"} {
		dir := filepath.Join(site, pkg)
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "__init__.py"), []byte(""), 0644))
	}
	stdlib := filepath.Join(env, "lib", "python3.11")
	require.NoError(t, os.WriteFile(filepath.Join(stdlib, "json.py"), []byte(""), 0644))

	cfgPath = filepath.Join(root, "depaudit.yaml")
	cfg := fmt.Sprintf(`project:
  root: %s
  packages:
    - widgets
environment:
  stdlib_paths:
    - %s
  package_paths:
    - %s
logging:
  level: error
`, root, stdlib, site)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	return root, cfgPath
}

// runCommand executes the root command with args, restoring flag state
// afterwards.
func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	origCfgFile, origRoot := cfgFile, projectRoot
	origLevel, origFormat, origPolicy := logLevel, logFormat, onParseError
	defer func() {
		cfgFile, projectRoot = origCfgFile, origRoot
		logLevel, logFormat, onParseError = origLevel, origFormat, origPolicy
		rootCmd.SetArgs(nil)
	}()

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCheckCmd_Execute_CleanProject(t *testing.T) {
	_, cfgPath := writeAuditedProject(t)

	var buf bytes.Buffer
	setOutputWriter(&buf)
	defer resetOutputWriter()

	err := runCommand(t, "check", "--config", cfgPath)
	assert.NoError(t, err)
	assert.Empty(t, buf.String(), "a clean project should print no diagnostics")
}

func TestCheckCmd_Execute_FindsProblems(t *testing.T) {
	root, cfgPath := writeAuditedProject(t)

	// An import with no matching declaration.
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "widgets", "core.py"),
		[]byte("import requests\nimport vanished\nfrom . import helpers\n"), 0644))

	var buf bytes.Buffer
	setOutputWriter(&buf)
	defer resetOutputWriter()

	err := runCommand(t, "check", "--config", cfgPath)
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "vanished (unimportable)")
}

func TestCheckCmd_Execute_UnusedDeclaration(t *testing.T) {
	root, cfgPath := writeAuditedProject(t)

	// requests stays declared but is no longer imported.
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "widgets", "core.py"),
		[]byte("from . import helpers\n"), 0644))

	var buf bytes.Buffer
	setOutputWriter(&buf)
	defer resetOutputWriter()

	err := runCommand(t, "check", "--config", cfgPath)
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "requests (unused-install-requires)")
}

func TestCheckCmd_Execute_ParseErrorPolicyFlag(t *testing.T) {
	root, cfgPath := writeAuditedProject(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "widgets", "broken.py"),
		[]byte("x = 'never closed\n"), 0644))

	var buf bytes.Buffer
	setOutputWriter(&buf)
	defer resetOutputWriter()

	// Default policy aborts the run without a report.
	err := runCommand(t, "check", "--config", cfgPath)
	assert.Error(t, err)
	assert.NotContains(t, buf.String(), "unparsable")

	// The override downgrades the abort to a diagnostic.
	buf.Reset()
	err = runCommand(t, "check", "--config", cfgPath, "--on-parse-error", "report")
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "(unparsable)")
}

func TestCheckCmd_Execute_MissingConfigUsesDefaults(t *testing.T) {
	root, _ := writeAuditedProject(t)

	var buf bytes.Buffer
	setOutputWriter(&buf)
	defer resetOutputWriter()

	// No config file: defaults apply, --root points at the project. The
	// project then resolves requests and pytest from the real environment,
	// which fails, so all we assert is that the command runs the audit.
	err := runCommand(t, "check",
		"--config", filepath.Join(root, "no-such.yaml"),
		"--root", root)
	assert.Error(t, err)
}

func TestLoadConfigAndLogger_InvalidOverride(t *testing.T) {
	_, cfgPath := writeAuditedProject(t)

	err := runCommand(t, "check", "--config", cfgPath, "--on-parse-error", "explode")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
