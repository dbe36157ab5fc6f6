package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/dbsmedya/depaudit/internal/audit"
	"github.com/dbsmedya/depaudit/internal/config"
	"github.com/dbsmedya/depaudit/internal/logger"
	"github.com/dbsmedya/depaudit/internal/report"
	"github.com/spf13/cobra"
)

// outputWriter is used for printing output, can be overridden in tests
var outputWriter io.Writer = os.Stdout

// setOutputWriter sets the output writer (used for testing)
func setOutputWriter(w io.Writer) {
	outputWriter = w
}

// resetOutputWriter resets output to stdout (used for testing)
func resetOutputWriter() {
	outputWriter = os.Stdout
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Audit imports against setup.py declarations",
	Long: `Check collects every import made by the package corpus and the test
corpus, classifies each as standard, project, or external, and reconciles
the results against the setup.py declaration sections.

Diagnostics reported:
  - unimportable: imported name resolves nowhere
  - missing-from-install-requires / missing-from-extras-require
  - unused-install-requires / unused-extras-require
  - unused-project-module / unused-test-module

The command exits non-zero when any diagnostic is found.

Example:
  depaudit check --config depaudit.yaml --root ./myproject`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Infow("starting import audit", "root", cfg.Project.Root)

	runner := audit.NewRunner(cfg, log)
	result, err := runner.Run()
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	reporter := report.New(outputWriter, cfg.Project.SetupFile)
	if reporter.Print(result) {
		return fmt.Errorf("import audit found problems")
	}

	log.Info("import audit clean")
	return nil
}

// loadConfigAndLogger performs the shared command preamble: load the
// config file (defaults when absent), apply CLI overrides, validate, and
// build the logger.
func loadConfigAndLogger() (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadOrDefault(GetConfigFile())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat,
		overrides.ProjectRoot, overrides.OnParseError)

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, log, nil
}
