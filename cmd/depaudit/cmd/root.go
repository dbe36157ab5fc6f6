package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile      string
	logLevel     string
	logFormat    string
	projectRoot  string
	onParseError string
)

var rootCmd = &cobra.Command{
	Use:   "depaudit",
	Short: "Python Import Declaration Auditor",
	Long: `A static analysis CLI tool that reconciles the imports a Python project
actually makes with the dependencies its setup.py declares.

Features:
  - Static import extraction (no code is ever executed)
  - Separate audits for the package corpus and the test corpus
  - Missing and unused dependency detection per setup.py section
  - Unused local module detection
  - Project import graph with cycle detection`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "depaudit.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Project overrides
	rootCmd.PersistentFlags().StringVar(&projectRoot, "root", "",
		"Override project root directory")
	rootCmd.PersistentFlags().StringVar(&onParseError, "on-parse-error", "",
		"Override parse error policy (fail, report)")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// CLIOverrides contains flag values that override config file settings
type CLIOverrides struct {
	LogLevel     string
	LogFormat    string
	ProjectRoot  string
	OnParseError string
}

// GetCLIOverrides returns the CLI flag override values
func GetCLIOverrides() CLIOverrides {
	return CLIOverrides{
		LogLevel:     logLevel,
		LogFormat:    logFormat,
		ProjectRoot:  projectRoot,
		OnParseError: onParseError,
	}
}
