package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if c.Project.Root == "" {
		errors = append(errors, ValidationError{
			Field:   "project.root",
			Message: "root is required",
		})
	}

	if c.Project.SetupFile == "" {
		errors = append(errors, ValidationError{
			Field:   "project.setup_file",
			Message: "setup_file is required",
		})
	}

	if c.Sections.Runtime == "" {
		errors = append(errors, ValidationError{
			Field:   "sections.runtime",
			Message: "runtime section name is required",
		})
	}

	if c.Sections.Test == "" {
		errors = append(errors, ValidationError{
			Field:   "sections.test",
			Message: "test section name is required",
		})
	}

	validPolicies := map[string]bool{ParsePolicyFail: true, ParsePolicyReport: true, "": true}
	if !validPolicies[c.Policy.OnParseError] {
		errors = append(errors, ValidationError{
			Field:   "policy.on_parse_error",
			Message: "on_parse_error must be 'fail' or 'report'",
		})
	}

	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
