package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/dbsmedya/depaudit/internal/setupfile"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "List dependencies declared in setup.py",
	Long: `Deps scans the setup file and lists every name declared in the
configured sections, with the line it was declared on.

Example:
  depaudit deps --config depaudit.yaml --root ./myproject`,
	RunE: runDeps,
}

func init() {
	rootCmd.AddCommand(depsCmd)
}

func runDeps(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	setupPath := filepath.Join(cfg.Project.Root, cfg.Project.SetupFile)
	setup, err := setupfile.Open(setupPath)
	if err != nil {
		return fmt.Errorf("failed to read setup file: %w", err)
	}

	sections := []string{
		cfg.Sections.Runtime,
		cfg.Sections.Test,
		cfg.Sections.Modules,
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Section", "Line", "Name"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})

	total := 0
	for _, section := range sections {
		for _, decl := range setup.Section(section) {
			table.Append([]string{section, fmt.Sprintf("%d", decl.Line), decl.Name})
			total++
		}
	}

	table.SetFooter([]string{"Total", "", fmt.Sprintf("%d", total)})
	table.Render()

	cmd.Printf("Declarations in %s:\n\n%s", setupPath, tableBuffer.String())
	return nil
}
