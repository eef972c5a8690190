package cmd

import (
	"fmt"

	"github.com/queomedia/asserts/packages/suite"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file|directory>...",
	Short: "List all checks in asserts suite files",
	Long: `List all checks defined in .asserts.yaml or .asserts.yml files.

Examples:
  asserts list users.asserts.yaml
  asserts list ./checks/`,
	Args: cobra.MinimumNArgs(1),
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	if len(files) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("no .asserts.yaml or .asserts.yml files found"))
	}

	for _, file := range files {
		s, err := suite.ParseFile(file)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error parsing %s: %v\n", file, err)
			continue
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\n%s:\n", file)
		for _, c := range s.Checks {
			if c == nil {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  - %s (%s)\n", c.Name, c.Mode)
			if c.Relation != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "    relation: %s\n", c.Relation)
			}
			for _, ref := range c.Refs() {
				fmt.Fprintf(cmd.OutOrStdout(), "    source: %s\n", ref)
			}
		}
	}

	return nil
}
