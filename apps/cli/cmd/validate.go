package cmd

import (
	"fmt"

	"github.com/queomedia/asserts/packages/suite"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory>...",
	Short: "Validate asserts suite files",
	Long: `Validate suite files without loading any data or running checks.

Every problem of a suite is reported: unknown modes, missing found values,
conflicting inline and referenced values, missing sizes and unknown relations.

Examples:
  asserts validate users.asserts.yaml
  asserts validate ./checks/`,
	Args: cobra.MinimumNArgs(1),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	if len(files) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("no .asserts.yaml or .asserts.yml files found"))
	}

	hasErrors := false
	for _, file := range files {
		s, err := suite.ParseFile(file)
		if err == nil {
			err = s.Validate()
		}
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error in %s: %v\n", file, err)
			hasErrors = true
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Valid: %s (%d checks)\n", file, len(s.Checks))
		}
	}

	if hasErrors {
		return withExitCode(ExitParseError, fmt.Errorf("validation failed"))
	}

	return nil
}
