package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/queomedia/asserts/packages/core/config"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new asserts project",
	Long: `Initialize a new asserts project in the current directory.

This creates:
  - .asserts.yaml         - Configuration file
  - example.asserts.yaml  - Example suite file
  - example.json          - Data read by the example suite

Examples:
  asserts init
  asserts init --force`,
	Args: cobra.NoArgs,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
}

const exampleSuite = `name: example
checks:
  - name: all ids present
    mode: exact
    expected: [1, 2, 3]
    foundFrom: {file: example.json, path: "users.#.id"}

  - name: names ignoring case
    mode: at-least
    expected: [ada, GRACE]
    foundFrom: {file: example.json, path: "users.#.name"}
    relation: fold

  - name: ids ascending
    mode: order
    expected: [1, 2, 3]
    foundFrom: {file: example.json, path: "users.#.id"}

  - name: no root user
    mode: not
    expected: root
    foundFrom: {file: example.json, path: "users.#.name"}

  - name: three users
    mode: size
    size: 3
    foundFrom: {file: example.json, path: users}
`

const exampleData = `{
  "users": [
    {"id": 1, "name": "Ada"},
    {"id": 2, "name": "Grace"},
    {"id": 3, "name": "Linus"}
  ]
}
`

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigFilenames[0])
	exampleFile := filepath.Join(cwd, "example.asserts.yaml")
	dataFile := filepath.Join(cwd, "example.json")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile, dataFile} {
			if _, err := os.Stat(f); err == nil {
				return fmt.Errorf("file already exists: %s (use --force to overwrite)", f)
			}
		}
	}

	if err := config.DefaultConfig().SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	examples := []struct{ path, content string }{
		{exampleFile, exampleSuite},
		{dataFile, exampleData},
	}
	for _, e := range examples {
		if err := os.WriteFile(e.path, []byte(e.content), 0644); err != nil {
			return fmt.Errorf("failed to create example file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", e.path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nasserts project initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'asserts run example.asserts.yaml' to execute the example checks.\n")

	return nil
}
