package cmd

import (
	"fmt"

	"github.com/queomedia/asserts/packages/relation"
	"github.com/spf13/cobra"
)

var relationsCmd = &cobra.Command{
	Use:   "relations",
	Short: "List the relations a check can use",
	Long: `List the equivalence relations a check can name in its relation field.

Relations taking an argument are written name:argument, for example
approx:0.01 or key:id.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range relation.Names() {
			if name == relation.Default {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (default)\n", name)
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	},
}
