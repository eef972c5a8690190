// Package cmd implements the asserts CLI commands using Cobra.
//
// Available commands:
//   - run: Execute the checks of suite files
//   - validate: Check suite files without loading any data
//   - list: Display all checks defined in suite files
//   - relations: Show the relation names a check can use
//   - init: Create an example suite and config file
//   - version: Show asserts version information
//
// The run command supports flags for filtering, output formatting and a
// watch mode that re-runs suites when they or their data files change.
package cmd
