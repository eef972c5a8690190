package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/queomedia/asserts/packages/core/config"
	"github.com/queomedia/asserts/packages/output"
	"github.com/queomedia/asserts/packages/relation"
	"github.com/queomedia/asserts/packages/runner"
	"github.com/queomedia/asserts/packages/suite"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file|directory>...",
	Short: "Run the checks of asserts suite files",
	Long: `Run the checks defined in .asserts.yaml or .asserts.yml files.

Examples:
  asserts run users.asserts.yaml
  asserts run ./checks/ --relation fold
  asserts run ./checks/ --name "ids" --bail
  asserts run ./checks/ --output junit --output-file report.xml
  asserts run ./checks/ --watch`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	nameFlag            string
	verboseFlag         bool
	bailFlag            bool
	noColorFlag         bool
	outputFlag          string
	outputFileFlag      string
	relationFlag        string
	maximumMatchingFlag bool
	queryTimeoutFlag    time.Duration
	watchFlag           bool
	configFlag          string
)

// envKeys maps run flags to the environment variables that seed them.
var envKeys = map[string]string{
	"config":           "ASSERTS_CONFIG",
	"name":             "ASSERTS_NAME",
	"verbose":          "ASSERTS_VERBOSE",
	"no-color":         "ASSERTS_NO_COLOR",
	"output":           "ASSERTS_OUTPUT",
	"output-file":      "ASSERTS_OUTPUT_FILE",
	"bail":             "ASSERTS_BAIL",
	"relation":         "ASSERTS_RELATION",
	"maximum-matching": "ASSERTS_MAXIMUM_MATCHING",
	"query-timeout":    "ASSERTS_QUERY_TIMEOUT",
}

func init() {
	// Core flags
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("ASSERTS_CONFIG", ""), "Path to config file (env: ASSERTS_CONFIG)")
	runCmd.Flags().StringVarP(&nameFlag, "name", "n", getEnvString("ASSERTS_NAME", ""), "Run only checks matching name pattern (env: ASSERTS_NAME)")

	// Output flags
	runCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", getEnvBool("ASSERTS_VERBOSE", false), "Verbose output with diffs and progress logging (env: ASSERTS_VERBOSE)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("ASSERTS_NO_COLOR", false), "Disable colored output (env: ASSERTS_NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("ASSERTS_OUTPUT", output.FormatConsole), "Output format: "+strings.Join(output.Formats(), ", ")+" (env: ASSERTS_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("ASSERTS_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: ASSERTS_OUTPUT_FILE)")

	// Execution flags
	runCmd.Flags().BoolVar(&bailFlag, "bail", getEnvBool("ASSERTS_BAIL", false), "Stop on first failure (env: ASSERTS_BAIL)")
	runCmd.Flags().StringVarP(&relationFlag, "relation", "r", getEnvString("ASSERTS_RELATION", relation.Default), "Relation for checks that name none (env: ASSERTS_RELATION)")
	runCmd.Flags().BoolVar(&maximumMatchingFlag, "maximum-matching", getEnvBool("ASSERTS_MAXIMUM_MATCHING", false), "Use maximum matching for exact checks (env: ASSERTS_MAXIMUM_MATCHING)")
	runCmd.Flags().DurationVar(&queryTimeoutFlag, "query-timeout", getEnvDuration("ASSERTS_QUERY_TIMEOUT", 0), "Timeout for SQL sources (e.g., 10s, 1m) (env: ASSERTS_QUERY_TIMEOUT)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch files for changes and re-run checks")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// explicit reports whether a flag was given on the command line or seeded
// from its environment variable. Only explicit flags override the config file.
func explicit(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) {
		return true
	}
	key, ok := envKeys[name]
	return ok && os.Getenv(key) != ""
}

// resolveConfig layers the explicit flags over the config file over defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, err
	}

	flags := &config.Config{}
	if explicit(cmd, "relation") {
		flags.Relation = relationFlag
	}
	if explicit(cmd, "output") {
		flags.Output = outputFlag
	}
	if explicit(cmd, "output-file") {
		flags.OutputFile = outputFileFlag
	}
	if explicit(cmd, "query-timeout") {
		flags.QueryTimeout = queryTimeoutFlag
	}
	if explicit(cmd, "bail") {
		flags.Bail = config.BoolPtr(bailFlag)
	}
	if explicit(cmd, "verbose") {
		flags.Verbose = config.BoolPtr(verboseFlag)
	}
	if explicit(cmd, "no-color") {
		flags.NoColor = config.BoolPtr(noColorFlag)
	}
	if explicit(cmd, "maximum-matching") {
		flags.MaximumMatching = config.BoolPtr(maximumMatchingFlag)
	}

	cfg := fileConfig.Merge(flags)
	if _, err := relation.Parse(cfg.Relation); err != nil {
		return nil, fmt.Errorf("invalid default relation: %w", err)
	}
	return cfg, nil
}

// runTotals aggregates the results of one pass over all suite files.
type runTotals struct {
	passed      int
	failed      int
	errored     int
	skipped     int
	parseErrors int
	duration    time.Duration
}

// exitCode is the process exit code for the pass. Suites that could not be
// parsed outrank check failures.
func (t runTotals) exitCode() int {
	switch {
	case t.parseErrors > 0:
		return ExitParseError
	case t.failed > 0 || t.errored > 0:
		return ExitCheckFailure
	}
	return ExitSuccess
}

func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	if _, err := output.New(strings.ToLower(cfg.Output), io.Discard, false, true); err != nil {
		return withExitCode(ExitUsageError, err)
	}

	files, err := collectFiles(args)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	if len(files) == 0 {
		return withExitCode(ExitUsageError, fmt.Errorf("no .asserts.yaml or .asserts.yml files found"))
	}

	runnerConfig := &runner.Config{
		Bail:            cfg.GetBail(),
		NameFilter:      nameFlag,
		DefaultRelation: cfg.Relation,
		MaximumMatching: cfg.GetMaximumMatching(),
		QueryTimeout:    cfg.QueryTimeout,
	}
	if cfg.GetVerbose() {
		runnerConfig.Logger = log.New(cmd.ErrOrStderr(), "asserts: ", log.Ltime)
	}
	p := &pass{
		config: cfg,
		runner: runner.NewRunner(runnerConfig),
		stdout: cmd.OutOrStdout(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run suites once
	totals, err := p.run(ctx, files)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}

	// If watch mode is not enabled, exit with the result of the pass
	if !watchFlag {
		if code := totals.exitCode(); code != ExitSuccess {
			return withExitCode(code, nil)
		}
		return nil
	}

	return watch(ctx, cmd, args, files, func(changed string) []string {
		fmt.Fprintf(cmd.OutOrStdout(), "\n\nFile changed: %s\nRe-running checks...\n\n", changed)

		// Suites may have been added or removed since the last pass
		current, err := collectFiles(args)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
			return files
		}
		files = current
		if _, err := p.run(ctx, files); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n")
		return files
	})
}

// pass runs every suite file once and reports to a fresh formatter, so
// accumulating formats write one complete document per pass.
type pass struct {
	config *config.Config
	runner *runner.Runner
	stdout io.Writer
}

func (p *pass) run(ctx context.Context, files []string) (runTotals, error) {
	var totals runTotals

	// The output file is truncated on every pass
	var w io.Writer = p.stdout
	if p.config.OutputFile != "" {
		f, err := os.Create(p.config.OutputFile)
		if err != nil {
			return totals, fmt.Errorf("cannot create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	formatter, err := output.New(strings.ToLower(p.config.Output), w, p.config.GetVerbose(), p.config.GetNoColor())
	if err != nil {
		return totals, err
	}
	formatter.FormatHeader(version)

	startTime := time.Now()
	for _, file := range files {
		result, err := p.runner.RunFile(ctx, file)
		if ctx.Err() != nil {
			break
		}
		if err != nil {
			formatter.FormatError(err)
			totals.parseErrors++
			if p.config.GetBail() {
				break
			}
			continue
		}

		formatter.FormatResult(result)
		totals.passed += result.Passed
		totals.failed += result.Failed
		totals.errored += result.Errored
		totals.skipped += result.Skipped

		if p.config.GetBail() && !result.OK() {
			break
		}
	}

	totals.duration = time.Since(startTime)
	if flushable, ok := formatter.(output.Flushable); ok {
		if err := flushable.Flush(totals.duration); err != nil {
			return totals, fmt.Errorf("error writing output: %w", err)
		}
	}
	return totals, nil
}

// watch re-runs the suites whenever a suite file or a file one of its checks
// reads from is written. Bursts of events are debounced. rerun returns the
// suite files of the new pass, whose sources are then watched as well.
func watch(ctx context.Context, cmd *cobra.Command, args, files []string, rerun func(changed string) []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watchedDirs := make(map[string]bool)
	addDirs := func(dirs []string) {
		for _, dir := range dirs {
			if watchedDirs[dir] {
				continue
			}
			if err := watcher.Add(dir); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to watch %s: %v\n", dir, err)
			}
			watchedDirs[dir] = true
		}
	}

	watched := watchedFiles(files)
	addDirs(watchDirs(args, watched))

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	var debounce <-chan time.Time
	var changed string
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil || !(watched[path] || suite.IsSuiteFile(path)) {
				continue
			}
			changed = event.Name
			debounce = time.After(WatchDebounceDelay)

		case <-debounce:
			debounce = nil
			watched = watchedFiles(rerun(changed))
			addDirs(watchDirs(args, watched))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}

// watchDirs lists the directories to watch: those holding watched files and
// every directory below the arguments, where new suites may appear.
func watchDirs(args []string, watched map[string]bool) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			continue
		}
		_ = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				if abs, err := filepath.Abs(path); err == nil {
					add(abs)
				}
			}
			return nil
		})
	}
	for path := range watched {
		add(filepath.Dir(path))
	}
	sort.Strings(dirs)
	return dirs
}

// watchedFiles returns the absolute paths of the suite files and of the data
// and schema files their checks reference.
func watchedFiles(files []string) map[string]bool {
	watched := make(map[string]bool)
	add := func(path string) {
		if abs, err := filepath.Abs(path); err == nil {
			watched[abs] = true
		}
	}

	for _, file := range files {
		add(file)
		s, err := suite.ParseFile(file)
		if err != nil {
			continue
		}
		dir := filepath.Dir(file)
		for _, c := range s.Checks {
			if c == nil {
				continue
			}
			for _, ref := range c.Refs() {
				if ref.File != "" {
					add(resolvePath(dir, ref.File))
				}
			}
			if c.Schema != "" {
				add(resolvePath(dir, c.Schema))
			}
		}
	}
	return watched
}

func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			err := filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				if !info.IsDir() && suite.IsSuiteFile(path) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			if suite.IsSuiteFile(arg) {
				files = append(files, arg)
			}
		}
	}

	return files, nil
}
