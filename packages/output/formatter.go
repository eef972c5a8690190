package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/queomedia/asserts/packages/runner"
)

// Formatter renders suite results as they complete.
type Formatter interface {
	FormatResult(result *runner.RunResult)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable is implemented by formatters that accumulate results and write
// them once all suites have run.
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

// Format names accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
	FormatJUnit   = "junit"
	FormatTAP     = "tap"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatConsole, FormatJSON, FormatJUnit, FormatTAP}
}

// New returns the formatter registered under name, writing to w.
func New(name string, w io.Writer, verbose, noColor bool) (Formatter, error) {
	switch name {
	case FormatConsole, "":
		return NewConsoleFormatter(WithWriter(w), WithVerbose(verbose), WithNoColor(noColor)), nil
	case FormatJSON:
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case FormatJUnit:
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	case FormatTAP:
		return NewTAPFormatter(TAPWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (available: %s)", name, strings.Join(Formats(), ", "))
	}
}

// failureText is the plain text block describing a failed check.
func failureText(r *runner.CheckResult) string {
	var sb strings.Builder
	sb.WriteString(r.Message)
	if r.Expected != "" || r.Actual != "" {
		fmt.Fprintf(&sb, "\nexpected: %s\nactual  : %s", r.Expected, r.Actual)
	}
	if r.Diff != "" {
		fmt.Fprintf(&sb, "\n\nDiff:\n%s", r.Diff)
	}
	return sb.String()
}
