package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/queomedia/asserts/packages/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	RunID    string      `json:"runId"`
	Summary  JSONSummary `json:"summary"`
	Checks   []JSONCheck `json:"checks"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents the run summary
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
}

// JSONCheck represents a single check result
type JSONCheck struct {
	Name       string       `json:"name"`
	Suite      string       `json:"suite,omitempty"`
	File       string       `json:"file"`
	Mode       string       `json:"mode"`
	Passed     bool         `json:"passed"`
	Skipped    bool         `json:"skipped,omitempty"`
	SkipReason string       `json:"skipReason,omitempty"`
	Duration   float64      `json:"duration"`
	Error      string       `json:"error,omitempty"`
	Failure    *JSONFailure `json:"failure,omitempty"`
}

// JSONFailure represents the mismatch reported by a failed check
type JSONFailure struct {
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Actual   string `json:"actual,omitempty"`
	Diff     string `json:"diff,omitempty"`
}

// JSONFormatter formats check results as JSON
type JSONFormatter struct {
	writer  io.Writer
	runID   string
	results []JSONCheck
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:  os.Stdout,
		runID:   uuid.NewString(),
		results: make([]JSONCheck, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

// JSONWithRunID overrides the generated run identifier.
func JSONWithRunID(id string) JSONOption {
	return func(f *JSONFormatter) {
		f.runID = id
	}
}

// RunID returns the identifier written to the report.
func (f *JSONFormatter) RunID() string {
	return f.runID
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	for _, r := range result.Results {
		check := JSONCheck{
			Name:     r.Name,
			Suite:    result.Name,
			File:     result.File,
			Mode:     string(r.Mode),
			Passed:   r.Passed,
			Skipped:  r.Skipped,
			Duration: float64(r.Duration.Milliseconds()),
		}

		if r.SkipReason != "" && r.SkipReason != "filtered out" {
			check.SkipReason = r.SkipReason
		}

		if r.Error != nil {
			check.Error = r.Error.Error()
		}

		if r.Failure != nil {
			check.Failure = &JSONFailure{
				Message:  r.Message,
				Expected: r.Expected,
				Actual:   r.Actual,
				Diff:     r.Diff,
			}
		}

		f.results = append(f.results, check)
	}
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual check results
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var summary JSONSummary
	for _, c := range f.results {
		switch {
		case c.Skipped:
			summary.Skipped++
		case c.Error != "":
			summary.Errored++
		case c.Passed:
			summary.Passed++
		default:
			summary.Failed++
		}
	}
	summary.Total = len(f.results)

	output := JSONOutput{
		RunID:    f.runID,
		Summary:  summary,
		Checks:   f.results,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
