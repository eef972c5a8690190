package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/queomedia/asserts/packages/asserts"
	"github.com/queomedia/asserts/packages/relation"
	"github.com/queomedia/asserts/packages/source"
	"github.com/queomedia/asserts/packages/suite"
)

// Config controls a run.
type Config struct {
	// Bail skips the remaining checks of a file after the first failure or error.
	Bail bool
	// NameFilter runs only checks whose name contains it, case-insensitively.
	NameFilter string
	// DefaultRelation applies to checks that name no relation.
	DefaultRelation string
	// MaximumMatching enables maximum bipartite matching for every exact check.
	MaximumMatching bool
	QueryTimeout    time.Duration
	Logger          Logger
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name       string
	Mode       suite.Mode
	Passed     bool
	Skipped    bool
	SkipReason string
	// Failure is the assertion mismatch of a failed check.
	Failure error
	// Error is set when the check could not be evaluated.
	Error    error
	Message  string
	Expected string
	Actual   string
	Diff     string
	Duration time.Duration
}

// RunResult is the outcome of one suite.
type RunResult struct {
	File     string
	Name     string
	Results  []*CheckResult
	Passed   int
	Failed   int
	Errored  int
	Skipped  int
	Duration time.Duration
}

// OK reports whether no check failed or errored.
func (r *RunResult) OK() bool {
	return r.Failed == 0 && r.Errored == 0
}

type Runner struct {
	config *Config
	log    Logger
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Runner{
		config: cfg,
		log:    maskLogger(cfg.Logger),
	}
}

// RunFile parses, validates and runs the suite at path. Sources resolve
// relative to the suite's directory.
func (r *Runner) RunFile(ctx context.Context, path string) (*RunResult, error) {
	s, err := suite.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r.Run(ctx, s, filepath.Dir(path))
}

// Run executes the checks of s in order. It stops early only when ctx is done.
func (r *Runner) Run(ctx context.Context, s *suite.Suite, baseDir string) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{
		File:    s.File,
		Name:    s.Name,
		Results: make([]*CheckResult, 0, len(s.Checks)),
	}
	loader := source.NewLoader(baseDir, source.WithQueryTimeout(r.config.QueryTimeout))

	bailed := false
	for _, c := range s.Checks {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		var cr *CheckResult
		switch {
		case bailed:
			cr = skipped(c, "bail")
		case !r.matchesFilter(c.Name):
			cr = skipped(c, "filtered out")
		default:
			r.log.Printf("running %q (%s)", c.Name, c.Mode)
			cr = r.runCheck(ctx, loader, c)
		}

		result.Results = append(result.Results, cr)
		switch {
		case cr.Skipped:
			result.Skipped++
		case cr.Error != nil:
			result.Errored++
		case cr.Passed:
			result.Passed++
		default:
			result.Failed++
		}
		if r.config.Bail && !cr.Skipped && !cr.Passed {
			bailed = true
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

func (r *Runner) matchesFilter(name string) bool {
	if r.config.NameFilter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(r.config.NameFilter))
}

func skipped(c *suite.Check, reason string) *CheckResult {
	return &CheckResult{Name: c.Name, Mode: c.Mode, Skipped: true, SkipReason: reason}
}

func (r *Runner) runCheck(ctx context.Context, loader *source.Loader, c *suite.Check) *CheckResult {
	start := time.Now()
	cr := &CheckResult{Name: c.Name, Mode: c.Mode}

	err := r.evaluate(ctx, loader, c)
	cr.Duration = time.Since(start)

	var cf *asserts.ComparisonFailure
	var af *asserts.AssertionFailure
	switch {
	case err == nil:
		cr.Passed = true
	case errors.As(err, &cf):
		cr.Failure = err
		cr.Message = cf.Message
		cr.Expected = cf.Expected
		cr.Actual = cf.Actual
		cr.Diff = cf.Diff
	case errors.As(err, &af):
		cr.Failure = err
		cr.Message = af.Message
	default:
		cr.Error = err
		cr.Message = err.Error()
	}

	if cr.Passed {
		r.log.Printf("%q passed in %s", c.Name, cr.Duration)
	} else {
		r.log.Printf("%q did not pass: %s", c.Name, cr.Message)
	}
	return cr
}

func (r *Runner) evaluate(ctx context.Context, loader *source.Loader, c *suite.Check) error {
	found, err := load(ctx, loader, c.Found, c.FoundFrom)
	if err != nil {
		return fmt.Errorf("found: %w", err)
	}
	if c.Schema != "" {
		if err := loader.ValidateSchema(found, c.Schema); err != nil {
			return fmt.Errorf("found: %w", err)
		}
	}

	var expected any
	if c.Mode.NeedsExpected() {
		if expected, err = load(ctx, loader, c.Expected, c.ExpectedFrom); err != nil {
			return fmt.Errorf("expected: %w", err)
		}
	}

	var equals relation.Relation
	if c.Mode.UsesRelation() {
		spec := c.Relation
		if spec == "" {
			spec = r.config.DefaultRelation
		}
		if equals, err = relation.Parse(spec); err != nil {
			return err
		}
	}

	opts := []asserts.Option{asserts.WithMessage(c.Message)}
	if c.Mode == suite.ModeExact && (c.MaximumMatching || r.config.MaximumMatching) {
		opts = append(opts, asserts.WithMaximumMatching())
	}

	return dispatch(c, expected, found, equals, opts)
}

func load(ctx context.Context, loader *source.Loader, inline any, ref *source.Ref) (any, error) {
	if ref != nil {
		return loader.Load(ctx, *ref)
	}
	return source.Normalize(inline)
}

func dispatch(c *suite.Check, expected, found any, equals relation.Relation, opts []asserts.Option) error {
	if c.Mode == suite.ModeSize {
		if m, ok := source.Mapping(found); ok {
			return asserts.HasMapSize(*c.Size, m, opts...)
		}
	}

	fnd, err := source.Sequence(found)
	if err != nil {
		return fmt.Errorf("found: %w", err)
	}

	switch c.Mode {
	case suite.ModeSize:
		return asserts.HasSize(*c.Size, fnd, opts...)
	case suite.ModeEmpty:
		return asserts.IsEmpty(fnd, opts...)
	case suite.ModeEmptyOrNil:
		return asserts.IsEmptyOrNil(fnd, opts...)
	case suite.ModeExactItem:
		return asserts.ContainsExactItemFunc(expected, fnd, equals, opts...)
	}

	// The remaining modes accept a single expected item where it makes sense.
	// A null expected value is never an item: it is an absent sequence and
	// fails as an invalid argument.
	if _, isSeq := expected.([]any); !isSeq && expected != nil {
		switch c.Mode {
		case suite.ModeAtLeast:
			return asserts.ContainsAtLeastItemFunc(expected, fnd, equals, opts...)
		case suite.ModeNot:
			return asserts.ContainsNotFunc(expected, fnd, equals, opts...)
		}
	}

	exp, err := source.Sequence(expected)
	if err != nil {
		return fmt.Errorf("expected: %w", err)
	}

	switch c.Mode {
	case suite.ModeExact:
		return asserts.ContainsExactFunc(exp, fnd, equals, opts...)
	case suite.ModeAtLeast:
		return asserts.ContainsAtLeastFunc(exp, fnd, equals, opts...)
	case suite.ModeNot:
		return asserts.ContainsNotItemsFunc(exp, fnd, equals, opts...)
	case suite.ModeOrder:
		return asserts.SameOrderFunc(exp, fnd, equals, opts...)
	case suite.ModeSameSize:
		return asserts.SameSize(exp, fnd, opts...)
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
}
