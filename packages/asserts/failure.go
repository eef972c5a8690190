package asserts

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidArgument is returned when a required collection or relation is nil.
var ErrInvalidArgument = errors.New("invalid argument")

// ComparisonFailure is a mismatch between an expected and an actual value.
type ComparisonFailure struct {
	Message  string
	Expected string
	Actual   string
	// Diff is a unified diff of the compared values, empty for scalars.
	Diff string
}

func (f *ComparisonFailure) Error() string {
	var b strings.Builder
	b.WriteString(f.Message)
	fmt.Fprintf(&b, "\nexpected: %s\nactual  : %s", f.Expected, f.Actual)
	if f.Diff != "" {
		fmt.Fprintf(&b, "\n\nDiff:\n%s", f.Diff)
	}
	return b.String()
}

// AssertionFailure is a mismatch that has no single expected/actual pair,
// such as an inequality or exclusion check.
type AssertionFailure struct {
	Message string
}

func (f *AssertionFailure) Error() string {
	return f.Message
}

// RelationError is returned by SameOrderFunc when the equivalence relation
// panics while comparing a pair of elements.
type RelationError struct {
	Index       int
	Expected    any
	Found       any
	ExpectedSeq any
	FoundSeq    any
	Err         error
}

func (e *RelationError) Error() string {
	return fmt.Sprintf("equivalence relation failed at index %d (expected=%s found=%s) - expected list %s found list %s: %v",
		e.Index, render(e.Expected), render(e.Found), render(e.ExpectedSeq), render(e.FoundSeq), e.Err)
}

func (e *RelationError) Unwrap() error {
	return e.Err
}

// Is reports a relation failure as an invalid argument: the caller supplied a
// relation that cannot handle its own input.
func (e *RelationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// IsFailure reports whether err is an assertion mismatch, as opposed to an
// invalid argument or relation error.
func IsFailure(err error) bool {
	var cf *ComparisonFailure
	var af *AssertionFailure
	return errors.As(err, &cf) || errors.As(err, &af)
}

// Format prefixes cause with the optional caller message.
func Format(message, cause string) string {
	if message == "" {
		return cause
	}
	return message + " " + cause
}

func invalidArgument(name string) error {
	return errors.Wrapf(ErrInvalidArgument, "%s must not be nil", name)
}

func fail(message string) error {
	return &AssertionFailure{Message: message}
}

// failCompare renders both values and attaches a diff when they are structured.
func failCompare(message string, expected, actual any) error {
	return &ComparisonFailure{
		Message:  message,
		Expected: render(expected),
		Actual:   render(actual),
		Diff:     diff(expected, actual),
	}
}

// failCompareSizes reports two collection sizes.
func failCompareSizes(message string, expected, actual int) error {
	return &ComparisonFailure{
		Message:  message,
		Expected: fmt.Sprint(expected),
		Actual:   fmt.Sprint(actual),
	}
}
