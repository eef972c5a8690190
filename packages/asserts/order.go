package asserts

import (
	"fmt"

	"github.com/pkg/errors"
)

// SameOrder checks that expected and found are equal element by element.
func SameOrder[T any](expected, found []T, opts ...Option) error {
	return SameOrderFunc(expected, found, Native[T](), opts...)
}

// SameOrderFunc checks that expected and found have the same size and that
// equals holds for the elements at every index. A panic raised by equals is
// returned as a *RelationError carrying the index and both sequences.
func SameOrderFunc[T, K any](expected []T, found []K, equals EqualsFunc[T, K], opts ...Option) error {
	if expected == nil {
		return invalidArgument("expected")
	}
	if found == nil {
		return invalidArgument("found")
	}
	if equals == nil {
		return invalidArgument("equals")
	}
	if err := SameSize(expected, found, opts...); err != nil {
		return err
	}

	o := newOptions(opts)
	for i := range expected {
		ok, err := guardedEquals(equals, expected[i], found[i])
		if err != nil {
			return &RelationError{
				Index:       i,
				Expected:    expected[i],
				Found:       found[i],
				ExpectedSeq: expected,
				FoundSeq:    found,
				Err:         err,
			}
		}
		if !ok {
			cause := fmt.Sprintf("the elements have not the same order - first difference at index %d - expected element=%s, found element=%s",
				i, render(expected[i]), render(found[i]))
			return failCompare(o.format(cause), expected, found)
		}
	}
	return nil
}

// guardedEquals evaluates equals, turning a panic into an error.
func guardedEquals[T, K any](equals EqualsFunc[T, K], expected T, found K) (ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, isErr := r.(error); isErr {
				err = e
				return
			}
			err = errors.Errorf("%v", r)
		}
	}()
	return equals(expected, found), nil
}
