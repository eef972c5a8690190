package asserts

import (
	"github.com/stretchr/testify/assert"
)

// Checker decides whether an expected element and a found element match.
type Checker[T, K any] interface {
	Equals(expected T, found K) bool
}

// EqualsFunc is an equivalence relation between expected and found elements.
type EqualsFunc[T, K any] func(expected T, found K) bool

// Equals calls f.
func (f EqualsFunc[T, K]) Equals(expected T, found K) bool {
	return f(expected, found)
}

// FromChecker adapts a Checker to an EqualsFunc. A nil checker yields a nil
// relation, which the assertions reject as an invalid argument.
func FromChecker[T, K any](c Checker[T, K]) EqualsFunc[T, K] {
	if c == nil {
		return nil
	}
	if f, ok := c.(EqualsFunc[T, K]); ok {
		return f
	}
	return c.Equals
}

// Native returns the relation used when no relation is given: values are
// equal when they are deeply equal, nil matches nil, and byte slices compare
// by content.
func Native[T any]() EqualsFunc[T, T] {
	return func(expected, found T) bool {
		return assert.ObjectsAreEqual(expected, found)
	}
}
