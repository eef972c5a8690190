package asserts

import "fmt"

// IsEmpty checks that collection has no elements. A nil collection is an
// invalid argument; use IsEmptyOrNil to accept it.
func IsEmpty[T any](collection []T, opts ...Option) error {
	if collection == nil {
		return invalidArgument("collection")
	}
	return IsEmptyOrNil(collection, opts...)
}

// IsEmptyOrNil checks that collection is nil or has no elements.
func IsEmptyOrNil[T any](collection []T, opts ...Option) error {
	if len(collection) != 0 {
		o := newOptions(opts)
		return failCompareSizes(o.format("no elements expected"), 0, len(collection))
	}
	return nil
}

// HasSize checks that found has exactly size elements.
func HasSize[T any](size int, found []T, opts ...Option) error {
	if found == nil {
		return invalidArgument("collection")
	}
	if size != len(found) {
		o := newOptions(opts)
		return failCompareSizes(o.format("collection has wrong size"), size, len(found))
	}
	return nil
}

// HasMapSize checks that found has exactly size entries.
func HasMapSize[K comparable, V any](size int, found map[K]V, opts ...Option) error {
	if found == nil {
		return invalidArgument("map")
	}
	if size != len(found) {
		o := newOptions(opts)
		return failCompareSizes(o.format("map has wrong size"), size, len(found))
	}
	return nil
}

// SameSize checks that expected and found have the same number of elements.
func SameSize[T, K any](expected []T, found []K, opts ...Option) error {
	if expected == nil {
		return invalidArgument("expected")
	}
	if found == nil {
		return invalidArgument("found")
	}
	if len(expected) != len(found) {
		o := newOptions(opts)
		cause := fmt.Sprintf("collections do not have the same size - expected collection=%s found collection=%s",
			render(expected), render(found))
		return failCompareSizes(o.format(cause), len(expected), len(found))
	}
	return nil
}
