package asserts

import "fmt"

func containsAny[T, K any](item T, found []K, equals EqualsFunc[T, K]) bool {
	for _, f := range found {
		if equals(item, f) {
			return true
		}
	}
	return false
}

// ContainsAtLeastItemFunc checks that at least one element of found matches
// expectedItem under equals.
func ContainsAtLeastItemFunc[T, K any](expectedItem T, found []K, equals EqualsFunc[T, K], opts ...Option) error {
	if found == nil {
		return invalidArgument("found")
	}
	if equals == nil {
		return invalidArgument("equals")
	}
	if !containsAny(expectedItem, found, equals) {
		o := newOptions(opts)
		return failCompare(o.format("expected object not found in collection"), expectedItem, found)
	}
	return nil
}

// ContainsAtLeastFunc checks that every expected element matches at least one
// element of found under equals. Found elements are not consumed, so several
// expected elements may match the same found element, and found may hold
// extra elements.
func ContainsAtLeastFunc[T, K any](expected []T, found []K, equals EqualsFunc[T, K], opts ...Option) error {
	if expected == nil {
		return invalidArgument("expected")
	}
	if found == nil {
		return invalidArgument("found")
	}
	if equals == nil {
		return invalidArgument("equals")
	}
	for _, e := range expected {
		if err := ContainsAtLeastItemFunc(e, found, equals, opts...); err != nil {
			return err
		}
	}
	return nil
}

// ContainsAtLeast checks that found contains every element of expected.
func ContainsAtLeast[T any](expected, found []T, opts ...Option) error {
	return ContainsAtLeastFunc(expected, found, Native[T](), opts...)
}

// ContainsAtLeastItem checks that found contains expectedItem.
func ContainsAtLeastItem[T any](expectedItem T, found []T, opts ...Option) error {
	if found == nil {
		return invalidArgument("found")
	}
	if !containsAny(expectedItem, found, Native[T]()) {
		o := newOptions(opts)
		return failCompare(o.format("collection does not contain expected item"), expectedItem, found)
	}
	return nil
}

// Contains is ContainsAtLeastItem.
func Contains[T any](expectedItem T, found []T, opts ...Option) error {
	return ContainsAtLeastItem(expectedItem, found, opts...)
}

// ContainsNotFunc checks that no element of found matches notExpectedItem
// under equals.
func ContainsNotFunc[T, K any](notExpectedItem T, found []K, equals EqualsFunc[T, K], opts ...Option) error {
	if found == nil {
		return invalidArgument("found")
	}
	if equals == nil {
		return invalidArgument("equals")
	}
	if containsAny(notExpectedItem, found, equals) {
		o := newOptions(opts)
		return fail(o.format(fmt.Sprintf("collection %s does contain the not expected item %s",
			render(found), render(notExpectedItem))))
	}
	return nil
}

// ContainsNotItemsFunc checks ContainsNotFunc for each element of notExpected,
// reporting the first one found.
func ContainsNotItemsFunc[T, K any](notExpected []T, found []K, equals EqualsFunc[T, K], opts ...Option) error {
	if notExpected == nil {
		return invalidArgument("notExpected")
	}
	if found == nil {
		return invalidArgument("found")
	}
	for _, item := range notExpected {
		if err := ContainsNotFunc(item, found, equals, opts...); err != nil {
			return err
		}
	}
	return nil
}

// ContainsNot checks that found does not contain notExpectedItem.
func ContainsNot[T any](notExpectedItem T, found []T, opts ...Option) error {
	return ContainsNotFunc(notExpectedItem, found, Native[T](), opts...)
}

// ContainsNotItems checks that found contains none of notExpected.
func ContainsNotItems[T any](notExpected, found []T, opts ...Option) error {
	return ContainsNotItemsFunc(notExpected, found, Native[T](), opts...)
}
