package asserts

import "fmt"

// ContainsExact checks that expected and found hold the same elements with
// the same multiplicities, in any order.
func ContainsExact[T any](expected, found []T, opts ...Option) error {
	return ContainsExactFunc(expected, found, Native[T](), opts...)
}

// ContainsExactFunc checks that every expected element can be paired with a
// distinct found element under equals, and that both have the same size.
//
// Elements are paired greedily: each expected element, in order, takes the
// first unpaired found element it matches. When equals is not a bijection the
// outcome depends on the order of found, e.g. with a <= b, [10 20] against
// [10 20] passes but against [20 10] fails. Pass WithMaximumMatching to pair
// elements by maximum bipartite matching instead.
func ContainsExactFunc[T, K any](expected []T, found []K, equals EqualsFunc[T, K], opts ...Option) error {
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

	var missing int
	if o.maximumMatching {
		missing = maximumMatching(expected, found, equals)
	} else {
		missing = greedyMatching(expected, found, equals)
	}
	if missing >= 0 {
		cause := fmt.Sprintf("collections do not contain equal elements, first not found element=%s", render(expected[missing]))
		return failCompare(o.format(cause), expected, found)
	}
	return nil
}

// greedyMatching returns the index of the first expected element left
// unpaired, or -1 when all are paired.
func greedyMatching[T, K any](expected []T, found []K, equals EqualsFunc[T, K]) int {
	matched := make([]bool, len(found))
	for i, e := range expected {
		paired := false
		for j, f := range found {
			if !matched[j] && equals(e, f) {
				matched[j] = true
				paired = true
				break
			}
		}
		if !paired {
			return i
		}
	}
	return -1
}

// maximumMatching pairs elements along augmenting paths and returns the index
// of the first expected element no path can place, or -1.
func maximumMatching[T, K any](expected []T, found []K, equals EqualsFunc[T, K]) int {
	adjacent := make([][]int, len(expected))
	for i, e := range expected {
		for j, f := range found {
			if equals(e, f) {
				adjacent[i] = append(adjacent[i], j)
			}
		}
	}

	owner := make([]int, len(found))
	for j := range owner {
		owner[j] = -1
	}

	var augment func(i int, visited []bool) bool
	augment = func(i int, visited []bool) bool {
		for _, j := range adjacent[i] {
			if visited[j] {
				continue
			}
			visited[j] = true
			if owner[j] < 0 || augment(owner[j], visited) {
				owner[j] = i
				return true
			}
		}
		return false
	}

	for i := range expected {
		if !augment(i, make([]bool, len(found))) {
			return i
		}
	}
	return -1
}

// ContainsExactItem checks that found consists of exactly one element equal
// to expectedItem. expectedItem may be nil.
func ContainsExactItem[T any](expectedItem T, found []T, opts ...Option) error {
	if found == nil {
		return invalidArgument("found")
	}
	o := newOptions(opts)
	if len(found) != 1 {
		return failCompare(o.format("collection does not have exactly one item"), expectedItem, found)
	}
	if !Native[T]()(expectedItem, found[0]) {
		return failCompare(o.format("collection does not contain expected element"), expectedItem, found)
	}
	return nil
}

// ContainsExactItemFunc checks that found consists of exactly one element
// matching expectedItem under equals.
func ContainsExactItemFunc[T, K any](expectedItem T, found []K, equals EqualsFunc[T, K], opts ...Option) error {
	if found == nil {
		return invalidArgument("found")
	}
	if equals == nil {
		return invalidArgument("equals")
	}
	if err := HasSize(1, found, opts...); err != nil {
		return err
	}
	if !equals(expectedItem, found[0]) {
		o := newOptions(opts)
		return failCompare(o.format("collection does not contain expected (one) element"), expectedItem, found)
	}
	return nil
}
