// Package asserts provides assertion helpers for Go test suites.
//
// Supported checks:
//   - Multiset equality (ContainsExact) with an optional custom equivalence relation
//   - Containment (ContainsAtLeast, Contains) and exclusion (ContainsNot)
//   - Positional equality (SameOrder)
//   - Size checks (IsEmpty, IsEmptyOrNil, HasSize, HasMapSize, SameSize)
//   - Whitespace-insensitive strings, second-precision timestamps, inequality and
//     reflective structural equality
//
// Every check returns nil on success or an error describing the mismatch, so it
// composes with testify:
//
//	require.NoError(t, asserts.ContainsExact([]int{1, 1, 2}, got))
//
// Mismatches are reported as *ComparisonFailure (with expected and actual
// renderings) or *AssertionFailure (message only). Missing arguments are
// reported as errors wrapping ErrInvalidArgument.
package asserts
