// Package relation provides named equivalence relations for data-driven checks.
//
// Relations operate on decoded JSON values (nil, bool, float64, string,
// []any, map[string]any) and are selected by name in suite files:
//   - equal: deep equality after numeric coercion (default)
//   - fold: case-insensitive string equality
//   - nows: string equality ignoring white space
//   - lt, lte, gt, gte: numeric order, expected OP found
//   - approx:<delta>: numeric equality within delta
//   - regex: expected is a pattern matched against found
//   - key:<path>: equality of the sub-values selected by a gjson path
package relation
