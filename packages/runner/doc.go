// Package runner executes suite files.
//
// For each check the runner loads the expected and found values, validates
// the found value against an optional JSON schema, resolves the named
// equivalence relation and calls the matching assertion from package
// asserts. Assertion mismatches are recorded as failures; anything that
// prevents a check from being evaluated (unreadable sources, schema
// violations, absent collections) is recorded as an error.
package runner
