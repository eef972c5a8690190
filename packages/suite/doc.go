// Package suite parses suite files: YAML documents listing collection checks
// to run over inline values, data files and SQLite queries.
//
// Example:
//
//	name: fixtures
//	checks:
//	  - name: seeded ids
//	    mode: exact
//	    expected: [1, 2, 3]
//	    foundFrom: {sql: "sqlite://fixtures.db", query: "SELECT id FROM users"}
//
// Modes at-least and not accept a single expected item as well as a sequence.
// A null expected value, inline or from a document, is not an item: inline it
// fails validation, and from a document it is an absent sequence that the
// check reports as an invalid argument.
//
// Mapping keys that are not strings, such as {1: a}, are read as strings.
//
// Suite files are named *.asserts.yaml or *.asserts.yml.
package suite
