// Package source loads the sequences that suite checks compare.
//
// A Ref names one of:
//   - a JSON file, read with gjson
//   - a YAML file, read with yaml.v3
//   - a SQLite query, run through database/sql and go-sqlite3
//
// File refs accept a gjson path selecting a sub-document. Loaded values are
// normalized to the types produced by JSON decoding so that values from
// different sources compare alike.
package source
