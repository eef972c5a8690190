package source

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.json", `{"users": [{"id": 1, "tags": ["a", "b"]}, {"id": 2, "tags": ["c"]}]}`)
	writeFile(t, dir, "empty.json", `[]`)
	l := NewLoader(dir)

	tests := []struct {
		name     string
		path     string
		expected any
	}{
		{name: "whole document", path: "", expected: map[string]any{"users": []any{
			map[string]any{"id": 1.0, "tags": []any{"a", "b"}},
			map[string]any{"id": 2.0, "tags": []any{"c"}},
		}}},
		{name: "projection", path: "users.#.id", expected: []any{1.0, 2.0}},
		{name: "bracket index", path: "users[0].tags", expected: []any{"a", "b"}},
		{name: "missing path", path: "accounts", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := l.Load(context.Background(), Ref{File: "users.json", Path: tt.path})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v)
		})
	}

	t.Run("empty array", func(t *testing.T) {
		v, err := l.Load(context.Background(), Ref{File: "empty.json"})
		require.NoError(t, err)
		assert.Equal(t, []any{}, v)
	})
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data/want.yaml", "ids: [1, 2, 3]\nnames:\n  - alice\n  - bob\n")
	l := NewLoader(dir)

	v, err := l.Load(context.Background(), Ref{File: "data/want.yaml"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ids": []any{1.0, 2.0, 3.0}, "names": []any{"alice", "bob"}}, v)

	v, err = l.Load(context.Background(), Ref{File: "data/want.yaml", Path: "names"})
	require.NoError(t, err)
	assert.Equal(t, []any{"alice", "bob"}, v)
}

func TestLoad_YAMLIntegerKeys(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "codes.yaml", `200: ok
404: missing
nested:
  1: [a]
`)
	l := NewLoader(dir)

	v, err := l.Load(context.Background(), Ref{File: "codes.yaml"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"200":    "ok",
		"404":    "missing",
		"nested": map[string]any{"1": []any{"a"}},
	}, v)
}

func TestLoad_FileErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{"a": [1, 2`)
	writeFile(t, dir, "data.csv", "a,b")
	writeFile(t, dir, "broken.yaml", "a: [1, 2")
	l := NewLoader(dir)

	tests := []struct {
		name string
		ref  Ref
		msg  string
	}{
		{name: "invalid json", ref: Ref{File: "broken.json"}, msg: "invalid JSON"},
		{name: "invalid yaml", ref: Ref{File: "broken.yaml"}, msg: "failed to parse"},
		{name: "unsupported extension", ref: Ref{File: "data.csv"}, msg: "unsupported data file"},
		{name: "missing file", ref: Ref{File: "nope.json"}, msg: "failed to read"},
		{name: "path traversal", ref: Ref{File: "../outside.json"}, msg: "path traversal"},
		{name: "no source", ref: Ref{}, msg: "either file or sql"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Load(context.Background(), tt.ref)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func createDB(t *testing.T, dir string) {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(dir, "fixtures.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT, age INTEGER);
		INSERT INTO users (id, name, age) VALUES (1, 'Alice', 30), (2, 'Bob', 25);
	`)
	require.NoError(t, err)
}

func TestLoad_SQL(t *testing.T) {
	dir := t.TempDir()
	createDB(t, dir)
	l := NewLoader(dir, WithQueryTimeout(5*time.Second))
	ctx := context.Background()

	t.Run("single column", func(t *testing.T) {
		v, err := l.Load(ctx, Ref{SQL: "sqlite://fixtures.db", Query: "SELECT id FROM users ORDER BY id"})
		require.NoError(t, err)
		assert.Equal(t, []any{1.0, 2.0}, v)
	})

	t.Run("named column", func(t *testing.T) {
		v, err := l.Load(ctx, Ref{SQL: "sqlite:fixtures.db", Query: "SELECT id, name FROM users ORDER BY id", Column: "NAME"})
		require.NoError(t, err)
		assert.Equal(t, []any{"Alice", "Bob"}, v)
	})

	t.Run("rows as objects", func(t *testing.T) {
		v, err := l.Load(ctx, Ref{SQL: "sqlite://fixtures.db", Query: "SELECT name, age FROM users ORDER BY id"})
		require.NoError(t, err)
		assert.Equal(t, []any{
			map[string]any{"name": "Alice", "age": 30.0},
			map[string]any{"name": "Bob", "age": 25.0},
		}, v)
	})

	t.Run("no rows", func(t *testing.T) {
		v, err := l.Load(ctx, Ref{SQL: "sqlite://fixtures.db", Query: "SELECT id FROM users WHERE id > 10"})
		require.NoError(t, err)
		assert.Equal(t, []any{}, v)
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := l.Load(ctx, Ref{SQL: "sqlite://fixtures.db", Query: "SELECT id FROM users", Column: "email"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `column "email" not found`)
	})

	t.Run("bad query", func(t *testing.T) {
		_, err := l.Load(ctx, Ref{SQL: "sqlite://fixtures.db", Query: "SELECT FROM"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query failed")
	})
}

func TestRef_Validate(t *testing.T) {
	assert.NoError(t, Ref{File: "a.json"}.Validate())
	assert.NoError(t, Ref{SQL: "sqlite://a.db", Query: "SELECT 1"}.Validate())
	assert.Error(t, Ref{}.Validate())
	assert.Error(t, Ref{File: "a.json", SQL: "sqlite://a.db"}.Validate())
	assert.Error(t, Ref{SQL: "sqlite://a.db"}.Validate())
	assert.Error(t, Ref{File: "a.json", Column: "id"}.Validate())
}

func TestRef_String(t *testing.T) {
	assert.Equal(t, "a.json#users.#.id", Ref{File: "a.json", Path: "users.#.id"}.String())
	assert.Equal(t, "sqlite://a.db SELECT 1", Ref{SQL: "sqlite://a.db", Query: "SELECT 1"}.String())
}

func TestParseConnectionString(t *testing.T) {
	path, err := parseConnectionString("sqlite://./test.db")
	require.NoError(t, err)
	assert.Equal(t, "./test.db", path)

	path, err = parseConnectionString(" sqlite:test.db ")
	require.NoError(t, err)
	assert.Equal(t, "test.db", path)

	_, err = parseConnectionString("postgres://localhost/db")
	assert.Error(t, err)
	_, err = parseConnectionString("sqlite://")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	v, err := Normalize([]any{1, int64(2), "x", map[string]any{"a": true}})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0, "x", map[string]any{"a": true}}, v)

	v, err = Normalize(nil)
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = Normalize(map[any]any{1: "a", true: []any{map[any]any{2.5: "b"}}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"1": "a", "true": []any{map[string]any{"2.5": "b"}}}, v)

	_, err = Normalize(make(chan int))
	assert.Error(t, err)
}

func TestSequence(t *testing.T) {
	s, err := Sequence([]any{1.0})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0}, s)

	s, err = Sequence(nil)
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = Sequence(map[string]any{})
	assert.EqualError(t, err, "expected a sequence, got an object")

	m, ok := Mapping(map[string]any{"a": 1.0})
	assert.True(t, ok)
	assert.Len(t, m, 1)
}

func TestValidateSchema(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ids.schema.json", `{"type": "array", "items": {"type": "number"}}`)
	l := NewLoader(dir)

	assert.NoError(t, l.ValidateSchema([]any{1.0, 2.0}, "ids.schema.json"))

	err := l.ValidateSchema([]any{1.0, "two"}, "ids.schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")

	err = l.ValidateSchema([]any{}, "missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read schema file")
}
