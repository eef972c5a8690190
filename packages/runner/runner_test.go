package runner

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/queomedia/asserts/packages/asserts"
	"github.com/queomedia/asserts/packages/source"
	"github.com/queomedia/asserts/packages/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureSuite = `
name: fixtures
checks:
  - name: ids exact
    mode: exact
    expected: [2, 1]
    foundFrom: {file: users.json, path: "#.id"}
  - name: names fold
    mode: at-least
    expectedFrom: {file: want.yaml}
    foundFrom: {sql: "sqlite://fixtures.db", query: "SELECT id, name FROM users", column: name}
    relation: fold
  - name: greedy lte
    mode: exact
    expected: [10, 20]
    found: [20, 10]
    relation: lte
  - name: maximum lte
    mode: exact
    expected: [10, 20]
    found: [20, 10]
    relation: lte
    maximumMatching: true
  - name: ids in order
    mode: order
    expected: [1, 2]
    foundFrom: {file: users.json, path: "#.id"}
  - name: no admin
    mode: not
    expected: admin
    foundFrom: {file: users.json, path: "#.name"}
  - name: map size
    mode: size
    size: 2
    found: {a: 1, b: 2}
  - name: missing path
    mode: exact
    expected: [1]
    foundFrom: {file: users.json, path: accounts}
  - name: schema violation
    mode: empty-or-nil
    foundFrom: {file: users.json}
    schema: ids.schema.json
`

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"users.json":            `[{"id": 1, "name": "Alice"}, {"id": 2, "name": "Bob"}]`,
		"want.yaml":             "- alice\n- BOB\n",
		"ids.schema.json":       `{"type": "array", "items": {"type": "number"}}`,
		"fixtures.asserts.yaml": fixtureSuite,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	db, err := sql.Open("sqlite3", filepath.Join(dir, "fixtures.db"))
	require.NoError(t, err)
	defer db.Close()
	_, err = db.Exec(`
		CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT);
		INSERT INTO users (id, name) VALUES (1, 'Alice'), (2, 'Bob');
	`)
	require.NoError(t, err)

	return dir
}

func resultsByName(r *RunResult) map[string]*CheckResult {
	m := make(map[string]*CheckResult, len(r.Results))
	for _, cr := range r.Results {
		m[cr.Name] = cr
	}
	return m
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, v ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func TestRunFile(t *testing.T) {
	dir := writeFixtures(t)
	log := &recordingLogger{}
	r := NewRunner(&Config{Logger: log})

	result, err := r.RunFile(context.Background(), filepath.Join(dir, "fixtures.asserts.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "fixtures", result.Name)
	assert.Equal(t, 6, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 2, result.Errored)
	assert.Equal(t, 0, result.Skipped)
	assert.False(t, result.OK())

	byName := resultsByName(result)
	for _, name := range []string{"ids exact", "names fold", "maximum lte", "ids in order", "no admin", "map size"} {
		assert.True(t, byName[name].Passed, "%s: %s", name, byName[name].Message)
	}

	greedy := byName["greedy lte"]
	assert.False(t, greedy.Passed)
	assert.Nil(t, greedy.Error)
	assert.True(t, asserts.IsFailure(greedy.Failure))
	assert.Contains(t, greedy.Message, "first not found element=20")
	assert.Equal(t, "[10 20]", greedy.Expected)
	assert.Equal(t, "[20 10]", greedy.Actual)

	missing := byName["missing path"]
	require.Error(t, missing.Error)
	assert.ErrorIs(t, missing.Error, asserts.ErrInvalidArgument)

	schema := byName["schema violation"]
	require.Error(t, schema.Error)
	assert.Contains(t, schema.Message, "schema validation failed")

	assert.NotEmpty(t, log.lines)
	assert.True(t, strings.HasPrefix(log.lines[0], `running "ids exact"`))
}

func TestRun_DefaultRelationAndMaximumMatching(t *testing.T) {
	s := &suite.Suite{Checks: []*suite.Check{
		{Name: "reversed", Mode: suite.ModeExact, Expected: []any{10, 20}, Found: []any{20, 10}},
	}}

	result, err := NewRunner(&Config{DefaultRelation: "lte"}).Run(context.Background(), s, "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)

	result, err = NewRunner(&Config{DefaultRelation: "lte", MaximumMatching: true}).Run(context.Background(), s, "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Passed)
}

func TestRun_Bail(t *testing.T) {
	s := &suite.Suite{Checks: []*suite.Check{
		{Name: "first", Mode: suite.ModeEmpty, Found: []any{1}},
		{Name: "second", Mode: suite.ModeEmpty, Found: []any{}},
	}}

	result, err := NewRunner(&Config{Bail: true}).Run(context.Background(), s, "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, "bail", result.Results[1].SkipReason)
}

func TestRun_NameFilter(t *testing.T) {
	s := &suite.Suite{Checks: []*suite.Check{
		{Name: "Users empty", Mode: suite.ModeEmpty, Found: []any{}},
		{Name: "orders empty", Mode: suite.ModeEmpty, Found: []any{1}},
	}}

	result, err := NewRunner(&Config{NameFilter: "users"}).Run(context.Background(), s, "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Skipped)
	assert.True(t, result.OK())
}

func TestRun_ItemModes(t *testing.T) {
	s := &suite.Suite{Checks: []*suite.Check{
		{Name: "exact item", Mode: suite.ModeExactItem, Expected: "a", Found: []any{"A"}, Relation: "fold"},
		{Name: "at least item", Mode: suite.ModeAtLeast, Expected: 2, Found: []any{1, 2, 3}},
		{Name: "same size", Mode: suite.ModeSameSize, Expected: []any{"x", "y"}, Found: []any{1, 2}},
		{Name: "not items", Mode: suite.ModeNot, Expected: []any{4, 2}, Found: []any{1, 2, 3}},
	}}

	result, err := NewRunner(nil).Run(context.Background(), s, "")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Passed)
	assert.Equal(t, 1, result.Failed)

	notItems := resultsByName(result)["not items"]
	assert.Contains(t, notItems.Message, "does contain the not expected item 2")
	assert.Empty(t, notItems.Expected)
}

func TestRun_SequenceErrors(t *testing.T) {
	s := &suite.Suite{Checks: []*suite.Check{
		{Name: "object as sequence", Mode: suite.ModeEmpty, Found: map[string]any{"a": 1}},
		{Name: "scalar expected", Mode: suite.ModeExact, Expected: 1, Found: []any{1}},
	}}

	result, err := NewRunner(nil).Run(context.Background(), s, "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Errored)
	assert.Contains(t, result.Results[0].Message, "found: expected a sequence, got an object")
	assert.Contains(t, result.Results[1].Message, "expected: expected a sequence, got a number")
}

func TestRun_IntegerKeyedMapping(t *testing.T) {
	s, err := suite.Parse([]byte(`
checks:
  - name: three entries
    mode: size
    size: 3
    found: {1: 1, 2: 2, 3: 3}
  - name: keys are strings
    mode: exact
    expected: [{"1": a}]
    found: [{1: a}]
`))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	result, err := NewRunner(nil).Run(context.Background(), s, "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.Passed, resultsByName(result)["three entries"].Message)
}

func TestRun_NullExpectedDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "null.json"), []byte("null"), 0o644))
	s := &suite.Suite{Checks: []*suite.Check{
		{Name: "not null", Mode: suite.ModeNot, ExpectedFrom: &source.Ref{File: "null.json"}, Found: []any{1}},
		{Name: "at least null", Mode: suite.ModeAtLeast, ExpectedFrom: &source.Ref{File: "null.json"}, Found: []any{1}},
	}}

	result, err := NewRunner(nil).Run(context.Background(), s, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Errored)
	for _, r := range result.Results {
		assert.ErrorIs(t, r.Error, asserts.ErrInvalidArgument, r.Name)
	}
}

func TestRun_ContextCanceled(t *testing.T) {
	s := &suite.Suite{Checks: []*suite.Check{
		{Name: "never", Mode: suite.ModeEmpty, Found: []any{}},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewRunner(nil).Run(ctx, s, "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Results)
}

func TestRunFile_InvalidSuite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.asserts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("checks:\n  - mode: exact\n    found: [1]\n"), 0o644))

	_, err := NewRunner(nil).RunFile(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs expected")
}
