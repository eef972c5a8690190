package relation

import (
	"testing"

	"github.com/queomedia/asserts/packages/asserts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		spec     string
		expected any
		found    any
		passed   bool
	}{
		{spec: "", expected: 1.0, found: 1, passed: true},
		{spec: "equal", expected: "a", found: "a", passed: true},
		{spec: "equal", expected: "1", found: 1.0, passed: false},
		{spec: "equal", expected: map[string]any{"a": 1.0}, found: map[string]any{"a": 1.0}, passed: true},
		{spec: "fold", expected: "Alice", found: "aLICE", passed: true},
		{spec: "fold", expected: "Alice", found: "Bob", passed: false},
		{spec: "nows", expected: "a b c", found: "abc", passed: true},
		{spec: "lt", expected: 1, found: 2.0, passed: true},
		{spec: "lte", expected: 2, found: 2.0, passed: true},
		{spec: "gt", expected: 2, found: 2, passed: false},
		{spec: "gte", expected: 3, found: 2.0, passed: true},
		{spec: "gte", expected: "3", found: 2.0, passed: false},
		{spec: "lt", expected: 1, found: "5", passed: false},
		{spec: "approx:0.5", expected: "5", found: 5.0, passed: false},
		{spec: "lte", expected: "x", found: 2.0, passed: false},
		{spec: "approx:0.5", expected: 1.0, found: 1.4, passed: true},
		{spec: "approx:0.5", expected: 1.0, found: 1.6, passed: false},
		{spec: "regex", expected: "/^user-[0-9]+$/", found: "user-42", passed: true},
		{spec: "regex", expected: "^user-[0-9]+$", found: "admin", passed: false},
		{spec: "regex", expected: "([", found: "([", passed: false},
		{spec: "key:id", expected: map[string]any{"id": 1.0, "name": "a"}, found: map[string]any{"id": 1.0, "name": "b"}, passed: true},
		{spec: "key:id", expected: map[string]any{"id": 1.0}, found: map[string]any{"name": "b"}, passed: false},
		{spec: "key:user.name", expected: map[string]any{"user": map[string]any{"name": "a"}}, found: map[string]any{"user": map[string]any{"name": "a"}}, passed: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			r, err := Parse(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.passed, r(tt.expected, tt.found))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, spec := range []string{"nope", "approx", "approx:x", "approx:-1", "key", "key:", "equal:x"} {
		t.Run(spec, func(t *testing.T) {
			_, err := Parse(spec)
			assert.Error(t, err)
		})
	}
}

func TestParse_UnknownListsNames(t *testing.T) {
	_, err := Parse("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "approx:<arg>")
	assert.Contains(t, err.Error(), "equal")
}

func TestNames(t *testing.T) {
	names := Names()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "key:<arg>")
	assert.Contains(t, names, "lte")
}

func TestRelations_WithMatcher(t *testing.T) {
	lte, err := Parse("lte")
	require.NoError(t, err)

	expected := []any{10.0, 20.0}
	assert.NoError(t, asserts.ContainsExactFunc(expected, []any{10.0, 20.0}, lte))
	assert.Error(t, asserts.ContainsExactFunc(expected, []any{20.0, 10.0}, lte))
	assert.NoError(t, asserts.ContainsExactFunc(expected, []any{20.0, 10.0}, lte, asserts.WithMaximumMatching()))
}
