package asserts

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "cause", Format("", "cause"))
	assert.Equal(t, "message cause", Format("message", "cause"))
}

func TestComparisonFailure_Error(t *testing.T) {
	f := &ComparisonFailure{Message: "sizes differ", Expected: "1", Actual: "2"}
	assert.Equal(t, "sizes differ\nexpected: 1\nactual  : 2", f.Error())

	f.Diff = "--- Expected\n+++ Actual\n"
	assert.Contains(t, f.Error(), "\n\nDiff:\n--- Expected")
}

func TestIsFailure(t *testing.T) {
	assert.True(t, IsFailure(&ComparisonFailure{}))
	assert.True(t, IsFailure(&AssertionFailure{}))
	assert.True(t, IsFailure(fmt.Errorf("check users: %w", &AssertionFailure{Message: "x"})))
	assert.False(t, IsFailure(errors.New("boom")))
	assert.False(t, IsFailure(nil))
	assert.False(t, IsFailure(invalidArgument("found")))
}

func TestDiff(t *testing.T) {
	assert.Empty(t, diff(1, 2))
	assert.Empty(t, diff("a", "b"))
	assert.Empty(t, diff([]int{1}, []string{"a"}))
	assert.Empty(t, diff(nil, []int{1}))
	assert.NotEmpty(t, diff("a\nb", "a\nc"))

	d := diff(map[string]int{"a": 1}, map[string]int{"a": 2})
	assert.Contains(t, d, "-")
	assert.Contains(t, d, "+")
}
