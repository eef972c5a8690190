package asserts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	assert.NoError(t, IsEmpty([]int{}))
	assert.ErrorIs(t, IsEmpty[int](nil), ErrInvalidArgument)

	err := IsEmpty([]int{1, 2})
	var cf *ComparisonFailure
	require.ErrorAs(t, err, &cf)
	assert.Equal(t, "0", cf.Expected)
	assert.Equal(t, "2", cf.Actual)
}

func TestIsEmptyOrNil(t *testing.T) {
	assert.NoError(t, IsEmptyOrNil[int](nil))
	assert.NoError(t, IsEmptyOrNil([]int{}))
	assert.Error(t, IsEmptyOrNil([]int{1}))
}

func TestHasSize(t *testing.T) {
	assert.NoError(t, HasSize(3, []string{"a", "b", "c"}))
	assert.ErrorIs(t, HasSize[int](0, nil), ErrInvalidArgument)

	err := HasSize(2, []string{"a", "b", "c"}, WithMessage("names"))
	var cf *ComparisonFailure
	require.ErrorAs(t, err, &cf)
	assert.Equal(t, "names collection has wrong size", cf.Message)
	assert.Equal(t, "2", cf.Expected)
	assert.Equal(t, "3", cf.Actual)
}

func TestHasMapSize(t *testing.T) {
	m := map[int]int{1: 1, 2: 2, 3: 3}
	assert.NoError(t, HasMapSize(3, m))

	err := HasMapSize(1, m)
	var cf *ComparisonFailure
	require.ErrorAs(t, err, &cf)
	assert.Equal(t, "map has wrong size", cf.Message)
	assert.Equal(t, "1", cf.Expected)
	assert.Equal(t, "3", cf.Actual)

	assert.ErrorIs(t, HasMapSize[string, int](0, nil), ErrInvalidArgument)
}

func TestSameSize(t *testing.T) {
	assert.NoError(t, SameSize([]int{1, 2}, []string{"a", "b"}))
	assert.ErrorIs(t, SameSize[int, int](nil, []int{}), ErrInvalidArgument)
	assert.ErrorIs(t, SameSize[int, int]([]int{}, nil), ErrInvalidArgument)

	err := SameSize([]int{1, 2}, []string{"a"})
	var cf *ComparisonFailure
	require.ErrorAs(t, err, &cf)
	assert.Contains(t, cf.Message, "expected collection=[1 2] found collection=[a]")
}
