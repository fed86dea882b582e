package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID(t *testing.T) {
	a := UUID()
	b := UUID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)

	assert.Len(t, UUIDWithoutDash(), 32)
	assert.NotContains(t, UUIDWithoutDash(), "-")
}

func TestRandomString(t *testing.T) {
	s, err := RandomString(16)
	require.NoError(t, err)
	assert.Len(t, s, 16)

	s2, err := RandomString(16)
	require.NoError(t, err)
	assert.NotEqual(t, s, s2)
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"a", "b"}, "b"))
	assert.False(t, Contains([]string{"a", "b"}, "c"))
	assert.False(t, Contains(nil, "a"))
}

func TestUnique(t *testing.T) {
	assert.Equal(t, []uint{1, 2, 3}, Unique([]uint{1, 2, 1, 3, 2}))
	assert.Empty(t, Unique([]uint{}))
}

func TestMap(t *testing.T) {
	doubled := Map([]int{1, 2, 3}, func(v int) int { return v * 2 })
	assert.Equal(t, []int{2, 4, 6}, doubled)
}
