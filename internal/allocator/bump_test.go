package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBump_Allocate(t *testing.T) {
	b := NewBump(64)

	a1, ok := b.Allocate(10)
	require.True(t, ok)
	assert.Equal(t, 0, a1)

	a2, ok := b.Allocate(10)
	require.True(t, ok)
	assert.Equal(t, Alignment, a2, "second allocation should start after the first's rounded-up size")

	a3, ok := b.Allocate(100)
	assert.False(t, ok)
	assert.Zero(t, a3)
}

func TestBump_ExactFit(t *testing.T) {
	b := NewBump(32)
	_, ok := b.Allocate(32)
	require.True(t, ok)

	_, ok = b.Allocate(1)
	assert.False(t, ok, "buffer is exhausted after an exact-fit allocation")
}

func TestBump_FreeIsNoop(t *testing.T) {
	b := NewBump(32)
	a1, ok := b.Allocate(16)
	require.True(t, ok)

	b.Free(a1)

	a2, ok := b.Allocate(16)
	require.True(t, ok)
	assert.NotEqual(t, a1, a2, "Free must not reclaim space for a bump allocator")
}
