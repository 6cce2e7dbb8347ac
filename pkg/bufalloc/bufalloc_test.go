package bufalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitBump_RejectsBadConfig(t *testing.T) {
	buf := make([]byte, 64)

	_, err := InitBump(buf, 0)
	assert.Error(t, err)

	_, err = InitBump(buf, 1000)
	assert.Error(t, err)

	_, err = InitBump(buf, 64)
	assert.NoError(t, err)
}

func TestHandle_BumpAllocateFree(t *testing.T) {
	buf := make([]byte, 64)
	h, err := InitBump(buf, 64)
	require.NoError(t, err)

	a1, ok := h.Allocate(10)
	require.True(t, ok)
	assert.Equal(t, Address(0), a1)

	h.Free(a1) // no-op for bump
	a2, ok := h.Allocate(10)
	require.True(t, ok)
	assert.NotEqual(t, a1, a2)
}

func TestHandle_StackLIFO(t *testing.T) {
	buf := make([]byte, 64)
	h, err := InitStack(buf, 64)
	require.NoError(t, err)

	a1, ok := h.Allocate(16)
	require.True(t, ok)
	a2, ok := h.Allocate(16)
	require.True(t, ok)

	h.Free(a2)
	a3, ok := h.Allocate(16)
	require.True(t, ok)
	assert.Equal(t, a2, a3)
	_ = a1
}

func TestHandle_PoolChunkMismatchFails(t *testing.T) {
	buf := make([]byte, 128)
	h, err := InitPool(buf, 128, 32)
	require.NoError(t, err)

	_, ok := h.Allocate(16)
	assert.False(t, ok)

	_, ok = h.Allocate(32)
	assert.True(t, ok)
}

func TestInitPool_RejectsZeroChunkSize(t *testing.T) {
	buf := make([]byte, 128)
	_, err := InitPool(buf, 128, 0)
	assert.Error(t, err)
}

func TestHandle_HeapAllocateFree(t *testing.T) {
	buf := make([]byte, 4096)
	h, err := InitHeap(buf, 4096)
	require.NoError(t, err)

	a1, ok := h.Allocate(100)
	require.True(t, ok)
	a2, ok := h.Allocate(200)
	require.True(t, ok)
	assert.NotEqual(t, a1, a2)

	h.Free(a1)
	h.Free(a2)
}

func TestHandle_FreeNullAddressIsNoop(t *testing.T) {
	buf := make([]byte, 4096)
	h, err := InitHeap(buf, 4096)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		h.Free(NullAddress)
	})

	a, ok := h.Allocate(64)
	require.True(t, ok)
	h.Free(a)
}

func TestInitHeap_DegenerateBufferStillUsable(t *testing.T) {
	buf := make([]byte, 8)
	h, err := InitHeap(buf, 8)
	require.NoError(t, err, "a too-small buffer is a valid, if useless, heap")

	_, ok := h.Allocate(1)
	assert.False(t, ok)
}
