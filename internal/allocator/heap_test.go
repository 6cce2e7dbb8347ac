package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeap_AllocateRejectsNonPositiveSize(t *testing.T) {
	h := NewHeap(make([]byte, 256), 256)
	_, ok := h.Allocate(0)
	assert.False(t, ok)
	_, ok = h.Allocate(-1)
	assert.False(t, ok)
}

func TestHeap_AllocateFailsWhenOversized(t *testing.T) {
	h := NewHeap(make([]byte, 256), 256)
	_, ok := h.Allocate(10000)
	assert.False(t, ok)
	require.NoError(t, h.CheckInvariants())
}

func TestHeap_DegenerateTooSmallForOneFreeBlock(t *testing.T) {
	// headerPad (16) + minBlockSize (48) - 1: room for the sentinel but not
	// for a single tree-capable free block.
	size := headerPad() + minBlockSize() - 1
	buf := make([]byte, size)
	h := NewHeap(buf, size)

	assert.Equal(t, nilOffset, h.root)
	_, ok := h.Allocate(1)
	assert.False(t, ok, "a degenerate heap must fail every allocation forever")
	_, ok = h.Allocate(1)
	assert.False(t, ok)
}

func TestHeap_TooSmallEvenForSentinel(t *testing.T) {
	buf := make([]byte, 4)
	h := NewHeap(buf, 4)
	_, ok := h.Allocate(1)
	assert.False(t, ok)
}

func TestHeap_AllocateFreeRoundTrip(t *testing.T) {
	buf := make([]byte, 4096)
	h := NewHeap(buf, 4096)

	var addrs []int
	for i := 0; i < 20; i++ {
		addr, ok := h.Allocate(32 + i*8)
		require.True(t, ok)
		addrs = append(addrs, addr)
		require.NoError(t, h.CheckInvariants())
	}

	for _, a := range addrs {
		h.Free(a)
		require.NoError(t, h.CheckInvariants())
	}

	assert.Equal(t, 4096-2*headerPad(), usableSize(h.buf, h.root), "every allocation returned, exactly one free block should remain")
	assert.Equal(t, nilOffset, getLeft(h.buf, h.root))
	assert.Equal(t, nilOffset, getRight(h.buf, h.root))
}

func TestHeap_InterleavedAllocateFreeStressInvariants(t *testing.T) {
	buf := make([]byte, 16384)
	h := NewHeap(buf, 16384)

	live := map[int]bool{}
	sizes := []int{16, 17, 31, 32, 33, 48, 63, 64, 96, 100, 128, 200, 255}

	step := 0
	for round := 0; round < 200; round++ {
		sz := sizes[step%len(sizes)]
		step++
		if round%3 != 2 {
			addr, ok := h.Allocate(sz)
			if ok {
				live[addr] = true
			}
		} else {
			for addr := range live {
				h.Free(addr)
				delete(live, addr)
				break
			}
		}
		require.NoError(t, h.CheckInvariants(), "round %d", round)
	}

	for addr := range live {
		h.Free(addr)
	}
	require.NoError(t, h.CheckInvariants())
}

func TestHeap_AllocatedMemoryIsReadWritable(t *testing.T) {
	buf := make([]byte, 1024)
	h := NewHeap(buf, 1024)

	a1, ok := h.Allocate(64)
	require.True(t, ok)
	a2, ok := h.Allocate(64)
	require.True(t, ok)

	for i := 0; i < 64; i++ {
		buf[a1+i] = 0xAA
		buf[a2+i] = 0xBB
	}
	for i := 0; i < 64; i++ {
		assert.Equal(t, byte(0xAA), buf[a1+i])
		assert.Equal(t, byte(0xBB), buf[a2+i])
	}
}
