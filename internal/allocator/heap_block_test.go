package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderFields_RoundTrip(t *testing.T) {
	buf := make([]byte, 256)

	setPrevSize(buf, 64, 32)
	setAllocated(buf, 64, true)
	assert.Equal(t, 32, prevSize(buf, 64))
	assert.True(t, isAllocated(buf, 64))

	setAllocated(buf, 64, false)
	assert.Equal(t, 32, prevSize(buf, 64), "clearing the allocated bit must not disturb prevSize")
	assert.False(t, isAllocated(buf, 64))

	setBlockSize(buf, 64, 48)
	setRed(buf, 64, true)
	assert.Equal(t, 48, blockSize(buf, 64))
	assert.True(t, isRed(buf, 64))

	setRed(buf, 64, false)
	assert.Equal(t, 48, blockSize(buf, 64), "clearing the color bit must not disturb blockSize")
	assert.False(t, isRed(buf, 64))
}

func TestBlockNavigation(t *testing.T) {
	buf := make([]byte, 256)

	setPrevSize(buf, 0, 0)
	setBlockSize(buf, 0, 64)
	setPrevSize(buf, 64, 64)
	setBlockSize(buf, 64, 32)

	assert.Equal(t, 64, nextBlockOffset(buf, 0))
	assert.Equal(t, nilOffset, prevBlockOffset(buf, 0))
	assert.Equal(t, 0, prevBlockOffset(buf, 64))
}

func TestUsableSize(t *testing.T) {
	buf := make([]byte, 256)
	setBlockSize(buf, 0, 64)
	assert.Equal(t, 64-headerPad(), usableSize(buf, 0))
}

func TestChainMemberTag(t *testing.T) {
	buf := make([]byte, 256)
	setDuplist(buf, 64, 64)
	assert.True(t, isChainMember(buf, 64))

	setDuplist(buf, 64, nilOffset)
	assert.False(t, isChainMember(buf, 64))

	setDuplist(buf, 64, 128)
	assert.False(t, isChainMember(buf, 64), "a tree node's duplist points elsewhere, never to itself")
}
