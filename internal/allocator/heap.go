package allocator

// Heap is a best-fit allocator over a caller-owned buffer: free blocks are
// indexed by a red-black tree keyed on usable size (see heap_tree.go), and
// adjacent free blocks are coalesced eagerly on every Free.
//
// The managed region is buf[0:size). A zero-payload sentinel header sits at
// size-headerPad(), permanently marked allocated so coalescing never reads
// or writes past the end of the region. Every real block carries boundary
// tags (prevSize/blockSize in its header) so Free can locate both
// neighbors without a separate block index.
type Heap struct {
	buf  []byte
	size int
	root int
}

// NewHeap binds a best-fit heap allocator over the first size bytes of buf.
// A buffer too small to hold even the sentinel header yields a Heap that
// always fails to allocate; one too small for a single usable free block
// still reserves the sentinel but leaves the tree empty.
func NewHeap(buf []byte, size int) *Heap {
	h := &Heap{buf: buf, size: size, root: nilOffset}
	if size < headerPad() {
		return h
	}

	sentinel := size - headerPad()
	setAllocated(buf, sentinel, true)
	setBlockSize(buf, sentinel, sentinelSize)
	setRed(buf, sentinel, false)

	if sentinel < minBlockSize() {
		setPrevSize(buf, sentinel, 0)
		return h
	}

	setAllocated(buf, 0, false)
	setPrevSize(buf, 0, 0)
	setBlockSize(buf, 0, sentinel)
	setPrevSize(buf, sentinel, sentinel)

	h.insertFree(0)
	return h
}

// Allocate finds the smallest free block able to hold size bytes, splits
// off the leftover as a new free block when it strictly exceeds
// minBlockSize() (otherwise the whole block is handed out), and returns the
// offset of the payload (past the block's header).
func (h *Heap) Allocate(size int) (int, bool) {
	if size <= 0 {
		return 0, false
	}
	payload := roundUp(size, Alignment)
	if payload < nodePad() {
		payload = nodePad() // a freed block must have room for its tree-node fields
	}

	node := h.findBestFree(payload)
	if node == nilOffset {
		return 0, false
	}
	h.removeFreeBlock(node)

	buf := h.buf
	blkSize := blockSize(buf, node)
	need := headerPad() + payload
	remaining := blkSize - need

	if remaining > minBlockSize() {
		setBlockSize(buf, node, need)

		split := node + need
		setAllocated(buf, split, false)
		setPrevSize(buf, split, need)
		setBlockSize(buf, split, remaining)

		after := nextBlockOffset(buf, split)
		setPrevSize(buf, after, remaining)

		h.insertFree(split)
	}

	setAllocated(buf, node, true)
	return node + headerPad(), true
}

// Free coalesces the block at addr with either physically adjacent
// neighbor that is itself free, then reinserts the resulting block into
// the index.
func (h *Heap) Free(addr int) {
	buf := h.buf
	node := addr - headerPad()

	if nxt := nextBlockOffset(buf, node); !isAllocated(buf, nxt) {
		h.removeFreeBlock(nxt)
		merged := blockSize(buf, node) + blockSize(buf, nxt)
		setBlockSize(buf, node, merged)
		setPrevSize(buf, nextBlockOffset(buf, node), merged)
	}

	if prv := prevBlockOffset(buf, node); prv != nilOffset && !isAllocated(buf, prv) {
		h.removeFreeBlock(prv)
		merged := blockSize(buf, prv) + blockSize(buf, node)
		setBlockSize(buf, prv, merged)
		setPrevSize(buf, nextBlockOffset(buf, prv), merged)
		node = prv
	}

	setAllocated(buf, node, false)
	h.insertFree(node)
}
