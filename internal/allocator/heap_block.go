package allocator

import "encoding/binary"

// A heap block occupies a contiguous sub-range of the buffer, identified by
// the absolute offset of its header (the "block offset"). The header is two
// machine words:
//
//	word 0 ("prevSizeField"): prev_size in all bits but the LSB; the LSB is
//	  this block's own allocated flag (the bit is associated with *this*
//	  header, not the predecessor, despite the field name — see spec §3.5).
//	word 1 ("nextSizeField"): next_size (= this block's total size,
//	  including header) in all bits but the LSB; the LSB is this block's
//	  color (red=1/black=0), meaningful only while the block is free.
//
// A free block's payload begins with four more words: left child, right
// child, parent, and duplist — the red-black tree node fields (or, when the
// block is a duplicate-chain member rather than a tree node, the chain's
// prev/next links reusing the left/right slots).
const (
	fieldsPerHeader = 2
	fieldsPerNode   = 4 // left, right, parent, duplist
)

// nilOffset marks the absence of a block reference in a header or tree
// field. It can never collide with a real block offset.
const nilOffset = -1

func headerBytes() int { return fieldsPerHeader * wordSize }
func nodeBytes() int    { return fieldsPerNode * wordSize }

// headerPad is the header size rounded up to Alignment; a free block's
// payload (and hence its tree-node fields) begins this many bytes past the
// block's header offset.
func headerPad() int { return roundUp(headerBytes(), Alignment) }

// nodePad is the tree-node-fields size rounded up to Alignment.
func nodePad() int { return roundUp(nodeBytes(), Alignment) }

// minBlockSize is the smallest total block size that can hold both a header
// and the tree-node fields a free block needs to be reinserted into the
// index later.
func minBlockSize() int { return headerPad() + nodePad() }

func readWord(buf []byte, off int) int64 {
	if wordSize == 4 {
		return int64(int32(binary.LittleEndian.Uint32(buf[off : off+4])))
	}
	return int64(binary.LittleEndian.Uint64(buf[off : off+8]))
}

func writeWord(buf []byte, off int, v int64) {
	if wordSize == 4 {
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(int32(v)))
		return
	}
	binary.LittleEndian.PutUint64(buf[off:off+8], uint64(v))
}

// --- header field access -----------------------------------------------

func prevSizeField(buf []byte, h int) int64 { return readWord(buf, h) }
func setPrevSizeField(buf []byte, h int, v int64) { writeWord(buf, h, v) }

func nextSizeField(buf []byte, h int) int64 { return readWord(buf, h+wordSize) }
func setNextSizeField(buf []byte, h int, v int64) { writeWord(buf, h+wordSize, v) }

// prevSize is the byte distance from h back to the previous block's
// header; 0 for the first block in the buffer.
func prevSize(buf []byte, h int) int { return int(prevSizeField(buf, h) &^ 1) }

func setPrevSize(buf []byte, h, v int) {
	setPrevSizeField(buf, h, int64(v)&^1|(prevSizeField(buf, h)&1))
}

// isAllocated reports this block's own allocation state.
func isAllocated(buf []byte, h int) bool { return prevSizeField(buf, h)&1 != 0 }

func setAllocated(buf []byte, h int, allocated bool) {
	v := prevSizeField(buf, h) &^ 1
	if allocated {
		v |= 1
	}
	setPrevSizeField(buf, h, v)
}

// blockSize is this block's total size, header included — the byte
// distance from h to the next block's header.
func blockSize(buf []byte, h int) int { return int(nextSizeField(buf, h) &^ 1) }

func setBlockSize(buf []byte, h, v int) {
	setNextSizeField(buf, h, int64(v)&^1|(nextSizeField(buf, h)&1))
}

// isRed reports this free block's color; meaningless for allocated blocks.
func isRed(buf []byte, h int) bool { return nextSizeField(buf, h)&1 != 0 }

func setRed(buf []byte, h int, red bool) {
	v := nextSizeField(buf, h) &^ 1
	if red {
		v |= 1
	}
	setNextSizeField(buf, h, v)
}

// usableSize is the key a free block is indexed under: its total size minus
// header overhead.
func usableSize(buf []byte, h int) int { return blockSize(buf, h) - headerPad() }

// nextBlockOffset returns the header offset of the block physically
// following h.
func nextBlockOffset(buf []byte, h int) int { return h + blockSize(buf, h) }

// prevBlockOffset returns the header offset of the block physically
// preceding h, or nilOffset if h is the first block.
func prevBlockOffset(buf []byte, h int) int {
	ps := prevSize(buf, h)
	if ps == 0 {
		return nilOffset
	}
	return h - ps
}

// --- tree / chain node field access (only valid on free blocks) --------

func nodeField(h, idx int) int { return h + headerPad() + idx*wordSize }

func getLeft(buf []byte, h int) int    { return int(readWord(buf, nodeField(h, 0))) }
func setLeft(buf []byte, h, v int)     { writeWord(buf, nodeField(h, 0), int64(v)) }
func getRight(buf []byte, h int) int   { return int(readWord(buf, nodeField(h, 1))) }
func setRight(buf []byte, h, v int)    { writeWord(buf, nodeField(h, 1), int64(v)) }
func getParent(buf []byte, h int) int  { return int(readWord(buf, nodeField(h, 2))) }
func setParent(buf []byte, h, v int)   { writeWord(buf, nodeField(h, 2), int64(v)) }
func getDuplist(buf []byte, h int) int { return int(readWord(buf, nodeField(h, 3))) }
func setDuplist(buf []byte, h, v int)  { writeWord(buf, nodeField(h, 3), int64(v)) }

// isChainMember reports whether h is a duplicate-chain element (as opposed
// to a tree node), per the duplist-self-tag encoding in spec §3.6.
func isChainMember(buf []byte, h int) bool { return getDuplist(buf, h) == h }

// sentinelSize is the size written into the terminal zero-size allocated
// header that stops forward coalescing.
const sentinelSize = 0
