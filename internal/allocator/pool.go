package allocator

// Pool is a fixed-size free-list allocator over equal-width cells threaded
// through a single caller-owned buffer.
type Pool struct {
	start     int
	size      int
	chunkSize int // caller-chosen cell size, compared exactly against every Allocate request
	cellWidth int // effective cell width; see effectiveCellWidth
	free      int // offset of the free-list head, relative to start; noAddress if empty
}

// noAddress is the internal sentinel for "no cell" / "end of free-list".
// It never collides with a real offset because every real offset is
// strictly less than the buffer size passed to NewPool.
const noAddress = -1

// effectiveCellWidth returns the cell width used to advance through the
// pool: chunkSize itself if it already has room for an embedded pointer,
// otherwise chunkSize rounded up to the machine word so every cell can
// hold its free-list link.
func effectiveCellWidth(chunkSize int) int {
	if chunkSize > 2*wordSize {
		return chunkSize
	}
	return roundUp(chunkSize, wordSize)
}

// NewPool binds a pool allocator of chunkSize-byte cells over the first
// size bytes of buf, threading the free-list through buf itself.
//
// The free-list "next" pointer for a cell starting at offset c is stored
// at roundUp(c, wordSize) bytes from the start of the buffer — the first
// word-aligned offset within the cell. This tolerates cells whose start is
// not itself word-aligned (possible when chunkSize is odd), at the cost of
// not being able to store the link at the cell's own base address.
func NewPool(buf []byte, size, chunkSize int) *Pool {
	p := &Pool{start: 0, size: size, chunkSize: chunkSize, cellWidth: effectiveCellWidth(chunkSize)}

	if p.cellWidth > size {
		p.free = noAddress
		return p
	}

	p.free = 0
	// end marks the last offset at which a cell still has room for a
	// successor cell after it; the loop links each such cell to the next
	// one, and whatever offset it stops on is the final cell, which
	// terminates the list.
	end := size - 2*p.cellWidth
	i := 0
	for i <= end {
		p.writeNext(buf, i, i+p.cellWidth)
		i += p.cellWidth
	}
	p.writeNext(buf, i, noAddress)
	return p
}

// nextFieldOffset returns the absolute buffer offset at which the
// free-list link for the cell starting at cellOffset is stored.
func (p *Pool) nextFieldOffset(cellOffset int) int {
	return p.start + roundUp(cellOffset-p.start, wordSize)
}

func (p *Pool) writeNext(buf []byte, cellOffset, next int) {
	writeWord(buf, p.nextFieldOffset(cellOffset), int64(next))
}

func (p *Pool) readNext(buf []byte, cellOffset int) int {
	return int(readWord(buf, p.nextFieldOffset(cellOffset)))
}

// Allocate returns a cell only when size matches the pool's chunk size
// exactly and the free-list is non-empty; any size mismatch fails even if
// cells are free, by design.
func (p *Pool) Allocate(buf []byte, size int) (int, bool) {
	if size != p.chunkSize || p.free == noAddress {
		return 0, false
	}
	addr := p.free
	p.free = p.readNext(buf, addr)
	return addr, true
}

// Free pushes the cell at addr back onto the free-list head.
func (p *Pool) Free(buf []byte, addr int) {
	p.writeNext(buf, addr, p.free)
	p.free = addr
}
