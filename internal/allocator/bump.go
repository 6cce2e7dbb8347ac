package allocator

// Bump is a monotonic bump-pointer allocator. It never reclaims individual
// allocations; Free is a no-op.
type Bump struct {
	start int // offset of the managed region within the caller's buffer (always 0)
	size  int // length of the managed region
	head  int // next free byte, relative to start; start <= head <= start+size
}

// NewBump binds a bump allocator over a region of size bytes; it keeps no
// reference to the buffer and returns offsets from the region's start.
func NewBump(size int) *Bump {
	return &Bump{start: 0, size: size, head: 0}
}

// Allocate reserves roundUp(size, Alignment) bytes and returns their offset.
func (b *Bump) Allocate(size int) (int, bool) {
	need := roundUp(size, Alignment)
	if b.head+need > b.start+b.size {
		return 0, false
	}
	addr := b.head
	b.head += need
	return addr, true
}

// Free is a no-op: bump allocators do not support individual reclamation.
func (b *Bump) Free(addr int) {}
