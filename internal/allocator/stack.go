package allocator

// Stack is a LIFO bump-pointer allocator: Allocate behaves exactly like
// Bump, but Free resets the bump pointer to a prior bookmark. Correctness
// of interleaved Allocate/Free sequences is the caller's responsibility —
// frees must occur in strict LIFO order.
type Stack struct {
	start int
	size  int
	head  int
}

// NewStack binds a stack allocator over a region of size bytes; it keeps no
// reference to the buffer and returns offsets from the region's start.
func NewStack(size int) *Stack {
	return &Stack{start: 0, size: size, head: 0}
}

// Allocate reserves roundUp(size, Alignment) bytes and returns their offset.
func (s *Stack) Allocate(size int) (int, bool) {
	need := roundUp(size, Alignment)
	if s.head+need > s.start+s.size {
		return 0, false
	}
	addr := s.head
	s.head += need
	return addr, true
}

// Free resets the bump pointer to addr. No validation is performed that
// addr was ever returned by Allocate; out-of-order frees are undefined
// behavior per the strategy's contract.
func (s *Stack) Free(addr int) {
	s.head = s.start + addr
}
