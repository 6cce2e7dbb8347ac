// Package bufalloc provides four allocation strategies — bump, stack,
// pool, and best-fit heap — each operating entirely within a caller-owned
// []byte. None of them ever allocate from or return memory to the host
// operating system; the caller supplies the buffer up front and owns its
// lifetime.
package bufalloc

import (
	"github.com/clockworklabs/bufalloc/internal/allocator"
)

// Address is a byte offset of an allocation's payload, measured from the
// start of the buffer passed to the Init call that produced the Handle.
// It is not a process virtual address.
type Address uintptr

// NullAddress is returned by nothing and accepted by Handle.Free as a
// guaranteed no-op; it never collides with a real Address since every
// real offset is far smaller than the full uintptr range.
const NullAddress Address = ^Address(0)

// Handle is the uniform entry point over any of the four strategies. The
// zero Handle is not usable; obtain one from InitBump, InitStack, InitPool,
// or InitHeap.
type Handle struct {
	allocate func(size int) (int, bool)
	free     func(addr int)
}

// Allocate reserves size bytes and returns their offset within the buffer
// the Handle was constructed over. ok is false when the request cannot be
// satisfied; no partial state is left behind.
func (h *Handle) Allocate(size int) (Address, bool) {
	off, ok := h.allocate(size)
	if !ok {
		return 0, false
	}
	return Address(off), true
}

// Free releases the allocation at addr. Freeing NullAddress is a no-op.
// Freeing any other address not actually outstanding, or out of the order
// a strategy requires (Stack is strictly LIFO), is undefined behavior —
// the strategies do not validate it.
func (h *Handle) Free(addr Address) {
	if addr == NullAddress {
		return
	}
	h.free(int(addr))
}

// InitBump binds a monotonic bump allocator over buf[:size]. Free is a
// no-op for every address it returns.
func InitBump(buf []byte, size int) (*Handle, error) {
	if size <= 0 {
		return nil, &ConfigError{Type: "bump", Field: "size", Value: size, Message: "must be positive"}
	}
	if size > len(buf) {
		return nil, &ConfigError{Type: "bump", Field: "size", Value: size, Message: "exceeds buffer length"}
	}
	b := allocator.NewBump(size)
	return &Handle{
		allocate: b.Allocate,
		free:     b.Free,
	}, nil
}

// InitStack binds a LIFO bump allocator over buf[:size]. Frees must occur
// in strict last-allocated-first-freed order; this is not validated.
func InitStack(buf []byte, size int) (*Handle, error) {
	if size <= 0 {
		return nil, &ConfigError{Type: "stack", Field: "size", Value: size, Message: "must be positive"}
	}
	if size > len(buf) {
		return nil, &ConfigError{Type: "stack", Field: "size", Value: size, Message: "exceeds buffer length"}
	}
	s := allocator.NewStack(size)
	return &Handle{
		allocate: s.Allocate,
		free:     s.Free,
	}, nil
}

// InitPool binds a fixed-size free-list allocator over buf[:size], with
// cells of chunkSize bytes each. Allocate only ever succeeds for requests
// of exactly chunkSize.
func InitPool(buf []byte, size, chunkSize int) (*Handle, error) {
	if size <= 0 {
		return nil, &ConfigError{Type: "pool", Field: "size", Value: size, Message: "must be positive"}
	}
	if chunkSize <= 0 {
		return nil, &ConfigError{Type: "pool", Field: "chunkSize", Value: chunkSize, Message: "must be positive"}
	}
	if size > len(buf) {
		return nil, &ConfigError{Type: "pool", Field: "size", Value: size, Message: "exceeds buffer length"}
	}
	p := allocator.NewPool(buf, size, chunkSize)
	return &Handle{
		allocate: func(n int) (int, bool) { return p.Allocate(buf, n) },
		free:     func(addr int) { p.Free(buf, addr) },
	}, nil
}

// InitHeap binds a best-fit heap allocator over buf[:size]. A buffer too
// small to hold even one usable free block still returns a valid Handle;
// every Allocate against it fails forever, mirroring a degenerate but
// legal configuration rather than an error.
func InitHeap(buf []byte, size int) (*Handle, error) {
	if size <= 0 {
		return nil, &ConfigError{Type: "heap", Field: "size", Value: size, Message: "must be positive"}
	}
	if size > len(buf) {
		return nil, &ConfigError{Type: "heap", Field: "size", Value: size, Message: "exceeds buffer length"}
	}
	h := allocator.NewHeap(buf, size)
	return &Handle{
		allocate: h.Allocate,
		free:     h.Free,
	}, nil
}
