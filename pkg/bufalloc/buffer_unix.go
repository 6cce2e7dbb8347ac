//go:build linux || darwin || freebsd

package bufalloc

import "golang.org/x/sys/unix"

// NewSystemBuffer provisions a size-byte, page-backed buffer suitable for
// handing to InitBump/InitStack/InitPool/InitHeap. It is one way to obtain
// a buffer; the allocators themselves never call into the operating
// system, matching spec §1's host-integration restriction on the
// allocator core rather than on buffer provisioning.
func NewSystemBuffer(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

// ReleaseSystemBuffer unmaps a buffer obtained from NewSystemBuffer.
func ReleaseSystemBuffer(buf []byte) error {
	return unix.Munmap(buf)
}
