//go:build windows

package bufalloc

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// NewSystemBuffer provisions a size-byte, page-backed buffer via
// VirtualAlloc, suitable for handing to InitBump/InitStack/InitPool/
// InitHeap. See buffer_unix.go for why this lives outside the allocator
// core.
func NewSystemBuffer(size int) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

// ReleaseSystemBuffer releases a buffer obtained from NewSystemBuffer.
func ReleaseSystemBuffer(buf []byte) error {
	addr := uintptr(unsafe.Pointer(&buf[0]))
	return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
}
