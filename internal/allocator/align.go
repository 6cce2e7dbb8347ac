// Package allocator implements the four buffer-backed allocation
// strategies (bump, stack, pool, heap) that back github.com/clockworklabs/bufalloc.
//
// Every strategy operates on a caller-owned, contiguous []byte and never
// touches the host allocator or the operating system. None of the types in
// this package are safe for concurrent use.
package allocator

import "unsafe"

// Alignment is the fixed alignment unit. Every returned offset and every
// block boundary tracked by the heap allocator is a multiple of Alignment.
const Alignment = 16

// wordSize is the platform's natural machine word width, computed rather
// than hardcoded so the header layout tracks the build target.
var wordSize = int(unsafe.Sizeof(uintptr(0)))

// WordSize reports the machine word width in bytes used for pool
// next-pointer placement and heap header fields.
func WordSize() int { return wordSize }

// roundUp rounds n up to the nearest multiple of m. m must be a power of two.
func roundUp(n, m int) int {
	return (n + m - 1) &^ (m - 1)
}

// roundDown rounds n down to the nearest multiple of m. m must be a power of two.
func roundDown(n, m int) int {
	return n &^ (m - 1)
}
