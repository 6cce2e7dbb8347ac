package main

import (
	"fmt"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/clockworklabs/bufalloc/pkg/bufalloc"
)

func main() {
	p := message.NewPrinter(language.English)

	const bufSize = 1 << 20 // 1 MiB
	buf, err := bufalloc.NewSystemBuffer(bufSize)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to provision buffer: %v\n", err)
		os.Exit(1)
	}

	heap, err := bufalloc.InitHeap(buf, len(buf))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init heap: %v\n", err)
		os.Exit(1)
	}

	var addrs []bufalloc.Address
	sizes := []int{32, 128, 64, 256, 48, 512}
	for _, sz := range sizes {
		addr, ok := heap.Allocate(sz)
		if !ok {
			p.Printf("allocate %d bytes: out of memory\n", sz)
			continue
		}
		p.Printf("allocated %d bytes at offset %d\n", sz, addr)
		addrs = append(addrs, addr)
	}

	for i := 0; i < len(addrs); i += 2 {
		heap.Free(addrs[i])
	}

	p.Printf("freed %d of %d blocks, buffer is %d bytes\n", (len(addrs)+1)/2, len(addrs), bufSize)
}
