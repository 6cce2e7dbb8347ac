package allocator

import "fmt"

// CheckInvariants walks the physical block list and the free-block tree
// and reports the first violation found. It is debug-only tooling,
// exercised by tests, never by Allocate or Free.
func (h *Heap) CheckInvariants() error {
	if h.size < headerPad() {
		return nil // degenerate: nothing to check
	}

	if err := h.checkPhysicalList(); err != nil {
		return err
	}
	return h.checkTree()
}

// checkPhysicalList walks every block from offset 0 to the sentinel,
// verifying alignment, containment, boundary-tag consistency, and the
// no-two-adjacent-free-blocks invariant.
func (h *Heap) checkPhysicalList() error {
	buf := h.buf
	off := 0
	prevFree := false
	for {
		if off%Alignment != 0 {
			return fmt.Errorf("block at %d is not %d-byte aligned", off, Alignment)
		}
		size := blockSize(buf, off)
		if off+headerPad() > h.size {
			return fmt.Errorf("block at %d: header extends past buffer end", off)
		}

		isSentinel := size == sentinelSize
		if !isSentinel {
			if size < minBlockSize() {
				return fmt.Errorf("block at %d: size %d below minimum %d", off, size, minBlockSize())
			}
			if size%Alignment != 0 {
				return fmt.Errorf("block at %d: size %d not %d-aligned", off, size, Alignment)
			}
		}
		if off+size > h.size {
			return fmt.Errorf("block at %d: extends past buffer end (size=%d, buffer=%d)", off, size, h.size)
		}

		if off > 0 {
			back := prevBlockOffset(buf, off)
			if back == nilOffset {
				return fmt.Errorf("block at %d: prevSize field is zero but not the first block", off)
			}
			if blockSize(buf, back) != off-back {
				return fmt.Errorf("block at %d: predecessor at %d has blockSize %d, expected %d", off, back, blockSize(buf, back), off-back)
			}
		}

		free := !isAllocated(buf, off)
		if free && prevFree {
			return fmt.Errorf("block at %d: adjacent to a free predecessor, should have been coalesced", off)
		}
		prevFree = free && !isSentinel

		if isSentinel {
			if !isAllocated(buf, off) {
				return fmt.Errorf("sentinel at %d must be marked allocated", off)
			}
			if off != h.size-headerPad() {
				return fmt.Errorf("sentinel at %d, expected at %d", off, h.size-headerPad())
			}
			return nil
		}

		off += size
	}
}

// checkTree verifies standard red-black invariants over the free-block
// index (root black, no red-red, equal black-height on every path, BST
// ordering by usable size) plus the duplicate-chain encoding: every chain
// member shares its head's key and is correctly self-tagged.
func (h *Heap) checkTree() error {
	if h.root == nilOffset {
		return nil
	}
	buf := h.buf
	if isRed(buf, h.root) {
		return fmt.Errorf("tree root at %d is red", h.root)
	}
	_, err := h.checkNode(h.root, -1, int(^uint(0)>>1))
	return err
}

// checkNode recursively validates the subtree rooted at n, returning its
// black-height. min/max bound the usable-size range this subtree may hold.
func (h *Heap) checkNode(n, min, max int) (int, error) {
	if n == nilOffset {
		return 1, nil
	}
	buf := h.buf

	if isAllocated(buf, n) {
		return 0, fmt.Errorf("tree node at %d is marked allocated", n)
	}
	if isChainMember(buf, n) {
		return 0, fmt.Errorf("tree node at %d is tagged as a chain member", n)
	}

	key := usableSize(buf, n)
	if key <= min || key >= max {
		return 0, fmt.Errorf("tree node at %d: key %d out of bounds (%d,%d)", n, key, min, max)
	}

	if err := h.checkChain(n, key); err != nil {
		return 0, err
	}

	left := getLeft(buf, n)
	right := getRight(buf, n)

	if isRed(buf, n) {
		if left != nilOffset && isRed(buf, left) {
			return 0, fmt.Errorf("red node at %d has red left child %d", n, left)
		}
		if right != nilOffset && isRed(buf, right) {
			return 0, fmt.Errorf("red node at %d has red right child %d", n, right)
		}
	}

	if left != nilOffset && getParent(buf, left) != n {
		return 0, fmt.Errorf("left child %d of %d has wrong parent pointer", left, n)
	}
	if right != nilOffset && getParent(buf, right) != n {
		return 0, fmt.Errorf("right child %d of %d has wrong parent pointer", right, n)
	}

	lh, err := h.checkNode(left, min, key)
	if err != nil {
		return 0, err
	}
	rh, err := h.checkNode(right, key, max)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("node at %d: unequal black-heights (%d vs %d)", n, lh, rh)
	}

	bh := lh
	if !isRed(buf, n) {
		bh++
	}
	return bh, nil
}

// checkChain walks the duplicate chain hanging off a tree node, verifying
// every member is correctly self-tagged and shares the tree node's key.
func (h *Heap) checkChain(treeNode, key int) error {
	buf := h.buf
	prev := treeNode
	cur := getDuplist(buf, treeNode)
	for cur != nilOffset {
		if !isChainMember(buf, cur) {
			return fmt.Errorf("chain member at %d (off tree node %d) is not self-tagged", cur, treeNode)
		}
		if isAllocated(buf, cur) {
			return fmt.Errorf("chain member at %d is marked allocated", cur)
		}
		if usableSize(buf, cur) != key {
			return fmt.Errorf("chain member at %d has key %d, expected %d", cur, usableSize(buf, cur), key)
		}
		if getLeft(buf, cur) != prev {
			return fmt.Errorf("chain member at %d: prev link does not point back to %d", cur, prev)
		}
		prev = cur
		cur = getRight(buf, cur)
	}
	return nil
}
