package allocator

// heap_tree.go implements the red-black tree of free blocks: nodes are
// addressed by block offset (see heap_block.go), keyed on usableSize, with
// same-size blocks beyond the first forming a duplicate chain off the tree
// node rather than their own tree entries (spec §3.6).
//
// phOffset is a transient placeholder used only during rebalancing after a
// black leaf is removed from the tree proper (never a chain operation); it
// never corresponds to a real block and its own fields live outside buf,
// though a real parent's child field holds phOffset until removeFromTree
// unlinks it.
const phOffset = -2

// placeholder carries the in-memory state of the transient double-black
// node used while rebalancing a deletion. It substitutes for a nil child
// that is "doubly black" and is unlinked before removeFromTree returns.
type placeholder struct {
	left, right, parent int
	red                 bool
}

// treeOps binds a buffer and a placeholder-aware view of the node fields
// together, so the rebalancing code can treat phOffset exactly like a real
// node without special-casing every call site.
type treeOps struct {
	h  *Heap
	ph *placeholder
}

func (t treeOps) left(n int) int {
	if n == phOffset {
		return t.ph.left
	}
	return getLeft(t.h.buf, n)
}

func (t treeOps) setLeft(n, v int) {
	if n == phOffset {
		t.ph.left = v
		return
	}
	setLeft(t.h.buf, n, v)
}

func (t treeOps) right(n int) int {
	if n == phOffset {
		return t.ph.right
	}
	return getRight(t.h.buf, n)
}

func (t treeOps) setRight(n, v int) {
	if n == phOffset {
		t.ph.right = v
		return
	}
	setRight(t.h.buf, n, v)
}

func (t treeOps) parent(n int) int {
	if n == phOffset {
		return t.ph.parent
	}
	return getParent(t.h.buf, n)
}

func (t treeOps) setParent(n, v int) {
	if n == phOffset {
		t.ph.parent = v
		return
	}
	setParent(t.h.buf, n, v)
}

func (t treeOps) red(n int) bool {
	if n == phOffset {
		return t.ph.red
	}
	return isRed(t.h.buf, n)
}

func (t treeOps) setRed(n int, r bool) {
	if n == phOffset {
		t.ph.red = r
		return
	}
	setRed(t.h.buf, n, r)
}

// setChild rewires parent's pointer to oldChild so it points at newChild
// instead, or updates the tree root when parent is nilOffset.
func (t treeOps) setChild(parent, oldChild, newChild int) {
	if parent == nilOffset {
		t.h.root = newChild
		return
	}
	if t.left(parent) == oldChild {
		t.setLeft(parent, newChild)
	} else {
		t.setRight(parent, newChild)
	}
}

func (t treeOps) rotateLeft(x int) {
	y := t.right(x)
	yleft := t.left(y)
	t.setRight(x, yleft)
	if yleft != nilOffset {
		t.setParent(yleft, x)
	}
	xp := t.parent(x)
	t.setParent(y, xp)
	t.setChild(xp, x, y)
	t.setLeft(y, x)
	t.setParent(x, y)
}

func (t treeOps) rotateRight(x int) {
	y := t.left(x)
	yright := t.right(y)
	t.setLeft(x, yright)
	if yright != nilOffset {
		t.setParent(yright, x)
	}
	xp := t.parent(x)
	t.setParent(y, xp)
	t.setChild(xp, x, y)
	t.setRight(y, x)
	t.setParent(x, y)
}

// Heap's own rotateLeft/rotateRight (no placeholder involved — used by
// insertRepair, which never touches phOffset).
func (h *Heap) rotateLeft(x int) { treeOps{h: h}.rotateLeft(x) }

func (h *Heap) rotateRight(x int) { treeOps{h: h}.rotateRight(x) }

// insertFree adds a newly freed (or newly split) block into the tree or
// its size's duplicate chain.
func (h *Heap) insertFree(f int) {
	buf := h.buf

	setLeft(buf, f, nilOffset)
	setRight(buf, f, nilOffset)
	setParent(buf, f, nilOffset)
	setDuplist(buf, f, nilOffset)

	if h.root == nilOffset {
		h.root = f
		setRed(buf, f, false)
		return
	}

	space := usableSize(buf, f)
	it := h.root
	for {
		itSpace := usableSize(buf, it)
		switch {
		case space == itSpace:
			h.spliceDuplicate(it, f)
			return
		case space < itSpace:
			if getLeft(buf, it) != nilOffset {
				it = getLeft(buf, it)
				continue
			}
			setLeft(buf, it, f)
			setParent(buf, f, it)
		default:
			if getRight(buf, it) != nilOffset {
				it = getRight(buf, it)
				continue
			}
			setRight(buf, it, f)
			setParent(buf, f, it)
		}
		break
	}

	setRed(buf, f, true)
	h.insertRepair(f)
}

// spliceDuplicate makes newMember the new head of treeNode's duplicate
// chain, demoting the former head (if any) to chain element 1.
func (h *Heap) spliceDuplicate(treeNode, newMember int) {
	buf := h.buf
	oldHead := getDuplist(buf, treeNode)

	setDuplist(buf, newMember, newMember) // self-tag: "I am a chain member"
	setParent(buf, newMember, nilOffset)  // unused while chained
	setLeft(buf, newMember, treeNode)     // chs[0] = prev
	setRight(buf, newMember, oldHead)     // chs[1] = next

	if oldHead != nilOffset {
		setLeft(buf, oldHead, newMember) // oldHead.chs[0] (prev) now points at newMember
	}
	setDuplist(buf, treeNode, newMember)
}

func uncleOf(buf []byte, parent, gp int) int {
	if parent == getLeft(buf, gp) {
		return getRight(buf, gp)
	}
	return getLeft(buf, gp)
}

// insertRepair restores red-black invariants after inserting f as a red
// leaf (standard recolor-and-bubble, then rotate-straighten-rotate).
func (h *Heap) insertRepair(f int) {
	buf := h.buf
	for {
		parent := getParent(buf, f)
		if parent == nilOffset {
			setRed(buf, f, false) // case 1: f is the root
			return
		}
		if !isRed(buf, parent) {
			return // case 2: parent black, nothing to do
		}

		gp := getParent(buf, parent)
		uncle := uncleOf(buf, parent, gp)
		if uncle != nilOffset && isRed(buf, uncle) {
			// case 3: uncle red — recolor and bubble up
			setRed(buf, parent, false)
			setRed(buf, uncle, false)
			setRed(buf, gp, true)
			f = gp
			continue
		}

		// case 4: uncle black (or absent) — straighten then rotate
		p := parent
		if f == getRight(buf, p) && p == getLeft(buf, gp) {
			h.rotateLeft(p)
			f = p
		} else if f == getLeft(buf, p) && p == getRight(buf, gp) {
			h.rotateRight(p)
			f = p
		}

		p = getParent(buf, f)
		gp = getParent(buf, p)
		if f == getLeft(buf, p) {
			h.rotateRight(gp)
		} else {
			h.rotateLeft(gp)
		}
		setRed(buf, p, false)
		setRed(buf, gp, true)
		return
	}
}

// findBestFree descends the tree tracking the smallest node seen whose
// usable size is >= need; an exact match short-circuits.
func (h *Heap) findBestFree(need int) int {
	it := h.root
	best := nilOffset
	buf := h.buf
	for it != nilOffset {
		space := usableSize(buf, it)
		switch {
		case space == need:
			return it
		case space > need:
			best = it
			it = getLeft(buf, it)
		default:
			it = getRight(buf, it)
		}
	}
	return best
}

// removeFreeBlock removes a free block from the index entirely, whichever
// of the three physical roles it plays:
//   - a duplicate-chain member (head or not): O(1) unlink, tree untouched;
//   - a tree node with a duplicate chain: promote the chain head into the
//     tree node's slot, no rebalance needed;
//   - a tree node with no chain: standard red-black deletion.
func (h *Heap) removeFreeBlock(f int) {
	buf := h.buf
	switch {
	case isChainMember(buf, f):
		h.removeChainMember(f)
	case getDuplist(buf, f) != nilOffset:
		h.promoteChainHead(f)
	default:
		h.removeFromTree(f)
	}
}

// removeChainMember unlinks a duplicate-chain element (head or not) from
// its chain without touching the tree.
func (h *Heap) removeChainMember(member int) {
	buf := h.buf
	prev := getLeft(buf, member)  // chs[0]
	next := getRight(buf, member) // chs[1]

	if isChainMember(buf, prev) {
		setRight(buf, prev, next) // prev.chs[1] = next
	} else {
		setDuplist(buf, prev, next) // prev is the tree node: T.duplist = next
	}
	if next != nilOffset {
		setLeft(buf, next, prev) // next.chs[0] = prev
	}
}

// promoteChainHead replaces a tree node that has duplicates with the head
// of its duplicate chain, inheriting color, parent, and children.
func (h *Heap) promoteChainHead(treeNode int) {
	buf := h.buf
	head := getDuplist(buf, treeNode)
	rest := getRight(buf, head) // chs[1]: next chain member after head, if any

	left := getLeft(buf, treeNode)
	right := getRight(buf, treeNode)
	parent := getParent(buf, treeNode)
	red := isRed(buf, treeNode)

	setLeft(buf, head, left)
	setRight(buf, head, right)
	setParent(buf, head, parent)
	setRed(buf, head, red)
	if left != nilOffset {
		setParent(buf, left, head)
	}
	if right != nilOffset {
		setParent(buf, right, head)
	}
	if parent == nilOffset {
		h.root = head
	} else if getLeft(buf, parent) == treeNode {
		setLeft(buf, parent, head)
	} else {
		setRight(buf, parent, head)
	}

	if rest == nilOffset {
		setDuplist(buf, head, nilOffset)
	} else {
		setDuplist(buf, head, rest)
		setLeft(buf, rest, head) // rest.chs[0] now points at the tree node (head)
	}
}

// removeFromTree performs standard red-black deletion of a tree node known
// to have no duplicate chain.
func (h *Heap) removeFromTree(f int) {
	buf := h.buf

	if f == h.root && getLeft(buf, f) == nilOffset && getRight(buf, f) == nilOffset {
		h.root = nilOffset
		return
	}

	var ph placeholder
	ph.left, ph.right, ph.parent = nilOffset, nilOffset, nilOffset
	t := treeOps{h: h, ph: &ph}

	fLeft := getLeft(buf, f)
	fRight := getRight(buf, f)
	childMask := 0
	if fLeft != nilOffset {
		childMask |= 2
	}
	if fRight != nilOffset {
		childMask |= 1
	}

	var db int

	switch childMask {
	case 0: // no children
		if isRed(buf, f) {
			t.setChild(getParent(buf, f), f, nilOffset)
			return
		}
		db = phOffset
		ph.parent = getParent(buf, f)
		t.setChild(ph.parent, f, phOffset)

	case 1: // right child only
		wasRed := isRed(buf, f) || isRed(buf, fRight)
		db = fRight
		setRed(buf, fRight, false)
		setParent(buf, fRight, getParent(buf, f))
		t.setChild(getParent(buf, f), f, fRight)
		if wasRed {
			return
		}

	case 2: // left child only
		wasRed := isRed(buf, f) || isRed(buf, fLeft)
		db = fLeft
		setRed(buf, fLeft, false)
		setParent(buf, fLeft, getParent(buf, f))
		t.setChild(getParent(buf, f), f, fLeft)
		if wasRed {
			return
		}

	case 3: // two children: swap positions with the in-order successor
		it := fRight
		for getLeft(buf, it) != nilOffset {
			it = getLeft(buf, it)
		}
		redSucc := isRed(buf, it)
		succParent := getParent(buf, it)
		succRight := getRight(buf, it)

		setRed(buf, it, isRed(buf, f))
		setParent(buf, it, getParent(buf, f))
		t.setChild(getParent(buf, f), f, it)

		setParent(buf, fLeft, it)
		setLeft(buf, it, fLeft)

		if fRight == it {
			if redSucc {
				return
			}
			if succRight != nilOffset {
				db = succRight
				if isRed(buf, succRight) {
					setRed(buf, succRight, false)
					return
				}
			} else {
				db = phOffset
				ph.parent = it
				setRight(buf, it, phOffset)
			}
		} else {
			setParent(buf, fRight, it)
			setRight(buf, it, fRight)

			if succRight != nilOffset {
				setParent(buf, succRight, succParent)
				setLeft(buf, succParent, succRight)
				if redSucc {
					return
				}
				db = succRight
				if isRed(buf, succRight) {
					setRed(buf, succRight, false)
					return
				}
			} else {
				if redSucc {
					setLeft(buf, succParent, nilOffset)
					return
				}
				db = phOffset
				ph.parent = succParent
				setLeft(buf, succParent, phOffset)
			}
		}
	}

	h.rebalanceDoubleBlack(t, db)

	// Unlink the placeholder, if it was used.
	if ph.parent != nilOffset {
		if t.left(ph.parent) == phOffset {
			t.setLeft(ph.parent, nilOffset)
		} else if t.right(ph.parent) == phOffset {
			t.setRight(ph.parent, nilOffset)
		}
	}
}

// rebalanceDoubleBlack restores black-height after a black node (u, which
// may be phOffset) has effectively absorbed an extra black unit.
func (h *Heap) rebalanceDoubleBlack(t treeOps, u int) {
	for {
		parent := t.parent(u)
		if parent == nilOffset {
			break // reached the root: done
		}

		var s int
		if u == t.right(parent) {
			s = t.left(parent)
		} else {
			s = t.right(parent)
		}

		if t.red(s) {
			// sibling red: rotate to bring a black sibling into place
			t.setRed(parent, true)
			t.setRed(s, false)
			if u == t.left(parent) {
				t.rotateLeft(parent)
				s = t.right(parent)
			} else {
				t.rotateRight(parent)
				s = t.left(parent)
			}
		}

		sLeftRed := t.left(s) != nilOffset && t.red(t.left(s))
		sRightRed := t.right(s) != nilOffset && t.red(t.right(s))

		if !t.red(parent) && !t.red(s) && !sLeftRed && !sRightRed {
			// both sibling's children black, parent black: push blackness up
			t.setRed(s, true)
			u = parent
			continue
		}

		if t.red(parent) && !t.red(s) && !sLeftRed && !sRightRed {
			// parent red, sibling's children black: recolor, done
			t.setRed(s, true)
			t.setRed(parent, false)
			break
		}

		if !t.red(s) {
			if u == t.left(parent) && !sRightRed && sLeftRed {
				t.setRed(s, true)
				t.setRed(t.left(s), false)
				t.rotateRight(s)
				if u == t.left(parent) {
					s = t.right(parent)
				} else {
					s = t.left(parent)
				}
			} else if u == t.right(parent) && !sLeftRed && sRightRed {
				t.setRed(s, true)
				t.setRed(t.right(s), false)
				t.rotateLeft(s)
				if u == t.left(parent) {
					s = t.right(parent)
				} else {
					s = t.left(parent)
				}
			}
		}

		t.setRed(s, t.red(parent))
		t.setRed(parent, false)
		if u == t.left(parent) {
			t.setRed(t.right(s), false)
			t.rotateLeft(parent)
		} else {
			t.setRed(t.left(s), false)
			t.rotateRight(parent)
		}
		break
	}
}
