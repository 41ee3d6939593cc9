package rope

import "strings"

// maxLeafBytes bounds leaf payload size. Adjacent leaves are merged back
// together on concat while their combined length stays under this.
const maxLeafBytes = 2048

// node is either a leaf (left == nil, text holds the payload) or an
// internal node with exactly two children. Nodes are never mutated after
// construction; all edits build new nodes.
type node struct {
	left, right *node
	text        string

	bytes    ByteOffset
	newlines uint32
	height   uint8
}

func (n *node) isLeaf() bool {
	return n.left == nil
}

func newLeaf(text string) *node {
	return &node{
		text:     text,
		bytes:    ByteOffset(len(text)),
		newlines: uint32(strings.Count(text, "\n")),
		height:   1,
	}
}

// join builds an internal node over two non-nil children.
func join(l, r *node) *node {
	h := l.height
	if r.height > h {
		h = r.height
	}
	return &node{
		left:     l,
		right:    r,
		bytes:    l.bytes + r.bytes,
		newlines: l.newlines + r.newlines,
		height:   h + 1,
	}
}

// concat joins two subtrees, rebalancing so that sibling heights never
// differ by more than one. Small adjacent leaves are merged.
func concat(a, b *node) *node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.isLeaf() && b.isLeaf() && a.bytes+b.bytes <= maxLeafBytes {
		return newLeaf(a.text + b.text)
	}

	switch delta := int(a.height) - int(b.height); {
	case delta > 1:
		// a is too tall: push b down its right spine.
		if a.left.height >= a.right.height {
			return join(a.left, concat(a.right, b))
		}
		return join(join(a.left, a.right.left), concat(a.right.right, b))
	case delta < -1:
		if b.right.height >= b.left.height {
			return join(concat(a, b.left), b.right)
		}
		return join(concat(a, b.left.left), join(b.left.right, b.right))
	default:
		return join(a, b)
	}
}

// split divides the subtree at offset into [0,offset) and [offset,end).
// Either result may be nil.
func split(n *node, offset ByteOffset) (*node, *node) {
	if n == nil {
		return nil, nil
	}
	if offset <= 0 {
		return nil, n
	}
	if offset >= n.bytes {
		return n, nil
	}
	if n.isLeaf() {
		return newLeaf(n.text[:offset]), newLeaf(n.text[offset:])
	}
	if offset < n.left.bytes {
		l, r := split(n.left, offset)
		return l, concat(r, n.right)
	}
	l, r := split(n.right, offset-n.left.bytes)
	return concat(n.left, l), r
}

// appendRange writes the text in [start, end) to sb.
func (n *node) appendRange(sb *strings.Builder, start, end ByteOffset) {
	if n == nil || start >= end || start >= n.bytes {
		return
	}
	if end > n.bytes {
		end = n.bytes
	}
	if start < 0 {
		start = 0
	}
	if n.isLeaf() {
		sb.WriteString(n.text[start:end])
		return
	}
	if start < n.left.bytes {
		n.left.appendRange(sb, start, end)
	}
	if end > n.left.bytes {
		n.right.appendRange(sb, start-n.left.bytes, end-n.left.bytes)
	}
}

// appendAll writes the full subtree text to sb.
func (n *node) appendAll(sb *strings.Builder) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		sb.WriteString(n.text)
		return
	}
	n.left.appendAll(sb)
	n.right.appendAll(sb)
}

// byteAt returns the byte at offset within the subtree.
// The caller guarantees 0 <= offset < n.bytes.
func (n *node) byteAt(offset ByteOffset) byte {
	for !n.isLeaf() {
		if offset < n.left.bytes {
			n = n.left
		} else {
			offset -= n.left.bytes
			n = n.right
		}
	}
	return n.text[offset]
}

// offsetAfterNewline returns the byte offset immediately following the k-th
// newline in the subtree, 1-based. The caller guarantees k <= n.newlines.
func (n *node) offsetAfterNewline(k uint32) ByteOffset {
	var base ByteOffset
	for !n.isLeaf() {
		if k <= n.left.newlines {
			n = n.left
		} else {
			k -= n.left.newlines
			base += n.left.bytes
			n = n.right
		}
	}
	idx := 0
	for i := uint32(0); i < k; i++ {
		nl := strings.IndexByte(n.text[idx:], '\n')
		idx += nl + 1
	}
	return base + ByteOffset(idx)
}

// newlinesBefore counts newlines in [0, offset) of the subtree.
func (n *node) newlinesBefore(offset ByteOffset) uint32 {
	var count uint32
	for n != nil && offset > 0 {
		if offset >= n.bytes {
			return count + n.newlines
		}
		if n.isLeaf() {
			return count + uint32(strings.Count(n.text[:offset], "\n"))
		}
		if offset < n.left.bytes {
			n = n.left
		} else {
			count += n.left.newlines
			offset -= n.left.bytes
			n = n.right
		}
	}
	return count
}

// leafStrings appends every leaf payload in order. Used by chunk iteration.
func (n *node) leafStrings(out []string) []string {
	if n == nil {
		return out
	}
	if n.isLeaf() {
		return append(out, n.text)
	}
	out = n.left.leafStrings(out)
	return n.right.leafStrings(out)
}
