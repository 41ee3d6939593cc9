package rope

import (
	"fmt"
	"strings"
)

// ByteOffset is a byte position within the rope.
type ByteOffset = int64

// Point is a 0-indexed line/column position. Column is measured in bytes
// from the start of the line.
type Point struct {
	Line   uint32
	Column uint32
}

// String returns a human-readable representation of the point.
func (p Point) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Column)
}

// Rope is an immutable rope value. The zero value is an empty rope.
// Operations return new Rope values; the original is never modified, so
// ropes are safe to share across goroutines.
type Rope struct {
	root *node
}

// New returns an empty rope.
func New() Rope {
	return Rope{}
}

// FromString builds a balanced rope from s.
func FromString(s string) Rope {
	if len(s) == 0 {
		return Rope{}
	}
	// Build leaves then pair them bottom-up for a balanced tree.
	leaves := make([]*node, 0, len(s)/maxLeafBytes+1)
	for len(s) > maxLeafBytes {
		leaves = append(leaves, newLeaf(s[:maxLeafBytes]))
		s = s[maxLeafBytes:]
	}
	leaves = append(leaves, newLeaf(s))

	for len(leaves) > 1 {
		paired := leaves[:0]
		for i := 0; i < len(leaves); i += 2 {
			if i+1 < len(leaves) {
				paired = append(paired, join(leaves[i], leaves[i+1]))
			} else {
				paired = append(paired, leaves[i])
			}
		}
		leaves = paired
	}
	return Rope{root: leaves[0]}
}

// Len returns the total byte length.
func (r Rope) Len() ByteOffset {
	if r.root == nil {
		return 0
	}
	return r.root.bytes
}

// IsEmpty reports whether the rope contains no text.
func (r Rope) IsEmpty() bool {
	return r.Len() == 0
}

// LineCount returns the number of lines (newlines + 1).
func (r Rope) LineCount() uint32 {
	if r.root == nil {
		return 1
	}
	return r.root.newlines + 1
}

// String returns the full text. Use sparingly for large ropes.
func (r Rope) String() string {
	if r.root == nil {
		return ""
	}
	var sb strings.Builder
	sb.Grow(int(r.root.bytes))
	r.root.appendAll(&sb)
	return sb.String()
}

// Slice returns the text in [start, end). Out-of-range bounds are clamped.
func (r Rope) Slice(start, end ByteOffset) string {
	if r.root == nil || start >= end {
		return ""
	}
	var sb strings.Builder
	r.root.appendRange(&sb, start, end)
	return sb.String()
}

// ByteAt returns the byte at offset, or false if out of range.
func (r Rope) ByteAt(offset ByteOffset) (byte, bool) {
	if r.root == nil || offset < 0 || offset >= r.root.bytes {
		return 0, false
	}
	return r.root.byteAt(offset), true
}

// Insert returns a rope with text inserted at offset.
// Offsets beyond the end append.
func (r Rope) Insert(offset ByteOffset, text string) Rope {
	if len(text) == 0 {
		return r
	}
	l, rt := split(r.root, offset)
	return Rope{root: concat(concat(l, FromString(text).root), rt)}
}

// Delete returns a rope with [start, end) removed.
func (r Rope) Delete(start, end ByteOffset) Rope {
	if r.root == nil || start >= end {
		return r
	}
	l, rest := split(r.root, start)
	_, rt := split(rest, end-start)
	return Rope{root: concat(l, rt)}
}

// Replace returns a rope with [start, end) replaced by text.
func (r Rope) Replace(start, end ByteOffset, text string) Rope {
	return r.Delete(start, end).Insert(start, text)
}

// Split divides the rope at offset into [0, offset) and [offset, end).
func (r Rope) Split(offset ByteOffset) (Rope, Rope) {
	l, rt := split(r.root, offset)
	return Rope{root: l}, Rope{root: rt}
}

// Concat returns the concatenation of r and other.
func (r Rope) Concat(other Rope) Rope {
	return Rope{root: concat(r.root, other.root)}
}

// LineStartOffset returns the byte offset where line begins.
// Lines past the end map to Len.
func (r Rope) LineStartOffset(line uint32) ByteOffset {
	if r.root == nil || line == 0 {
		return 0
	}
	if line > r.root.newlines {
		return r.root.bytes
	}
	return r.root.offsetAfterNewline(line)
}

// LineEndOffset returns the byte offset of the end of line, excluding the
// trailing newline.
func (r Rope) LineEndOffset(line uint32) ByteOffset {
	if r.root == nil {
		return 0
	}
	if line >= r.root.newlines {
		return r.root.bytes
	}
	return r.root.offsetAfterNewline(line+1) - 1
}

// LineText returns the text of line without its newline.
func (r Rope) LineText(line uint32) string {
	return r.Slice(r.LineStartOffset(line), r.LineEndOffset(line))
}

// OffsetToPoint converts a byte offset to line/column.
// Offsets past the end clamp to the final position.
func (r Rope) OffsetToPoint(offset ByteOffset) Point {
	if r.root == nil || offset <= 0 {
		return Point{}
	}
	if offset > r.root.bytes {
		offset = r.root.bytes
	}
	line := r.root.newlinesBefore(offset)
	return Point{
		Line:   line,
		Column: uint32(offset - r.LineStartOffset(line)),
	}
}

// PointToOffset converts line/column to a byte offset. Columns past the end
// of the line clamp to the line end.
func (r Rope) PointToOffset(p Point) ByteOffset {
	start := r.LineStartOffset(p.Line)
	end := r.LineEndOffset(p.Line)
	if offset := start + ByteOffset(p.Column); offset < end {
		return offset
	}
	return end
}

// Height returns the tree height. Useful for balance tests.
func (r Rope) Height() int {
	if r.root == nil {
		return 0
	}
	return int(r.root.height)
}

// Equals reports whether two ropes hold the same text, regardless of
// internal structure.
func (r Rope) Equals(other Rope) bool {
	if r.Len() != other.Len() {
		return false
	}
	if r.Len() == 0 {
		return true
	}
	a := r.root.leafStrings(nil)
	b := other.root.leafStrings(nil)
	var ai, bi int // index into current head strings
	for len(a) > 0 && len(b) > 0 {
		ca, cb := a[0][ai:], b[0][bi:]
		n := len(ca)
		if len(cb) < n {
			n = len(cb)
		}
		if ca[:n] != cb[:n] {
			return false
		}
		ai += n
		bi += n
		if ai == len(a[0]) {
			a, ai = a[1:], 0
		}
		if bi == len(b[0]) {
			b, bi = b[1:], 0
		}
	}
	return true
}
