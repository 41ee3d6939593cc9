// Package cursor provides the selection model used by editing sessions.
// A Selection is an immutable anchor/head pair; Anchor == Head is a plain
// cursor with no extent.
package cursor

import (
	"fmt"

	"github.com/slateedit/slate/internal/engine/buffer"
)

// ByteOffset is re-exported for convenience.
type ByteOffset = buffer.ByteOffset

// Selection represents a range of selected text. Anchor is where the
// selection started; Head is where the cursor sits and typing occurs.
type Selection struct {
	Anchor ByteOffset
	Head   ByteOffset
}

// At creates a collapsed selection (cursor) at offset.
func At(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// New creates a selection from anchor to head.
func New(anchor, head ByteOffset) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// IsEmpty returns true if the selection has no extent.
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// Start returns the lower bound of the selection.
func (s Selection) Start() ByteOffset {
	if s.Anchor <= s.Head {
		return s.Anchor
	}
	return s.Head
}

// End returns the upper bound of the selection.
func (s Selection) End() ByteOffset {
	if s.Anchor >= s.Head {
		return s.Anchor
	}
	return s.Head
}

// Range returns the selection as a normalized buffer range.
func (s Selection) Range() buffer.Range {
	return buffer.Range{Start: s.Start(), End: s.End()}
}

// Cursor returns the head position.
func (s Selection) Cursor() ByteOffset {
	return s.Head
}

// MoveTo returns a collapsed selection at offset.
func (s Selection) MoveTo(offset ByteOffset) Selection {
	return At(offset)
}

// Extend returns a selection with the head moved to offset, anchor fixed.
func (s Selection) Extend(offset ByteOffset) Selection {
	return Selection{Anchor: s.Anchor, Head: offset}
}

// CollapseToStart collapses the selection to its start position.
func (s Selection) CollapseToStart() Selection {
	return At(s.Start())
}

// CollapseToEnd collapses the selection to its end position.
func (s Selection) CollapseToEnd() Selection {
	return At(s.End())
}

// Clamp restricts the selection to [0, maxOffset].
func (s Selection) Clamp(maxOffset ByteOffset) Selection {
	clamp := func(v ByteOffset) ByteOffset {
		if v < 0 {
			return 0
		}
		if v > maxOffset {
			return maxOffset
		}
		return v
	}
	return Selection{Anchor: clamp(s.Anchor), Head: clamp(s.Head)}
}

// String returns a human-readable representation.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	return fmt.Sprintf("Selection(%d..%d)", s.Anchor, s.Head)
}
