package buffer

import (
	"fmt"
	"sync/atomic"

	"github.com/slateedit/slate/internal/engine/rope"
)

// ByteOffset represents a byte position in the buffer.
// This is the fundamental position type, directly indexing into the text.
type ByteOffset = rope.ByteOffset

// Point represents a line and column position.
// Both Line and Column are 0-indexed; Column is measured in bytes.
type Point = rope.Point

// Range represents a byte range [Start, End) in the buffer.
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

// NewRange creates a range, normalizing so that Start <= End.
func NewRange(start, end ByteOffset) Range {
	if start > end {
		start, end = end, start
	}
	return Range{Start: start, End: end}
}

// Len returns the length of the range in bytes.
func (r Range) Len() ByteOffset {
	return r.End - r.Start
}

// IsEmpty returns true if the range covers no bytes.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains returns true if offset lies within the range.
func (r Range) Contains(offset ByteOffset) bool {
	return offset >= r.Start && offset < r.End
}

// String returns a human-readable representation of the range.
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// RevisionID identifies a buffer revision. Each mutation produces a new
// revision; highlight repair results tagged with an older revision are
// stale and must be discarded.
type RevisionID uint64

var revisionCounter uint64

// NewRevisionID generates the next unique revision ID.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
