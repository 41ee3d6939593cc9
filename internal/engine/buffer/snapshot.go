package buffer

import "github.com/slateedit/slate/internal/engine/rope"

// Snapshot is an immutable view of a buffer at one revision. Background
// highlight repair reads from snapshots so the interactive path never
// blocks on it.
type Snapshot struct {
	rope     rope.Rope
	revision RevisionID
}

// Revision returns the revision this snapshot was taken at.
func (s Snapshot) Revision() RevisionID {
	return s.revision
}

// Len returns the snapshot's byte length.
func (s Snapshot) Len() ByteOffset {
	return s.rope.Len()
}

// LineCount returns the snapshot's line count.
func (s Snapshot) LineCount() uint32 {
	return s.rope.LineCount()
}

// LineText returns the text of a line without its newline.
func (s Snapshot) LineText(line uint32) string {
	return s.rope.LineText(line)
}

// Text returns the full snapshot content.
func (s Snapshot) Text() string {
	return s.rope.String()
}
