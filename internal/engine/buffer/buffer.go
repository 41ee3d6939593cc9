package buffer

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/slateedit/slate/internal/engine/rope"
)

// ErrOutOfRange indicates a position or range outside the buffer bounds.
var ErrOutOfRange = errors.New("position out of range")

// Buffer wraps a Rope with editor functionality: line-ending normalization,
// bounds checking, revision tracking, and snapshotting.
// All methods are safe for concurrent use.
type Buffer struct {
	mu       sync.RWMutex
	rope     rope.Rope
	revision RevisionID
	tabWidth int
}

// New creates an empty buffer.
func New(opts ...Option) *Buffer {
	b := &Buffer{
		rope:     rope.New(),
		revision: NewRevisionID(),
		tabWidth: 4,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewFromString creates a buffer with initial content.
// Line endings are normalized to LF.
func NewFromString(s string, opts ...Option) *Buffer {
	b := New(opts...)
	b.rope = rope.FromString(Normalize(s))
	return b
}

// Normalize converts CRLF and CR line endings to LF. Buffers only ever
// hold LF; ApplyEdit runs incoming text through this, so callers that
// derive lengths or inverse edits from the text must normalize first.
func Normalize(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Read operations

// Text returns the full buffer content as a string.
// For large buffers, prefer TextRange.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.String()
}

// TextRange returns the text in the byte range [start, end).
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Slice(start, end)
}

// Len returns the total byte length.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Len()
}

// IsEmpty returns true if the buffer holds no text.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.IsEmpty()
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineCount()
}

// LineText returns the text of a line, without the trailing newline.
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineText(line)
}

// LineStartOffset returns the byte offset where a line begins.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineStartOffset(line)
}

// LineEndOffset returns the byte offset of a line's end, before any newline.
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.LineEndOffset(line)
}

// RuneAt returns the rune starting at the given byte offset.
// Returns utf8.RuneError and size 0 if offset is out of range.
func (b *Buffer) RuneAt(offset ByteOffset) (rune, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset < 0 || offset >= b.rope.Len() {
		return utf8.RuneError, 0
	}
	end := offset + utf8.UTFMax
	if end > b.rope.Len() {
		end = b.rope.Len()
	}
	return utf8.DecodeRuneInString(b.rope.Slice(offset, end))
}

// Coordinate conversion

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.OffsetToPoint(offset)
}

// PointToOffset converts line/column to a byte offset.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.PointToOffset(p)
}

// Write operations

// Insert inserts text at offset. Returns the end position of the inserted
// text. Fails with ErrOutOfRange when offset exceeds the buffer length.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	res, err := b.ApplyEdit(NewInsert(offset, text))
	if err != nil {
		return 0, err
	}
	return res.NewRange.End, nil
}

// Delete removes the text in [start, end). Deleting an empty range is a
// no-op. Fails with ErrOutOfRange when the range exceeds buffer bounds.
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.ApplyEdit(NewDelete(start, end))
	return err
}

// ApplyEdit applies one edit atomically and reports the affected ranges and
// line span. The buffer is unchanged on error.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := edit.Range
	if r.Start < 0 || r.Start > r.End || r.End > b.rope.Len() {
		return EditResult{}, ErrOutOfRange
	}

	text := Normalize(edit.NewText)
	oldText := b.rope.Slice(r.Start, r.End)
	startPoint := b.rope.OffsetToPoint(r.Start)
	oldEndLine := b.rope.OffsetToPoint(r.End).Line

	b.rope = b.rope.Replace(r.Start, r.End, text)
	b.revision = NewRevisionID()

	return EditResult{
		OldRange:   r,
		NewRange:   Range{Start: r.Start, End: r.Start + ByteOffset(len(text))},
		OldText:    oldText,
		StartLine:  startPoint.Line,
		OldEndLine: oldEndLine,
		NewEndLine: startPoint.Line + uint32(strings.Count(text, "\n")),
	}, nil
}

// State

// Revision returns the current revision ID.
func (b *Buffer) Revision() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// Snapshot returns a read-only view of the current buffer state.
// Safe to use from other goroutines while the buffer keeps changing.
func (b *Buffer) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	// Ropes are immutable, so sharing the value is safe.
	return Snapshot{rope: b.rope, revision: b.revision}
}
