package buffer

import "fmt"

// Edit describes a single text edit: replace Range with NewText.
// An empty range is an insertion; empty NewText is a deletion.
type Edit struct {
	Range   Range
	NewText string
}

// NewInsert creates an Edit that inserts text at offset.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete creates an Edit that deletes [start, end).
func NewDelete(start, end ByteOffset) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

// IsInsert returns true for a pure insertion.
func (e Edit) IsInsert() bool {
	return e.Range.IsEmpty() && e.NewText != ""
}

// IsDelete returns true for a pure deletion.
func (e Edit) IsDelete() bool {
	return !e.Range.IsEmpty() && e.NewText == ""
}

// Delta returns the change in buffer length caused by this edit.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}

// Invert returns the edit that undoes e, given the text the range held
// before the edit was applied.
func (e Edit) Invert(oldText string) Edit {
	return Edit{
		Range:   Range{Start: e.Range.Start, End: e.Range.Start + ByteOffset(len(e.NewText))},
		NewText: oldText,
	}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.IsInsert() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.IsDelete() {
		return fmt.Sprintf("Delete%s", e.Range)
	}
	return fmt.Sprintf("Replace%s with %q", e.Range, e.NewText)
}

// EditResult describes an applied edit.
type EditResult struct {
	OldRange Range  // range that was replaced
	NewRange Range  // range the new text occupies
	OldText  string // text that was replaced
	// Line span touched by the edit, for highlight invalidation:
	// lines [StartLine, OldEndLine] existed before, [StartLine, NewEndLine]
	// exist after.
	StartLine  uint32
	OldEndLine uint32
	NewEndLine uint32
}
