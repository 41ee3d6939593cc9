package cursor

import "github.com/slateedit/slate/internal/engine/buffer"

// Edit is an alias for buffer.Edit for convenience.
type Edit = buffer.Edit

// TransformOffset updates an offset after an edit.
//
// Rules:
//   - edit entirely before the offset: shift by the edit's delta
//   - edit entirely after the offset: unchanged
//   - insertion exactly at the offset: offset moves to the end of the
//     inserted text (the standard typing convention)
//   - edit spans the offset: offset moves to the end of the new text
func TransformOffset(offset ByteOffset, edit Edit) ByteOffset {
	switch {
	case edit.Range.End < offset || (edit.Range.End == offset && !edit.Range.IsEmpty()):
		return offset + edit.Delta()
	case edit.Range.Start > offset:
		return offset
	case edit.Range.Start == offset && edit.Range.IsEmpty():
		return offset + ByteOffset(len(edit.NewText))
	case edit.Range.Start >= offset:
		return offset
	default:
		return edit.Range.Start + ByteOffset(len(edit.NewText))
	}
}

// TransformSelection updates a selection after an edit. Anchor and head are
// transformed independently.
func TransformSelection(sel Selection, edit Edit) Selection {
	return Selection{
		Anchor: TransformOffset(sel.Anchor, edit),
		Head:   TransformOffset(sel.Head, edit),
	}
}
