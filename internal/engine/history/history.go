// Package history implements per-buffer undo/redo.
//
// Each record stores the applied edit together with the text it replaced,
// so the inverse operation can be derived exactly. Consecutive single-rune
// insertions coalesce into one record while typing stays inside the idle
// window and the same character class; deletions and structural edits
// never coalesce.
package history

import (
	"errors"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/slateedit/slate/internal/engine/buffer"
	"github.com/slateedit/slate/internal/engine/cursor"
)

// Errors returned at the history boundary.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultCoalesceWindow is the idle timeout beyond which typing starts a
// new undo record.
const DefaultCoalesceWindow = 500 * time.Millisecond

// Record is one reversible edit.
type Record struct {
	Edit      buffer.Edit      // the edit as applied
	OldText   string           // text the edit's range held before
	SelBefore cursor.Selection // selection before the edit
	SelAfter  cursor.Selection // selection after the edit
	At        time.Time
}

// NewRecord builds a record for an applied edit.
func NewRecord(edit buffer.Edit, oldText string, before, after cursor.Selection) Record {
	return Record{
		Edit:      edit,
		OldText:   oldText,
		SelBefore: before,
		SelAfter:  after,
		At:        time.Now(),
	}
}

// History manages the undo and redo stacks for one buffer.
type History struct {
	mu sync.Mutex

	undoStack []Record
	redoStack []Record

	maxEntries int
	window     time.Duration
}

// New creates a history with the given capacity and coalesce window.
// Non-positive arguments select defaults.
func New(maxEntries int, window time.Duration) *History {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	if window <= 0 {
		window = DefaultCoalesceWindow
	}
	return &History{maxEntries: maxEntries, window: window}
}

// Push records an applied edit and truncates any redo tail.
func (h *History) Push(rec Record) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.redoStack = nil

	if n := len(h.undoStack); n > 0 && h.coalesces(&h.undoStack[n-1], rec) {
		prev := &h.undoStack[n-1]
		prev.Edit.NewText += rec.Edit.NewText
		prev.SelAfter = rec.SelAfter
		prev.At = rec.At
		return
	}

	h.undoStack = append(h.undoStack, rec)
	if len(h.undoStack) > h.maxEntries {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxEntries:]
	}
}

// coalesces reports whether rec may merge into prev.
func (h *History) coalesces(prev *Record, rec Record) bool {
	if !prev.Edit.IsInsert() || !rec.Edit.IsInsert() {
		return false
	}
	if utf8.RuneCountInString(rec.Edit.NewText) != 1 || strings.Contains(rec.Edit.NewText, "\n") {
		return false
	}
	// Must append directly after the previous insertion.
	if rec.Edit.Range.Start != prev.Edit.Range.Start+buffer.ByteOffset(len(prev.Edit.NewText)) {
		return false
	}
	if rec.At.Sub(prev.At) > h.window {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(prev.Edit.NewText)
	next, _ := utf8.DecodeRuneInString(rec.Edit.NewText)
	return charClass(last) == charClass(next)
}

func charClass(r rune) int {
	switch {
	case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		return 0
	case unicode.IsSpace(r):
		return 1
	default:
		return 2
	}
}

// Undo reverses the most recent edit on buf and returns the edit result
// plus the selection to restore. Fails with ErrNothingToUndo at the stack
// boundary; the buffer is untouched on error.
func (h *History) Undo(buf *buffer.Buffer) (buffer.EditResult, cursor.Selection, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return buffer.EditResult{}, cursor.Selection{}, ErrNothingToUndo
	}
	rec := h.undoStack[len(h.undoStack)-1]

	res, err := buf.ApplyEdit(rec.Edit.Invert(rec.OldText))
	if err != nil {
		return buffer.EditResult{}, cursor.Selection{}, err
	}

	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, rec)
	return res, rec.SelBefore, nil
}

// Redo reapplies the most recently undone edit.
// Fails with ErrNothingToRedo at the stack boundary.
func (h *History) Redo(buf *buffer.Buffer) (buffer.EditResult, cursor.Selection, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return buffer.EditResult{}, cursor.Selection{}, ErrNothingToRedo
	}
	rec := h.redoStack[len(h.redoStack)-1]

	res, err := buf.ApplyEdit(rec.Edit)
	if err != nil {
		return buffer.EditResult{}, cursor.Selection{}, err
	}

	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, rec)
	return res, rec.SelAfter, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoCount returns the number of undoable records.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of redoable records.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Clear drops all history. Called when a document closes.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.undoStack = nil
	h.redoStack = nil
}
