// Package session manages open editor tabs. Each tab owns its own
// buffer, undo history, and highlight index, so switching tabs never
// discards or recomputes per-document state.
package session

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/slateedit/slate/internal/engine/buffer"
	"github.com/slateedit/slate/internal/engine/cursor"
	"github.com/slateedit/slate/internal/engine/history"
	"github.com/slateedit/slate/internal/highlight"
)

// scratchName is the display name for tabs without a file path.
const scratchName = "New file"

// Tab is one open document: a buffer with its history, highlight
// index, selection, and file association.
type Tab struct {
	id string

	buf  *buffer.Buffer
	hist *history.History
	idx  *highlight.Index

	mu   sync.RWMutex
	path string
	sel  cursor.Selection

	dirty atomic.Bool
}

// TabOption configures a new tab.
type TabOption func(*Tab)

// WithUndoLimits sets the history depth and coalescing window. Zero
// values keep the defaults.
func WithUndoLimits(maxEntries int, window time.Duration) TabOption {
	return func(t *Tab) {
		t.hist = history.New(maxEntries, window)
	}
}

// NewTab creates a tab with the given content and grammar. An empty
// path makes a scratch tab.
func NewTab(path, content string, g *highlight.Grammar, opts ...TabOption) *Tab {
	buf := buffer.NewFromString(content)
	t := &Tab{
		id:   uuid.NewString(),
		buf:  buf,
		hist: history.New(0, 0),
		idx:  highlight.NewIndex(g, buf),
		path: path,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewScratchTab creates an empty tab with no file association.
func NewScratchTab(g *highlight.Grammar, opts ...TabOption) *Tab {
	return NewTab("", "", g, opts...)
}

// ID returns the tab's stable unique identifier.
func (t *Tab) ID() string { return t.id }

// Buffer returns the tab's text buffer.
func (t *Tab) Buffer() *buffer.Buffer { return t.buf }

// History returns the tab's undo history.
func (t *Tab) History() *history.History { return t.hist }

// Index returns the tab's highlight index.
func (t *Tab) Index() *highlight.Index { return t.idx }

// Path returns the associated file path, empty for scratch tabs.
func (t *Tab) Path() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.path
}

// SetPath changes the file association, as after save-as. The
// highlight grammar is not switched here; callers decide that.
func (t *Tab) SetPath(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.path = path
}

// IsScratch reports whether the tab has no file association.
func (t *Tab) IsScratch() bool { return t.Path() == "" }

// Name returns the display name: the file's base name, or "New file"
// for scratch tabs.
func (t *Tab) Name() string {
	path := t.Path()
	if path == "" {
		return scratchName
	}
	return filepath.Base(path)
}

// Title returns the name with a dirty marker appended when the tab
// has unsaved changes.
func (t *Tab) Title() string {
	if t.IsDirty() {
		return t.Name() + " *"
	}
	return t.Name()
}

// IsDirty reports whether the tab has unsaved changes.
func (t *Tab) IsDirty() bool { return t.dirty.Load() }

// SetDirty sets the unsaved-changes flag.
func (t *Tab) SetDirty(dirty bool) { t.dirty.Store(dirty) }

// Selection returns the tab's current selection.
func (t *Tab) Selection() cursor.Selection {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sel
}

// SetSelection replaces the tab's selection, clamped to the buffer.
func (t *Tab) SetSelection(sel cursor.Selection) {
	clamped := sel.Clamp(t.buf.Len())
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sel = clamped
}
