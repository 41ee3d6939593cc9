// Package controller coordinates edits across a tab's buffer, undo
// history, and highlight index. All mutations go through one entry
// point so the three structures can never drift apart.
package controller

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"

	"github.com/slateedit/slate/internal/engine/buffer"
	"github.com/slateedit/slate/internal/engine/cursor"
	"github.com/slateedit/slate/internal/engine/history"
	"github.com/slateedit/slate/internal/event"
	"github.com/slateedit/slate/internal/highlight"
	"github.com/slateedit/slate/internal/session"
)

// ErrNoActiveTab indicates an edit or query with no tab open.
var ErrNoActiveTab = errors.New("no active tab")

// Engine sentinels, re-exported so callers can match with errors.Is
// without importing every engine package.
var (
	ErrOutOfRange    = buffer.ErrOutOfRange
	ErrNothingToUndo = history.ErrNothingToUndo
	ErrNothingToRedo = history.ErrNothingToRedo
	ErrTabNotFound   = session.ErrTabNotFound
)

// EditEvent is the payload published on event.TopicEditApplied.
type EditEvent struct {
	TabID  string
	Result buffer.EditResult
}

// Controller is the mutation and query surface over the tab manager.
// Buffer, history, and index updates for one edit happen under a
// single lock; a failed validation leaves all three untouched.
type Controller struct {
	mu   sync.Mutex
	tabs *session.Manager
	bus  *event.Bus

	repairers map[string]*highlight.Repairer
	ctx       context.Context
}

// New creates a controller over the tab manager. The context bounds
// the background repair goroutines. A nil bus disables notifications.
func New(ctx context.Context, tabs *session.Manager, bus *event.Bus) *Controller {
	return &Controller{
		tabs:      tabs,
		bus:       bus,
		repairers: make(map[string]*highlight.Repairer),
		ctx:       ctx,
	}
}

// Tabs returns the underlying tab manager.
func (c *Controller) Tabs() *session.Manager { return c.tabs }

// Close stops all background repairers.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, r := range c.repairers {
		r.Stop()
		delete(c.repairers, id)
	}
}

// Tab lifecycle

// OpenTab adds a tab, makes it active, and starts background repair
// for its highlight index.
func (c *Controller) OpenTab(tab *session.Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tabs.Add(tab)
	r := highlight.NewRepairer(tab.Index())
	id := tab.ID()
	r.Notify(func() { c.publish(event.TopicLinesRepaired, id) })
	r.Start(c.ctx)
	r.Kick()
	c.repairers[tab.ID()] = r
	c.publish(event.TopicTabOpened, tab.ID())
	c.publish(event.TopicTabActivated, tab.ID())
}

// CloseTab closes a tab and stops its repairer.
func (c *Controller) CloseTab(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.tabs.Close(id); err != nil {
		return err
	}
	if r, ok := c.repairers[id]; ok {
		r.Stop()
		delete(c.repairers, id)
	}
	c.publish(event.TopicTabClosed, id)
	if active := c.tabs.Active(); active != nil {
		c.publish(event.TopicTabActivated, active.ID())
	}
	return nil
}

// CloseActiveTab closes the active tab.
func (c *Controller) CloseActiveTab() error {
	active := c.tabs.Active()
	if active == nil {
		return ErrNoActiveTab
	}
	return c.CloseTab(active.ID())
}

// SwitchTab activates another tab. The previous tab's state stays
// cached; nothing is retokenized.
func (c *Controller) SwitchTab(id string) error {
	if err := c.tabs.SwitchTo(id); err != nil {
		return err
	}
	c.publish(event.TopicTabActivated, id)
	return nil
}

// Mutations

// Insert inserts text at the cursor. A non-empty selection is
// replaced. The cursor lands at the end of the inserted text.
func (c *Controller) Insert(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tab := c.tabs.Active()
	if tab == nil {
		return ErrNoActiveTab
	}
	// Normalize before building the edit: the buffer stores LF only,
	// and the history record must hold the exact text that landed so
	// its inverse covers the right range.
	text = buffer.Normalize(text)
	sel := tab.Selection()
	edit := buffer.Edit{Range: sel.Range(), NewText: text}
	after := cursor.At(sel.Start() + buffer.ByteOffset(len(text)))
	return c.apply(tab, edit, after)
}

// DeleteSelection removes the selected text and collapses the cursor
// to the selection start. An empty selection is a no-op.
func (c *Controller) DeleteSelection() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tab := c.tabs.Active()
	if tab == nil {
		return ErrNoActiveTab
	}
	sel := tab.Selection()
	if sel.IsEmpty() {
		return nil
	}
	edit := buffer.Edit{Range: sel.Range()}
	return c.apply(tab, edit, cursor.TransformSelection(sel, edit))
}

// DeleteBackward removes the selection, or the rune before the cursor
// when the selection is empty. At offset 0 it is a no-op.
func (c *Controller) DeleteBackward() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tab := c.tabs.Active()
	if tab == nil {
		return ErrNoActiveTab
	}
	sel := tab.Selection()
	if !sel.IsEmpty() {
		edit := buffer.Edit{Range: sel.Range()}
		return c.apply(tab, edit, cursor.TransformSelection(sel, edit))
	}
	cur := sel.Cursor()
	if cur == 0 {
		return nil
	}
	edit := buffer.NewDelete(prevRuneStart(tab.Buffer(), cur), cur)
	return c.apply(tab, edit, cursor.At(cursor.TransformOffset(cur, edit)))
}

// DeleteForward removes the selection, or the rune after the cursor
// when the selection is empty. At the end of the buffer it is a no-op.
func (c *Controller) DeleteForward() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tab := c.tabs.Active()
	if tab == nil {
		return ErrNoActiveTab
	}
	sel := tab.Selection()
	if !sel.IsEmpty() {
		edit := buffer.Edit{Range: sel.Range()}
		return c.apply(tab, edit, cursor.TransformSelection(sel, edit))
	}
	cur := sel.Cursor()
	if cur >= tab.Buffer().Len() {
		return nil
	}
	_, size := tab.Buffer().RuneAt(cur)
	edit := buffer.NewDelete(cur, cur+buffer.ByteOffset(size))
	return c.apply(tab, edit, cursor.At(cursor.TransformOffset(cur, edit)))
}

// Undo reverts the most recent edit and restores the selection that
// preceded it.
func (c *Controller) Undo() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tab := c.tabs.Active()
	if tab == nil {
		return ErrNoActiveTab
	}
	res, sel, err := tab.History().Undo(tab.Buffer())
	if err != nil {
		return err
	}
	c.commit(tab, res, sel)
	return nil
}

// Redo reapplies the most recently undone edit.
func (c *Controller) Redo() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tab := c.tabs.Active()
	if tab == nil {
		return ErrNoActiveTab
	}
	res, sel, err := tab.History().Redo(tab.Buffer())
	if err != nil {
		return err
	}
	c.commit(tab, res, sel)
	return nil
}

// Cursor movement

// MoveCursor places the cursor, collapsing any selection.
func (c *Controller) MoveCursor(to buffer.ByteOffset) error {
	tab := c.tabs.Active()
	if tab == nil {
		return ErrNoActiveTab
	}
	tab.SetSelection(cursor.At(to))
	return nil
}

// ExtendSelection moves the selection head, keeping the anchor.
func (c *Controller) ExtendSelection(to buffer.ByteOffset) error {
	tab := c.tabs.Active()
	if tab == nil {
		return ErrNoActiveTab
	}
	tab.SetSelection(tab.Selection().Extend(to))
	return nil
}

// SelectAll selects the whole buffer.
func (c *Controller) SelectAll() error {
	tab := c.tabs.Active()
	if tab == nil {
		return ErrNoActiveTab
	}
	tab.SetSelection(cursor.New(0, tab.Buffer().Len()))
	return nil
}

// Queries

// VisibleTokens returns highlight tokens for the viewport lines
// [startLine, endLine] of the active tab, repairing lazily.
func (c *Controller) VisibleTokens(startLine, endLine uint32) ([][]highlight.Token, error) {
	tab := c.tabs.Active()
	if tab == nil {
		return nil, ErrNoActiveTab
	}
	return tab.Index().TokensForLines(startLine, endLine)
}

// CursorPosition returns the active tab's cursor as line/column.
func (c *Controller) CursorPosition() (buffer.Point, error) {
	tab := c.tabs.Active()
	if tab == nil {
		return buffer.Point{}, ErrNoActiveTab
	}
	return tab.Buffer().OffsetToPoint(tab.Selection().Cursor()), nil
}

// LineCount returns the active tab's line count.
func (c *Controller) LineCount() (uint32, error) {
	tab := c.tabs.Active()
	if tab == nil {
		return 0, ErrNoActiveTab
	}
	return tab.Buffer().LineCount(), nil
}

// IsDirty reports whether the active tab has unsaved changes.
func (c *Controller) IsDirty() bool {
	tab := c.tabs.Active()
	return tab != nil && tab.IsDirty()
}

// Internals

// apply validates and applies one edit, then updates history, index,
// selection, and dirty state. Callers hold c.mu.
func (c *Controller) apply(tab *session.Tab, edit buffer.Edit, after cursor.Selection) error {
	before := tab.Selection()
	res, err := tab.Buffer().ApplyEdit(edit)
	if err != nil {
		// The buffer rejects invalid edits without changing; history
		// and index were not touched either.
		return err
	}
	tab.History().Push(history.NewRecord(edit, res.OldText, before, after))
	c.commit(tab, res, after)
	return nil
}

// commit propagates an already-applied buffer change to the index and
// tab state. Callers hold c.mu.
func (c *Controller) commit(tab *session.Tab, res buffer.EditResult, after cursor.Selection) {
	tab.Index().Splice(res.StartLine, res.OldEndLine, res.NewEndLine)
	tab.SetSelection(after)
	tab.SetDirty(true)
	if r, ok := c.repairers[tab.ID()]; ok {
		r.Kick()
	}
	c.publish(event.TopicEditApplied, EditEvent{TabID: tab.ID(), Result: res})
}

func (c *Controller) publish(topic event.Topic, payload any) {
	if c.bus != nil {
		c.bus.Publish(topic, payload)
	}
}

// prevRuneStart finds the byte offset of the rune ending at offset.
func prevRuneStart(buf *buffer.Buffer, offset buffer.ByteOffset) buffer.ByteOffset {
	start := offset - utf8.UTFMax
	if start < 0 {
		start = 0
	}
	window := buf.TextRange(start, offset)
	_, size := utf8.DecodeLastRuneInString(window)
	if size == 0 {
		return offset - 1
	}
	return offset - buffer.ByteOffset(size)
}
