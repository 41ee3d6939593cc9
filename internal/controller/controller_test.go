package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slateedit/slate/internal/engine/cursor"
	"github.com/slateedit/slate/internal/event"
	"github.com/slateedit/slate/internal/highlight"
	"github.com/slateedit/slate/internal/session"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	c := New(context.Background(), session.NewManager(), event.NewBus())
	t.Cleanup(c.Close)
	return c
}

func openTab(t *testing.T, c *Controller, path, content string) *session.Tab {
	t.Helper()
	tab := session.NewTab(path, content, highlight.DefaultRegistry().ForFile(path))
	c.OpenTab(tab)
	return tab
}

func TestNoActiveTab(t *testing.T) {
	c := newTestController(t)

	assert.ErrorIs(t, c.Insert("x"), ErrNoActiveTab)
	assert.ErrorIs(t, c.Undo(), ErrNoActiveTab)
	assert.ErrorIs(t, c.CloseActiveTab(), ErrNoActiveTab)
	_, err := c.VisibleTokens(0, 0)
	assert.ErrorIs(t, err, ErrNoActiveTab)
	assert.False(t, c.IsDirty())
}

func TestInsertAtCursor(t *testing.T) {
	c := newTestController(t)
	tab := openTab(t, c, "/tmp/a.go", "helloworld")

	require.NoError(t, c.MoveCursor(5))
	require.NoError(t, c.Insert(", "))

	assert.Equal(t, "hello, world", tab.Buffer().Text())
	assert.Equal(t, cursor.At(7), tab.Selection(), "cursor lands after inserted text")
	assert.True(t, tab.IsDirty())
}

func TestInsertCRLFNormalizedAndUndone(t *testing.T) {
	c := newTestController(t)
	tab := openTab(t, c, "/tmp/a.txt", "hello")

	require.NoError(t, c.MoveCursor(0))
	require.NoError(t, c.Insert("a\r\nb"))

	assert.Equal(t, "a\nbhello", tab.Buffer().Text(), "line endings normalize to LF")
	assert.Equal(t, cursor.At(3), tab.Selection(), "cursor lands after the normalized text")

	require.NoError(t, c.Undo())
	assert.Equal(t, "hello", tab.Buffer().Text(), "undo removes exactly what was inserted")

	require.NoError(t, c.Redo())
	assert.Equal(t, "a\nbhello", tab.Buffer().Text())
}

func TestInsertReplacesSelection(t *testing.T) {
	c := newTestController(t)
	tab := openTab(t, c, "/tmp/a.go", "hello world")

	require.NoError(t, c.MoveCursor(0))
	require.NoError(t, c.ExtendSelection(5))
	require.NoError(t, c.Insert("goodbye"))

	assert.Equal(t, "goodbye world", tab.Buffer().Text())
	assert.Equal(t, cursor.At(7), tab.Selection())
}

func TestDeleteSelection(t *testing.T) {
	c := newTestController(t)
	tab := openTab(t, c, "/tmp/a.go", "hello world")

	require.NoError(t, c.MoveCursor(5))
	require.NoError(t, c.ExtendSelection(11))
	require.NoError(t, c.DeleteSelection())

	assert.Equal(t, "hello", tab.Buffer().Text())
	assert.Equal(t, cursor.At(5), tab.Selection(), "cursor collapses to selection start")

	// Empty selection: no-op, nothing recorded.
	undos := tab.History().UndoCount()
	require.NoError(t, c.DeleteSelection())
	assert.Equal(t, undos, tab.History().UndoCount())
}

func TestDeleteReversedSelectionCollapsesToStart(t *testing.T) {
	c := newTestController(t)
	tab := openTab(t, c, "/tmp/a.go", "hello world")

	// Anchor after head: "hello" selected right to left.
	require.NoError(t, c.MoveCursor(5))
	require.NoError(t, c.ExtendSelection(0))
	require.NoError(t, c.DeleteSelection())

	assert.Equal(t, " world", tab.Buffer().Text())
	assert.Equal(t, cursor.At(0), tab.Selection())
}

func TestDeleteBackward(t *testing.T) {
	c := newTestController(t)
	tab := openTab(t, c, "/tmp/a.go", "ab日c")

	require.NoError(t, c.MoveCursor(tab.Buffer().Len()))
	require.NoError(t, c.DeleteBackward())
	assert.Equal(t, "ab日", tab.Buffer().Text())

	// Multi-byte rune removed whole.
	require.NoError(t, c.DeleteBackward())
	assert.Equal(t, "ab", tab.Buffer().Text())

	require.NoError(t, c.DeleteBackward())
	require.NoError(t, c.DeleteBackward())
	assert.Equal(t, "", tab.Buffer().Text())

	// At offset 0: no-op.
	require.NoError(t, c.DeleteBackward())
	assert.Equal(t, "", tab.Buffer().Text())
}

func TestDeleteForward(t *testing.T) {
	c := newTestController(t)
	tab := openTab(t, c, "/tmp/a.go", "日ab")

	require.NoError(t, c.MoveCursor(0))
	require.NoError(t, c.DeleteForward())
	assert.Equal(t, "ab", tab.Buffer().Text())
	assert.Equal(t, cursor.At(0), tab.Selection())

	require.NoError(t, c.MoveCursor(tab.Buffer().Len()))
	require.NoError(t, c.DeleteForward(), "at end of buffer: no-op")
	assert.Equal(t, "ab", tab.Buffer().Text())
}

func TestUndoRedoRestoresCursor(t *testing.T) {
	c := newTestController(t)
	tab := openTab(t, c, "/tmp/a.go", "abc")

	require.NoError(t, c.MoveCursor(3))
	require.NoError(t, c.Insert("def"))
	require.NoError(t, c.MoveCursor(0))

	require.NoError(t, c.Undo())
	assert.Equal(t, "abc", tab.Buffer().Text())
	assert.Equal(t, cursor.At(3), tab.Selection(), "undo restores the pre-edit cursor")

	require.NoError(t, c.Redo())
	assert.Equal(t, "abcdef", tab.Buffer().Text())
	assert.Equal(t, cursor.At(6), tab.Selection(), "redo restores the post-edit cursor")
}

func TestUndoEmptyHistory(t *testing.T) {
	c := newTestController(t)
	openTab(t, c, "/tmp/a.go", "abc")
	assert.Error(t, c.Undo())
	assert.Error(t, c.Redo())
}

func TestEditKeepsHighlightConsistent(t *testing.T) {
	c := newTestController(t)
	tab := openTab(t, c, "/tmp/a.go", "x := 1\ny := 2\nz := 3\n")

	require.NoError(t, c.MoveCursor(0))
	require.NoError(t, c.Insert("/* "))

	tokens, err := c.VisibleTokens(0, tab.Buffer().LineCount()-1)
	require.NoError(t, err)
	for line, toks := range tokens[:3] {
		require.NotEmpty(t, toks, "line %d", line)
		assert.Equal(t, highlight.TokenComment, toks[0].Type,
			"line %d should be swallowed by the open block comment", line)
	}
}

func TestTabsAreIsolated(t *testing.T) {
	c := newTestController(t)
	a := openTab(t, c, "/tmp/a.go", "aaa")
	b := openTab(t, c, "/tmp/b.go", "bbb")

	require.NoError(t, c.MoveCursor(3))
	require.NoError(t, c.Insert("!"))
	assert.Equal(t, "bbb!", b.Buffer().Text())
	assert.Equal(t, "aaa", a.Buffer().Text())

	require.NoError(t, c.SwitchTab(a.ID()))
	assert.Error(t, c.Undo(), "undo on empty history must not cross tabs")
	assert.Equal(t, "aaa", a.Buffer().Text())
}

func TestTabsAreIsolatedUndo(t *testing.T) {
	c := newTestController(t)
	a := openTab(t, c, "/tmp/a.go", "")
	b := openTab(t, c, "/tmp/b.go", "")

	require.NoError(t, c.SwitchTab(a.ID()))
	require.NoError(t, c.Insert("in a"))
	require.NoError(t, c.SwitchTab(b.ID()))
	require.NoError(t, c.Insert("in b"))

	require.NoError(t, c.SwitchTab(a.ID()))
	require.NoError(t, c.Undo())
	assert.Equal(t, "", a.Buffer().Text())
	assert.Equal(t, "in b", b.Buffer().Text())
}

func TestCloseActiveTabActivatesLeftNeighbor(t *testing.T) {
	c := newTestController(t)
	a := openTab(t, c, "/tmp/a.go", "")
	b := openTab(t, c, "/tmp/b.go", "")
	openTab(t, c, "/tmp/c.go", "")

	require.NoError(t, c.SwitchTab(b.ID()))
	require.NoError(t, c.CloseActiveTab())
	assert.Same(t, a, c.Tabs().Active())

	require.NoError(t, c.CloseActiveTab())
	require.NoError(t, c.CloseActiveTab())
	assert.Nil(t, c.Tabs().Active())
}

func TestCursorPositionAndLineCount(t *testing.T) {
	c := newTestController(t)
	openTab(t, c, "/tmp/a.go", "ab\ncd\n")

	n, err := c.LineCount()
	require.NoError(t, err)
	assert.Equal(t, uint32(3), n)

	require.NoError(t, c.MoveCursor(4))
	p, err := c.CursorPosition()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), p.Line)
	assert.Equal(t, uint32(1), p.Column)
}

func TestSelectAll(t *testing.T) {
	c := newTestController(t)
	tab := openTab(t, c, "/tmp/a.go", "abc")
	require.NoError(t, c.SelectAll())
	sel := tab.Selection()
	assert.Equal(t, cursor.New(0, 3), sel)
}

func TestEditEventsPublished(t *testing.T) {
	bus := event.NewBus()
	c := New(context.Background(), session.NewManager(), bus)
	t.Cleanup(c.Close)

	var events []EditEvent
	bus.Subscribe(event.TopicEditApplied, func(_ event.Topic, payload any) {
		events = append(events, payload.(EditEvent))
	})

	tab := session.NewTab("/tmp/a.go", "", highlight.GoGrammar())
	c.OpenTab(tab)
	require.NoError(t, c.Insert("x"))

	require.Len(t, events, 1)
	assert.Equal(t, tab.ID(), events[0].TabID)
}
