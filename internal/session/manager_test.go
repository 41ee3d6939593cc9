package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slateedit/slate/internal/engine/cursor"
	"github.com/slateedit/slate/internal/highlight"
)

func newTestTab(t *testing.T, path, content string) *Tab {
	t.Helper()
	return NewTab(path, content, highlight.DefaultRegistry().ForFile(path))
}

func TestTabNaming(t *testing.T) {
	tab := newTestTab(t, "/tmp/dir/main.go", "package main\n")
	assert.Equal(t, "main.go", tab.Name())
	assert.False(t, tab.IsScratch())

	scratch := NewScratchTab(highlight.PlainGrammar())
	assert.Equal(t, "New file", scratch.Name())
	assert.True(t, scratch.IsScratch())
}

func TestTabTitleDirtyMarker(t *testing.T) {
	tab := newTestTab(t, "/tmp/a.go", "")
	assert.Equal(t, "a.go", tab.Title())
	tab.SetDirty(true)
	assert.Equal(t, "a.go *", tab.Title())
	tab.SetDirty(false)
	assert.Equal(t, "a.go", tab.Title())
}

func TestAddActivates(t *testing.T) {
	m := NewManager()
	assert.Nil(t, m.Active())
	assert.Zero(t, m.Count())

	a := newTestTab(t, "/tmp/a.go", "")
	b := newTestTab(t, "/tmp/b.go", "")
	m.Add(a)
	assert.Same(t, a, m.Active())
	m.Add(b)
	assert.Same(t, b, m.Active())
	assert.Equal(t, 2, m.Count())
	assert.Equal(t, 1, m.ActiveIndex())
}

func TestCloseActivePrefersLeftNeighbor(t *testing.T) {
	m := NewManager()
	a := newTestTab(t, "/tmp/a.go", "")
	b := newTestTab(t, "/tmp/b.go", "")
	c := newTestTab(t, "/tmp/c.go", "")
	m.Add(a)
	m.Add(b)
	m.Add(c)

	require.NoError(t, m.SwitchTo(b.ID()))
	require.NoError(t, m.Close(b.ID()))
	assert.Same(t, a, m.Active(), "left neighbor becomes active")
	assert.Equal(t, 2, m.Count())
}

func TestCloseLeftmostActiveFallsRight(t *testing.T) {
	m := NewManager()
	a := newTestTab(t, "/tmp/a.go", "")
	b := newTestTab(t, "/tmp/b.go", "")
	m.Add(a)
	m.Add(b)

	require.NoError(t, m.SwitchTo(a.ID()))
	require.NoError(t, m.Close(a.ID()))
	assert.Same(t, b, m.Active(), "no left neighbor, right tab takes over")
}

func TestCloseNonActiveKeepsActive(t *testing.T) {
	m := NewManager()
	a := newTestTab(t, "/tmp/a.go", "")
	b := newTestTab(t, "/tmp/b.go", "")
	c := newTestTab(t, "/tmp/c.go", "")
	m.Add(a)
	m.Add(b)
	m.Add(c)

	require.NoError(t, m.Close(a.ID()))
	assert.Same(t, c, m.Active())
	require.NoError(t, m.Close(b.ID()))
	assert.Same(t, c, m.Active())
}

func TestCloseLastTab(t *testing.T) {
	m := NewManager()
	a := newTestTab(t, "/tmp/a.go", "")
	m.Add(a)

	require.NoError(t, m.CloseActive())
	assert.Nil(t, m.Active())
	assert.Zero(t, m.Count())
	assert.ErrorIs(t, m.CloseActive(), ErrNoTabs)
}

func TestCloseUnknownTab(t *testing.T) {
	m := NewManager()
	m.Add(newTestTab(t, "/tmp/a.go", ""))
	assert.ErrorIs(t, m.Close("nope"), ErrTabNotFound)
	assert.Equal(t, 1, m.Count())
}

func TestSwitch(t *testing.T) {
	m := NewManager()
	a := newTestTab(t, "/tmp/a.go", "")
	b := newTestTab(t, "/tmp/b.go", "")
	m.Add(a)
	m.Add(b)

	require.NoError(t, m.SwitchTo(a.ID()))
	assert.Same(t, a, m.Active())
	require.NoError(t, m.SwitchIndex(1))
	assert.Same(t, b, m.Active())

	assert.ErrorIs(t, m.SwitchTo("nope"), ErrTabNotFound)
	assert.ErrorIs(t, m.SwitchIndex(5), ErrTabNotFound)
	assert.Same(t, b, m.Active(), "failed switch leaves active unchanged")
}

func TestSwitchDoesNotRetokenize(t *testing.T) {
	m := NewManager()
	a := newTestTab(t, "/tmp/a.go", "package main\nfunc main() {}\n")
	b := newTestTab(t, "/tmp/b.go", "package other\n")
	m.Add(a)
	m.Add(b)

	_, err := a.Index().TokensForLines(0, a.Buffer().LineCount()-1)
	require.NoError(t, err)
	repairs := a.Index().Repairs()

	require.NoError(t, m.SwitchTo(b.ID()))
	require.NoError(t, m.SwitchTo(a.ID()))
	_, err = a.Index().TokensForLines(0, a.Buffer().LineCount()-1)
	require.NoError(t, err)

	assert.Equal(t, repairs, a.Index().Repairs(),
		"switching tabs must not invalidate the highlight cache")
}

func TestNextPrevWrap(t *testing.T) {
	m := NewManager()
	a := newTestTab(t, "/tmp/a.go", "")
	b := newTestTab(t, "/tmp/b.go", "")
	c := newTestTab(t, "/tmp/c.go", "")
	m.Add(a)
	m.Add(b)
	m.Add(c)

	m.Next()
	assert.Same(t, a, m.Active())
	m.Prev()
	assert.Same(t, c, m.Active())
	m.Prev()
	assert.Same(t, b, m.Active())
}

func TestMoveKeepsActive(t *testing.T) {
	m := NewManager()
	a := newTestTab(t, "/tmp/a.go", "")
	b := newTestTab(t, "/tmp/b.go", "")
	c := newTestTab(t, "/tmp/c.go", "")
	m.Add(a)
	m.Add(b)
	m.Add(c)
	require.NoError(t, m.SwitchTo(b.ID()))

	require.NoError(t, m.Move(b.ID(), 0))
	assert.Same(t, b, m.Active())
	list := m.List()
	assert.Same(t, b, list[0])
	assert.Same(t, a, list[1])

	require.NoError(t, m.Move(b.ID(), 99), "position clamps to the end")
	assert.Same(t, b, m.Active())
	assert.Same(t, b, m.List()[2])

	assert.ErrorIs(t, m.Move("nope", 0), ErrTabNotFound)
}

func TestFindByPath(t *testing.T) {
	m := NewManager()
	a := newTestTab(t, "/tmp/a.go", "")
	m.Add(a)
	m.Add(NewScratchTab(highlight.PlainGrammar()))

	got, ok := m.FindByPath("/tmp/a.go")
	assert.True(t, ok)
	assert.Same(t, a, got)

	_, ok = m.FindByPath("/tmp/missing.go")
	assert.False(t, ok)
	_, ok = m.FindByPath("")
	assert.False(t, ok, "scratch tabs are not addressable by path")
}

func TestSelectionClampsToBuffer(t *testing.T) {
	tab := newTestTab(t, "/tmp/a.go", "short")
	tab.SetSelection(cursor.At(100))
	assert.Equal(t, tab.Buffer().Len(), tab.Selection().Cursor())
}
