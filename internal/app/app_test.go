package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slateedit/slate/internal/config"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(config.Default(), NullLogger)
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)
	return a
}

func TestOpenFileReadsAndNormalizes(t *testing.T) {
	a := newTestApp(t)
	path := filepath.Join(t.TempDir(), "win.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\r\nvar x = 1\r"), 0o644))

	tab, err := a.OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package main\nvar x = 1\n", tab.Buffer().Text())
	assert.False(t, tab.IsDirty())
	assert.Equal(t, "win.go", tab.Name())
	assert.Equal(t, "go", tab.Index().Grammar().Name())
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	a := newTestApp(t)
	path := filepath.Join(t.TempDir(), "new.md")

	tab, err := a.OpenFile(path)
	require.NoError(t, err)
	assert.True(t, tab.Buffer().IsEmpty())
	assert.Equal(t, "markdown", tab.Index().Grammar().Name())
}

func TestOpenSamePathSwitches(t *testing.T) {
	a := newTestApp(t)
	dir := t.TempDir()
	p1 := filepath.Join(dir, "one.go")
	p2 := filepath.Join(dir, "two.go")
	require.NoError(t, os.WriteFile(p1, []byte("one"), 0o644))
	require.NoError(t, os.WriteFile(p2, []byte("two"), 0o644))

	first, err := a.OpenFile(p1)
	require.NoError(t, err)
	_, err = a.OpenFile(p2)
	require.NoError(t, err)

	again, err := a.OpenFile(p1)
	require.NoError(t, err)
	assert.Same(t, first, again, "reopening switches instead of duplicating")
	assert.Equal(t, 2, a.Tabs().Count())
	assert.Same(t, first, a.Tabs().Active())
}

func TestSaveClearsDirty(t *testing.T) {
	a := newTestApp(t)
	path := filepath.Join(t.TempDir(), "f.txt")
	_, err := a.OpenFile(path)
	require.NoError(t, err)

	require.NoError(t, a.Controller().Insert("hello"))
	assert.True(t, a.Controller().IsDirty())

	require.NoError(t, a.SaveActive())
	assert.False(t, a.Controller().IsDirty())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestSaveScratchNeedsPath(t *testing.T) {
	a := newTestApp(t)
	tab := a.NewScratch()
	assert.Equal(t, "New file", tab.Name())
	assert.ErrorIs(t, a.SaveActive(), ErrNoPath)
}

func TestSaveAsSwitchesGrammar(t *testing.T) {
	a := newTestApp(t)
	tab := a.NewScratch()
	require.NoError(t, a.Controller().Insert("fn main() {}\n"))
	assert.Equal(t, "plain", tab.Index().Grammar().Name())

	path := filepath.Join(t.TempDir(), "main.rs")
	require.NoError(t, a.SaveActiveAs(path))

	assert.Equal(t, "main.rs", tab.Name())
	assert.Equal(t, "rust", tab.Index().Grammar().Name())
	assert.False(t, tab.IsDirty())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}\n", string(data))
}

func TestLuaGrammarsFromConfigDir(t *testing.T) {
	dir := t.TempDir()
	grammar := `
return {
  name = "conf",
  extensions = { ".conf" },
  rules = {
    { pattern = [[#.*$]], scope = "comment" },
  },
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conf.lua"), []byte(grammar), 0o644))
	// A broken grammar must not prevent startup.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.lua"), []byte("return {"), 0o644))

	cfg := config.Default()
	cfg.Paths.GrammarDir = dir
	a, err := New(cfg, NullLogger)
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)

	assert.Equal(t, "conf", a.Grammars().ForFile("app.conf").Name())
}
