package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/slateedit/slate/internal/event"
	"github.com/slateedit/slate/internal/session"
)

// ErrNoPath indicates a save on a scratch tab without a target path.
var ErrNoPath = errors.New("tab has no file path")

// OpenFile opens a file in a new tab, or switches to it when already
// open. A path that does not exist yet opens as an empty tab bound to
// that path. Line endings normalize to LF on load.
func (a *App) OpenFile(path string) (*session.Tab, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	if tab, ok := a.tabs.FindByPath(abs); ok {
		if err := a.ctl.SwitchTab(tab.ID()); err != nil {
			return nil, err
		}
		return tab, nil
	}

	content := ""
	data, err := os.ReadFile(abs)
	switch {
	case os.IsNotExist(err):
		// New file; saved on first write.
	case err != nil:
		return nil, fmt.Errorf("open %s: %w", abs, err)
	default:
		content = string(data)
	}

	tab := session.NewTab(abs, content, a.grammars.ForFile(abs),
		session.WithUndoLimits(a.cfg.Editor.MaxUndoEntries, a.cfg.CoalesceWindow()))
	a.ctl.OpenTab(tab)
	a.log.Info("opened %s (%d bytes)", abs, len(content))
	return tab, nil
}

// NewScratch opens an empty unnamed tab.
func (a *App) NewScratch() *session.Tab {
	tab := session.NewScratchTab(a.grammars.ByLanguage("plain"),
		session.WithUndoLimits(a.cfg.Editor.MaxUndoEntries, a.cfg.CoalesceWindow()))
	a.ctl.OpenTab(tab)
	return tab
}

// SaveActive writes the active tab's content to its file and clears
// the dirty flag. Scratch tabs need SaveActiveAs.
func (a *App) SaveActive() error {
	tab := a.tabs.Active()
	if tab == nil {
		return errors.New("no active tab")
	}
	if tab.Path() == "" {
		return ErrNoPath
	}
	return a.save(tab)
}

// SaveActiveAs binds the active tab to a new path and saves it. The
// grammar switches to match the new extension.
func (a *App) SaveActiveAs(path string) error {
	tab := a.tabs.Active()
	if tab == nil {
		return errors.New("no active tab")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	tab.SetPath(abs)
	tab.Index().SetGrammar(a.grammars.ForFile(abs))
	return a.save(tab)
}

func (a *App) save(tab *session.Tab) error {
	path := tab.Path()
	if err := os.WriteFile(path, []byte(tab.Buffer().Text()), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	tab.SetDirty(false)
	a.bus.Publish(event.TopicFileSaved, tab.ID())
	a.log.Info("saved %s", path)
	return nil
}
