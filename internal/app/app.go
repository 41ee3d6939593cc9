// Package app wires the editor together: configuration, logging,
// grammars, themes, the tab manager, and the edit controller.
package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/slateedit/slate/internal/config"
	"github.com/slateedit/slate/internal/controller"
	"github.com/slateedit/slate/internal/event"
	"github.com/slateedit/slate/internal/highlight"
	"github.com/slateedit/slate/internal/session"
)

// App owns the long-lived editor state.
type App struct {
	cfg      config.Settings
	log      *Logger
	bus      *event.Bus
	grammars *highlight.Registry
	theme    *highlight.Theme
	tabs     *session.Manager
	ctl      *controller.Controller

	cancel  context.CancelFunc
	watcher *config.Watcher
}

// New builds an app from settings. A nil logger logs to stderr at the
// configured level.
func New(cfg config.Settings, log *Logger) (*App, error) {
	if log == nil {
		log = NewLogger(ParseLogLevel(cfg.Logging.Level), nil)
	}

	grammars := highlight.DefaultRegistry()
	if dir := cfg.Paths.GrammarDir; dir != "" {
		loadGrammarDir(grammars, dir, log)
	}

	theme := highlight.DefaultTheme()
	if cfg.UI.ThemePath != "" {
		t, err := highlight.LoadTheme(cfg.UI.ThemePath)
		if err != nil {
			log.Warn("theme %s unusable, using default: %v", cfg.UI.ThemePath, err)
		} else {
			theme = t
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus := event.NewBus()
	tabs := session.NewManager()

	return &App{
		cfg:      cfg,
		log:      log,
		bus:      bus,
		grammars: grammars,
		theme:    theme,
		tabs:     tabs,
		ctl:      controller.New(ctx, tabs, bus),
		cancel:   cancel,
	}, nil
}

// loadGrammarDir registers every .lua grammar in dir. Bad files are
// logged and skipped; the editor still starts.
func loadGrammarDir(r *highlight.Registry, dir string, log *Logger) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Warn("grammar dir %s: %v", dir, err)
		return
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		g, err := highlight.LoadGrammarFile(path)
		if err != nil {
			log.Warn("skipping grammar %s: %v", path, err)
			continue
		}
		r.Register(g)
		log.Debug("loaded grammar %q from %s", g.Name(), path)
	}
}

// WatchConfig hot-reloads the given config file. Only the settings
// that can change at runtime are applied; the rest take effect on
// restart.
func (a *App) WatchConfig(path string) error {
	w := config.NewWatcher(path,
		func(s config.Settings) {
			a.cfg = s
			a.log.SetLevel(ParseLogLevel(s.Logging.Level))
			a.bus.Publish(event.TopicConfigReloaded, s)
			a.log.Info("config reloaded from %s", path)
		},
		func(err error) {
			a.log.Warn("config reload failed, keeping old settings: %v", err)
		})
	if err := w.Start(context.Background()); err != nil {
		return err
	}
	a.watcher = w
	return nil
}

// Controller returns the edit controller.
func (a *App) Controller() *controller.Controller { return a.ctl }

// Tabs returns the tab manager.
func (a *App) Tabs() *session.Manager { return a.tabs }

// Bus returns the event bus.
func (a *App) Bus() *event.Bus { return a.bus }

// Theme returns the active theme.
func (a *App) Theme() *highlight.Theme { return a.theme }

// Grammars returns the grammar registry.
func (a *App) Grammars() *highlight.Registry { return a.grammars }

// Config returns the current settings.
func (a *App) Config() config.Settings { return a.cfg }

// Logger returns the app logger.
func (a *App) Logger() *Logger { return a.log }

// Shutdown stops background work. Unsaved changes are the caller's
// problem; the shell confirms with the user before calling this.
func (a *App) Shutdown() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	a.ctl.Close()
	a.cancel()
	a.log.Info("shutdown complete")
}
