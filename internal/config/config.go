// Package config loads editor settings from a TOML file with
// environment overrides and supports hot reload of the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "SLATE_"

// Editor holds text editing settings.
type Editor struct {
	TabWidth         int   `toml:"tab_width"`
	UndoCoalesceMS   int64 `toml:"undo_coalesce_ms"`
	MaxUndoEntries   int   `toml:"max_undo_entries"`
	AutosaveOnSwitch bool  `toml:"autosave_on_switch"`
}

// UI holds presentation settings.
type UI struct {
	Theme      string `toml:"theme"`
	ThemePath  string `toml:"theme_path"`
	ShowTabBar bool   `toml:"show_tab_bar"`
}

// Paths holds filesystem locations.
type Paths struct {
	GrammarDir string `toml:"grammar_dir"`
}

// Logging holds logger settings.
type Logging struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Settings is the full editor configuration.
type Settings struct {
	Editor  Editor  `toml:"editor"`
	UI      UI      `toml:"ui"`
	Paths   Paths   `toml:"paths"`
	Logging Logging `toml:"logging"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Editor: Editor{
			TabWidth:       4,
			UndoCoalesceMS: 500,
			MaxUndoEntries: 1000,
		},
		UI: UI{
			Theme:      "slate-dark",
			ShowTabBar: true,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// CoalesceWindow returns the undo coalescing window as a duration.
func (s Settings) CoalesceWindow() time.Duration {
	return time.Duration(s.Editor.UndoCoalesceMS) * time.Millisecond
}

// Load reads settings from a TOML file, applies environment
// overrides, and validates the result. A missing file is not an
// error; defaults plus environment apply.
func Load(path string) (Settings, error) {
	s := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// Fall through to env overrides.
		case err != nil:
			return s, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&s)

	if err := s.validate(); err != nil {
		return s, err
	}
	return s, nil
}

// applyEnv overrides settings from SLATE_* environment variables.
func applyEnv(s *Settings) {
	if v, ok := os.LookupEnv(EnvPrefix + "TAB_WIDTH"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			s.Editor.TabWidth = n
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "UNDO_COALESCE_MS"); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			s.Editor.UndoCoalesceMS = n
		}
	}
	if v, ok := os.LookupEnv(EnvPrefix + "THEME"); ok {
		s.UI.Theme = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "THEME_PATH"); ok {
		s.UI.ThemePath = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "GRAMMAR_DIR"); ok {
		s.Paths.GrammarDir = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_LEVEL"); ok {
		s.Logging.Level = v
	}
	if v, ok := os.LookupEnv(EnvPrefix + "LOG_FILE"); ok {
		s.Logging.File = v
	}
}

func (s Settings) validate() error {
	if s.Editor.TabWidth < 1 || s.Editor.TabWidth > 16 {
		return fmt.Errorf("tab_width %d out of range [1,16]", s.Editor.TabWidth)
	}
	if s.Editor.UndoCoalesceMS < 0 {
		return fmt.Errorf("undo_coalesce_ms must not be negative")
	}
	if s.Editor.MaxUndoEntries < 0 {
		return fmt.Errorf("max_undo_entries must not be negative")
	}
	switch s.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", s.Logging.Level)
	}
	return nil
}
