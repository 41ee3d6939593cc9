package highlight

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Style describes how a token scope is rendered. Colors are hex
// strings like "#d4d4d4"; empty means the terminal default.
type Style struct {
	Foreground string `yaml:"fg"`
	Background string `yaml:"bg"`
	Bold       bool   `yaml:"bold"`
	Italic     bool   `yaml:"italic"`
	Underline  bool   `yaml:"underline"`
}

// Theme maps token scopes to styles.
type Theme struct {
	Name       string           `yaml:"name"`
	Background string           `yaml:"background"`
	Foreground string           `yaml:"foreground"`
	Selection  string           `yaml:"selection"`
	Cursor     string           `yaml:"cursor"`
	Scopes     map[string]Style `yaml:"scopes"`
}

// StyleForToken returns the style for a token type, walking up dotted
// scope segments and falling back to the theme foreground.
func (t *Theme) StyleForToken(tok TokenType) Style {
	scope := tok.Scope()
	for scope != "" {
		if s, ok := t.Scopes[scope]; ok {
			return s
		}
		i := len(scope) - 1
		for i >= 0 && scope[i] != '.' {
			i--
		}
		if i < 0 {
			break
		}
		scope = scope[:i]
	}
	return Style{Foreground: t.Foreground}
}

// LoadTheme reads a theme from a YAML file.
func LoadTheme(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	var t Theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", path, err)
	}
	if t.Scopes == nil {
		t.Scopes = make(map[string]Style)
	}
	return &t, nil
}

// DefaultTheme returns the built-in dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name:       "slate-dark",
		Background: "#1e1e1e",
		Foreground: "#d4d4d4",
		Selection:  "#404080",
		Cursor:     "#ffffff",
		Scopes: map[string]Style{
			"comment":         {Foreground: "#6a9955", Italic: true},
			"string":          {Foreground: "#ce9178"},
			"number":          {Foreground: "#b5cea8"},
			"keyword":         {Foreground: "#569cd6"},
			"type":            {Foreground: "#4ec9b0"},
			"constant":        {Foreground: "#569cd6"},
			"function":        {Foreground: "#dcdcaa"},
			"identifier":      {Foreground: "#9cdcfe"},
			"meta":            {Foreground: "#c586c0"},
			"markup.heading":  {Foreground: "#569cd6", Bold: true},
			"markup.emphasis": {Foreground: "#d4d4d4", Italic: true},
			"markup.code":     {Foreground: "#ce9178"},
			"markup.link":     {Foreground: "#4ec9b0", Underline: true},
			"markup.list":     {Foreground: "#c586c0"},
			"markup.quote":    {Foreground: "#6a9955"},
		},
	}
}
