package highlight

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultThemeStyles(t *testing.T) {
	th := DefaultTheme()

	if s := th.StyleForToken(TokenComment); s.Foreground != "#6a9955" || !s.Italic {
		t.Errorf("comment style = %+v", s)
	}
	// markup.emphasis has its own entry; markup.heading falls through
	// to an exact entry too; an unknown type uses the foreground.
	if s := th.StyleForToken(TokenPlain); s.Foreground != th.Foreground {
		t.Errorf("plain should fall back to theme foreground, got %+v", s)
	}
}

func TestStyleScopeFallback(t *testing.T) {
	th := &Theme{
		Foreground: "#ffffff",
		Scopes: map[string]Style{
			"markup": {Foreground: "#123456"},
		},
	}
	// markup.heading is not defined; it must fall back to markup.
	if s := th.StyleForToken(TokenHeading); s.Foreground != "#123456" {
		t.Errorf("expected dotted-scope fallback, got %+v", s)
	}
	if s := th.StyleForToken(TokenKeyword); s.Foreground != "#ffffff" {
		t.Errorf("expected foreground fallback, got %+v", s)
	}
}

func TestLoadTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	data := `
name: test-theme
background: "#000000"
foreground: "#cccccc"
scopes:
  comment:
    fg: "#00ff00"
    italic: true
  keyword:
    fg: "#ff0000"
    bold: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	th, err := LoadTheme(path)
	if err != nil {
		t.Fatalf("LoadTheme: %v", err)
	}
	if th.Name != "test-theme" {
		t.Errorf("name = %q", th.Name)
	}
	if s := th.StyleForToken(TokenKeyword); s.Foreground != "#ff0000" || !s.Bold {
		t.Errorf("keyword style = %+v", s)
	}
	if s := th.StyleForToken(TokenComment); !s.Italic {
		t.Errorf("comment style = %+v", s)
	}
}

func TestLoadThemeErrors(t *testing.T) {
	if _, err := LoadTheme(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("scopes: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTheme(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}
