package highlight

import (
	"os"
	"path/filepath"
	"testing"
)

func writeGrammarFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grammar.lua")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadGrammarFile(t *testing.T) {
	path := writeGrammarFile(t, `
return {
  name = "ini",
  extensions = { ".ini", ".cfg" },
  rules = {
    { pattern = [[;.*$]], scope = "comment" },
    { pattern = "\\[[^\\]]*\\]", scope = "meta" },
  },
  keywords = {
    constant = { "true", "false", "yes", "no" },
  },
}
`)

	g, err := LoadGrammarFile(path)
	if err != nil {
		t.Fatalf("LoadGrammarFile: %v", err)
	}
	if g.Name() != "ini" {
		t.Errorf("name = %q", g.Name())
	}
	if len(g.Extensions()) != 2 {
		t.Errorf("extensions = %v", g.Extensions())
	}

	line := "enabled = true ; comment"
	tokens, state := g.TokenizeLine(line, StateNormal)
	if state != StateNormal {
		t.Errorf("state = %d", state)
	}
	checkCoverage(t, line, tokens)
	if tok, _ := tokenAt(tokens, 10); tok.Type != TokenConstant {
		t.Errorf("expected constant at col 10, got %v", tok.Type)
	}
	if tok, _ := tokenAt(tokens, 16); tok.Type != TokenComment {
		t.Errorf("expected comment at col 16, got %v", tok.Type)
	}
}

func TestLoadGrammarFileBlocks(t *testing.T) {
	path := writeGrammarFile(t, `
return {
  name = "sql",
  extensions = { ".sql" },
  blocks = {
    { open = "/*", close = "*/", scope = "comment" },
  },
  rules = {
    { pattern = [[--.*$]], scope = "comment" },
  },
}
`)

	g, err := LoadGrammarFile(path)
	if err != nil {
		t.Fatalf("LoadGrammarFile: %v", err)
	}

	_, state := g.TokenizeLine("SELECT 1 /* note", StateNormal)
	if state == StateNormal {
		t.Error("expected open block state")
	}
	tokens, state := g.TokenizeLine("end */ SELECT", state)
	if state != StateNormal {
		t.Error("expected normal state after close")
	}
	if tok, _ := tokenAt(tokens, 0); tok.Type != TokenComment {
		t.Errorf("expected comment prefix, got %v", tok.Type)
	}
}

func TestLoadGrammarFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not a table", `return 42`},
		{"missing name", `return { extensions = { ".x" } }`},
		{"bad pattern", `return { name = "x", rules = { { pattern = "[" } } }`},
		{"block missing close", `return { name = "x", blocks = { { open = "<" } } }`},
		{"syntax error", `return {`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeGrammarFile(t, tt.content)
			if _, err := LoadGrammarFile(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}
