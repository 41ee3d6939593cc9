package highlight

import "testing"

func TestRegistryForFile(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"lib.rs", "rust"},
		{"script.py", "python"},
		{"README.md", "markdown"},
		{"UPPER.GO", "go"},
		{"notes.txt", "plain"},
		{"Makefile", "plain"},
		{"", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if g := r.ForFile(tt.path); g.Name() != tt.want {
				t.Errorf("ForFile(%q) = %q, want %q", tt.path, g.Name(), tt.want)
			}
		})
	}
}

func TestRegistryByLanguage(t *testing.T) {
	r := DefaultRegistry()
	if g := r.ByLanguage("go"); g.Name() != "go" {
		t.Errorf("ByLanguage(go) = %q", g.Name())
	}
	if g := r.ByLanguage("cobol"); g.Name() != "plain" {
		t.Errorf("unknown language should fall back to plain, got %q", g.Name())
	}
}

func TestRegistryRegisterOverrides(t *testing.T) {
	r := DefaultRegistry()
	custom := NewGrammar("mygo", ".go")
	r.Register(custom)
	if g := r.ForFile("main.go"); g.Name() != "mygo" {
		t.Errorf("expected override grammar, got %q", g.Name())
	}
}
