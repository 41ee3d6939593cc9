package highlight

import (
	"path/filepath"
	"strings"
	"sync"
)

// Registry maps languages and file extensions to grammars. Lookups
// that match nothing fall back to the plain grammar, so callers always
// get a usable grammar back.
type Registry struct {
	mu          sync.RWMutex
	byLanguage  map[string]*Grammar
	byExtension map[string]*Grammar
	fallback    *Grammar
}

// NewRegistry creates an empty registry with a plain-text fallback.
func NewRegistry() *Registry {
	return &Registry{
		byLanguage:  make(map[string]*Grammar),
		byExtension: make(map[string]*Grammar),
		fallback:    PlainGrammar(),
	}
}

// DefaultRegistry returns a registry with the built-in grammars.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(GoGrammar())
	r.Register(RustGrammar())
	r.Register(PythonGrammar())
	r.Register(MarkdownGrammar())
	return r
}

// Register adds a grammar, replacing any previous grammar with the
// same language name or claiming the same extension.
func (r *Registry) Register(g *Grammar) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byLanguage[g.Name()] = g
	for _, ext := range g.Extensions() {
		r.byExtension[normalizeExt(ext)] = g
	}
}

// ByLanguage returns the grammar for a language name, or the plain
// fallback if none is registered.
func (r *Registry) ByLanguage(language string) *Grammar {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.byLanguage[language]; ok {
		return g
	}
	return r.fallback
}

// ForFile returns the grammar for a file path based on its extension,
// or the plain fallback for unrecognized and extension-less paths.
func (r *Registry) ForFile(path string) *Grammar {
	ext := normalizeExt(filepath.Ext(path))
	r.mu.RLock()
	defer r.mu.RUnlock()
	if g, ok := r.byExtension[ext]; ok && ext != "" {
		return g
	}
	return r.fallback
}

// Languages returns the registered language names.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	langs := make([]string, 0, len(r.byLanguage))
	for name := range r.byLanguage {
		langs = append(langs, name)
	}
	return langs
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}
