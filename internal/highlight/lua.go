package highlight

import (
	"fmt"
	"regexp"

	lua "github.com/yuin/gopher-lua"
)

// LoadGrammarFile loads a grammar definition from a Lua file. The
// script must return a table:
//
//	return {
//	  name = "ini",
//	  extensions = { ".ini", ".cfg" },
//	  blocks = {
//	    { open = "--[[", close = "]]", scope = "comment" },
//	  },
//	  rules = {
//	    { pattern = [[;.*$]], scope = "comment" },
//	  },
//	  keywords = {
//	    keyword = { "true", "false" },
//	  },
//	}
//
// Scope names resolve TextMate-style; unknown scopes map to plain.
func LoadGrammarFile(path string) (*Grammar, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	// Grammar files are data, not programs; base lib only.
	lua.OpenBase(L)

	if err := L.DoFile(path); err != nil {
		return nil, fmt.Errorf("load grammar %s: %w", path, err)
	}

	tbl, ok := L.Get(-1).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("grammar %s: script must return a table", path)
	}
	return grammarFromTable(path, tbl)
}

func grammarFromTable(path string, tbl *lua.LTable) (*Grammar, error) {
	name, ok := tableString(tbl, "name")
	if !ok || name == "" {
		return nil, fmt.Errorf("grammar %s: missing name", path)
	}

	var exts []string
	if lv, ok := tbl.RawGetString("extensions").(*lua.LTable); ok {
		lv.ForEach(func(_, v lua.LValue) {
			if s, ok := v.(lua.LString); ok {
				exts = append(exts, string(s))
			}
		})
	}
	g := NewGrammar(name, exts...)

	if blocks, ok := tbl.RawGetString("blocks").(*lua.LTable); ok {
		var err error
		blocks.ForEach(func(_, v lua.LValue) {
			bt, ok := v.(*lua.LTable)
			if !ok || err != nil {
				return
			}
			open, okO := tableString(bt, "open")
			cls, okC := tableString(bt, "close")
			scope, _ := tableString(bt, "scope")
			if !okO || !okC || open == "" || cls == "" {
				err = fmt.Errorf("grammar %s: block needs open and close", path)
				return
			}
			g.Block(open, cls, TokenTypeForScope(scope))
		})
		if err != nil {
			return nil, err
		}
	}

	if rules, ok := tbl.RawGetString("rules").(*lua.LTable); ok {
		var err error
		rules.ForEach(func(_, v lua.LValue) {
			rt, ok := v.(*lua.LTable)
			if !ok || err != nil {
				return
			}
			pattern, okP := tableString(rt, "pattern")
			scope, _ := tableString(rt, "scope")
			if !okP {
				err = fmt.Errorf("grammar %s: rule needs a pattern", path)
				return
			}
			re, compileErr := regexp.Compile(pattern)
			if compileErr != nil {
				err = fmt.Errorf("grammar %s: pattern %q: %w", path, pattern, compileErr)
				return
			}
			g.rules = append(g.rules, Rule{Pattern: re, TokenType: TokenTypeForScope(scope)})
		})
		if err != nil {
			return nil, err
		}
	}

	if kws, ok := tbl.RawGetString("keywords").(*lua.LTable); ok {
		kws.ForEach(func(k, v lua.LValue) {
			scope, ok := k.(lua.LString)
			if !ok {
				return
			}
			words, ok := v.(*lua.LTable)
			if !ok {
				return
			}
			t := TokenTypeForScope(string(scope))
			words.ForEach(func(_, w lua.LValue) {
				if s, ok := w.(lua.LString); ok {
					g.Keywords(t, string(s))
				}
			})
		})
	}

	return g, nil
}

func tableString(tbl *lua.LTable, key string) (string, bool) {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s), true
	}
	return "", false
}
