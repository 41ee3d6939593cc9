package highlight

// PlainGrammar returns the fallback grammar used when no language is
// recognized. Every line tokenizes to a single plain token.
func PlainGrammar() *Grammar {
	return NewGrammar("plain")
}

// GoGrammar returns the built-in Go grammar.
func GoGrammar() *Grammar {
	g := NewGrammar("go", ".go")

	g.Block("/*", "*/", TokenComment)
	g.Block("`", "`", TokenString)

	g.Rule(`//.*$`, TokenComment)
	g.Rule(`"(?:[^"\\]|\\.)*"`, TokenString)
	g.Rule(`'(?:[^'\\]|\\.)+'`, TokenString)
	g.Rule(`\b0[xX][0-9a-fA-F_]+\b`, TokenNumber)
	g.Rule(`\b0[bB][01_]+\b`, TokenNumber)
	g.Rule(`\b\d[\d_]*\.?\d*(?:[eE][+-]?\d+)?i?\b`, TokenNumber)

	g.Keywords(TokenKeyword,
		"if", "else", "for", "range", "switch", "case", "default",
		"break", "continue", "return", "goto", "fallthrough", "select",
		"func", "var", "const", "type", "struct", "interface", "map",
		"chan", "package", "import", "defer", "go")
	g.Keywords(TokenConstant, "true", "false", "nil", "iota")
	g.Keywords(TokenTypeName,
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "complex64", "complex128",
		"bool", "byte", "rune", "string", "error", "any")
	g.Keywords(TokenFunction,
		"make", "new", "len", "cap", "append", "copy", "delete",
		"close", "panic", "recover", "print", "println",
		"real", "imag", "complex", "min", "max", "clear")

	return g
}

// RustGrammar returns the built-in Rust grammar.
func RustGrammar() *Grammar {
	g := NewGrammar("rust", ".rs")

	g.Block("/*", "*/", TokenComment)

	g.Rule(`//.*$`, TokenComment)
	g.Rule(`"(?:[^"\\]|\\.)*"`, TokenString)
	g.Rule(`\b0[xX][0-9a-fA-F_]+\b`, TokenNumber)
	g.Rule(`\b0[bB][01_]+\b`, TokenNumber)
	g.Rule(`\b\d[\d_]*\.?[\d_]*(?:[eE][+-]?[\d_]+)?(?:f32|f64|i\d+|u\d+|isize|usize)?\b`, TokenNumber)
	g.Rule(`#!?\[.*?\]`, TokenMeta)

	g.Keywords(TokenKeyword,
		"if", "else", "match", "for", "while", "loop", "break",
		"continue", "return", "fn", "let", "mut", "const", "static",
		"struct", "enum", "trait", "impl", "type", "mod", "use",
		"crate", "super", "self", "pub", "where", "as", "async",
		"await", "dyn", "move", "ref", "unsafe", "extern", "in")
	g.Keywords(TokenConstant, "true", "false", "None", "Some", "Ok", "Err")
	g.Keywords(TokenTypeName,
		"i8", "i16", "i32", "i64", "i128", "isize",
		"u8", "u16", "u32", "u64", "u128", "usize",
		"f32", "f64", "bool", "char", "str", "String",
		"Vec", "Box", "Option", "Result", "Self")

	return g
}

// PythonGrammar returns the built-in Python grammar.
func PythonGrammar() *Grammar {
	g := NewGrammar("python", ".py", ".pyw", ".pyi")

	g.Block(`"""`, `"""`, TokenString)
	g.Block(`'''`, `'''`, TokenString)

	g.Rule(`#.*$`, TokenComment)
	g.Rule(`"(?:[^"\\]|\\.)*"`, TokenString)
	g.Rule(`'(?:[^'\\]|\\.)*'`, TokenString)
	g.Rule(`\b0[xX][0-9a-fA-F]+\b`, TokenNumber)
	g.Rule(`\b\d+\.?\d*(?:[eE][+-]?\d+)?j?\b`, TokenNumber)
	g.Rule(`@\w+`, TokenMeta)

	g.Keywords(TokenKeyword,
		"if", "elif", "else", "for", "while", "break", "continue",
		"return", "try", "except", "finally", "raise", "with", "as",
		"match", "case", "def", "class", "lambda", "async", "await",
		"import", "from", "global", "nonlocal", "pass", "yield",
		"assert", "del", "in", "is", "not", "and", "or")
	g.Keywords(TokenConstant, "True", "False", "None")
	g.Keywords(TokenTypeName,
		"int", "float", "str", "bool", "list", "dict", "set", "tuple",
		"bytes", "object")

	return g
}

// MarkdownGrammar returns the built-in Markdown grammar.
func MarkdownGrammar() *Grammar {
	g := NewGrammar("markdown", ".md", ".markdown")

	g.Block("```", "```", TokenCodeSpan)

	g.Rule(`^#{1,6}\s+.*$`, TokenHeading)
	g.Rule("`[^`]+`", TokenCodeSpan)
	g.Rule(`\*\*[^*]+\*\*`, TokenEmphasis)
	g.Rule(`\*[^*]+\*`, TokenEmphasis)
	g.Rule(`_[^_]+_`, TokenEmphasis)
	g.Rule(`\[[^\]]+\]\([^)]+\)`, TokenLink)
	g.Rule(`^>\s+.*$`, TokenQuote)
	g.Rule(`^\s*[-*+]\s+`, TokenListMarker)
	g.Rule(`^\s*\d+\.\s+`, TokenListMarker)

	return g
}
