// Package highlight provides approximate lexical tokenization and an
// incremental per-line highlight cache for the editor engine.
package highlight

// TokenType classifies a token for styling purposes.
type TokenType uint16

// Token types. The set is deliberately coarse: the tokenizer does
// approximate lexing, not parsing.
const (
	// TokenPlain marks text with no special classification. Every
	// column of a tokenized line is covered by some token, so runs of
	// unclassified text are emitted as plain tokens.
	TokenPlain TokenType = iota

	TokenComment
	TokenString
	TokenNumber
	TokenKeyword
	TokenTypeName
	TokenConstant
	TokenIdentifier
	TokenFunction
	TokenMeta

	TokenHeading
	TokenEmphasis
	TokenCodeSpan
	TokenLink
	TokenListMarker
	TokenQuote

	tokenTypeCount
)

// tokenTypeScopes maps token types to theme scope names.
var tokenTypeScopes = []string{
	TokenPlain:      "plain",
	TokenComment:    "comment",
	TokenString:     "string",
	TokenNumber:     "number",
	TokenKeyword:    "keyword",
	TokenTypeName:   "type",
	TokenConstant:   "constant",
	TokenIdentifier: "identifier",
	TokenFunction:   "function",
	TokenMeta:       "meta",
	TokenHeading:    "markup.heading",
	TokenEmphasis:   "markup.emphasis",
	TokenCodeSpan:   "markup.code",
	TokenLink:       "markup.link",
	TokenListMarker: "markup.list",
	TokenQuote:      "markup.quote",
}

// Scope returns the theme scope name for the token type.
func (t TokenType) Scope() string {
	if int(t) < len(tokenTypeScopes) {
		return tokenTypeScopes[t]
	}
	return "plain"
}

// String implements fmt.Stringer.
func (t TokenType) String() string { return t.Scope() }

// TokenTypeForScope resolves a scope name to a token type, walking up
// dotted scope segments ("markup.heading" falls back to "markup" and so
// on). Unknown scopes resolve to TokenPlain.
func TokenTypeForScope(scope string) TokenType {
	for scope != "" {
		if t, ok := scopeToToken[scope]; ok {
			return t
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
	return TokenPlain
}

var scopeToToken = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenTypeScopes))
	for i, s := range tokenTypeScopes {
		if s != "" {
			m[s] = TokenType(i)
		}
	}
	return m
}()

// Token is a classified span of a single line. Columns are byte
// offsets within the line, 0-indexed, end exclusive. Token boundaries
// always fall on UTF-8 rune boundaries.
type Token struct {
	Type     TokenType
	StartCol uint32
	EndCol   uint32
}

// Len returns the token length in bytes.
func (t Token) Len() uint32 { return t.EndCol - t.StartCol }

// Contains reports whether col falls inside the token.
func (t Token) Contains(col uint32) bool {
	return col >= t.StartCol && col < t.EndCol
}

// LexState is the tokenizer state carried across line boundaries.
// StateNormal means no multi-line construct is open; any other value
// identifies an open block construct of the grammar that produced it.
// States from different grammars are not comparable.
type LexState uint32

// StateNormal is the state outside any multi-line construct.
const StateNormal LexState = 0
