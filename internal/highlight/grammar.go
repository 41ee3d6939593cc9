package highlight

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Rule matches a single-line construct with a regular expression.
type Rule struct {
	Pattern   *regexp.Regexp
	TokenType TokenType
}

// BlockRule describes a multi-line construct. A block opened by Start
// and not closed by End on the same line carries the grammar's state
// for that block to the following lines.
type BlockRule struct {
	Start     string
	End       string
	TokenType TokenType
}

// Grammar is an approximate lexer for one language. Tokenization is a
// pure function of (line, incoming state): it holds no mutable state,
// so one Grammar may serve any number of documents concurrently.
type Grammar struct {
	name       string
	extensions []string
	rules      []Rule
	keywords   map[string]TokenType
	blocks     []BlockRule
}

// NewGrammar creates an empty grammar for the named language.
func NewGrammar(name string, extensions ...string) *Grammar {
	return &Grammar{
		name:       name,
		extensions: extensions,
		keywords:   make(map[string]TokenType),
	}
}

// Rule appends a regex rule. Rules apply in the order added.
func (g *Grammar) Rule(pattern string, t TokenType) *Grammar {
	g.rules = append(g.rules, Rule{Pattern: regexp.MustCompile(pattern), TokenType: t})
	return g
}

// Keywords registers words to classify with the given token type.
func (g *Grammar) Keywords(t TokenType, words ...string) *Grammar {
	for _, w := range words {
		g.keywords[w] = t
	}
	return g
}

// Block appends a multi-line construct. The lex state for the block is
// derived from its position in the block list, so blocks must be added
// before the grammar is used.
func (g *Grammar) Block(start, end string, t TokenType) *Grammar {
	g.blocks = append(g.blocks, BlockRule{Start: start, End: end, TokenType: t})
	return g
}

// Name returns the language name.
func (g *Grammar) Name() string { return g.name }

// Extensions returns the file extensions the grammar claims.
func (g *Grammar) Extensions() []string { return g.extensions }

// stateFor returns the lex state for the i-th block rule.
func stateFor(i int) LexState { return LexState(i + 1) }

// blockForState returns the block rule that owns a non-normal state.
func (g *Grammar) blockForState(s LexState) (BlockRule, bool) {
	i := int(s) - 1
	if i < 0 || i >= len(g.blocks) {
		return BlockRule{}, false
	}
	return g.blocks[i], true
}

// TokenizeLine tokenizes one line given the state at the end of the
// previous line, returning the tokens and the state at the end of this
// line. The line must not contain newline characters. Tokens cover the
// whole line, are sorted by start column, and never split a rune.
func (g *Grammar) TokenizeLine(line string, state LexState) ([]Token, LexState) {
	if line == "" {
		return nil, g.continuedState(state)
	}

	tokens := make([]Token, 0, 8)
	offset := 0

	// Close out a block construct continuing from the previous line.
	if block, ok := g.blockForState(state); ok {
		idx := strings.Index(line, block.End)
		if idx < 0 {
			return []Token{{Type: block.TokenType, StartCol: 0, EndCol: uint32(len(line))}}, state
		}
		end := idx + len(block.End)
		tokens = append(tokens, Token{Type: block.TokenType, StartCol: 0, EndCol: uint32(end)})
		offset = end
		if offset == len(line) {
			return tokens, StateNormal
		}
	}

	rest, endState := g.tokenizeNormal(line[offset:])
	for i := range rest {
		rest[i].StartCol += uint32(offset)
		rest[i].EndCol += uint32(offset)
	}
	return append(tokens, rest...), endState
}

// continuedState maps an incoming state to the state of an empty line.
func (g *Grammar) continuedState(state LexState) LexState {
	if _, ok := g.blockForState(state); ok {
		return state
	}
	return StateNormal
}

// tokenizeNormal tokenizes a line fragment starting in the normal
// state. Matching happens in phases over a coverage map: block
// constructs first, then regex rules in order, then identifiers and
// keywords, then plain filler for anything left.
func (g *Grammar) tokenizeNormal(line string) ([]Token, LexState) {
	tokens := make([]Token, 0, 8)
	covered := make([]bool, len(line))
	state := StateNormal

	// Block constructs, earliest occurrence first.
	pos := 0
	for pos < len(line) {
		bi, idx := g.earliestBlock(line, pos)
		if idx < 0 {
			break
		}
		block := g.blocks[bi]
		bodyStart := idx + len(block.Start)
		endIdx := strings.Index(line[bodyStart:], block.End)
		if endIdx < 0 {
			tokens = append(tokens, Token{Type: block.TokenType, StartCol: uint32(idx), EndCol: uint32(len(line))})
			markCovered(covered, idx, len(line))
			state = stateFor(bi)
			break
		}
		end := bodyStart + endIdx + len(block.End)
		tokens = append(tokens, Token{Type: block.TokenType, StartCol: uint32(idx), EndCol: uint32(end)})
		markCovered(covered, idx, end)
		pos = end
	}

	for _, rule := range g.rules {
		for _, m := range rule.Pattern.FindAllStringIndex(line, -1) {
			if m[1] > m[0] && !anyCovered(covered, m[0], m[1]) {
				tokens = append(tokens, Token{Type: rule.TokenType, StartCol: uint32(m[0]), EndCol: uint32(m[1])})
				markCovered(covered, m[0], m[1])
			}
		}
	}

	tokens = append(tokens, g.scanWords(line, covered)...)
	tokens = append(tokens, fillPlain(line, covered)...)

	sort.Slice(tokens, func(i, j int) bool { return tokens[i].StartCol < tokens[j].StartCol })
	return tokens, state
}

// earliestBlock finds the leftmost uncovered block start at or after
// pos. Ties between blocks go to the one added first.
func (g *Grammar) earliestBlock(line string, pos int) (blockIdx, at int) {
	blockIdx, at = -1, -1
	for i, b := range g.blocks {
		idx := strings.Index(line[pos:], b.Start)
		if idx < 0 {
			continue
		}
		idx += pos
		if at < 0 || idx < at {
			blockIdx, at = i, idx
		}
	}
	return blockIdx, at
}

// scanWords emits identifier and keyword tokens for uncovered words.
func (g *Grammar) scanWords(line string, covered []bool) []Token {
	var tokens []Token
	i := 0
	for i < len(line) {
		if covered[i] {
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(line[i:])
		if !isWordStart(r) {
			i += size
			continue
		}
		start := i
		for i < len(line) {
			r, size = utf8.DecodeRuneInString(line[i:])
			if !isWordPart(r) {
				break
			}
			i += size
		}
		if anyCovered(covered, start, i) {
			continue
		}
		t := TokenIdentifier
		if kw, ok := g.keywords[line[start:i]]; ok {
			t = kw
		}
		tokens = append(tokens, Token{Type: t, StartCol: uint32(start), EndCol: uint32(i)})
		markCovered(covered, start, i)
	}
	return tokens
}

func isWordStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }
func isWordPart(r rune) bool  { return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' }

// fillPlain covers every remaining gap with plain tokens. Gaps are
// extended to rune boundaries so plain tokens never split a rune.
func fillPlain(line string, covered []bool) []Token {
	var tokens []Token
	i := 0
	for i < len(line) {
		if covered[i] {
			i++
			continue
		}
		start := i
		for i < len(line) && !covered[i] {
			_, size := utf8.DecodeRuneInString(line[i:])
			i += size
		}
		tokens = append(tokens, Token{Type: TokenPlain, StartCol: uint32(start), EndCol: uint32(i)})
	}
	return tokens
}

func anyCovered(covered []bool, start, end int) bool {
	for i := start; i < end && i < len(covered); i++ {
		if covered[i] {
			return true
		}
	}
	return false
}

func markCovered(covered []bool, start, end int) {
	for i := start; i < end && i < len(covered); i++ {
		covered[i] = true
	}
}
