package highlight

import (
	"errors"
	"sync"
)

// ErrLineOutOfRange indicates a query for a line the source does not have.
var ErrLineOutOfRange = errors.New("line out of range")

// LineSource provides line content to the index. *buffer.Buffer
// satisfies it.
type LineSource interface {
	LineCount() uint32
	LineText(line uint32) string
}

// lineEntry caches the tokenization of one line together with the lex
// states at its boundaries. startState is the checkpoint that lets a
// repair stop early: if a line's content is unchanged and its incoming
// state still matches, the cached tokens and every line after them
// remain correct.
type lineEntry struct {
	tokens     []Token
	startState LexState
	endState   LexState
	valid      bool
}

// Index is an incremental highlight cache over a line source. It never
// tokenizes eagerly: queries repair exactly the prefix of dirty lines
// they need, and a background repairer can work through the rest one
// line at a time.
//
// Lines before firstDirty are always valid and consistent: each line's
// startState equals the previous line's endState.
type Index struct {
	mu      sync.Mutex
	grammar *Grammar
	src     LineSource

	entries    []lineEntry
	firstDirty uint32

	// generation increments on every splice or grammar change. A
	// repair result computed under an older generation is discarded.
	generation uint64

	// repairs counts lines tokenized, staleDrops counts discarded
	// background results. Instrumentation only.
	repairs    uint64
	staleDrops uint64
}

// NewIndex creates an index for the source, fully dirty.
func NewIndex(g *Grammar, src LineSource) *Index {
	return &Index{
		grammar: g,
		src:     src,
		entries: make([]lineEntry, src.LineCount()),
	}
}

// Grammar returns the active grammar.
func (x *Index) Grammar() *Grammar {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.grammar
}

// SetGrammar switches the grammar and invalidates everything. Lex
// states are grammar-specific, so nothing cached can be reused.
func (x *Index) SetGrammar(g *Grammar) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.grammar = g
	x.entries = make([]lineEntry, x.src.LineCount())
	x.firstDirty = 0
	x.generation++
}

// Splice records an edit that replaced lines [startLine, oldEndLine]
// with lines [startLine, newEndLine]. Entries in the replaced span are
// dropped; entries after it shift but keep their cached tokens and
// state checkpoints, so a later repair can stop as soon as the state
// flowing into them is unchanged.
func (x *Index) Splice(startLine, oldEndLine, newEndLine uint32) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if int(oldEndLine) >= len(x.entries) {
		oldEndLine = uint32(len(x.entries)) - 1
	}
	if startLine > oldEndLine {
		startLine = oldEndLine
	}

	fresh := make([]lineEntry, newEndLine-startLine+1)
	tail := x.entries[oldEndLine+1:]
	next := make([]lineEntry, 0, int(startLine)+len(fresh)+len(tail))
	next = append(next, x.entries[:startLine]...)
	next = append(next, fresh...)
	next = append(next, tail...)
	x.entries = next

	if x.firstDirty > oldEndLine {
		x.firstDirty += newEndLine - oldEndLine
	}
	if startLine < x.firstDirty {
		x.firstDirty = startLine
	}
	x.generation++
}

// TokensForLine returns the tokens for one line, repairing the dirty
// prefix up to it if needed. The returned slice must not be modified.
func (x *Index) TokensForLine(line uint32) ([]Token, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if int(line) >= len(x.entries) {
		return nil, ErrLineOutOfRange
	}
	x.repairTo(line)
	return x.entries[line].tokens, nil
}

// TokensForLines returns tokens for the inclusive viewport
// [startLine, endLine]. Only lines up to endLine are repaired; lines
// below the viewport stay lazy.
func (x *Index) TokensForLines(startLine, endLine uint32) ([][]Token, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if startLine > endLine || int(endLine) >= len(x.entries) {
		return nil, ErrLineOutOfRange
	}
	x.repairTo(endLine)

	out := make([][]Token, 0, endLine-startLine+1)
	for line := startLine; line <= endLine; line++ {
		out = append(out, x.entries[line].tokens)
	}
	return out, nil
}

// EndState returns the lex state at the end of a line, repairing up to
// it if needed.
func (x *Index) EndState(line uint32) (LexState, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if int(line) >= len(x.entries) {
		return StateNormal, ErrLineOutOfRange
	}
	x.repairTo(line)
	return x.entries[line].endState, nil
}

// Generation returns the current invalidation generation.
func (x *Index) Generation() uint64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.generation
}

// Repairs returns the number of lines tokenized so far.
func (x *Index) Repairs() uint64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.repairs
}

// StaleDrops returns the number of background results discarded
// because the index changed while they were being computed.
func (x *Index) StaleDrops() uint64 {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.staleDrops
}

// Dirty reports whether any line still needs repair.
func (x *Index) Dirty() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return int(x.firstDirty) < len(x.entries)
}

// repairTo retokenizes dirty lines until upTo is valid. Repair walks
// forward from firstDirty, threading the lex state; it stops early
// when it reaches a line whose cached startState matches the state
// flowing into it, since everything from there on is still correct.
// Callers must hold x.mu.
func (x *Index) repairTo(upTo uint32) {
	i := x.firstDirty
	if i > upTo {
		return
	}
	incoming := StateNormal
	if i > 0 {
		incoming = x.entries[i-1].endState
	}

	for int(i) < len(x.entries) {
		e := &x.entries[i]
		if e.valid && e.startState == incoming {
			// The state chain reconnects here. Disjoint edits leave
			// more dirty lines further down; keep going while they are
			// still within the requested range.
			i = x.nextInvalid(i)
			if int(i) >= len(x.entries) || i > upTo {
				x.firstDirty = i
				return
			}
			incoming = x.entries[i-1].endState
			continue
		}
		tokens, end := x.grammar.TokenizeLine(x.src.LineText(i), incoming)
		*e = lineEntry{tokens: tokens, startState: incoming, endState: end, valid: true}
		x.repairs++
		incoming = end
		i++
		if i > upTo {
			break
		}
	}
	x.firstDirty = i
}

// nextInvalid returns the first invalid line at or after from, given
// that the state chain through the valid lines before it is intact.
func (x *Index) nextInvalid(from uint32) uint32 {
	for int(from) < len(x.entries) && x.entries[from].valid {
		from++
	}
	return from
}

// RepairStep performs one line-atomic unit of background repair:
// tokenize a single dirty line with the lock released, then commit the
// result only if no edit intervened. worked reports whether a line was
// retokenized and committed; more reports whether dirty lines remain.
func (x *Index) RepairStep() (worked, more bool) {
	x.mu.Lock()
	i := x.firstDirty
	if int(i) >= len(x.entries) {
		x.mu.Unlock()
		return false, false
	}
	incoming := StateNormal
	if i > 0 {
		incoming = x.entries[i-1].endState
	}
	if e := &x.entries[i]; e.valid && e.startState == incoming {
		x.firstDirty = x.nextInvalid(i)
		more = int(x.firstDirty) < len(x.entries)
		x.mu.Unlock()
		return false, more
	}
	gen := x.generation
	g := x.grammar
	text := x.src.LineText(i)
	x.mu.Unlock()

	tokens, end := g.TokenizeLine(text, incoming)

	x.mu.Lock()
	defer x.mu.Unlock()
	if x.generation != gen {
		// An edit landed while tokenizing; the line number and state
		// may both be wrong now. Drop the result.
		x.staleDrops++
		return false, true
	}
	x.entries[i] = lineEntry{tokens: tokens, startState: incoming, endState: end, valid: true}
	x.repairs++
	if i == x.firstDirty {
		x.firstDirty = i + 1
	}
	return true, int(x.firstDirty) < len(x.entries)
}
