package main

import (
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/slateedit/slate/internal/app"
	"github.com/slateedit/slate/internal/engine/buffer"
	"github.com/slateedit/slate/internal/engine/cursor"
	"github.com/slateedit/slate/internal/event"
	"github.com/slateedit/slate/internal/highlight"
	"github.com/slateedit/slate/internal/session"
)

// shell is the terminal front end. It renders through engine queries
// and forwards key events as edit intents; all document state lives
// behind the controller.
type shell struct {
	app    *app.App
	screen tcell.Screen

	top     uint32 // first visible buffer line
	status  string // transient status message
	closing bool   // quit requested once with unsaved changes
	done    atomic.Bool
}

func newShell(a *app.App) (*shell, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	s := &shell{app: a, screen: screen}

	// Background repair and config reloads happen off the event loop;
	// poke the screen so the next poll redraws with fresh tokens.
	redraw := func(event.Topic, any) {
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
	a.Bus().Subscribe(event.TopicLinesRepaired, redraw)
	a.Bus().Subscribe(event.TopicConfigReloaded, redraw)
	return s, nil
}

func (s *shell) run() error {
	defer s.screen.Fini()

	for !s.done.Load() {
		s.draw()
		switch ev := s.screen.PollEvent().(type) {
		case *tcell.EventResize:
			s.screen.Sync()
		case *tcell.EventKey:
			s.handleKey(ev)
		}
	}
	return nil
}

// quit requests shutdown from another goroutine.
func (s *shell) quit() {
	s.done.Store(true)
	_ = s.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

// Input

func (s *shell) handleKey(ev *tcell.EventKey) {
	ctl := s.app.Controller()
	tab := s.app.Tabs().Active()

	switch ev.Key() {
	case tcell.KeyCtrlQ:
		s.requestQuit()
		return
	case tcell.KeyCtrlN:
		s.app.NewScratch()
		s.closing = false
		return
	case tcell.KeyCtrlW:
		if err := ctl.CloseActiveTab(); err == nil && s.app.Tabs().Count() == 0 {
			s.done.Store(true)
		}
		return
	}

	if tab == nil {
		return
	}

	switch ev.Key() {
	case tcell.KeyCtrlS:
		if err := s.app.SaveActive(); err != nil {
			s.status = fmt.Sprintf("save failed: %v", err)
		} else {
			s.status = "saved " + tab.Path()
		}
	case tcell.KeyCtrlZ:
		if err := ctl.Undo(); err != nil {
			s.status = "nothing to undo"
		}
	case tcell.KeyCtrlY:
		if err := ctl.Redo(); err != nil {
			s.status = "nothing to redo"
		}
	case tcell.KeyCtrlA:
		_ = ctl.SelectAll()
	case tcell.KeyEnter:
		_ = ctl.Insert("\n")
	case tcell.KeyTab:
		// Tab expansion is a front-end choice; the engine stores
		// whatever it is given.
		_ = ctl.Insert(strings.Repeat(" ", s.app.Config().Editor.TabWidth))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		_ = ctl.DeleteBackward()
	case tcell.KeyDelete:
		_ = ctl.DeleteForward()
	case tcell.KeyLeft:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			s.app.Tabs().Prev()
		} else {
			s.moveHorizontal(tab, -1, ev.Modifiers()&tcell.ModShift != 0)
		}
	case tcell.KeyRight:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			s.app.Tabs().Next()
		} else {
			s.moveHorizontal(tab, 1, ev.Modifiers()&tcell.ModShift != 0)
		}
	case tcell.KeyUp:
		s.moveVertical(tab, -1, ev.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyDown:
		s.moveVertical(tab, 1, ev.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyHome:
		p := tab.Buffer().OffsetToPoint(tab.Selection().Cursor())
		s.placeCursor(tab, tab.Buffer().LineStartOffset(p.Line), ev.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyEnd:
		p := tab.Buffer().OffsetToPoint(tab.Selection().Cursor())
		s.placeCursor(tab, tab.Buffer().LineEndOffset(p.Line), ev.Modifiers()&tcell.ModShift != 0)
	case tcell.KeyPgUp:
		s.moveVertical(tab, -s.viewportHeight(), false)
	case tcell.KeyPgDn:
		s.moveVertical(tab, s.viewportHeight(), false)
	case tcell.KeyRune:
		_ = ctl.Insert(string(ev.Rune()))
	}

	s.closing = false
}

func (s *shell) requestQuit() {
	dirty := false
	for _, t := range s.app.Tabs().List() {
		if t.IsDirty() {
			dirty = true
			break
		}
	}
	if dirty && !s.closing {
		s.closing = true
		s.status = "unsaved changes; Ctrl+Q again to discard"
		return
	}
	s.done.Store(true)
}

func (s *shell) moveHorizontal(tab *session.Tab, dir int, extend bool) {
	buf := tab.Buffer()
	cur := tab.Selection().Cursor()
	var to buffer.ByteOffset
	if dir < 0 {
		if cur == 0 {
			return
		}
		start := cur - utf8.UTFMax
		if start < 0 {
			start = 0
		}
		_, size := utf8.DecodeLastRuneInString(buf.TextRange(start, cur))
		if size == 0 {
			size = 1
		}
		to = cur - buffer.ByteOffset(size)
	} else {
		if cur >= buf.Len() {
			return
		}
		_, size := buf.RuneAt(cur)
		if size == 0 {
			size = 1
		}
		to = cur + buffer.ByteOffset(size)
	}
	s.placeCursor(tab, to, extend)
}

func (s *shell) moveVertical(tab *session.Tab, delta int, extend bool) {
	buf := tab.Buffer()
	p := buf.OffsetToPoint(tab.Selection().Cursor())
	line := int(p.Line) + delta
	if line < 0 {
		line = 0
	}
	if max := int(buf.LineCount()) - 1; line > max {
		line = max
	}
	to := buf.PointToOffset(buffer.Point{Line: uint32(line), Column: p.Column})
	s.placeCursor(tab, to, extend)
}

func (s *shell) placeCursor(tab *session.Tab, to buffer.ByteOffset, extend bool) {
	if extend {
		tab.SetSelection(tab.Selection().Extend(to))
	} else {
		tab.SetSelection(cursor.At(to))
	}
}

// Rendering

func (s *shell) viewportHeight() int {
	_, h := s.screen.Size()
	h -= 2 // tab bar and status line
	if h < 1 {
		h = 1
	}
	return h
}

func (s *shell) draw() {
	s.screen.Clear()
	w, _ := s.screen.Size()
	theme := s.app.Theme()
	base := styleFor(highlight.Style{Foreground: theme.Foreground, Background: theme.Background})

	s.drawTabBar(w, base)

	tab := s.app.Tabs().Active()
	if tab != nil {
		s.drawViewport(tab, w, base)
	}
	s.drawStatus(tab, w, base)
	s.screen.Show()
}

func (s *shell) drawTabBar(w int, base tcell.Style) {
	if !s.app.Config().UI.ShowTabBar {
		return
	}
	active := s.app.Tabs().ActiveIndex()
	col := 0
	for i, t := range s.app.Tabs().List() {
		label := " " + t.Title() + " "
		style := base.Reverse(i == active)
		col = s.print(col, 0, w, label, style)
		if col >= w {
			break
		}
	}
	for col < w {
		s.screen.SetContent(col, 0, ' ', nil, base)
		col++
	}
}

func (s *shell) drawViewport(tab *session.Tab, w int, base tcell.Style) {
	buf := tab.Buffer()
	height := s.viewportHeight()
	s.scrollTo(tab, height)

	end := s.top + uint32(height) - 1
	if last := buf.LineCount() - 1; end > last {
		end = last
	}
	lineTokens, err := tab.Index().TokensForLines(s.top, end)
	if err != nil {
		return
	}
	theme := s.app.Theme()

	cur := tab.Selection().Cursor()
	curPoint := buf.OffsetToPoint(cur)

	for row := 0; row < height; row++ {
		line := s.top + uint32(row)
		if line > end {
			break
		}
		text := buf.LineText(line)
		tokens := lineTokens[row]

		col := 0
		for _, tok := range tokens {
			style := styleFor(theme.StyleForToken(tok.Type))
			col = s.print(col, row+1, w, text[tok.StartCol:tok.EndCol], style)
			if col >= w {
				break
			}
		}
		if line == curPoint.Line {
			s.screen.ShowCursor(displayWidth(text[:curPoint.Column], s.app.Config().Editor.TabWidth), row+1)
		}
	}
}

// scrollTo keeps the cursor inside the viewport.
func (s *shell) scrollTo(tab *session.Tab, height int) {
	line := tab.Buffer().OffsetToPoint(tab.Selection().Cursor()).Line
	if line < s.top {
		s.top = line
	}
	if line >= s.top+uint32(height) {
		s.top = line - uint32(height) + 1
	}
}

func (s *shell) drawStatus(tab *session.Tab, w int, base tcell.Style) {
	_, h := s.screen.Size()
	row := h - 1

	left := s.status
	s.status = ""
	if left == "" && tab != nil {
		p := tab.Buffer().OffsetToPoint(tab.Selection().Cursor())
		// 1-based for display.
		left = fmt.Sprintf("%s  %d:%d", tab.Title(), p.Line+1, p.Column+1)
	}

	style := base.Reverse(true)
	col := s.print(0, row, w, left, style)
	for col < w {
		s.screen.SetContent(col, row, ' ', nil, style)
		col++
	}
}

// print draws a string and returns the next column. Tabs advance to
// the next tab stop.
func (s *shell) print(col, row, maxW int, text string, style tcell.Style) int {
	tabWidth := s.app.Config().Editor.TabWidth
	for _, r := range text {
		if col >= maxW {
			break
		}
		if r == '\t' {
			next := (col/tabWidth + 1) * tabWidth
			for col < next && col < maxW {
				s.screen.SetContent(col, row, ' ', nil, style)
				col++
			}
			continue
		}
		s.screen.SetContent(col, row, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
	return col
}

func displayWidth(text string, tabWidth int) int {
	w := 0
	for _, r := range text {
		if r == '\t' {
			w = (w/tabWidth + 1) * tabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

func styleFor(st highlight.Style) tcell.Style {
	style := tcell.StyleDefault
	if st.Foreground != "" {
		style = style.Foreground(tcell.GetColor(st.Foreground))
	}
	if st.Background != "" {
		style = style.Background(tcell.GetColor(st.Background))
	}
	return style.Bold(st.Bold).Italic(st.Italic).Underline(st.Underline)
}
