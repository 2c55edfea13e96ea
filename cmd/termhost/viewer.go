package main

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"github.com/dshills/termhost/internal/app"
	"github.com/dshills/termhost/internal/input/key"
	"github.com/dshills/termhost/internal/input/shortcut"
	"github.com/dshills/termhost/internal/search"
	"github.com/dshills/termhost/internal/session"
	"github.com/dshills/termhost/internal/terminal"
)

// statusRows is the height of the status bar below the session area.
const statusRows = 1

// Interrupt payloads posted to the event loop.
type (
	redrawEvent struct{}
	quitEvent   struct{}
)

// viewer renders the active session with tcell and turns screen events
// into App calls. Everything except search state is owned by the event
// loop goroutine.
type viewer struct {
	app    *app.App
	screen tcell.Screen
	logger *zap.Logger

	scroll  int64 // lines above the live viewport
	finding bool
	query   []rune
	pasting bool
	paste   strings.Builder
	quit    bool

	pending atomic.Bool

	mu     sync.Mutex
	search search.State
	reveal bool
}

func runViewer(ctx context.Context, a *app.App) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnablePaste()

	v := &viewer{
		app:    a,
		screen: screen,
		logger: a.Logger().Component("viewer"),
		search: search.Idle(),
	}
	v.bind()
	v.resize()

	sub := a.Sessions().Subscribe(session.WithBuffer(256))
	defer sub.Unsubscribe()
	go v.forward(sub)

	go func() {
		<-ctx.Done()
		v.post(quitEvent{})
	}()

	if _, err := a.NewSession(ctx); err != nil {
		return err
	}
	return v.loop(ctx)
}

// bind registers the actions the viewer implements.
func (v *viewer) bind() {
	v.app.Handle(shortcut.ActionFind, v.openFind)
	v.app.Handle(shortcut.ActionCopy, v.copy)
	v.app.Handle(shortcut.ActionPaste, func() { v.screen.GetClipboard() })
	v.app.Handle(shortcut.ActionQuit, func() { v.quit = true })
	v.app.Handle(shortcut.ActionScrollPageUp, func() { v.setScroll(v.scroll + int64(v.pageRows())) })
	v.app.Handle(shortcut.ActionScrollPageDown, func() { v.setScroll(v.scroll - int64(v.pageRows())) })
	v.app.Handle(shortcut.ActionScrollTop, func() { v.setScroll(v.maxScroll()) })
	v.app.Handle(shortcut.ActionScrollBottom, func() { v.setScroll(0) })
	v.app.OnSearch(v.onSearch)
}

func (v *viewer) post(data any) {
	// A full queue drops the event; the next one redraws anyway.
	_ = v.screen.PostEvent(tcell.NewEventInterrupt(data))
}

// requestRedraw wakes the loop unless a wakeup is already queued.
func (v *viewer) requestRedraw() {
	if !v.pending.CompareAndSwap(false, true) {
		return
	}
	if err := v.screen.PostEvent(tcell.NewEventInterrupt(redrawEvent{})); err != nil {
		v.pending.Store(false)
	}
}

// forward turns session events into loop wakeups.
func (v *viewer) forward(sub *session.Subscription) {
	for ev := range sub.Events() {
		if _, ok := ev.(session.BellTriggered); ok {
			_ = v.screen.Beep()
		}
		v.requestRedraw()
	}
}

func (v *viewer) onSearch(st search.State) {
	v.mu.Lock()
	v.search = st
	v.reveal = true
	v.mu.Unlock()
	v.requestRedraw()
}

func (v *viewer) loop(ctx context.Context) error {
	for !v.quit {
		v.pending.Store(false)
		if v.reapExited(ctx) {
			return nil
		}
		v.draw()

		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.resize()
			v.screen.Sync()
		case *tcell.EventPaste:
			if ev.Start() {
				v.pasting = true
				v.paste.Reset()
			} else {
				v.pasting = false
				v.sendPaste(v.paste.String())
			}
		case *tcell.EventClipboard:
			v.sendPaste(string(ev.Data()))
		case *tcell.EventKey:
			if v.pasting {
				v.collectPaste(ev)
				continue
			}
			v.handleKey(ev)
		case *tcell.EventInterrupt:
			if _, ok := ev.Data().(quitEvent); ok {
				return nil
			}
		}
	}
	return nil
}

// reapExited closes every session whose shell has exited. State is read on
// each pass rather than from events, so a wakeup lost to a full queue only
// delays the close. It reports whether no sessions remain.
func (v *viewer) reapExited(ctx context.Context) bool {
	sessions := v.app.Sessions()
	for _, id := range exitedIDs(sessions.Sessions()) {
		if active := sessions.ActiveSession(); active != nil && active.ID() == id {
			_ = v.app.CloseActive(ctx)
			v.setScroll(0)
		} else {
			sessions.CloseSession(ctx, id)
		}
	}
	return len(sessions.Sessions()) == 0
}

func exitedIDs(sessions []*session.Session) []string {
	var ids []string
	for _, s := range sessions {
		if s.State() == session.StateExited {
			ids = append(ids, s.ID())
		}
	}
	return ids
}

func (v *viewer) resize() {
	w, h := v.screen.Size()
	v.app.SetViewportSize(w, max(h-statusRows, 1))
	v.setScroll(v.scroll)
}

func (v *viewer) handleKey(ev *tcell.EventKey) {
	k, ok := convertKey(ev)
	if !ok {
		v.logger.Debug("unmapped key", zap.String("key", ev.Name()))
		return
	}
	if v.finding && v.findKey(k) {
		return
	}
	if v.app.HandleKey(k) == shortcut.OutcomePassedThrough {
		v.setScroll(0)
	}
}

func (v *viewer) openFind() {
	v.finding = true
	v.query = v.query[:0]
}

func (v *viewer) closeFind() {
	v.finding = false
	v.query = v.query[:0]
	v.app.ClearSearch()
}

// findKey edits the search query. It returns false for keys the search bar
// does not use, which then go through the shortcut router.
func (v *viewer) findKey(k key.Event) bool {
	switch {
	case k.Key == key.KeyRune && !k.Modifiers.Has(key.ModCtrl|key.ModAlt|key.ModMeta):
		v.query = append(v.query, k.Rune)
	case k.Key == key.KeyBackspace:
		if len(v.query) > 0 {
			v.query = v.query[:len(v.query)-1]
		}
	case k.Key == key.KeyEnter && k.Modifiers.HasShift():
		v.app.FindPrevious()
		return true
	case k.Key == key.KeyEnter:
		v.app.FindNext()
		return true
	case k.Key == key.KeyEscape:
		v.closeFind()
		return true
	default:
		return false
	}
	v.app.UpdateQuery(string(v.query))
	return true
}

func (v *viewer) copy() {
	var text string
	v.mu.Lock()
	if cur := v.search.CurrentResult(); v.finding && cur != nil {
		text = cur.MatchedText
	}
	v.mu.Unlock()

	if text == "" {
		s := v.app.Sessions().ActiveSession()
		if s == nil {
			return
		}
		top, rows := v.viewTop(s.Buffer())
		var sb strings.Builder
		for i, l := range s.Buffer().Range(top, top+int64(rows)-1) {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(l.Text())
		}
		text = strings.TrimRight(sb.String(), "\n")
	}
	v.screen.SetClipboard([]byte(text))
}

func (v *viewer) collectPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		v.paste.WriteRune(ev.Rune())
	case tcell.KeyEnter:
		v.paste.WriteByte('\r')
	case tcell.KeyTab:
		v.paste.WriteByte('\t')
	}
}

func (v *viewer) sendPaste(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\r")
	text = strings.ReplaceAll(text, "\n", "\r")
	// Bracketed paste mode is not tracked per session, so paste raw.
	if v.app.Paste(text, false) {
		v.setScroll(0)
	}
}

func (v *viewer) pageRows() int {
	_, h := v.screen.Size()
	return max(h-statusRows, 1)
}

// liveTop returns the first line of the live viewport of b.
func liveTop(b *terminal.Buffer) int64 {
	_, rows := b.Size()
	return max(b.FirstIndex(), b.LastIndex()-int64(rows)+1)
}

func (v *viewer) maxScroll() int64 {
	s := v.app.Sessions().ActiveSession()
	if s == nil {
		return 0
	}
	b := s.Buffer()
	return liveTop(b) - b.FirstIndex()
}

func (v *viewer) setScroll(n int64) {
	v.scroll = min(max(n, 0), v.maxScroll())
}

// viewTop returns the first displayed line and the number of rows.
func (v *viewer) viewTop(b *terminal.Buffer) (int64, int) {
	rows := v.pageRows()
	return max(b.FirstIndex(), liveTop(b)-v.scroll), rows
}

// revealLine scrolls so line is on screen, centering it when it was not.
func (v *viewer) revealLine(b *terminal.Buffer, line int64) {
	top, rows := v.viewTop(b)
	if line >= top && line < top+int64(rows) {
		return
	}
	v.setScroll(liveTop(b) - (line - int64(rows)/2))
}

func (v *viewer) draw() {
	v.screen.Clear()
	w, h := v.screen.Size()

	s := v.app.Sessions().ActiveSession()
	if s != nil {
		v.drawSession(s.Buffer(), w)
	} else {
		v.screen.HideCursor()
	}
	v.drawStatus(w, h-statusRows)
	v.screen.Show()
}

func (v *viewer) drawSession(b *terminal.Buffer, w int) {
	v.mu.Lock()
	st := v.search
	reveal := v.reveal
	v.reveal = false
	v.mu.Unlock()

	if cur := st.CurrentResult(); reveal && cur != nil {
		v.revealLine(b, cur.LineIndex)
	}

	top, rows := v.viewTop(b)
	bottom := top + int64(rows) - 1
	for y, line := range b.Range(top, bottom) {
		for x, c := range line.Cells {
			if x >= w {
				break
			}
			if c.IsContinuation() {
				continue
			}
			r := c.Rune
			if c.Attributes.Has(terminal.AttrHidden) {
				r = ' '
			}
			v.screen.SetContent(x, y, r, nil, cellStyle(c.Style))
		}
	}

	for _, res := range st.ResultsInRange(top, bottom) {
		style := matchStyle
		if res.IsCurrent {
			style = currentStyle
		}
		y := int(res.LineIndex - top)
		start, end := res.Cells()
		for x := start; x < end && x < w; x++ {
			mainc, combc, _, _ := v.screen.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
			v.screen.SetContent(x, y, mainc, combc, style)
		}
	}

	cur := b.Cursor()
	if v.scroll == 0 && !v.finding && cur.Visible {
		v.screen.ShowCursor(cur.Col, cur.Row)
	} else {
		v.screen.HideCursor()
	}
}

func (v *viewer) drawStatus(w, y int) {
	for x := 0; x < w; x++ {
		v.screen.SetContent(x, y, ' ', nil, statusStyle)
	}

	if v.finding {
		v.mu.Lock()
		status := v.search.StatusText()
		v.mu.Unlock()

		x := v.drawText(0, y, w, "Find: "+string(v.query), statusStyle)
		v.screen.ShowCursor(x, y)
		if status != "" {
			v.drawText(x+2, y, w, status, statusStyle)
		}
		return
	}

	x := 0
	active := v.app.Sessions().ActiveSession()
	for i, s := range v.app.Sessions().Sessions() {
		label := s.Title()
		if label == "" {
			label = s.Name()
		}
		if s.State().IsTerminal() {
			label += " (" + s.State().String() + ")"
		}
		style := statusStyle
		if s == active {
			style = tabStyle
		}
		x = v.drawText(x, y, w, fmt.Sprintf(" %d:%s ", i+1, label), style)
	}
	if v.scroll > 0 {
		v.drawText(x+1, y, w, fmt.Sprintf("[+%d]", v.scroll), statusStyle)
	}
}

// drawText writes text at (x, y) clipped to w and returns the column after
// it.
func (v *viewer) drawText(x, y, w int, text string, style tcell.Style) int {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if x+rw > w {
			break
		}
		v.screen.SetContent(x, y, r, nil, style)
		x += rw
	}
	return x
}
