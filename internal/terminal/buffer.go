package terminal

import (
	"sync"
)

// Defaults applied by New.
const (
	DefaultCols       = 80
	DefaultRows       = 24
	DefaultScrollback = 10000
)

// Handlers receive out-of-band signals extracted from the stream. They run
// on the writer's goroutine after the buffer lock is released, in stream
// order. Any handler may be nil.
type Handlers struct {
	Title           func(title string)
	Bell            func()
	Directory       func(path string)
	Notification    func(message string)
	Prompt          func(mark PromptMark)
	CommandFinished func(exitCode int)

	// Reply receives bytes the terminal must send back to the application,
	// such as cursor position reports.
	Reply func(p []byte)
}

// Options configures a Buffer.
type Options struct {
	Cols int
	Rows int

	// Scrollback caps the total number of stored lines. It is raised to
	// Rows if smaller.
	Scrollback int

	Handlers Handlers
}

// Cursor is a cursor position. Row is relative to the viewport top.
type Cursor struct {
	Line    int64
	Row     int
	Col     int
	Visible bool
}

// Buffer is the interpreted terminal content. All methods are safe for
// concurrent use; Resize and Clear serialize with Write on the buffer lock.
type Buffer struct {
	mu sync.RWMutex

	cols, rows int

	// ring storage
	lines []*Line
	head  int
	count int
	first int64 // logical index of lines[head]

	cursorLine  int64
	cursorCol   int
	wrapPending bool
	cursorShown bool
	autoWrap    bool

	pen Style

	savedRow   int
	savedCol   int
	savedStyle Style

	title string

	parser parser

	handlers Handlers
	pending  []func()
	dirty    []*Line
}

// New creates an empty buffer holding a single blank line.
func New(opts Options) *Buffer {
	if opts.Cols <= 0 {
		opts.Cols = DefaultCols
	}
	if opts.Rows <= 0 {
		opts.Rows = DefaultRows
	}
	if opts.Scrollback <= 0 {
		opts.Scrollback = DefaultScrollback
	}
	capacity := max(opts.Scrollback, opts.Rows)

	b := &Buffer{
		cols:        opts.Cols,
		rows:        opts.Rows,
		lines:       make([]*Line, capacity),
		cursorShown: true,
		autoWrap:    true,
		pen:         DefaultStyle,
		savedStyle:  DefaultStyle,
		handlers:    opts.Handlers,
	}
	b.parser.init(b)
	b.appendLine()
	b.cursorLine = b.first
	return b
}

// Write interprets p. It always consumes all of p and never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	b.parser.parse(p)
	for _, l := range b.dirty {
		l.refresh()
	}
	b.dirty = b.dirty[:0]
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return len(p), nil
}

// WriteString interprets s.
func (b *Buffer) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

// Size returns the viewport dimensions.
func (b *Buffer) Size() (cols, rows int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cols, b.rows
}

// Capacity returns the maximum number of stored lines.
func (b *Buffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}

// Len returns the number of stored lines.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// FirstIndex returns the logical index of the oldest stored line.
func (b *Buffer) FirstIndex() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.first
}

// LastIndex returns the logical index of the newest line.
func (b *Buffer) LastIndex() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.last()
}

// Title returns the last title set by OSC 0 or 2.
func (b *Buffer) Title() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.title
}

// Cursor returns the cursor position.
func (b *Buffer) Cursor() Cursor {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Cursor{
		Line:    b.cursorLine,
		Row:     int(b.cursorLine - b.viewportTop()),
		Col:     b.cursorCol,
		Visible: b.cursorShown,
	}
}

// Resize changes the viewport dimensions. Content is not reflowed. It may be
// called from any goroutine; a Write in progress completes at the old size.
func (b *Buffer) Resize(cols, rows int) {
	if cols < 1 || rows < 1 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	if rows > len(b.lines) {
		b.grow(rows)
	}
	b.cols, b.rows = cols, rows
	if top := b.viewportTop(); b.cursorLine < top {
		b.cursorLine = top
	}
	if b.cursorCol >= cols {
		b.cursorCol = cols - 1
	}
	b.wrapPending = false
}

// Clear discards every line and starts a fresh one. Logical indices keep
// increasing. It may be called from any goroutine while Write is running.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := b.last() + 1
	for i := range b.lines {
		b.lines[i] = nil
	}
	b.head, b.count, b.first = 0, 0, next
	b.appendLine()
	b.cursorLine = b.first
	b.cursorCol = 0
	b.wrapPending = false
}

// Viewport returns copies of the visible lines, top to bottom. Lines not
// yet produced by the application are omitted.
func (b *Buffer) Viewport() []Line {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rangeLocked(b.viewportTop(), b.last())
}

// Range returns copies of lines with logical indices in [from, to],
// clipped to what is stored.
func (b *Buffer) Range(from, to int64) []Line {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rangeLocked(from, to)
}

func (b *Buffer) rangeLocked(from, to int64) []Line {
	from = max(from, b.first)
	to = min(to, b.last())
	if from > to {
		return nil
	}
	out := make([]Line, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, b.line(i).clone())
	}
	return out
}

// Snapshot captures the text of every stored line.
func (b *Buffer) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lines := make([]SnapshotLine, b.count)
	for i := range lines {
		l := b.lines[(b.head+i)%len(b.lines)]
		lines[i] = SnapshotLine{Index: l.Index, Text: l.text}
	}
	top := b.viewportTop()
	return Snapshot{
		Lines:          lines,
		ViewportTop:    top,
		ViewportBottom: top + int64(b.rows) - 1,
		Cols:           b.cols,
		Rows:           b.rows,
	}
}

// Text returns the stored lines joined by newlines, with wrapped lines
// joined without a separator.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var out []byte
	for i := 0; i < b.count; i++ {
		l := b.lines[(b.head+i)%len(b.lines)]
		out = append(out, l.text...)
		if !l.Wrapped && i < b.count-1 {
			out = append(out, '\n')
		}
	}
	return string(out)
}

// ring helpers; callers hold mu.

func (b *Buffer) last() int64 {
	return b.first + int64(b.count) - 1
}

func (b *Buffer) line(index int64) *Line {
	return b.lines[(b.head+int(index-b.first))%len(b.lines)]
}

func (b *Buffer) viewportTop() int64 {
	return max(b.first, b.last()-int64(b.rows)+1)
}

func (b *Buffer) viewportBottom() int64 {
	return b.viewportTop() + int64(b.rows) - 1
}

// appendLine adds a blank line at the tail, evicting the head when full.
func (b *Buffer) appendLine() *Line {
	if b.count == len(b.lines) {
		b.lines[b.head] = nil
		b.head = (b.head + 1) % len(b.lines)
		b.first++
		b.count--
	}
	l := &Line{Index: b.first + int64(b.count)}
	b.lines[(b.head+b.count)%len(b.lines)] = l
	b.count++
	return l
}

// ensureLine appends blank lines until index exists.
func (b *Buffer) ensureLine(index int64) {
	for b.last() < index {
		b.appendLine()
	}
}

func (b *Buffer) grow(capacity int) {
	lines := make([]*Line, capacity)
	for i := 0; i < b.count; i++ {
		lines[i] = b.lines[(b.head+i)%len(b.lines)]
	}
	b.lines = lines
	b.head = 0
}

func (b *Buffer) touch(l *Line) {
	if !l.dirty {
		l.dirty = true
		b.dirty = append(b.dirty, l)
	}
}

func (b *Buffer) emit(fn func()) {
	b.pending = append(b.pending, fn)
}
