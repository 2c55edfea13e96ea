package terminal

import (
	"github.com/mattn/go-runewidth"
)

// Screen operations used by the parser. Callers hold b.mu.

func (b *Buffer) cur() *Line {
	return b.line(b.cursorLine)
}

func (b *Buffer) cursorRow() int {
	return int(b.cursorLine - b.viewportTop())
}

// put writes r at the cursor, wrapping first if a wrap is pending or the
// rune does not fit.
func (b *Buffer) put(r rune) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		// Combining marks and other zero-width runes are not stored.
		return
	}
	if w > b.cols {
		w = 1
	}

	if b.wrapPending || b.cursorCol+w > b.cols {
		if b.autoWrap {
			b.cur().Wrapped = true
			b.cursorCol = 0
			b.lineFeed()
		} else {
			b.cursorCol = b.cols - w
		}
		b.wrapPending = false
	}

	l := b.cur()
	col := b.cursorCol
	l.ensure(col + w)
	b.splitWide(l, col)
	if w == 2 {
		b.splitWide(l, col+1)
	}
	l.Cells[col] = Cell{Rune: r, Width: int8(w), Style: b.pen}
	if w == 2 {
		l.Cells[col+1] = Cell{Width: 0, Style: b.pen}
	}
	b.touch(l)

	b.cursorCol += w
	if b.cursorCol >= b.cols {
		b.cursorCol = b.cols - 1
		b.wrapPending = true
	}
}

// splitWide blanks the other half of a wide rune about to be overwritten
// at col.
func (b *Buffer) splitWide(l *Line, col int) {
	if col >= len(l.Cells) {
		return
	}
	switch c := l.Cells[col]; {
	case c.Width == 2 && col+1 < len(l.Cells):
		l.Cells[col+1] = BlankCell()
	case c.Width == 0 && col > 0:
		l.Cells[col-1] = BlankCell()
	}
}

func (b *Buffer) lineFeed() {
	b.wrapPending = false
	if b.cursorLine >= b.last() {
		b.appendLine()
	}
	b.cursorLine++
}

func (b *Buffer) reverseIndex() {
	b.wrapPending = false
	if b.cursorLine > b.viewportTop() {
		b.cursorLine--
		return
	}
	b.shiftDown(b.cursorLine, 1)
}

func (b *Buffer) carriageReturn() {
	b.cursorCol = 0
	b.wrapPending = false
}

func (b *Buffer) backspace() {
	b.wrapPending = false
	if b.cursorCol > 0 {
		b.cursorCol--
	}
}

func (b *Buffer) tab() {
	b.wrapPending = false
	b.cursorCol = min((b.cursorCol/8+1)*8, b.cols-1)
}

// moveTo places the cursor at a viewport row and column, clamped.
func (b *Buffer) moveTo(row, col int) {
	row = clamp(row, 0, b.rows-1)
	col = clamp(col, 0, b.cols-1)
	target := b.viewportTop() + int64(row)
	b.ensureLine(target)
	b.cursorLine = target
	b.cursorCol = col
	b.wrapPending = false
}

func (b *Buffer) moveRelative(dRow, dCol int) {
	b.moveTo(b.cursorRow()+dRow, b.cursorCol+dCol)
}

func (b *Buffer) eraseLine(mode int) {
	l := b.cur()
	col := b.cursorCol
	switch mode {
	case 0:
		if col < len(l.Cells) {
			b.splitWide(l, col)
			l.Cells = l.Cells[:col]
		}
		l.Wrapped = false
	case 1:
		l.ensure(col + 1)
		if col+1 < len(l.Cells) {
			b.splitWide(l, col+1)
		}
		for i := 0; i <= col; i++ {
			l.Cells[i] = BlankCell()
		}
	case 2:
		l.reset()
	default:
		return
	}
	b.touch(l)
}

func (b *Buffer) eraseDisplay(mode int) {
	top := b.viewportTop()
	switch mode {
	case 0:
		b.eraseLine(0)
		for i := b.cursorLine + 1; i <= b.last(); i++ {
			b.clearLine(i)
		}
	case 1:
		for i := top; i < b.cursorLine; i++ {
			b.clearLine(i)
		}
		b.eraseLine(1)
	case 2:
		for i := top; i <= b.last(); i++ {
			b.clearLine(i)
		}
	case 3:
		b.dropScrollback()
	}
}

func (b *Buffer) clearLine(index int64) {
	l := b.line(index)
	l.reset()
	b.touch(l)
}

// dropScrollback evicts every line above the viewport.
func (b *Buffer) dropScrollback() {
	top := b.viewportTop()
	for b.first < top {
		b.lines[b.head] = nil
		b.head = (b.head + 1) % len(b.lines)
		b.first++
		b.count--
	}
}

func (b *Buffer) eraseChars(n int) {
	l := b.cur()
	end := min(b.cursorCol+n, len(l.Cells))
	for i := b.cursorCol; i < end; i++ {
		l.Cells[i] = BlankCell()
	}
	b.touch(l)
}

func (b *Buffer) deleteChars(n int) {
	l := b.cur()
	col := b.cursorCol
	if col >= len(l.Cells) {
		return
	}
	n = min(n, len(l.Cells)-col)
	l.Cells = append(l.Cells[:col], l.Cells[col+n:]...)
	b.touch(l)
}

func (b *Buffer) insertChars(n int) {
	l := b.cur()
	col := b.cursorCol
	if col >= len(l.Cells) {
		return
	}
	n = min(n, b.cols-col)
	blanks := make([]Cell, n)
	for i := range blanks {
		blanks[i] = BlankCell()
	}
	cells := make([]Cell, 0, len(l.Cells)+n)
	cells = append(cells, l.Cells[:col]...)
	cells = append(cells, blanks...)
	cells = append(cells, l.Cells[col:]...)
	if len(cells) > b.cols {
		cells = cells[:b.cols]
	}
	l.Cells = cells
	b.touch(l)
}

// shiftDown moves the content of lines [from, bottom] down by n, blanking
// the vacated lines. Indices stay put; only content moves.
func (b *Buffer) shiftDown(from int64, n int) {
	b.ensureLine(b.viewportBottom())
	bottom := b.viewportBottom()
	for i := bottom; i >= from+int64(n); i-- {
		b.moveContent(i-int64(n), i)
	}
	for i := from; i < from+int64(n) && i <= bottom; i++ {
		b.clearLine(i)
	}
}

// shiftUp moves the content of lines [from+n, bottom] up to from.
func (b *Buffer) shiftUp(from int64, n int) {
	b.ensureLine(b.viewportBottom())
	bottom := b.viewportBottom()
	for i := from; i+int64(n) <= bottom; i++ {
		b.moveContent(i+int64(n), i)
	}
	for i := max(from, bottom-int64(n)+1); i <= bottom; i++ {
		b.clearLine(i)
	}
}

func (b *Buffer) moveContent(src, dst int64) {
	s, d := b.line(src), b.line(dst)
	d.Cells, d.Wrapped = s.Cells, s.Wrapped
	s.Cells, s.Wrapped = nil, false
	b.touch(d)
	b.touch(s)
}

func (b *Buffer) insertLines(n int) {
	b.shiftDown(b.cursorLine, n)
	b.carriageReturn()
}

func (b *Buffer) deleteLines(n int) {
	b.shiftUp(b.cursorLine, n)
	b.carriageReturn()
}

// scrollUp pushes n lines into the scrollback, keeping the cursor on the
// same viewport row.
func (b *Buffer) scrollUp(n int) {
	b.ensureLine(b.viewportBottom())
	row := b.cursorRow()
	for range n {
		b.appendLine()
	}
	b.cursorLine = b.viewportTop() + int64(row)
}

func (b *Buffer) scrollDown(n int) {
	b.shiftDown(b.viewportTop(), n)
}

func (b *Buffer) saveCursor() {
	b.savedRow = b.cursorRow()
	b.savedCol = b.cursorCol
	b.savedStyle = b.pen
}

func (b *Buffer) restoreCursor() {
	b.moveTo(b.savedRow, b.savedCol)
	b.pen = b.savedStyle
}

// fullReset implements RIS.
func (b *Buffer) fullReset() {
	b.pen = DefaultStyle
	b.savedRow, b.savedCol, b.savedStyle = 0, 0, DefaultStyle
	b.cursorShown = true
	b.autoWrap = true
	b.eraseDisplay(2)
	b.moveTo(0, 0)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
