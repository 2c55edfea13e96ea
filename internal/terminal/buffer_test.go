package terminal

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuffer(cols, rows, scrollback int) *Buffer {
	return New(Options{Cols: cols, Rows: rows, Scrollback: scrollback})
}

func texts(b *Buffer) []string {
	snap := b.Snapshot()
	out := make([]string, len(snap.Lines))
	for i, l := range snap.Lines {
		out[i] = l.Text
	}
	return out
}

func TestNewDefaults(t *testing.T) {
	b := New(Options{})
	cols, rows := b.Size()
	assert.Equal(t, DefaultCols, cols)
	assert.Equal(t, DefaultRows, rows)
	assert.Equal(t, DefaultScrollback, b.Capacity())
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, int64(0), b.FirstIndex())
}

func TestScrollbackRaisedToRows(t *testing.T) {
	b := newBuffer(10, 5, 2)
	assert.Equal(t, 5, b.Capacity())
}

func TestPlainText(t *testing.T) {
	b := newBuffer(80, 24, 100)
	b.WriteString("hello\r\nworld")

	assert.Equal(t, []string{"hello", "world"}, texts(b))
	c := b.Cursor()
	assert.Equal(t, int64(1), c.Line)
	assert.Equal(t, 5, c.Col)
}

func TestBackspaceAndCarriageReturn(t *testing.T) {
	b := newBuffer(80, 24, 100)
	b.WriteString("abc\bX\r\nabc\rX")
	assert.Equal(t, []string{"abX", "Xbc"}, texts(b))
}

func TestTab(t *testing.T) {
	b := newBuffer(20, 5, 100)
	b.WriteString("a\tb")
	assert.Equal(t, "a"+strings.Repeat(" ", 7)+"b", texts(b)[0])
}

func TestAutoWrap(t *testing.T) {
	b := newBuffer(5, 5, 100)
	b.WriteString("abcdefg")

	lines := b.Range(0, 10)
	require.Len(t, lines, 2)
	assert.Equal(t, "abcde", lines[0].Text())
	assert.True(t, lines[0].Wrapped)
	assert.Equal(t, "fg", lines[1].Text())
	assert.Equal(t, "abcdefg", b.Text())
}

func TestDeferredWrap(t *testing.T) {
	b := newBuffer(5, 5, 100)
	b.WriteString("abcde\r\nx")

	lines := b.Range(0, 10)
	require.Len(t, lines, 2)
	assert.False(t, lines[0].Wrapped)
	assert.Equal(t, "x", lines[1].Text())
}

func TestWideRunes(t *testing.T) {
	b := newBuffer(10, 5, 100)
	b.WriteString("世界")

	lines := b.Viewport()
	require.Len(t, lines, 1)
	cells := lines[0].Cells
	require.Len(t, cells, 4)
	assert.Equal(t, '世', cells[0].Rune)
	assert.Equal(t, int8(2), cells[0].Width)
	assert.True(t, cells[1].IsContinuation())
	assert.Equal(t, "世界", lines[0].Text())
	assert.Equal(t, 4, b.Cursor().Col)

	snap := b.Snapshot()
	assert.Equal(t, 2, snap.Lines[0].CellColumn(1))
}

func TestWideRuneWrapsAtEdge(t *testing.T) {
	b := newBuffer(3, 5, 100)
	b.WriteString("a世界")
	assert.Equal(t, []string{"a世", "界"}, texts(b))
}

func TestInvalidUTF8(t *testing.T) {
	b := newBuffer(20, 5, 100)
	b.Write([]byte{'a', 0xff, 'b', 0xe4, 'c'})
	assert.Equal(t, "a\uFFFDb\uFFFDc", texts(b)[0])
}

func TestChunkBoundaryInvariance(t *testing.T) {
	input := []byte("\x1b[31mred\x1b[0m plain\r\n" +
		"\x1b]0;the title\x07\x1b]7;file://host/tmp/dir\x1b\\" +
		"héllo 世界\r\n\x1b[1;38;2;10;20;30mrgb\x1b[m\r\n" +
		"\x1b[2;1H\x1b[Kover\x1b[10;1Hlast\x1b[?25l")

	type result struct {
		text  string
		lines []Line
		title string
		dirs  []string
	}
	run := func(chunk int) result {
		var dirs []string
		b := New(Options{Cols: 20, Rows: 10, Scrollback: 100, Handlers: Handlers{
			Directory: func(p string) { dirs = append(dirs, p) },
		}})
		for i := 0; i < len(input); i += chunk {
			b.Write(input[i:min(i+chunk, len(input))])
		}
		return result{b.Text(), b.Viewport(), b.Title(), dirs}
	}

	whole := run(len(input))
	assert.Equal(t, "the title", whole.title)
	assert.Equal(t, []string{"/tmp/dir"}, whole.dirs)

	for _, chunk := range []int{1, 2, 3, 5, 7, 13} {
		t.Run(fmt.Sprintf("chunk=%d", chunk), func(t *testing.T) {
			assert.Equal(t, whole, run(chunk))
		})
	}
}

func TestScrollbackEviction(t *testing.T) {
	b := newBuffer(10, 3, 5)

	prev := b.LastIndex()
	for i := range 20 {
		fmt.Fprintf(b, "line %d\r\n", i)
		assert.LessOrEqual(t, b.Len(), 5)
		assert.Greater(t, b.LastIndex(), prev)
		prev = b.LastIndex()
	}

	assert.Equal(t, 5, b.Len())
	assert.Equal(t, int64(16), b.FirstIndex())
	assert.Equal(t, int64(20), b.LastIndex())

	snap := b.Snapshot()
	require.Len(t, snap.Lines, 5)
	for i, l := range snap.Lines {
		assert.Equal(t, int64(16+i), l.Index)
	}
	assert.Equal(t, "line 16", snap.Lines[0].Text)
	assert.Equal(t, "", snap.Lines[4].Text)
}

func TestSnapshotVisible(t *testing.T) {
	b := newBuffer(10, 2, 100)
	b.WriteString("a\r\nb\r\nc\r\nd")

	snap := b.Snapshot()
	assert.Equal(t, int64(2), snap.ViewportTop)
	assert.Equal(t, int64(3), snap.ViewportBottom)
	vis := snap.Visible()
	require.Len(t, vis, 2)
	assert.Equal(t, "c", vis[0].Text)

	l, ok := snap.Line(1)
	require.True(t, ok)
	assert.Equal(t, "b", l.Text)
	_, ok = snap.Line(9)
	assert.False(t, ok)
}

func TestSnapshotIsStable(t *testing.T) {
	b := newBuffer(10, 5, 100)
	b.WriteString("before")
	snap := b.Snapshot()

	b.WriteString("\rafter!")
	assert.Equal(t, "before", snap.Lines[0].Text)
	assert.Equal(t, "after!", texts(b)[0])
}

func TestCursorPosition(t *testing.T) {
	b := newBuffer(20, 5, 100)
	b.WriteString("\x1b[3;4HX")

	assert.Equal(t, []string{"", "", "   X"}, texts(b))
	c := b.Cursor()
	assert.Equal(t, 2, c.Row)
	assert.Equal(t, 4, c.Col)

	b.WriteString("\x1b[99;99H")
	c = b.Cursor()
	assert.Equal(t, 4, c.Row)
	assert.Equal(t, 19, c.Col)
}

func TestRelativeMoves(t *testing.T) {
	b := newBuffer(20, 5, 100)
	b.WriteString("abcdef\x1b[2DX\x1b[10CY\x1b[5AZ")
	assert.Equal(t, "abcdXf"+strings.Repeat(" ", 9)+"YZ", texts(b)[0])
	assert.Equal(t, 0, b.Cursor().Row)
}

func TestEraseLine(t *testing.T) {
	b := newBuffer(20, 5, 100)
	b.WriteString("hello\x1b[3D\x1b[K")
	assert.Equal(t, "he", texts(b)[0])

	b.WriteString("\r\nhello\x1b[3D\x1b[1K")
	assert.Equal(t, "   lo", texts(b)[1])

	b.WriteString("\r\nhello\x1b[2K")
	assert.Equal(t, "", texts(b)[2])
}

func TestEraseDisplay(t *testing.T) {
	b := newBuffer(20, 5, 100)
	b.WriteString("a\r\nb\x1b[2J")
	assert.Equal(t, []string{"", ""}, texts(b))

	b = newBuffer(20, 2, 100)
	b.WriteString("1\r\n2\r\n3\r\n4\x1b[3J")
	assert.Equal(t, int64(2), b.FirstIndex())
	assert.Equal(t, []string{"3", "4"}, texts(b))

	b.WriteString("\r\n")
	assert.Equal(t, int64(4), b.LastIndex())
}

func TestCharacterEditing(t *testing.T) {
	b := newBuffer(20, 5, 100)
	b.WriteString("abcdef\x1b[4G\x1b[2P")
	assert.Equal(t, "abcf", texts(b)[0])

	b.WriteString("\x1b[2G\x1b[2@")
	assert.Equal(t, "a  bcf", texts(b)[0])

	b.WriteString("\x1b[1G\x1b[3X")
	assert.Equal(t, "   bcf", texts(b)[0])
}

func TestInsertDeleteLines(t *testing.T) {
	b := newBuffer(10, 3, 100)
	b.WriteString("a\r\nb\r\nc\x1b[1;1H\x1b[L")
	assert.Equal(t, []string{"", "a", "b"}, texts(b))

	b.WriteString("\x1b[M")
	assert.Equal(t, []string{"a", "b", ""}, texts(b))
}

func TestReverseIndexAtTop(t *testing.T) {
	b := newBuffer(10, 3, 100)
	b.WriteString("a\x1b[H\x1bM")
	assert.Equal(t, []string{"", "a", ""}, texts(b))
}

func TestScrollUp(t *testing.T) {
	b := newBuffer(10, 3, 100)
	b.WriteString("a\r\nb\r\nc\x1b[2S")

	snap := b.Snapshot()
	assert.Equal(t, int64(2), snap.ViewportTop)
	assert.Equal(t, 2, b.Cursor().Row)
	assert.Equal(t, []string{"a", "b", "c", "", ""}, texts(b))
}

func TestSaveRestoreCursor(t *testing.T) {
	b := newBuffer(20, 5, 100)
	b.WriteString("ab\x1b7\x1b[31m\r\nxyz\x1b8C")

	assert.Equal(t, "abC", texts(b)[0])
	cell := b.Viewport()[0].Cells[2]
	assert.True(t, cell.Foreground.Default)
}

func TestSGR(t *testing.T) {
	b := newBuffer(20, 5, 100)
	b.WriteString("\x1b[1;38;5;196;48;2;1;2;3mX\x1b[0mY\x1b[94;4mZ")

	cells := b.Viewport()[0].Cells
	require.Len(t, cells, 3)

	x := cells[0]
	assert.True(t, x.Attributes.Has(AttrBold))
	assert.Equal(t, 196, x.Foreground.Index)
	assert.Equal(t, "#ff0000", x.Foreground.Hex())
	assert.True(t, x.Background.IsRGB())
	assert.Equal(t, "#010203", x.Background.Hex())

	assert.Equal(t, DefaultStyle, cells[1].Style)

	z := cells[2]
	assert.Equal(t, 12, z.Foreground.Index)
	assert.True(t, z.Attributes.Has(AttrUnderline))
}

func TestUnsupportedSequencesConsumed(t *testing.T) {
	b := newBuffer(40, 5, 100)
	b.WriteString("a\x1b[?1049hb\x1b[5;3rc\x1bP1$r\x1b\\d\x1b]1337;foo\x07e\x1b(Bf\x1b[>4;1mg\x1b[2 qh")
	assert.Equal(t, "abcdefgh", texts(b)[0])
}

func TestLongTerminatedOSCConsumed(t *testing.T) {
	b := newBuffer(80, 5, 100)
	b.WriteString("\x1b]52;c;" + strings.Repeat("QUFB", 1500) + "\x07ok")
	assert.Equal(t, "ok", b.Text())
}

func TestLongTerminatedDCSConsumed(t *testing.T) {
	b := newBuffer(80, 5, 100)
	b.WriteString("\x1bPq" + strings.Repeat("#0;2;0;0;0", 500) + "\x1b\\ok")
	assert.Equal(t, "ok", b.Text())
}

func TestOversizedTitleIgnored(t *testing.T) {
	var titles []string
	b := New(Options{Cols: 80, Rows: 5, Scrollback: 100, Handlers: Handlers{
		Title: func(s string) { titles = append(titles, s) },
	}})

	// Split across writes so the overflow happens mid-chunk.
	payload := strings.Repeat("x", 5000)
	b.WriteString("\x1b]0;" + payload[:3000])
	b.WriteString(payload[3000:] + "\x1b\\ok")

	assert.Empty(t, titles)
	assert.Equal(t, "ok", b.Text())

	b.WriteString("\x1b]2;short\x07")
	assert.Equal(t, []string{"short"}, titles)
}

func TestLongTerminatedCSIConsumed(t *testing.T) {
	b := newBuffer(80, 5, 100)
	b.WriteString("\x1b[" + strings.Repeat("1;", 400) + "mok")
	assert.Equal(t, "ok", b.Text())
}

func TestUnterminatedOSCGivesUp(t *testing.T) {
	b := newBuffer(80, 5, 100)
	b.WriteString("\x1b]0;" + strings.Repeat("x", maxDiscardBytes+20) + "after")

	text := b.Text()
	assert.True(t, strings.HasSuffix(text, "after"))
	assert.Less(t, strings.Count(text, "x"), 64)
}

func TestStuckCSIDiscarded(t *testing.T) {
	b := newBuffer(400, 5, 100)
	b.WriteString("\x1b[" + strings.Repeat("1", 300) + "\r\n\x1b[31mok")

	lines := b.Viewport()
	last := lines[len(lines)-1]
	assert.Equal(t, "ok", last.Text())
	assert.Equal(t, 1, last.Cells[0].Foreground.Index)
}

func TestCancelAbortsSequence(t *testing.T) {
	b := newBuffer(20, 5, 100)
	b.WriteString("\x1b[31\x18X")

	cell := b.Viewport()[0].Cells[0]
	assert.Equal(t, 'X', cell.Rune)
	assert.True(t, cell.Foreground.Default)
}

func TestResize(t *testing.T) {
	b := newBuffer(10, 3, 3)
	b.WriteString("0123456789")
	b.Resize(5, 6)

	cols, rows := b.Size()
	assert.Equal(t, 5, cols)
	assert.Equal(t, 6, rows)
	assert.Equal(t, 6, b.Capacity())
	assert.Equal(t, 4, b.Cursor().Col)
	assert.Equal(t, "0123456789", texts(b)[0])

	b.Resize(0, 5)
	cols, _ = b.Size()
	assert.Equal(t, 5, cols)
}

func TestClearKeepsIndicesMonotonic(t *testing.T) {
	b := newBuffer(10, 5, 100)
	b.WriteString("a\r\nb")
	b.Clear()

	assert.Equal(t, int64(2), b.FirstIndex())
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, []string{""}, texts(b))
	assert.Equal(t, int64(2), b.Cursor().Line)
}

func TestConcurrentSnapshots(t *testing.T) {
	b := newBuffer(40, 10, 200)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 500 {
			fmt.Fprintf(b, "\x1b[32mline %d\x1b[0m\r\n", i)
		}
	}()
	go func() {
		defer wg.Done()
		for range 200 {
			snap := b.Snapshot()
			for i := 1; i < len(snap.Lines); i++ {
				if snap.Lines[i].Index != snap.Lines[i-1].Index+1 {
					t.Errorf("non-contiguous indices %d, %d", snap.Lines[i-1].Index, snap.Lines[i].Index)
					return
				}
			}
			b.Viewport()
		}
	}()
	wg.Wait()
	assert.Equal(t, 200, b.Len())
}

func TestConcurrentResizeAndClear(t *testing.T) {
	b := newBuffer(40, 10, 200)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 500 {
			fmt.Fprintf(b, "\x1b[2Kline %d with some padding text\r\n", i)
		}
	}()
	go func() {
		defer wg.Done()
		for i := range 100 {
			b.Resize(20+i%40, 5+i%20)
			if i%25 == 0 {
				b.Clear()
			}
		}
	}()
	wg.Wait()

	cols, rows := b.Size()
	c := b.Cursor()
	assert.GreaterOrEqual(t, c.Row, 0)
	assert.Less(t, c.Row, rows)
	assert.Less(t, c.Col, cols)
	assert.LessOrEqual(t, b.Len(), b.Capacity())
	assert.Equal(t, b.LastIndex()-b.FirstIndex()+1, int64(b.Len()))
}
