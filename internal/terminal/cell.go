package terminal

import (
	"strings"
)

// Attributes are SGR text attributes.
type Attributes uint16

const (
	AttrNone      Attributes = 0
	AttrBold      Attributes = 1 << 0
	AttrDim       Attributes = 1 << 1
	AttrItalic    Attributes = 1 << 2
	AttrUnderline Attributes = 1 << 3
	AttrBlink     Attributes = 1 << 4
	AttrReverse   Attributes = 1 << 5
	AttrHidden    Attributes = 1 << 6
	AttrStrike    Attributes = 1 << 7
)

// Has returns true if the attribute is set.
func (a Attributes) Has(attr Attributes) bool {
	return a&attr != 0
}

// Style is the pen applied to newly written cells.
type Style struct {
	Foreground Color
	Background Color
	Attributes Attributes
}

// DefaultStyle is the reset pen.
var DefaultStyle = Style{Foreground: DefaultColor, Background: DefaultColor}

// Cell is one character cell. A wide rune occupies its cell (Width 2) and
// the following continuation cell (Width 0).
type Cell struct {
	Rune  rune
	Width int8
	Style
}

// BlankCell returns an empty cell with the default style.
func BlankCell() Cell {
	return Cell{Rune: ' ', Width: 1, Style: DefaultStyle}
}

// IsContinuation reports whether c is the trailing half of a wide rune.
func (c Cell) IsContinuation() bool {
	return c.Width == 0
}

// Line is one row of the buffer. Only the written extent is stored; cells
// past len(Cells) are blank.
type Line struct {
	// Index is the logical line number. It is assigned once and never reused.
	Index int64

	Cells []Cell

	// Wrapped is set when the line was continued by auto-wrap.
	Wrapped bool

	text  string
	dirty bool
}

// Text returns the line's characters with trailing blanks removed.
func (l *Line) Text() string {
	return l.text
}

func (l *Line) refresh() {
	if !l.dirty {
		return
	}
	var sb strings.Builder
	sb.Grow(len(l.Cells))
	for _, c := range l.Cells {
		if c.IsContinuation() {
			continue
		}
		sb.WriteRune(c.Rune)
	}
	l.text = strings.TrimRight(sb.String(), " ")
	l.dirty = false
}

// ensure grows the stored extent to n cells.
func (l *Line) ensure(n int) {
	for len(l.Cells) < n {
		l.Cells = append(l.Cells, BlankCell())
	}
}

func (l *Line) reset() {
	l.Cells = l.Cells[:0]
	l.Wrapped = false
}

// clone returns a copy of l whose cells do not alias l's.
func (l *Line) clone() Line {
	cp := Line{Index: l.Index, Wrapped: l.Wrapped, text: l.text}
	cp.Cells = append([]Cell(nil), l.Cells...)
	return cp
}
