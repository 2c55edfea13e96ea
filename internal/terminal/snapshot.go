package terminal

import (
	"sort"

	"github.com/mattn/go-runewidth"
)

// SnapshotLine is the text of one line at snapshot time.
type SnapshotLine struct {
	Index int64
	Text  string
}

// CellColumn converts a rune offset within Text to a cell column,
// accounting for wide runes.
func (l SnapshotLine) CellColumn(runeOffset int) int {
	col := 0
	for i, r := range []rune(l.Text) {
		if i >= runeOffset {
			break
		}
		col += runewidth.RuneWidth(r)
	}
	return col
}

// Snapshot is an immutable copy of a buffer's text, ordered by Index.
type Snapshot struct {
	Lines []SnapshotLine

	// ViewportTop and ViewportBottom bound the visible rows. The bottom may
	// lie past the last line when the application has not filled the
	// screen yet.
	ViewportTop    int64
	ViewportBottom int64

	Cols int
	Rows int
}

// Visible returns the lines inside the viewport.
func (s Snapshot) Visible() []SnapshotLine {
	i := sort.Search(len(s.Lines), func(i int) bool {
		return s.Lines[i].Index >= s.ViewportTop
	})
	j := sort.Search(len(s.Lines), func(j int) bool {
		return s.Lines[j].Index > s.ViewportBottom
	})
	return s.Lines[i:j]
}

// Line returns the line with the given logical index.
func (s Snapshot) Line(index int64) (SnapshotLine, bool) {
	if len(s.Lines) == 0 {
		return SnapshotLine{}, false
	}
	i := index - s.Lines[0].Index
	if i < 0 || i >= int64(len(s.Lines)) {
		return SnapshotLine{}, false
	}
	return s.Lines[i], true
}
