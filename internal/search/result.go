package search

import (
	"github.com/mattn/go-runewidth"
)

// Result is one match. StartColumn and Length count runes in LineText.
type Result struct {
	LineIndex   int64
	StartColumn int
	Length      int
	MatchedText string
	LineText    string

	// IsCurrent marks the navigation target. States never share a result
	// slice, so flipping it never affects an earlier State.
	IsCurrent bool
}

// Less orders results by line, then column.
func (r Result) Less(o Result) bool {
	if r.LineIndex != o.LineIndex {
		return r.LineIndex < o.LineIndex
	}
	return r.StartColumn < o.StartColumn
}

// IsVisible reports whether the match lies within lines [first, last].
func (r Result) IsVisible(first, last int64) bool {
	return r.LineIndex >= first && r.LineIndex <= last
}

// Cells returns the match's cell column range [start, end) for highlighting,
// accounting for wide runes.
func (r Result) Cells() (start, end int) {
	runes := []rune(r.LineText)
	for i, ru := range runes {
		if i == r.StartColumn {
			start = end
		}
		if i == r.StartColumn+r.Length {
			return start, end
		}
		end += runewidth.RuneWidth(ru)
	}
	if r.StartColumn >= len(runes) {
		start = end
	}
	return start, end
}
