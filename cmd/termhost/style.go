package main

import (
	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/termhost/internal/terminal"
)

// dimBlend is how far a dim foreground moves toward its background.
const dimBlend = 0.4

var (
	matchStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorOlive)
	currentStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	statusStyle  = tcell.StyleDefault.Reverse(true)
	tabStyle     = tcell.StyleDefault.Reverse(true).Bold(true)
)

// tcellColor converts a terminal color to a tcell color.
func tcellColor(c terminal.Color) tcell.Color {
	switch {
	case c.Default:
		return tcell.ColorDefault
	case c.Index >= 0:
		return tcell.PaletteColor(c.Index)
	default:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
}

// dimColor blends fg toward bg, or toward black when bg is the default.
func dimColor(fg, bg terminal.Color) tcell.Color {
	base := colorful.Color{}
	if !bg.Default {
		base = bg.Colorful()
	}
	r, g, b := fg.Colorful().BlendLab(base, dimBlend).Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// cellStyle converts a terminal pen to a tcell style.
func cellStyle(s terminal.Style) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(tcellColor(s.Foreground)).
		Background(tcellColor(s.Background))

	a := s.Attributes
	if a.Has(terminal.AttrBold) {
		style = style.Bold(true)
	}
	if a.Has(terminal.AttrDim) {
		if s.Foreground.Default {
			style = style.Dim(true)
		} else {
			style = style.Foreground(dimColor(s.Foreground, s.Background))
		}
	}
	if a.Has(terminal.AttrItalic) {
		style = style.Italic(true)
	}
	if a.Has(terminal.AttrUnderline) {
		style = style.Underline(true)
	}
	if a.Has(terminal.AttrBlink) {
		style = style.Blink(true)
	}
	if a.Has(terminal.AttrReverse) {
		style = style.Reverse(true)
	}
	if a.Has(terminal.AttrStrike) {
		style = style.StrikeThrough(true)
	}
	return style
}
