package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/termhost/internal/input/key"
	"github.com/dshills/termhost/internal/input/shortcut"
)

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name  string
		ev    *tcell.EventKey
		chord string
	}{
		{"plain rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone), "x"},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModAlt), "Alt+B"},
		{"control char", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), "Ctrl+C"},
		{"control char with shift", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl|tcell.ModShift), "Ctrl+Shift+C"},
		{"ctrl shift rune", tcell.NewEventKey(tcell.KeyRune, 'F', tcell.ModCtrl|tcell.ModShift), "Ctrl+Shift+F"},
		{"ctrl space", tcell.NewEventKey(tcell.KeyCtrlSpace, 0, tcell.ModCtrl), "Ctrl+Space"},
		{"backtab", tcell.NewEventKey(tcell.KeyBacktab, 0, tcell.ModNone), "Shift+Tab"},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "Enter"},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), "Backspace"},
		{"shift f3", tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModShift), "Shift+F3"},
		{"f12", tcell.NewEventKey(tcell.KeyF12, 0, tcell.ModNone), "F12"},
		{"ctrl page down", tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModCtrl), "Ctrl+PageDown"},
		{"shift home", tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModShift), "Shift+Home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := convertKey(tt.ev)
			require.True(t, ok)
			assert.Equal(t, key.MustParse(tt.chord), ev.Chord())
		})
	}
}

func TestConvertKey_Unmapped(t *testing.T) {
	_, ok := convertKey(tcell.NewEventKey(tcell.KeyPrint, 0, tcell.ModNone))
	assert.False(t, ok)
}

func TestConvertKey_DefaultBindings(t *testing.T) {
	reg := shortcut.NewDefaultRegistry()

	ev, ok := convertKey(tcell.NewEventKey(tcell.KeyRune, 'C', tcell.ModCtrl|tcell.ModShift))
	require.True(t, ok)
	b, ok := reg.TryGetAction(ev.Chord())
	require.True(t, ok)
	assert.Equal(t, shortcut.ActionCopy, b.Action)

	ev, ok = convertKey(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))
	require.True(t, ok)
	b, ok = reg.TryGetAction(ev.Chord())
	require.True(t, ok)
	assert.Equal(t, shortcut.ActionSendInterrupt, b.Action)
	assert.True(t, b.PassToPty)
	assert.Equal(t, []byte{0x03}, key.Encode(ev))
}
