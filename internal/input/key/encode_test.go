package key

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{"letter", NewRuneEvent('a', 0), "a"},
		{"utf8", NewRuneEvent('é', 0), "é"},
		{"ctrl+c", NewRuneEvent('c', ModCtrl), "\x03"},
		{"ctrl+shift+C", NewRuneEvent('C', ModCtrl|ModShift), "\x03"},
		{"ctrl+z", NewRuneEvent('z', ModCtrl), "\x1a"},
		{"ctrl+d", NewRuneEvent('d', ModCtrl), "\x04"},
		{"ctrl+space", NewRuneEvent(' ', ModCtrl), "\x00"},
		{"ctrl+bracket", NewRuneEvent('[', ModCtrl), "\x1b"},
		{"ctrl+backslash", NewRuneEvent('\\', ModCtrl), "\x1c"},
		{"alt+x", NewRuneEvent('x', ModAlt), "\x1bx"},
		{"ctrl+alt+a", NewRuneEvent('a', ModCtrl|ModAlt), "\x1b\x01"},
		{"enter", NewSpecialEvent(KeyEnter, 0), "\r"},
		{"tab", NewSpecialEvent(KeyTab, 0), "\t"},
		{"shift+tab", NewSpecialEvent(KeyTab, ModShift), "\x1b[Z"},
		{"backspace", NewSpecialEvent(KeyBackspace, 0), "\x7f"},
		{"escape", NewSpecialEvent(KeyEscape, 0), "\x1b"},
		{"up", NewSpecialEvent(KeyUp, 0), "\x1b[A"},
		{"left", NewSpecialEvent(KeyLeft, 0), "\x1b[D"},
		{"ctrl+right", NewSpecialEvent(KeyRight, ModCtrl), "\x1b[1;5C"},
		{"shift+up", NewSpecialEvent(KeyUp, ModShift), "\x1b[1;2A"},
		{"home", NewSpecialEvent(KeyHome, 0), "\x1b[H"},
		{"end", NewSpecialEvent(KeyEnd, 0), "\x1b[F"},
		{"insert", NewSpecialEvent(KeyInsert, 0), "\x1b[2~"},
		{"delete", NewSpecialEvent(KeyDelete, 0), "\x1b[3~"},
		{"shift+delete", NewSpecialEvent(KeyDelete, ModShift), "\x1b[3;2~"},
		{"pageup", NewSpecialEvent(KeyPageUp, 0), "\x1b[5~"},
		{"pagedown", NewSpecialEvent(KeyPageDown, 0), "\x1b[6~"},
		{"f1", NewSpecialEvent(KeyF1, 0), "\x1bOP"},
		{"f4", NewSpecialEvent(KeyF4, 0), "\x1bOS"},
		{"ctrl+f1", NewSpecialEvent(KeyF1, ModCtrl), "\x1b[1;5P"},
		{"f5", NewSpecialEvent(KeyF5, 0), "\x1b[15~"},
		{"f12", NewSpecialEvent(KeyF12, 0), "\x1b[24~"},
		{"alt+f12", NewSpecialEvent(KeyF12, ModAlt), "\x1b[24;3~"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeString(tt.ev))
		})
	}
}

func TestEncode_NoEncoding(t *testing.T) {
	assert.Nil(t, Encode(NewSpecialEvent(KeyNone, 0)))
	assert.Nil(t, Encode(NewRuneEvent(-1, 0)))
}
