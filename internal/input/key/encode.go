package key

import (
	"strconv"
	"unicode/utf8"
)

const esc = 0x1b

// csiTilde holds the numeric code for keys sent as CSI n ~.
var csiTilde = map[Key]int{
	KeyInsert:   2,
	KeyDelete:   3,
	KeyPageUp:   5,
	KeyPageDown: 6,
	KeyF5:       15,
	KeyF6:       17,
	KeyF7:       18,
	KeyF8:       19,
	KeyF9:       20,
	KeyF10:      21,
	KeyF11:      23,
	KeyF12:      24,
}

// csiFinal holds the final byte for keys sent as CSI [1;m] X.
var csiFinal = map[Key]byte{
	KeyUp:    'A',
	KeyDown:  'B',
	KeyRight: 'C',
	KeyLeft:  'D',
	KeyHome:  'H',
	KeyEnd:   'F',
}

// ss3Final holds the final byte for F1-F4, sent as SS3 X without
// modifiers.
var ss3Final = map[Key]byte{
	KeyF1: 'P',
	KeyF2: 'Q',
	KeyF3: 'R',
	KeyF4: 'S',
}

// Encode returns the bytes an xterm-compatible terminal sends for e.
// It returns nil for events with no terminal encoding.
func Encode(e Event) []byte {
	mods := e.Modifiers
	switch e.Key {
	case KeyRune:
		return encodeRune(e.Rune, mods)
	case KeyEnter:
		return altPrefix(mods, '\r')
	case KeyTab:
		if mods.HasShift() {
			return []byte{esc, '[', 'Z'}
		}
		return altPrefix(mods, '\t')
	case KeyBackspace:
		if mods.HasCtrl() {
			return altPrefix(mods, 0x08)
		}
		return altPrefix(mods, 0x7f)
	case KeyEscape:
		return altPrefix(mods, esc)
	}

	param := mods.xtermParam()
	if n, ok := csiTilde[e.Key]; ok {
		b := []byte{esc, '['}
		b = strconv.AppendInt(b, int64(n), 10)
		if param > 1 {
			b = append(b, ';')
			b = strconv.AppendInt(b, int64(param), 10)
		}
		return append(b, '~')
	}
	if f, ok := csiFinal[e.Key]; ok {
		if param == 1 {
			return []byte{esc, '[', f}
		}
		return csiModified(param, f)
	}
	if f, ok := ss3Final[e.Key]; ok {
		if param == 1 {
			return []byte{esc, 'O', f}
		}
		return csiModified(param, f)
	}
	return nil
}

// EncodeString is Encode for callers that write strings.
func EncodeString(e Event) string {
	return string(Encode(e))
}

func encodeRune(r rune, mods Modifier) []byte {
	if mods.HasCtrl() {
		if c, ok := controlByte(r); ok {
			return altPrefix(mods, c)
		}
	}
	if r < 0 || !utf8.ValidRune(r) {
		return nil
	}
	b := utf8.AppendRune(nil, r)
	if mods.HasAlt() {
		return append([]byte{esc}, b...)
	}
	return b
}

// controlByte maps a Ctrl+rune combination to its C0 control byte.
func controlByte(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r-'a') + 1, true
	case r >= 'A' && r <= 'Z':
		return byte(r-'A') + 1, true
	}
	switch r {
	case ' ', '@', '2':
		return 0x00, true
	case '[', '3':
		return esc, true
	case '\\', '4':
		return 0x1c, true
	case ']', '5':
		return 0x1d, true
	case '^', '6':
		return 0x1e, true
	case '_', '-', '7':
		return 0x1f, true
	case '?', '8':
		return 0x7f, true
	}
	return 0, false
}

func altPrefix(mods Modifier, c byte) []byte {
	if mods.HasAlt() {
		return []byte{esc, c}
	}
	return []byte{c}
}

func csiModified(param int, final byte) []byte {
	b := []byte{esc, '[', '1', ';'}
	b = strconv.AppendInt(b, int64(param), 10)
	return append(b, final)
}
