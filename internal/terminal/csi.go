package terminal

import "strconv"

// param returns params[i], or def when absent or zero.
func param(params []int, i, def int) int {
	if i < len(params) && params[i] > 0 {
		return params[i]
	}
	return def
}

// csi executes a complete control sequence. Unsupported sequences are
// ignored.
func (b *Buffer) csi(params []int, inter []byte, final byte) {
	var private byte
	if len(inter) > 0 && inter[0] >= '<' && inter[0] <= '?' {
		private = inter[0]
		inter = inter[1:]
	}

	if private != 0 {
		switch {
		case private == '?' && (final == 'h' || final == 'l'):
			b.privateMode(params, final == 'h')
		case private == '>' && final == 'c':
			b.reply("\x1b[>0;10;1c")
		}
		return
	}
	if len(inter) > 0 {
		// DECSCUSR, DECSTR and friends
		return
	}

	switch final {
	case 'A': // CUU
		b.moveRelative(-param(params, 0, 1), 0)
	case 'B', 'e': // CUD, VPR
		b.moveRelative(param(params, 0, 1), 0)
	case 'C', 'a': // CUF, HPR
		b.moveRelative(0, param(params, 0, 1))
	case 'D': // CUB
		b.moveRelative(0, -param(params, 0, 1))
	case 'E': // CNL
		b.moveTo(b.cursorRow()+param(params, 0, 1), 0)
	case 'F': // CPL
		b.moveTo(b.cursorRow()-param(params, 0, 1), 0)
	case 'G', '`': // CHA, HPA
		b.moveTo(b.cursorRow(), param(params, 0, 1)-1)
	case 'H', 'f': // CUP, HVP
		b.moveTo(param(params, 0, 1)-1, param(params, 1, 1)-1)
	case 'd': // VPA
		b.moveTo(param(params, 0, 1)-1, b.cursorCol)
	case 'J': // ED
		b.eraseDisplay(param(params, 0, 0))
	case 'K': // EL
		b.eraseLine(param(params, 0, 0))
	case 'X': // ECH
		b.eraseChars(param(params, 0, 1))
	case 'P': // DCH
		b.deleteChars(param(params, 0, 1))
	case '@': // ICH
		b.insertChars(param(params, 0, 1))
	case 'L': // IL
		b.insertLines(param(params, 0, 1))
	case 'M': // DL
		b.deleteLines(param(params, 0, 1))
	case 'S': // SU
		b.scrollUp(param(params, 0, 1))
	case 'T': // SD
		b.scrollDown(param(params, 0, 1))
	case 'm': // SGR
		b.sgr(params)
	case 's': // SCOSC
		b.saveCursor()
	case 'u': // SCORC
		b.restoreCursor()
	case 'n': // DSR
		switch param(params, 0, 0) {
		case 5:
			b.reply("\x1b[0n")
		case 6:
			b.reply("\x1b[" + strconv.Itoa(b.cursorRow()+1) + ";" + strconv.Itoa(b.cursorCol+1) + "R")
		}
	case 'c': // DA
		if param(params, 0, 0) == 0 {
			b.reply("\x1b[?1;2c")
		}
	}
}

func (b *Buffer) privateMode(params []int, set bool) {
	for _, mode := range params {
		switch mode {
		case 7: // DECAWM
			b.autoWrap = set
			if !set {
				b.wrapPending = false
			}
		case 25: // DECTCEM
			b.cursorShown = set
		}
	}
}

func (b *Buffer) sgr(params []int) {
	if len(params) == 0 {
		b.pen = DefaultStyle
		return
	}

	for i := 0; i < len(params); i++ {
		switch p := params[i]; {
		case p == 0:
			b.pen = DefaultStyle
		case p == 1:
			b.pen.Attributes |= AttrBold
		case p == 2:
			b.pen.Attributes |= AttrDim
		case p == 3:
			b.pen.Attributes |= AttrItalic
		case p == 4, p == 21:
			b.pen.Attributes |= AttrUnderline
		case p == 5, p == 6:
			b.pen.Attributes |= AttrBlink
		case p == 7:
			b.pen.Attributes |= AttrReverse
		case p == 8:
			b.pen.Attributes |= AttrHidden
		case p == 9:
			b.pen.Attributes |= AttrStrike
		case p == 22:
			b.pen.Attributes &^= AttrBold | AttrDim
		case p == 23:
			b.pen.Attributes &^= AttrItalic
		case p == 24:
			b.pen.Attributes &^= AttrUnderline
		case p == 25:
			b.pen.Attributes &^= AttrBlink
		case p == 27:
			b.pen.Attributes &^= AttrReverse
		case p == 28:
			b.pen.Attributes &^= AttrHidden
		case p == 29:
			b.pen.Attributes &^= AttrStrike
		case p >= 30 && p <= 37:
			b.pen.Foreground = ColorFromIndex(p - 30)
		case p == 38:
			var c Color
			if c, i = extendedColor(params, i); !c.Default {
				b.pen.Foreground = c
			}
		case p == 39:
			b.pen.Foreground = DefaultColor
		case p >= 40 && p <= 47:
			b.pen.Background = ColorFromIndex(p - 40)
		case p == 48:
			var c Color
			if c, i = extendedColor(params, i); !c.Default {
				b.pen.Background = c
			}
		case p == 49:
			b.pen.Background = DefaultColor
		case p >= 90 && p <= 97:
			b.pen.Foreground = ColorFromIndex(p - 90 + 8)
		case p >= 100 && p <= 107:
			b.pen.Background = ColorFromIndex(p - 100 + 8)
		}
	}
}

// extendedColor parses "5;n" or "2;r;g;b" following params[i] (38 or 48).
// It returns the color and the index of the last parameter consumed.
func extendedColor(params []int, i int) (Color, int) {
	if i+1 >= len(params) {
		return DefaultColor, i
	}
	switch params[i+1] {
	case 5:
		if i+2 < len(params) {
			return ColorFromIndex(min(params[i+2], 255)), i + 2
		}
		return DefaultColor, i + 1
	case 2:
		if i+4 < len(params) {
			return ColorFromRGB(channel(params[i+2]), channel(params[i+3]), channel(params[i+4])), i + 4
		}
		return DefaultColor, len(params) - 1
	}
	return DefaultColor, i + 1
}

func channel(v int) uint8 {
	return uint8(clamp(v, 0, 255))
}

func (b *Buffer) bell() {
	if fn := b.handlers.Bell; fn != nil {
		b.emit(fn)
	}
}

func (b *Buffer) reply(s string) {
	if fn := b.handlers.Reply; fn != nil {
		p := []byte(s)
		b.emit(func() { fn(p) })
	}
}
