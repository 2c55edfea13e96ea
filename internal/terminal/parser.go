package terminal

// Caps on sequence state. A CSI or OSC that outgrows its cap is still
// consumed up to its terminator but no longer buffered or dispatched. Past
// maxDiscardBytes a sequence is taken to be stuck and the parser returns to
// ground.
const (
	maxCSIBytes     = 256
	maxParams       = 32
	maxParamVal     = 65535
	maxOSCBytes     = 4096
	maxInterSize    = 4
	maxDiscardBytes = 1 << 20
)

type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeInter
	stateCSI
	stateCSIParam
	stateCSIInter
	stateCSIIgnore
	stateOSC
	stateOSCEscape
	stateOSCIgnore
	stateDCS
	stateDCSEscape
)

// parser is a byte-at-a-time state machine, so a chunk boundary may fall
// anywhere without changing the result.
type parser struct {
	b *Buffer

	state  parserState
	params []int
	inter  []byte
	osc    []byte
	seqLen int

	utf8Buf   [4]byte
	utf8Len   int
	utf8Count int
}

func (p *parser) init(b *Buffer) {
	p.b = b
	p.params = make([]int, 0, 16)
	p.inter = make([]byte, 0, maxInterSize)
	p.osc = make([]byte, 0, 256)
}

func (p *parser) parse(data []byte) {
	for _, c := range data {
		p.step(c)
	}
}

func (p *parser) step(c byte) {
	// CAN and SUB abort any sequence in progress.
	if (c == 0x18 || c == 0x1A) && p.state != stateGround {
		p.state = stateGround
		return
	}

	switch p.state {
	case stateGround:
		p.ground(c)
	case stateEscape:
		p.escape(c)
	case stateEscapeInter:
		p.escapeInter(c)
	case stateCSI, stateCSIParam, stateCSIInter, stateCSIIgnore:
		p.csi(c)
	case stateOSC:
		p.oscByte(c)
	case stateOSCEscape:
		p.oscEscape(c)
	case stateOSCIgnore:
		p.oscIgnore(c)
	case stateDCS:
		p.dcsByte(c)
	case stateDCSEscape:
		p.dcsEscape(c)
	}
}

func (p *parser) ground(c byte) {
	if p.utf8Len > 0 {
		p.utf8Continue(c)
		return
	}

	switch {
	case c == 0x1B:
		p.enterEscape()
	case c == 0x07:
		p.b.bell()
	case c == 0x08:
		p.b.backspace()
	case c == 0x09:
		p.b.tab()
	case c == 0x0A, c == 0x0B, c == 0x0C:
		p.b.lineFeed()
	case c == 0x0D:
		p.b.carriageReturn()
	case c >= 0x20 && c < 0x7F:
		p.b.put(rune(c))
	case c >= 0xC2 && c < 0xE0:
		p.utf8Start(c, 2)
	case c >= 0xE0 && c < 0xF0:
		p.utf8Start(c, 3)
	case c >= 0xF0 && c < 0xF5:
		p.utf8Start(c, 4)
	case c >= 0x80:
		p.b.put('\uFFFD')
	default:
		// remaining C0 controls are ignored
	}
}

func (p *parser) enterEscape() {
	p.state = stateEscape
	p.params = p.params[:0]
	p.inter = p.inter[:0]
	p.seqLen = 0
}

func (p *parser) utf8Start(c byte, n int) {
	p.utf8Buf[0] = c
	p.utf8Len = n
	p.utf8Count = 1
}

func (p *parser) utf8Continue(c byte) {
	if c < 0x80 || c >= 0xC0 {
		p.utf8Len, p.utf8Count = 0, 0
		p.b.put('\uFFFD')
		p.ground(c)
		return
	}
	p.utf8Buf[p.utf8Count] = c
	p.utf8Count++
	if p.utf8Count == p.utf8Len {
		r := decodeUTF8(p.utf8Buf[:p.utf8Len])
		p.utf8Len, p.utf8Count = 0, 0
		p.b.put(r)
	}
}

func decodeUTF8(buf []byte) rune {
	switch len(buf) {
	case 2:
		return rune(buf[0]&0x1F)<<6 | rune(buf[1]&0x3F)
	case 3:
		r := rune(buf[0]&0x0F)<<12 | rune(buf[1]&0x3F)<<6 | rune(buf[2]&0x3F)
		if r < 0x800 || (r >= 0xD800 && r <= 0xDFFF) {
			return '\uFFFD'
		}
		return r
	case 4:
		r := rune(buf[0]&0x07)<<18 | rune(buf[1]&0x3F)<<12 | rune(buf[2]&0x3F)<<6 | rune(buf[3]&0x3F)
		if r < 0x10000 || r > 0x10FFFF {
			return '\uFFFD'
		}
		return r
	}
	return '\uFFFD'
}

func (p *parser) escape(c byte) {
	p.state = stateGround
	switch {
	case c == '[':
		p.state = stateCSI
	case c == ']':
		p.state = stateOSC
		p.osc = p.osc[:0]
	case c == 'P':
		p.state = stateDCS
		p.seqLen = 0
	case c == 'X', c == '^', c == '_':
		// SOS, PM and APC strings are consumed like DCS.
		p.state = stateDCS
		p.seqLen = 0
	case c == '7':
		p.b.saveCursor()
	case c == '8':
		p.b.restoreCursor()
	case c == 'D':
		p.b.lineFeed()
	case c == 'E':
		p.b.carriageReturn()
		p.b.lineFeed()
	case c == 'M':
		p.b.reverseIndex()
	case c == 'c':
		p.b.fullReset()
	case c == 0x1B:
		p.enterEscape()
	case c >= 0x20 && c <= 0x2F:
		p.state = stateEscapeInter
	}
}

// escapeInter consumes charset designations and similar sequences.
func (p *parser) escapeInter(c byte) {
	switch {
	case c >= 0x20 && c <= 0x2F:
		p.seqLen++
		if p.seqLen > maxInterSize {
			p.state = stateGround
		}
	case c == 0x1B:
		p.enterEscape()
	default:
		p.state = stateGround
	}
}

func (p *parser) csi(c byte) {
	p.seqLen++
	switch {
	case p.seqLen > maxDiscardBytes:
		p.state = stateGround
		return
	case p.seqLen > maxCSIBytes:
		p.state = stateCSIIgnore
	}

	switch {
	case c == 0x1B:
		p.enterEscape()
		return
	case c < 0x20:
		// C0 controls execute inside CSI without ending it.
		p.ground(c)
		return
	case c >= 0x40 && c <= 0x7E:
		if p.state != stateCSIIgnore {
			p.b.csi(p.params, p.inter, c)
		}
		p.state = stateGround
		return
	}

	if p.state == stateCSIIgnore {
		return
	}

	switch {
	case c >= '0' && c <= '9':
		if p.state == stateCSIInter {
			p.state = stateCSIIgnore
			return
		}
		if len(p.params) == 0 {
			p.params = append(p.params, 0)
		}
		i := len(p.params) - 1
		p.params[i] = min(p.params[i]*10+int(c-'0'), maxParamVal)
		p.state = stateCSIParam
	case c == ';' || c == ':':
		if p.state == stateCSIInter {
			p.state = stateCSIIgnore
			return
		}
		if len(p.params) == 0 {
			p.params = append(p.params, 0)
		}
		if len(p.params) >= maxParams {
			p.state = stateCSIIgnore
			return
		}
		p.params = append(p.params, 0)
		p.state = stateCSIParam
	case c >= '<' && c <= '?':
		// Private markers are only valid before parameters.
		if p.state != stateCSI {
			p.state = stateCSIIgnore
			return
		}
		p.inter = append(p.inter, c)
	case c >= 0x20 && c <= 0x2F:
		if len(p.inter) >= maxInterSize {
			p.state = stateCSIIgnore
			return
		}
		p.inter = append(p.inter, c)
		p.state = stateCSIInter
	default:
		p.state = stateCSIIgnore
	}
}

func (p *parser) oscByte(c byte) {
	switch c {
	case 0x07:
		p.b.osc(p.osc)
		p.state = stateGround
	case 0x1B:
		p.state = stateOSCEscape
	default:
		if c < 0x20 {
			return
		}
		if len(p.osc) >= maxOSCBytes {
			p.state = stateOSCIgnore
			p.seqLen = len(p.osc)
			return
		}
		p.osc = append(p.osc, c)
	}
}

// oscIgnore consumes the rest of an oversized OSC without dispatching it.
func (p *parser) oscIgnore(c byte) {
	switch c {
	case 0x07:
		p.state = stateGround
	case 0x1B:
		p.state = stateDCSEscape
	default:
		p.seqLen++
		if p.seqLen > maxDiscardBytes {
			p.state = stateGround
		}
	}
}

// oscEscape expects the '\' of an ESC \ string terminator. Anything else
// terminates the OSC and starts a new escape sequence.
func (p *parser) oscEscape(c byte) {
	p.b.osc(p.osc)
	if c == '\\' {
		p.state = stateGround
		return
	}
	p.enterEscape()
	p.escape(c)
}

func (p *parser) dcsByte(c byte) {
	if c == 0x1B {
		p.state = stateDCSEscape
		return
	}
	p.seqLen++
	if p.seqLen > maxDiscardBytes {
		p.state = stateGround
	}
}

func (p *parser) dcsEscape(c byte) {
	if c == '\\' {
		p.state = stateGround
		return
	}
	p.enterEscape()
	p.escape(c)
}
