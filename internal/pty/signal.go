package pty

import (
	"fmt"
	"strings"
)

// Signal is a platform-neutral signal kind.
type Signal int

const (
	SignalInterrupt Signal = iota + 1
	SignalTerminate
	SignalKill
	SignalSuspend
	SignalContinue
	// SignalEOF writes the EOF control byte (Ctrl+D) instead of signalling.
	SignalEOF
	SignalHangup
)

// EOFByte is written to the PTY for SignalEOF.
const EOFByte = 0x04

var signalNames = map[Signal]string{
	SignalInterrupt: "interrupt",
	SignalTerminate: "terminate",
	SignalKill:      "kill",
	SignalSuspend:   "suspend",
	SignalContinue:  "continue",
	SignalEOF:       "eof",
	SignalHangup:    "hangup",
}

func (s Signal) String() string {
	if name, ok := signalNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Signal(%d)", int(s))
}

// ParseSignal accepts the kind names above and the common POSIX names
// (SIGINT, TERM, ...).
func ParseSignal(name string) (Signal, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "sig")
	switch n {
	case "interrupt", "int":
		return SignalInterrupt, nil
	case "terminate", "term":
		return SignalTerminate, nil
	case "kill":
		return SignalKill, nil
	case "suspend", "tstp":
		return SignalSuspend, nil
	case "continue", "cont":
		return SignalContinue, nil
	case "eof", "endoffile":
		return SignalEOF, nil
	case "hangup", "hup":
		return SignalHangup, nil
	}
	return 0, fmt.Errorf("unknown signal %q", name)
}
