package terminal

import (
	"net/url"
	"strconv"
	"strings"
)

// PromptMark is an OSC 133 semantic prompt mark.
type PromptMark byte

const (
	PromptStart   PromptMark = 'A'
	CommandStart  PromptMark = 'B'
	CommandOutput PromptMark = 'C'
	CommandEnd    PromptMark = 'D'
)

func (b *Buffer) osc(data []byte) {
	cmd, value, _ := strings.Cut(string(data), ";")
	n, err := strconv.Atoi(cmd)
	if err != nil {
		return
	}

	switch n {
	case 0, 2:
		b.setTitle(value)
	case 7:
		if path, ok := parseFileURL(value); ok {
			b.setDirectory(path)
		}
	case 9:
		b.osc9(value)
	case 133:
		b.osc133(value)
	}
}

func (b *Buffer) setTitle(title string) {
	b.title = title
	if fn := b.handlers.Title; fn != nil {
		b.emit(func() { fn(title) })
	}
}

func (b *Buffer) setDirectory(path string) {
	if fn := b.handlers.Directory; fn != nil {
		b.emit(func() { fn(path) })
	}
}

// osc9 handles the ConEmu/Windows Terminal family: "9;<path>" reports the
// working directory, other numeric subcommands (progress and so on) are
// ignored and plain text is a notification.
func (b *Buffer) osc9(value string) {
	sub, rest, found := strings.Cut(value, ";")
	if _, err := strconv.Atoi(sub); err == nil && found {
		if sub == "9" {
			if path := strings.Trim(rest, `"`); path != "" {
				b.setDirectory(path)
			}
		}
		return
	}
	if value == "" {
		return
	}
	if fn := b.handlers.Notification; fn != nil {
		b.emit(func() { fn(value) })
	}
}

func (b *Buffer) osc133(value string) {
	if value == "" {
		return
	}
	mark := PromptMark(value[0])
	switch mark {
	case PromptStart, CommandStart, CommandOutput:
		if fn := b.handlers.Prompt; fn != nil {
			b.emit(func() { fn(mark) })
		}
	case CommandEnd:
		code := -1
		if _, rest, ok := strings.Cut(value, ";"); ok {
			field, _, _ := strings.Cut(rest, ";")
			if v, err := strconv.Atoi(field); err == nil {
				code = v
			}
		}
		if fn := b.handlers.Prompt; fn != nil {
			b.emit(func() { fn(mark) })
		}
		if fn := b.handlers.CommandFinished; fn != nil {
			b.emit(func() { fn(code) })
		}
	}
}

// parseFileURL extracts the path from an OSC 7 "file://host/path" report.
// A bare absolute path is accepted too.
func parseFileURL(s string) (string, bool) {
	if strings.HasPrefix(s, "/") {
		return s, true
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return "", false
	}
	path := u.Path
	// file:///C:/Users/x on Windows
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return path, true
}
