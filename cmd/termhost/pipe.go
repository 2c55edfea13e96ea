package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dshills/termhost/internal/app"
	"github.com/dshills/termhost/internal/session"
)

// eot is sent after the input ends so the shell exits at its next prompt.
const eot = "\x04"

var errSessionGone = errors.New("session is no longer running")

// sessionWriter forwards writes to one session's PTY.
type sessionWriter struct {
	m  *session.Manager
	id string
}

func (w sessionWriter) Write(p []byte) (int, error) {
	if !w.m.WriteInput(w.id, p) {
		return 0, errSessionGone
	}
	return len(p), nil
}

// runPipe runs one session fed from in until the shell exits, then writes
// the interpreted screen and scrollback to out.
func runPipe(ctx context.Context, a *app.App, in io.Reader, out io.Writer) error {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("raw mode: %w", err)
		}
		defer func() { _ = term.Restore(int(f.Fd()), state) }()
	}

	sub := a.Sessions().Subscribe(session.WithEventFilter(func(ev session.Event) bool {
		sc, ok := ev.(session.SessionStateChanged)
		return ok && sc.New.IsTerminal()
	}))
	defer sub.Unsubscribe()

	s, err := a.NewSession(ctx)
	if err != nil {
		return err
	}
	w := sessionWriter{m: a.Sessions(), id: s.ID()}

	// The copy is not joined: a terminal stdin blocks in Read after the
	// shell has gone.
	go func() {
		if _, err := io.Copy(w, in); err != nil {
			return
		}
		_, _ = io.WriteString(w, eot)
	}()

	if err := waitExit(ctx, sub, s); err != nil {
		return err
	}

	text := strings.TrimRight(s.Buffer().Text(), "\n ")
	if _, err := fmt.Fprintln(out, text); err != nil {
		return err
	}
	if code, ok := s.ExitCode(); ok && code != 0 {
		return fmt.Errorf("shell exited with status %d", code)
	}
	return nil
}

func waitExit(ctx context.Context, sub *session.Subscription, s *session.Session) error {
	if s.State().IsTerminal() {
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if ev.Metadata().SessionID == s.ID() {
				return nil
			}
		}
	}
}
