package session

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/termhost/internal/shell"
)

// Options configures CreateSession. Zero fields take the manager defaults.
type Options struct {
	// Name is the display name. Defaults to the shell name.
	Name string

	// ShellPath selects the shell. Defaults to the configured shell, then
	// auto-detection.
	ShellPath string

	// Args are passed to the shell. Nil selects the shell's default
	// arguments; an empty non-nil slice passes none.
	Args []string

	// Env is appended to the inherited environment.
	Env []string

	// WorkingDirectory is the initial directory. Defaults to the current
	// directory of this process.
	WorkingDirectory string

	Cols       int
	Rows       int
	Scrollback int
}

type resolved struct {
	name       string
	shell      shell.ShellInfo
	args       []string
	env        []string
	dir        string
	cols, rows int
	scrollback int
}

func (m *Manager) resolve(opts Options) (resolved, error) {
	var (
		info shell.ShellInfo
		err  error
	)
	switch {
	case opts.ShellPath != "":
		info, err = m.resolver.Resolve(opts.ShellPath)
	case m.defaults.Shell != "":
		info, err = m.resolver.Resolve(m.defaults.Shell)
	default:
		info, err = m.resolver.DetectDefaultShell()
	}
	if err != nil {
		return resolved{}, err
	}

	r := resolved{
		name:       opts.Name,
		shell:      info,
		args:       opts.Args,
		dir:        opts.WorkingDirectory,
		cols:       opts.Cols,
		rows:       opts.Rows,
		scrollback: opts.Scrollback,
	}
	if r.name == "" {
		r.name = info.Name
	}
	if r.args == nil {
		r.args = info.DefaultArguments
	}
	if r.cols <= 0 {
		r.cols = m.defaults.Cols
	}
	if r.rows <= 0 {
		r.rows = m.defaults.Rows
	}
	if r.scrollback <= 0 {
		r.scrollback = m.defaults.Scrollback
	}
	if r.dir == "" {
		if wd, err := os.Getwd(); err == nil {
			r.dir = wd
		}
	} else {
		abs, err := filepath.Abs(r.dir)
		if err != nil {
			return resolved{}, err
		}
		st, err := os.Stat(abs)
		if err != nil {
			return resolved{}, err
		}
		if !st.IsDir() {
			return resolved{}, fmt.Errorf("%s is not a directory", abs)
		}
		r.dir = abs
	}

	// Later entries win, so explicit Env overrides the defaults.
	r.env = os.Environ()
	if m.defaults.Term != "" {
		r.env = append(r.env, "TERM="+m.defaults.Term)
	}
	r.env = append(r.env, "TERM_PROGRAM=termhost")
	r.env = append(r.env, opts.Env...)
	return r, nil
}
