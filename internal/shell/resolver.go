package shell

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShellInfo describes an installed shell.
type ShellInfo struct {
	Path             string
	Name             string
	Type             ShellType
	DefaultArguments []string
	Version          string
}

// candidates are probed on PATH in preference order.
var candidates = []string{"bash", "zsh", "fish", "sh", "dash", "ksh", "tcsh", "nu", "pwsh"}

// Resolver locates shells. The zero value is not usable; use NewResolver.
type Resolver struct {
	// Getenv reads environment variables.
	Getenv func(string) string

	// LookPath resolves executables.
	LookPath func(string) (string, error)

	// ShellsFile lists login shells, one per line.
	ShellsFile string

	// ProbeTimeout bounds each "--version" probe.
	ProbeTimeout time.Duration

	// Login selects login arguments over interactive ones.
	Login bool

	Logger *zap.Logger
}

// NewResolver returns a resolver backed by the process environment.
func NewResolver(logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		Getenv:       os.Getenv,
		LookPath:     exec.LookPath,
		ShellsFile:   "/etc/shells",
		ProbeTimeout: 2 * time.Second,
		Login:        true,
		Logger:       logger,
	}
}

// DetectDefaultShell resolves the default shell using a resolver backed by
// the process environment.
func DetectDefaultShell() (ShellInfo, error) {
	return NewResolver(nil).DetectDefaultShell()
}

// GetAvailableShells lists installed shells using a resolver backed by the
// process environment.
func GetAvailableShells(ctx context.Context) ([]ShellInfo, error) {
	return NewResolver(nil).GetAvailableShells(ctx)
}

// Resolve validates path (absolute, relative or a bare name looked up on
// PATH) and describes it. The version is not probed.
func (r *Resolver) Resolve(path string) (ShellInfo, error) {
	if path == "" {
		return ShellInfo{}, fmt.Errorf("%w: empty path", ErrShellNotFound)
	}
	resolved, err := r.LookPath(path)
	if err != nil {
		return ShellInfo{}, fmt.Errorf("%w: %s: %v", ErrShellNotFound, path, err)
	}
	t := ParseShellType(resolved)
	return ShellInfo{
		Path:             resolved,
		Name:             filepath.Base(resolved),
		Type:             t,
		DefaultArguments: DefaultArguments(t, r.Login),
	}, nil
}

// DetectDefaultShell returns $SHELL when it resolves, then the platform
// command interpreter on Windows, then the first of bash, zsh or sh on PATH.
func (r *Resolver) DetectDefaultShell() (ShellInfo, error) {
	var tried []string

	if env := r.Getenv("SHELL"); env != "" {
		if info, err := r.Resolve(env); err == nil {
			return info, nil
		}
		tried = append(tried, env)
	}

	fallbacks := []string{"bash", "zsh", "sh", "/bin/sh"}
	if runtime.GOOS == "windows" {
		fallbacks = []string{"pwsh", "powershell"}
		if comspec := r.Getenv("COMSPEC"); comspec != "" {
			fallbacks = append(fallbacks, comspec)
		}
		fallbacks = append(fallbacks, "cmd")
	}

	for _, name := range fallbacks {
		if info, err := r.Resolve(name); err == nil {
			return info, nil
		}
		tried = append(tried, name)
	}

	return ShellInfo{}, fmt.Errorf("%w: tried %s", ErrShellNotFound, strings.Join(tried, ", "))
}

// GetAvailableShells returns every executable shell listed in ShellsFile or
// found on PATH, in discovery order, with versions probed concurrently.
func (r *Resolver) GetAvailableShells(ctx context.Context) ([]ShellInfo, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	listed, err := readShellsFile(r.ShellsFile)
	if err != nil {
		r.Logger.Debug("reading shells file", zap.String("path", r.ShellsFile), zap.Error(err))
	}
	for _, p := range listed {
		add(p)
	}
	for _, name := range candidates {
		if p, err := r.LookPath(name); err == nil {
			add(p)
		}
	}

	var shells []ShellInfo
	for _, p := range paths {
		info, err := r.Resolve(p)
		if err != nil {
			continue
		}
		shells = append(shells, info)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i := range shells {
		if !probesVersion(shells[i].Type) {
			continue
		}
		g.Go(func() error {
			shells[i].Version = r.probeVersion(gctx, shells[i].Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return shells, nil
}

func probesVersion(t ShellType) bool {
	switch t {
	case Bash, Zsh, Fish, Ksh, Tcsh, Nushell, PowerShell:
		return true
	}
	return false
}

func (r *Resolver) probeVersion(ctx context.Context, path string) string {
	ctx, cancel := context.WithTimeout(ctx, r.ProbeTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path, "--version").Output()
	if err != nil {
		r.Logger.Debug("shell version probe failed", zap.String("shell", path), zap.Error(err))
		return ""
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line)
}

func readShellsFile(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var shells []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		shells = append(shells, line)
	}
	return shells, scanner.Err()
}
