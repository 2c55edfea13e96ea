// Package shell detects installed shells and describes how each shell type
// is driven: clear/cd/pwd syntax, shell-integration capabilities and the
// arguments used to start it.
package shell

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrShellNotFound is returned when a shell executable cannot be located.
var ErrShellNotFound = errors.New("shell not found")

// ShellType identifies a shell family.
type ShellType int

const (
	Unknown ShellType = iota
	Bash
	Zsh
	Fish
	Sh
	Dash
	Ksh
	Tcsh
	Nushell
	PowerShell
	Cmd
)

var shellTypeNames = map[ShellType]string{
	Unknown:    "unknown",
	Bash:       "bash",
	Zsh:        "zsh",
	Fish:       "fish",
	Sh:         "sh",
	Dash:       "dash",
	Ksh:        "ksh",
	Tcsh:       "tcsh",
	Nushell:    "nu",
	PowerShell: "pwsh",
	Cmd:        "cmd",
}

// String returns the canonical executable name for the type.
func (t ShellType) String() string {
	if name, ok := shellTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseShellType infers the shell type from an executable path or name.
func ParseShellType(path string) ShellType {
	base := strings.ToLower(filepath.Base(path))
	base = strings.TrimSuffix(base, ".exe")
	base = strings.TrimPrefix(base, "-") // login shells report "-zsh"

	switch base {
	case "bash":
		return Bash
	case "zsh":
		return Zsh
	case "fish":
		return Fish
	case "sh":
		return Sh
	case "dash":
		return Dash
	case "ksh", "mksh", "ksh93":
		return Ksh
	case "tcsh", "csh":
		return Tcsh
	case "nu", "nushell":
		return Nushell
	case "pwsh", "powershell":
		return PowerShell
	case "cmd":
		return Cmd
	}
	return Unknown
}

// ShellConfiguration describes how to drive one shell type.
type ShellConfiguration struct {
	Type ShellType

	ClearCommand          string
	ChangeDirectoryFormat string // %s is replaced by the quoted path
	PrintWorkingDirectory string
	CommandSeparator      string

	SupportsOSC7   bool
	SupportsOSC9   bool
	SupportsOSC133 bool

	LoginArguments       []string
	InteractiveArguments []string

	quote func(string) string
}

// QuotePath quotes path for use in this shell's command line.
func (c ShellConfiguration) QuotePath(path string) string {
	if c.quote == nil {
		return posixQuote(path)
	}
	return c.quote(path)
}

var configurations = map[ShellType]ShellConfiguration{
	Bash: {
		Type: Bash, ClearCommand: "clear", ChangeDirectoryFormat: "cd %s",
		PrintWorkingDirectory: "pwd", CommandSeparator: ";",
		SupportsOSC7: true, SupportsOSC133: true,
		LoginArguments: []string{"-l"}, InteractiveArguments: []string{"-i"},
	},
	Zsh: {
		Type: Zsh, ClearCommand: "clear", ChangeDirectoryFormat: "cd %s",
		PrintWorkingDirectory: "pwd", CommandSeparator: ";",
		SupportsOSC7: true, SupportsOSC133: true,
		LoginArguments: []string{"-l"}, InteractiveArguments: []string{"-i"},
	},
	Fish: {
		Type: Fish, ClearCommand: "clear", ChangeDirectoryFormat: "cd %s",
		PrintWorkingDirectory: "pwd", CommandSeparator: ";",
		SupportsOSC7: true, SupportsOSC133: true,
		LoginArguments: []string{"--login"}, InteractiveArguments: []string{"--interactive"},
	},
	Sh: {
		Type: Sh, ClearCommand: "clear", ChangeDirectoryFormat: "cd %s",
		PrintWorkingDirectory: "pwd", CommandSeparator: ";",
		LoginArguments: []string{"-l"}, InteractiveArguments: []string{"-i"},
	},
	Dash: {
		Type: Dash, ClearCommand: "clear", ChangeDirectoryFormat: "cd %s",
		PrintWorkingDirectory: "pwd", CommandSeparator: ";",
		LoginArguments: []string{"-l"}, InteractiveArguments: []string{"-i"},
	},
	Ksh: {
		Type: Ksh, ClearCommand: "clear", ChangeDirectoryFormat: "cd %s",
		PrintWorkingDirectory: "pwd", CommandSeparator: ";",
		LoginArguments: []string{"-l"}, InteractiveArguments: []string{"-i"},
	},
	Tcsh: {
		Type: Tcsh, ClearCommand: "clear", ChangeDirectoryFormat: "cd %s",
		PrintWorkingDirectory: "pwd", CommandSeparator: ";",
		LoginArguments: []string{"-l"}, InteractiveArguments: []string{"-i"},
	},
	Nushell: {
		Type: Nushell, ClearCommand: "clear", ChangeDirectoryFormat: "cd %s",
		PrintWorkingDirectory: "pwd", CommandSeparator: ";",
		SupportsOSC7: true, SupportsOSC133: true,
		LoginArguments: []string{"--login"}, InteractiveArguments: []string{"--interactive"},
		quote: doubleQuote,
	},
	PowerShell: {
		Type: PowerShell, ClearCommand: "Clear-Host", ChangeDirectoryFormat: "Set-Location -LiteralPath %s",
		PrintWorkingDirectory: "Get-Location", CommandSeparator: ";",
		SupportsOSC9: true, SupportsOSC133: true,
		LoginArguments: []string{"-NoLogo"}, InteractiveArguments: []string{"-NoExit"},
		quote: powershellQuote,
	},
	Cmd: {
		Type: Cmd, ClearCommand: "cls", ChangeDirectoryFormat: "cd /d %s",
		PrintWorkingDirectory: "cd", CommandSeparator: "&",
		SupportsOSC9: true,
		InteractiveArguments: []string{"/K"},
		quote: doubleQuote,
	},
}

// ConfigurationFor returns the configuration for t. Unknown types get
// POSIX sh behaviour without shell-integration capabilities.
func ConfigurationFor(t ShellType) ShellConfiguration {
	if c, ok := configurations[t]; ok {
		return c
	}
	c := configurations[Sh]
	c.Type = Unknown
	c.LoginArguments = nil
	c.InteractiveArguments = nil
	return c
}

// DefaultArguments returns the arguments used to start t.
func DefaultArguments(t ShellType, login bool) []string {
	c := ConfigurationFor(t)
	var args []string
	if login {
		args = c.LoginArguments
	} else {
		args = c.InteractiveArguments
	}
	return append([]string(nil), args...)
}

// FormatChangeDirectory returns the command line that changes into path,
// without a trailing newline.
func FormatChangeDirectory(t ShellType, path string) string {
	c := ConfigurationFor(t)
	return strings.Replace(c.ChangeDirectoryFormat, "%s", c.QuotePath(path), 1)
}

func posixQuote(s string) string {
	if s == "" {
		return "''"
	}
	if strings.IndexFunc(s, needsQuote) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("/._-+,:@%", r)
}

func doubleQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func powershellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
