// Package config holds the explicit configuration passed into the session
// manager, search engine and shortcut registry.
//
// Configuration is layered: Default, then an optional TOML file, then
// environment variables prefixed with TERMHOST_.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalid is returned when a configuration value is out of range.
var ErrInvalid = errors.New("invalid configuration")

// Search timeout bounds.
const (
	MinRegexTimeout = 100 * time.Millisecond
	MaxRegexTimeout = 30 * time.Second
)

// Config is the root configuration.
type Config struct {
	Log         LogConfig         `toml:"log"`
	Terminal    TerminalConfig    `toml:"terminal"`
	Search      SearchConfig      `toml:"search"`
	Keybindings KeybindingsConfig `toml:"keybindings"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string   `toml:"level"`
	Development bool     `toml:"development"`
	OutputPaths []string `toml:"output_paths" split_words:"true"`
}

// TerminalConfig holds session defaults.
type TerminalConfig struct {
	// Shell overrides shell auto-detection when set.
	Shell string `toml:"shell"`

	Cols       int `toml:"cols"`
	Rows       int `toml:"rows"`
	Scrollback int `toml:"scrollback"`

	// CloseGrace bounds how long CloseSession waits for a graceful exit.
	CloseGrace Duration `toml:"close_grace" split_words:"true"`

	// IOTimeout bounds Write, Resize and SendSignal.
	IOTimeout Duration `toml:"io_timeout" split_words:"true"`

	Term       string `toml:"term"`
	LoginShell bool   `toml:"login_shell" split_words:"true"`
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	RegexTimeout      Duration `toml:"regex_timeout" split_words:"true"`
	MaxResults        int      `toml:"max_results" split_words:"true"`
	Debounce          Duration `toml:"debounce"`
	CaseSensitive     bool     `toml:"case_sensitive" split_words:"true"`
	WrapAround        bool     `toml:"wrap_around" split_words:"true"`
	IncludeScrollback bool     `toml:"include_scrollback" split_words:"true"`
}

// KeybindingsConfig locates the shortcut override file.
type KeybindingsConfig struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:       "info",
			OutputPaths: []string{"stderr"},
		},
		Terminal: TerminalConfig{
			Cols:       80,
			Rows:       24,
			Scrollback: 10000,
			CloseGrace: Duration(3 * time.Second),
			IOTimeout:  Duration(250 * time.Millisecond),
			Term:       "xterm-256color",
			LoginShell: true,
		},
		Search: SearchConfig{
			RegexTimeout:      Duration(5 * time.Second),
			MaxResults:        10000,
			Debounce:          Duration(150 * time.Millisecond),
			WrapAround:        true,
			IncludeScrollback: true,
		},
	}
}

// Validate checks ranges and clamps the regex timeout into
// [MinRegexTimeout, MaxRegexTimeout].
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	if c.Terminal.Cols < 1 || c.Terminal.Rows < 1 {
		return fmt.Errorf("%w: terminal size %dx%d", ErrInvalid, c.Terminal.Cols, c.Terminal.Rows)
	}
	if c.Terminal.Scrollback < 1 {
		return fmt.Errorf("%w: scrollback %d", ErrInvalid, c.Terminal.Scrollback)
	}
	if c.Terminal.CloseGrace < 0 || c.Terminal.IOTimeout <= 0 {
		return fmt.Errorf("%w: terminal timeouts", ErrInvalid)
	}
	if c.Search.MaxResults < 0 {
		return fmt.Errorf("%w: max results %d", ErrInvalid, c.Search.MaxResults)
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("%w: debounce %s", ErrInvalid, c.Search.Debounce)
	}
	c.Search.RegexTimeout = Duration(ClampRegexTimeout(c.Search.RegexTimeout.Std()))
	return nil
}

// ClampRegexTimeout bounds d to the supported regex timeout range.
func ClampRegexTimeout(d time.Duration) time.Duration {
	if d < MinRegexTimeout {
		return MinRegexTimeout
	}
	if d > MaxRegexTimeout {
		return MaxRegexTimeout
	}
	return d
}
