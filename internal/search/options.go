package search

import (
	"time"

	"github.com/dshills/termhost/internal/config"
)

// Direction is a preferred search direction.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// Defaults applied when an Options field is zero.
const (
	DefaultMaxResults = 10000
	DefaultTimeout    = 5 * time.Second
)

// Options describes one search.
type Options struct {
	Query         string
	CaseSensitive bool
	Regex         bool
	WholeWord     bool
	WrapAround    bool

	// IncludeScrollback searches every stored line rather than only the
	// viewport.
	IncludeScrollback bool

	Direction Direction

	// MaxResults caps the result list. Zero means unlimited.
	MaxResults int

	// Timeout bounds the whole scan. It is clamped to the configured
	// regex timeout range.
	Timeout time.Duration
}

// DefaultOptions returns options for query with the default settings.
func DefaultOptions(query string) Options {
	return Options{
		Query:             query,
		WrapAround:        true,
		IncludeScrollback: true,
		MaxResults:        DefaultMaxResults,
		Timeout:           DefaultTimeout,
	}
}

// OptionsFromConfig returns options for query using cfg.
func OptionsFromConfig(query string, cfg config.SearchConfig) Options {
	return Options{
		Query:             query,
		CaseSensitive:     cfg.CaseSensitive,
		WrapAround:        cfg.WrapAround,
		IncludeScrollback: cfg.IncludeScrollback,
		MaxResults:        cfg.MaxResults,
		Timeout:           cfg.RegexTimeout.Std(),
	}
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return config.ClampRegexTimeout(o.Timeout)
}
