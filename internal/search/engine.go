package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
	"go.uber.org/zap"

	"github.com/dshills/termhost/internal/terminal"
)

// minMatchTimeout keeps the per-match bound above regexp2's clock
// resolution once the scan budget is nearly spent.
const minMatchTimeout = time.Millisecond

// Engine runs searches over buffer snapshots. Starting a run cancels the
// one in flight.
type Engine struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc

	logger *zap.Logger
}

// NewEngine creates an engine. A nil logger is replaced with a no-op logger.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger.Named("search")}
}

// Run searches snap and returns the resulting state. An empty query returns
// an idle state. Invalid patterns and timeouts produce a state carrying
// ErrorMessage. If the run is canceled, by ctx or by a newer Run, prev is
// returned unchanged.
func (e *Engine) Run(ctx context.Context, snap terminal.Snapshot, opts Options, prev State) State {
	if opts.Query == "" {
		e.Cancel()
		return ForQuery(opts)
	}

	ctx, done := e.begin(ctx)
	defer done()

	results, err := Search(ctx, snap, opts)
	switch {
	case err == nil:
		return ForQuery(opts).WithResults(results)
	case errors.Is(err, ErrCanceled):
		return prev
	default:
		e.logger.Debug("search failed", zap.String("query", opts.Query), zap.Error(err))
		return ForQuery(opts).WithError(err.Error())
	}
}

// Cancel aborts the run in flight, if any.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.seq++
}

func (e *Engine) begin(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.seq++
	seq := e.seq
	e.cancel = cancel
	e.mu.Unlock()

	return ctx, func() {
		e.mu.Lock()
		if e.seq == seq {
			e.cancel = nil
		}
		e.mu.Unlock()
		cancel()
	}
}

// Compile builds the matcher for opts. Plain queries are escaped; WholeWord
// wraps the pattern in word boundaries.
func Compile(opts Options) (*regexp2.Regexp, error) {
	pattern := opts.Query
	if !opts.Regex {
		pattern = regexp2.Escape(pattern)
	}
	if opts.WholeWord {
		pattern = `\b(?:` + pattern + `)\b`
	}
	flags := regexp2.None
	if !opts.CaseSensitive {
		flags |= regexp2.IgnoreCase
	}
	re, err := regexp2.Compile(pattern, flags)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return re, nil
}

// Search scans snap for opts.Query and returns matches ordered by line and
// column, capped at opts.MaxResults. The whole scan is bounded by the
// options timeout; exceeding it returns ErrTimeout.
func Search(ctx context.Context, snap terminal.Snapshot, opts Options) ([]Result, error) {
	if opts.Query == "" {
		return nil, nil
	}
	re, err := Compile(opts)
	if err != nil {
		return nil, err
	}

	timeout := opts.timeout()
	deadline := time.Now().Add(timeout)

	lines := snap.Lines
	if !opts.IncludeScrollback {
		lines = snap.Visible()
	}

	var results []Result
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCanceled, err)
		}
		if line.Text == "" {
			continue
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		re.MatchTimeout = max(remaining, minMatchTimeout)

		m, err := re.FindStringMatch(line.Text)
		for m != nil && err == nil {
			if m.Length > 0 {
				results = append(results, Result{
					LineIndex:   line.Index,
					StartColumn: m.Index,
					Length:      m.Length,
					MatchedText: m.String(),
					LineText:    line.Text,
				})
				if opts.MaxResults > 0 && len(results) >= opts.MaxResults {
					return results, nil
				}
			}
			if ctx.Err() != nil {
				break
			}
			m, err = re.FindNextMatch(m)
		}
		if err != nil {
			// regexp2 only fails a match on timeout; its message quotes the
			// whole input line.
			return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCanceled, err)
	}
	return results, nil
}
