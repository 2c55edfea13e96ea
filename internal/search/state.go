package search

import (
	"fmt"
	"sort"
)

// State is an immutable search snapshot. Every method returns a new State
// and leaves the receiver untouched, so a State handed to a renderer stays
// valid while newer searches run.
type State struct {
	Query             string
	CaseSensitive     bool
	Regex             bool
	WholeWord         bool
	WrapAround        bool
	IncludeScrollback bool
	Direction         Direction

	Results []Result

	// CurrentIndex is -1 when there is no current result.
	CurrentIndex int

	IsSearching  bool
	ErrorMessage string
}

// Idle returns the empty state.
func Idle() State {
	return State{CurrentIndex: -1, WrapAround: true, IncludeScrollback: true}
}

// ForQuery returns a fresh state for opts with no results.
func ForQuery(opts Options) State {
	return State{
		Query:             opts.Query,
		CaseSensitive:     opts.CaseSensitive,
		Regex:             opts.Regex,
		WholeWord:         opts.WholeWord,
		WrapAround:        opts.WrapAround,
		IncludeScrollback: opts.IncludeScrollback,
		Direction:         opts.Direction,
		CurrentIndex:      -1,
	}
}

// Searching marks a search in flight.
func (s State) Searching() State {
	s.Results = cloneResults(s.Results)
	s.IsSearching = true
	s.ErrorMessage = ""
	return s
}

// WithResults replaces the results and selects the first one.
func (s State) WithResults(results []Result) State {
	s.Results = cloneResults(results)
	for i := range s.Results {
		s.Results[i].IsCurrent = false
	}
	s.CurrentIndex = -1
	if len(s.Results) > 0 {
		s.CurrentIndex = 0
		s.Results[0].IsCurrent = true
	}
	s.IsSearching = false
	s.ErrorMessage = ""
	return s
}

// WithError clears the results and records msg.
func (s State) WithError(msg string) State {
	s.Results = nil
	s.CurrentIndex = -1
	s.IsSearching = false
	s.ErrorMessage = msg
	return s
}

// WithCurrentIndex selects result i. Out of range indices clear the
// selection.
func (s State) WithCurrentIndex(i int) State {
	if i < 0 || i >= len(s.Results) {
		i = -1
	}
	if i == s.CurrentIndex {
		return s
	}
	s.Results = cloneResults(s.Results)
	if s.CurrentIndex >= 0 && s.CurrentIndex < len(s.Results) {
		s.Results[s.CurrentIndex].IsCurrent = false
	}
	if i >= 0 {
		s.Results[i].IsCurrent = true
	}
	s.CurrentIndex = i
	return s
}

// NavigateNext moves to the next result, wrapping or clamping at the end
// according to WrapAround.
func (s State) NavigateNext() State {
	n := len(s.Results)
	if n == 0 {
		return s
	}
	next := s.CurrentIndex + 1
	if next >= n {
		if s.WrapAround {
			next = 0
		} else {
			next = n - 1
		}
	}
	return s.WithCurrentIndex(next)
}

// NavigatePrevious moves to the previous result, wrapping or clamping at the
// start according to WrapAround.
func (s State) NavigatePrevious() State {
	n := len(s.Results)
	if n == 0 {
		return s
	}
	prev := s.CurrentIndex - 1
	if s.CurrentIndex < 0 {
		prev = n - 1
	}
	if prev < 0 {
		if s.WrapAround {
			prev = n - 1
		} else {
			prev = 0
		}
	}
	return s.WithCurrentIndex(prev)
}

// CurrentResult returns the selected result, or nil.
func (s State) CurrentResult() *Result {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Results) {
		return nil
	}
	r := s.Results[s.CurrentIndex]
	return &r
}

// FindNearestResultIndex returns the result closest to line. A result on
// line wins outright; otherwise the nearest result in direction dir wins,
// falling back to the nearest in the other direction. It returns -1 when
// there are no results.
func (s State) FindNearestResultIndex(line int64, dir Direction) int {
	n := len(s.Results)
	if n == 0 {
		return -1
	}
	// first result at or after line
	i := sort.Search(n, func(i int) bool { return s.Results[i].LineIndex >= line })
	if i < n && s.Results[i].LineIndex == line {
		return i
	}

	after, before := -1, -1
	if i < n {
		after = i
	}
	if i > 0 {
		before = i - 1
		// first result on that line
		l := s.Results[before].LineIndex
		for before > 0 && s.Results[before-1].LineIndex == l {
			before--
		}
	}

	switch {
	case after < 0:
		return before
	case before < 0:
		return after
	case dir == Forward:
		return after
	default:
		return before
	}
}

// WithNearest selects the result nearest to line.
func (s State) WithNearest(line int64, dir Direction) State {
	return s.WithCurrentIndex(s.FindNearestResultIndex(line, dir))
}

// HasResults reports whether there is at least one result.
func (s State) HasResults() bool {
	return len(s.Results) > 0
}

// ResultCount returns the number of results.
func (s State) ResultCount() int {
	return len(s.Results)
}

// IsIdle reports whether no query is set.
func (s State) IsIdle() bool {
	return s.Query == ""
}

// ResultsInRange returns the results on lines [first, last], for highlight
// overlays.
func (s State) ResultsInRange(first, last int64) []Result {
	lo := sort.Search(len(s.Results), func(i int) bool { return s.Results[i].LineIndex >= first })
	hi := sort.Search(len(s.Results), func(i int) bool { return s.Results[i].LineIndex > last })
	if lo >= hi {
		return nil
	}
	return cloneResults(s.Results[lo:hi])
}

// StatusText summarizes the state for a status bar.
func (s State) StatusText() string {
	switch {
	case s.ErrorMessage != "":
		return s.ErrorMessage
	case s.IsSearching:
		return "Searching..."
	case s.IsIdle():
		return ""
	case len(s.Results) == 0:
		return "No results"
	case s.CurrentIndex < 0:
		return fmt.Sprintf("%d results", len(s.Results))
	default:
		return fmt.Sprintf("%d of %d", s.CurrentIndex+1, len(s.Results))
	}
}

func cloneResults(in []Result) []Result {
	if in == nil {
		return nil
	}
	out := make([]Result, len(in))
	copy(out, in)
	return out
}
