package app

import (
	"context"

	"github.com/dshills/termhost/internal/search"
)

// OnSearch registers fn to receive every new search state. It runs on the
// goroutine that produced the state.
func (a *App) OnSearch(fn func(search.State)) {
	a.mu.Lock()
	a.onSearch = fn
	a.mu.Unlock()
}

// SearchState returns the current search state.
func (a *App) SearchState() search.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.searchState
}

// SearchOptions returns the options the next search will use.
func (a *App) SearchOptions() search.Options {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.searchOpts
}

// SetSearchOptions replaces the search options and reruns the current
// query.
func (a *App) SetSearchOptions(opts search.Options) {
	a.mu.Lock()
	a.searchOpts = opts
	a.mu.Unlock()
	a.UpdateQuery(opts.Query)
}

// UpdateQuery schedules a search for query after the configured debounce
// delay. Each call replaces the pending one.
func (a *App) UpdateQuery(query string) {
	a.mu.Lock()
	a.searchOpts.Query = query
	opts := a.searchOpts
	a.mu.Unlock()

	if query == "" {
		a.debouncer.Cancel()
		a.engine.Cancel()
		a.setSearchState(search.ForQuery(opts), 0)
		return
	}
	a.debouncer.Trigger(func() {
		a.Search(context.Background(), opts)
	})
}

// Search runs opts against the active session now and returns the new
// state. The current result is the match nearest the viewport.
func (a *App) Search(ctx context.Context, opts search.Options) search.State {
	a.mu.Lock()
	a.searchSeq++
	seq := a.searchSeq
	prev := a.searchState
	a.mu.Unlock()

	s := a.sessions.ActiveSession()
	if s == nil {
		st := search.ForQuery(opts).WithError(ErrNoActiveSession.Error())
		a.setSearchState(st, seq)
		return st
	}

	snap := s.Buffer().Snapshot()
	st := a.engine.Run(ctx, snap, opts, prev)
	if st.HasResults() {
		anchor := snap.ViewportBottom
		if opts.Direction == search.Forward {
			anchor = snap.ViewportTop
		}
		st = st.WithNearest(anchor, opts.Direction)
	}
	a.setSearchState(st, seq)
	return st
}

// FindNext moves to the next result.
func (a *App) FindNext() search.State {
	return a.navigate(search.State.NavigateNext)
}

// FindPrevious moves to the previous result.
func (a *App) FindPrevious() search.State {
	return a.navigate(search.State.NavigatePrevious)
}

// ClearSearch cancels pending work and resets the state to idle.
func (a *App) ClearSearch() {
	a.debouncer.Cancel()
	a.engine.Cancel()
	a.mu.Lock()
	a.searchOpts.Query = ""
	a.mu.Unlock()
	a.setSearchState(search.Idle(), 0)
}

func (a *App) navigate(step func(search.State) search.State) search.State {
	a.mu.Lock()
	st := step(a.searchState)
	a.searchState = st
	fn := a.onSearch
	a.mu.Unlock()
	if fn != nil {
		fn(st)
	}
	return st
}

// setSearchState stores st unless a newer search started after seq. A zero
// seq always wins and supersedes running searches.
func (a *App) setSearchState(st search.State, seq uint64) {
	a.mu.Lock()
	if seq == 0 {
		a.searchSeq++
	} else if seq != a.searchSeq {
		a.mu.Unlock()
		return
	}
	a.searchState = st
	fn := a.onSearch
	a.mu.Unlock()
	if fn != nil {
		fn(st)
	}
}
