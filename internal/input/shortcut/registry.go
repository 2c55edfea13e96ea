package shortcut

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dshills/termhost/internal/input/key"
)

// Registry holds bindings keyed by action with a chord index over the
// enabled ones.
type Registry struct {
	mu sync.RWMutex

	bindings map[Action]*Binding
	order    []Action

	// chords indexes enabled, bound bindings.
	chords map[key.Chord]*Binding

	defaults []Binding
}

// NewRegistry creates a registry holding defaults. ResetToDefaults returns
// to this set.
func NewRegistry(defaults ...Binding) (*Registry, error) {
	r := &Registry{defaults: slices.Clone(defaults)}
	if err := r.resetLocked(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) resetLocked() error {
	r.bindings = make(map[Action]*Binding, len(r.defaults))
	r.chords = make(map[key.Chord]*Binding, len(r.defaults))
	r.order = make([]Action, 0, len(r.defaults))
	for _, b := range r.defaults {
		if err := r.registerLocked(b); err != nil {
			return err
		}
	}
	return nil
}

// Register adds a binding. It fails if the action is already registered or
// if the binding is enabled and its chord belongs to another enabled
// binding.
func (r *Registry) Register(b Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(b)
}

func (r *Registry) registerLocked(b Binding) error {
	if b.Action == "" {
		return fmt.Errorf("%w: empty action", ErrUnknownAction)
	}
	if _, ok := r.bindings[b.Action]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateAction, b.Action)
	}
	nb := b
	if nb.active() {
		if err := r.conflictLocked(nb.Action, nb.Chord); err != nil {
			return err
		}
		r.chords[nb.Chord] = &nb
	}
	r.bindings[nb.Action] = &nb
	r.order = append(r.order, nb.Action)
	return nil
}

// Unregister removes the binding for action.
func (r *Registry) Unregister(action Action) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bindings[action]
	if !ok {
		return false
	}
	r.unindexLocked(b)
	delete(r.bindings, action)
	if i := slices.Index(r.order, action); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return true
}

// Rebind moves action to chord. Rebinding to the current chord is a no-op.
// A zero chord unbinds the action.
func (r *Registry) Rebind(action Action, chord key.Chord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bindings[action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	if b.Chord == chord {
		return nil
	}
	if !b.Customizable {
		return fmt.Errorf("%w: %s", ErrNotCustomizable, action)
	}
	if err := r.conflictLocked(action, chord); err != nil {
		return err
	}
	r.unindexLocked(b)
	b.Chord = chord
	r.indexLocked(b)
	return nil
}

// UpdateBinding is Rebind reporting success as a bool. On false both the
// binding and any conflicting binding are unchanged; use
// GetConflictingBinding to find the owner of chord.
func (r *Registry) UpdateBinding(action Action, chord key.Chord) bool {
	return r.Rebind(action, chord) == nil
}

// SetEnabled enables or disables action. Enabling fails when another
// enabled binding holds the same chord.
func (r *Registry) SetEnabled(action Action, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bindings[action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	if b.Enabled == enabled {
		return nil
	}
	if enabled {
		if err := r.conflictLocked(action, b.Chord); err != nil {
			return err
		}
	}
	r.unindexLocked(b)
	b.Enabled = enabled
	r.indexLocked(b)
	return nil
}

// TryGetAction returns the enabled binding for chord. It is called for every
// key press and does not allocate.
func (r *Registry) TryGetAction(chord key.Chord) (Binding, bool) {
	r.mu.RLock()
	b := r.chords[chord]
	if b == nil {
		r.mu.RUnlock()
		return Binding{}, false
	}
	out := *b
	r.mu.RUnlock()
	return out, true
}

// Binding returns the binding for action.
func (r *Registry) Binding(action Action) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bindings[action]
	if !ok {
		return Binding{}, false
	}
	return *b, true
}

// GetConflictingBinding returns the enabled binding other than action that
// holds chord.
func (r *Registry) GetConflictingBinding(action Action, chord key.Chord) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if err := r.conflictLocked(action, chord); err != nil {
		return err.Existing, true
	}
	return Binding{}, false
}

// All returns every binding in registration order.
func (r *Registry) All() []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Binding, 0, len(r.order))
	for _, a := range r.order {
		out = append(out, *r.bindings[a])
	}
	return out
}

// ByCategory returns all bindings grouped for display.
func (r *Registry) ByCategory() []BindingCategory {
	return GroupByCategory(r.All())
}

// Len returns the number of registered bindings.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bindings)
}

// Defaults returns the bindings the registry was created with.
func (r *Registry) Defaults() []Binding {
	return slices.Clone(r.defaults)
}

// ResetToDefaults discards every change, including bindings added with
// Register.
func (r *Registry) ResetToDefaults() {
	r.mu.Lock()
	defer r.mu.Unlock()
	// The defaults were accepted by NewRegistry.
	_ = r.resetLocked()
}

// Override is a change to a default binding. Nil fields are unchanged.
type Override struct {
	Action  Action
	Chord   *key.Chord
	Enabled *bool
}

// Overrides returns the differences between the current bindings and the
// defaults, in default order.
func (r *Registry) Overrides() []Override {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Override
	for _, d := range r.defaults {
		cur, ok := r.bindings[d.Action]
		if !ok {
			continue
		}
		ov := Override{Action: d.Action}
		if cur.Chord != d.Chord {
			c := cur.Chord
			ov.Chord = &c
		}
		if cur.Enabled != d.Enabled {
			e := cur.Enabled
			ov.Enabled = &e
		}
		if ov.Chord != nil || ov.Enabled != nil {
			out = append(out, ov)
		}
	}
	return out
}

// ApplyOverrides resets the registry to its defaults and applies ovs.
// Overrides may swap chords between actions. An override that names an
// unknown action or moves a fixed binding is skipped; one whose chord
// collides with another enabled binding falls back to its default chord,
// or is disabled if that is taken too. All such problems are returned
// joined.
func (r *Registry) ApplyOverrides(ovs []Override) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.resetLocked(); err != nil {
		return err
	}

	var errs []error
	touched := make(map[Action]bool, len(ovs))
	var changed []*Binding
	for _, ov := range ovs {
		b, ok := r.bindings[ov.Action]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownAction, ov.Action))
			continue
		}
		if ov.Chord != nil && *ov.Chord != b.Chord && !b.Customizable {
			errs = append(errs, fmt.Errorf("%w: %s", ErrNotCustomizable, ov.Action))
			continue
		}
		if !touched[ov.Action] {
			touched[ov.Action] = true
			changed = append(changed, b)
		}
		if ov.Chord != nil {
			b.Chord = *ov.Chord
		}
		if ov.Enabled != nil {
			b.Enabled = *ov.Enabled
		}
	}

	// Unchanged defaults keep their chords; overridden bindings are indexed
	// after them in override order.
	clear(r.chords)
	for _, a := range r.order {
		if b := r.bindings[a]; !touched[a] && b.active() {
			r.chords[b.Chord] = b
		}
	}
	for _, b := range changed {
		if !b.active() {
			continue
		}
		if err := r.conflictLocked(b.Action, b.Chord); err != nil {
			errs = append(errs, err)
			b.Chord = r.defaultChord(b.Action)
			if !b.active() || r.chords[b.Chord] != nil {
				b.Enabled = false
				continue
			}
		}
		r.chords[b.Chord] = b
	}
	return errors.Join(errs...)
}

func (r *Registry) defaultChord(action Action) key.Chord {
	for _, d := range r.defaults {
		if d.Action == action {
			return d.Chord
		}
	}
	return key.Chord{}
}

func (r *Registry) conflictLocked(action Action, chord key.Chord) *ConflictError {
	if chord.IsZero() {
		return nil
	}
	owner := r.chords[chord]
	if owner == nil || owner.Action == action {
		return nil
	}
	return &ConflictError{Action: action, Chord: chord, Existing: *owner}
}

func (r *Registry) indexLocked(b *Binding) {
	if b.active() {
		r.chords[b.Chord] = b
	}
}

func (r *Registry) unindexLocked(b *Binding) {
	if r.chords[b.Chord] == b {
		delete(r.chords, b.Chord)
	}
}
