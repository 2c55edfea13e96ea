package shortcut

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/termhost/internal/input/key"
)

func chord(spec string) key.Chord {
	return key.MustParse(spec)
}

func TestDefaultBindings_Valid(t *testing.T) {
	r := NewDefaultRegistry()
	defaults := DefaultBindings()
	assert.Equal(t, len(defaults), r.Len())

	seen := make(map[key.Chord]Action)
	for _, b := range defaults {
		assert.True(t, b.Enabled, b.Action)
		assert.NotEmpty(t, b.Description, b.Action)
		if prev, ok := seen[b.Chord]; ok {
			t.Errorf("%s and %s share %s", prev, b.Action, b.Chord)
		}
		seen[b.Chord] = b.Action
		if b.PassToPty {
			assert.False(t, b.Customizable, b.Action)
			assert.Equal(t, CategoryTerminal, b.Category, b.Action)
		}
	}
}

func TestRegistry_InterruptBlocksCopy(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	interrupt := NewBinding(ActionSendInterrupt, chord("Ctrl+C"), CategoryTerminal).PassThrough()
	require.NoError(t, r.Register(interrupt))

	err = r.Register(NewBinding(ActionCopy, chord("Ctrl+C"), CategoryClipboard))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)

	var ce *ConflictError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ActionCopy, ce.Action)
	assert.Equal(t, ActionSendInterrupt, ce.Existing.Action)
	assert.Contains(t, err.Error(), "terminal.sendInterrupt")

	b, ok := r.TryGetAction(chord("Ctrl+C"))
	require.True(t, ok)
	assert.Equal(t, ActionSendInterrupt, b.Action)
	assert.True(t, b.PassToPty)
}

func TestRegistry_UpdateBindingConflictLaw(t *testing.T) {
	r := NewDefaultRegistry()

	before := r.All()
	assert.False(t, r.UpdateBinding(ActionCopy, chord("Ctrl+C")))
	assert.Equal(t, before, r.All(), "both bindings unchanged")

	other, ok := r.GetConflictingBinding(ActionCopy, chord("Ctrl+C"))
	require.True(t, ok)
	assert.Equal(t, ActionSendInterrupt, other.Action)

	// Rebinding to the current chord succeeds.
	assert.True(t, r.UpdateBinding(ActionCopy, chord("Ctrl+Shift+C")))
	_, ok = r.GetConflictingBinding(ActionCopy, chord("Ctrl+Shift+C"))
	assert.False(t, ok)

	assert.True(t, r.UpdateBinding(ActionCopy, chord("Alt+C")))
	b, ok := r.TryGetAction(chord("Alt+C"))
	require.True(t, ok)
	assert.Equal(t, ActionCopy, b.Action)
	_, ok = r.TryGetAction(chord("Ctrl+Shift+C"))
	assert.False(t, ok, "old chord released")
}

func TestRegistry_NotCustomizable(t *testing.T) {
	r := NewDefaultRegistry()

	err := r.Rebind(ActionSendInterrupt, chord("Ctrl+Shift+K"))
	assert.ErrorIs(t, err, ErrNotCustomizable)
	assert.False(t, r.UpdateBinding(ActionSendInterrupt, chord("Ctrl+Shift+K")))
	assert.True(t, r.UpdateBinding(ActionSendInterrupt, chord("Ctrl+C")))

	assert.ErrorIs(t, r.Rebind("nope", chord("F9")), ErrUnknownAction)
}

func TestRegistry_DisabledBindingReleasesChord(t *testing.T) {
	r := NewDefaultRegistry()

	require.NoError(t, r.SetEnabled(ActionFindNext, false))
	_, ok := r.TryGetAction(chord("F3"))
	assert.False(t, ok)

	require.True(t, r.UpdateBinding(ActionFind, chord("F3")))

	err := r.SetEnabled(ActionFindNext, true)
	assert.ErrorIs(t, err, ErrConflict)
	b, _ := r.Binding(ActionFindNext)
	assert.False(t, b.Enabled)

	// A disabled binding still checks its new chord against enabled ones.
	assert.False(t, r.UpdateBinding(ActionFindNext, chord("Ctrl+D")))
}

func TestRegistry_RegisterAndUnregister(t *testing.T) {
	r := NewDefaultRegistry()

	assert.ErrorIs(t, r.Register(NewBinding(ActionCopy, chord("F9"), CategoryClipboard)), ErrDuplicateAction)
	assert.ErrorIs(t, r.Register(Binding{}), ErrUnknownAction)

	custom := NewBinding("app.zoom", chord("Ctrl+Plus"), "View")
	require.NoError(t, r.Register(custom))

	// Unbound bindings never conflict.
	require.NoError(t, r.Register(NewBinding("app.one", key.Chord{}, "View")))
	require.NoError(t, r.Register(NewBinding("app.two", key.Chord{}, "View")))

	// Disabled bindings may share a chord with an enabled one.
	disabled := NewBinding("app.alt", chord("Ctrl+Plus"), "View")
	disabled.Enabled = false
	require.NoError(t, r.Register(disabled))

	assert.True(t, r.Unregister("app.zoom"))
	assert.False(t, r.Unregister("app.zoom"))
	_, ok := r.TryGetAction(chord("Ctrl+Plus"))
	assert.False(t, ok)

	require.NoError(t, r.SetEnabled("app.alt", true))
	b, ok := r.TryGetAction(chord("Ctrl+Plus"))
	require.True(t, ok)
	assert.Equal(t, Action("app.alt"), b.Action)
}

func TestRegistry_ByCategory(t *testing.T) {
	r := NewDefaultRegistry()
	require.NoError(t, r.Register(NewBinding("app.zoom", chord("Ctrl+Plus"), "View")))

	groups := r.ByCategory()
	var names []Category
	for _, g := range groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []Category{
		CategoryTerminal, CategoryClipboard, CategorySearch, CategorySession, CategoryNavigation, "View",
	}, names)
	assert.Equal(t, ActionSendInterrupt, groups[0].Bindings[0].Action)
}

func TestRegistry_ResetToDefaults(t *testing.T) {
	r := NewDefaultRegistry()
	require.True(t, r.UpdateBinding(ActionCopy, chord("Alt+C")))
	require.NoError(t, r.Register(NewBinding("app.zoom", chord("Ctrl+Plus"), "View")))

	r.ResetToDefaults()

	assert.Equal(t, DefaultBindings(), r.All())
	assert.Empty(t, r.Overrides())
}

func TestRegistry_Overrides(t *testing.T) {
	r := NewDefaultRegistry()
	require.True(t, r.UpdateBinding(ActionCopy, chord("Alt+C")))
	require.NoError(t, r.SetEnabled(ActionFindNext, false))
	require.True(t, r.UpdateBinding(ActionPaste, key.Chord{}))

	ovs := r.Overrides()
	require.Len(t, ovs, 3)

	assert.Equal(t, ActionCopy, ovs[0].Action)
	require.NotNil(t, ovs[0].Chord)
	assert.Equal(t, chord("Alt+C"), *ovs[0].Chord)
	assert.Nil(t, ovs[0].Enabled)

	assert.Equal(t, ActionPaste, ovs[1].Action)
	require.NotNil(t, ovs[1].Chord)
	assert.True(t, ovs[1].Chord.IsZero())

	assert.Equal(t, ActionFindNext, ovs[2].Action)
	assert.Nil(t, ovs[2].Chord)
	require.NotNil(t, ovs[2].Enabled)
	assert.False(t, *ovs[2].Enabled)

	fresh := NewDefaultRegistry()
	require.NoError(t, fresh.ApplyOverrides(ovs))
	assert.Equal(t, r.All(), fresh.All())
}

func TestRegistry_ApplyOverridesSwap(t *testing.T) {
	r := NewDefaultRegistry()
	copyChord, pasteChord := chord("Ctrl+Shift+V"), chord("Ctrl+Shift+C")

	err := r.ApplyOverrides([]Override{
		{Action: ActionCopy, Chord: &copyChord},
		{Action: ActionPaste, Chord: &pasteChord},
	})
	require.NoError(t, err)

	b, _ := r.TryGetAction(chord("Ctrl+Shift+V"))
	assert.Equal(t, ActionCopy, b.Action)
	b, _ = r.TryGetAction(chord("Ctrl+Shift+C"))
	assert.Equal(t, ActionPaste, b.Action)
}

func TestRegistry_ApplyOverridesRejects(t *testing.T) {
	r := NewDefaultRegistry()
	taken, fixed, moved := chord("Ctrl+C"), chord("Ctrl+Shift+K"), chord("Alt+F")

	err := r.ApplyOverrides([]Override{
		{Action: ActionCopy, Chord: &taken},
		{Action: ActionSendInterrupt, Chord: &fixed},
		{Action: "nope", Chord: &moved},
		{Action: ActionFind, Chord: &moved},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.ErrorIs(t, err, ErrNotCustomizable)
	assert.ErrorIs(t, err, ErrUnknownAction)

	b, _ := r.Binding(ActionCopy)
	assert.Equal(t, chord("Ctrl+Shift+C"), b.Chord, "falls back to default")
	assert.True(t, b.Enabled)

	b, _ = r.Binding(ActionSendInterrupt)
	assert.Equal(t, chord("Ctrl+C"), b.Chord)

	b, _ = r.TryGetAction(chord("Alt+F"))
	assert.Equal(t, ActionFind, b.Action)
}

func TestRegistry_ApplyOverridesDisablesWhenDefaultTaken(t *testing.T) {
	r := NewDefaultRegistry()
	findChord, nextChord := chord("F3"), chord("Ctrl+L")

	// search.open takes F3 first, so search.findNext cannot fall back to it.
	err := r.ApplyOverrides([]Override{
		{Action: ActionFind, Chord: &findChord},
		{Action: ActionFindNext, Chord: &nextChord},
	})
	assert.ErrorIs(t, err, ErrConflict)

	b, _ := r.Binding(ActionFindNext)
	assert.False(t, b.Enabled)
	b, _ = r.TryGetAction(chord("F3"))
	assert.Equal(t, ActionFind, b.Action)
	b, _ = r.TryGetAction(chord("Ctrl+L"))
	assert.Equal(t, ActionClearScreen, b.Action)
}

func TestRegistry_TryGetActionDoesNotAllocate(t *testing.T) {
	r := NewDefaultRegistry()
	hit, miss := chord("Ctrl+C"), chord("Ctrl+Alt+Q")

	allocs := testing.AllocsPerRun(100, func() {
		_, _ = r.TryGetAction(hit)
		_, _ = r.TryGetAction(miss)
	})
	assert.Zero(t, allocs)
}

func TestGroupByCategory_Empty(t *testing.T) {
	assert.Empty(t, GroupByCategory(nil))
}
