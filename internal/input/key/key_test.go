package key

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyFromName(t *testing.T) {
	tests := []struct {
		name string
		want Key
	}{
		{"Enter", KeyEnter},
		{"return", KeyEnter},
		{"ESC", KeyEscape},
		{"PgUp", KeyPageUp},
		{"f1", KeyF1},
		{"F12", KeyF12},
		{"F13", KeyNone},
		{"F01", KeyNone},
		{"bogus", KeyNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KeyFromName(tt.name))
		})
	}
}

func TestModifierString(t *testing.T) {
	assert.Equal(t, "", ModNone.String())
	assert.Equal(t, "Ctrl+Shift", (ModShift | ModCtrl).String())
	assert.Equal(t, "Ctrl+Alt+Shift+Meta", (ModShift | ModCtrl | ModAlt | ModMeta).String())
	assert.Equal(t, ModCtrl, ModCtrl.With(ModAlt).Without(ModAlt))
}

func TestModifierXtermParam(t *testing.T) {
	assert.Equal(t, 1, ModNone.xtermParam())
	assert.Equal(t, 2, ModShift.xtermParam())
	assert.Equal(t, 5, ModCtrl.xtermParam())
	assert.Equal(t, 8, (ModCtrl | ModAlt | ModShift).xtermParam())
	assert.Equal(t, 16, (ModCtrl | ModAlt | ModShift | ModMeta).xtermParam())
}

func TestModifierFromName(t *testing.T) {
	assert.Equal(t, ModCtrl, ModifierFromName(" Control "))
	assert.Equal(t, ModAlt, ModifierFromName("Option"))
	assert.Equal(t, ModMeta, ModifierFromName("CMD"))
	assert.Equal(t, ModNone, ModifierFromName("hyper"))
}

func TestParse(t *testing.T) {
	tests := []struct {
		spec string
		want Chord
	}{
		{"Ctrl+C", Chord{Key: KeyRune, Rune: 'c', Mods: ModCtrl}},
		{"ctrl+c", Chord{Key: KeyRune, Rune: 'c', Mods: ModCtrl}},
		{"Ctrl+Shift+C", Chord{Key: KeyRune, Rune: 'c', Mods: ModCtrl | ModShift}},
		{"shift+ctrl+c", Chord{Key: KeyRune, Rune: 'c', Mods: ModCtrl | ModShift}},
		{"Alt+Enter", Chord{Key: KeyEnter, Mods: ModAlt}},
		{"F5", Chord{Key: KeyF5}},
		{"Ctrl+Space", Chord{Key: KeyRune, Rune: ' ', Mods: ModCtrl}},
		{"Ctrl++", Chord{Key: KeyRune, Rune: '+', Mods: ModCtrl}},
		{"Cmd+F", Chord{Key: KeyRune, Rune: 'f', Mods: ModMeta}},
		{" Ctrl + L ", Chord{Key: KeyRune, Rune: 'l', Mods: ModCtrl}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := Parse(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrEmptySpec)

	for _, spec := range []string{"Hyper+C", "Ctrl+", "Ctrl+Bogus"} {
		_, err := Parse(spec)
		assert.ErrorIs(t, err, ErrInvalidSpec, spec)
	}
}

func TestChordString_RoundTrips(t *testing.T) {
	for _, spec := range []string{"Ctrl+C", "Ctrl+Shift+C", "Alt+Enter", "F12", "Ctrl+Space", "Ctrl+Plus", "Shift+Tab"} {
		c := MustParse(spec)
		assert.Equal(t, spec, c.String())
		assert.Equal(t, c, MustParse(c.String()))
	}
}

func TestEventChord_UppercaseImpliesShift(t *testing.T) {
	a := NewRuneEvent('C', ModCtrl).Chord()
	b := NewRuneEvent('c', ModCtrl|ModShift).Chord()
	assert.Equal(t, a, b)
	assert.Equal(t, MustParse("Ctrl+Shift+C"), a)
	assert.NotEqual(t, MustParse("Ctrl+C"), a)

	assert.Equal(t, MustParse("Ctrl+C"), NewRuneEvent('c', ModCtrl).Chord())
	assert.Equal(t, MustParse("PageUp"), NewSpecialEvent(KeyPageUp, 0).Chord())
}

func TestChord_TOML(t *testing.T) {
	type doc struct {
		Bindings map[string]Chord `toml:"bindings"`
	}
	in := doc{Bindings: map[string]Chord{"copy": MustParse("Ctrl+Shift+C")}}
	data, err := toml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Ctrl+Shift+C")

	var out doc
	require.NoError(t, toml.Unmarshal([]byte("[bindings]\npaste = 'ctrl+shift+v'\n"), &out))
	assert.Equal(t, MustParse("Ctrl+Shift+V"), out.Bindings["paste"])

	assert.Error(t, toml.Unmarshal([]byte("[bindings]\npaste = 'Hyper+V'\n"), &out))
}
