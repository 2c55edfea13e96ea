package shortcut

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/termhost/internal/input/key"
)

func TestReadOverrides(t *testing.T) {
	src := `
[[binding]]
action = "clipboard.copy"
chord = "alt+c"

[[binding]]
action = "clipboard.paste"
chord = ""

[[binding]]
action = "search.findNext"
enabled = false
`
	ovs, err := ReadOverrides(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, ovs, 3)

	assert.Equal(t, ActionCopy, ovs[0].Action)
	assert.Equal(t, key.MustParse("Alt+C"), *ovs[0].Chord)
	assert.Nil(t, ovs[0].Enabled)

	require.NotNil(t, ovs[1].Chord)
	assert.True(t, ovs[1].Chord.IsZero())

	assert.Nil(t, ovs[2].Chord)
	assert.False(t, *ovs[2].Enabled)
}

func TestReadOverrides_Errors(t *testing.T) {
	_, err := ReadOverrides(strings.NewReader("[[binding]]\naction = \"clipboard.copy\"\nchord = \"Hyper+C\"\n"))
	assert.ErrorIs(t, err, key.ErrInvalidSpec)
	assert.Contains(t, err.Error(), "clipboard.copy")

	_, err = ReadOverrides(strings.NewReader("[[binding"))
	assert.Error(t, err)
}

func TestWriteOverrides_RoundTrip(t *testing.T) {
	r := NewDefaultRegistry()
	require.True(t, r.UpdateBinding(ActionCopy, key.MustParse("Alt+C")))
	require.True(t, r.UpdateBinding(ActionPaste, key.Chord{}))
	require.NoError(t, r.SetEnabled(ActionFindNext, false))

	var buf bytes.Buffer
	require.NoError(t, WriteOverrides(&buf, r.Overrides()))
	assert.Contains(t, buf.String(), "[[binding]]")
	assert.Contains(t, buf.String(), "Alt+C")

	ovs, err := ReadOverrides(&buf)
	require.NoError(t, err)
	assert.Equal(t, r.Overrides(), ovs)
}

func TestRegistry_SaveAndLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "keybindings.toml")

	r := NewDefaultRegistry()
	require.True(t, r.UpdateBinding(ActionFind, key.MustParse("Ctrl+Shift+S")))
	require.NoError(t, r.SaveOverrides(path))

	loaded := NewDefaultRegistry()
	require.NoError(t, loaded.LoadOverrides(path))
	b, ok := loaded.TryGetAction(key.MustParse("Ctrl+Shift+S"))
	require.True(t, ok)
	assert.Equal(t, ActionFind, b.Action)

	require.NoError(t, os.Remove(path))
	require.NoError(t, loaded.LoadOverrides(path))
	assert.Empty(t, loaded.Overrides(), "missing file resets to defaults")
}

func TestRegistry_LoadOverridesBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybindings.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0o644))

	r := NewDefaultRegistry()
	err := r.LoadOverrides(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
