package shortcut

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/termhost/internal/input/key"
)

// notify returns a reload hook that never blocks the watcher.
func notify(ch chan error) func(error) {
	return func(err error) {
		select {
		case ch <- err:
		default:
		}
	}
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybindings.toml")
	r := NewDefaultRegistry()

	w, err := NewWatcher(r, path, WithReloadDelay(20*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	src := "[[binding]]\naction = \"search.open\"\nchord = \"Ctrl+Shift+S\"\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	require.Eventually(t, func() bool {
		b, ok := r.TryGetAction(key.MustParse("Ctrl+Shift+S"))
		return ok && b.Action == ActionFind
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		return len(r.Overrides()) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_BadFileKeepsRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keybindings.toml")
	r := NewDefaultRegistry()

	reloads := make(chan error, 16)
	w, err := NewWatcher(r, path,
		WithReloadDelay(20*time.Millisecond),
		WithReloadHook(notify(reloads)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	require.NoError(t, os.WriteFile(path, []byte("[[binding"), 0o644))
	deadline := time.After(2 * time.Second)
	for failed := false; !failed; {
		select {
		case err := <-reloads:
			failed = err != nil
		case <-deadline:
			t.Fatal("no failed reload")
		}
	}

	src := "[[binding]]\naction = \"clipboard.copy\"\nchord = \"Alt+C\"\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	require.Eventually(t, func() bool {
		b, ok := r.TryGetAction(key.MustParse("Alt+C"))
		return ok && b.Action == ActionCopy
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	r := NewDefaultRegistry()

	reloads := make(chan error, 16)
	w, err := NewWatcher(r, filepath.Join(dir, "keybindings.toml"),
		WithReloadDelay(10*time.Millisecond),
		WithReloadHook(notify(reloads)),
	)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1"), 0o644))
	select {
	case <-reloads:
		t.Fatal("reloaded for an unrelated file")
	case <-time.After(150 * time.Millisecond):
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher(NewDefaultRegistry(), filepath.Join(t.TempDir(), "missing", "keybindings.toml"))
	assert.Error(t, err)
}
