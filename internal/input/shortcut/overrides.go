package shortcut

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/termhost/internal/input/key"
)

type overrideFile struct {
	Bindings []overrideEntry `toml:"binding"`
}

// overrideEntry is one [[binding]] table. An empty chord unbinds the
// action.
type overrideEntry struct {
	Action  string  `toml:"action"`
	Chord   *string `toml:"chord,omitempty"`
	Enabled *bool   `toml:"enabled,omitempty"`
}

// ReadOverrides decodes a TOML override file.
func ReadOverrides(r io.Reader) ([]Override, error) {
	var f overrideFile
	if err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding overrides: %w", err)
	}

	ovs := make([]Override, 0, len(f.Bindings))
	for _, e := range f.Bindings {
		ov := Override{Action: Action(e.Action), Enabled: e.Enabled}
		if e.Chord != nil {
			var c key.Chord
			if *e.Chord != "" {
				parsed, err := key.Parse(*e.Chord)
				if err != nil {
					return nil, fmt.Errorf("binding %q: %w", e.Action, err)
				}
				c = parsed
			}
			ov.Chord = &c
		}
		ovs = append(ovs, ov)
	}
	return ovs, nil
}

// WriteOverrides encodes ovs as TOML.
func WriteOverrides(w io.Writer, ovs []Override) error {
	f := overrideFile{Bindings: make([]overrideEntry, 0, len(ovs))}
	for _, ov := range ovs {
		e := overrideEntry{Action: string(ov.Action), Enabled: ov.Enabled}
		if ov.Chord != nil {
			s := ""
			if !ov.Chord.IsZero() {
				s = ov.Chord.String()
			}
			e.Chord = &s
		}
		f.Bindings = append(f.Bindings, e)
	}
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("encoding overrides: %w", err)
	}
	return nil
}

// LoadOverrides reads the override file at path and applies it over the
// defaults. A missing file resets the registry to its defaults.
func (r *Registry) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.ResetToDefaults()
			return nil
		}
		return fmt.Errorf("reading overrides %s: %w", path, err)
	}
	ovs, err := ReadOverrides(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return r.ApplyOverrides(ovs)
}

// SaveOverrides writes the registry's differences from its defaults to
// path, creating parent directories.
func (r *Registry) SaveOverrides(path string) error {
	var buf bytes.Buffer
	if err := WriteOverrides(&buf, r.Overrides()); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating overrides dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing overrides %s: %w", path, err)
	}
	return nil
}
