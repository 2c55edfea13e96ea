package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Chord parsing errors.
var (
	ErrEmptySpec   = errors.New("empty key spec")
	ErrInvalidSpec = errors.New("invalid key spec")
)

// Chord is a normalized key plus modifiers. It is comparable and is used
// directly as a map key by binding tables.
type Chord struct {
	Key  Key
	Rune rune
	Mods Modifier
}

// IsZero reports whether c is the zero chord.
func (c Chord) IsZero() bool {
	return c == Chord{}
}

// String returns the canonical notation, e.g. "Ctrl+Shift+C".
func (c Chord) String() string {
	var b strings.Builder
	if m := c.Mods.String(); m != "" {
		b.WriteString(m)
		b.WriteByte('+')
	}
	switch c.Key {
	case KeyRune:
		switch {
		case c.Rune == ' ':
			b.WriteString("Space")
		case c.Rune == '+':
			b.WriteString("Plus")
		default:
			b.WriteRune(unicode.ToUpper(c.Rune))
		}
	default:
		b.WriteString(c.Key.String())
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (c Chord) MarshalText() ([]byte, error) {
	if c.IsZero() {
		return nil, ErrEmptySpec
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Chord) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse parses a chord such as "Ctrl+Shift+C", "Alt+Enter" or "F5".
// Modifier and key names are case-insensitive, so "Ctrl+C" and "ctrl+c"
// are the same chord and neither includes Shift.
func Parse(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptySpec
	}

	// A trailing "+" names the plus key itself ("Ctrl++").
	parts := strings.Split(spec, "+")
	if strings.HasSuffix(spec, "++") || spec == "+" {
		parts = append(parts[:len(parts)-2], "+")
	}

	var mods Modifier
	for _, p := range parts[:len(parts)-1] {
		m := ModifierFromName(p)
		if m == ModNone {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpec, p, spec)
		}
		mods |= m
	}

	last := strings.TrimSpace(parts[len(parts)-1])
	if last == "" {
		return Chord{}, fmt.Errorf("%w: missing key in %q", ErrInvalidSpec, spec)
	}
	if utf8.RuneCountInString(last) == 1 {
		// Letters in notation are case-insensitive; Shift must be explicit.
		r, _ := utf8.DecodeRuneInString(last)
		return newChord(KeyRune, unicode.ToLower(r), mods), nil
	}
	switch strings.ToLower(last) {
	case "space":
		return newChord(KeyRune, ' ', mods), nil
	case "plus":
		return newChord(KeyRune, '+', mods), nil
	}
	if k := KeyFromName(last); k != KeyNone {
		return newChord(k, 0, mods), nil
	}
	return Chord{}, fmt.Errorf("%w: unknown key %q in %q", ErrInvalidSpec, last, spec)
}

// MustParse is like Parse but panics on error.
func MustParse(spec string) Chord {
	c, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return c
}
