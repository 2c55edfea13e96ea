package key

import "strings"

// Modifier is a set of held modifier keys.
type Modifier uint8

// Modifier bits. ModMeta is Cmd on macOS and the Windows key elsewhere.
const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt
	ModMeta
)

// modifierTable lists the modifiers in display order with the weight each
// adds to an xterm modifier parameter.
var modifierTable = [...]struct {
	mod    Modifier
	label  string
	weight int
}{
	{ModCtrl, "Ctrl", 4},
	{ModAlt, "Alt", 2},
	{ModShift, "Shift", 1},
	{ModMeta, "Meta", 8},
}

// Has reports whether any bit of mod is set in m.
func (m Modifier) Has(mod Modifier) bool { return m&mod != 0 }

func (m Modifier) HasShift() bool { return m.Has(ModShift) }
func (m Modifier) HasCtrl() bool  { return m.Has(ModCtrl) }
func (m Modifier) HasAlt() bool   { return m.Has(ModAlt) }

// With adds mod to the set.
func (m Modifier) With(mod Modifier) Modifier { return m | mod }

// Without clears mod from the set.
func (m Modifier) Without(mod Modifier) Modifier { return m &^ mod }

// String joins the held modifiers with "+" in chord order, e.g. "Ctrl+Shift".
func (m Modifier) String() string {
	var sb strings.Builder
	for _, e := range modifierTable {
		if !m.Has(e.mod) {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('+')
		}
		sb.WriteString(e.label)
	}
	return sb.String()
}

// xtermParam encodes m for CSI key sequences: 1 plus the weights of the held
// modifiers.
func (m Modifier) xtermParam() int {
	p := 1
	for _, e := range modifierTable {
		if m.Has(e.mod) {
			p += e.weight
		}
	}
	return p
}

// Accepted spellings in chord notation.
var modifierAliases = map[string]Modifier{
	"shift": ModShift,

	"ctrl":    ModCtrl,
	"control": ModCtrl,

	"alt":    ModAlt,
	"opt":    ModAlt,
	"option": ModAlt,

	"meta":    ModMeta,
	"super":   ModMeta,
	"win":     ModMeta,
	"cmd":     ModMeta,
	"command": ModMeta,
}

// ModifierFromName looks up a modifier spelling such as "Ctrl" or "cmd".
// Unknown names yield ModNone.
func ModifierFromName(name string) Modifier {
	return modifierAliases[strings.ToLower(strings.TrimSpace(name))]
}
