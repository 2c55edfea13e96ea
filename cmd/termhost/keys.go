package main

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termhost/internal/input/key"
)

var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
}

var controlRunes = map[tcell.Key]rune{
	tcell.KeyCtrlSpace:      ' ',
	tcell.KeyCtrlBackslash:  '\\',
	tcell.KeyCtrlRightSq:    ']',
	tcell.KeyCtrlCarat:      '^',
	tcell.KeyCtrlUnderscore: '_',
}

// convertKey maps a tcell key event to a key.Event. Control characters
// become the letter they were typed with plus Ctrl, so they match
// notation like "Ctrl+C".
func convertKey(ev *tcell.EventKey) (key.Event, bool) {
	mods := convertMods(ev.Modifiers())
	k := ev.Key()

	if k == tcell.KeyRune {
		return key.NewRuneEvent(ev.Rune(), mods), true
	}
	if k == tcell.KeyBacktab {
		return key.NewSpecialEvent(key.KeyTab, mods.With(key.ModShift)), true
	}
	if sk, ok := specialKeys[k]; ok {
		return key.NewSpecialEvent(sk, mods), true
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return key.NewSpecialEvent(key.KeyF1+key.Key(k-tcell.KeyF1), mods), true
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return key.NewRuneEvent('a'+rune(k-tcell.KeyCtrlA), mods.With(key.ModCtrl)), true
	}
	if r, ok := controlRunes[k]; ok {
		return key.NewRuneEvent(r, mods.With(key.ModCtrl)), true
	}
	return key.Event{}, false
}

func convertMods(m tcell.ModMask) key.Modifier {
	var mods key.Modifier
	if m&tcell.ModShift != 0 {
		mods |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		mods |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		mods |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		mods |= key.ModMeta
	}
	return mods
}
