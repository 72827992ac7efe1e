package xwin

import (
	"fmt"
	"strings"
)

// Modifier is a bitset of keyboard modifier keys, laid out the way the X
// protocol encodes key event state.
type Modifier uint16

// ModNone indicates no modifiers.
const ModNone Modifier = 0

const (
	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModCapsLock indicates the CapsLock latch (X "Lock").
	ModCapsLock

	// ModCtrl indicates the Control key.
	ModCtrl

	// ModAlt indicates the Alt key (X "Mod1").
	ModAlt

	// ModNumLock indicates the NumLock latch (X "Mod2").
	ModNumLock

	// ModMod3 indicates the rarely-bound X "Mod3" group.
	ModMod3

	// ModSuper indicates the Super/Windows key (X "Mod4").
	ModSuper

	// ModMod5 indicates the X "Mod5" group (AltGr on many layouts).
	ModMod5
)

// ModLocks covers the latch modifiers that may be masked out of events
// before binding lookup.
const ModLocks = ModCapsLock | ModNumLock

// Has returns true if m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty returns true if no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// String returns a human-readable representation like "Super-Shift".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}

	var parts []string
	if m.Has(ModSuper) {
		parts = append(parts, "Super")
	}
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModCapsLock) {
		parts = append(parts, "CapsLock")
	}
	if m.Has(ModNumLock) {
		parts = append(parts, "NumLock")
	}
	if m.Has(ModMod3) {
		parts = append(parts, "Mod3")
	}
	if m.Has(ModMod5) {
		parts = append(parts, "Mod5")
	}
	return strings.Join(parts, "-")
}

// modifierNameMap maps modifier names (lowercase) to Modifier values.
var modifierNameMap = map[string]Modifier{
	"shift":    ModShift,
	"ctrl":     ModCtrl,
	"control":  ModCtrl,
	"alt":      ModAlt,
	"mod1":     ModAlt,
	"numlock":  ModNumLock,
	"mod2":     ModNumLock,
	"mod3":     ModMod3,
	"super":    ModSuper,
	"win":      ModSuper,
	"meta":     ModSuper,
	"mod4":     ModSuper,
	"altgr":    ModMod5,
	"mod5":     ModMod5,
	"capslock": ModCapsLock,
	"lock":     ModCapsLock,
}

// ModifierFromName returns the Modifier for a given name (case-insensitive).
// Returns ModNone and false if the name is not recognized.
func ModifierFromName(name string) (Modifier, bool) {
	m, ok := modifierNameMap[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

// ParseModifiers parses a modifier string like "Super-Shift" or "Ctrl".
// An empty string parses to ModNone. Unknown names are reported as an
// invalid-key error.
func ParseModifiers(s string) (Modifier, error) {
	var result Modifier
	s = strings.TrimSpace(s)
	if s == "" {
		return ModNone, nil
	}

	for _, part := range strings.Split(s, "-") {
		mod, ok := ModifierFromName(part)
		if !ok {
			return ModNone, fmt.Errorf("%w: unknown modifier %q", ErrInvalidKey, part)
		}
		result = result.With(mod)
	}
	return result, nil
}
