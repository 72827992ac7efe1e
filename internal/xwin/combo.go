package xwin

import (
	"fmt"
	"strings"
)

// Keycode is a hardware-level key identifier as delivered by the X server.
type Keycode uint8

// KeyCombo uniquely identifies a keyboard shortcut: a modifier mask plus a
// keycode. It is an immutable value and usable as a map key; two combos are
// equal iff mask and keycode are equal.
type KeyCombo struct {
	Modifiers Modifier
	Keycode   Keycode
}

// String returns a representation like "Super-Shift+44".
func (c KeyCombo) String() string {
	if c.Modifiers == ModNone {
		return fmt.Sprintf("%d", c.Keycode)
	}
	return fmt.Sprintf("%s+%d", c.Modifiers, c.Keycode)
}

// KeyEvent is a single key-press event delivered by the windowing system.
type KeyEvent struct {
	Modifiers Modifier
	Keycode   Keycode
}

// Combo returns the event's combo as delivered, lock bits included.
func (e KeyEvent) Combo() KeyCombo {
	return KeyCombo{Modifiers: e.Modifiers, Keycode: e.Keycode}
}

// String returns a representation like "Super+58".
func (e KeyEvent) String() string {
	return e.Combo().String()
}

// ParseSpec splits a shortcut specification into a modifier mask and a bare
// key name. The modifiers argument carries a mask string like "Super-Shift"
// (may be empty); the key argument is a key name that may itself carry
// leading modifier segments, e.g. "Super-m" or "KP_5". The masks are merged.
func ParseSpec(modifiers, key string) (Modifier, string, error) {
	mask, err := ParseModifiers(modifiers)
	if err != nil {
		return ModNone, "", err
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return ModNone, "", fmt.Errorf("%w: empty key", ErrInvalidKey)
	}

	parts := strings.Split(key, "-")
	for _, part := range parts[:len(parts)-1] {
		mod, ok := ModifierFromName(part)
		if !ok {
			return ModNone, "", fmt.Errorf("%w: unknown modifier %q", ErrInvalidKey, part)
		}
		mask = mask.With(mod)
	}

	name := strings.TrimSpace(parts[len(parts)-1])
	if name == "" {
		return ModNone, "", fmt.Errorf("%w: empty key in %q", ErrInvalidKey, key)
	}
	return mask, name, nil
}
