package xwin

import (
	"errors"
	"testing"
)

func TestParseModifiers(t *testing.T) {
	tests := []struct {
		input    string
		expected Modifier
	}{
		{"", ModNone},
		{"Shift", ModShift},
		{"shift", ModShift},
		{"Ctrl", ModCtrl},
		{"control", ModCtrl},
		{"Alt", ModAlt},
		{"mod1", ModAlt},
		{"Super", ModSuper},
		{"win", ModSuper},
		{"mod4", ModSuper},
		{"Super-Shift", ModSuper | ModShift},
		{"Ctrl-Alt-Shift", ModCtrl | ModAlt | ModShift},
		{"NumLock", ModNumLock},
		{"CapsLock", ModCapsLock},
	}

	for _, tt := range tests {
		got, err := ParseModifiers(tt.input)
		if err != nil {
			t.Errorf("ParseModifiers(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseModifiers(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestParseModifiersUnknown(t *testing.T) {
	_, err := ParseModifiers("Hyper")
	if err == nil {
		t.Fatal("ParseModifiers with unknown modifier should fail")
	}
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("error should wrap ErrInvalidKey, got %v", err)
	}
}

func TestModifierWithWithout(t *testing.T) {
	m := ModNone.With(ModCtrl).With(ModShift)
	if !m.Has(ModCtrl) || !m.Has(ModShift) {
		t.Errorf("With() did not set bits: %v", m)
	}

	m = m.Without(ModCtrl)
	if m.Has(ModCtrl) {
		t.Error("Without() did not clear bit")
	}
	if !m.Has(ModShift) {
		t.Error("Without() cleared unrelated bit")
	}
}

func TestModifierString(t *testing.T) {
	tests := []struct {
		mod      Modifier
		expected string
	}{
		{ModNone, ""},
		{ModSuper, "Super"},
		{ModSuper | ModShift, "Super-Shift"},
		{ModCtrl | ModAlt, "Ctrl-Alt"},
	}

	for _, tt := range tests {
		if got := tt.mod.String(); got != tt.expected {
			t.Errorf("Modifier(%d).String() = %q, want %q", tt.mod, got, tt.expected)
		}
	}
}

func TestModLocks(t *testing.T) {
	ev := ModSuper | ModNumLock | ModCapsLock
	if got := ev.Without(ModLocks); got != ModSuper {
		t.Errorf("Without(ModLocks) = %v, want Super", got)
	}
}
