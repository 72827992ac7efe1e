package keyboard

import (
	"fmt"
	"time"

	"github.com/winorg/winorg/internal/xwin"
)

// fakeAdapter implements xwin.Adapter against a fixed keycode table and
// records grabs, feedback signals, and delivered events.
type fakeAdapter struct {
	keycodes map[string]xwin.Keycode

	grabs map[xwin.KeyCombo]xwin.KeyPressHandler

	ledStates []bool
	bells     int
	flushes   int

	window    xwin.Window
	activeErr error
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		keycodes: map[string]xwin.Keycode{
			"m":      58,
			"h":      43,
			"j":      44,
			"k":      45,
			"l":      46,
			"space":  65,
			"Escape": 9,
		},
		grabs:  make(map[xwin.KeyCombo]xwin.KeyPressHandler),
		window: &fakeWindow{},
	}
}

func (f *fakeAdapter) ResolveCombo(modifiers, key string) (xwin.KeyCombo, error) {
	mask, name, err := xwin.ParseSpec(modifiers, key)
	if err != nil {
		return xwin.KeyCombo{}, err
	}
	code, ok := f.keycodes[name]
	if !ok {
		return xwin.KeyCombo{}, fmt.Errorf("%w: unknown key %q", xwin.ErrInvalidKey, name)
	}
	return xwin.KeyCombo{Modifiers: mask, Keycode: code}, nil
}

func (f *fakeAdapter) ActiveWindow() (xwin.Window, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	return f.window, nil
}

func (f *fakeAdapter) Grab(combo xwin.KeyCombo, target xwin.KeyPressHandler) error {
	if held, ok := f.grabs[combo]; ok {
		if held == target {
			return nil
		}
		return fmt.Errorf("%w: %s", xwin.ErrComboGrabbed, combo)
	}
	f.grabs[combo] = target
	return nil
}

func (f *fakeAdapter) Ungrab(combo xwin.KeyCombo, target xwin.KeyPressHandler) error {
	if held, ok := f.grabs[combo]; ok && held == target {
		delete(f.grabs, combo)
	}
	return nil
}

func (f *fakeAdapter) IndicatorLED(on bool) error {
	f.ledStates = append(f.ledStates, on)
	return nil
}

func (f *fakeAdapter) VisualBell(string, int, time.Duration) error {
	f.bells++
	return nil
}

func (f *fakeAdapter) Flush() {
	f.flushes++
}

// combo resolves a spec through the fake's table, panicking on bad test
// data.
func (f *fakeAdapter) combo(modifiers, key string) xwin.KeyCombo {
	c, err := f.ResolveCombo(modifiers, key)
	if err != nil {
		panic(err)
	}
	return c
}

// press delivers a key event the way the X adapter routes it: to the
// handler holding the grab, trying the lock-stripped combo second.
func (f *fakeAdapter) press(ev xwin.KeyEvent) {
	target, ok := f.grabs[ev.Combo()]
	if !ok {
		stripped := xwin.KeyCombo{
			Modifiers: ev.Modifiers.Without(xwin.ModLocks),
			Keycode:   ev.Keycode,
		}
		target, ok = f.grabs[stripped]
	}
	if ok {
		target.HandleKeyPress(ev)
	}
}

// pressCombo delivers a key press for a spec string.
func (f *fakeAdapter) pressCombo(modifiers, key string) {
	c := f.combo(modifiers, key)
	f.press(xwin.KeyEvent{Modifiers: c.Modifiers, Keycode: c.Keycode})
}

func (f *fakeAdapter) grabbed(modifiers, key string) bool {
	_, ok := f.grabs[f.combo(modifiers, key)]
	return ok
}

// fakeWindow records invoked window operations.
type fakeWindow struct {
	calls []string
	err   error

	geometry xwin.Rect
	workarea xwin.Rect
	movedTo  *[2]int
}

func (w *fakeWindow) op(name string) error {
	w.calls = append(w.calls, name)
	return w.err
}

func (w *fakeWindow) ID() uint32        { return 7 }
func (w *fakeWindow) Activate() error   { return w.op("activate") }
func (w *fakeWindow) Close() error      { return w.op("close") }
func (w *fakeWindow) Iconify() error    { return w.op("iconify") }
func (w *fakeWindow) Shade() error      { return w.op("shade") }
func (w *fakeWindow) Maximize() error   { return w.op("maximize") }
func (w *fakeWindow) Fullscreen() error { return w.op("fullscreen") }
func (w *fakeWindow) Sticky() error     { return w.op("sticky") }

func (w *fakeWindow) Geometry() (xwin.Rect, error) { return w.geometry, nil }
func (w *fakeWindow) Workarea() (xwin.Rect, error) { return w.workarea, nil }

func (w *fakeWindow) Move(x, y int) error {
	w.movedTo = &[2]int{x, y}
	return w.op("move")
}
