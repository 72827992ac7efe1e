// Package xwin abstracts the windowing system: key combo resolution, key
// grabs, active-window queries, and the visual feedback primitives the
// daemon uses to signal mode changes. The X11 implementation lives in this
// package; everything above it consumes the Adapter interface.
package xwin

import (
	"errors"
	"time"
)

// Adapter errors.
var (
	// ErrInvalidKey indicates a key or modifier string that cannot be
	// resolved to a key combo.
	ErrInvalidKey = errors.New("xwin: invalid key")

	// ErrComboGrabbed indicates a combo is already registered for a
	// different handler.
	ErrComboGrabbed = errors.New("xwin: combo already grabbed")

	// ErrNoActiveWindow indicates no window currently has focus.
	ErrNoActiveWindow = errors.New("xwin: no active window")
)

// KeyPressHandler receives key-press events for combos it has grabbed.
type KeyPressHandler interface {
	HandleKeyPress(ev KeyEvent)
}

// NewHandlerFunc adapts a function to the KeyPressHandler interface. The
// returned handler has a stable identity, so it can be passed to Grab and
// later to Ungrab. Grab identity is compared by handler instance.
func NewHandlerFunc(fn func(ev KeyEvent)) KeyPressHandler {
	return &funcHandler{fn: fn}
}

type funcHandler struct {
	fn func(ev KeyEvent)
}

func (h *funcHandler) HandleKeyPress(ev KeyEvent) {
	h.fn(ev)
}

// ComboResolver translates shortcut strings into key combos.
type ComboResolver interface {
	// ResolveCombo resolves a modifier mask string plus a key name into a
	// KeyCombo. Fails with an error wrapping ErrInvalidKey on unparseable
	// input.
	ResolveCombo(modifiers, key string) (KeyCombo, error)
}

// Adapter is the windowing-system surface consumed by the dispatch layer.
type Adapter interface {
	ComboResolver

	// ActiveWindow returns the currently focused window.
	ActiveWindow() (Window, error)

	// Grab registers a key combo so its press events are delivered to
	// target instead of the focused window. At most one handler may hold
	// a given combo; grabbing it for a second handler fails with
	// ErrComboGrabbed.
	Grab(combo KeyCombo, target KeyPressHandler) error

	// Ungrab deregisters a key combo held by target.
	Ungrab(combo KeyCombo, target KeyPressHandler) error

	// IndicatorLED switches the keyboard indicator LED on or off.
	IndicatorLED(on bool) error

	// VisualBell flashes a frame of the given color and width on screen
	// for the given duration.
	VisualBell(color string, width int, duration time.Duration) error

	// Flush forces all pending requests out to the windowing system.
	Flush()
}

// Rect is a screen-space rectangle.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Window is a handle to a top-level window. Operations are requests to the
// window manager; they may be refused without error by a non-compliant WM.
type Window interface {
	// ID returns the windowing-system identifier.
	ID() uint32

	// Activate gives the window input focus and raises it.
	Activate() error

	// Close asks the window to close.
	Close() error

	// Iconify minimizes the window.
	Iconify() error

	// Shade toggles the shaded (rolled-up) state.
	Shade() error

	// Maximize toggles horizontal and vertical maximization.
	Maximize() error

	// Fullscreen toggles the fullscreen state.
	Fullscreen() error

	// Sticky toggles visibility on all desktops.
	Sticky() error

	// Geometry returns the window's current outer geometry.
	Geometry() (Rect, error)

	// Move moves the window to the given position.
	Move(x, y int) error

	// Workarea returns the usable screen area of the window's desktop.
	Workarea() (Rect, error)
}
