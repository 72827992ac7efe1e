package keyboard

import (
	"fmt"
	"sync"

	"github.com/winorg/winorg/internal/actions"
	"github.com/winorg/winorg/internal/config"
	"github.com/winorg/winorg/internal/logging"
	"github.com/winorg/winorg/internal/xwin"
)

// State is the modal state of the controller.
type State uint8

const (
	// StateNormal means only the mode-entry combo is live.
	StateNormal State = iota

	// StateActive means the full shortcut set is live ("in mode").
	StateActive
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateActive:
		return "active"
	default:
		return "unknown"
	}
}

// ModeController wraps the shortcut dispatcher with the two-state modal
// machine. With modal operation enabled, only the mode-entry combo is
// grabbed at rest; entering mode grabs the full shortcut set plus escape,
// leaving mode releases them again. With modal operation disabled the
// controller collapses to an always-active passthrough around the
// dispatcher.
type ModeController struct {
	mu sync.Mutex

	adapter xwin.Adapter
	log     *logging.Logger

	dispatcher    *Dispatcher
	escapeCombo   xwin.KeyCombo
	escapeHandler xwin.KeyPressHandler

	state      State
	modal      bool
	hasModeKey bool
	modeCombo  xwin.KeyCombo

	feedback       config.Feedback
	ignoreNumLock  bool
	ignoreCapsLock bool
}

// NewModeController creates a controller in the Normal state. The escape
// combo is resolved once against the adapter.
func NewModeController(adapter xwin.Adapter, log *logging.Logger) (*ModeController, error) {
	if log == nil {
		log = logging.Null
	}

	escape, err := adapter.ResolveCombo("", "Escape")
	if err != nil {
		return nil, fmt.Errorf("resolving escape key: %w", err)
	}

	c := &ModeController{
		adapter:     adapter,
		log:         log.WithComponent("mode"),
		dispatcher:  NewDispatcher(adapter, log),
		escapeCombo: escape,
		state:       StateNormal,
	}
	c.escapeHandler = xwin.NewHandlerFunc(c.handleEscape)
	return c, nil
}

// Dispatcher returns the inner shortcut dispatcher.
func (c *ModeController) Dispatcher() *Dispatcher {
	return c.dispatcher
}

// InMode reports whether the full shortcut set is currently live.
func (c *ModeController) InMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateActive
}

// Modal reports whether modal operation is enabled.
func (c *ModeController) Modal() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modal
}

// ApplyConfig rebuilds the inner dispatcher's bindings and re-snapshots the
// mode-entry key, feedback settings, and lock-sensitivity flags. An absent
// mode-entry key disables modal operation entirely; with modal operation
// disabled the state is forced to active so shortcuts are live without a
// mode-entry press. An unresolvable mode-entry key fails the apply before
// any state changes, leaving the previous configuration fully installed.
func (c *ModeController) ApplyConfig(cfg *config.Config, catalog *actions.Registry) error {
	var modeCombo xwin.KeyCombo
	hasModeKey := cfg.ModeKey != ""
	if hasModeKey {
		combo, err := c.adapter.ResolveCombo("", cfg.ModeKey)
		if err != nil {
			return fmt.Errorf("resolving mode key %q: %w", cfg.ModeKey, err)
		}
		modeCombo = combo
	}

	c.dispatcher.ApplyConfig(cfg, catalog)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.feedback = cfg.Feedback
	c.ignoreNumLock = cfg.IgnoreNumLock
	c.ignoreCapsLock = cfg.IgnoreCapsLock

	if !hasModeKey {
		c.modal = false
		c.hasModeKey = false
		c.state = StateActive
		return nil
	}

	c.modeCombo = modeCombo
	c.hasModeKey = true
	c.modal = cfg.Modal
	if !c.modal {
		c.state = StateActive
	}
	return nil
}

// HandleKeyPress recognizes only the mode-entry combo and toggles the modal
// state. Every other combo is ignored here; once in mode, shortcut presses
// are delivered straight to the inner dispatcher by the windowing system.
func (c *ModeController) HandleKeyPress(ev xwin.KeyEvent) {
	c.mu.Lock()
	mods := ev.Modifiers
	if c.ignoreNumLock {
		mods = mods.Without(xwin.ModNumLock)
	}
	if c.ignoreCapsLock {
		mods = mods.Without(xwin.ModCapsLock)
	}
	combo := xwin.KeyCombo{Modifiers: mods, Keycode: ev.Keycode}
	if !c.hasModeKey || combo != c.modeCombo {
		c.mu.Unlock()
		return
	}
	active := c.state == StateActive
	c.mu.Unlock()

	if active {
		c.exitMode()
	} else {
		c.enterMode()
	}
}

// handleEscape is bound to the escape combo while in mode.
func (c *ModeController) handleEscape(xwin.KeyEvent) {
	c.exitMode()
}

// enterMode transitions Normal -> Active: signal feedback, then grab the
// full shortcut set and, with modal operation, the escape combo.
func (c *ModeController) enterMode() {
	c.activate(true)
}

// resumeMode re-takes the in-mode grabs without firing feedback. Used when
// a configuration reload restores an already-active mode.
func (c *ModeController) resumeMode() {
	c.activate(false)
}

func (c *ModeController) activate(signal bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateActive {
		return
	}
	c.log.Debug("entering shortcut mode")

	if signal {
		c.signalTransition(true)
	}
	c.dispatcher.GrabKeys()
	if c.modal {
		if err := c.adapter.Grab(c.escapeCombo, c.escapeHandler); err != nil {
			c.log.Warn("cannot grab escape: %v", err)
		}
	}
	c.state = StateActive
}

// exitMode transitions Active -> Normal: signal feedback, release escape,
// then release the full shortcut set. Only the mode-entry combo stays live.
func (c *ModeController) exitMode() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateActive {
		return
	}
	c.log.Debug("leaving shortcut mode")

	c.signalTransition(false)
	if c.modal {
		if err := c.adapter.Ungrab(c.escapeCombo, c.escapeHandler); err != nil {
			c.log.Warn("cannot ungrab escape: %v", err)
		}
	}
	c.dispatcher.UngrabKeys()
	c.state = StateNormal
}

// signalTransition drives the configured feedback: indicator LED tracks the
// mode, the visual bell marks both transitions.
func (c *ModeController) signalTransition(entering bool) {
	if c.feedback.IndicatorLED {
		if err := c.adapter.IndicatorLED(entering); err != nil {
			c.log.Warn("cannot switch indicator LED: %v", err)
		}
	}
	if c.feedback.VisualBell {
		err := c.adapter.VisualBell(c.feedback.BellColor, c.feedback.BellWidth, c.feedback.BellDuration)
		if err != nil {
			c.log.Warn("cannot trigger visual bell: %v", err)
		}
	}
}

// GrabKeys registers the controller's currently relevant combos. With modal
// operation disabled this delegates to the inner dispatcher; with it
// enabled, only the mode-entry combo is grabbed and mode transitions take
// over from there.
func (c *ModeController) GrabKeys() {
	c.mu.Lock()
	modal, hasKey, combo := c.modal, c.hasModeKey, c.modeCombo
	c.mu.Unlock()

	if !modal {
		c.dispatcher.GrabKeys()
		return
	}
	if hasKey {
		if err := c.adapter.Grab(combo, c); err != nil {
			c.log.Warn("cannot grab mode key: %v", err)
		}
	}
}

// UngrabKeys releases every combo held by the controller or its
// sub-handlers, whatever the current state, so no grab survives shutdown.
// With modal operation the state returns to Normal; re-entering mode
// requires a fresh GrabKeys plus a mode-entry press.
func (c *ModeController) UngrabKeys() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateActive {
		if c.modal {
			if err := c.adapter.Ungrab(c.escapeCombo, c.escapeHandler); err != nil {
				c.log.Warn("cannot ungrab escape: %v", err)
			}
		}
		c.dispatcher.UngrabKeys()
		if c.modal {
			c.state = StateNormal
		}
	} else if !c.modal {
		c.dispatcher.UngrabKeys()
	}

	if c.modal && c.hasModeKey {
		if err := c.adapter.Ungrab(c.modeCombo, c); err != nil {
			c.log.Warn("cannot ungrab mode key: %v", err)
		}
	}
}
