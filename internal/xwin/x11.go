package xwin

import (
	"fmt"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/winorg/winorg/internal/logging"
)

// Scroll Lock is the third keyboard indicator on PC keyboards.
const scrollLockLED = 3

// X11 implements Adapter against an X server. Key grabs are taken on the
// root window and routed to their registered handlers by a single
// key-press callback.
type X11 struct {
	xu   *xgbutil.XUtil
	root xproto.Window
	log  *logging.Logger

	mu    sync.Mutex
	grabs map[KeyCombo]KeyPressHandler
}

// ConnectX11 connects to the X display (":0" style; empty means $DISPLAY)
// and prepares key grabbing and event delivery.
func ConnectX11(display string, log *logging.Logger) (*X11, error) {
	if log == nil {
		log = logging.Null
	}

	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connecting to X display: %w", err)
	}
	keybind.Initialize(xu)

	x := &X11{
		xu:    xu,
		root:  xu.RootWin(),
		log:   log.WithComponent("xwin"),
		grabs: make(map[KeyCombo]KeyPressHandler),
	}

	xevent.KeyPressFun(func(_ *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		x.route(KeyEvent{
			Modifiers: Modifier(ev.State),
			Keycode:   Keycode(ev.Detail),
		})
	}).Connect(xu, x.root)

	return x, nil
}

// Run enters the X event loop and blocks until Quit is called.
func (x *X11) Run() {
	xevent.Main(x.xu)
}

// Quit stops the event loop and closes the connection.
func (x *X11) Quit() {
	xevent.Quit(x.xu)
}

// route delivers a key press to the handler holding its grab. The server
// reports lock latches in the event state, so a second lookup is done with
// the lock bits stripped.
func (x *X11) route(ev KeyEvent) {
	x.mu.Lock()
	target, ok := x.grabs[ev.Combo()]
	if !ok {
		stripped := KeyCombo{
			Modifiers: ev.Modifiers.Without(ModLocks),
			Keycode:   ev.Keycode,
		}
		target, ok = x.grabs[stripped]
	}
	x.mu.Unlock()

	if !ok {
		x.log.Debug("key press %s has no registered handler", ev)
		return
	}
	target.HandleKeyPress(ev)
}

// ResolveCombo resolves a modifier mask string plus a key name into a
// KeyCombo using the server's current keyboard mapping.
func (x *X11) ResolveCombo(modifiers, key string) (KeyCombo, error) {
	mask, name, err := ParseSpec(modifiers, key)
	if err != nil {
		return KeyCombo{}, err
	}

	codes := keybind.StrToKeycodes(x.xu, name)
	if len(codes) == 0 {
		return KeyCombo{}, fmt.Errorf("%w: unknown key %q", ErrInvalidKey, name)
	}
	return KeyCombo{Modifiers: mask, Keycode: Keycode(codes[0])}, nil
}

// ActiveWindow returns the currently focused window.
func (x *X11) ActiveWindow() (Window, error) {
	id, err := ewmh.ActiveWindowGet(x.xu)
	if err != nil {
		return nil, fmt.Errorf("querying active window: %w", err)
	}
	if id == 0 {
		return nil, ErrNoActiveWindow
	}
	return &x11Window{xu: x.xu, id: id}, nil
}

// Grab registers a key combo on the root window for target.
func (x *X11) Grab(combo KeyCombo, target KeyPressHandler) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if held, ok := x.grabs[combo]; ok {
		if held == target {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrComboGrabbed, combo)
	}

	err := keybind.GrabChecked(x.xu, x.root, uint16(combo.Modifiers), xproto.Keycode(combo.Keycode))
	if err != nil {
		return fmt.Errorf("grabbing %s: %w", combo, err)
	}
	x.grabs[combo] = target
	return nil
}

// Ungrab releases a key combo held by target. Releasing a combo that is
// not held is a no-op.
func (x *X11) Ungrab(combo KeyCombo, target KeyPressHandler) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	held, ok := x.grabs[combo]
	if !ok || held != target {
		return nil
	}
	keybind.Ungrab(x.xu, x.root, uint16(combo.Modifiers), xproto.Keycode(combo.Keycode))
	delete(x.grabs, combo)
	return nil
}

// IndicatorLED switches the Scroll Lock LED.
func (x *X11) IndicatorLED(on bool) error {
	mode := uint32(xproto.LedModeOff)
	if on {
		mode = xproto.LedModeOn
	}
	return xproto.ChangeKeyboardControlChecked(
		x.xu.Conn(),
		xproto.KbLed|xproto.KbLedMode,
		[]uint32{scrollLockLED, mode},
	).Check()
}

// VisualBell flashes a colored frame around the screen edges for the given
// duration. The frame windows are override-redirect so the window manager
// leaves them alone.
func (x *X11) VisualBell(color string, width int, duration time.Duration) error {
	if width <= 0 || duration <= 0 {
		return nil
	}

	pixel := x.namedPixel(color)
	scr := x.xu.Screen()
	w := int(scr.WidthInPixels)
	h := int(scr.HeightInPixels)

	edges := [][4]int{
		{0, 0, w, width},         // top
		{0, h - width, w, width}, // bottom
		{0, 0, width, h},         // left
		{w - width, 0, width, h}, // right
	}

	frame := make([]*xwindow.Window, 0, len(edges))
	for _, e := range edges {
		win, err := xwindow.Generate(x.xu)
		if err != nil {
			continue
		}
		err = win.CreateChecked(x.root, e[0], e[1], e[2], e[3],
			xproto.CwBackPixel|xproto.CwOverrideRedirect, pixel, 1)
		if err != nil {
			x.log.Debug("visual bell window create failed: %v", err)
			continue
		}
		win.Map()
		frame = append(frame, win)
	}
	x.Flush()

	time.AfterFunc(duration, func() {
		for _, win := range frame {
			win.Destroy()
		}
		x.Flush()
	})
	return nil
}

// namedPixel resolves a color name against the default colormap, falling
// back to white.
func (x *X11) namedPixel(name string) uint32 {
	scr := x.xu.Screen()
	reply, err := xproto.AllocNamedColor(
		x.xu.Conn(), scr.DefaultColormap, uint16(len(name)), name,
	).Reply()
	if err != nil {
		x.log.Debug("cannot allocate color %q: %v", name, err)
		return scr.WhitePixel
	}
	return reply.Pixel
}

// Flush forces all pending requests out to the X server.
func (x *X11) Flush() {
	x.xu.Sync()
}
