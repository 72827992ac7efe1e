package xwin

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// ICCCM WM_CHANGE_STATE iconic state.
const iconicState = 3

// EWMH source indication for requests coming from a pager or similar
// direct user action.
const sourcePager = 2

// x11Window is the Window handle for a managed X client. State changes are
// requested from the window manager over EWMH.
type x11Window struct {
	xu *xgbutil.XUtil
	id xproto.Window
}

func (w *x11Window) ID() uint32 {
	return uint32(w.id)
}

func (w *x11Window) Activate() error {
	return ewmh.ActiveWindowReq(w.xu, w.id)
}

func (w *x11Window) Close() error {
	return ewmh.CloseWindow(w.xu, w.id)
}

func (w *x11Window) Iconify() error {
	return ewmh.ClientEvent(w.xu, w.id, "WM_CHANGE_STATE", iconicState)
}

func (w *x11Window) Shade() error {
	return ewmh.WmStateReq(w.xu, w.id, ewmh.StateToggle, "_NET_WM_STATE_SHADED")
}

func (w *x11Window) Maximize() error {
	return ewmh.WmStateReqExtra(w.xu, w.id, ewmh.StateToggle,
		"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ", sourcePager)
}

func (w *x11Window) Fullscreen() error {
	return ewmh.WmStateReq(w.xu, w.id, ewmh.StateToggle, "_NET_WM_STATE_FULLSCREEN")
}

func (w *x11Window) Sticky() error {
	return ewmh.WmStateReq(w.xu, w.id, ewmh.StateToggle, "_NET_WM_STATE_STICKY")
}

func (w *x11Window) Geometry() (Rect, error) {
	geom, err := xwindow.New(w.xu, w.id).DecorGeometry()
	if err != nil {
		return Rect{}, fmt.Errorf("querying geometry of %d: %w", w.id, err)
	}
	return Rect{
		X:      geom.X(),
		Y:      geom.Y(),
		Width:  geom.Width(),
		Height: geom.Height(),
	}, nil
}

func (w *x11Window) Move(x, y int) error {
	return xwindow.New(w.xu, w.id).WMMove(x, y)
}

func (w *x11Window) Workarea() (Rect, error) {
	areas, err := ewmh.WorkareaGet(w.xu)
	if err != nil {
		return Rect{}, fmt.Errorf("querying workarea: %w", err)
	}
	if len(areas) == 0 {
		return Rect{}, fmt.Errorf("querying workarea: no workareas reported")
	}

	desk, err := ewmh.CurrentDesktopGet(w.xu)
	if err != nil || int(desk) >= len(areas) {
		desk = 0
	}
	wa := areas[desk]
	return Rect{
		X:      wa.X,
		Y:      wa.Y,
		Width:  int(wa.Width),
		Height: int(wa.Height),
	}, nil
}
