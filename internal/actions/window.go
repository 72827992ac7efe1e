package actions

import (
	"github.com/winorg/winorg/internal/config"
	"github.com/winorg/winorg/internal/xwin"
)

// RegisterBuiltins registers the builtin window action catalog: EWMH state
// requests as global actions, plus the section-scoped put action that
// anchors the active window at a section's named screen position.
func RegisterBuiltins(r *Registry) {
	builtins := []Action{
		NewGlobal("activate", func(win xwin.Window, _ Args) error {
			return win.Activate()
		}),
		NewGlobal("close", func(win xwin.Window, _ Args) error {
			return win.Close()
		}),
		NewGlobal("iconify", func(win xwin.Window, _ Args) error {
			return win.Iconify()
		}),
		NewGlobal("shade", func(win xwin.Window, _ Args) error {
			return win.Shade()
		}),
		NewGlobal("maximize", func(win xwin.Window, _ Args) error {
			return win.Maximize()
		}),
		NewGlobal("fullscreen", func(win xwin.Window, _ Args) error {
			return win.Fullscreen()
		}),
		NewGlobal("sticky", func(win xwin.Window, _ Args) error {
			return win.Sticky()
		}),
		newPut(),
	}

	for _, a := range builtins {
		_ = r.Register(a)
	}
}

// newPut builds the section-scoped put action. The target position comes
// from the bound section's configuration.
func newPut() Action {
	return NewSectionScoped("put",
		func(_ *config.Config, section *config.Section) (Args, error) {
			if section == nil || section.Position == "" {
				name := "?"
				if section != nil {
					name = section.Name
				}
				return nil, Errorf("put", "section %s has no position", name)
			}
			return Args{"position": section.Position}, nil
		},
		func(win xwin.Window, args Args) error {
			position := args.String("position")

			workarea, err := win.Workarea()
			if err != nil {
				return err
			}
			geometry, err := win.Geometry()
			if err != nil {
				return err
			}

			x, y, ok := anchor(workarea, geometry, position)
			if !ok {
				return Errorf("put", "unknown position %q", position)
			}
			return win.Move(x, y)
		})
}

// anchor computes the top-left coordinate placing a window of the given
// geometry at a named workarea anchor.
func anchor(wa, geom xwin.Rect, position string) (int, int, bool) {
	left := wa.X
	right := wa.X + wa.Width - geom.Width
	top := wa.Y
	bottom := wa.Y + wa.Height - geom.Height
	centerX := wa.X + (wa.Width-geom.Width)/2
	centerY := wa.Y + (wa.Height-geom.Height)/2

	switch position {
	case "left":
		return left, centerY, true
	case "right":
		return right, centerY, true
	case "top":
		return centerX, top, true
	case "bottom":
		return centerX, bottom, true
	case "top-left":
		return left, top, true
	case "top-right":
		return right, top, true
	case "bottom-left":
		return left, bottom, true
	case "bottom-right":
		return right, bottom, true
	case "center":
		return centerX, centerY, true
	}
	return 0, 0, false
}
