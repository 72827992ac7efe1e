// Package actions defines the window actions the daemon can bind to
// shortcuts: a shared capability interface, the closed global/
// section-scoped split, a registry, and the builtin catalog.
package actions

import (
	"github.com/winorg/winorg/internal/config"
	"github.com/winorg/winorg/internal/xwin"
)

// Args carries the resolved keyword arguments of one invocation.
type Args map[string]any

// String returns the named argument as a string, or "" if absent.
func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

// Action is a named, parameterized operation on a window.
type Action interface {
	// Name is the action identifier used in configuration.
	Name() string

	// SectionScoped reports whether the action's effect depends on a
	// named section. Section-scoped actions are bound once per
	// configured section; global actions get a single binding.
	SectionScoped() bool

	// ResolveArgs resolves the invocation arguments from the current
	// configuration and binding context. The section is nil for global
	// actions.
	ResolveArgs(cfg *config.Config, section *config.Section) (Args, error)

	// Invoke applies the action to a window. Expected failure modes are
	// reported as *Error.
	Invoke(win xwin.Window, args Args) error
}

// InvokeFunc is the invocation body of an action.
type InvokeFunc func(win xwin.Window, args Args) error

// ResolveFunc resolves invocation arguments for a section-scoped action.
type ResolveFunc func(cfg *config.Config, section *config.Section) (Args, error)

// Global is an action without section context.
type Global struct {
	name   string
	invoke InvokeFunc
}

// NewGlobal creates a global action.
func NewGlobal(name string, invoke InvokeFunc) *Global {
	return &Global{name: name, invoke: invoke}
}

func (a *Global) Name() string { return a.name }

func (a *Global) SectionScoped() bool { return false }

func (a *Global) ResolveArgs(*config.Config, *config.Section) (Args, error) {
	return Args{}, nil
}

func (a *Global) Invoke(win xwin.Window, args Args) error {
	return a.invoke(win, args)
}

// SectionScoped is an action parameterized by a configuration section.
type SectionScoped struct {
	name    string
	resolve ResolveFunc
	invoke  InvokeFunc
}

// NewSectionScoped creates a section-scoped action.
func NewSectionScoped(name string, resolve ResolveFunc, invoke InvokeFunc) *SectionScoped {
	return &SectionScoped{name: name, resolve: resolve, invoke: invoke}
}

func (a *SectionScoped) Name() string { return a.name }

func (a *SectionScoped) SectionScoped() bool { return true }

func (a *SectionScoped) ResolveArgs(cfg *config.Config, section *config.Section) (Args, error) {
	return a.resolve(cfg, section)
}

func (a *SectionScoped) Invoke(win xwin.Window, args Args) error {
	return a.invoke(win, args)
}
