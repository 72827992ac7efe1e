// Package config defines the daemon configuration: per-action key bindings,
// named sections parameterizing section-scoped actions, modal-operation
// settings, and mode-transition feedback. Configuration is loaded from a
// TOML file and replaced wholesale on reload.
package config

import (
	"sort"
	"time"
)

// Feedback bundles the visual signals emitted on mode transitions. It is a
// read-only snapshot; consumers re-snapshot it on every Apply.
type Feedback struct {
	// VisualBell enables the screen-edge flash on mode changes.
	VisualBell bool

	// BellColor is the flash color name.
	BellColor string

	// BellWidth is the flash frame width in pixels.
	BellWidth int

	// BellDuration is how long the flash stays visible.
	BellDuration time.Duration

	// IndicatorLED enables the keyboard LED while in mode.
	IndicatorLED bool
}

// Section is a named context that parameterizes section-scoped actions,
// e.g. a screen region.
type Section struct {
	// Name identifies the section.
	Name string

	// Key is the key name completing a section-scoped shortcut; the
	// modifier mask comes from the action. Empty means the section has
	// no shortcut.
	Key string

	// Ignored lists action names that must not be bound for this section.
	Ignored []string

	// Position is the workarea anchor used by the put action:
	// one of left, right, top, bottom, top-left, top-right, bottom-left,
	// bottom-right, center.
	Position string
}

// Ignores reports whether the section excludes the named action.
func (s *Section) Ignores(action string) bool {
	for _, name := range s.Ignored {
		if name == action {
			return true
		}
	}
	return false
}

// Config is the full daemon configuration. Instances are immutable after
// loading; a reload builds a new Config.
type Config struct {
	// Keys maps action names to shortcut strings. For global actions the
	// value is a full key spec ("Super-m"); for section-scoped actions it
	// is a modifier mask ("Super") completed by each section's key.
	Keys map[string]string

	// ModeKey is the mode-entry shortcut. Empty disables modal operation
	// entirely and leaves all shortcuts always live.
	ModeKey string

	// Modal enables modal operation: shortcuts live only between a
	// mode-entry key press and escape.
	Modal bool

	// IgnoredActions lists globally disabled action names.
	IgnoredActions []string

	// Sections holds the configured sections by name.
	Sections map[string]*Section

	// IgnoreNumLock and IgnoreCapsLock control whether those lock states
	// are masked out when matching key events.
	IgnoreNumLock  bool
	IgnoreCapsLock bool

	// Feedback configures mode-transition signals.
	Feedback Feedback
}

// Default returns the built-in configuration: no bindings, non-modal,
// lock states ignored, feedback off.
func Default() *Config {
	return &Config{
		Keys:           make(map[string]string),
		Sections:       make(map[string]*Section),
		IgnoreNumLock:  true,
		IgnoreCapsLock: true,
		Feedback: Feedback{
			BellColor:    "red",
			BellWidth:    2,
			BellDuration: 250 * time.Millisecond,
		},
	}
}

// Key returns the shortcut string configured for an action, if any.
func (c *Config) Key(action string) (string, bool) {
	s, ok := c.Keys[action]
	return s, ok && s != ""
}

// ActionIgnored reports whether an action is globally disabled.
func (c *Config) ActionIgnored(action string) bool {
	for _, name := range c.IgnoredActions {
		if name == action {
			return true
		}
	}
	return false
}

// SortedSections returns the sections ordered by name. Iteration order of
// the underlying map is randomized, so every consumer that needs
// deterministic output goes through here.
func (c *Config) SortedSections() []*Section {
	sections := make([]*Section, 0, len(c.Sections))
	for _, s := range c.Sections {
		sections = append(sections, s)
	}
	sort.Slice(sections, func(i, j int) bool {
		return sections[i].Name < sections[j].Name
	})
	return sections
}
