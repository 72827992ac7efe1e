package keyboard

import (
	"sort"

	"github.com/winorg/winorg/internal/actions"
	"github.com/winorg/winorg/internal/config"
	"github.com/winorg/winorg/internal/logging"
	"github.com/winorg/winorg/internal/xwin"
)

// Target is what a shortcut resolves to: an action plus the section
// providing its parameters. Section is nil for global actions.
type Target struct {
	Action  actions.Action
	Section *config.Section
}

// Table maps key combos to binding targets. Tables are built wholesale from
// a configuration and replaced atomically; they are never patched in place.
type Table map[xwin.KeyCombo]Target

// BuildTable compiles the configuration into a binding table.
//
// Section-scoped actions contribute one binding per section that defines a
// key and does not ignore the action; the action's configured value is the
// modifier mask shared by all its sections. Global actions contribute a
// single binding from their full key spec unless globally ignored.
//
// An unresolvable key is logged and skipped; the rest of the build
// continues. The builder is deterministic: actions and sections are visited
// in name order and the last write for a combo wins.
func BuildTable(cfg *config.Config, catalog *actions.Registry, res xwin.ComboResolver, log *logging.Logger) Table {
	if log == nil {
		log = logging.Null
	}

	table := make(Table)
	for _, action := range catalog.All() {
		if action.SectionScoped() {
			mask, ok := cfg.Key(action.Name())
			if !ok {
				continue
			}
			for _, section := range cfg.SortedSections() {
				if section.Key == "" || section.Ignores(action.Name()) {
					continue
				}
				combo, err := res.ResolveCombo(mask, section.Key)
				if err != nil {
					log.Error("invalid key for action %s in section %s: %v",
						action.Name(), section.Name, err)
					continue
				}
				table[combo] = Target{Action: action, Section: section}
			}
			continue
		}

		key, ok := cfg.Key(action.Name())
		if !ok || cfg.ActionIgnored(action.Name()) {
			continue
		}
		combo, err := res.ResolveCombo("", key)
		if err != nil {
			log.Error("invalid key %q for action %s: %v", key, action.Name(), err)
			continue
		}
		table[combo] = Target{Action: action}
	}

	names := make([]string, 0, len(cfg.Keys))
	for name := range cfg.Keys {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if catalog.Get(name) == nil {
			log.Warn("key configured for unknown action %s", name)
		}
	}

	return table
}

// Combos returns the combos present in the table.
func (t Table) Combos() []xwin.KeyCombo {
	combos := make([]xwin.KeyCombo, 0, len(t))
	for combo := range t {
		combos = append(combos, combo)
	}
	return combos
}
