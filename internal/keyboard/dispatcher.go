package keyboard

import (
	"runtime"
	"sync"

	"github.com/google/uuid"

	"github.com/winorg/winorg/internal/actions"
	"github.com/winorg/winorg/internal/config"
	"github.com/winorg/winorg/internal/logging"
	"github.com/winorg/winorg/internal/xwin"
)

// Dispatcher resolves key presses against the current binding table and
// invokes the bound action on the active window.
//
// The single mutex serializes table replacement against event handling, so
// a reload is atomic with respect to dispatch. No failure of an action is
// allowed to escape into the event-delivery loop.
type Dispatcher struct {
	mu sync.RWMutex

	adapter xwin.Adapter
	log     *logging.Logger

	cfg            *config.Config
	table          Table
	ignoreNumLock  bool
	ignoreCapsLock bool
}

// NewDispatcher creates a dispatcher with an empty binding table.
func NewDispatcher(adapter xwin.Adapter, log *logging.Logger) *Dispatcher {
	if log == nil {
		log = logging.Null
	}
	return &Dispatcher{
		adapter: adapter,
		log:     log.WithComponent("dispatch"),
		cfg:     config.Default(),
		table:   make(Table),
	}
}

// ApplyConfig builds a new binding table from the configuration and swaps
// it in atomically, together with the lock-sensitivity flags. Safe to call
// repeatedly.
func (d *Dispatcher) ApplyConfig(cfg *config.Config, catalog *actions.Registry) {
	table := BuildTable(cfg, catalog, d.adapter, d.log)

	d.mu.Lock()
	d.cfg = cfg
	d.table = table
	d.ignoreNumLock = cfg.IgnoreNumLock
	d.ignoreCapsLock = cfg.IgnoreCapsLock
	d.mu.Unlock()

	d.log.Debug("binding table rebuilt: %d combos", len(table))
}

// HandleKeyPress looks up the event in the binding table and invokes the
// bound action. Unbound combos are a no-op.
func (d *Dispatcher) HandleKeyPress(ev xwin.KeyEvent) {
	d.mu.RLock()
	cfg := d.cfg
	mods := ev.Modifiers
	if d.ignoreNumLock {
		mods = mods.Without(xwin.ModNumLock)
	}
	if d.ignoreCapsLock {
		mods = mods.Without(xwin.ModCapsLock)
	}
	target, ok := d.table[xwin.KeyCombo{Modifiers: mods, Keycode: ev.Keycode}]
	d.mu.RUnlock()

	if !ok {
		return
	}

	log := d.log.WithField("invocation", uuid.NewString()[:8])
	log.Debug("%s -> action %s", ev, target.Action.Name())
	d.invoke(log, cfg, target)
}

// invoke runs one action invocation with full error containment: action
// errors and unexpected failures are logged and swallowed, panics included.
func (d *Dispatcher) invoke(log *logging.Logger, cfg *config.Config, target Target) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			log.Error("action %s panicked: %v\n%s", target.Action.Name(), r, stack[:n])
		}
	}()

	win, err := d.adapter.ActiveWindow()
	if err != nil {
		log.Error("cannot query active window: %v", err)
		return
	}

	args, err := target.Action.ResolveArgs(cfg, target.Section)
	if err != nil {
		d.logActionFailure(log, target, err)
		return
	}

	if err := target.Action.Invoke(win, args); err != nil {
		d.logActionFailure(log, target, err)
	}
}

func (d *Dispatcher) logActionFailure(log *logging.Logger, target Target, err error) {
	if actions.IsActionError(err) {
		log.Error("%v", err)
		return
	}
	log.Error("unexpected failure in action %s: %+v", target.Action.Name(), err)
}

// snapshot returns the current table under the read lock.
func (d *Dispatcher) snapshot() Table {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.table
}

// GrabKeys registers every combo in the current table with the windowing
// system, delivering to this dispatcher. Grab failures are logged and do
// not abort the remaining grabs.
func (d *Dispatcher) GrabKeys() {
	for _, combo := range d.snapshot().Combos() {
		if err := d.adapter.Grab(combo, d); err != nil {
			d.log.Warn("cannot grab %s: %v", combo, err)
		}
	}
}

// UngrabKeys releases every combo in the current table.
func (d *Dispatcher) UngrabKeys() {
	for _, combo := range d.snapshot().Combos() {
		if err := d.adapter.Ungrab(combo, d); err != nil {
			d.log.Warn("cannot ungrab %s: %v", combo, err)
		}
	}
}
