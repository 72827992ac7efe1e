// Package keyboard is the shortcut dispatch layer of the daemon. It
// compiles the configuration into a binding table from key combos to
// actions, resolves incoming key presses against that table, and runs the
// modal state machine that decides which bindings are grabbed at any time.
package keyboard
