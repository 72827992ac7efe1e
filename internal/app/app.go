// Package app wires the daemon together: the X connection, the action
// catalog, the keyboard service, and the configuration watcher. It owns the
// application lifecycle.
package app

import (
	"strings"
	"sync/atomic"

	"github.com/winorg/winorg/internal/actions"
	"github.com/winorg/winorg/internal/config"
	"github.com/winorg/winorg/internal/keyboard"
	"github.com/winorg/winorg/internal/logging"
	"github.com/winorg/winorg/internal/xwin"
)

// Options configures the daemon.
type Options struct {
	// ConfigPath is the path to the configuration file. Empty means run
	// with the built-in defaults.
	ConfigPath string

	// Display is the X display to connect to. Empty uses $DISPLAY.
	Display string

	// Watch enables reloading the configuration file on change.
	Watch bool

	// Debug enables debug logging regardless of LogLevel.
	Debug bool

	// LogLevel sets the logging verbosity.
	LogLevel string
}

// App is the assembled daemon.
type App struct {
	opts Options
	log  *logging.Logger

	adapter *xwin.X11
	catalog *actions.Registry
	service *keyboard.Service
	watcher *config.Watcher

	running atomic.Bool
}

// New builds the daemon: connect to the display, register the builtin
// actions, load the configuration, and configure the keyboard service.
func New(opts Options) (*App, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(opts.LogLevel)
	if opts.Debug {
		logCfg.Level = logging.LevelDebug
	}

	app := &App{
		opts: opts,
		log:  logging.New(logCfg),
	}

	if err := app.bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *App) bootstrap() error {
	adapter, err := xwin.ConnectX11(app.opts.Display, app.log)
	if err != nil {
		return &InitError{Component: "display", Err: err}
	}
	app.adapter = adapter

	app.catalog = actions.NewRegistry()
	actions.RegisterBuiltins(app.catalog)
	app.log.Debug("actions registered: %s", strings.Join(app.catalog.Names(), ", "))

	service, err := keyboard.NewService(app.adapter, app.catalog, app.log)
	if err != nil {
		return &InitError{Component: "keyboard", Err: err}
	}
	app.service = service

	cfg, err := app.loadConfig()
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	if err := app.service.Configure(cfg); err != nil {
		return &InitError{Component: "keyboard", Err: err}
	}

	if app.opts.Watch && app.opts.ConfigPath != "" {
		watcher, err := config.NewWatcher(app.opts.ConfigPath, app.reload, app.log)
		if err != nil {
			return &InitError{Component: "config watcher", Err: err}
		}
		app.watcher = watcher
	}

	return nil
}

// loadConfig reads the configured file, or returns the defaults when no
// path was given.
func (app *App) loadConfig() (*config.Config, error) {
	if app.opts.ConfigPath == "" {
		app.log.Info("no configuration file, using defaults")
		return config.Default(), nil
	}
	return config.Load(app.opts.ConfigPath)
}

// reload is the watcher callback. A configuration that no longer resolves
// is logged and the previous bindings stay live.
func (app *App) reload(cfg *config.Config) {
	app.log.Info("configuration changed, reloading")
	if err := app.service.Reconfigure(cfg); err != nil {
		app.log.Error("reload failed, keeping previous bindings: %v", err)
	}
}

// Run grabs the configured shortcuts and blocks in the X event loop until
// Shutdown is called or the connection drops.
func (app *App) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	app.service.Start()
	app.log.Info("daemon running")
	app.adapter.Run()
	return nil
}

// Shutdown releases every grab and stops the event loop. Safe to call more
// than once.
func (app *App) Shutdown() {
	if !app.running.CompareAndSwap(true, false) {
		return
	}
	app.log.Info("shutting down")

	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			app.log.Warn("cannot close config watcher: %v", err)
		}
	}
	app.service.Stop()
	app.adapter.Quit()
}
