package keyboard

import (
	"github.com/winorg/winorg/internal/actions"
	"github.com/winorg/winorg/internal/config"
	"github.com/winorg/winorg/internal/logging"
	"github.com/winorg/winorg/internal/xwin"
)

// Service is the keyboard shortcut service: it owns the mode controller and
// exposes the configure/start/stop lifecycle used by the daemon.
type Service struct {
	adapter    xwin.Adapter
	catalog    *actions.Registry
	controller *ModeController
	log        *logging.Logger
}

// NewService creates the service around an adapter and an action catalog.
func NewService(adapter xwin.Adapter, catalog *actions.Registry, log *logging.Logger) (*Service, error) {
	if log == nil {
		log = logging.Null
	}
	controller, err := NewModeController(adapter, log)
	if err != nil {
		return nil, err
	}
	return &Service{
		adapter:    adapter,
		catalog:    catalog,
		controller: controller,
		log:        log.WithComponent("keyboard"),
	}, nil
}

// Controller returns the mode controller.
func (s *Service) Controller() *ModeController {
	return s.controller
}

// Configure (re)builds the bindings and modal state from a configuration.
func (s *Service) Configure(cfg *config.Config) error {
	return s.controller.ApplyConfig(cfg, s.catalog)
}

// Start grabs the currently relevant combos.
func (s *Service) Start() {
	s.log.Info("registering keyboard shortcuts")
	s.controller.GrabKeys()
}

// Stop forces the indicator LED off, flushes the adapter, and releases
// every grab. One-shot; there is no retry.
func (s *Service) Stop() {
	if err := s.adapter.IndicatorLED(false); err != nil {
		s.log.Warn("cannot switch indicator LED off: %v", err)
	}
	s.adapter.Flush()
	s.controller.UngrabKeys()
	s.log.Info("keyboard shortcuts unregistered")
}

// Reconfigure applies a new configuration to a running service: current
// grabs are released first and re-taken afterwards. A failed apply leaves
// the previous configuration installed, so the re-grab restores the
// previous bindings. A service that was in mode stays in mode when the
// configuration in effect still allows it, without re-firing the
// mode-transition feedback.
func (s *Service) Reconfigure(cfg *config.Config) error {
	wasActive := s.controller.InMode() && s.controller.Modal()

	s.controller.UngrabKeys()
	err := s.Configure(cfg)
	s.controller.GrabKeys()

	if wasActive && s.controller.Modal() {
		s.controller.resumeMode()
	}
	return err
}
