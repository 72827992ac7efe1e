package keyboard

import (
	"testing"

	"github.com/winorg/winorg/internal/actions"
	"github.com/winorg/winorg/internal/config"
	"github.com/winorg/winorg/internal/xwin"
)

func newTestService(t *testing.T, f *fakeAdapter) *Service {
	t.Helper()
	catalog := actions.NewRegistry()
	actions.RegisterBuiltins(catalog)
	s, err := NewService(f, catalog, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return s
}

func TestServiceLifecycle(t *testing.T) {
	f := newFakeAdapter()
	win := f.window.(*fakeWindow)
	win.workarea = xwin.Rect{X: 0, Y: 20, Width: 1000, Height: 980}
	win.geometry = xwin.Rect{Width: 200, Height: 100}

	cfg := config.Default()
	cfg.Keys["maximize"] = "Super-m"
	cfg.Keys["put"] = "Super"
	cfg.Sections["left"] = &config.Section{Name: "left", Key: "h", Position: "left"}

	s := newTestService(t, f)
	if err := s.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	s.Start()

	if len(f.grabs) != 2 {
		t.Fatalf("grabs after Start = %d, want 2", len(f.grabs))
	}

	f.pressCombo("", "Super-m")
	if len(win.calls) != 1 || win.calls[0] != "maximize" {
		t.Fatalf("calls after Super-m = %v, want [maximize]", win.calls)
	}

	f.pressCombo("Super", "h")
	if win.movedTo == nil {
		t.Fatal("Super-h did not move the window")
	}
	if got, want := *win.movedTo, [2]int{0, 460}; got != want {
		t.Errorf("moved to %v, want %v", got, want)
	}

	s.Stop()
	if len(f.grabs) != 0 {
		t.Fatalf("grabs after Stop = %d, want 0", len(f.grabs))
	}
	if n := len(f.ledStates); n == 0 || f.ledStates[n-1] {
		t.Errorf("ledStates after Stop = %v, want trailing false", f.ledStates)
	}
	if f.flushes == 0 {
		t.Error("Stop did not flush the adapter")
	}

	// Shortcuts are dead after Stop.
	f.pressCombo("", "Super-m")
	if len(win.calls) != 2 {
		t.Errorf("calls after Stop = %v, want no new entries", win.calls)
	}
}

func TestServiceStopWhileInMode(t *testing.T) {
	f := newFakeAdapter()

	s := newTestService(t, f)
	if err := s.Configure(modalConfig()); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	s.Start()

	f.pressCombo("", "Super-space")
	if !s.Controller().InMode() {
		t.Fatal("mode key press did not enter mode")
	}

	s.Stop()
	if len(f.grabs) != 0 {
		t.Fatalf("grabs after Stop = %d, want 0", len(f.grabs))
	}
}

func TestServiceReconfigure(t *testing.T) {
	f := newFakeAdapter()

	s := newTestService(t, f)
	if err := s.Configure(modalConfig()); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	s.Start()
	f.pressCombo("", "Super-space")

	next := modalConfig()
	delete(next.Keys, "maximize")
	next.Keys["iconify"] = "Super-j"
	if err := s.Reconfigure(next); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}

	if !s.Controller().InMode() {
		t.Fatal("in-mode state lost across reload")
	}
	if !f.grabbed("", "Super-j") {
		t.Error("new binding not grabbed after reload")
	}
	if f.grabbed("", "Super-m") {
		t.Error("stale binding still grabbed after reload")
	}
}

func TestServiceReconfigureFailureKeepsBindings(t *testing.T) {
	f := newFakeAdapter()
	win := f.window.(*fakeWindow)

	cfg := config.Default()
	cfg.Keys["maximize"] = "Super-m"

	s := newTestService(t, f)
	if err := s.Configure(cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	s.Start()

	bad := config.Default()
	bad.Keys["iconify"] = "Super-j"
	bad.ModeKey = "Super-nosuchkey"
	bad.Modal = true
	if err := s.Reconfigure(bad); err == nil {
		t.Fatal("Reconfigure with an unresolvable mode key should fail")
	}

	if !f.grabbed("", "Super-m") {
		t.Error("previous binding not grabbed after failed reload")
	}
	if f.grabbed("", "Super-j") {
		t.Error("rejected configuration's binding grabbed after failed reload")
	}

	f.pressCombo("", "Super-m")
	if len(win.calls) != 1 || win.calls[0] != "maximize" {
		t.Fatalf("calls after failed reload = %v, want [maximize]", win.calls)
	}
	f.pressCombo("", "Super-j")
	if len(win.calls) != 1 {
		t.Errorf("rejected configuration's binding went live: %v", win.calls)
	}
}

func TestServiceReconfigureNoFeedback(t *testing.T) {
	f := newFakeAdapter()

	s := newTestService(t, f)
	if err := s.Configure(modalConfig()); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	s.Start()
	f.pressCombo("", "Super-space")

	if err := s.Reconfigure(modalConfig()); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}

	if !s.Controller().InMode() {
		t.Fatal("in-mode state lost across reload")
	}
	if f.bells != 1 {
		t.Errorf("bells after reload = %d, want 1", f.bells)
	}
	if len(f.ledStates) != 1 {
		t.Errorf("ledStates after reload = %v, want the single entry transition", f.ledStates)
	}
}

func TestServiceReconfigureToNonModal(t *testing.T) {
	f := newFakeAdapter()

	s := newTestService(t, f)
	if err := s.Configure(modalConfig()); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	s.Start()
	f.pressCombo("", "Super-space")

	next := modalConfig()
	next.Modal = false
	if err := s.Reconfigure(next); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}

	if !s.Controller().InMode() {
		t.Fatal("non-modal service not active after reload")
	}
	if !f.grabbed("", "Super-m") {
		t.Error("shortcut not grabbed directly after reload")
	}
	if f.grabbed("", "Super-space") {
		t.Error("mode key still grabbed after switching modal off")
	}
}
