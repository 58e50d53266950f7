package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/learnex/learnex/internal/screen"
	"github.com/learnex/learnex/internal/ui/layout"
)

type fakeScreen struct {
	closed int
	keys   []string
}

func (s *fakeScreen) Init() tea.Cmd { return nil }
func (s *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		s.keys = append(s.keys, k.String())
	}
	return s, nil
}
func (s *fakeScreen) View(int, int) string { return "body" }
func (s *fakeScreen) Title() string        { return "Fake" }
func (s *fakeScreen) HeaderStatus() string { return "12:34" }
func (s *fakeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "S", Description: "Submit"}}
}
func (s *fakeScreen) Close() { s.closed++ }

func newTestModel(g *Guard) (AppModel, *fakeScreen) {
	fs := &fakeScreen{}
	return newAppModel(Options{Root: fs, Guard: g, Log: zerolog.Nop()}), fs
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

var ctrlC = tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}

func TestGuard(t *testing.T) {
	g := NewGuard()
	if g.Armed() {
		t.Fatal("new guard should be disarmed")
	}
	g.Arm()
	if !g.Armed() {
		t.Fatal("expected armed")
	}
	g.Disarm()
	if g.Armed() {
		t.Fatal("expected disarmed")
	}

	var nilGuard *Guard
	if nilGuard.Armed() {
		t.Error("nil guard should never be armed")
	}
}

func TestCtrlC_UnguardedQuits(t *testing.T) {
	m, fs := newTestModel(NewGuard())

	_, cmd := m.Update(ctrlC)
	if !isQuit(cmd) {
		t.Fatal("expected quit")
	}
	if fs.closed != 1 {
		t.Errorf("closed = %d, want 1", fs.closed)
	}
}

func TestCtrlC_GuardedAsksFirst(t *testing.T) {
	g := NewGuard()
	g.Arm()
	m, fs := newTestModel(g)

	model, cmd := m.Update(ctrlC)
	if cmd != nil {
		t.Fatal("expected no command while confirming")
	}
	m = model.(AppModel)
	if !m.confirmLeave {
		t.Fatal("expected leave confirmation")
	}

	// Keys do not reach the screen while the dialog is open.
	model, _ = m.Update(tea.KeyPressMsg{Code: 'x', Text: "x"})
	m = model.(AppModel)
	if len(fs.keys) != 0 {
		t.Errorf("screen got keys %v", fs.keys)
	}

	model, cmd = m.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	m = model.(AppModel)
	if m.confirmLeave || cmd != nil {
		t.Fatal("n should cancel")
	}
	if fs.closed != 0 {
		t.Error("screen closed after cancel")
	}

	model, _ = m.Update(ctrlC)
	m = model.(AppModel)
	_, cmd = m.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	if !isQuit(cmd) {
		t.Fatal("y should quit")
	}
	if fs.closed != 1 {
		t.Errorf("closed = %d, want 1", fs.closed)
	}
}

func TestKeysForwardedToScreen(t *testing.T) {
	m, fs := newTestModel(nil)
	m.Update(tea.KeyPressMsg{Code: 'm', Text: "m"})
	if len(fs.keys) != 1 || fs.keys[0] != "m" {
		t.Errorf("keys = %v", fs.keys)
	}
}

func TestKeyHintsFromScreen(t *testing.T) {
	m, fs := newTestModel(nil)
	hints := m.keyHints(fs)
	if len(hints) != 1 || hints[0].Key != "S" {
		t.Errorf("hints = %+v", hints)
	}

	m.confirmLeave = true
	hints = m.keyHints(fs)
	if hints[0].Key != "Y" {
		t.Errorf("confirm hints = %+v", hints)
	}
}
