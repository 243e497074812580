package playground

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	mdwlog "github.com/msto63/kthxbye/foundation/core/log"
	"github.com/msto63/kthxbye/internal/engine"
)

func newModel(src string) Model {
	m := New(Config{
		Engine: engine.New(engine.Options{Logger: mdwlog.Discard()}),
		Source: src,
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model)
}

// runToCompletion presses ctrl+r and feeds the resulting run message back
func runToCompletion(t *testing.T, m Model) Model {
	t.Helper()
	next, _, handled := m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlR})
	if !handled {
		t.Fatal("ctrl+r not handled")
	}
	m = next.(Model)
	if !m.running {
		t.Fatal("model should be running after ctrl+r")
	}

	msg := m.run()()
	next, _ = m.Update(msg)
	return next.(Model)
}

func TestRun_ValidProgram(t *testing.T) {
	m := runToCompletion(t, newModel(DefaultProgram))

	if m.running {
		t.Error("model still running")
	}
	out := m.Output()
	if !strings.Contains(out, "O HAI KITTEH") || !strings.Contains(out, "The program is valid") {
		t.Errorf("output = %q", out)
	}
	if m.last == nil || !m.last.Valid {
		t.Errorf("last report = %+v", m.last)
	}
}

func TestRun_InvalidProgramShowsDiagnostic(t *testing.T) {
	m := runToCompletion(t, newModel("HAI\nVISIBLE nope\nKTHXBYE"))

	out := m.Output()
	if !strings.Contains(out, "Error at Line 2 : Variable 'nope' unknown.") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "The program is not valid") {
		t.Errorf("verdict missing: %q", out)
	}
}

func TestRun_UsesInputWords(t *testing.T) {
	m := newModel("HAI\nI HAS A x\nGIMMEH x\nVISIBLE SUM OF x AN 1\nKTHXBYE")
	m.input.SetValue("41")

	m = runToCompletion(t, m)
	if !strings.Contains(m.Output(), "42") {
		t.Errorf("output = %q", m.Output())
	}
}

func TestTab_CyclesFocus(t *testing.T) {
	m := newModel("")
	want := []FocusArea{FocusInput, FocusOutput, FocusEditor}
	for _, f := range want {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(Model)
		if m.Focus() != f {
			t.Errorf("Focus() = %v, want %v", m.Focus(), f)
		}
	}
}

func TestCtrlC_Quits(t *testing.T) {
	m := newModel("")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
}

func TestCtrlL_ClearsOutput(t *testing.T) {
	m := runToCompletion(t, newModel(DefaultProgram))
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = next.(Model)
	if m.Output() != "" || m.last != nil {
		t.Errorf("output not cleared: %q", m.Output())
	}
}

func TestView(t *testing.T) {
	if got := New(Config{}).View(); got != "Loading playground..." {
		t.Errorf("View() before resize = %q", got)
	}
	view := newModel("").View()
	for _, want := range []string{Logo, "Program", "Input", "Output", "not run"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
