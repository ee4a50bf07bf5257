package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/mcchat/internal/config"
	"github.com/diogo/mcchat/internal/render"
)

type saveRecorder struct {
	saved []config.Config
	err   error
}

func (r *saveRecorder) save(cfg config.Config) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, cfg)
	return nil
}

func newTestConfigModel(t *testing.T) (ConfigModel, *saveRecorder) {
	t.Helper()
	t.Cleanup(func() {
		render.SetTUITheme(render.TokyoNightTheme.Name)
		UpdateTheme()
	})
	rec := &saveRecorder{}
	m := NewConfigModel(config.DefaultConfig(), "/tmp/.mcchat/config.json", rec.save)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(ConfigModel), rec
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m ConfigModel, keys ...string) (ConfigModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var updated tea.Model
		updated, cmd = m.Update(keyPress(k))
		m = updated.(ConfigModel)
	}
	return m, cmd
}

func TestNewConfigModel(t *testing.T) {
	m, _ := newTestConfigModel(t)

	if m.view != viewMain {
		t.Errorf("view = %v, want viewMain", m.view)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	if m.feedbackTimeout != 2*time.Second {
		t.Errorf("feedbackTimeout = %v, want 2s", m.feedbackTimeout)
	}
	if m.Init() != nil {
		t.Error("Init should return nil command")
	}
}

func TestConfigModel_Navigation(t *testing.T) {
	m, _ := newTestConfigModel(t)

	m, _ = press(m, "up")
	if m.cursor != menuExit {
		t.Errorf("up from the first row should wrap to Exit, got %d", m.cursor)
	}

	m, _ = press(m, "down")
	if m.cursor != 0 {
		t.Errorf("down from Exit should wrap to 0, got %d", m.cursor)
	}

	m, _ = press(m, "j", "j")
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2", m.cursor)
	}
	m, _ = press(m, "k")
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestConfigModel_ToggleSaves(t *testing.T) {
	m, rec := newTestConfigModel(t)

	m, cmd := press(m, "enter")
	if cmd == nil {
		t.Error("toggle should schedule clearing the feedback")
	}
	if !m.Config().CompanionMode {
		t.Error("companion mode should be enabled")
	}
	if len(rec.saved) != 1 || !rec.saved[0].CompanionMode {
		t.Errorf("saved = %+v", rec.saved)
	}
	if m.feedback != "Companion Mode enabled" {
		t.Errorf("feedback = %q", m.feedback)
	}

	m, _ = press(m, " ")
	if m.Config().CompanionMode {
		t.Error("second toggle should disable companion mode")
	}
	if m.feedback != "Companion Mode disabled" {
		t.Errorf("feedback = %q", m.feedback)
	}

	updated, _ := m.Update(feedbackClearMsg{})
	if updated.(ConfigModel).feedback != "" {
		t.Error("feedbackClearMsg should clear the feedback")
	}
}

func TestConfigModel_RestrictScopeToggle(t *testing.T) {
	m, rec := newTestConfigModel(t)

	m, _ = press(m, "down", "enter")
	if !m.Config().RestrictScope {
		t.Error("restrict scope should be enabled")
	}
	if m.Config().CompanionMode {
		t.Error("companion mode should be untouched")
	}
	if len(rec.saved) != 1 || !rec.saved[0].RestrictScope {
		t.Errorf("saved = %+v", rec.saved)
	}
	if m.feedback != "Restrict Scope enabled" {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestConfigModel_SaveError(t *testing.T) {
	m, rec := newTestConfigModel(t)
	rec.err = errors.New("disk full")

	m, _ = press(m, "enter")
	if m.Config().CompanionMode {
		t.Error("config should not change when saving fails")
	}
	if !strings.Contains(m.feedback, "disk full") {
		t.Errorf("feedback = %q", m.feedback)
	}
}

func TestConfigModel_ChoiceView(t *testing.T) {
	m, rec := newTestConfigModel(t)

	// Log Level is the last setting
	m.cursor = menuExit - 1
	m, _ = press(m, "enter")
	if m.view != viewChoice {
		t.Fatalf("view = %v, want viewChoice", m.view)
	}
	if m.choiceCursor != 1 {
		t.Errorf("choice cursor should start on the current value, got %d", m.choiceCursor)
	}

	m, _ = press(m, "k", "enter")
	if m.view != viewMain {
		t.Error("selecting a choice should return to the main view")
	}
	if m.Config().Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", m.Config().Log.Level)
	}
	if len(rec.saved) != 1 {
		t.Errorf("saves = %d, want 1", len(rec.saved))
	}
}

func TestConfigModel_TUIThemeApplies(t *testing.T) {
	m, _ := newTestConfigModel(t)

	m.cursor = 5
	m, _ = press(m, "enter")

	names := render.TUIThemeNames()
	var target int
	for i, n := range names {
		if n == render.LightTheme.Name {
			target = i
		}
	}
	m.choiceCursor = target
	m, _ = press(m, "enter")

	if m.Config().TUITheme != render.LightTheme.Name {
		t.Errorf("tui theme = %q", m.Config().TUITheme)
	}
	if render.GetTUITheme().Name != render.LightTheme.Name {
		t.Error("theme should be applied immediately")
	}
	if colorPrimary != render.LightTheme.Primary {
		t.Error("styles should be rebuilt for the new theme")
	}
}

func TestConfigModel_EscAndQuit(t *testing.T) {
	m, _ := newTestConfigModel(t)

	m.cursor = 4
	m, _ = press(m, "enter")
	m, cmd := press(m, "esc")
	if m.view != viewMain {
		t.Error("esc in a choice list should go back")
	}
	if cmd != nil {
		t.Error("going back should not quit")
	}

	_, cmd = press(m, "esc")
	if cmd == nil {
		t.Fatal("esc on the main view should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}

	m.cursor = menuExit
	_, cmd = press(m, "enter")
	if cmd == nil {
		t.Fatal("selecting Exit should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestConfigModel_View(t *testing.T) {
	m := NewConfigModel(config.DefaultConfig(), "/tmp/config.json", func(config.Config) error { return nil })
	if !strings.Contains(m.View(), "Initializing") {
		t.Error("view before sizing should show the loading text")
	}

	m, _ = newTestConfigModel(t)
	view := m.View()
	for _, want := range []string{"Settings", "Companion Mode", "Restrict Scope", "Log Level", "/tmp/.mcchat/config.json", "Exit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m.cursor = 4
	m, _ = press(m, "enter")
	view = m.View()
	if !strings.Contains(view, "Select Markdown Theme") || !strings.Contains(view, "(current)") {
		t.Errorf("choice view incomplete:\n%s", view)
	}
	if !strings.Contains(view, "Back") {
		t.Error("status bar should offer Back in a choice list")
	}
}
