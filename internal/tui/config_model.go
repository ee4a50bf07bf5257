package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/mcchat/internal/config"
	"github.com/diogo/mcchat/internal/render"
)

// configView represents the current view in the settings screen
type configView int

const (
	viewMain configView = iota
	viewChoice
)

type settingKind int

const (
	settingToggle settingKind = iota
	settingChoice
)

// setting is one editable row, applied through config.Set
type setting struct {
	key     string
	label   string
	kind    settingKind
	value   func(config.Config) string
	choices func() []string
}

var settings = []setting{
	{
		key:   "companion_mode",
		label: "Companion Mode",
		kind:  settingToggle,
		value: func(c config.Config) string { return strconv.FormatBool(c.CompanionMode) },
	},
	{
		key:   "restrict_scope",
		label: "Restrict Scope",
		kind:  settingToggle,
		value: func(c config.Config) string { return strconv.FormatBool(c.RestrictScope) },
	},
	{
		key:   "copy_to_clipboard",
		label: "Copy to Clipboard",
		kind:  settingToggle,
		value: func(c config.Config) string { return strconv.FormatBool(c.CopyToClipboard) },
	},
	{
		key:   "telemetry.enabled",
		label: "Telemetry",
		kind:  settingToggle,
		value: func(c config.Config) string { return strconv.FormatBool(c.Telemetry.Enabled) },
	},
	{
		key:     "markdown.style",
		label:   "Markdown Theme",
		kind:    settingChoice,
		value:   func(c config.Config) string { return orDefault(c.Markdown.Style, render.StyleDark) },
		choices: render.StandardStyles,
	},
	{
		key:     "tui_theme",
		label:   "TUI Theme",
		kind:    settingChoice,
		value:   func(c config.Config) string { return orDefault(c.TUITheme, render.TokyoNightTheme.Name) },
		choices: render.TUIThemeNames,
	},
	{
		key:     "log.level",
		label:   "Log Level",
		kind:    settingChoice,
		value:   func(c config.Config) string { return orDefault(c.Log.Level, "info") },
		choices: func() []string { return []string{"debug", "info", "warn", "error"} },
	},
}

// menuExit is the row after the last setting
var menuExit = len(settings)

// feedbackClearMsg is sent to clear feedback messages
type feedbackClearMsg struct{}

// ConfigModel is the interactive settings screen
type ConfigModel struct {
	config     config.Config
	configPath string
	save       func(config.Config) error

	// Navigation
	view         configView
	cursor       int
	choiceCursor int

	// Feedback
	feedback        string
	feedbackTimeout time.Duration

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewConfigModel creates a settings screen editing cfg. Every change is
// passed to save immediately.
func NewConfigModel(cfg config.Config, configPath string, save func(config.Config) error) ConfigModel {
	if cfg.TUITheme != "" && render.SetTUITheme(cfg.TUITheme) {
		UpdateTheme()
	}

	return ConfigModel{
		config:          cfg,
		configPath:      configPath,
		save:            save,
		view:            viewMain,
		feedbackTimeout: 2 * time.Second,
	}
}

// Init initializes the model
func (m ConfigModel) Init() tea.Cmd {
	return nil
}

// Config returns the configuration as edited so far
func (m ConfigModel) Config() config.Config {
	return m.config
}

// clearFeedback returns a command that clears the feedback message after a delay
func clearFeedback(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return feedbackClearMsg{}
	})
}

// Update handles messages and updates the model
func (m ConfigModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case feedbackClearMsg:
		m.feedback = ""

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if m.view == viewChoice {
				m.view = viewMain
				return m, nil
			}
			return m, tea.Quit

		case "up", "k":
			m.move(-1)

		case "down", "j":
			m.move(1)

		case "enter", " ":
			return m.handleSelect()
		}
	}

	return m, nil
}

// move shifts the active cursor by delta, wrapping at both ends
func (m *ConfigModel) move(delta int) {
	if m.view == viewChoice {
		n := len(settings[m.cursor].choices())
		m.choiceCursor = (m.choiceCursor + delta + n) % n
		return
	}
	n := menuExit + 1
	m.cursor = (m.cursor + delta + n) % n
}

// handleSelect handles menu item selection
func (m ConfigModel) handleSelect() (tea.Model, tea.Cmd) {
	if m.view == viewChoice {
		s := settings[m.cursor]
		value := s.choices()[m.choiceCursor]
		m.view = viewMain
		m.apply(s, value, fmt.Sprintf("%s set to %s", s.label, value))
		return m, clearFeedback(m.feedbackTimeout)
	}

	if m.cursor == menuExit {
		return m, tea.Quit
	}

	s := settings[m.cursor]
	switch s.kind {
	case settingToggle:
		on, _ := strconv.ParseBool(s.value(m.config))
		state := "enabled"
		if on {
			state = "disabled"
		}
		m.apply(s, strconv.FormatBool(!on), fmt.Sprintf("%s %s", s.label, state))
		return m, clearFeedback(m.feedbackTimeout)

	case settingChoice:
		m.view = viewChoice
		m.choiceCursor = 0
		current := s.value(m.config)
		for i, c := range s.choices() {
			if c == current {
				m.choiceCursor = i
				break
			}
		}
	}
	return m, nil
}

// apply sets key to value, saves, and reports the outcome in the feedback line
func (m *ConfigModel) apply(s setting, value, success string) {
	next := m.config
	if err := next.Set(s.key, value); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		return
	}
	if err := m.save(next); err != nil {
		m.feedback = fmt.Sprintf("Error: %v", err)
		return
	}
	m.config = next
	m.feedback = success

	if s.key == "tui_theme" && render.SetTUITheme(value) {
		UpdateTheme()
	}
}

// View renders the settings screen
func (m ConfigModel) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string

	header := headerStyle.Width(contentWidth).Render(titleStyle.Render("✦ Settings"))
	sections = append(sections, header)

	paths := lipgloss.JoinVertical(lipgloss.Left,
		configSectionTitleStyle.Render("Paths"),
		fmt.Sprintf("   Config: %s", subtitleStyle.Render(m.configPath)),
		fmt.Sprintf("   Logs:   %s", subtitleStyle.Render(m.config.Log.File)),
	)
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(paths))

	var body string
	if m.view == viewChoice {
		body = m.renderChoices()
	} else {
		body = m.renderMainMenu()
	}
	sections = append(sections, configPanelStyle.Width(contentWidth).Render(body))

	if m.feedback != "" {
		sections = append(sections, configFeedbackStyle.Render("✓ "+m.feedback))
	}

	sections = append(sections, m.renderStatusBar(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderMainMenu renders the list of settings
func (m ConfigModel) renderMainMenu() string {
	items := []string{configSectionTitleStyle.Render("⚙ Settings"), ""}

	for i, s := range settings {
		var value string
		if s.kind == settingToggle {
			on, _ := strconv.ParseBool(s.value(m.config))
			value = renderBoolValue(on)
		} else {
			value = configValueStyle.Render(s.value(m.config))
		}
		items = append(items, m.row(i, fmt.Sprintf("%-20s", s.label))+value)
	}

	items = append(items, "", m.row(menuExit, "Exit"))
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// renderChoices renders the options of the selected setting
func (m ConfigModel) renderChoices() string {
	s := settings[m.cursor]
	items := []string{configSectionTitleStyle.Render("Select " + s.label), ""}

	current := s.value(m.config)
	for i, c := range s.choices() {
		cursor := "  "
		style := configMenuItemStyle
		if i == m.choiceCursor {
			cursor = configCursorStyle.Render("▸ ")
			style = configMenuSelectedStyle
		}
		line := cursor + style.Render(c)
		if c == current {
			line += configValueStyle.Render(" (current)")
		}
		items = append(items, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (m ConfigModel) row(index int, label string) string {
	if index == m.cursor {
		return configCursorStyle.Render("▸ ") + configMenuSelectedStyle.Render(label)
	}
	return "  " + configMenuItemStyle.Render(label)
}

func renderBoolValue(value bool) string {
	if value {
		return configEnabledStyle.Render("enabled")
	}
	return configDisabledStyle.Render("disabled")
}

// renderStatusBar renders the bottom status bar
func (m ConfigModel) renderStatusBar(width int) string {
	back := "Exit"
	if m.view == viewChoice {
		back = "Back"
	}

	shortcuts := []struct{ key, desc string }{
		{"↑↓", "Navigate"},
		{"Enter", "Select"},
		{"Esc", back},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// RunConfig opens the settings screen for the saved configuration
func RunConfig(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		NewConfigModel(cfg, path, config.SaveConfig),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err = p.Run()
	return err
}
