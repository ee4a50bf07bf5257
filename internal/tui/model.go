package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/mcchat/internal/chat"
	apierrors "github.com/diogo/mcchat/internal/errors"
	"github.com/diogo/mcchat/internal/models"
	"github.com/diogo/mcchat/internal/render"
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// responseMsg carries a settled-or-failed exchange back to Update
	responseMsg struct {
		result chat.Result
	}
	clipboardMsg struct {
		err error
	}
)

// SessionInterface is the part of chat.Session the screen drives
type SessionInterface interface {
	Submit(text string) (chat.Request, bool)
	Exchange(ctx context.Context, req chat.Request) chat.Result
	Settle(res chat.Result) models.Message
	InFlight() bool
	SetInput(text string)
	Messages() []models.Message
	Endpoint() string
}

var _ SessionInterface = (*chat.Session)(nil)

// CopyFunc writes text to the system clipboard
type CopyFunc func(text string) error

// Model represents the TUI state
type Model struct {
	ctx        context.Context
	session    SessionInterface
	renderOpts render.Options
	copyText   CopyFunc

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	loading        bool
	ready          bool
	animationFrame int
	notice         string
	err            error

	// Extra reply content keyed by request id
	attachments map[string]models.Reply

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(ctx context.Context, session SessionInterface, renderOpts render.Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}

	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		ctx:         ctx,
		session:     session,
		renderOpts:  renderOpts,
		copyText:    clipboard.WriteAll,
		textarea:    ta,
		spinner:     s,
		attachments: make(map[string]models.Reply),
	}
}

// WithCopyFunc replaces the clipboard writer
func (m Model) WithCopyFunc(fn CopyFunc) Model {
	m.copyText = fn
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 1
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+y":
			return m, m.copyLastReply()

		case "enter":
			return m.submit()
		}

	case responseMsg:
		m.session.Settle(msg.result)
		if msg.result.Err == nil && msg.result.Reply != nil && hasAttachments(*msg.result.Reply) {
			m.attachments[msg.result.Request.ID] = *msg.result.Reply
		}
		m.textarea.Reset()
		m.loading = m.session.InFlight()
		m.notice = ""
		m.updateViewport()
		m.viewport.GotoBottom()

	case clipboardMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("clipboard: %w", msg.err)
			m.notice = ""
		} else {
			m.err = nil
			m.notice = "Copied last reply to clipboard"
		}

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only key messages reach the textarea so terminal escape sequences do not leak into it
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
			m.session.SetInput(m.textarea.Value())
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit sends the composed text. Enter is ignored while a request is in
// flight or the input is empty.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.loading || m.session.InFlight() {
		return m, nil
	}

	input := m.textarea.Value()
	switch strings.TrimSpace(input) {
	case "/exit", "/quit":
		return m, tea.Quit
	}

	req, ok := m.session.Submit(input)
	if !ok {
		return m, nil
	}

	m.loading = true
	m.err = nil
	m.notice = ""
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.exchange(req),
		m.spinner.Tick,
		animationTick(),
	)
}

// exchange runs the request off the Update goroutine
func (m Model) exchange(req chat.Request) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return responseMsg{result: session.Exchange(ctx, req)}
	}
}

func (m Model) copyLastReply() tea.Cmd {
	text, ok := lastReply(m.session.Messages())
	if !ok {
		return func() tea.Msg {
			return clipboardMsg{err: fmt.Errorf("no reply to copy yet")}
		}
	}
	copyText := m.copyText
	return func() tea.Msg {
		return clipboardMsg{err: copyText(text)}
	}
}

// lastReply returns the text of the most recent successful bot record
func lastReply(msgs []models.Message) (string, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == models.SenderBot && !msgs[i].Failed() {
			return msgs[i].Text, true
		}
	}
	return "", false
}

func hasAttachments(r models.Reply) bool {
	return r.Language != "" || r.AudioURL != "" || r.ImageURL != ""
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	headerContent := lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("✦ McIntire Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(endpointHost(m.session.Endpoint())),
	)
	sections = append(sections, headerStyle.Width(contentWidth).Render(headerContent))

	var messagesContent string
	if len(m.session.Messages()) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	var inputContent string
	if m.loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render(models.SenderUser.Label()),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	switch {
	case m.err != nil:
		sections = append(sections, errorStyle.Render("⚠ "+m.err.Error()))
	case m.notice != "":
		sections = append(sections, noticeStyle.Render(m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func endpointHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("Welcome to McIntire Chat"),
		"",
		welcomeStyle.Width(width).Render("Ask about courses, programs or campus life"),
		"",
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders the animated in-flight indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[frame%len(chars)])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)
		bar.WriteString(lipgloss.NewStyle().Foreground(gradientColors[colorIdx]).Render(barChars[charIdx]))
	}

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorTextMute).Render("○"))
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Waiting for a reply ")
	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots.String())
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+Y", "Copy reply"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		))
	}

	bar := strings.Join(items, "  │  ")
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content from the transcript
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, msg := range m.session.Messages() {
		if i > 0 {
			content.WriteString("\n")
		}

		switch {
		case msg.Sender == models.SenderUser:
			label := userLabelStyle.Render("● " + msg.Sender.Label())
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)

		case msg.Failed():
			label := assistantLabelStyle.Render("✦ " + msg.Sender.Label())
			bubble := errorBubbleStyle.Width(bubbleWidth).Render(msg.Text)
			content.WriteString(label + "\n" + bubble)
			if hint := errorHint(msg.Err); hint != "" {
				content.WriteString("\n" + hintStyle.Render("  "+hint))
			}

		default:
			label := assistantLabelStyle.Render("✦ " + msg.Sender.Label())
			rendered := render.Reply(msg.Text, m.renderOpts.WithWidth(bubbleWidth-4))
			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
			if extra, ok := m.attachments[msg.RequestID]; ok {
				content.WriteString("\n" + renderAttachments(extra))
			}
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

func renderAttachments(r models.Reply) string {
	var lines []string
	if r.Language != "" {
		lines = append(lines, metaStyle.Render("  language: "+r.Language))
	}
	if r.ImageURL != "" {
		lines = append(lines, metaStyle.Render("  🖼  "+r.ImageURL))
	}
	if r.AudioURL != "" {
		lines = append(lines, metaStyle.Render("  ♪  "+r.AudioURL))
	}
	return strings.Join(lines, "\n")
}

// errorHint suggests what to do about a failed request
func errorHint(err error) string {
	switch {
	case apierrors.IsTimeout(err):
		return "The request timed out. Try again."
	case apierrors.IsTransport(err):
		return "Check your internet connection."
	case apierrors.GetHTTPStatus(err) >= 500:
		return "The server had a problem. Try again later."
	case apierrors.IsDecode(err):
		return "The server sent a reply this client could not read."
	default:
		return ""
	}
}

// RunChat starts the chat TUI
func RunChat(ctx context.Context, session SessionInterface, renderOpts render.Options) error {
	p := tea.NewProgram(
		NewChatModel(ctx, session, renderOpts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
