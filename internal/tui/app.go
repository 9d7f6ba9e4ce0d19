package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"vocab-cli/internal/app"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model is the chat TUI state.
type Model struct {
	app          *app.Application
	session      string
	messages     []Message
	input        textarea.Model
	sending      bool
	notice       string
	showHistory  bool
	help         helpModel
	windowWidth  int
	windowHeight int
	spinnerFrame int
}

// Message is a single chat bubble. IDs combine the role with the creation
// time in millis, so a user message and a bot message landing in the same
// millisecond still get distinct ids.
type Message struct {
	ID        string
	Role      string // user|bot|error
	Content   string
	Timestamp time.Time
}

func newMessage(role, content string) Message {
	return Message{
		ID:        fmt.Sprintf("%s-%d", role, time.Now().UnixMilli()),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func New(application *app.Application) *Model {
	ta := textarea.New()
	ta.Placeholder = "Ask for a word... (Enter to send)"
	ta.Focus()
	ta.CharLimit = 2000
	ta.SetWidth(80)
	ta.SetHeight(2)
	ta.Prompt = "▍ "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	ta.BlurredStyle.Placeholder = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	return &Model{
		app:          application,
		session:      application.Sessions.GetOrCreate(),
		messages:     []Message{},
		input:        ta,
		help:         newHelpModel(),
		windowWidth:  80,
		windowHeight: 24,
	}
}

func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.input.SetWidth(msg.Width - 8)
		m.help.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.help.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.help.keys.Enter):
			// The send control is disabled while a request is in flight;
			// overlapping sends would race on the message list.
			if m.sending || strings.TrimSpace(m.input.Value()) == "" {
				return m, nil
			}
			text := strings.TrimSpace(m.input.Value())
			m.messages = append(m.messages, newMessage("user", text))
			m.input.Reset()
			m.sending = true
			m.spinnerFrame = 0
			return m, tea.Batch(m.sendCmd(text), m.spinCmd())

		case key.Matches(msg, m.help.keys.Suggest):
			if m.sending {
				return m, nil
			}
			m.sending = true
			m.spinnerFrame = 0
			return m, tea.Batch(m.suggestCmd(), m.spinCmd())

		case key.Matches(msg, m.help.keys.NewSession):
			if m.sending {
				return m, nil
			}
			return m, m.newSessionCmd()

		case key.Matches(msg, m.help.keys.Clear):
			m.messages = []Message{}
			return m, nil

		case key.Matches(msg, m.help.keys.History):
			m.showHistory = !m.showHistory
			return m, nil
		}

	case turnMsg:
		m.sending = false
		if msg.err != nil {
			m.messages = append(m.messages, newMessage("error", fmt.Sprintf("Request failed: %v", msg.err)))
			m.notice = "Could not reach the assistant — " + failedEndpoint(msg.err)
			return m, m.noticeCmd()
		}
		if msg.turn.Display != "" {
			m.messages = append(m.messages, newMessage("bot", msg.turn.Display))
		}
		if msg.turn.Fallback {
			m.notice = "Couldn't read a word from that reply — saved a generic note instead"
			return m, m.noticeCmd()
		}
		m.notice = fmt.Sprintf("Saved %q (%s, %s)", msg.turn.Item.Word, msg.turn.Item.Topic, msg.turn.Item.Level)
		return m, m.noticeCmd()

	case sessionMsg:
		m.session = msg.id
		m.messages = []Message{}
		m.notice = "Started a new conversation"
		return m, m.noticeCmd()

	case noticeExpiredMsg:
		m.notice = ""
		return m, nil

	case spinMsg:
		if m.sending {
			m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerChars)
			return m, m.spinCmd()
		}
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderMessages())
	b.WriteString("\n")

	if m.showHistory {
		b.WriteString(m.renderHistory())
		b.WriteString("\n")
	}

	b.WriteString(inputStyle.Width(m.windowWidth - 4).Render(m.input.View()))
	b.WriteString("\n")

	if m.sending {
		b.WriteString(loadingStyle.Render(fmt.Sprintf("%s Thinking...", spinnerChars[m.spinnerFrame])))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View())
	return b.String()
}

func (m *Model) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		turn, err := m.app.Chat(ctx, text)
		return turnMsg{turn: turn, err: err}
	}
}

func (m *Model) suggestCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		turn, err := m.app.LoadSuggestion(ctx)
		return turnMsg{turn: turn, err: err}
	}
}

func (m *Model) newSessionCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return sessionMsg{id: m.app.NewSession(ctx)}
	}
}

func (m *Model) spinCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(_ time.Time) tea.Msg {
		return spinMsg{}
	})
}

func (m *Model) noticeCmd() tea.Cmd {
	return tea.Tick(4*time.Second, func(_ time.Time) tea.Msg {
		return noticeExpiredMsg{}
	})
}

// failedEndpoint pulls the terminal endpoint out of a request error for the
// transient notice.
func failedEndpoint(err error) string {
	var re *app.RequestError
	if errors.As(err, &re) {
		return re.Endpoint
	}
	return err.Error()
}

type turnMsg struct {
	turn *app.Turn
	err  error
}

type sessionMsg struct{ id string }

type spinMsg struct{}

type noticeExpiredMsg struct{}

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const (
	colorBg       = "#0F172A"
	colorBgCard   = "#1E293B"
	colorFg       = "#F8FAFC"
	colorFgMuted  = "#94A3B8"
	colorPrimary  = "#3B82F6"
	colorSuccess  = "#10B981"
	colorWarning  = "#F59E0B"
	colorError    = "#EF4444"
	colorBorder   = "#334155"
	colorUserMsg  = "#3B82F6"
	colorBotMsg   = "#10B981"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorFg)).
			Background(lipgloss.Color(colorBgCard)).
			Padding(0, 2).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Width(80)

	userMessageStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(colorUserMsg)).
				Padding(0, 2).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(colorBorder)).
				MarginBottom(1).
				Width(80)

	botMessageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorBotMsg)).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			MarginBottom(1).
			Width(80)

	errorMessageStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(colorError)).
				Padding(0, 2).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(colorError)).
				MarginBottom(1).
				Width(80)

	messageContentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorFg)).
				Padding(0, 2).
				MarginBottom(1).
				Width(80)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFg)).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Width(80)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorPrimary)).
			Padding(0, 2).
			Width(80)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorWarning)).
			Padding(0, 2).
			Width(80)

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFgMuted)).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Width(80)
)

func (m *Model) renderHeader() string {
	header := fmt.Sprintf("VocabBuddy — session %s • %d words saved",
		app.ShortForm(m.session), m.app.History.Len())
	return headerStyle.Width(m.windowWidth - 4).Render(header)
}

func (m *Model) renderMessages() string {
	var b strings.Builder
	for _, msg := range m.messages {
		var header string
		var style lipgloss.Style
		switch msg.Role {
		case "user":
			header = fmt.Sprintf("You • %s", msg.Timestamp.Format("15:04:05"))
			style = userMessageStyle
		case "bot":
			header = fmt.Sprintf("VocabBuddy • %s", msg.Timestamp.Format("15:04:05"))
			style = botMessageStyle
		default:
			header = "Error"
			style = errorMessageStyle
		}
		b.WriteString(style.Width(m.windowWidth - 4).Render(header))
		b.WriteString("\n")
		b.WriteString(messageContentStyle.Width(m.windowWidth - 4).Render(msg.Content))
		b.WriteString("\n")
	}
	return b.String()
}

// renderHistory shows the most recent saved words, newest first regardless of
// which flow inserted them.
func (m *Model) renderHistory() string {
	items := m.app.History.Items()
	if len(items) == 0 {
		return historyStyle.Width(m.windowWidth - 4).Render("No words saved yet")
	}
	const show = 8
	var b strings.Builder
	b.WriteString("Recent words\n")
	count := 0
	for _, it := range items {
		if count >= show {
			break
		}
		b.WriteString(fmt.Sprintf("  %-16s %-12s %-12s %s\n", it.Word, it.Topic, it.Level, it.Hint))
		count++
	}
	return historyStyle.Width(m.windowWidth - 4).Render(strings.TrimRight(b.String(), "\n"))
}
