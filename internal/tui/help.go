package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type helpModel struct {
	keys  keyMap
	width int
}

func newHelpModel() helpModel {
	return helpModel{
		keys:  defaultKeyMap(),
		width: 80,
	}
}

func (m *helpModel) SetWidth(width int) {
	m.width = width
}

func (m helpModel) View() string {
	var b strings.Builder

	b.WriteString(helpFooterStyle.Render(fmt.Sprintf(
		"%s send  %s word of the day  %s new session  %s clear chat  %s history  %s quit",
		helpKeyStyle.Render("enter"),
		helpKeyStyle.Render("ctrl+s"),
		helpKeyStyle.Render("ctrl+n"),
		helpKeyStyle.Render("ctrl+l"),
		helpKeyStyle.Render("ctrl+h"),
		helpKeyStyle.Render("esc/ctrl+c"),
	)))

	return b.String()
}

type keyMap struct {
	Quit       key.Binding
	Enter      key.Binding
	Suggest    key.Binding
	NewSession key.Binding
	Clear      key.Binding
	History    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send message"),
		),
		Suggest: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "word of the day"),
		),
		NewSession: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new session"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear chat"),
		),
		History: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "toggle history"),
		),
	}
}

var (
	helpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary))

	helpFooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFgMuted)).
			Padding(0, 2)
)
