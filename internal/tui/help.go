package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type helpModel struct {
	keys  keyMap
	theme Theme
	width int
}

func newHelpModel(theme Theme) helpModel {
	return helpModel{
		keys:  defaultKeyMap(),
		theme: theme,
		width: 80,
	}
}

func (m *helpModel) SetWidth(width int) {
	m.width = width
}

func (m helpModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.TopBarTitle.Render("docchat help"))
	b.WriteString("\n\n")

	b.WriteString(m.theme.PaneTitleF.Render("keys"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s  send message\n", m.theme.TopBarBadge.Render("enter")))
	b.WriteString(fmt.Sprintf("  %s  switch focus\n", m.theme.TopBarBadge.Render("tab")))
	b.WriteString(fmt.Sprintf("  %s  next persona\n", m.theme.TopBarBadge.Render("shift+tab")))
	b.WriteString(fmt.Sprintf("  %s  toggle theme\n", m.theme.TopBarBadge.Render("ctrl+t")))
	b.WriteString(fmt.Sprintf("  %s  toggle persona pane\n", m.theme.TopBarBadge.Render("ctrl+p")))
	b.WriteString(fmt.Sprintf("  %s  clear chat\n", m.theme.TopBarBadge.Render("ctrl+l")))
	b.WriteString(fmt.Sprintf("  %s  toggle this help\n", m.theme.TopBarBadge.Render("ctrl+h")))
	b.WriteString(fmt.Sprintf("  %s  quit\n", m.theme.TopBarBadge.Render("ctrl+c")))

	b.WriteString("\n")
	b.WriteString(m.theme.PaneTitleF.Render("commands"))
	b.WriteString("\n")
	b.WriteString(m.theme.Footer.Render("  /upload <path>   upload a document"))
	b.WriteString("\n")
	b.WriteString(m.theme.Footer.Render("  /persona <key>   switch assistant persona"))
	b.WriteString("\n")

	return b.String()
}

type keyMap struct {
	Quit           key.Binding
	Enter          key.Binding
	Clear          key.Binding
	FocusNext      key.Binding
	NextPersona    key.Binding
	ToggleTheme    key.Binding
	TogglePersonas key.Binding
	Help           key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send message"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear chat"),
		),
		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch focus"),
		),
		NextPersona: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "next persona"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle theme"),
		),
		TogglePersonas: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "toggle persona pane"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("ctrl+h", "toggle help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.FocusNext, k.NextPersona, k.ToggleTheme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.FocusNext, k.NextPersona, k.ToggleTheme, k.TogglePersonas, k.Clear, k.Help, k.Quit},
	}
}
