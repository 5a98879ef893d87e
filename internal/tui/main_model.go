package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"docchat/internal/app"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusChat
	focusPersonas
)

type personasLoadedMsg struct{}
type chatDoneMsg struct{ err error }
type uploadDoneMsg struct{ err error }
type spinMsg struct{}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// MainModel is the bubbletea program driving the chat view. All session
// mutation happens inside app.Session; the model only holds UI state and the
// latest snapshot it rendered.
type MainModel struct {
	session *app.Session
	cfg     app.Config

	theme    Theme
	help     helpModel
	renderer *TranscriptRenderer

	width  int
	height int
	ready  bool
	focus  focusArea

	view   app.SessionView
	input  textarea.Model
	chatVP viewport.Model

	showPersonas bool
	showHelp     bool

	busy       bool
	statusText string
	spinnerPos int
}

func NewMainModel(session *app.Session, cfg app.Config) *MainModel {
	ta := textarea.New()
	ta.Placeholder = "Ask a question about your document content..."
	ta.Focus()
	ta.CharLimit = 8000
	ta.SetHeight(1)
	ta.Prompt = " "
	ta.ShowLineNumbers = false

	// Keep textarea styling minimal; the input container is styled instead.
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.BlurredStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle()
	ta.BlurredStyle.Base = lipgloss.NewStyle()

	theme := NewTheme(cfg.Theme, cfg.NoColor)
	m := &MainModel{
		session:      session,
		cfg:          cfg,
		theme:        theme,
		help:         newHelpModel(theme),
		renderer:     NewTranscriptRenderer(theme),
		width:        100,
		height:       30,
		focus:        focusInput,
		input:        ta,
		showPersonas: true,
		statusText:   "Loading personas…",
	}
	m.view = session.Snapshot()
	return m
}

func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.loadPersonas())
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(m.width)

		layout := m.computeLayout()
		if !m.ready {
			m.chatVP = viewport.New(layout.ChatW, layout.ChatH)
			m.chatVP.Style = lipgloss.NewStyle()
			m.ready = true
		} else {
			m.chatVP.Width = layout.ChatW
			m.chatVP.Height = layout.ChatH
		}
		m.input.SetWidth(maxInt(10, layout.InputW))
		m.syncFromSession()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.help.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.help.keys.ToggleTheme):
			m.applyTheme(NextTheme(m.theme, m.cfg.NoColor))
			return m, nil

		case key.Matches(msg, m.help.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.help.keys.TogglePersonas):
			m.showPersonas = !m.showPersonas
			if !m.showPersonas && m.focus == focusPersonas {
				m.focus = focusInput
				m.input.Focus()
			}
			m.syncFromSession()
			return m, nil

		case key.Matches(msg, m.help.keys.NextPersona):
			m.stepPersona(1)
			return m, nil

		case key.Matches(msg, m.help.keys.FocusNext):
			m.cycleFocus()
			return m, nil

		case key.Matches(msg, m.help.keys.Clear):
			m.session.ClearTranscript()
			m.syncFromSession()
			return m, nil

		case key.Matches(msg, m.help.keys.Enter):
			if m.focus == focusPersonas {
				m.focus = focusInput
				m.input.Focus()
				return m, nil
			}
			return m, m.onEnter()

		case msg.Type == tea.KeyUp:
			switch m.focus {
			case focusChat:
				m.chatVP.LineUp(1)
				return m, nil
			case focusPersonas:
				m.stepPersona(-1)
				return m, nil
			}
		case msg.Type == tea.KeyDown:
			switch m.focus {
			case focusChat:
				m.chatVP.LineDown(1)
				return m, nil
			case focusPersonas:
				m.stepPersona(1)
				return m, nil
			}
		case msg.Type == tea.KeyPgUp:
			m.chatVP.ViewUp()
			return m, nil
		case msg.Type == tea.KeyPgDown:
			m.chatVP.ViewDown()
			return m, nil
		}

	case personasLoadedMsg:
		m.statusText = "Ready"
		m.syncFromSession()
		return m, nil

	case chatDoneMsg:
		m.busy = false
		m.statusText = "Ready"
		m.syncFromSession()
		m.chatVP.GotoBottom()
		return m, nil

	case uploadDoneMsg:
		m.busy = false
		m.statusText = "Ready"
		var vErr *app.ValidationError
		if errors.As(msg.err, &vErr) {
			// Pre-network rejection: no banner was set, tell the user inline.
			m.statusText = "⚠ " + vErr.Reason
		}
		m.syncFromSession()
		m.chatVP.GotoBottom()
		return m, nil

	case spinMsg:
		m.spinnerPos = (m.spinnerPos + 1) % len(spinnerFrames)
		if m.busy {
			m.syncFromSession()
			return m, m.spinTick()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.chatVP, cmd = m.chatVP.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *MainModel) View() string {
	if !m.ready {
		return "…"
	}
	layout := m.computeLayout()
	parts := []string{m.renderTopBar()}
	if banner := m.renderer.RenderBanner(m.view.UploadStatus); banner != "" {
		parts = append(parts, banner)
	}
	if m.showHelp {
		parts = append(parts, m.renderHelp(layout))
	} else {
		parts = append(parts, m.renderMain(layout))
	}
	parts = append(parts, m.renderInputArea(layout), m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *MainModel) onEnter() tea.Cmd {
	val := strings.TrimSpace(m.input.Value())
	if val == "" {
		return nil
	}

	// The cached snapshot can lag the session by one tick; refresh it before
	// the in-flight guards decide whether to keep the draft.
	m.syncFromSession()

	if arg, ok := strings.CutPrefix(val, "/persona "); ok {
		m.session.SelectPersona(strings.TrimSpace(arg))
		m.input.Reset()
		m.syncFromSession()
		return nil
	}

	if arg, ok := strings.CutPrefix(val, "/upload "); ok {
		if m.view.IsUploading {
			m.statusText = "Upload already in progress"
			return nil
		}
		path := strings.TrimSpace(arg)
		m.input.Reset()
		m.busy = true
		m.statusText = "Processing…"
		return tea.Batch(m.runUpload(path), m.spinTick())
	}

	if m.view.IsLoading {
		// One chat request at a time; keep the draft in the input.
		m.statusText = "Waiting for the current reply…"
		return nil
	}

	m.input.Reset()
	m.busy = true
	m.statusText = m.thinkingLabel()
	m.spinnerPos = 0
	return tea.Batch(m.runChat(val), m.spinTick())
}

func (m *MainModel) loadPersonas() tea.Cmd {
	return func() tea.Msg {
		m.session.LoadPersonas(context.Background())
		return personasLoadedMsg{}
	}
}

func (m *MainModel) runChat(text string) tea.Cmd {
	return func() tea.Msg {
		// The session appends the user message before issuing the request;
		// the spinner tick picks it up on the next frame.
		_ = m.session.SubmitMessage(context.Background(), text)
		return chatDoneMsg{}
	}
}

func (m *MainModel) runUpload(path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := app.StatDocument(path)
		if err == nil {
			err = m.session.SubmitUpload(context.Background(), doc)
		}
		return uploadDoneMsg{err: err}
	}
}

func (m *MainModel) spinTick() tea.Cmd {
	d := 90 * time.Millisecond
	if m.cfg.ReduceMotion {
		d = 250 * time.Millisecond
	}
	return tea.Tick(d, func(_ time.Time) tea.Msg { return spinMsg{} })
}

func (m *MainModel) applyTheme(t Theme) {
	m.theme = t
	m.help = newHelpModel(t)
	m.help.SetWidth(m.width)
	m.renderer = NewTranscriptRenderer(t)
	m.syncFromSession()
}

// stepPersona advances the selection through the catalog in key order.
func (m *MainModel) stepPersona(delta int) {
	keys := m.view.PersonaKeys
	if len(keys) == 0 {
		return
	}
	idx := 0
	for i, k := range keys {
		if k == m.view.Selected {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(keys)) % len(keys)
	m.session.SelectPersona(keys[idx])
	m.syncFromSession()
}

func (m *MainModel) cycleFocus() {
	next := m.focus + 1
	if next > focusPersonas {
		next = focusInput
	}
	if next == focusPersonas && !m.showPersonas {
		next = focusInput
	}
	m.focus = next
	if m.focus == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// syncFromSession refreshes the snapshot and re-renders the chat viewport.
func (m *MainModel) syncFromSession() {
	m.view = m.session.Snapshot()
	if !m.ready {
		return
	}
	layout := m.computeLayout()
	chatWidth := maxInt(20, layout.ChatW-4)
	content := m.renderer.Render(m.view, chatWidth)
	if m.view.IsLoading {
		content += "\n\n" + m.theme.Spinner.Render(spinnerFrames[m.spinnerPos]+" "+m.thinkingLabel())
	}
	atBottom := m.chatVP.AtBottom()
	m.chatVP.SetContent(content)
	if atBottom {
		m.chatVP.GotoBottom()
	}
}

func (m *MainModel) thinkingLabel() string {
	if p, ok := m.view.ActivePersona(); ok {
		return fmt.Sprintf("%s %s is thinking…", p.Emoji, p.Name)
	}
	return "Thinking…"
}

type layoutInfo struct {
	MainH int

	ChatW int
	ChatH int

	PersonaW int

	InputW int
}

func (m *MainModel) computeLayout() layoutInfo {
	top := 1
	foot := 1
	inputH := 3
	bannerH := 0
	if banner := m.renderer.RenderBanner(m.view.UploadStatus); banner != "" {
		bannerH = lipgloss.Height(banner)
	}
	mainH := m.height - top - foot - inputH - bannerH
	if mainH < 3 {
		mainH = 3
	}

	showPersonas := m.showPersonas && m.width >= 90
	chatW := m.width
	personaW := 0
	if showPersonas {
		gap := 1
		personaW = 34
		chatW = m.width - gap - personaW
		if chatW < 48 {
			chatW = 48
			personaW = maxInt(24, m.width-gap-chatW)
		}
	}

	return layoutInfo{
		MainH:    mainH,
		ChatW:    chatW,
		ChatH:    mainH,
		PersonaW: personaW,
		InputW:   chatW - 4,
	}
}

func (m *MainModel) renderTopBar() string {
	left := m.theme.TopBarTitle.Render("docchat") + " " + m.theme.TopBarBadge.Render("AI Document Chat")
	status := m.statusText
	if m.busy {
		status = m.theme.Spinner.Render(spinnerFrames[m.spinnerPos] + " " + m.statusText)
	} else {
		status = m.theme.TopBarMeta.Render(status)
	}
	right := m.theme.TopBarMeta.Render(time.Now().Format("15:04"))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	a := gap / 2
	b := gap - a
	return m.theme.TopBar.Render(left + strings.Repeat(" ", a) + status + strings.Repeat(" ", b) + right)
}

func (m *MainModel) renderFooter() string {
	with := "no persona"
	if p, ok := m.view.ActivePersona(); ok {
		with = p.Emoji + " " + p.Name
	} else if m.view.Selected != "" {
		with = m.view.Selected
	}
	hints := "tab focus  shift+tab persona  ctrl+t theme  ctrl+l clear  ctrl+h help  ctrl+c quit"
	if m.width < 80 {
		hints = "tab focus  ctrl+h help  ctrl+c quit"
	}
	return m.theme.Footer.Width(m.width).Render("Chatting with: " + with + "  •  " + hints)
}

func (m *MainModel) renderInputArea(l layoutInfo) string {
	box := m.theme.InputBox
	if m.focus == focusInput {
		box = m.theme.InputBoxF
	}
	return box.Width(maxInt(10, l.ChatW-2)).Render(m.input.View())
}

func (m *MainModel) renderHelp(l layoutInfo) string {
	return m.theme.PaneFocused.Width(maxInt(20, m.width-2)).Height(l.MainH).Render(m.help.View())
}

func (m *MainModel) renderMain(l layoutInfo) string {
	chatPane := m.renderChatPane(l)
	if l.PersonaW > 0 {
		personaPane := m.renderPersonaPane(l)
		sep := m.theme.PaneDivider.Render("│")
		return lipgloss.JoinHorizontal(lipgloss.Top, chatPane, sep, personaPane)
	}
	return chatPane
}

func (m *MainModel) renderChatPane(l layoutInfo) string {
	title := "Chat"
	box := m.theme.Pane
	if m.focus == focusChat {
		box = m.theme.PaneFocused
		title = m.theme.PaneTitleF.Render(title)
	} else {
		title = m.theme.PaneTitle.Render(title)
	}
	return box.Width(l.ChatW).Height(l.ChatH).Render(title + "\n" + m.chatVP.View())
}

func (m *MainModel) renderPersonaPane(l layoutInfo) string {
	titleText := fmt.Sprintf("AI Assistants (%d)", len(m.view.PersonaKeys))
	box := m.theme.Pane
	var title string
	if m.focus == focusPersonas {
		box = m.theme.PaneFocused
		title = m.theme.PaneTitleF.Render(titleText)
	} else {
		title = m.theme.PaneTitle.Render(titleText)
	}
	body := m.renderer.RenderPersonaList(m.view, l.PersonaW-4)
	return box.Width(l.PersonaW).Height(l.ChatH).Render(title + "\n" + body)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
