package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

const (
	headerTitle     = "chat launcher"
	sendLabel       = "[ Send ]"
	sendingLabel    = "[ Sending… ]"
	modeNewChat     = "● new chat"
	modeContinue    = "○ continue chat"
	statusSeparator = "  "
)

// region is a clickable span on one rendered row.
type region struct {
	row   int
	start int
	end   int
}

func (r region) contains(x, y int) bool {
	return y == r.row && x >= r.start && x < r.end
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	v.ReportFocus = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m *Model) render() string {
	lines := make([]string, 0, 8)
	lines = append(lines, m.headerLine())
	lines = append(lines, strings.Split(m.inputBox(), "\n")...)

	button := m.buttonView()
	m.sendButton = region{row: len(lines), start: 0, end: lipgloss.Width(button)}
	row := button
	if status := m.statusText(); status != "" {
		row += statusSeparator + status
	}
	lines = append(lines, m.truncate(row))

	if m.showFooter {
		lines = append(lines, m.truncate(styles.Footer.Render(m.help.View(m.keys))))
	}
	if m.height > 0 && len(lines) > m.height {
		lines = lines[:m.height]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) headerLine() string {
	title := styles.Header.Render(headerTitle)
	mode := styles.ModeContinue.Render(modeContinue)
	if m.controller.Settings().NewChat() {
		mode = styles.ModeNewChat.Render(modeNewChat)
	}
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(mode)
	if gap < 1 {
		return m.truncate(title + " " + mode)
	}
	return title + strings.Repeat(" ", gap) + mode
}

func (m *Model) inputBox() string {
	box := styles.InputBox
	switch {
	case m.controller.ErrorActive():
		box = styles.InputBoxError
	case m.controller.Busy():
		box = styles.InputBoxBusy
	}
	return box.Width(m.width).Render(m.field.View())
}

func (m *Model) buttonView() string {
	if m.controller.Busy() {
		return styles.ButtonBusy.Render(sendingLabel)
	}
	return styles.Button.Render(sendLabel)
}

func (m *Model) statusText() string {
	switch {
	case m.controller.ErrorActive():
		return styles.Error.Render("delivery failed: " + m.controller.ErrorText())
	case m.busLastErr != "":
		return styles.Error.Render(m.busLastErr)
	case m.history.Recalling():
		return styles.Info.Render("history")
	}
	return ""
}

func (m *Model) truncate(s string) string {
	if m.width <= 0 {
		return s
	}
	return ansi.Truncate(s, m.width, "…")
}

func (m *Model) handleMouseClickMsg(msg tea.Msg) tea.Cmd {
	click, ok := msg.(tea.MouseClickMsg)
	if !ok {
		return nil
	}
	mouse := click.Mouse()
	if mouse.Button != tea.MouseLeft || !m.sendButton.contains(mouse.X, mouse.Y) {
		return nil
	}
	cmd, err := m.controller.Submit()
	if err == nil {
		m.history.Reset()
	}
	return cmd
}
