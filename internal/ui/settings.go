package ui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/atomicstack/chat-launcher/internal/backend"
	"github.com/atomicstack/chat-launcher/internal/launcher"
	"github.com/atomicstack/chat-launcher/internal/ui/command"
)

type settingsOption struct {
	label string
	get   func(backend.Settings) bool
	set   func(*backend.Settings, bool)
}

var settingsOptions = []settingsOption{
	{
		label: "Start a new chat by default",
		get:   func(s backend.Settings) bool { return s.NewChatDefault },
		set:   func(s *backend.Settings, v bool) { s.NewChatDefault = v },
	},
	{
		label: "Show notifications",
		get:   func(s backend.Settings) bool { return s.NotificationsEnabled },
		set:   func(s *backend.Settings, v bool) { s.NotificationsEnabled = v },
	},
}

type settingsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

// SettingsModel is the settings page: one toggle per option, each change
// saved immediately.
type SettingsModel struct {
	sync   *launcher.SettingsSync
	cursor int
	keys   settingsKeyMap
	width  int
	errMsg string
}

func NewSettingsModel(gw backend.Gateway, timeout time.Duration) *SettingsModel {
	return &SettingsModel{
		sync: launcher.NewSettingsSync(gw, command.New(timeout)),
		keys: settingsKeyMap{
			Up:     key.NewBinding(key.WithKeys("up", "k")),
			Down:   key.NewBinding(key.WithKeys("down", "j")),
			Toggle: key.NewBinding(key.WithKeys("space", "enter", "x")),
			Quit:   key.NewBinding(key.WithKeys("esc", "q", "ctrl+c")),
		},
	}
}

func (m *SettingsModel) Init() tea.Cmd {
	return m.sync.Load()
}

func (m *SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case launcher.SettingsLoadedMsg:
		m.sync.HandleLoaded(msg)
		m.errMsg = ""
		if msg.Err != nil {
			m.errMsg = "could not load settings, showing defaults"
		}
	case launcher.SettingsSavedMsg:
		m.sync.HandleSaved(msg)
		m.errMsg = ""
		if msg.Err != nil {
			m.errMsg = "could not save settings"
		}
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(settingsOptions)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			return m, m.toggle(m.cursor)
		}
	}
	return m, nil
}

func (m *SettingsModel) toggle(idx int) tea.Cmd {
	if idx < 0 || idx >= len(settingsOptions) {
		return nil
	}
	opt := settingsOptions[idx]
	next := m.sync.Settings()
	opt.set(&next, !opt.get(next))
	return m.sync.Save(next)
}

func (m *SettingsModel) Settings() backend.Settings {
	return m.sync.Settings()
}

func (m *SettingsModel) View() tea.View {
	return tea.NewView(m.render())
}

func (m *SettingsModel) render() string {
	var b strings.Builder
	b.WriteString(styles.Header.Render("chat launcher settings"))
	b.WriteString("\n\n")
	current := m.sync.Settings()
	for i, opt := range settingsOptions {
		mark := "[ ]"
		if opt.get(current) {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, opt.label)
		if i == m.cursor {
			b.WriteString(styles.SettingsIndicator.Render("▌"))
			b.WriteString(styles.SettingsSelected.Render(line))
		} else {
			b.WriteString(" ")
			b.WriteString(styles.SettingsItem.Render(line))
		}
		b.WriteString("\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(styles.Error.Render(m.errMsg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.Footer.Render("↑/↓ move · space toggle · esc close"))
	return b.String()
}
