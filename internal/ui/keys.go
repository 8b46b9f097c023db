package ui

import (
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/atomicstack/chat-launcher/internal/launcher"
	"github.com/atomicstack/chat-launcher/internal/logging/events"
)

type keyMap struct {
	launcher launcher.KeyMap
	Previous key.Binding
	Next     key.Binding
	Recall   key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		launcher: launcher.DefaultKeyMap(),
		Previous: key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "history")),
		Next:     key.NewBinding(key.WithKeys("down")),
		Recall:   key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "recall")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return append(k.launcher.ShortHelp(), k.Previous, k.Recall, k.Quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	if key.Matches(keyMsg, m.keys.Quit) {
		m.controller.Close()
		return tea.Quit
	}
	if handled, cmd := m.controller.HandleKey(keyMsg); handled {
		if m.controller.Busy() {
			m.history.Reset()
		}
		return cmd
	}
	switch {
	case key.Matches(keyMsg, m.keys.Previous):
		if text, ok := m.history.Previous(); ok {
			m.field.SetValue(text)
			events.History.Recall("previous", m.history.Position())
		}
		return nil
	case key.Matches(keyMsg, m.keys.Next):
		if text, ok := m.history.Next(); ok {
			m.field.SetValue(text)
			events.History.Recall("next", m.history.Position())
		}
		return nil
	case key.Matches(keyMsg, m.keys.Recall):
		query := m.field.Value()
		text, found := m.history.BestMatch(query)
		events.History.Search(query, found)
		if found {
			m.field.SetValue(text)
		}
		return nil
	}
	before := m.field.Value()
	cmd := m.field.Update(keyMsg)
	if m.field.Value() != before {
		m.history.Reset()
	}
	return cmd
}
