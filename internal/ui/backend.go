package ui

import (
	tea "charm.land/bubbletea/v2"
	"github.com/atomicstack/chat-launcher/internal/backend"
	"github.com/atomicstack/chat-launcher/internal/logging/events"
)

func waitForBusEvent(bus backend.EventBus) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-bus.Events()
		if !ok {
			return busDoneMsg{}
		}
		return busEventMsg{event: evt}
	}
}

type busEventMsg struct {
	event backend.Event
}

type busDoneMsg struct{}

func (m *Model) handleBusEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(busEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBusEvent(eventMsg.event)
	if m.bus != nil {
		waitCmd := waitForBusEvent(m.bus)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBusDoneMsg(msg tea.Msg) tea.Cmd {
	events.Bus.Closed()
	m.bus = nil
	return nil
}

func (m *Model) applyBusEvent(evt backend.Event) tea.Cmd {
	res := m.dispatcher.Handle(evt)
	if evt.Err != nil {
		m.busLastErr = evt.Err.Error()
		return nil
	}
	if evt.Topic.Known() {
		m.busLastErr = ""
	}
	if evt.Topic == backend.TopicLauncherShown {
		m.history.Reset()
	}
	return res.Cmd
}
