package ui

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// DefaultCmdTimeout is how long the harness waits on a single command.
// Commands that take longer (cursor blinks, long timers, blocked bus reads)
// are abandoned.
const DefaultCmdTimeout = 250 * time.Millisecond

// Harness drives a model programmatically for integration tests.
type Harness struct {
	model      tea.Model
	CmdTimeout time.Duration
}

// NewHarness creates a harness for the provided model.
func NewHarness(model tea.Model) *Harness {
	return &Harness{model: model, CmdTimeout: DefaultCmdTimeout}
}

// Init runs the model's Init commands.
func (h *Harness) Init() {
	if h.model == nil {
		return
	}
	h.processCmd(h.model.Init())
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	h.model = mdl
	h.processCmd(cmd)
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg, ok := h.run(cmd)
	if !ok || msg == nil {
		return
	}
	switch msg := msg.(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.processCmd(c)
		}
	case tea.QuitMsg:
	default:
		h.Send(msg)
	}
}

func (h *Harness) run(cmd tea.Cmd) (tea.Msg, bool) {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	timeout := h.CmdTimeout
	if timeout <= 0 {
		timeout = DefaultCmdTimeout
	}
	select {
	case msg := <-done:
		return msg, true
	case <-time.After(timeout):
		return nil, false
	}
}

// View returns the current view content.
func (h *Harness) View() string {
	switch m := h.model.(type) {
	case *Model:
		return m.render()
	case *SettingsModel:
		return m.render()
	}
	return ""
}

// Model exposes the underlying launcher model, or nil when the harness
// drives another model.
func (h *Harness) Model() *Model {
	m, _ := h.model.(*Model)
	return m
}
