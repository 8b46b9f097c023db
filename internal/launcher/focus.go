package launcher

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/atomicstack/chat-launcher/internal/logging/events"
)

// FocusGained restarts the focus debounce. Only the newest timer acts.
func (c *Controller) FocusGained() tea.Cmd {
	c.hostFocused = true
	c.focusSeq++
	seq := c.focusSeq
	events.Launcher.FocusScheduled(seq)
	return tea.Tick(c.opts.FocusDelay, func(time.Time) tea.Msg {
		return FocusTimerMsg{Seq: seq}
	})
}

func (c *Controller) FocusLost() {
	c.hostFocused = false
}

// HandleFocusTimer focuses the field. The text is selected only when some is
// left unsubmitted and the host still has focus.
func (c *Controller) HandleFocusTimer(msg FocusTimerMsg) tea.Cmd {
	if msg.Seq != c.focusSeq {
		return nil
	}
	cmd := c.field.Focus()
	selectAll := c.hostFocused && c.field.Value() != ""
	if selectAll {
		c.field.SelectAll()
	}
	events.Launcher.FocusFired(msg.Seq, selectAll)
	return cmd
}
