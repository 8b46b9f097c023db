package command

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/atomicstack/chat-launcher/internal/logging/events"
)

// DefaultTimeout bounds backend commands that do not set their own.
const DefaultTimeout = 5 * time.Second

// Request encapsulates one backend command invocation.
type Request struct {
	Name    string
	Timeout time.Duration
	Run     func(ctx context.Context) tea.Msg
}

// Bus coordinates the execution of backend commands.
type Bus struct {
	timeout time.Duration
}

// New initialises a command bus. A non-positive timeout selects DefaultTimeout.
func New(timeout time.Duration) *Bus {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bus{timeout: timeout}
}

// Execute wraps a backend call into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.Name)
	return func() tea.Msg {
		if req.Run == nil {
			events.Command.Skip(req.Name)
			return nil
		}
		timeout := req.Timeout
		if timeout <= 0 {
			timeout = b.Timeout()
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		msg := req.Run(ctx)
		events.Command.Result(req.Name, fmt.Sprintf("%T", msg))
		return msg
	}
}

// Timeout reports the default deadline applied to requests.
func (b *Bus) Timeout() time.Duration {
	if b == nil || b.timeout <= 0 {
		return DefaultTimeout
	}
	return b.timeout
}
