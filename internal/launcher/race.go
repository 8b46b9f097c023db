package launcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/atomicstack/chat-launcher/internal/backend"
)

// race runs call against a deadline. Whichever settles first decides the
// result; a late call result is dropped on the buffered channel.
func race(parent context.Context, timeout time.Duration, call func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("gateway panic: %v", r)
			}
		}()
		done <- call(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("no response after %s: %w", timeout, ctx.Err())
		}
		return fmt.Errorf("submission cancelled: %w", ctx.Err())
	}
}

func classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	default:
		return FailureTransport
	}
}

func submitCmd(parent context.Context, gw backend.Gateway, req backend.SubmitRequest, seq int, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		started := time.Now()
		err := race(parent, timeout, func(ctx context.Context) error {
			if gw == nil {
				return errors.New("no gateway")
			}
			return gw.SubmitMessage(ctx, req)
		})
		return SubmitResultMsg{
			Seq:       seq,
			RequestID: req.ID,
			Failure:   classify(err),
			Err:       err,
			Elapsed:   time.Since(started),
		}
	}
}
