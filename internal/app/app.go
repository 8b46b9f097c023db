package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/atomicstack/chat-launcher/internal/backend"
	"github.com/atomicstack/chat-launcher/internal/launcher"
	"github.com/atomicstack/chat-launcher/internal/logging/events"
	"github.com/atomicstack/chat-launcher/internal/tmux"
	"github.com/atomicstack/chat-launcher/internal/ui"
)

// Config describes user-provided application options.
type Config struct {
	Command        string
	BackendURL     string
	EventsURL      string
	Token          string
	SubmitTimeout  time.Duration
	FocusDelay     time.Duration
	ErrorDuration  time.Duration
	CommandTimeout time.Duration
	HistorySize    int
	Width          int
	Height         int
	ShowFooter     bool
	SocketPath     string
}

// Sub-commands accepted as the first positional argument.
const (
	CommandRun      = "run"
	CommandSettings = "settings"
)

const subscribeTimeout = 5 * time.Second

// Run bootstraps and executes the Bubble Tea program selected by cfg.Command.
func Run(cfg Config) (err error) {
	defer func() { events.App.Exit(err) }()

	client := newClient(cfg)
	if cfg.Command == CommandSettings {
		return runProgram(ui.NewSettingsModel(client, cfg.CommandTimeout))
	}

	ctx, cancel := context.WithTimeout(context.Background(), subscribeTimeout)
	defer cancel()
	stream, err := backend.Subscribe(ctx, cfg.EventsURL, authHeader(cfg.Token), 0)
	if err != nil {
		return fmt.Errorf("connect event bus: %w", err)
	}
	defer func() {
		stream.Stop()
		stream.Wait()
	}()
	events.App.Subscribed(cfg.EventsURL)

	model := ui.NewModel(ui.Options{
		Gateway:        client,
		Bus:            stream,
		Width:          cfg.Width,
		Height:         cfg.Height,
		ShowFooter:     cfg.ShowFooter,
		HistorySize:    cfg.HistorySize,
		CommandTimeout: cfg.CommandTimeout,
		Launcher: launcher.Options{
			SubmitTimeout: cfg.SubmitTimeout,
			FocusDelay:    cfg.FocusDelay,
			ErrorDuration: cfg.ErrorDuration,
		},
	})
	defer model.Controller().Close()
	return runProgram(model)
}

func runProgram(model tea.Model) error {
	program := tea.NewProgram(model)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// newClient builds the command gateway. Inside tmux the launching client's
// name rides along with each request so the backend can address it.
func newClient(cfg Config) *backend.Client {
	client := backend.NewClient(cfg.BackendURL, cfg.Token, nil)
	if !tmux.Inside() {
		return client
	}
	socket, err := tmux.ResolveSocketPath(cfg.SocketPath)
	if err != nil {
		return client
	}
	client.SetLauncherClient(tmux.CurrentClientID(socket))
	return client
}

func authHeader(token string) http.Header {
	if token == "" {
		return nil
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}
