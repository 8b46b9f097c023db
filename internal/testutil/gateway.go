package testutil

import (
	"context"
	"sync"

	"github.com/atomicstack/chat-launcher/internal/backend"
)

// FakeGateway records backend commands and answers them from its fields.
// Hooks, when set, replace the canned answers.
type FakeGateway struct {
	mu sync.Mutex

	SettingsValue backend.Settings
	SubmitErr     error
	SettingsErr   error
	SaveErr       error
	HideErr       error
	ShowErr       error

	SubmitHook func(ctx context.Context, req backend.SubmitRequest) error

	submitted []backend.SubmitRequest
	saved     []backend.Settings
	gets      int
	hides     int
	shows     int
}

var _ backend.Gateway = (*FakeGateway)(nil)

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{SettingsValue: backend.DefaultSettings()}
}

// BlockSubmits makes every submission ignore its context and wait until
// release is closed.
func (g *FakeGateway) BlockSubmits(release <-chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.SubmitHook = func(ctx context.Context, req backend.SubmitRequest) error {
		<-release
		return nil
	}
}

func (g *FakeGateway) SubmitMessage(ctx context.Context, req backend.SubmitRequest) error {
	g.mu.Lock()
	g.submitted = append(g.submitted, req)
	hook, err := g.SubmitHook, g.SubmitErr
	g.mu.Unlock()
	if hook != nil {
		return hook(ctx, req)
	}
	return err
}

func (g *FakeGateway) GetSettings(ctx context.Context) (backend.Settings, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gets++
	if g.SettingsErr != nil {
		return backend.Settings{}, g.SettingsErr
	}
	return g.SettingsValue, nil
}

func (g *FakeGateway) SaveSettings(ctx context.Context, settings backend.Settings) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.saved = append(g.saved, settings)
	return g.SaveErr
}

func (g *FakeGateway) HideLauncher(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hides++
	return g.HideErr
}

func (g *FakeGateway) ShowLauncher(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.shows++
	return g.ShowErr
}

func (g *FakeGateway) Submitted() []backend.SubmitRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]backend.SubmitRequest(nil), g.submitted...)
}

func (g *FakeGateway) Saved() []backend.Settings {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]backend.Settings(nil), g.saved...)
}

func (g *FakeGateway) GetCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.gets
}

func (g *FakeGateway) HideCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.hides
}

func (g *FakeGateway) ShowCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.shows
}
