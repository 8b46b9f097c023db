package tmux

import (
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/chat-launcher/internal/testutil"
	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

type fakeClient struct {
	name       string
	displayErr error
	clients    []*gotmux.Client
	closed     bool
}

func (f *fakeClient) DisplayMessage(target, format string) (string, error) {
	return f.name, f.displayErr
}

func (f *fakeClient) ListClients() ([]*gotmux.Client, error) {
	return f.clients, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func withFakeClient(t *testing.T, fake *fakeClient) {
	t.Helper()
	orig := newTmux
	newTmux = func(string) (tmuxClient, error) { return fake, nil }
	t.Cleanup(func() { newTmux = orig })
}

func TestCurrentClientIDReturnsVisibleClient(t *testing.T) {
	fake := &fakeClient{
		name: "/dev/pts/4\n",
		clients: []*gotmux.Client{
			{Name: "client-1", ControlMode: true},
			{Name: "/dev/pts/4", Session: "work"},
		},
	}
	withFakeClient(t, fake)

	if got := CurrentClientID(""); got != "/dev/pts/4" {
		t.Fatalf("expected /dev/pts/4, got %q", got)
	}
	if !fake.closed {
		t.Fatalf("expected client to be closed")
	}
}

func TestCurrentClientIDIgnoresControlModeClient(t *testing.T) {
	withFakeClient(t, &fakeClient{
		name:    "client-1",
		clients: []*gotmux.Client{{Name: "client-1", ControlMode: true}},
	})
	if got := CurrentClientID(""); got != "" {
		t.Fatalf("expected empty client id, got %q", got)
	}
}

func TestCurrentClientIDDisplayError(t *testing.T) {
	withFakeClient(t, &fakeClient{displayErr: errors.New("no current client")})
	if got := CurrentClientID(""); got != "" {
		t.Fatalf("expected empty client id, got %q", got)
	}
}

func TestResolveSocketPathPrecedence(t *testing.T) {
	t.Setenv(EnvSocket, "/tmp/env.sock")
	t.Setenv("TMUX", "/tmp/tmux.sock,123,0")
	if got, _ := ResolveSocketPath("/tmp/flag.sock"); got != "/tmp/flag.sock" {
		t.Fatalf("flag should win, got %q", got)
	}
	if got, _ := ResolveSocketPath(""); got != "/tmp/env.sock" {
		t.Fatalf("env override should win, got %q", got)
	}
	t.Setenv(EnvSocket, "")
	if got, _ := ResolveSocketPath(""); got != "/tmp/tmux.sock" {
		t.Fatalf("expected socket from $TMUX, got %q", got)
	}
	t.Setenv("TMUX", "")
	t.Setenv("TMUX_TMPDIR", "/var/run/tmux")
	got, err := ResolveSocketPath("")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if filepath.Dir(filepath.Dir(got)) != "/var/run/tmux" || filepath.Base(got) != "default" {
		t.Fatalf("unexpected default socket %q", got)
	}
}

func TestCurrentClientIDSkipsControlModeClientsIntegration(t *testing.T) {
	socket, cleanup, logDir := testutil.StartTmuxServer(t)
	defer cleanup()
	t.Cleanup(func() { testutil.AssertNoServerCrash(t, logDir) })

	paneOut, err := exec.Command("tmux", "-S", socket, "display-message", "-t", testutil.TmuxTestSession, "-p", "#{pane_id}").Output()
	if err != nil {
		t.Fatalf("get pane id: %v", err)
	}
	t.Setenv("TMUX_PANE", strings.TrimSpace(string(paneOut)))

	// Only control-mode clients exist on the test server.
	if got := CurrentClientID(socket); got != "" {
		t.Errorf("expected empty client id, got %q", got)
	}
}
