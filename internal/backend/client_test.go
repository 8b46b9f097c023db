package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	path    string
	body    map[string]interface{}
	headers http.Header
}

func newCommandServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *[]recordedCall) {
	t.Helper()
	calls := &[]recordedCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(data, &body)
		*calls = append(*calls, recordedCall{path: r.URL.Path, body: body, headers: r.Header.Clone()})
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, calls
}

func TestClientSubmitMessageSendsArgumentsAndHeaders(t *testing.T) {
	srv, calls := newCommandServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c := NewClient(srv.URL+"/", "secret", nil)
	c.SetLauncherClient("/dev/pts/3")

	err := c.SubmitMessage(context.Background(), SubmitRequest{ID: "req-1", Message: "hello", NewChat: true})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "/commands/submit_message", call.path)
	assert.Equal(t, "hello", call.body["message"])
	assert.Equal(t, true, call.body["new_chat"])
	assert.NotContains(t, call.body, "ID")
	assert.Equal(t, "Bearer secret", call.headers.Get("Authorization"))
	assert.Equal(t, "req-1", call.headers.Get("X-Request-Id"))
	assert.Equal(t, "/dev/pts/3", call.headers.Get("X-Launcher-Client"))
}

func TestClientGetSettingsDefaultsMissingFields(t *testing.T) {
	srv, _ := newCommandServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"new_chat_default": false}`)
	})
	c := NewClient(srv.URL, "", nil)

	settings, err := c.GetSettings(context.Background())
	require.NoError(t, err)
	assert.False(t, settings.NewChatDefault)
	assert.True(t, settings.NotificationsEnabled)
}

func TestClientGetSettingsEmptyBodyUsesDefaults(t *testing.T) {
	srv, _ := newCommandServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	c := NewClient(srv.URL, "", nil)

	settings, err := c.GetSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
}

func TestClientSaveSettingsWrapsPayload(t *testing.T) {
	srv, calls := newCommandServer(t, func(w http.ResponseWriter, r *http.Request) {})
	c := NewClient(srv.URL, "", nil)

	err := c.SaveSettings(context.Background(), Settings{NewChatDefault: false, NotificationsEnabled: true})
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	assert.Equal(t, "/commands/save_settings", (*calls)[0].path)
	inner, ok := (*calls)[0].body["settings"].(map[string]interface{})
	require.True(t, ok, "expected nested settings object, got %#v", (*calls)[0].body)
	assert.Equal(t, false, inner["new_chat_default"])
	assert.Equal(t, true, inner["notifications_enabled"])
}

func TestClientCommandErrorCarriesBackendMessage(t *testing.T) {
	srv, _ := newCommandServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, `{"error":"main window missing"}`)
	})
	c := NewClient(srv.URL, "", nil)

	err := c.ShowLauncher(context.Background())
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "show_launcher", cmdErr.Command)
	assert.Equal(t, http.StatusBadGateway, cmdErr.Status)
	assert.Equal(t, "main window missing", cmdErr.Message)
}

func TestClientCommandErrorFallsBackToRawBody(t *testing.T) {
	srv, _ := newCommandServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})
	c := NewClient(srv.URL, "", nil)

	err := c.HideLauncher(context.Background())
	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "nope", cmdErr.Message)
}

func TestClientHonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv, _ := newCommandServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	c := NewClient(srv.URL, "", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.SubmitMessage(ctx, SubmitRequest{Message: "slow"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}
