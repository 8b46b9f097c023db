package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func nextEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case evt, ok := <-ch:
		require.True(t, ok, "event channel closed early")
		return evt
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return Event{}
}

func TestStreamDeliversEventsAndRedials(t *testing.T) {
	var connections int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		ctx := context.Background()
		if atomic.AddInt32(&connections, 1) == 1 {
			_ = wsjson.Write(ctx, conn, map[string]interface{}{"event": "launcher-shown"})
			_ = wsjson.Write(ctx, conn, map[string]interface{}{"event": "response-complete", "payload": map[string]interface{}{}})
			_ = conn.Close(websocket.StatusGoingAway, "restart")
			return
		}
		_ = wsjson.Write(ctx, conn, map[string]interface{}{
			"event":   "settings-changed",
			"payload": map[string]interface{}{"new_chat_default": false},
		})
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	stream, err := Subscribe(context.Background(), wsURL(srv), nil, 10*time.Millisecond)
	require.NoError(t, err)

	evt := nextEvent(t, stream.Events())
	assert.Equal(t, TopicLauncherShown, evt.Topic)
	assert.NoError(t, evt.Err)

	evt = nextEvent(t, stream.Events())
	assert.Error(t, evt.Err, "unknown topic should surface as an error event")

	evt = nextEvent(t, stream.Events())
	require.Error(t, evt.Err)
	assert.Contains(t, evt.Err.Error(), "dropped")

	evt = nextEvent(t, stream.Events())
	assert.Equal(t, TopicSettingsChanged, evt.Topic)
	patch, err := DecodeSettingsPatch(evt.Payload)
	require.NoError(t, err)
	assert.False(t, patch.NewChatDefault)

	stream.Stop()
	stream.Wait()
	for range stream.Events() {
	}
}

func TestSubscribeFailsWhenBusUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := wsURL(srv)
	srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := Subscribe(ctx, url, nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscribe")
}

func TestThrottleStopsOnCancelledContext(t *testing.T) {
	th := newThrottle(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	assert.True(t, th.wait(ctx), "first slot is immediate")
	cancel()
	assert.False(t, th.wait(ctx))
}
