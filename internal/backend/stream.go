package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// DefaultRedialInterval spaces reconnect attempts after the bus drops.
const DefaultRedialInterval = 1500 * time.Millisecond

// envelope is one websocket frame from the backend.
type envelope struct {
	Event   Topic           `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Stream subscribes to backend pushes over a websocket and republishes them
// on a channel in the order they arrive.
type Stream struct {
	url      string
	header   http.Header
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

var _ EventBus = (*Stream)(nil)

// Subscribe dials the event endpoint once before returning so an unreachable
// bus surfaces at startup. Later disconnects are reported as error events and
// redialled in the background.
func Subscribe(ctx context.Context, url string, header http.Header, interval time.Duration) (*Stream, error) {
	if interval <= 0 {
		interval = DefaultRedialInterval
	}
	streamCtx, cancel := context.WithCancel(context.Background())
	s := &Stream{
		url:      url,
		header:   header,
		interval: interval,
		ctx:      streamCtx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}
	conn, err := s.dial(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe %s: %w", url, err)
	}

	s.wg.Add(1)
	go s.run(conn)

	go func() {
		s.wg.Wait()
		close(s.events)
	}()

	return s, nil
}

// Events returns the channel of backend events. It closes after Stop.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Stop cancels the subscription. The reader exits after its current frame;
// use Wait if a clean drain is required (e.g. in tests).
func (s *Stream) Stop() {
	s.cancel()
}

// Wait blocks until the reader goroutine has exited and the events channel is
// closed.
func (s *Stream) Wait() {
	s.wg.Wait()
}

func (s *Stream) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, s.url, &websocket.DialOptions{HTTPHeader: s.header})
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *Stream) run(conn *websocket.Conn) {
	defer s.wg.Done()
	redial := newThrottle(s.interval)
	for {
		err := s.read(conn)
		_ = conn.Close(websocket.StatusNormalClosure, "")
		if s.ctx.Err() != nil {
			return
		}
		if !s.emit(Event{Err: fmt.Errorf("event stream dropped: %w", err)}) {
			return
		}
		conn = nil
		for conn == nil {
			if !redial.wait(s.ctx) {
				return
			}
			conn, err = s.dial(s.ctx)
			if err != nil {
				if s.ctx.Err() != nil {
					return
				}
				if !s.emit(Event{Err: fmt.Errorf("redial %s: %w", s.url, err)}) {
					return
				}
			}
		}
	}
}

func (s *Stream) read(conn *websocket.Conn) error {
	for {
		var frame envelope
		if err := wsjson.Read(s.ctx, conn, &frame); err != nil {
			return err
		}
		evt := Event{Topic: frame.Event, Payload: frame.Payload}
		if !frame.Event.Known() {
			evt.Err = fmt.Errorf("unknown event topic %q", frame.Event)
		}
		if !s.emit(evt) {
			return s.ctx.Err()
		}
	}
}

func (s *Stream) emit(evt Event) bool {
	select {
	case <-s.ctx.Done():
		return false
	case s.events <- evt:
		return true
	}
}
