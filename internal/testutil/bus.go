package testutil

import (
	"encoding/json"

	"github.com/atomicstack/chat-launcher/internal/backend"
)

// FakeBus is an in-memory backend.EventBus.
type FakeBus struct {
	ch chan backend.Event
}

var _ backend.EventBus = (*FakeBus)(nil)

func NewFakeBus() *FakeBus {
	return &FakeBus{ch: make(chan backend.Event, 16)}
}

func (b *FakeBus) Events() <-chan backend.Event {
	return b.ch
}

// Publish queues an event with a JSON-encoded payload. A nil payload sends
// no payload at all.
func (b *FakeBus) Publish(topic backend.Topic, payload interface{}) {
	evt := backend.Event{Topic: topic}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			panic(err)
		}
		evt.Payload = data
	}
	b.ch <- evt
}

// PublishRaw queues an event with a literal payload.
func (b *FakeBus) PublishRaw(topic backend.Topic, payload string) {
	b.ch <- backend.Event{Topic: topic, Payload: json.RawMessage(payload)}
}

func (b *FakeBus) Close() {
	close(b.ch)
}
