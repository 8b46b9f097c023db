package events

import "github.com/atomicstack/chat-launcher/internal/logging"

type BusTracer struct{}

var Bus = BusTracer{}

func (BusTracer) Received(topic string) {
	logging.Trace("bus.event", map[string]interface{}{"topic": topic})
}

func (BusTracer) Error(err error) {
	logging.Trace("bus.error", map[string]interface{}{"error": errString(err)})
}

func (BusTracer) Ignored(topic, reason string) {
	logging.Trace("bus.ignored", map[string]interface{}{"topic": topic, "reason": reason})
}

func (BusTracer) Closed() {
	logging.Trace("bus.closed", nil)
}
