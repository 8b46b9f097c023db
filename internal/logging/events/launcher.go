package events

import "github.com/atomicstack/chat-launcher/internal/logging"

type LauncherTracer struct{}

var Launcher = LauncherTracer{}

func (LauncherTracer) Hide() {
	logging.Trace("launcher.hide", nil)
}

func (LauncherTracer) Shown() {
	logging.Trace("launcher.shown", nil)
}

func (LauncherTracer) FocusScheduled(seq int) {
	logging.Trace("launcher.focus.schedule", map[string]interface{}{"seq": seq})
}

func (LauncherTracer) FocusFired(seq int, selectAll bool) {
	logging.Trace("launcher.focus.fire", map[string]interface{}{"seq": seq, "selectAll": selectAll})
}

func (LauncherTracer) DeliveryError(message string) {
	logging.Trace("launcher.delivery.error", map[string]interface{}{"message": message})
}

func (LauncherTracer) DeliveryErrorAborted(err error) {
	logging.Trace("launcher.delivery.abort", map[string]interface{}{"error": errString(err)})
}

func (LauncherTracer) DeliveryErrorCleared(seq int) {
	logging.Trace("launcher.delivery.clear", map[string]interface{}{"seq": seq})
}

func (LauncherTracer) KeyPanic(key string, recovered interface{}) {
	logging.Trace("launcher.key.panic", map[string]interface{}{"key": key, "panic": recovered})
}
