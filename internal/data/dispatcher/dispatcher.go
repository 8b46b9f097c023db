package dispatcher

import (
	tea "charm.land/bubbletea/v2"
	"github.com/atomicstack/chat-launcher/internal/backend"
	"github.com/atomicstack/chat-launcher/internal/launcher"
	"github.com/atomicstack/chat-launcher/internal/logging"
	"github.com/atomicstack/chat-launcher/internal/logging/events"
)

// Result describes what a bus event did.
type Result struct {
	Topic   backend.Topic
	Cmd     tea.Cmd
	Applied bool
	Err     error
}

// Dispatcher routes bus events to the controller and its settings.
type Dispatcher struct {
	controller *launcher.Controller
}

func New(c *launcher.Controller) *Dispatcher {
	return &Dispatcher{controller: c}
}

// Handle reacts to one event synchronously. Bus errors and malformed payloads
// are logged and otherwise ignored.
func (d *Dispatcher) Handle(evt backend.Event) Result {
	res := Result{Topic: evt.Topic}
	if evt.Err != nil {
		logging.Error(evt.Err)
		events.Bus.Error(evt.Err)
		res.Err = evt.Err
		return res
	}
	events.Bus.Received(string(evt.Topic))
	if d.controller == nil {
		return res
	}

	switch evt.Topic {
	case backend.TopicLauncherShown:
		res.Cmd = d.controller.LauncherShown()
		res.Applied = true
	case backend.TopicSettingsChanged:
		if err := d.controller.Settings().ApplyPush(evt.Payload); err != nil {
			res.Err = err
			return res
		}
		res.Applied = true
	case backend.TopicInjectResult:
		result, err := backend.DecodeInjectResult(evt.Payload)
		if err != nil {
			logging.Error(err)
			events.Bus.Ignored(string(evt.Topic), err.Error())
			res.Err = err
			return res
		}
		if result.Success || result.Error == "" {
			events.Bus.Ignored(string(evt.Topic), "no delivery error")
			return res
		}
		res.Cmd = d.controller.ShowDeliveryError(result.Error)
		res.Applied = true
	default:
		events.Bus.Ignored(string(evt.Topic), "unknown topic")
	}
	return res
}
