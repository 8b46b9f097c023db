package events

import "github.com/atomicstack/chat-launcher/internal/logging"

type CommandTracer struct{}

type HistoryTracer struct{}

var (
	Command = CommandTracer{}
	History = HistoryTracer{}
)

func (CommandTracer) Queue(name string) {
	logging.Trace("command.queue", map[string]interface{}{"command": name})
}

func (CommandTracer) Skip(name string) {
	logging.Trace("command.skip", map[string]interface{}{"command": name})
}

func (CommandTracer) Result(name, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"command": name, "msg": msgType})
}

func (HistoryTracer) Recall(direction string, index int) {
	logging.Trace("history.recall", map[string]interface{}{"direction": direction, "index": index})
}

func (HistoryTracer) Search(query string, found bool) {
	logging.Trace("history.search", map[string]interface{}{"query": query, "found": found})
}
