package events

import (
	"time"

	"github.com/atomicstack/chat-launcher/internal/logging"
)

type SubmitTracer struct{}

type submitReason string

const (
	SubmitReasonEmpty    submitReason = "empty"
	SubmitReasonTooLong  submitReason = "too-long"
	SubmitReasonInFlight submitReason = "in-flight"
)

var Submit = SubmitTracer{}

func (SubmitTracer) Rejected(reason submitReason, length int) {
	logging.Trace("submit.rejected", map[string]interface{}{"reason": string(reason), "length": length})
}

func (SubmitTracer) Dispatch(id string, length int, newChat bool) {
	logging.Trace("submit.dispatch", map[string]interface{}{"id": id, "length": length, "newChat": newChat})
}

func (SubmitTracer) Success(id string, elapsed time.Duration) {
	logging.Trace("submit.success", map[string]interface{}{"id": id, "elapsedMs": elapsed.Milliseconds()})
}

func (SubmitTracer) Failure(id, kind string, elapsed time.Duration, err error) {
	payload := map[string]interface{}{"id": id, "kind": kind, "elapsedMs": elapsed.Milliseconds()}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("submit.failure", payload)
}

func (SubmitTracer) Stale(id string, seq int) {
	logging.Trace("submit.stale", map[string]interface{}{"id": id, "seq": seq})
}
