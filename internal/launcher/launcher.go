// Package launcher holds the submission state machine behind the launcher
// input: validation, the single in-flight submission and its timeout race,
// restore-on-failure, the transient delivery-error affordance, focus debounce,
// and the cached new-chat settings.
//
// Every method is meant to be called from the Bubble Tea update loop. Work that
// suspends (backend calls, timers) is returned as a tea.Cmd whose result comes
// back as one of the exported *Msg types and must be handed to the matching
// Handle method.
package launcher

import (
	"errors"
	"fmt"
	"time"
)

const (
	// MaxMessageLength is the longest message, in runes, that may be submitted.
	MaxMessageLength = 5000

	// DefaultSubmitTimeout bounds a submission before the message is restored.
	DefaultSubmitTimeout = 10 * time.Second
	// DefaultFocusDelay debounces refocusing after the host window gains focus.
	DefaultFocusDelay = 100 * time.Millisecond
	// DefaultErrorDuration is how long a delivery error stays in the placeholder.
	DefaultErrorDuration = 2500 * time.Millisecond
	// DefaultSettingsTimeout bounds get_settings and save_settings calls.
	DefaultSettingsTimeout = 5 * time.Second
)

var (
	// ErrEmptyMessage rejects input that is empty after trimming whitespace.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrMessageTooLong rejects input longer than MaxMessageLength runes.
	ErrMessageTooLong = fmt.Errorf("message exceeds %d characters", MaxMessageLength)
	// ErrSubmitInFlight rejects a submit while another is unsettled.
	ErrSubmitInFlight = errors.New("a submission is already in flight")
)

// State is the submission state. There is exactly one per Controller.
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// FailureKind classifies how a submission failed.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureTransport
	FailureTimeout
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureTransport:
		return "transport"
	case FailureTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// Placeholders are the texts shown in the empty input.
type Placeholders struct {
	NewChat  string
	Continue string
	// DeliveryError is a format string receiving the backend error text.
	DeliveryError string
}

// DefaultPlaceholders returns the built-in placeholder texts.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		NewChat:       "Ask anything in a new conversation...",
		Continue:      "Continue the current conversation...",
		DeliveryError: "Message not delivered: %s",
	}
}

// Mode returns the placeholder for the given new-chat mode.
func (p Placeholders) Mode(newChat bool) string {
	if newChat {
		return p.NewChat
	}
	return p.Continue
}

// Error formats the delivery error placeholder for text.
func (p Placeholders) Error(text string) string {
	if p.DeliveryError == "" {
		return text
	}
	return fmt.Sprintf(p.DeliveryError, text)
}
