package backend

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Topic names a push event emitted by the backend.
type Topic string

const (
	TopicLauncherShown   Topic = "launcher-shown"
	TopicSettingsChanged Topic = "settings-changed"
	TopicInjectResult    Topic = "inject-result"
)

// Known reports whether t is a topic the launcher understands.
func (t Topic) Known() bool {
	switch t {
	case TopicLauncherShown, TopicSettingsChanged, TopicInjectResult:
		return true
	}
	return false
}

// Event conveys one push from the backend, or an error observed by the bus.
type Event struct {
	Topic   Topic
	Payload json.RawMessage
	Err     error
}

// EventBus delivers backend pushes in emission order.
type EventBus interface {
	Events() <-chan Event
}

// ErrMalformedPayload marks a push whose payload does not match its topic.
var ErrMalformedPayload = errors.New("malformed event payload")

// SettingsPatch is the validated payload of a settings-changed push.
type SettingsPatch struct {
	NewChatDefault       bool
	NotificationsEnabled *bool
}

// InjectResult is the payload of an inject-result push.
type InjectResult struct {
	Success bool
	Error   string
}

// DecodeSettingsPatch validates a settings-changed payload. new_chat_default
// must be present and boolean; notifications_enabled, when present, must be
// boolean too. Anything else rejects the whole payload.
func DecodeSettingsPatch(raw json.RawMessage) (SettingsPatch, error) {
	fields, err := decodeObject(TopicSettingsChanged, raw)
	if err != nil {
		return SettingsPatch{}, err
	}
	newChat, err := boolField(TopicSettingsChanged, fields, "new_chat_default", true)
	if err != nil {
		return SettingsPatch{}, err
	}
	patch := SettingsPatch{NewChatDefault: *newChat}
	notify, err := boolField(TopicSettingsChanged, fields, "notifications_enabled", false)
	if err != nil {
		return SettingsPatch{}, err
	}
	patch.NotificationsEnabled = notify
	return patch, nil
}

// DecodeInjectResult validates an inject-result payload.
func DecodeInjectResult(raw json.RawMessage) (InjectResult, error) {
	fields, err := decodeObject(TopicInjectResult, raw)
	if err != nil {
		return InjectResult{}, err
	}
	success, err := boolField(TopicInjectResult, fields, "success", true)
	if err != nil {
		return InjectResult{}, err
	}
	result := InjectResult{Success: *success}
	switch v := fields["error"].(type) {
	case nil:
	case string:
		result.Error = v
	default:
		return InjectResult{}, fmt.Errorf("%s: %w: error is %T, want string", TopicInjectResult, ErrMalformedPayload, v)
	}
	return result, nil
}

func decodeObject(topic Topic, raw json.RawMessage) (map[string]interface{}, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: %w: empty payload", topic, ErrMalformedPayload)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", topic, ErrMalformedPayload, err)
	}
	if fields == nil {
		return nil, fmt.Errorf("%s: %w: payload is null", topic, ErrMalformedPayload)
	}
	return fields, nil
}

func boolField(topic Topic, fields map[string]interface{}, name string, required bool) (*bool, error) {
	v, ok := fields[name]
	if !ok {
		if required {
			return nil, fmt.Errorf("%s: %w: missing %s", topic, ErrMalformedPayload, name)
		}
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s is %T, want bool", topic, ErrMalformedPayload, name, v)
	}
	return &b, nil
}
