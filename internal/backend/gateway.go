package backend

import (
	"context"
	"encoding/json"
	"fmt"
)

// Gateway is the set of backend commands the launcher consumes. Every call may
// take arbitrarily long; callers are expected to bound them with ctx.
type Gateway interface {
	SubmitMessage(ctx context.Context, req SubmitRequest) error
	GetSettings(ctx context.Context) (Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error
	HideLauncher(ctx context.Context) error
	ShowLauncher(ctx context.Context) error
}

// SubmitRequest is a single message hand-off to the backend.
type SubmitRequest struct {
	ID      string `json:"-"`
	Message string `json:"message"`
	NewChat bool   `json:"new_chat"`
}

// Settings mirrors the backend settings store.
type Settings struct {
	NewChatDefault       bool `json:"new_chat_default"`
	NotificationsEnabled bool `json:"notifications_enabled"`
}

// DefaultSettings returns the values used before anything has been fetched.
func DefaultSettings() Settings {
	return Settings{NewChatDefault: true, NotificationsEnabled: true}
}

// UnmarshalJSON applies DefaultSettings to any field the payload omits.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw struct {
		NewChatDefault       *bool `json:"new_chat_default"`
		NotificationsEnabled *bool `json:"notifications_enabled"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = DefaultSettings()
	if raw.NewChatDefault != nil {
		s.NewChatDefault = *raw.NewChatDefault
	}
	if raw.NotificationsEnabled != nil {
		s.NotificationsEnabled = *raw.NotificationsEnabled
	}
	return nil
}

// CommandError reports a command the backend rejected.
type CommandError struct {
	Command string
	Status  int
	Message string
}

func (e *CommandError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend returned status %d", e.Command, e.Status)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Command, e.Message, e.Status)
}
