package launcher

import (
	"context"
	"encoding/json"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/atomicstack/chat-launcher/internal/backend"
	"github.com/atomicstack/chat-launcher/internal/logging"
	"github.com/atomicstack/chat-launcher/internal/logging/events"
	"github.com/atomicstack/chat-launcher/internal/ui/command"
)

// SettingsSync caches the backend settings and owns the new-chat mode.
//
// The mode starts from the settings default and is then written by the user
// toggle, a settings-changed push, or a reload. The last writer wins.
type SettingsSync struct {
	gw  backend.Gateway
	bus *command.Bus

	current backend.Settings
	newChat bool
	loaded  bool
	loadSeq int

	listeners []func(newChat bool)
}

// NewSettingsSync starts from DefaultSettings. A nil bus gets the default
// command timeout.
func NewSettingsSync(gw backend.Gateway, bus *command.Bus) *SettingsSync {
	if bus == nil {
		bus = command.New(DefaultSettingsTimeout)
	}
	defaults := backend.DefaultSettings()
	return &SettingsSync{
		gw:      gw,
		bus:     bus,
		current: defaults,
		newChat: defaults.NewChatDefault,
	}
}

// NewChat reports the current new-chat mode.
func (s *SettingsSync) NewChat() bool {
	return s.newChat
}

// Settings returns the last known backend settings.
func (s *SettingsSync) Settings() backend.Settings {
	return s.current
}

// Loaded reports whether a fetch has ever succeeded.
func (s *SettingsSync) Loaded() bool {
	return s.loaded
}

// OnChange registers fn to run synchronously whenever the mode is written.
func (s *SettingsSync) OnChange(fn func(newChat bool)) {
	if fn != nil {
		s.listeners = append(s.listeners, fn)
	}
}

// Load fetches the settings. Only the most recent load is applied.
func (s *SettingsSync) Load() tea.Cmd {
	s.loadSeq++
	seq := s.loadSeq
	events.Settings.Load(seq)
	gw := s.gw
	return s.bus.Execute(command.Request{
		Name: "get_settings",
		Run: func(ctx context.Context) tea.Msg {
			if gw == nil {
				return SettingsLoadedMsg{Seq: seq, Err: fmt.Errorf("get settings: no gateway")}
			}
			settings, err := gw.GetSettings(ctx)
			return SettingsLoadedMsg{Seq: seq, Settings: settings, Err: err}
		},
	})
}

// HandleLoaded applies a fetch result. Failures keep the previous values.
func (s *SettingsSync) HandleLoaded(msg SettingsLoadedMsg) {
	if msg.Seq != s.loadSeq {
		return
	}
	if msg.Err != nil {
		logging.Error(fmt.Errorf("load settings: %w", msg.Err))
		events.Settings.LoadFailed(msg.Err)
		return
	}
	s.current = msg.Settings
	s.loaded = true
	events.Settings.Loaded(msg.Settings.NewChatDefault, msg.Settings.NotificationsEnabled)
	s.setNewChat(msg.Settings.NewChatDefault)
}

// ApplyPush applies a settings-changed payload. A malformed payload changes
// nothing and is returned as an error wrapping backend.ErrMalformedPayload.
func (s *SettingsSync) ApplyPush(payload json.RawMessage) error {
	patch, err := backend.DecodeSettingsPatch(payload)
	if err != nil {
		logging.Error(err)
		events.Settings.PushRejected(err)
		return err
	}
	s.current.NewChatDefault = patch.NewChatDefault
	if patch.NotificationsEnabled != nil {
		s.current.NotificationsEnabled = *patch.NotificationsEnabled
	}
	events.Settings.Push(patch.NewChatDefault)
	s.setNewChat(patch.NewChatDefault)
	return nil
}

// Toggle flips the new-chat mode locally. It does not persist anything.
func (s *SettingsSync) Toggle() bool {
	s.setNewChat(!s.newChat)
	events.Settings.Toggle(s.newChat)
	return s.newChat
}

// Save persists settings through save_settings. The cache is updated
// immediately; a failed save is reported in SettingsSavedMsg and logged by
// HandleSaved.
func (s *SettingsSync) Save(settings backend.Settings) tea.Cmd {
	s.current = settings
	events.Settings.Save(settings.NewChatDefault, settings.NotificationsEnabled)
	gw := s.gw
	return s.bus.Execute(command.Request{
		Name: "save_settings",
		Run: func(ctx context.Context) tea.Msg {
			if gw == nil {
				return SettingsSavedMsg{Settings: settings, Err: fmt.Errorf("save settings: no gateway")}
			}
			return SettingsSavedMsg{Settings: settings, Err: gw.SaveSettings(ctx, settings)}
		},
	})
}

func (s *SettingsSync) HandleSaved(msg SettingsSavedMsg) {
	if msg.Err != nil {
		logging.Error(fmt.Errorf("save settings: %w", msg.Err))
	}
}

func (s *SettingsSync) setNewChat(v bool) {
	s.newChat = v
	for _, fn := range s.listeners {
		fn(v)
	}
}
