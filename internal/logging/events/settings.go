package events

import "github.com/atomicstack/chat-launcher/internal/logging"

type SettingsTracer struct{}

var Settings = SettingsTracer{}

func (SettingsTracer) Load(seq int) {
	logging.Trace("settings.load", map[string]interface{}{"seq": seq})
}

func (SettingsTracer) Loaded(newChatDefault, notifications bool) {
	logging.Trace("settings.loaded", map[string]interface{}{"newChatDefault": newChatDefault, "notifications": notifications})
}

func (SettingsTracer) LoadFailed(err error) {
	logging.Trace("settings.load.error", map[string]interface{}{"error": errString(err)})
}

func (SettingsTracer) Push(newChatDefault bool) {
	logging.Trace("settings.push", map[string]interface{}{"newChatDefault": newChatDefault})
}

func (SettingsTracer) PushRejected(err error) {
	logging.Trace("settings.push.rejected", map[string]interface{}{"error": errString(err)})
}

func (SettingsTracer) Toggle(newChat bool) {
	logging.Trace("settings.toggle", map[string]interface{}{"newChat": newChat})
}

func (SettingsTracer) Save(newChatDefault, notifications bool) {
	logging.Trace("settings.save", map[string]interface{}{"newChatDefault": newChatDefault, "notifications": notifications})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
