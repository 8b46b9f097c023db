package launcher

import (
	"time"

	"github.com/atomicstack/chat-launcher/internal/backend"
)

// SubmitResultMsg settles the submission identified by Seq.
type SubmitResultMsg struct {
	Seq       int
	RequestID string
	Failure   FailureKind
	Err       error
	Elapsed   time.Duration
}

// FocusTimerMsg fires when a focus debounce elapses.
type FocusTimerMsg struct {
	Seq int
}

// ErrorRevertMsg fires when a delivery error affordance expires.
type ErrorRevertMsg struct {
	Seq int
}

// ShowLauncherResultMsg reports the show_launcher call made before a
// delivery error is displayed.
type ShowLauncherResultMsg struct {
	Text string
	Err  error
}

type HideLauncherResultMsg struct {
	Err error
}

type SettingsLoadedMsg struct {
	Seq      int
	Settings backend.Settings
	Err      error
}

type SettingsSavedMsg struct {
	Settings backend.Settings
	Err      error
}
