// Package ui contains the Bubble Tea programs for the launcher overlay and its
// settings page.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are routed
//     through a typed handler registry so each tea.Msg is handled by a focused
//     function. Messages without a handler go to the text field.
//   - Key presses are offered to the launcher.Controller first (commit, cancel,
//     new-chat toggle). Unconsumed keys drive history recall or the field.
//   - Backend work runs as tea.Cmd values built by the controller and the
//     internal/ui/command bus; their results come back as launcher.*Msg values
//     and are handed to the matching controller method.
//
// State ownership:
//   - Submission state, the delivery error, and focus timers live in
//     launcher.Controller. New-chat mode lives in launcher.SettingsSync.
//   - The model owns only presentation: the field, history, sizes, and the
//     last bus error.
//
// Backend interactions:
//   - A backend.EventBus streams pushes; Update waits for each event and hands
//     it to the dispatcher, which applies it to the controller synchronously.
package ui
