package launcher

import "charm.land/bubbles/v2/key"

// KeyMap lists the keys the controller reacts to. Anything else belongs to
// the text field.
type KeyMap struct {
	Submit        key.Binding
	Cancel        key.Binding
	ToggleNewChat key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		// shift+enter reports as its own key string and never matches.
		Submit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "send")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "hide")),
		ToggleNewChat: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new chat")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.ToggleNewChat, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
