package ui

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atomicstack/chat-launcher/internal/launcher"
)

// inputField adapts a textinput to launcher.Field. Select-all is emulated: the
// whole value renders highlighted and the next edit replaces it.
type inputField struct {
	input    textinput.Model
	selected bool
}

var _ launcher.Field = (*inputField)(nil)

func newInputField(width int) *inputField {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 0
	s := ti.Styles()
	if styles.Input != nil {
		s.Focused.Text = *styles.Input
		s.Blurred.Text = *styles.Input
	}
	if styles.Placeholder != nil {
		s.Focused.Placeholder = *styles.Placeholder
		s.Blurred.Placeholder = *styles.Placeholder
	}
	ti.SetStyles(s)
	f := &inputField{input: ti}
	f.setWidth(width)
	return f
}

func (f *inputField) Value() string {
	return f.input.Value()
}

func (f *inputField) SetValue(v string) {
	f.input.SetValue(v)
	f.input.CursorEnd()
	f.selected = false
}

func (f *inputField) SetPlaceholder(p string) {
	f.input.Placeholder = p
}

func (f *inputField) Focus() tea.Cmd {
	return f.input.Focus()
}

func (f *inputField) SelectAll() {
	f.selected = f.input.Value() != ""
}

func (f *inputField) Selected() bool {
	return f.selected
}

func (f *inputField) Focused() bool {
	return f.input.Focused()
}

func (f *inputField) Placeholder() string {
	return f.input.Placeholder
}

func (f *inputField) setWidth(width int) {
	if width > 0 {
		f.input.SetWidth(width)
	}
}

// Update feeds msg to the textinput. Typing or pasting over a selection
// replaces it; deleting clears it; any other key drops it.
func (f *inputField) Update(msg tea.Msg) tea.Cmd {
	if f.selected {
		switch msg := msg.(type) {
		case tea.KeyPressMsg:
			f.selected = false
			switch {
			case msg.String() == "backspace" || msg.String() == "delete":
				f.input.SetValue("")
				return nil
			case msg.Text != "":
				f.input.SetValue("")
			}
		case tea.PasteMsg:
			f.selected = false
			f.input.SetValue("")
		}
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

func (f *inputField) View() string {
	if f.selected && styles.Selection != nil {
		return f.input.Prompt + styles.Selection.Render(f.input.Value())
	}
	return f.input.View()
}
