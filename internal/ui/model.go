package ui

import (
	"reflect"
	"time"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	"github.com/atomicstack/chat-launcher/internal/backend"
	"github.com/atomicstack/chat-launcher/internal/data/dispatcher"
	"github.com/atomicstack/chat-launcher/internal/launcher"
	"github.com/atomicstack/chat-launcher/internal/theme"
	"github.com/atomicstack/chat-launcher/internal/ui/command"
	uistate "github.com/atomicstack/chat-launcher/internal/ui/state"
)

const defaultWidth = 60

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures the launcher model.
type Options struct {
	Gateway        backend.Gateway
	Bus            backend.EventBus
	Width          int
	Height         int
	ShowFooter     bool
	HistorySize    int
	CommandTimeout time.Duration
	Launcher       launcher.Options
}

// Model implements the Bubble Tea model for the launcher overlay.
type Model struct {
	controller *launcher.Controller
	dispatcher *dispatcher.Dispatcher
	bus        backend.EventBus
	busLastErr string

	field   *inputField
	history *uistate.History
	keys    keyMap
	help    help.Model

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	sendButton  region

	handlers map[reflect.Type]msgHandler
}

// NewModel wires the controller, its settings, and the bus dispatcher to a
// text field.
func NewModel(opts Options) *Model {
	if opts.Launcher.Bus == nil {
		opts.Launcher.Bus = command.New(opts.CommandTimeout)
	}
	m := &Model{
		bus:        opts.Bus,
		history:    uistate.NewHistory(opts.HistorySize),
		keys:       newKeyMap(),
		help:       help.New(),
		showFooter: opts.ShowFooter,
		width:      defaultWidth,
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.field = newInputField(m.inputWidth())
	settings := launcher.NewSettingsSync(opts.Gateway, opts.Launcher.Bus)
	m.controller = launcher.NewController(opts.Gateway, m.field, settings, opts.Launcher)
	m.controller.OnSubmitted(m.history.Add)
	m.dispatcher = dispatcher.New(m.controller)
	m.keys.launcher = m.controller.Keys()
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.field.Focus(), m.controller.Settings().Load()}
	if m.bus != nil {
		cmds = append(cmds, waitForBusEvent(m.bus))
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, m.field.Update(msg)
}

// Controller exposes the submission controller.
func (m *Model) Controller() *launcher.Controller {
	return m.controller
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyPressMsg{}):                m.handleKeyMsg,
		reflect.TypeOf(tea.MouseClickMsg{}):              m.handleMouseClickMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}):              m.handleWindowSizeMsg,
		reflect.TypeOf(tea.FocusMsg{}):                   m.handleFocusMsg,
		reflect.TypeOf(tea.BlurMsg{}):                    m.handleBlurMsg,
		reflect.TypeOf(launcher.SubmitResultMsg{}):       m.handleSubmitResultMsg,
		reflect.TypeOf(launcher.FocusTimerMsg{}):         m.handleFocusTimerMsg,
		reflect.TypeOf(launcher.ErrorRevertMsg{}):        m.handleErrorRevertMsg,
		reflect.TypeOf(launcher.ShowLauncherResultMsg{}): m.handleShowLauncherResultMsg,
		reflect.TypeOf(launcher.HideLauncherResultMsg{}): m.handleHideLauncherResultMsg,
		reflect.TypeOf(launcher.SettingsLoadedMsg{}):     m.handleSettingsLoadedMsg,
		reflect.TypeOf(busEventMsg{}):                    m.handleBusEventMsg,
		reflect.TypeOf(busDoneMsg{}):                     m.handleBusDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	m.field.setWidth(m.inputWidth())
	return nil
}

func (m *Model) handleFocusMsg(tea.Msg) tea.Cmd {
	return m.controller.FocusGained()
}

func (m *Model) handleBlurMsg(tea.Msg) tea.Cmd {
	m.controller.FocusLost()
	return nil
}

func (m *Model) handleSubmitResultMsg(msg tea.Msg) tea.Cmd {
	return m.controller.HandleSubmitResult(msg.(launcher.SubmitResultMsg))
}

func (m *Model) handleFocusTimerMsg(msg tea.Msg) tea.Cmd {
	return m.controller.HandleFocusTimer(msg.(launcher.FocusTimerMsg))
}

func (m *Model) handleErrorRevertMsg(msg tea.Msg) tea.Cmd {
	m.controller.HandleErrorRevert(msg.(launcher.ErrorRevertMsg))
	return nil
}

func (m *Model) handleShowLauncherResultMsg(msg tea.Msg) tea.Cmd {
	return m.controller.HandleShowLauncherResult(msg.(launcher.ShowLauncherResultMsg))
}

func (m *Model) handleHideLauncherResultMsg(msg tea.Msg) tea.Cmd {
	m.controller.HandleHideResult(msg.(launcher.HideLauncherResultMsg))
	return nil
}

func (m *Model) handleSettingsLoadedMsg(msg tea.Msg) tea.Cmd {
	m.controller.Settings().HandleLoaded(msg.(launcher.SettingsLoadedMsg))
	return nil
}

func (m *Model) inputWidth() int {
	// border, padding, and prompt
	w := m.width - 6
	if w < 10 {
		w = 10
	}
	return w
}
