package launcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/atomicstack/chat-launcher/internal/backend"
	"github.com/atomicstack/chat-launcher/internal/logging"
	"github.com/atomicstack/chat-launcher/internal/logging/events"
	"github.com/atomicstack/chat-launcher/internal/ui/command"
	"github.com/google/uuid"
)

// Field is the text entry driven by the controller.
type Field interface {
	Value() string
	SetValue(string)
	SetPlaceholder(string)
	Focus() tea.Cmd
	SelectAll()
}

// Options tune a Controller. Zero values select the package defaults.
type Options struct {
	SubmitTimeout time.Duration
	FocusDelay    time.Duration
	ErrorDuration time.Duration
	Keys          KeyMap
	Placeholders  Placeholders
	Bus           *command.Bus
	// NewID generates submission request IDs.
	NewID func() string
}

func (o Options) withDefaults() Options {
	if o.SubmitTimeout <= 0 {
		o.SubmitTimeout = DefaultSubmitTimeout
	}
	if o.FocusDelay <= 0 {
		o.FocusDelay = DefaultFocusDelay
	}
	if o.ErrorDuration <= 0 {
		o.ErrorDuration = DefaultErrorDuration
	}
	if len(o.Keys.Submit.Keys()) == 0 {
		o.Keys = DefaultKeyMap()
	}
	if o.Placeholders == (Placeholders{}) {
		o.Placeholders = DefaultPlaceholders()
	}
	if o.Bus == nil {
		o.Bus = command.New(0)
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	return o
}

// Controller owns the submission state for one launcher instance.
type Controller struct {
	gw       backend.Gateway
	field    Field
	settings *SettingsSync
	opts     Options

	// ctx parents every submission; Close cancels it.
	ctx    context.Context
	cancel context.CancelFunc

	state     State
	submitSeq int
	pending   string
	pendingID string

	errorSeq    int
	errorText   string
	errorActive bool

	focusSeq    int
	hostFocused bool

	submitted []func(message string)
}

func NewController(gw backend.Gateway, field Field, settings *SettingsSync, opts Options) *Controller {
	opts = opts.withDefaults()
	if settings == nil {
		settings = NewSettingsSync(gw, opts.Bus)
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		gw:          gw,
		field:       field,
		settings:    settings,
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
		hostFocused: true,
	}
	settings.OnChange(func(bool) { c.refreshPlaceholder() })
	c.refreshPlaceholder()
	return c
}

// Close cancels any submission still in flight. Its result arrives as a
// transport failure. Submissions made after Close fail the same way.
func (c *Controller) Close() {
	c.cancel()
}

func (c *Controller) State() State {
	return c.state
}

// Busy reports whether a submission is in flight.
func (c *Controller) Busy() bool {
	return c.state == StateSubmitting
}

func (c *Controller) Settings() *SettingsSync {
	return c.settings
}

func (c *Controller) Keys() KeyMap {
	return c.opts.Keys
}

// ErrorActive reports whether the delivery error affordance is displayed.
func (c *Controller) ErrorActive() bool {
	return c.errorActive
}

func (c *Controller) ErrorText() string {
	return c.errorText
}

// OnSubmitted registers fn to run after a submission succeeds.
func (c *Controller) OnSubmitted(fn func(message string)) {
	if fn != nil {
		c.submitted = append(c.submitted, fn)
	}
}

// HandleKey reacts to the cancel, toggle, and commit keys. It reports whether
// the key was consumed; unconsumed keys belong to the text field. A panic while
// handling a key is logged and swallowed.
func (c *Controller) HandleKey(msg tea.KeyPressMsg) (handled bool, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("launcher: handling key %q: %v", msg.String(), r)
			events.Launcher.KeyPanic(msg.String(), r)
			handled, cmd = true, nil
		}
	}()

	switch {
	case key.Matches(msg, c.opts.Keys.Cancel):
		return true, c.Hide()
	case key.Matches(msg, c.opts.Keys.ToggleNewChat):
		c.settings.Toggle()
		return true, nil
	case key.Matches(msg, c.opts.Keys.Submit):
		next, _ := c.Submit()
		return true, next
	}
	return false, nil
}

// Submit validates the field and dispatches it. Rejections are reported as
// ErrSubmitInFlight, ErrEmptyMessage, or ErrMessageTooLong and have no side
// effects on the field or the state.
func (c *Controller) Submit() (tea.Cmd, error) {
	if c.state == StateSubmitting {
		events.Submit.Rejected(events.SubmitReasonInFlight, 0)
		return nil, ErrSubmitInFlight
	}
	message := strings.TrimSpace(c.field.Value())
	if message == "" {
		events.Submit.Rejected(events.SubmitReasonEmpty, 0)
		return nil, ErrEmptyMessage
	}
	if n := utf8.RuneCountInString(message); n > MaxMessageLength {
		err := fmt.Errorf("%w: got %d", ErrMessageTooLong, n)
		logging.Error(err)
		events.Submit.Rejected(events.SubmitReasonTooLong, n)
		return nil, err
	}

	req := backend.SubmitRequest{ID: c.opts.NewID(), Message: message, NewChat: c.settings.NewChat()}

	c.submitSeq++
	c.state = StateSubmitting
	c.pending = message
	c.pendingID = req.ID
	defer func() {
		if r := recover(); r != nil {
			c.finishSubmit()
			c.field.SetValue(message)
			panic(r)
		}
	}()
	c.field.SetValue("")

	events.Submit.Dispatch(req.ID, utf8.RuneCountInString(message), req.NewChat)
	return submitCmd(c.ctx, c.gw, req, c.submitSeq, c.opts.SubmitTimeout), nil
}

// HandleSubmitResult settles the active submission. Results for any other
// submission are ignored.
func (c *Controller) HandleSubmitResult(msg SubmitResultMsg) tea.Cmd {
	if c.state != StateSubmitting || msg.Seq != c.submitSeq {
		events.Submit.Stale(msg.RequestID, msg.Seq)
		return nil
	}
	message := c.pending
	defer c.finishSubmit()

	if msg.Err == nil {
		events.Submit.Success(msg.RequestID, msg.Elapsed)
		for _, fn := range c.submitted {
			fn(message)
		}
		return nil
	}

	c.field.SetValue(message)
	kind := msg.Failure
	if kind == FailureNone {
		kind = classify(msg.Err)
	}
	logging.Error(fmt.Errorf("submit %s failed (%s): %w", msg.RequestID, kind, msg.Err))
	events.Submit.Failure(msg.RequestID, kind.String(), msg.Elapsed, msg.Err)
	return nil
}

func (c *Controller) finishSubmit() {
	c.state = StateIdle
	c.pending = ""
	c.pendingID = ""
}

// Hide asks the backend to hide the launcher without waiting on the result.
func (c *Controller) Hide() tea.Cmd {
	events.Launcher.Hide()
	gw := c.gw
	return c.opts.Bus.Execute(command.Request{
		Name: "hide_launcher",
		Run: func(ctx context.Context) tea.Msg {
			if gw == nil {
				return HideLauncherResultMsg{Err: errors.New("no gateway")}
			}
			return HideLauncherResultMsg{Err: gw.HideLauncher(ctx)}
		},
	})
}

func (c *Controller) HandleHideResult(msg HideLauncherResultMsg) {
	if msg.Err != nil {
		logging.Error(fmt.Errorf("hide launcher: %w", msg.Err))
	}
}

// ShowDeliveryError re-shows the launcher and, once that succeeds, displays
// text as a transient error that reverts on its own.
func (c *Controller) ShowDeliveryError(text string) tea.Cmd {
	events.Launcher.DeliveryError(text)
	gw := c.gw
	return c.opts.Bus.Execute(command.Request{
		Name: "show_launcher",
		Run: func(ctx context.Context) tea.Msg {
			if gw == nil {
				return ShowLauncherResultMsg{Text: text, Err: errors.New("no gateway")}
			}
			return ShowLauncherResultMsg{Text: text, Err: gw.ShowLauncher(ctx)}
		},
	})
}

// HandleShowLauncherResult displays the pending delivery error, or aborts it
// when the launcher could not be shown.
func (c *Controller) HandleShowLauncherResult(msg ShowLauncherResultMsg) tea.Cmd {
	if msg.Err != nil {
		logging.Error(fmt.Errorf("show launcher for delivery error: %w", msg.Err))
		events.Launcher.DeliveryErrorAborted(msg.Err)
		return nil
	}
	c.errorSeq++
	c.errorActive = true
	c.errorText = msg.Text
	c.refreshPlaceholder()
	seq := c.errorSeq
	return tea.Tick(c.opts.ErrorDuration, func(time.Time) tea.Msg {
		return ErrorRevertMsg{Seq: seq}
	})
}

// HandleErrorRevert clears the error affordance unless a newer one replaced it.
func (c *Controller) HandleErrorRevert(msg ErrorRevertMsg) {
	if !c.errorActive || msg.Seq != c.errorSeq {
		return
	}
	c.errorActive = false
	c.errorText = ""
	c.refreshPlaceholder()
	events.Launcher.DeliveryErrorCleared(msg.Seq)
}

// LauncherShown resets the input and reloads settings.
func (c *Controller) LauncherShown() tea.Cmd {
	events.Launcher.Shown()
	c.field.SetValue("")
	return tea.Batch(c.field.Focus(), c.settings.Load())
}

func (c *Controller) refreshPlaceholder() {
	if c.field == nil {
		return
	}
	if c.errorActive {
		c.field.SetPlaceholder(c.opts.Placeholders.Error(c.errorText))
		return
	}
	c.field.SetPlaceholder(c.opts.Placeholders.Mode(c.settings.NewChat()))
}
