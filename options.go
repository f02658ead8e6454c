package fastoverlay

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/log/v2"
)

// BackdropMode controls what activating the scrim does.
type BackdropMode int

const (
	// BackdropNone renders no backdrop.
	BackdropNone BackdropMode = iota
	// BackdropDismiss requests a hide when the backdrop is activated.
	BackdropDismiss
	// BackdropStatic renders a backdrop that absorbs activation.
	BackdropStatic
)

var ErrInvalidBackdrop = errors.New("invalid backdrop mode")

func (b BackdropMode) String() string {
	switch b {
	case BackdropNone:
		return "none"
	case BackdropDismiss:
		return "dismiss"
	case BackdropStatic:
		return "static"
	default:
		return fmt.Sprintf("BackdropMode(%d)", int(b))
	}
}

func ParseBackdropMode(s string) (BackdropMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "false", "":
		return BackdropNone, nil
	case "dismiss", "true":
		return BackdropDismiss, nil
	case "static":
		return BackdropStatic, nil
	}
	return BackdropNone, fmt.Errorf("%w: %q", ErrInvalidBackdrop, s)
}

func (b BackdropMode) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *BackdropMode) UnmarshalText(text []byte) error {
	mode, err := ParseBackdropMode(string(text))
	if err != nil {
		return err
	}
	*b = mode
	return nil
}

const DefaultContainerClassName = "modal-open"

// Options is the caller-supplied configuration of one modal.
type Options struct {
	// Visible is the requested visibility at creation.
	Visible                  bool
	UnmountWhenHidden        bool
	AnimateInitialAppearance bool
	MaxTransitionTimeout     time.Duration
	DismissOnEscape          bool
	Backdrop                 BackdropMode
	EnforceFocus             bool
	RestoreFocus             bool
	AutoFocus                bool

	InitialFocus       *Element
	Container          *Element
	ContainerClassName string

	OnHide            func()
	OnShow            func()
	OnEscapeKeyDown   func(*KeyEvent)
	OnBackdropClick   func()
	TransitionHandler TransitionCallbacks
	OnStateChange     func(from, to State)

	Logger *log.Logger
}

// DefaultOptions returns the options a modal gets when none are supplied.
func DefaultOptions() Options {
	return Options{
		MaxTransitionTimeout: DefaultTransitionTimeout,
		DismissOnEscape:      true,
		Backdrop:             BackdropDismiss,
		EnforceFocus:         true,
		RestoreFocus:         true,
		AutoFocus:            true,
		ContainerClassName:   DefaultContainerClassName,
	}
}

type Option func(*Options)

// WithOptions replaces every setting with o. Later options still apply on top.
func WithOptions(o Options) Option {
	return func(opts *Options) {
		*opts = o
	}
}

// WithVisible sets the requested visibility at creation.
func WithVisible(visible bool) Option {
	return func(o *Options) {
		o.Visible = visible
	}
}

func WithUnmountWhenHidden(enabled bool) Option {
	return func(o *Options) {
		o.UnmountWhenHidden = enabled
	}
}

func WithAnimateInitialAppearance(enabled bool) Option {
	return func(o *Options) {
		o.AnimateInitialAppearance = enabled
	}
}

func WithMaxTransitionTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.MaxTransitionTimeout = d
	}
}

func WithDismissOnEscape(enabled bool) Option {
	return func(o *Options) {
		o.DismissOnEscape = enabled
	}
}

func WithBackdrop(mode BackdropMode) Option {
	return func(o *Options) {
		o.Backdrop = mode
	}
}

func WithEnforceFocus(enabled bool) Option {
	return func(o *Options) {
		o.EnforceFocus = enabled
	}
}

func WithRestoreFocus(enabled bool) Option {
	return func(o *Options) {
		o.RestoreFocus = enabled
	}
}

func WithAutoFocus(enabled bool) Option {
	return func(o *Options) {
		o.AutoFocus = enabled
	}
}

// WithInitialFocus focuses el, a node inside the content, instead of the dialog root.
func WithInitialFocus(el *Element) Option {
	return func(o *Options) {
		o.InitialFocus = el
	}
}

func WithContainer(el *Element) Option {
	return func(o *Options) {
		o.Container = el
	}
}

func WithContainerClassName(name string) Option {
	return func(o *Options) {
		o.ContainerClassName = name
	}
}

// WithOnHide sets the hide-request callback used by escape and backdrop
// dismissal. The modal never hides itself.
func WithOnHide(fn func()) Option {
	return func(o *Options) {
		o.OnHide = fn
	}
}

func WithOnShow(fn func()) Option {
	return func(o *Options) {
		o.OnShow = fn
	}
}

// WithOnEscapeKeyDown runs before the hide request; PreventDefault vetoes it.
func WithOnEscapeKeyDown(fn func(*KeyEvent)) Option {
	return func(o *Options) {
		o.OnEscapeKeyDown = fn
	}
}

func WithOnBackdropClick(fn func()) Option {
	return func(o *Options) {
		o.OnBackdropClick = fn
	}
}

func WithTransitionCallbacks(cb TransitionCallbacks) Option {
	return func(o *Options) {
		o.TransitionHandler = cb
	}
}

func WithOnStateChange(fn func(from, to State)) Option {
	return func(o *Options) {
		o.OnStateChange = fn
	}
}

func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}
