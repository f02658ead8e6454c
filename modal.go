package fastoverlay

import (
	"fmt"
	"sync/atomic"

	"charm.land/log/v2"

	"github.com/yeeaiclub/fastoverlay/keys"
)

// DocumentHost is what a modal needs from the document: focus queries and
// document-level key and focus listeners.
type DocumentHost interface {
	FocusHost
	OnKey(fn func(*KeyEvent)) func()
	OnFocus(fn func(*Element)) func()
}

// Env carries the collaborators a modal is wired to.
type Env struct {
	Document  DocumentHost
	Manager   *StackManager
	Scheduler Scheduler
	Portal    Portal
	// Container is used when the modal options name none.
	Container *Element
}

var modalSeq atomic.Uint64

// Modal composes a Transition with the StackManager and adds focus
// management and dismissal triggers.
type Modal struct {
	id     uint64
	env    Env
	opts   Options
	logger *log.Logger

	container  *Element
	dialog     *Element
	backdrop   *Element
	handle     *Handle
	transition *Transition

	visible    bool
	attached   bool
	registered bool
	destroyed  bool
	lastFocus  *Element

	removeKeyListener   func()
	removeFocusListener func()
	cancelEnforce       Cancel
	onDestroy           func()
}

// NewModal builds a hidden modal around content. Exactly one content node is
// expected; extra nodes are ignored with a warning.
func NewModal(env Env, content []*Element, opts ...Option) *Modal {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m := &Modal{
		id:     modalSeq.Add(1),
		env:    env,
		opts:   o,
		logger: loggerOr(o.Logger),
	}
	if env.Portal == nil {
		m.env.Portal = ElementPortal{}
	}

	m.dialog = NewElement(fmt.Sprintf("modal-%d", m.id))
	m.dialog.SetFocusable(true)
	switch len(content) {
	case 0:
		m.logger.Warn("modal has no content", "modal", m.id)
	case 1:
		m.dialog.AppendChild(content[0])
	default:
		m.logger.Warn("modal expects a single content node, keeping the first", "modal", m.id, "got", len(content))
		m.dialog.AppendChild(content[0])
	}

	if o.Backdrop != BackdropNone {
		m.backdrop = NewElement(fmt.Sprintf("modal-%d-backdrop", m.id))
		m.backdrop.OnClick(m.handleBackdropClick)
	}
	m.handle = NewHandle(m.backdrop, m.dialog)

	m.container = o.Container
	if m.container == nil {
		m.container = env.Container
	}

	cb := o.TransitionHandler
	userExited := cb.OnExited
	cb.OnExited = func() {
		m.handleHide()
		if userExited != nil {
			userExited()
		}
	}
	initial := o.Visible && m.container != nil
	m.transition = NewTransition(env.Scheduler, initial,
		WithTimeout(o.MaxTransitionTimeout),
		WithUnmountOnExit(o.UnmountWhenHidden),
		WithAppear(o.AnimateInitialAppearance),
		WithCallbacks(cb),
		WithStateListener(o.OnStateChange),
		WithTransitionLogger(m.logger),
	)
	if initial {
		m.visible = true
		m.handleShow()
		m.transition.Mount()
	}
	return m
}

func (m *Modal) ID() uint64 {
	return m.id
}

func (m *Modal) Dialog() *Element {
	return m.dialog
}

// Backdrop returns the scrim node, or nil when the backdrop mode is none.
func (m *Modal) Backdrop() *Element {
	return m.backdrop
}

func (m *Modal) Handle() *Handle {
	return m.handle
}

func (m *Modal) Container() *Element {
	return m.container
}

func (m *Modal) Options() Options {
	return m.opts
}

// Visible returns the requested visibility.
func (m *Modal) Visible() bool {
	return m.visible
}

func (m *Modal) State() State {
	return m.transition.State()
}

// Interactive reports whether the overlay is on screen or animating.
func (m *Modal) Interactive() bool {
	return m.transition.Interactive()
}

func (m *Modal) IsTopmost() bool {
	return m.registered && m.env.Manager.IsTopmost(m.handle)
}

func (m *Modal) Show() {
	m.SetVisible(true)
}

func (m *Modal) Hide() {
	m.SetVisible(false)
}

// SetVisible forwards the owner's visibility request.
func (m *Modal) SetVisible(visible bool) {
	if m.destroyed {
		m.logger.Warn("visibility change on a destroyed modal", "modal", m.id)
		return
	}
	if m.visible == visible {
		return
	}
	m.visible = visible
	if visible {
		if m.container == nil {
			m.logger.Warn("modal has no container, staying hidden", "modal", m.id)
			m.visible = false
			return
		}
		m.handleShow()
		if !m.visible || m.destroyed {
			// hidden again from OnShow
			return
		}
	}
	m.transition.SetVisible(visible)
	if !visible && m.registered && !m.transition.Interactive() {
		m.handleHide()
	}
}

// NotifyTransitionEnd reports that the visual layer finished animating.
func (m *Modal) NotifyTransitionEnd() {
	m.transition.NotifyComplete()
}

// ActivateBackdrop behaves like a click landing on the backdrop itself.
func (m *Modal) ActivateBackdrop() {
	if m.backdrop != nil {
		m.handleBackdropClick(m.backdrop)
	}
}

// Destroy tears the modal down. Deregistration and focus restoration run
// exactly once even when destroyed while open or mid-exit.
func (m *Modal) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.transition.Destroy()
	m.handleHide()
	m.visible = false
	if m.onDestroy != nil {
		m.onDestroy()
	}
}

func (m *Modal) nodes() []*Element {
	return m.handle.Nodes()
}

func (m *Modal) handleShow() {
	if !m.attached {
		m.env.Portal.Attach(m.container, m.nodes()...)
		m.attached = true
	}
	if m.lastFocus == nil {
		if active := m.env.Document.ActiveElement(); active != nil && !m.env.Document.Contains(m.dialog, active) {
			m.lastFocus = active
		}
	}
	if !m.registered {
		var classes []string
		if m.opts.ContainerClassName != "" {
			classes = append(classes, m.opts.ContainerClassName)
		}
		m.env.Manager.Add(m.handle, m.container, classes...)
		m.registered = true
	}
	if m.removeKeyListener == nil {
		m.removeKeyListener = m.env.Document.OnKey(m.handleKey)
	}
	if m.removeFocusListener == nil {
		m.removeFocusListener = m.env.Document.OnFocus(m.handleFocusChange)
	}
	if m.opts.OnShow != nil {
		m.opts.OnShow()
		if !m.visible || m.destroyed {
			return
		}
	}
	if m.opts.AutoFocus {
		m.autoFocus()
	}
}

func (m *Modal) autoFocus() {
	if el := m.opts.InitialFocus; el != nil && m.env.Document.Contains(m.dialog, el) {
		m.env.Document.Focus(el)
		return
	}
	if !m.env.Document.Contains(m.dialog, m.env.Document.ActiveElement()) {
		m.env.Document.Focus(m.dialog)
	}
}

func (m *Modal) handleHide() {
	if m.attached {
		m.env.Portal.Detach(m.container, m.nodes()...)
		m.attached = false
	}
	if m.registered {
		m.env.Manager.Remove(m.handle)
		m.registered = false
	}
	if m.removeKeyListener != nil {
		m.removeKeyListener()
		m.removeKeyListener = nil
	}
	if m.removeFocusListener != nil {
		m.removeFocusListener()
		m.removeFocusListener = nil
	}
	if m.cancelEnforce != nil {
		m.cancelEnforce()
		m.cancelEnforce = nil
	}
	if m.opts.RestoreFocus && m.lastFocus != nil {
		m.env.Document.Focus(m.lastFocus)
	}
	m.lastFocus = nil
}

func (m *Modal) handleKey(ev *KeyEvent) {
	if !m.opts.DismissOnEscape || ev.Key != keys.Escape || !m.IsTopmost() {
		return
	}
	if m.opts.OnEscapeKeyDown != nil {
		m.opts.OnEscapeKeyDown(ev)
		if ev.DefaultPrevented() {
			return
		}
	}
	m.requestHide("escape")
}

func (m *Modal) handleBackdropClick(target *Element) {
	if target != m.backdrop {
		return
	}
	if m.opts.OnBackdropClick != nil {
		m.opts.OnBackdropClick()
	}
	if m.opts.Backdrop == BackdropDismiss {
		m.requestHide("backdrop")
	}
}

func (m *Modal) requestHide(source string) {
	if m.opts.OnHide == nil {
		m.logger.Debug("hide requested without a handler", "modal", m.id, "source", source)
		return
	}
	m.logger.Debug("hide requested", "modal", m.id, "source", source)
	m.opts.OnHide()
}

func (m *Modal) handleFocusChange(*Element) {
	if !m.opts.EnforceFocus {
		return
	}
	if m.cancelEnforce != nil {
		m.cancelEnforce()
	}
	m.cancelEnforce = m.env.Scheduler.ScheduleAfter(0, m.enforceFocus)
}

func (m *Modal) enforceFocus() {
	m.cancelEnforce = nil
	if m.destroyed || !m.registered || !m.IsTopmost() {
		return
	}
	if active := m.env.Document.ActiveElement(); !m.env.Document.Contains(m.dialog, active) {
		m.logger.Debug("focus left the topmost modal, pulling it back", "modal", m.id, "active", active)
		m.env.Document.Focus(m.dialog)
	}
}
