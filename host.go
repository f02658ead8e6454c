package fastoverlay

import (
	"slices"
	"sync"

	"charm.land/log/v2"
)

// Host is the composition root: it owns the document, the scheduler and the
// portal, and creates the stack manager on first use unless one is injected.
type Host struct {
	document  *Document
	scheduler Scheduler
	portal    Portal
	platform  Platform
	logger    *log.Logger

	managerOnce sync.Once
	manager     *StackManager

	modals []*Modal
}

type HostOption func(*Host)

func WithScheduler(s Scheduler) HostOption {
	return func(h *Host) {
		h.scheduler = s
	}
}

func WithDocument(d *Document) HostOption {
	return func(h *Host) {
		h.document = d
	}
}

func WithPortal(p Portal) HostOption {
	return func(h *Host) {
		h.portal = p
	}
}

func WithHostPlatform(p Platform) HostOption {
	return func(h *Host) {
		h.platform = p
	}
}

func WithStackManager(m *StackManager) HostOption {
	return func(h *Host) {
		h.manager = m
	}
}

func WithHostLogger(l *log.Logger) HostOption {
	return func(h *Host) {
		h.logger = l
	}
}

// NewHost builds a host. Without WithScheduler it uses a ManualScheduler,
// which suits tests; interactive programs pass an EventLoop.
func NewHost(opts ...HostOption) *Host {
	h := &Host{}
	for _, opt := range opts {
		opt(h)
	}
	if h.document == nil {
		h.document = NewDocument()
	}
	if h.scheduler == nil {
		h.scheduler = NewManualScheduler()
	}
	if h.portal == nil {
		h.portal = ElementPortal{}
	}
	if h.platform == nil {
		h.platform = ExtentPlatform{Scrollbar: 1}
	}
	h.logger = loggerOr(h.logger)
	return h
}

func (h *Host) Document() *Document {
	return h.document
}

func (h *Host) Scheduler() Scheduler {
	return h.scheduler
}

// Manager returns the host's stack manager, creating it on first call.
func (h *Host) Manager() *StackManager {
	h.managerOnce.Do(func() {
		if h.manager == nil {
			h.manager = NewStackManager(
				WithPlatform(h.platform),
				WithAccessibility(h.document),
				WithManagerLogger(h.logger),
			)
		}
	})
	return h.manager
}

func (h *Host) Env() Env {
	return Env{
		Document:  h.document,
		Manager:   h.Manager(),
		Scheduler: h.scheduler,
		Portal:    h.portal,
		Container: h.document.Body(),
	}
}

// NewModal creates a modal wired to this host's collaborators.
func (h *Host) NewModal(content *Element, opts ...Option) *Modal {
	var nodes []*Element
	if content != nil {
		nodes = append(nodes, content)
	}
	opts = append([]Option{WithLogger(h.logger)}, opts...)
	m := NewModal(h.Env(), nodes, opts...)
	m.onDestroy = func() { h.forget(m) }
	h.modals = append(h.modals, m)
	return m
}

// Modals returns the modals created through this host that are not destroyed.
func (h *Host) Modals() []*Modal {
	return h.modals
}

func (h *Host) forget(m *Modal) {
	h.modals = slices.DeleteFunc(h.modals, func(x *Modal) bool { return x == m })
}

// HandleInput routes raw terminal input to the document key listeners.
func (h *Host) HandleInput(data string) {
	h.document.DispatchInput(data)
}

// Close destroys every modal created through this host.
func (h *Host) Close() {
	modals := h.modals
	h.modals = nil
	for _, m := range slices.Backward(modals) {
		m.Destroy()
	}
}
