package fastoverlay

import (
	"slices"
	"sync"
	"sync/atomic"

	"charm.land/log/v2"
)

var handleSeq atomic.Uint64

// Handle identifies one mounted overlay. Two handles are equal only if they
// are the same pointer.
type Handle struct {
	id    uint64
	nodes []*Element
}

// NewHandle returns a handle owning the given visual nodes (dialog, backdrop).
// The set is fixed for the handle's lifetime.
func NewHandle(nodes ...*Element) *Handle {
	return &Handle{id: handleSeq.Add(1), nodes: compactNodes(nodes)}
}

func (h *Handle) ID() uint64 {
	return h.id
}

// Nodes returns a copy of the handle's nodes.
func (h *Handle) Nodes() []*Element {
	return slices.Clone(h.nodes)
}

func (h *Handle) owns(n *Element) bool {
	return slices.Contains(h.nodes, n)
}

func compactNodes(nodes []*Element) []*Element {
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

type containerRecord struct {
	container   *Element
	handles     []*Handle
	saved       Style
	overflowing bool
	classes     []string   // classes this manager added
	hiddenByUs  []*Element // nodes whose hidden flag this manager flipped
}

// StackManager tracks every open overlay per background container and owns
// the container side effects (scroll suppression, padding compensation,
// classes, background hiding) while any overlay is layered over it.
type StackManager struct {
	mu         sync.Mutex
	handles    []*Handle
	containers []*containerRecord

	platform          Platform
	a11y              Accessibility
	hideSiblings      bool
	containerOverflow bool
	logger            *log.Logger
}

type ManagerOption func(*StackManager)

func WithPlatform(p Platform) ManagerOption {
	return func(m *StackManager) {
		m.platform = p
	}
}

func WithAccessibility(a Accessibility) ManagerOption {
	return func(m *StackManager) {
		m.a11y = a
	}
}

// WithHideSiblings toggles hiding background content from assistive technology.
func WithHideSiblings(enabled bool) ManagerOption {
	return func(m *StackManager) {
		m.hideSiblings = enabled
	}
}

// WithContainerOverflow toggles scroll suppression and padding compensation.
func WithContainerOverflow(enabled bool) ManagerOption {
	return func(m *StackManager) {
		m.containerOverflow = enabled
	}
}

func WithManagerLogger(l *log.Logger) ManagerOption {
	return func(m *StackManager) {
		m.logger = l
	}
}

func NewStackManager(opts ...ManagerOption) *StackManager {
	m := &StackManager{
		platform:          ExtentPlatform{Scrollbar: 1},
		a11y:              elementAccessibility{},
		hideSiblings:      true,
		containerOverflow: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = loggerOr(m.logger)
	return m
}

type elementAccessibility struct{}

func (elementAccessibility) SetHidden(n *Element, hidden bool) {
	n.SetHidden(hidden)
}

// Add registers h as layered over container and returns its stacking index.
// Adding an already registered handle returns its current index.
func (m *StackManager) Add(h *Handle, container *Element, classNames ...string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idx := slices.Index(m.handles, h); idx != -1 {
		return idx
	}
	idx := len(m.handles)
	m.handles = append(m.handles, h)

	rec := m.findContainer(container)
	if rec == nil {
		rec = m.openContainer(container, classNames)
	} else if len(classNames) > 0 {
		m.applyClasses(rec, classNames)
	}
	if m.hideSiblings {
		m.hideBackground(rec, h)
		m.reveal(rec, h.nodes...)
	}
	rec.handles = append(rec.handles, h)

	m.logger.Debug("overlay added", "handle", h.id, "container", container, "index", idx, "stacked", len(rec.handles))
	return idx
}

// Remove deregisters h. When it was the last overlay on its container the
// container is restored to its state before the first Add.
func (m *StackManager) Remove(h *Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := slices.Index(m.handles, h)
	if idx == -1 {
		m.logger.Warn("remove of an overlay that is not registered", "handle", handleID(h))
		return
	}
	m.handles = slices.Delete(m.handles, idx, idx+1)

	recIdx := slices.IndexFunc(m.containers, func(r *containerRecord) bool {
		return slices.Contains(r.handles, h)
	})
	if recIdx == -1 {
		return
	}
	rec := m.containers[recIdx]
	rec.handles = slices.DeleteFunc(rec.handles, func(x *Handle) bool { return x == h })

	if len(rec.handles) == 0 {
		m.closeContainer(rec)
		m.containers = slices.Delete(m.containers, recIdx, recIdx+1)
		m.logger.Debug("overlay removed, container restored", "handle", h.id, "container", rec.container)
		return
	}

	if m.hideSiblings {
		m.reveal(rec, h.nodes...)
		top := rec.handles[len(rec.handles)-1]
		m.reveal(rec, top.nodes...)
	}
	m.logger.Debug("overlay removed", "handle", h.id, "container", rec.container, "stacked", len(rec.handles))
}

// IsTopmost reports whether h is the most recently added open overlay.
func (m *StackManager) IsTopmost(h *Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles) > 0 && m.handles[len(m.handles)-1] == h
}

func (m *StackManager) Topmost() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.handles) == 0 {
		return nil
	}
	return m.handles[len(m.handles)-1]
}

func (m *StackManager) IndexOf(h *Handle) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Index(m.handles, h)
}

func (m *StackManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.handles)
}

func (m *StackManager) ContainerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.containers)
}

// Handles returns the overlays layered over container, oldest first.
func (m *StackManager) Handles(container *Element) []*Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec := m.findContainer(container); rec != nil {
		return slices.Clone(rec.handles)
	}
	return nil
}

func (m *StackManager) findContainer(container *Element) *containerRecord {
	for _, rec := range m.containers {
		if rec.container == container {
			return rec
		}
	}
	return nil
}

func (m *StackManager) openContainer(container *Element, classNames []string) *containerRecord {
	rec := &containerRecord{
		container:   container,
		saved:       container.Style(),
		overflowing: m.platform.IsOverflowing(container),
	}
	if m.containerOverflow {
		style := rec.saved
		style.Overflow = OverflowHidden
		if rec.overflowing {
			style.PaddingRight = rec.saved.PaddingRight + m.platform.ScrollbarWidth()
		}
		container.SetStyle(style)
	}
	m.applyClasses(rec, classNames)
	m.containers = append(m.containers, rec)
	return rec
}

func (m *StackManager) applyClasses(rec *containerRecord, classNames []string) {
	for _, name := range classNames {
		if name == "" || rec.container.HasClass(name) {
			continue
		}
		rec.container.AddClass(name)
		rec.classes = append(rec.classes, name)
	}
}

func (m *StackManager) closeContainer(rec *containerRecord) {
	for _, name := range rec.classes {
		rec.container.RemoveClass(name)
	}
	if m.containerOverflow {
		rec.container.SetStyle(rec.saved)
	}
	for _, n := range rec.hiddenByUs {
		m.a11y.SetHidden(n, false)
	}
	rec.hiddenByUs = nil
	rec.classes = nil
}

// hideBackground hides every child of the container that is not one of h's
// own nodes and is not already hidden, remembering what it flipped.
func (m *StackManager) hideBackground(rec *containerRecord, h *Handle) {
	for _, child := range rec.container.Children() {
		if h.owns(child) || child.Hidden() {
			continue
		}
		m.a11y.SetHidden(child, true)
		rec.hiddenByUs = append(rec.hiddenByUs, child)
	}
}

func (m *StackManager) reveal(rec *containerRecord, nodes ...*Element) {
	for _, n := range nodes {
		i := slices.Index(rec.hiddenByUs, n)
		if i == -1 {
			continue
		}
		rec.hiddenByUs = slices.Delete(rec.hiddenByUs, i, i+1)
		m.a11y.SetHidden(n, false)
	}
}

func handleID(h *Handle) uint64 {
	if h == nil {
		return 0
	}
	return h.id
}
