package fastoverlay

import (
	"github.com/yeeaiclub/fastoverlay/keys"
)

// KeyEvent is a keyboard event delivered to document-level key listeners.
type KeyEvent struct {
	Key string
	Raw string

	defaultPrevented bool
}

func (e *KeyEvent) PreventDefault() {
	e.defaultPrevented = true
}

func (e *KeyEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

// FocusHost is the focus side of the accessibility-tree collaborator.
type FocusHost interface {
	Focus(el *Element)
	ActiveElement() *Element
	Contains(ancestor, node *Element) bool
}

// Accessibility hides and reveals nodes from assistive technology.
type Accessibility interface {
	SetHidden(node *Element, hidden bool)
}

type listener[T any] struct {
	fn T
}

// Document owns the element tree root, the focused element and the
// document-level key and focus listeners.
type Document struct {
	body           *Element
	active         *Element
	keyListeners   []*listener[func(*KeyEvent)]
	focusListeners []*listener[func(*Element)]
}

func NewDocument() *Document {
	body := NewElement("body")
	body.SetFocusable(true)
	return &Document{body: body, active: body}
}

func (d *Document) Body() *Element {
	return d.body
}

// ActiveElement returns the focused element, falling back to the body when
// the focused element has been detached from the tree.
func (d *Document) ActiveElement() *Element {
	if d.active == nil || !d.body.Contains(d.active) {
		return d.body
	}
	return d.active
}

func (d *Document) Focus(el *Element) {
	if el == nil || el == d.active {
		return
	}
	d.active = el
	for _, l := range append([]*listener[func(*Element)]{}, d.focusListeners...) {
		l.fn(el)
	}
}

func (d *Document) Blur() {
	d.Focus(d.body)
}

func (d *Document) Contains(ancestor, node *Element) bool {
	return ancestor.Contains(node)
}

func (d *Document) SetHidden(node *Element, hidden bool) {
	node.SetHidden(hidden)
}

// OnKey registers a document-level key listener. The returned func removes it.
func (d *Document) OnKey(fn func(*KeyEvent)) func() {
	l := &listener[func(*KeyEvent)]{fn: fn}
	d.keyListeners = append(d.keyListeners, l)
	return func() {
		d.keyListeners = removeListener(d.keyListeners, l)
	}
}

// OnFocus registers a listener called on every focus change.
func (d *Document) OnFocus(fn func(*Element)) func() {
	l := &listener[func(*Element)]{fn: fn}
	d.focusListeners = append(d.focusListeners, l)
	return func() {
		d.focusListeners = removeListener(d.focusListeners, l)
	}
}

func (d *Document) DispatchKey(ev *KeyEvent) {
	for _, l := range append([]*listener[func(*KeyEvent)]{}, d.keyListeners...) {
		l.fn(ev)
	}
}

// DispatchInput classifies raw terminal input and dispatches it as a key event.
func (d *Document) DispatchInput(data string) *KeyEvent {
	ev := &KeyEvent{Key: keys.Parse(data), Raw: data}
	d.DispatchKey(ev)
	return ev
}

// DispatchClick bubbles a click from target up to the root.
func (d *Document) DispatchClick(target *Element) {
	for n := target; n != nil; n = n.parent {
		if n.onClick != nil {
			n.onClick(target)
		}
	}
}

func removeListener[T any](list []*listener[T], l *listener[T]) []*listener[T] {
	for i, x := range list {
		if x == l {
			out := make([]*listener[T], 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...)
		}
	}
	return list
}
