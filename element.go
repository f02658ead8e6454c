package fastoverlay

import (
	"slices"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Style is the subset of a node's presentation the overlay engine touches.
type Style struct {
	Overflow     string
	PaddingRight int
}

const OverflowHidden = "hidden"

// Element is one node of the retained visual tree. Identity is the pointer.
type Element struct {
	id        string
	text      string
	parent    *Element
	children  []*Element
	focusable bool
	hidden    bool
	classes   []string
	style     Style

	scrollHeight int
	clientHeight int

	onClick func(target *Element)
}

func NewElement(id string) *Element {
	return &Element{id: id}
}

// NewText creates a leaf element rendering the given text.
func NewText(id, text string) *Element {
	return &Element{id: id, text: text}
}

func (e *Element) ID() string {
	return e.id
}

func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	return "#" + e.id
}

func (e *Element) Text() string {
	return e.text
}

func (e *Element) SetText(text string) {
	e.text = text
}

func (e *Element) Parent() *Element {
	return e.parent
}

func (e *Element) Children() []*Element {
	return e.children
}

// AppendChild adds child as the last child, detaching it from any previous parent.
func (e *Element) AppendChild(child *Element) {
	if child == nil || child == e {
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = e
	e.children = append(e.children, child)
}

func (e *Element) InsertChildAt(index int, child *Element) {
	if child == nil || child == e {
		return
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = e
	index = max(0, min(index, len(e.children)))
	e.children = slices.Insert(e.children, index, child)
}

func (e *Element) RemoveChild(child *Element) {
	for i, c := range e.children {
		if c == child {
			e.RemoveChildAt(i)
			return
		}
	}
}

func (e *Element) RemoveChildAt(index int) {
	if index < 0 || index >= len(e.children) {
		return
	}
	e.children[index].parent = nil
	e.children = slices.Delete(e.children, index, index+1)
}

func (e *Element) Clear() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

// Contains reports whether node is e or one of its descendants.
func (e *Element) Contains(node *Element) bool {
	if e == nil {
		return false
	}
	for n := node; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

func (e *Element) Focusable() bool {
	return e.focusable
}

func (e *Element) SetFocusable(focusable bool) {
	e.focusable = focusable
}

// Hidden reports whether the node is hidden from assistive technology.
func (e *Element) Hidden() bool {
	return e.hidden
}

func (e *Element) SetHidden(hidden bool) {
	e.hidden = hidden
}

func (e *Element) Classes() []string {
	return slices.Clone(e.classes)
}

func (e *Element) HasClass(name string) bool {
	return slices.Contains(e.classes, name)
}

func (e *Element) AddClass(name string) {
	if name == "" || e.HasClass(name) {
		return
	}
	e.classes = append(e.classes, name)
}

func (e *Element) RemoveClass(name string) {
	if i := slices.Index(e.classes, name); i != -1 {
		e.classes = slices.Delete(e.classes, i, i+1)
	}
}

func (e *Element) Style() Style {
	return e.style
}

func (e *Element) SetStyle(style Style) {
	e.style = style
}

// SetExtent records the content height and the visible (viewport) height.
func (e *Element) SetExtent(scrollHeight, clientHeight int) {
	e.scrollHeight = scrollHeight
	e.clientHeight = clientHeight
}

func (e *Element) ScrollHeight() int {
	return e.scrollHeight
}

func (e *Element) ClientHeight() int {
	return e.clientHeight
}

// OnClick sets the handler invoked when a click reaches this node while bubbling.
func (e *Element) OnClick(fn func(target *Element)) {
	e.onClick = fn
}

// Render renders the subtree as lines, one per text node, wrapped to width.
func (e *Element) Render(width int) []string {
	var lines []string
	if e.text != "" {
		lines = append(lines, wrapText(e.text, width)...)
	}
	for _, child := range e.children {
		lines = append(lines, child.Render(width)...)
	}
	return lines
}

// wrapText breaks text at width terminal cells, keeping wide runes whole.
func wrapText(text string, width int) []string {
	if width > 0 {
		text = ansi.Hardwrap(text, width, true)
	}
	return strings.Split(text, "\n")
}
