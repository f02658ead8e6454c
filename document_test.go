package fastoverlay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentFocus(t *testing.T) {
	d := NewDocument()
	assert.Same(t, d.Body(), d.ActiveElement())

	btn := NewElement("btn")
	d.Body().AppendChild(btn)

	var seen []*Element
	remove := d.OnFocus(func(el *Element) { seen = append(seen, el) })
	d.Focus(btn)
	d.Focus(btn)
	d.Focus(nil)
	assert.Same(t, btn, d.ActiveElement())
	assert.Equal(t, []*Element{btn}, seen)

	remove()
	d.Blur()
	assert.Same(t, d.Body(), d.ActiveElement())
	assert.Len(t, seen, 1)
}

func TestDocumentActiveElementFallsBackWhenDetached(t *testing.T) {
	d := NewDocument()
	btn := NewElement("btn")
	d.Body().AppendChild(btn)
	d.Focus(btn)

	d.Body().RemoveChild(btn)
	assert.Same(t, d.Body(), d.ActiveElement())
}

func TestDocumentKeyListeners(t *testing.T) {
	d := NewDocument()
	var keys []string
	removeA := d.OnKey(func(ev *KeyEvent) { keys = append(keys, "a:"+ev.Key) })
	d.OnKey(func(ev *KeyEvent) { keys = append(keys, "b:"+ev.Key) })

	ev := d.DispatchInput("\t")
	assert.Equal(t, "tab", ev.Key)
	assert.Equal(t, "\t", ev.Raw)
	assert.Equal(t, []string{"a:tab", "b:tab"}, keys)

	removeA()
	removeA()
	d.DispatchKey(&KeyEvent{Key: "escape"})
	assert.Equal(t, []string{"a:tab", "b:tab", "b:escape"}, keys)
}

func TestDocumentListenerRemovedDuringDispatch(t *testing.T) {
	d := NewDocument()
	var calls int
	var removeSecond func()
	d.OnKey(func(*KeyEvent) {
		calls++
		removeSecond()
	})
	removeSecond = d.OnKey(func(*KeyEvent) { calls++ })

	d.DispatchKey(&KeyEvent{Key: "x"})
	assert.Equal(t, 2, calls, "dispatch runs over a snapshot")

	d.DispatchKey(&KeyEvent{Key: "x"})
	assert.Equal(t, 3, calls)
}

func TestDocumentClickBubbles(t *testing.T) {
	d := NewDocument()
	outer := NewElement("outer")
	inner := NewElement("inner")
	outer.AppendChild(inner)
	d.Body().AppendChild(outer)

	var got []string
	outer.OnClick(func(target *Element) { got = append(got, "outer:"+target.ID()) })
	d.Body().OnClick(func(target *Element) { got = append(got, "body:"+target.ID()) })

	d.DispatchClick(inner)
	assert.Equal(t, []string{"outer:inner", "body:inner"}, got)
}

func TestKeyEventPreventDefault(t *testing.T) {
	ev := &KeyEvent{Key: "escape"}
	assert.False(t, ev.DefaultPrevented())
	ev.PreventDefault()
	assert.True(t, ev.DefaultPrevented())
}
