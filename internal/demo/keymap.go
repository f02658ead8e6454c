package demo

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Open   key.Binding
	Static key.Binding
	Nested key.Binding
	Next   key.Binding
	Prev   key.Binding
	Select key.Binding
	Quit   key.Binding
	Force  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Static: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "static"),
		),
		Nested: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "stack"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Force: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

func (k keyMap) helpLine() string {
	var parts []string
	for _, b := range []key.Binding{k.Open, k.Static, k.Nested, k.Next, k.Select, k.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	parts = append(parts, "esc close")
	return strings.Join(parts, " • ")
}
